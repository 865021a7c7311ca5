package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValid(t *testing.T) {
	for _, s := range []string{None, Submitted, Approved, Rejected, AgreementSubmitted, Verified, InternshipAssigned} {
		assert.True(t, Valid(s), s)
	}
	assert.False(t, Valid("completed"))
	assert.False(t, Valid(""))
}

func TestTransitionGraph(t *testing.T) {
	legal := [][2]string{
		{None, Submitted},
		{Submitted, Approved},
		{Submitted, Rejected},
		{Rejected, Submitted},
		{Approved, AgreementSubmitted},
		{AgreementSubmitted, Verified},
		{AgreementSubmitted, Approved},
		{Verified, InternshipAssigned},
	}
	for _, edge := range legal {
		assert.True(t, CanTransition(edge[0], edge[1]), "%s -> %s", edge[0], edge[1])
	}

	illegal := [][2]string{
		{None, Approved},
		{None, Verified},
		{Submitted, Verified},
		{Submitted, InternshipAssigned},
		{Approved, Verified},
		{Approved, Submitted},
		{Verified, AgreementSubmitted},
		{Verified, Approved},
		{InternshipAssigned, Verified},
		{InternshipAssigned, None},
		{Rejected, Approved},
		{AgreementSubmitted, InternshipAssigned},
	}
	for _, edge := range illegal {
		assert.False(t, CanTransition(edge[0], edge[1]), "%s -> %s", edge[0], edge[1])
	}

	// No edge may lead outside the enumeration.
	for from, targets := range transitions {
		assert.True(t, Valid(from))
		for to := range targets {
			assert.True(t, Valid(to))
		}
	}
}
