// Package status owns Student.InternshipStatus: the seven pipeline states,
// the legal transition graph, and the guarded write that applies an edge.
package status

import (
	"errors"

	"gorm.io/gorm"

	"github.com/avickk/internship_backend_v1/internal/models"
)

const (
	None               = "none"
	Submitted          = "submitted"
	Approved           = "approved"
	Rejected           = "rejected"
	AgreementSubmitted = "agreement_submitted"
	Verified           = "verified"
	InternshipAssigned = "internship_assigned"
)

var (
	// ErrIllegalTransition means the requested edge is not in the graph.
	ErrIllegalTransition = errors.New("illegal internship status transition")
	// ErrStaleStatus means the student was not in the expected source state
	// when the guarded update ran (another request got there first, or the
	// caller read a stale status).
	ErrStaleStatus = errors.New("internship status changed concurrently or operation not permitted from current status")
)

var transitions = map[string]map[string]struct{}{
	None:      {Submitted: {}},
	Submitted: {Approved: {}, Rejected: {}},
	Rejected:  {Submitted: {}},
	Approved:  {AgreementSubmitted: {}},
	AgreementSubmitted: {
		Verified: {},
		Approved: {}, // agreement rejected; student resubmits
	},
	Verified: {InternshipAssigned: {}},
}

func Valid(s string) bool {
	switch s {
	case None, Submitted, Approved, Rejected, AgreementSubmitted, Verified, InternshipAssigned:
		return true
	}
	return false
}

func CanTransition(from, to string) bool {
	targets, ok := transitions[from]
	if !ok {
		return false
	}
	_, ok = targets[to]
	return ok
}

// Apply moves a student from one status to another with a single guarded
// UPDATE. The WHERE clause re-checks the source status so the entity write
// and the status write commit as one unit inside the caller's transaction;
// zero rows affected means the student was not where the caller thought.
// Extra columns (placement fields, category) ride along in the same update.
func Apply(tx *gorm.DB, studentRef uint, from, to string, extra map[string]interface{}) error {
	if !CanTransition(from, to) {
		return ErrIllegalTransition
	}
	updates := map[string]interface{}{"internship_status": to}
	for k, v := range extra {
		updates[k] = v
	}
	res := tx.Model(&models.User{}).
		Where("id = ? AND internship_status = ?", studentRef, from).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrStaleStatus
	}
	return nil
}
