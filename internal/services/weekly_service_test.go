package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/status"
)

func TestWeeklyUpdateGuards(t *testing.T) {
	db := newTestDB(t)
	svc := &WeeklyUpdateService{DB: db, Notify: NopNotifier{}}
	faculty := createUser(t, db, models.RoleFaculty, nil)

	regular := createPlacedStudent(t, db, "Acme", models.CategorySelfFound, &faculty)
	_, err := svc.Submit(regular, 1, "did things", nil)
	var authz *AuthorizationError
	assert.ErrorAs(t, err, &authz, "weekly updates are freelancer-only")

	unplaced := createUser(t, db, models.RoleStudent, func(u *models.User) {
		u.InternshipCategory = strPtr(models.CategoryFreelancer)
		u.InternshipStatus = status.Approved
	})
	_, err = svc.Submit(unplaced, 1, "did things", nil)
	var invalid *InvalidStateError
	assert.ErrorAs(t, err, &invalid)

	freelancer := createPlacedStudent(t, db, "", models.CategoryFreelancer, &faculty)
	_, err = svc.Submit(freelancer, 0, "did things", nil)
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
	_, err = svc.Submit(freelancer, 1, "", nil)
	assert.ErrorAs(t, err, &validation)
}

func TestWeeklyUpdateUpsertClearsReview(t *testing.T) {
	db := newTestDB(t)
	svc := &WeeklyUpdateService{DB: db, Notify: NopNotifier{}}
	faculty := createUser(t, db, models.RoleFaculty, nil)
	freelancer := createPlacedStudent(t, db, "", models.CategoryFreelancer, &faculty)

	hours := 12.5
	upd, err := svc.Submit(freelancer, 3, "built the landing page", &hours)
	require.NoError(t, err)
	assert.Equal(t, models.WeeklyUpdateStatusSubmitted, upd.Status)

	reviewed, err := svc.Review(faculty, upd.ID, "good pace")
	require.NoError(t, err)
	assert.Equal(t, models.WeeklyUpdateStatusReviewed, reviewed.Status)
	require.NotNil(t, reviewed.Remarks)
	assert.Equal(t, "good pace", *reviewed.Remarks)

	// Resubmitting the same week overwrites and clears the review.
	again, err := svc.Submit(freelancer, 3, "rebuilt the landing page", nil)
	require.NoError(t, err)
	assert.Equal(t, upd.ID, again.ID)
	assert.Equal(t, models.WeeklyUpdateStatusSubmitted, again.Status)
	assert.Nil(t, again.Remarks)
	assert.Nil(t, again.ReviewedAt)

	var count int64
	require.NoError(t, db.Model(&models.WeeklyUpdate{}).
		Where("student_id_ref = ? AND week_number = ?", freelancer.ID, 3).
		Count(&count).Error)
	assert.EqualValues(t, 1, count)

	// A different week is its own row.
	_, err = svc.Submit(freelancer, 4, "shipped it", nil)
	require.NoError(t, err)
	updates, err := svc.ListForStudent(freelancer)
	require.NoError(t, err)
	assert.Len(t, updates, 2)
}

func TestWeeklyUpdateReviewAuthorization(t *testing.T) {
	db := newTestDB(t)
	svc := &WeeklyUpdateService{DB: db, Notify: NopNotifier{}}
	faculty := createUser(t, db, models.RoleFaculty, nil)
	freelancer := createPlacedStudent(t, db, "", models.CategoryFreelancer, &faculty)

	upd, err := svc.Submit(freelancer, 1, "started", nil)
	require.NoError(t, err)

	stranger := createUser(t, db, models.RoleFaculty, nil)
	_, err = svc.Review(stranger, upd.ID, "nope")
	var authz *AuthorizationError
	assert.ErrorAs(t, err, &authz)

	_, err = svc.ListByFaculty(stranger, freelancer.UserID)
	assert.ErrorAs(t, err, &authz)

	_, err = svc.Review(faculty, "no-such-update", "x")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)
}
