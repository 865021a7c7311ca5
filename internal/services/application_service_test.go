package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/status"
)

func TestApplicationSubmit(t *testing.T) {
	db := newTestDB(t)
	svc := &ApplicationService{DB: db, Notify: NopNotifier{}}
	student := createUser(t, db, models.RoleStudent, nil)

	app, err := svc.Submit(student, ApplicationInput{
		Category:    models.CategorySelfFound,
		CompanyName: "Acme",
		Position:    "Backend Intern",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusPending, app.Status)
	assert.Equal(t, status.Submitted, reloadUser(t, db, student.ID).InternshipStatus)
}

func TestApplicationSubmitConflictWhileActive(t *testing.T) {
	db := newTestDB(t)
	svc := &ApplicationService{DB: db, Notify: NopNotifier{}}
	student := createUser(t, db, models.RoleStudent, nil)

	_, err := svc.Submit(student, ApplicationInput{Category: models.CategorySelfFound, CompanyName: "Acme"})
	require.NoError(t, err)

	student = reloadUser(t, db, student.ID)
	_, err = svc.Submit(student, ApplicationInput{Category: models.CategorySelfFound, CompanyName: "Globex"})
	var conflict *ConflictError
	assert.ErrorAs(t, err, &conflict)

	var count int64
	require.NoError(t, db.Model(&models.Application{}).Where("student_id_ref = ?", student.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestApplicationResubmitAfterRejectionReusesRecord(t *testing.T) {
	db := newTestDB(t)
	svc := &ApplicationService{DB: db, Notify: NopNotifier{}}
	student := createUser(t, db, models.RoleStudent, nil)
	admin := createUser(t, db, models.RoleSuperAdmin, nil)

	app, err := svc.Submit(student, ApplicationInput{Category: models.CategorySelfFound, CompanyName: "Acme"})
	require.NoError(t, err)

	_, err = svc.Decide(admin, app.ID, DecisionRejected, "incomplete documents")
	require.NoError(t, err)
	assert.Equal(t, status.Rejected, reloadUser(t, db, student.ID).InternshipStatus)

	student = reloadUser(t, db, student.ID)
	again, err := svc.Submit(student, ApplicationInput{Category: models.CategorySelfFound, CompanyName: "Globex", Position: "QA Intern"})
	require.NoError(t, err)
	assert.Equal(t, app.ID, again.ID, "resubmission must reuse the rejected record")
	assert.Equal(t, models.ApplicationStatusPending, again.Status)
	assert.Equal(t, status.Submitted, reloadUser(t, db, student.ID).InternshipStatus)

	var stored models.Application
	require.NoError(t, db.Where("id = ?", app.ID).First(&stored).Error)
	assert.Equal(t, "Globex", stored.CompanyName)
	assert.Nil(t, stored.Feedback)
	assert.Nil(t, stored.DecidedAt)

	var count int64
	require.NoError(t, db.Model(&models.Application{}).Where("student_id_ref = ?", student.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestApplicationDecide(t *testing.T) {
	db := newTestDB(t)
	svc := &ApplicationService{DB: db, Notify: NopNotifier{}}
	student := createUser(t, db, models.RoleStudent, nil)
	admin := createUser(t, db, models.RoleSuperAdmin, nil)

	app, err := svc.Submit(student, ApplicationInput{Category: models.CategoryUniversityAssigned, CompanyName: "Acme"})
	require.NoError(t, err)

	decided, err := svc.Decide(admin, app.ID, DecisionApproved, "looks good")
	require.NoError(t, err)
	assert.Equal(t, models.ApplicationStatusApproved, decided.Status)
	require.NotNil(t, decided.Feedback)
	assert.Equal(t, "looks good", *decided.Feedback)

	reloaded := reloadUser(t, db, student.ID)
	assert.Equal(t, status.Approved, reloaded.InternshipStatus)
	require.NotNil(t, reloaded.InternshipCategory)
	assert.Equal(t, models.CategoryUniversityAssigned, *reloaded.InternshipCategory)

	// A decided application cannot be decided again.
	_, err = svc.Decide(admin, app.ID, DecisionRejected, "")
	var invalid *InvalidStateError
	assert.ErrorAs(t, err, &invalid)
}

func TestApplicationDecideValidation(t *testing.T) {
	db := newTestDB(t)
	svc := &ApplicationService{DB: db, Notify: NopNotifier{}}
	admin := createUser(t, db, models.RoleSuperAdmin, nil)

	_, err := svc.Decide(admin, "no-such-id", DecisionApproved, "")
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)

	_, err = svc.Decide(admin, "whatever", "maybe", "")
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)
}

func TestApplicationActiveIndexEnforcedByStore(t *testing.T) {
	db := newTestDB(t)
	student := createUser(t, db, models.RoleStudent, nil)

	first := models.Application{
		StudentIDRef: student.ID,
		Status:       models.ApplicationStatusPending,
		Category:     models.CategorySelfFound,
		CompanyName:  "Acme",
	}
	require.NoError(t, db.Create(&first).Error)

	// A second non-rejected row must be rejected by the index itself, with
	// no service-level check in between.
	second := models.Application{
		StudentIDRef: student.ID,
		Status:       models.ApplicationStatusPending,
		Category:     models.CategorySelfFound,
		CompanyName:  "Globex",
	}
	err := db.Create(&second).Error
	require.Error(t, err)
	assert.True(t, isDuplicate(err), "unique violation must be recognized as a duplicate: %v", err)

	// Rejected rows fall outside the partial index and may pile up.
	for _, company := range []string{"Initech", "Umbrella"} {
		rejected := models.Application{
			StudentIDRef: student.ID,
			Status:       models.ApplicationStatusRejected,
			Category:     models.CategorySelfFound,
			CompanyName:  company,
		}
		require.NoError(t, db.Create(&rejected).Error)
	}

	var count int64
	require.NoError(t, db.Model(&models.Application{}).Where("student_id_ref = ?", student.ID).Count(&count).Error)
	assert.EqualValues(t, 3, count)
}

func TestApplicationSubmitValidation(t *testing.T) {
	db := newTestDB(t)
	svc := &ApplicationService{DB: db, Notify: NopNotifier{}}
	student := createUser(t, db, models.RoleStudent, nil)
	faculty := createUser(t, db, models.RoleFaculty, nil)

	_, err := svc.Submit(student, ApplicationInput{Category: "consultant"})
	var validation *ValidationError
	assert.ErrorAs(t, err, &validation)

	_, err = svc.Submit(faculty, ApplicationInput{Category: models.CategorySelfFound, CompanyName: "Acme"})
	var authz *AuthorizationError
	assert.ErrorAs(t, err, &authz)
}
