package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/status"
)

func TestPlacementAssign(t *testing.T) {
	db := newTestDB(t)
	appSvc := &ApplicationService{DB: db, Notify: NopNotifier{}}
	agrSvc := &AgreementService{DB: db, Notify: NopNotifier{}}
	plcSvc := &PlacementService{DB: db, Notify: NopNotifier{}}
	student := createUser(t, db, models.RoleStudent, nil)
	admin := createUser(t, db, models.RoleSuperAdmin, nil)
	faculty := createUser(t, db, models.RoleFaculty, nil)

	student, app := approvedApplicant(t, appSvc, student, admin)
	agreement, err := agrSvc.Submit(student, AgreementInput{ApplicationID: app.ID, CompanyName: "Acme", ContactName: "Jo"})
	require.NoError(t, err)
	_, err = agrSvc.Verify(faculty, agreement.ID, true)
	require.NoError(t, err)

	placed, err := plcSvc.Assign(admin, student.UserID, PlacementInput{
		FacultySupervisorID: faculty.UserID,
		Company:             "Acme",
		Position:            "Backend Intern",
		SiteSupervisorName:  "Sam Site",
		SiteSupervisorEmail: "sam@acme.test",
	})
	require.NoError(t, err)

	assert.Equal(t, status.InternshipAssigned, placed.InternshipStatus)
	require.NotNil(t, placed.AssignedCompany)
	assert.Equal(t, "Acme", *placed.AssignedCompany)
	require.NotNil(t, placed.FacultySupervisorRef)
	assert.Equal(t, faculty.ID, *placed.FacultySupervisorRef)

	var stored models.Application
	require.NoError(t, db.Where("id = ?", app.ID).First(&stored).Error)
	assert.Equal(t, models.ApplicationStatusInProgress, stored.Status)
}

func TestPlacementAssignGuards(t *testing.T) {
	db := newTestDB(t)
	plcSvc := &PlacementService{DB: db, Notify: NopNotifier{}}
	admin := createUser(t, db, models.RoleSuperAdmin, nil)
	faculty := createUser(t, db, models.RoleFaculty, nil)

	// Not verified yet.
	student := createUser(t, db, models.RoleStudent, func(u *models.User) {
		u.InternshipStatus = status.Approved
	})
	_, err := plcSvc.Assign(admin, student.UserID, PlacementInput{
		FacultySupervisorID: faculty.UserID,
		Company:             "Acme",
		Position:            "Intern",
	})
	var invalid *InvalidStateError
	assert.ErrorAs(t, err, &invalid)
	assert.Equal(t, status.Approved, reloadUser(t, db, student.ID).InternshipStatus)

	// Unknown student and unknown supervisor.
	_, err = plcSvc.Assign(admin, "no-such-student", PlacementInput{
		FacultySupervisorID: faculty.UserID, Company: "Acme", Position: "Intern",
	})
	var notFound *NotFoundError
	assert.ErrorAs(t, err, &notFound)

	verified := createUser(t, db, models.RoleStudent, func(u *models.User) {
		u.InternshipStatus = status.Verified
	})
	_, err = plcSvc.Assign(admin, verified.UserID, PlacementInput{
		FacultySupervisorID: "no-such-faculty", Company: "Acme", Position: "Intern",
	})
	assert.ErrorAs(t, err, &notFound)
}
