package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/status"
)

// Walks one self-found student through the whole pipeline, including a
// rejection detour at the application stage and dual grading at the end.
func TestInternshipPipelineEndToEnd(t *testing.T) {
	db := newTestDB(t)
	appSvc := &ApplicationService{DB: db, Notify: NopNotifier{}}
	agrSvc := &AgreementService{DB: db, Notify: NopNotifier{}}
	plcSvc := &PlacementService{DB: db, Notify: NopNotifier{}}
	taskSvc := &TaskService{DB: db, Notify: NopNotifier{}}
	rptSvc := &ReportService{DB: db, Notify: NopNotifier{}}

	admin := createUser(t, db, models.RoleSuperAdmin, nil)
	faculty := createUser(t, db, models.RoleFaculty, nil)
	companyAdmin := createUser(t, db, models.RoleCompany, func(u *models.User) { u.Company = "Acme" })
	student := createUser(t, db, models.RoleStudent, nil)

	// First attempt gets rejected.
	app, err := appSvc.Submit(student, ApplicationInput{Category: models.CategorySelfFound, CompanyName: "Globex"})
	require.NoError(t, err)
	_, err = appSvc.Decide(admin, app.ID, DecisionRejected, "company not accredited")
	require.NoError(t, err)
	assert.Equal(t, status.Rejected, reloadUser(t, db, student.ID).InternshipStatus)

	// Second attempt with a different company goes through.
	student = reloadUser(t, db, student.ID)
	app, err = appSvc.Submit(student, ApplicationInput{Category: models.CategorySelfFound, CompanyName: "Acme", Position: "Backend Intern"})
	require.NoError(t, err)
	_, err = appSvc.Decide(admin, app.ID, DecisionApproved, "")
	require.NoError(t, err)

	student = reloadUser(t, db, student.ID)
	assert.Equal(t, status.Approved, student.InternshipStatus)
	require.NotNil(t, student.InternshipCategory)
	assert.Equal(t, models.CategorySelfFound, *student.InternshipCategory)

	agreement, err := agrSvc.Submit(student, AgreementInput{
		ApplicationID: app.ID,
		CompanyName:   "Acme",
		ContactName:   "Jordan Lee",
		ContactEmail:  "jordan@acme.test",
	})
	require.NoError(t, err)
	_, err = agrSvc.Verify(faculty, agreement.ID, true)
	require.NoError(t, err)
	assert.Equal(t, status.Verified, reloadUser(t, db, student.ID).InternshipStatus)

	student2, err := plcSvc.Assign(admin, student.UserID, PlacementInput{
		FacultySupervisorID: faculty.UserID,
		Company:             "Acme",
		Position:            "Backend Intern",
		SiteSupervisorName:  "Sam Site",
		SiteSupervisorEmail: "sam@acme.test",
	})
	require.NoError(t, err)
	student = *student2
	assert.Equal(t, status.InternshipAssigned, student.InternshipStatus)

	// Company issues a task, the student submits, both sides grade.
	task, err := taskSvc.Create(companyAdmin, TaskInput{Title: "Ship the reporting endpoint"})
	require.NoError(t, err)
	sub, err := taskSvc.SubmitWork(student, task.ID, "endpoint shipped, docs attached", nil)
	require.NoError(t, err)
	sub, err = taskSvc.GradeByCompany(companyAdmin, sub.ID, 88, "clean work")
	require.NoError(t, err)
	sub, err = taskSvc.GradeByFaculty(faculty, sub.ID, 92, "well documented")
	require.NoError(t, err)
	assert.Equal(t, models.SubmissionStatusFullyGraded, sub.Status)

	// The supervisor of record closes out with a final report.
	grade := 90.0
	report, err := rptSvc.Upsert(faculty, student.UserID, ReportInput{
		Evaluation: "completed the placement with consistently strong output",
		Grade:      &grade,
	})
	require.NoError(t, err)
	require.NotNil(t, report.Grade)
	assert.Equal(t, 90.0, *report.Grade)
}

// The freelancer track replaces company tasks with weekly updates.
func TestFreelancerPipelineEndToEnd(t *testing.T) {
	db := newTestDB(t)
	appSvc := &ApplicationService{DB: db, Notify: NopNotifier{}}
	agrSvc := &AgreementService{DB: db, Notify: NopNotifier{}}
	plcSvc := &PlacementService{DB: db, Notify: NopNotifier{}}
	taskSvc := &TaskService{DB: db, Notify: NopNotifier{}}
	wkSvc := &WeeklyUpdateService{DB: db, Notify: NopNotifier{}}

	admin := createUser(t, db, models.RoleSuperAdmin, nil)
	faculty := createUser(t, db, models.RoleFaculty, nil)
	student := createUser(t, db, models.RoleStudent, nil)

	app, err := appSvc.Submit(student, ApplicationInput{Category: models.CategoryFreelancer, Details: "independent client work"})
	require.NoError(t, err)
	_, err = appSvc.Decide(admin, app.ID, DecisionApproved, "")
	require.NoError(t, err)

	student = reloadUser(t, db, student.ID)
	agreement, err := agrSvc.Submit(student, AgreementInput{
		ApplicationID: app.ID,
		CompanyName:   "Self-Employed",
		ContactName:   "Client Rep",
	})
	require.NoError(t, err)
	_, err = agrSvc.Verify(faculty, agreement.ID, true)
	require.NoError(t, err)

	student2, err := plcSvc.Assign(admin, student.UserID, PlacementInput{
		FacultySupervisorID: faculty.UserID,
		Company:             "Self-Employed",
		Position:            "Freelance Developer",
	})
	require.NoError(t, err)
	student = *student2

	tasks, err := taskSvc.ListForStudent(student)
	require.NoError(t, err)
	assert.Empty(t, tasks, "freelancers are outside the task track")

	for week := 1; week <= 3; week++ {
		_, err := wkSvc.Submit(student, week, "client deliverables on schedule", nil)
		require.NoError(t, err)
	}
	updates, err := wkSvc.ListByFaculty(faculty, student.UserID)
	require.NoError(t, err)
	require.Len(t, updates, 3)

	reviewed, err := wkSvc.Review(faculty, updates[0].ID, "keep it up")
	require.NoError(t, err)
	assert.Equal(t, models.WeeklyUpdateStatusReviewed, reviewed.Status)
}
