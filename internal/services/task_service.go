package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/status"
)

type TaskService struct {
	DB     *gorm.DB
	Notify Notifier
}

type TaskInput struct {
	Title       string
	Description string
	DueAt       *time.Time
	AssignedTo  string // optional public user id; empty means whole roster
}

// Create posts a task for the creator's company. The company name is
// snapshotted from the creator so later renames do not move existing tasks.
func (s *TaskService) Create(actor models.User, in TaskInput) (*models.Task, error) {
	if actor.Role != models.RoleCompany {
		return nil, &AuthorizationError{Msg: "only company admins can create tasks"}
	}
	if actor.Company == "" {
		return nil, &ValidationError{Msg: "acting admin has no company set"}
	}
	if in.Title == "" {
		return nil, &ValidationError{Msg: "title is required"}
	}

	task := models.Task{
		Company:      actor.Company,
		CreatedByRef: actor.ID,
		Title:        in.Title,
		Description:  in.Description,
		DueAt:        in.DueAt,
		Status:       models.TaskStatusActive,
	}
	if in.AssignedTo != "" {
		var target models.User
		if err := s.DB.Where("user_id = ? AND role = ?", in.AssignedTo, models.RoleStudent).First(&target).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, &NotFoundError{Entity: "student", ID: in.AssignedTo}
			}
			return nil, err
		}
		task.AssignedToRef = &target.ID
	}
	if err := s.DB.Create(&task).Error; err != nil {
		return nil, err
	}

	s.Notify.Publish(event(EventTaskCreated, actor.UserID, in.AssignedTo, task.ID))
	return &task, nil
}

// Close takes a task off the active pool. Creator only.
func (s *TaskService) Close(actor models.User, taskID string) (*models.Task, error) {
	task, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if task.CreatedByRef != actor.ID && actor.Role != models.RoleSuperAdmin {
		return nil, &AuthorizationError{Msg: "only the task creator can close it"}
	}
	if task.Status != models.TaskStatusActive {
		return nil, &InvalidStateError{Msg: "task is already closed"}
	}
	if err := s.DB.Model(&models.Task{}).Where("id = ?", task.ID).Update("status", models.TaskStatusClosed).Error; err != nil {
		return nil, err
	}
	task.Status = models.TaskStatusClosed
	return task, nil
}

// ListForCompany returns every task posted under the admin's company,
// case-insensitively, newest first.
func (s *TaskService) ListForCompany(actor models.User) ([]models.Task, error) {
	if actor.Company == "" {
		return nil, &ValidationError{Msg: "acting admin has no company set"}
	}
	var tasks []models.Task
	err := s.DB.Where("LOWER(company) = LOWER(?)", actor.Company).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// ListForStudent applies the visibility rule: active tasks of the student's
// assigned company (case-insensitive), broadcast or addressed to them.
// Freelancers never see tasks.
func (s *TaskService) ListForStudent(student models.User) ([]models.Task, error) {
	if isFreelancer(student) || student.AssignedCompany == nil || *student.AssignedCompany == "" {
		return []models.Task{}, nil
	}
	var tasks []models.Task
	err := s.DB.
		Where("status = ? AND LOWER(company) = LOWER(?)", models.TaskStatusActive, *student.AssignedCompany).
		Where("assigned_to_ref IS NULL OR assigned_to_ref = ?", student.ID).
		Order("created_at DESC").
		Find(&tasks).Error
	return tasks, err
}

// SubmitWork upserts the student's answer keyed on (task, student); there is
// never a second row for a resubmission. Grade columns are untouched, and
// the status is recomputed from them in the same statement, so a content
// rewrite only returns the status to "submitted" when no grade exists yet.
func (s *TaskService) SubmitWork(student models.User, taskID, content string, attachments datatypes.JSON) (*models.Submission, error) {
	if isFreelancer(student) {
		return nil, &AuthorizationError{Msg: "freelancer-track students do not submit tasks"}
	}
	if student.InternshipStatus != status.InternshipAssigned {
		return nil, &InvalidStateError{Msg: fmt.Sprintf("cannot submit work while internship status is %s", student.InternshipStatus)}
	}
	if content == "" {
		return nil, &ValidationError{Msg: "content is required"}
	}

	task, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if task.Status != models.TaskStatusActive {
		return nil, &InvalidStateError{Msg: "task is closed"}
	}
	assigned := ""
	if student.AssignedCompany != nil {
		assigned = *student.AssignedCompany
	}
	if !strings.EqualFold(task.Company, assigned) {
		return nil, &ValidationError{Msg: fmt.Sprintf("task belongs to company %q but the student is assigned to %q", task.Company, assigned)}
	}
	if task.AssignedToRef != nil && *task.AssignedToRef != student.ID {
		return nil, &AuthorizationError{Msg: "task is assigned to another student"}
	}

	now := time.Now().UTC()
	sub := models.Submission{
		TaskID:       task.ID,
		StudentIDRef: student.ID,
		Content:      content,
		Attachments:  attachments,
		SubmittedAt:  now,
		Status:       models.SubmissionStatusSubmitted,
	}
	err = s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "task_id"}, {Name: "student_id_ref"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"content":      content,
			"attachments":  attachments,
			"submitted_at": now,
			"updated_at":   now,
			"status":       derivedStatusExpr(),
		}),
	}).Create(&sub).Error
	if err != nil {
		return nil, err
	}

	var stored models.Submission
	if err := s.DB.Where("task_id = ? AND student_id_ref = ?", task.ID, student.ID).First(&stored).Error; err != nil {
		return nil, err
	}

	s.Notify.Publish(event(EventSubmissionReceived, student.UserID, student.UserID, stored.ID))
	return &stored, nil
}

// GradeByCompany records the company side of the dual grade. Only the
// creator of the submission's task may grade. The write touches the company
// columns plus a server-side status recomputation in one UPDATE, so a
// concurrent faculty grade can never be clobbered or produce a stale
// composite status.
func (s *TaskService) GradeByCompany(actor models.User, submissionID string, marks float64, feedback string) (*models.Submission, error) {
	if err := validMarks(marks); err != nil {
		return nil, err
	}
	sub, err := s.getSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	task, err := s.getTask(sub.TaskID)
	if err != nil {
		return nil, err
	}
	if task.CreatedByRef != actor.ID {
		return nil, &AuthorizationError{Msg: "only the creator of the task can grade its submissions"}
	}

	now := time.Now().UTC()
	err = s.DB.Model(&models.Submission{}).Where("id = ?", sub.ID).Updates(map[string]interface{}{
		"company_marks":     marks,
		"company_feedback":  feedback,
		"company_graded_at": now,
		"status": gorm.Expr(
			"CASE WHEN faculty_marks IS NOT NULL THEN ? ELSE ? END",
			models.SubmissionStatusFullyGraded, models.SubmissionStatusGradedByCompany,
		),
	}).Error
	if err != nil {
		return nil, err
	}
	return s.afterGrade(actor, sub.ID, sub.StudentIDRef)
}

// GradeByFaculty is the symmetric faculty half. Only the supervisor of
// record for the submission's student may grade (super-admin passes).
func (s *TaskService) GradeByFaculty(actor models.User, submissionID string, marks float64, feedback string) (*models.Submission, error) {
	if err := validMarks(marks); err != nil {
		return nil, err
	}
	sub, err := s.getSubmission(submissionID)
	if err != nil {
		return nil, err
	}
	if err := s.requireSupervisorOfRecord(actor, sub.StudentIDRef); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	err = s.DB.Model(&models.Submission{}).Where("id = ?", sub.ID).Updates(map[string]interface{}{
		"faculty_marks":     marks,
		"faculty_feedback":  feedback,
		"faculty_graded_at": now,
		"status": gorm.Expr(
			"CASE WHEN company_marks IS NOT NULL THEN ? ELSE ? END",
			models.SubmissionStatusFullyGraded, models.SubmissionStatusGradedByFaculty,
		),
	}).Error
	if err != nil {
		return nil, err
	}
	return s.afterGrade(actor, sub.ID, sub.StudentIDRef)
}

// ListSubmissionsForTask returns a task's submissions to its creator.
func (s *TaskService) ListSubmissionsForTask(actor models.User, taskID string) ([]models.Submission, error) {
	task, err := s.getTask(taskID)
	if err != nil {
		return nil, err
	}
	if task.CreatedByRef != actor.ID && actor.Role != models.RoleSuperAdmin {
		return nil, &AuthorizationError{Msg: "only the task creator can list its submissions"}
	}
	var subs []models.Submission
	err = s.DB.Where("task_id = ?", task.ID).Order("submitted_at DESC").Find(&subs).Error
	return subs, err
}

// ListSubmissionsForStudent returns a student's submissions to their
// supervisor of record.
func (s *TaskService) ListSubmissionsForStudent(actor models.User, studentUserID string) ([]models.Submission, error) {
	var student models.User
	if err := s.DB.Where("user_id = ? AND role = ?", studentUserID, models.RoleStudent).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "student", ID: studentUserID}
		}
		return nil, err
	}
	if err := s.requireSupervisorOfRecord(actor, student.ID); err != nil {
		return nil, err
	}
	var subs []models.Submission
	err := s.DB.Where("student_id_ref = ?", student.ID).Order("submitted_at DESC").Find(&subs).Error
	return subs, err
}

func (s *TaskService) afterGrade(actor models.User, submissionID string, studentRef uint) (*models.Submission, error) {
	var stored models.Submission
	if err := s.DB.Where("id = ?", submissionID).First(&stored).Error; err != nil {
		return nil, err
	}
	evType := EventSubmissionGraded
	if stored.Status == models.SubmissionStatusFullyGraded {
		evType = EventSubmissionFullGraded
	}
	s.Notify.Publish(event(evType, actor.UserID, s.studentUserID(studentRef), stored.ID))
	return &stored, nil
}

func (s *TaskService) requireSupervisorOfRecord(actor models.User, studentRef uint) error {
	if actor.Role == models.RoleSuperAdmin {
		return nil
	}
	var student models.User
	if err := s.DB.Where("id = ?", studentRef).First(&student).Error; err != nil {
		return err
	}
	if student.FacultySupervisorRef == nil || *student.FacultySupervisorRef != actor.ID {
		return &AuthorizationError{Msg: "acting admin is not the student's supervisor of record"}
	}
	return nil
}

func (s *TaskService) getTask(id string) (*models.Task, error) {
	var task models.Task
	if err := s.DB.Where("id = ?", id).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "task", ID: id}
		}
		return nil, err
	}
	return &task, nil
}

func (s *TaskService) getSubmission(id string) (*models.Submission, error) {
	var sub models.Submission
	if err := s.DB.Where("id = ?", id).First(&sub).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "submission", ID: id}
		}
		return nil, err
	}
	return &sub, nil
}

func (s *TaskService) studentUserID(ref uint) string {
	var u models.User
	if err := s.DB.Select("user_id").Where("id = ?", ref).First(&u).Error; err != nil {
		return ""
	}
	return u.UserID
}

// derivedStatusExpr recomputes the composite status from the grade columns
// of the existing row during an upsert.
func derivedStatusExpr() interface{} {
	return gorm.Expr(
		"CASE WHEN company_marks IS NOT NULL AND faculty_marks IS NOT NULL THEN ? WHEN company_marks IS NOT NULL THEN ? WHEN faculty_marks IS NOT NULL THEN ? ELSE ? END",
		models.SubmissionStatusFullyGraded,
		models.SubmissionStatusGradedByCompany,
		models.SubmissionStatusGradedByFaculty,
		models.SubmissionStatusSubmitted,
	)
}

func validMarks(marks float64) error {
	if marks < 0 || marks > 100 {
		return &ValidationError{Msg: "marks must be between 0 and 100"}
	}
	return nil
}

func isFreelancer(u models.User) bool {
	return u.InternshipCategory != nil && *u.InternshipCategory == models.CategoryFreelancer
}
