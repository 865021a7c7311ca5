package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	SubmissionStatusSubmitted       = "submitted"
	SubmissionStatusGradedByCompany = "graded_by_company"
	SubmissionStatusGradedByFaculty = "graded_by_faculty"
	SubmissionStatusFullyGraded     = "fully_graded"
)

// Submission is a student's answer to a task, unique per (task, student).
// Status is derived from the two grade columns and is recomputed server-side
// on every write; it is never accepted from a client. Grades survive content
// resubmission.
type Submission struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	TaskID       string `gorm:"type:uuid;uniqueIndex:uniq_task_student"`
	StudentIDRef uint   `gorm:"uniqueIndex:uniq_task_student"`

	Content     string `gorm:"type:text"`
	Attachments datatypes.JSON
	SubmittedAt time.Time

	Status string `gorm:"size:32;not null;default:submitted;index"`

	CompanyMarks    *float64
	CompanyFeedback *string
	CompanyGradedAt *time.Time

	FacultyMarks    *float64
	FacultyFeedback *string
	FacultyGradedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (s *Submission) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
