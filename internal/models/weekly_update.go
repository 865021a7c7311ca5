package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	WeeklyUpdateStatusSubmitted = "submitted"
	WeeklyUpdateStatusReviewed  = "reviewed"
)

// WeeklyUpdate is the freelance-track counterpart of task submissions,
// unique per (student, week). Unlike task grades, a review does not survive
// resubmission of the same week.
type WeeklyUpdate struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	StudentIDRef uint   `gorm:"uniqueIndex:uniq_student_week"`
	WeekNumber   int    `gorm:"uniqueIndex:uniq_student_week"`

	Summary     string `gorm:"type:text"`
	HoursWorked *float64
	Status      string `gorm:"size:32;not null;default:submitted;index"`

	Remarks       *string
	ReviewedByRef *uint
	ReviewedAt    *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (w *WeeklyUpdate) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
