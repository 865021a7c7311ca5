package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Report is the final evaluation a faculty supervisor files for a placed
// student, unique per (student, author). A second submission by the same
// author updates the record in place.
type Report struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	StudentIDRef uint   `gorm:"uniqueIndex:uniq_student_author"`
	AuthorIDRef  uint   `gorm:"uniqueIndex:uniq_student_author"`

	Evaluation string `gorm:"type:text"`
	Grade      *float64
	Remarks    *string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (r *Report) BeforeCreate(tx *gorm.DB) (err error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}
