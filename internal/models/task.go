package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	TaskStatusActive = "active"
	TaskStatusClosed = "closed"
)

// Task is work posted by a company admin. Company is a snapshot of the
// creator's company at creation time; renames do not cascade. A nil
// AssignedToRef means the task is visible to the whole company roster.
type Task struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	Company       string `gorm:"index"`
	CreatedByRef  uint   `gorm:"index"`
	AssignedToRef *uint  `gorm:"index"`

	Title       string
	Description string `gorm:"type:text"`
	DueAt       *time.Time
	Status      string `gorm:"size:32;not null;default:active;index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (t *Task) BeforeCreate(tx *gorm.DB) (err error) {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	return nil
}
