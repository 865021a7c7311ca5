package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ApplicationStatusPending    = "pending"
	ApplicationStatusApproved   = "approved"
	ApplicationStatusRejected   = "rejected"
	ApplicationStatusInProgress = "in_progress"
	ApplicationStatusCompleted  = "completed"
)

// Application is a student's placement request. At most one non-rejected
// application may exist per student; the partial unique index enforces that
// at the store level so concurrent submits cannot both slip past the check.
// A rejected application is edited in place on resubmission, never duplicated.
type Application struct {
	ID           string `gorm:"type:uuid;primaryKey"`
	StudentIDRef uint   `gorm:"index;uniqueIndex:uniq_active_application,where:status <> 'rejected'"`
	Status       string `gorm:"size:32;not null;default:pending;index"`

	Category    string `gorm:"size:32"`
	CompanyName string
	Position    string
	Details     string         `gorm:"type:text"`
	Documents   datatypes.JSON // opaque stored-file URIs

	Feedback  *string
	DecidedAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Application) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
