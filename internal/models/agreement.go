package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	AgreementStatusSubmitted = "submitted"
	AgreementStatusVerified  = "verified"
)

// Agreement is the legal/contact agreement for one (student, application)
// pair, unique per student. Verification is monotonic: a verified agreement
// is never reverted; a faculty rejection resets the student, not the record.
type Agreement struct {
	ID            string `gorm:"type:uuid;primaryKey"`
	StudentIDRef  uint   `gorm:"uniqueIndex"`
	ApplicationID string `gorm:"type:uuid;index"`
	Status        string `gorm:"size:32;not null;default:submitted;index"`

	CompanyName    string
	CompanyAddress string
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	StartDate      *time.Time
	EndDate        *time.Time
	Documents      datatypes.JSON

	VerifiedAt    *time.Time
	VerifiedByRef *uint

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (a *Agreement) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	return nil
}
