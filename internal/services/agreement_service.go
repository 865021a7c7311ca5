package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/status"
)

type AgreementService struct {
	DB     *gorm.DB
	Notify Notifier
}

type AgreementInput struct {
	ApplicationID  string
	CompanyName    string
	CompanyAddress string
	ContactName    string
	ContactEmail   string
	ContactPhone   string
	StartDate      *time.Time
	EndDate        *time.Time
	Documents      datatypes.JSON
}

// Submit files (or refiles) the student's agreement against their approved
// application and moves the student to "agreement_submitted". The agreement
// is unique per student; refiling after a faculty rejection updates the same
// record, and concurrent duplicate creates collapse into one row at the
// store level.
func (s *AgreementService) Submit(student models.User, in AgreementInput) (*models.Agreement, error) {
	if student.Role != models.RoleStudent {
		return nil, &AuthorizationError{Msg: "only students can submit agreements"}
	}
	if in.ApplicationID == "" {
		return nil, &ValidationError{Msg: "application_id is required"}
	}
	if in.CompanyName == "" || in.ContactName == "" {
		return nil, &ValidationError{Msg: "company_name and contact_name are required"}
	}
	if student.InternshipStatus != status.Approved && student.InternshipStatus != status.AgreementSubmitted {
		return nil, &InvalidStateError{Msg: fmt.Sprintf("cannot submit agreement while internship status is %s", student.InternshipStatus)}
	}

	var app models.Application
	if err := s.DB.Where("id = ?", in.ApplicationID).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "application", ID: in.ApplicationID}
		}
		return nil, err
	}
	if app.StudentIDRef != student.ID {
		return nil, &AuthorizationError{Msg: "application belongs to another student"}
	}
	if app.Status != models.ApplicationStatusApproved {
		return nil, &InvalidStateError{Msg: fmt.Sprintf("application is %s, agreements require an approved application", app.Status)}
	}

	var agreement models.Agreement
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := s.upsert(tx, student.ID, in, &agreement); err != nil {
			return err
		}
		if student.InternshipStatus == status.Approved {
			if err := status.Apply(tx, student.ID, status.Approved, status.AgreementSubmitted, nil); err != nil {
				return wrapTransition(err, "submit agreement")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Notify.Publish(event(EventAgreementSubmitted, student.UserID, student.UserID, agreement.ID))
	return &agreement, nil
}

// upsert writes the one agreement row per student in a single statement, so
// a lost create race never leaves the transaction aborted mid-flight. The
// conflict update is guarded against verified rows; verification is
// monotonic and a verified agreement is never rewritten.
func (s *AgreementService) upsert(tx *gorm.DB, studentRef uint, in AgreementInput, out *models.Agreement) error {
	fresh := models.Agreement{
		StudentIDRef:   studentRef,
		ApplicationID:  in.ApplicationID,
		Status:         models.AgreementStatusSubmitted,
		CompanyName:    in.CompanyName,
		CompanyAddress: in.CompanyAddress,
		ContactName:    in.ContactName,
		ContactEmail:   in.ContactEmail,
		ContactPhone:   in.ContactPhone,
		StartDate:      in.StartDate,
		EndDate:        in.EndDate,
		Documents:      in.Documents,
	}
	err := tx.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id_ref"}},
		Where: clause.Where{Exprs: []clause.Expression{
			gorm.Expr("agreements.status <> ?", models.AgreementStatusVerified),
		}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"application_id":  in.ApplicationID,
			"status":          models.AgreementStatusSubmitted,
			"company_name":    in.CompanyName,
			"company_address": in.CompanyAddress,
			"contact_name":    in.ContactName,
			"contact_email":   in.ContactEmail,
			"contact_phone":   in.ContactPhone,
			"start_date":      in.StartDate,
			"end_date":        in.EndDate,
			"documents":       in.Documents,
		}),
	}).Create(&fresh).Error
	if err != nil {
		return err
	}
	if err := tx.Where("student_id_ref = ?", studentRef).First(out).Error; err != nil {
		return err
	}
	if out.Status == models.AgreementStatusVerified {
		// The guarded conflict update left the verified row untouched.
		return &InvalidStateError{Msg: "agreement is already verified"}
	}
	return nil
}

// ListSubmitted returns agreements awaiting verification. Faculty callers
// see every submitted agreement; assignment to a supervisor happens later,
// at placement.
func (s *AgreementService) ListSubmitted() ([]models.Agreement, error) {
	var agreements []models.Agreement
	err := s.DB.Where("status = ?", models.AgreementStatusSubmitted).
		Order("created_at ASC").
		Find(&agreements).Error
	return agreements, err
}

// Verify records a faculty decision on a submitted agreement. Approval makes
// the agreement verified and the student "verified". Rejection leaves the
// agreement submitted (the student edits and refiles it) and returns the
// student to "approved".
func (s *AgreementService) Verify(actor models.User, agreementID string, approve bool) (*models.Agreement, error) {
	var agreement models.Agreement
	if err := s.DB.Where("id = ?", agreementID).First(&agreement).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "agreement", ID: agreementID}
		}
		return nil, err
	}
	if agreement.Status != models.AgreementStatusSubmitted {
		return nil, &InvalidStateError{Msg: fmt.Sprintf("agreement is %s, only submitted agreements can be verified", agreement.Status)}
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if approve {
			now := time.Now().UTC()
			res := tx.Model(&models.Agreement{}).
				Where("id = ? AND status = ?", agreement.ID, models.AgreementStatusSubmitted).
				Updates(map[string]interface{}{
					"status":          models.AgreementStatusVerified,
					"verified_at":     now,
					"verified_by_ref": actor.ID,
				})
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return &InvalidStateError{Msg: "agreement was verified concurrently"}
			}
			agreement.Status = models.AgreementStatusVerified
			agreement.VerifiedAt = &now
			agreement.VerifiedByRef = &actor.ID
			if err := status.Apply(tx, agreement.StudentIDRef, status.AgreementSubmitted, status.Verified, nil); err != nil {
				return wrapTransition(err, "verify agreement")
			}
			return nil
		}
		// Rejection: the agreement record stays submitted for refiling.
		if err := status.Apply(tx, agreement.StudentIDRef, status.AgreementSubmitted, status.Approved, nil); err != nil {
			return wrapTransition(err, "reject agreement")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	evType := EventAgreementVerified
	if !approve {
		evType = EventAgreementRejected
	}
	s.Notify.Publish(event(evType, actor.UserID, s.studentUserID(agreement.StudentIDRef), agreement.ID))
	return &agreement, nil
}

func (s *AgreementService) studentUserID(ref uint) string {
	var u models.User
	if err := s.DB.Select("user_id").Where("id = ?", ref).First(&u).Error; err != nil {
		return ""
	}
	return u.UserID
}
