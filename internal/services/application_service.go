package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/status"
)

type ApplicationService struct {
	DB     *gorm.DB
	Notify Notifier
}

type ApplicationInput struct {
	Category    string
	CompanyName string
	Position    string
	Details     string
	Documents   datatypes.JSON
}

const (
	DecisionApproved = "approved"
	DecisionRejected = "rejected"
)

// Submit creates the student's placement request, or reopens their rejected
// one in place. Fails with a conflict while a non-rejected application
// exists. Drives the student to "submitted".
func (s *ApplicationService) Submit(student models.User, in ApplicationInput) (*models.Application, error) {
	if student.Role != models.RoleStudent {
		return nil, &AuthorizationError{Msg: "only students can submit applications"}
	}
	if !models.IsValidCategory(in.Category) {
		return nil, &ValidationError{Msg: "invalid internship category: " + in.Category}
	}
	if in.CompanyName == "" && in.Category != models.CategoryFreelancer {
		return nil, &ValidationError{Msg: "company_name is required"}
	}

	var app models.Application
	err := s.DB.Transaction(func(tx *gorm.DB) error {
		var latest models.Application
		err := tx.Where("student_id_ref = ?", student.ID).
			Order("created_at DESC").
			First(&latest).Error
		switch {
		case err == nil && latest.Status != models.ApplicationStatusRejected:
			return &ConflictError{Msg: "an active application already exists for this student"}
		case err == nil:
			// Rejected application: reset the same record to pending.
			updates := map[string]interface{}{
				"status":       models.ApplicationStatusPending,
				"category":     in.Category,
				"company_name": in.CompanyName,
				"position":     in.Position,
				"details":      in.Details,
				"documents":    in.Documents,
				"feedback":     nil,
				"decided_at":   nil,
			}
			if err := tx.Model(&models.Application{}).Where("id = ?", latest.ID).Updates(updates).Error; err != nil {
				if isDuplicate(err) {
					return &ConflictError{Msg: "an active application already exists for this student"}
				}
				return err
			}
			app = latest
			app.Status = models.ApplicationStatusPending
		case errors.Is(err, gorm.ErrRecordNotFound):
			app = models.Application{
				StudentIDRef: student.ID,
				Status:       models.ApplicationStatusPending,
				Category:     in.Category,
				CompanyName:  in.CompanyName,
				Position:     in.Position,
				Details:      in.Details,
				Documents:    in.Documents,
			}
			if err := tx.Create(&app).Error; err != nil {
				if isDuplicate(err) {
					return &ConflictError{Msg: "an active application already exists for this student"}
				}
				return err
			}
		default:
			return err
		}

		if err := status.Apply(tx, student.ID, student.InternshipStatus, status.Submitted, nil); err != nil {
			return wrapTransition(err, "submit application")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.Notify.Publish(event(EventApplicationSubmitted, student.UserID, student.UserID, app.ID))
	return &app, nil
}

// ListForStudent returns the student's own application history, newest first.
func (s *ApplicationService) ListForStudent(student models.User) ([]models.Application, error) {
	var apps []models.Application
	err := s.DB.Where("student_id_ref = ?", student.ID).
		Order("created_at DESC").
		Find(&apps).Error
	return apps, err
}

// List returns applications for administrative review, optionally filtered
// by status.
func (s *ApplicationService) List(filterStatus string) ([]models.Application, error) {
	q := s.DB.Order("created_at DESC")
	if filterStatus != "" {
		q = q.Where("status = ?", filterStatus)
	}
	var apps []models.Application
	err := q.Find(&apps).Error
	return apps, err
}

// Decide approves or rejects a pending application. Any other pending
// application of the same student receives the same decision (rows that
// predate the one-active constraint), then the student moves to the matching
// status and, on approval, inherits the application's category.
func (s *ApplicationService) Decide(actor models.User, applicationID, decision, feedback string) (*models.Application, error) {
	if decision != DecisionApproved && decision != DecisionRejected {
		return nil, &ValidationError{Msg: "decision must be approved or rejected"}
	}

	var app models.Application
	if err := s.DB.Where("id = ?", applicationID).First(&app).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "application", ID: applicationID}
		}
		return nil, err
	}
	if app.Status != models.ApplicationStatusPending {
		return nil, &InvalidStateError{Msg: fmt.Sprintf("application is %s, only pending applications can be decided", app.Status)}
	}

	now := time.Now().UTC()
	newStatus := models.ApplicationStatusApproved
	studentStatus := status.Approved
	if decision == DecisionRejected {
		newStatus = models.ApplicationStatusRejected
		studentStatus = status.Rejected
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{
			"status":     newStatus,
			"decided_at": now,
		}
		if feedback != "" {
			updates["feedback"] = feedback
		}
		if err := tx.Model(&models.Application{}).Where("id = ?", app.ID).Updates(updates).Error; err != nil {
			return err
		}
		if err := tx.Model(&models.Application{}).
			Where("student_id_ref = ? AND status = ? AND id <> ?", app.StudentIDRef, models.ApplicationStatusPending, app.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		extra := map[string]interface{}{}
		if newStatus == models.ApplicationStatusApproved {
			extra["internship_category"] = app.Category
		}
		// Student write goes last so a guard failure rolls back the
		// application writes with it.
		if err := status.Apply(tx, app.StudentIDRef, status.Submitted, studentStatus, extra); err != nil {
			return wrapTransition(err, "decide application")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	app.Status = newStatus
	app.DecidedAt = &now
	if feedback != "" {
		app.Feedback = &feedback
	}

	evType := EventApplicationApproved
	if newStatus == models.ApplicationStatusRejected {
		evType = EventApplicationRejected
	}
	s.Notify.Publish(event(evType, actor.UserID, s.studentUserID(app.StudentIDRef), app.ID))
	return &app, nil
}

func (s *ApplicationService) studentUserID(ref uint) string {
	var u models.User
	if err := s.DB.Select("user_id").Where("id = ?", ref).First(&u).Error; err != nil {
		return ""
	}
	return u.UserID
}

// wrapTransition turns state-machine errors into the caller-facing kind.
func wrapTransition(err error, op string) error {
	if errors.Is(err, status.ErrIllegalTransition) || errors.Is(err, status.ErrStaleStatus) {
		return &InvalidStateError{Msg: fmt.Sprintf("cannot %s from the student's current internship status", op)}
	}
	return err
}
