package services

import (
	"errors"

	"gorm.io/gorm"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/status"
)

type PlacementService struct {
	DB     *gorm.DB
	Notify Notifier
}

type PlacementInput struct {
	FacultySupervisorID string // public user id of the supervising faculty
	Company             string
	Position            string
	SiteSupervisorName  string
	SiteSupervisorEmail string
	SiteSupervisorPhone string
}

// Assign binds a verified student to a company, position and site
// supervisor, puts them under a faculty supervisor, and moves them to
// "internship_assigned". Their approved application(s) become in_progress
// in the same transaction, before the student write, so a guard failure
// rolls everything back.
func (s *PlacementService) Assign(actor models.User, studentUserID string, in PlacementInput) (*models.User, error) {
	if in.Company == "" || in.Position == "" {
		return nil, &ValidationError{Msg: "company and position are required"}
	}
	if in.FacultySupervisorID == "" {
		return nil, &ValidationError{Msg: "faculty_supervisor_id is required"}
	}

	var student models.User
	if err := s.DB.Where("user_id = ? AND role = ?", studentUserID, models.RoleStudent).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "student", ID: studentUserID}
		}
		return nil, err
	}

	var supervisor models.User
	if err := s.DB.Where("user_id = ? AND role = ? AND active = ?", in.FacultySupervisorID, models.RoleFaculty, true).First(&supervisor).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "faculty supervisor", ID: in.FacultySupervisorID}
		}
		return nil, err
	}

	err := s.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.Application{}).
			Where("student_id_ref = ? AND status = ?", student.ID, models.ApplicationStatusApproved).
			Update("status", models.ApplicationStatusInProgress).Error; err != nil {
			return err
		}
		extra := map[string]interface{}{
			"assigned_company":       in.Company,
			"assigned_position":      in.Position,
			"site_supervisor_name":   in.SiteSupervisorName,
			"site_supervisor_email":  in.SiteSupervisorEmail,
			"site_supervisor_phone":  in.SiteSupervisorPhone,
			"faculty_supervisor_ref": supervisor.ID,
		}
		if err := status.Apply(tx, student.ID, status.Verified, status.InternshipAssigned, extra); err != nil {
			return wrapTransition(err, "assign placement")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if err := s.DB.Where("id = ?", student.ID).First(&student).Error; err != nil {
		return nil, err
	}

	s.Notify.Publish(event(EventPlacementAssigned, actor.UserID, student.UserID, student.UserID))
	return &student, nil
}
