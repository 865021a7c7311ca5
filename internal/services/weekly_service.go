package services

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/status"
)

type WeeklyUpdateService struct {
	DB     *gorm.DB
	Notify Notifier
}

// Submit upserts the freelancer's update for one week. Resubmitting a week
// overwrites it and clears any prior review; unlike task grades, weekly
// remarks do not survive resubmission.
func (s *WeeklyUpdateService) Submit(student models.User, weekNumber int, summary string, hoursWorked *float64) (*models.WeeklyUpdate, error) {
	if !isFreelancer(student) {
		return nil, &AuthorizationError{Msg: "weekly updates are for freelancer-track students only"}
	}
	if student.InternshipStatus != status.InternshipAssigned {
		return nil, &InvalidStateError{Msg: fmt.Sprintf("cannot submit weekly updates while internship status is %s", student.InternshipStatus)}
	}
	if weekNumber < 1 {
		return nil, &ValidationError{Msg: "week number must be positive"}
	}
	if summary == "" {
		return nil, &ValidationError{Msg: "summary is required"}
	}

	now := time.Now().UTC()
	upd := models.WeeklyUpdate{
		StudentIDRef: student.ID,
		WeekNumber:   weekNumber,
		Summary:      summary,
		HoursWorked:  hoursWorked,
		Status:       models.WeeklyUpdateStatusSubmitted,
	}
	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id_ref"}, {Name: "week_number"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"summary":         summary,
			"hours_worked":    hoursWorked,
			"status":          models.WeeklyUpdateStatusSubmitted,
			"remarks":         nil,
			"reviewed_by_ref": nil,
			"reviewed_at":     nil,
			"updated_at":      now,
		}),
	}).Create(&upd).Error
	if err != nil {
		return nil, err
	}

	var stored models.WeeklyUpdate
	if err := s.DB.Where("student_id_ref = ? AND week_number = ?", student.ID, weekNumber).First(&stored).Error; err != nil {
		return nil, err
	}

	s.Notify.Publish(event(EventWeeklyUpdateReceived, student.UserID, student.UserID, stored.ID))
	return &stored, nil
}

// ListForStudent returns the student's own updates, oldest week first.
func (s *WeeklyUpdateService) ListForStudent(student models.User) ([]models.WeeklyUpdate, error) {
	var updates []models.WeeklyUpdate
	err := s.DB.Where("student_id_ref = ?", student.ID).
		Order("week_number ASC").
		Find(&updates).Error
	return updates, err
}

// ListByFaculty returns a student's updates to their supervisor of record.
func (s *WeeklyUpdateService) ListByFaculty(actor models.User, studentUserID string) ([]models.WeeklyUpdate, error) {
	student, err := s.findStudent(studentUserID)
	if err != nil {
		return nil, err
	}
	if err := s.requireSupervisorOfRecord(actor, student); err != nil {
		return nil, err
	}
	var updates []models.WeeklyUpdate
	err = s.DB.Where("student_id_ref = ?", student.ID).
		Order("week_number ASC").
		Find(&updates).Error
	return updates, err
}

// Review records the supervisor's remarks and marks the week reviewed.
func (s *WeeklyUpdateService) Review(actor models.User, updateID, remarks string) (*models.WeeklyUpdate, error) {
	var upd models.WeeklyUpdate
	if err := s.DB.Where("id = ?", updateID).First(&upd).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "weekly update", ID: updateID}
		}
		return nil, err
	}

	var student models.User
	if err := s.DB.Where("id = ?", upd.StudentIDRef).First(&student).Error; err != nil {
		return nil, err
	}
	if err := s.requireSupervisorOfRecord(actor, &student); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.DB.Model(&models.WeeklyUpdate{}).Where("id = ?", upd.ID).Updates(map[string]interface{}{
		"status":          models.WeeklyUpdateStatusReviewed,
		"remarks":         remarks,
		"reviewed_by_ref": actor.ID,
		"reviewed_at":     now,
	}).Error; err != nil {
		return nil, err
	}

	upd.Status = models.WeeklyUpdateStatusReviewed
	upd.Remarks = &remarks
	upd.ReviewedByRef = &actor.ID
	upd.ReviewedAt = &now

	s.Notify.Publish(event(EventWeeklyUpdateReviewed, actor.UserID, student.UserID, upd.ID))
	return &upd, nil
}

func (s *WeeklyUpdateService) findStudent(userID string) (*models.User, error) {
	var student models.User
	if err := s.DB.Where("user_id = ? AND role = ?", userID, models.RoleStudent).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "student", ID: userID}
		}
		return nil, err
	}
	return &student, nil
}

func (s *WeeklyUpdateService) requireSupervisorOfRecord(actor models.User, student *models.User) error {
	if actor.Role == models.RoleSuperAdmin {
		return nil
	}
	if student.FacultySupervisorRef == nil || *student.FacultySupervisorRef != actor.ID {
		return &AuthorizationError{Msg: "acting admin is not the student's supervisor of record"}
	}
	return nil
}
