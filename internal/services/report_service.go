package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/status"
)

type ReportService struct {
	DB     *gorm.DB
	Notify Notifier
}

type ReportInput struct {
	Evaluation string
	Grade      *float64
	Remarks    string
}

// Upsert files the author's final evaluation for a placed student, keyed on
// (student, author): a second submission updates in place, never duplicates.
// Only the student's current faculty supervisor may file one.
func (s *ReportService) Upsert(actor models.User, studentUserID string, in ReportInput) (*models.Report, error) {
	if in.Evaluation == "" {
		return nil, &ValidationError{Msg: "evaluation is required"}
	}
	if in.Grade != nil && (*in.Grade < 0 || *in.Grade > 100) {
		return nil, &ValidationError{Msg: "grade must be between 0 and 100"}
	}

	var student models.User
	if err := s.DB.Where("user_id = ? AND role = ?", studentUserID, models.RoleStudent).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "student", ID: studentUserID}
		}
		return nil, err
	}
	if student.FacultySupervisorRef == nil || *student.FacultySupervisorRef != actor.ID {
		return nil, &AuthorizationError{Msg: "only the student's current faculty supervisor can file a report"}
	}
	if student.InternshipStatus != status.InternshipAssigned {
		return nil, &InvalidStateError{Msg: fmt.Sprintf("cannot file a report while internship status is %s", student.InternshipStatus)}
	}

	var remarks *string
	if in.Remarks != "" {
		remarks = &in.Remarks
	}
	report := models.Report{
		StudentIDRef: student.ID,
		AuthorIDRef:  actor.ID,
		Evaluation:   in.Evaluation,
		Grade:        in.Grade,
		Remarks:      remarks,
	}
	err := s.DB.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "student_id_ref"}, {Name: "author_id_ref"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"evaluation": in.Evaluation,
			"grade":      in.Grade,
			"remarks":    remarks,
		}),
	}).Create(&report).Error
	if err != nil {
		return nil, err
	}

	var stored models.Report
	if err := s.DB.Where("student_id_ref = ? AND author_id_ref = ?", student.ID, actor.ID).First(&stored).Error; err != nil {
		return nil, err
	}

	s.Notify.Publish(event(EventReportFiled, actor.UserID, student.UserID, stored.ID))
	return &stored, nil
}

// ListForStudent returns every report filed for a student.
func (s *ReportService) ListForStudent(studentUserID string) ([]models.Report, error) {
	var student models.User
	if err := s.DB.Where("user_id = ? AND role = ?", studentUserID, models.RoleStudent).First(&student).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &NotFoundError{Entity: "student", ID: studentUserID}
		}
		return nil, err
	}
	var reports []models.Report
	err := s.DB.Where("student_id_ref = ?", student.ID).Order("created_at ASC").Find(&reports).Error
	return reports, err
}
