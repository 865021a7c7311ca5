package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/avickk/internship_backend_v1/internal/database"
	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/status"
)

// newTestDB opens a per-test in-memory database and runs the real
// migrations, partial indexes included.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, database.Migrate(db))
	return db
}

func createUser(t *testing.T, db *gorm.DB, role string, mut func(*models.User)) models.User {
	t.Helper()
	u := models.User{
		UserID:           uuid.NewString(),
		FullName:         "Test " + role,
		Email:            uuid.NewString() + "@example.com",
		Password:         "irrelevant",
		Role:             role,
		Active:           true,
		InternshipStatus: status.None,
	}
	if mut != nil {
		mut(&u)
	}
	require.NoError(t, db.Create(&u).Error)
	return u
}

// createPlacedStudent fabricates a student already through the pipeline.
func createPlacedStudent(t *testing.T, db *gorm.DB, company, category string, supervisor *models.User) models.User {
	t.Helper()
	return createUser(t, db, models.RoleStudent, func(u *models.User) {
		u.InternshipStatus = status.InternshipAssigned
		u.InternshipCategory = &category
		u.AssignedCompany = &company
		if supervisor != nil {
			u.FacultySupervisorRef = &supervisor.ID
		}
	})
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) models.User {
	t.Helper()
	var u models.User
	require.NoError(t, db.Where("id = ?", id).First(&u).Error)
	return u
}

func strPtr(s string) *string { return &s }
