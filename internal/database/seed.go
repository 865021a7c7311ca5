package database

import (
	"log"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/avickk/internship_backend_v1/internal/config"
	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/status"
	"github.com/avickk/internship_backend_v1/internal/utils"
)

// SeedSuperAdmin creates the initial super-admin account if no super-admin
// exists yet. Every other account is created through the admin API.
func SeedSuperAdmin(db *gorm.DB, cfg *config.Config) error {
	var count int64
	if err := db.Model(&models.User{}).Where("role = ?", models.RoleSuperAdmin).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	email := cfg.SuperAdminEmail
	if email == "" {
		email = "admin@example.com"
	}
	fullName := cfg.SuperAdminFullName
	if fullName == "" {
		fullName = "Administrator"
	}
	password := cfg.SuperAdminPassword
	if password == "" {
		password = "admin123"
	}
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}

	admin := models.User{
		UserID:           uuid.NewString(),
		FullName:         fullName,
		Email:            email,
		Password:         hashed,
		Role:             models.RoleSuperAdmin,
		Active:           true,
		InternshipStatus: status.None,
	}
	if err := db.Create(&admin).Error; err != nil {
		return err
	}
	log.Println("Seeded initial super-admin:", email)
	return nil
}
