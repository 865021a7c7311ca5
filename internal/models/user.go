package models

import (
	"time"
)

// Roles recognized by the system.
const (
	RoleStudent    = "student"
	RoleFaculty    = "faculty"
	RoleCompany    = "company"
	RoleSuperAdmin = "superadmin"
)

// Internship categories a student application can fall into.
const (
	CategoryUniversityAssigned = "university_assigned"
	CategorySelfFound          = "self_found"
	CategoryFreelancer         = "freelancer"
)

type User struct {
	ID       uint   `gorm:"primaryKey"`
	UserID   string `gorm:"uniqueIndex"`
	FullName string
	Email    string `gorm:"uniqueIndex"`
	Password string
	Role     string `gorm:"size:32;index"`
	Active   bool

	// Company admins: the company they represent. Snapshotted onto tasks
	// they create.
	Company string

	// Student lifecycle fields. Owned by the status package; everything
	// else reads them but mutates through the lifecycle services only.
	InternshipStatus   string  `gorm:"size:32;not null;default:none;index"`
	InternshipCategory *string `gorm:"size:32"`

	// Placement fields, written once at assignment.
	AssignedCompany     *string
	AssignedPosition    *string
	SiteSupervisorName  *string
	SiteSupervisorEmail *string
	SiteSupervisorPhone *string

	// Current faculty supervisor of record. Nulled out when the faculty
	// user is removed (reassignment cascade).
	FacultySupervisorRef *uint `gorm:"index"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

var allowedRoles = map[string]struct{}{
	RoleStudent:    {},
	RoleFaculty:    {},
	RoleCompany:    {},
	RoleSuperAdmin: {},
}

func IsValidRole(role string) bool {
	_, ok := allowedRoles[role]
	return ok
}

func IsValidCategory(category string) bool {
	switch category {
	case CategoryUniversityAssigned, CategorySelfFound, CategoryFreelancer:
		return true
	}
	return false
}
