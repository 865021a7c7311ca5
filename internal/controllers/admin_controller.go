package controllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/utils"
)

type AdminController struct {
	DB *gorm.DB
}

// ListUsers returns accounts, optionally filtered by role.
func (a *AdminController) ListUsers(c *gin.Context) {
	q := a.DB.Order("created_at DESC")
	if role := strings.TrimSpace(c.Query("role")); role != "" {
		if !models.IsValidRole(role) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid role"})
			return
		}
		q = q.Where("role = ?", role)
	}
	var users []models.User
	if err := q.Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]gin.H, 0, len(users))
	for _, u := range users {
		out = append(out, userResponse(u))
	}
	c.JSON(http.StatusOK, gin.H{"data": out, "total": len(out)})
}

func (a *AdminController) GetUser(c *gin.Context) {
	user, ok := a.findUser(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

type updateUserRequest struct {
	FullName *string `json:"full_name"`
	Company  *string `json:"company"`
	Active   *bool   `json:"active"`
}

// UpdateUser edits identity fields only. Lifecycle fields are owned by the
// status machine and never writable here.
func (a *AdminController) UpdateUser(c *gin.Context) {
	user, ok := a.findUser(c)
	if !ok {
		return
	}
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updates := map[string]interface{}{}
	if req.FullName != nil {
		updates["full_name"] = *req.FullName
	}
	if req.Company != nil {
		updates["company"] = *req.Company
	}
	if req.Active != nil {
		updates["active"] = *req.Active
	}
	if len(updates) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nothing to update"})
		return
	}

	err := a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Updates(updates).Error; err != nil {
			return err
		}
		if req.Active != nil && !*req.Active && user.Role == models.RoleFaculty {
			return cascadeSupervisorRemoval(tx, user.ID)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "updated"})
}

type resetPasswordRequest struct {
	Password string `json:"password" binding:"required,min=6"`
}

// ResetPassword is the second legitimate hashing site besides registration.
func (a *AdminController) ResetPassword(c *gin.Context) {
	user, ok := a.findUser(c)
	if !ok {
		return
	}
	var req resetPasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	hashed, err := utils.HashPassword(req.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to hash password"})
		return
	}
	if err := a.DB.Model(&models.User{}).Where("id = ?", user.ID).Update("password", hashed).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "password reset"})
}

// DeleteUser deactivates an account. Removing a faculty supervisor nulls
// their students' supervisor reference; dependent records stay.
func (a *AdminController) DeleteUser(c *gin.Context) {
	user, ok := a.findUser(c)
	if !ok {
		return
	}
	err := a.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&models.User{}).Where("id = ?", user.ID).Update("active", false).Error; err != nil {
			return err
		}
		if user.Role == models.RoleFaculty {
			return cascadeSupervisorRemoval(tx, user.ID)
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deactivated"})
}

func cascadeSupervisorRemoval(tx *gorm.DB, facultyRef uint) error {
	return tx.Model(&models.User{}).
		Where("faculty_supervisor_ref = ?", facultyRef).
		Update("faculty_supervisor_ref", nil).Error
}

func (a *AdminController) findUser(c *gin.Context) (models.User, bool) {
	userID := strings.TrimSpace(c.Param("user_id"))
	if userID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return models.User{}, false
	}
	var user models.User
	if err := a.DB.Where("user_id = ?", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
		} else {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return models.User{}, false
	}
	return user, true
}
