package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/services"
)

type PlacementController struct {
	Service *services.PlacementService
}

type assignPlacementRequest struct {
	FacultySupervisorID string `json:"faculty_supervisor_id" binding:"required"`
	Company             string `json:"company" binding:"required"`
	Position            string `json:"position" binding:"required"`
	SiteSupervisorName  string `json:"site_supervisor_name"`
	SiteSupervisorEmail string `json:"site_supervisor_email"`
	SiteSupervisorPhone string `json:"site_supervisor_phone"`
}

func (pc *PlacementController) Assign(c *gin.Context) {
	uVal, _ := c.Get("user")
	actor := uVal.(models.User)

	studentID := strings.TrimSpace(c.Param("user_id"))
	if studentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}
	var req assignPlacementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	student, err := pc.Service.Assign(actor, studentID, services.PlacementInput{
		FacultySupervisorID: req.FacultySupervisorID,
		Company:             req.Company,
		Position:            req.Position,
		SiteSupervisorName:  req.SiteSupervisorName,
		SiteSupervisorEmail: req.SiteSupervisorEmail,
		SiteSupervisorPhone: req.SiteSupervisorPhone,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, userResponse(*student))
}
