package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/services"
)

type ApplicationController struct {
	Service *services.ApplicationService
}

type submitApplicationRequest struct {
	Category    string         `json:"category" binding:"required"`
	CompanyName string         `json:"company_name"`
	Position    string         `json:"position"`
	Details     string         `json:"details"`
	Documents   datatypes.JSON `json:"documents"` // stored-file URIs, opaque here
}

func (ac *ApplicationController) Submit(c *gin.Context) {
	uVal, _ := c.Get("user")
	student := uVal.(models.User)

	var req submitApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := ac.Service.Submit(student, services.ApplicationInput{
		Category:    req.Category,
		CompanyName: req.CompanyName,
		Position:    req.Position,
		Details:     req.Details,
		Documents:   req.Documents,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, applicationResponse(*app))
}

func (ac *ApplicationController) ListMine(c *gin.Context) {
	uVal, _ := c.Get("user")
	student := uVal.(models.User)

	apps, err := ac.Service.ListForStudent(student)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": applicationResponses(apps)})
}

func (ac *ApplicationController) List(c *gin.Context) {
	apps, err := ac.Service.List(strings.TrimSpace(c.Query("status")))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": applicationResponses(apps), "total": len(apps)})
}

type decideRequest struct {
	Decision string `json:"decision" binding:"required"`
	Feedback string `json:"feedback"`
}

func (ac *ApplicationController) Decide(c *gin.Context) {
	uVal, _ := c.Get("user")
	actor := uVal.(models.User)

	appID := strings.TrimSpace(c.Param("id"))
	if appID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid application id"})
		return
	}
	var req decideRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	app, err := ac.Service.Decide(actor, appID, req.Decision, req.Feedback)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, applicationResponse(*app))
}

func applicationResponse(a models.Application) gin.H {
	return gin.H{
		"id":           a.ID,
		"status":       a.Status,
		"category":     a.Category,
		"company_name": a.CompanyName,
		"position":     a.Position,
		"details":      a.Details,
		"documents":    a.Documents,
		"feedback":     a.Feedback,
		"decided_at":   a.DecidedAt,
		"created_at":   a.CreatedAt,
		"updated_at":   a.UpdatedAt,
	}
}

func applicationResponses(apps []models.Application) []gin.H {
	out := make([]gin.H, 0, len(apps))
	for _, a := range apps {
		out = append(out, applicationResponse(a))
	}
	return out
}
