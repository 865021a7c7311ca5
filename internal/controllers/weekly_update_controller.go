package controllers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/services"
)

type WeeklyUpdateController struct {
	Service *services.WeeklyUpdateService
}

type submitWeeklyRequest struct {
	Summary     string         `json:"summary" binding:"required"`
	HoursWorked FlexibleString `json:"hours_worked"`
}

func (wc *WeeklyUpdateController) Submit(c *gin.Context) {
	uVal, _ := c.Get("user")
	student := uVal.(models.User)

	week, err := strconv.Atoi(strings.TrimSpace(c.Param("week")))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid week number"})
		return
	}
	var req submitWeeklyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var hours *float64
	if v, ok, err := req.HoursWorked.Float(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "hours_worked must be a number"})
		return
	} else if ok {
		hours = &v
	}

	upd, err := wc.Service.Submit(student, week, req.Summary, hours)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, weeklyUpdateResponse(*upd))
}

func (wc *WeeklyUpdateController) ListMine(c *gin.Context) {
	uVal, _ := c.Get("user")
	student := uVal.(models.User)

	updates, err := wc.Service.ListForStudent(student)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": weeklyUpdateResponses(updates)})
}

func (wc *WeeklyUpdateController) ListForStudent(c *gin.Context) {
	uVal, _ := c.Get("user")
	actor := uVal.(models.User)

	studentID := strings.TrimSpace(c.Param("user_id"))
	if studentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}
	updates, err := wc.Service.ListByFaculty(actor, studentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": weeklyUpdateResponses(updates)})
}

type reviewWeeklyRequest struct {
	Remarks string `json:"remarks" binding:"required"`
}

func (wc *WeeklyUpdateController) Review(c *gin.Context) {
	uVal, _ := c.Get("user")
	actor := uVal.(models.User)

	updateID := strings.TrimSpace(c.Param("id"))
	if updateID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid update id"})
		return
	}
	var req reviewWeeklyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	upd, err := wc.Service.Review(actor, updateID, req.Remarks)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, weeklyUpdateResponse(*upd))
}

func weeklyUpdateResponse(w models.WeeklyUpdate) gin.H {
	return gin.H{
		"id":          w.ID,
		"week_number": w.WeekNumber,
		"summary":     w.Summary,
		"hours":       w.HoursWorked,
		"status":      w.Status,
		"remarks":     w.Remarks,
		"reviewed_at": w.ReviewedAt,
		"created_at":  w.CreatedAt,
		"updated_at":  w.UpdatedAt,
	}
}

func weeklyUpdateResponses(updates []models.WeeklyUpdate) []gin.H {
	out := make([]gin.H, 0, len(updates))
	for _, w := range updates {
		out = append(out, weeklyUpdateResponse(w))
	}
	return out
}
