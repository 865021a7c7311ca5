package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/services"
)

type ReportController struct {
	Service *services.ReportService
}

type reportRequest struct {
	Evaluation string         `json:"evaluation" binding:"required"`
	Grade      FlexibleString `json:"grade"`
	Remarks    string         `json:"remarks"`
}

func (rc *ReportController) Upsert(c *gin.Context) {
	uVal, _ := c.Get("user")
	actor := uVal.(models.User)

	studentID := strings.TrimSpace(c.Param("user_id"))
	if studentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}
	var req reportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var grade *float64
	if v, ok, err := req.Grade.Float(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "grade must be a number"})
		return
	} else if ok {
		grade = &v
	}

	report, err := rc.Service.Upsert(actor, studentID, services.ReportInput{
		Evaluation: req.Evaluation,
		Grade:      grade,
		Remarks:    req.Remarks,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, reportResponse(*report))
}

func (rc *ReportController) ListForStudent(c *gin.Context) {
	studentID := strings.TrimSpace(c.Param("user_id"))
	if studentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}
	reports, err := rc.Service.ListForStudent(studentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]gin.H, 0, len(reports))
	for _, r := range reports {
		out = append(out, reportResponse(r))
	}
	c.JSON(http.StatusOK, gin.H{"data": out, "total": len(out)})
}

func reportResponse(r models.Report) gin.H {
	return gin.H{
		"id":         r.ID,
		"evaluation": r.Evaluation,
		"grade":      r.Grade,
		"remarks":    r.Remarks,
		"created_at": r.CreatedAt,
		"updated_at": r.UpdatedAt,
	}
}
