package controllers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/services"
)

type SubmissionController struct {
	Service *services.TaskService
}

type submitWorkRequest struct {
	Content     string         `json:"content" binding:"required"`
	Attachments datatypes.JSON `json:"attachments"`
}

// SubmitWork is an upsert: the same endpoint creates and overwrites.
func (sc *SubmissionController) SubmitWork(c *gin.Context) {
	uVal, _ := c.Get("user")
	student := uVal.(models.User)

	taskID := strings.TrimSpace(c.Param("id"))
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	var req submitWorkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	sub, err := sc.Service.SubmitWork(student, taskID, req.Content, req.Attachments)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, submissionResponse(*sub))
}

type gradeRequest struct {
	Marks    FlexibleString `json:"marks" binding:"required"`
	Feedback string         `json:"feedback"`
}

func (sc *SubmissionController) GradeByCompany(c *gin.Context) {
	sc.grade(c, true)
}

func (sc *SubmissionController) GradeByFaculty(c *gin.Context) {
	sc.grade(c, false)
}

func (sc *SubmissionController) grade(c *gin.Context, company bool) {
	uVal, _ := c.Get("user")
	actor := uVal.(models.User)

	submissionID := strings.TrimSpace(c.Param("id"))
	if submissionID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid submission id"})
		return
	}
	var req gradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	marks, ok, err := req.Marks.Float()
	if err != nil || !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "marks must be a number"})
		return
	}

	var sub *models.Submission
	if company {
		sub, err = sc.Service.GradeByCompany(actor, submissionID, marks, req.Feedback)
	} else {
		sub, err = sc.Service.GradeByFaculty(actor, submissionID, marks, req.Feedback)
	}
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, submissionResponse(*sub))
}

func (sc *SubmissionController) ListForTask(c *gin.Context) {
	uVal, _ := c.Get("user")
	actor := uVal.(models.User)

	taskID := strings.TrimSpace(c.Param("id"))
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	subs, err := sc.Service.ListSubmissionsForTask(actor, taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": submissionResponses(subs), "total": len(subs)})
}

func (sc *SubmissionController) ListForStudent(c *gin.Context) {
	uVal, _ := c.Get("user")
	actor := uVal.(models.User)

	studentID := strings.TrimSpace(c.Param("user_id"))
	if studentID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user_id"})
		return
	}
	subs, err := sc.Service.ListSubmissionsForStudent(actor, studentID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": submissionResponses(subs), "total": len(subs)})
}

func submissionResponse(s models.Submission) gin.H {
	resp := gin.H{
		"id":           s.ID,
		"task_id":      s.TaskID,
		"content":      s.Content,
		"attachments":  s.Attachments,
		"status":       s.Status,
		"submitted_at": s.SubmittedAt,
		"updated_at":   s.UpdatedAt,
	}
	if s.CompanyMarks != nil {
		resp["company_grade"] = gin.H{
			"marks":     *s.CompanyMarks,
			"feedback":  s.CompanyFeedback,
			"graded_at": s.CompanyGradedAt,
		}
	}
	if s.FacultyMarks != nil {
		resp["faculty_grade"] = gin.H{
			"marks":     *s.FacultyMarks,
			"feedback":  s.FacultyFeedback,
			"graded_at": s.FacultyGradedAt,
		}
	}
	return resp
}

func submissionResponses(subs []models.Submission) []gin.H {
	out := make([]gin.H, 0, len(subs))
	for _, s := range subs {
		out = append(out, submissionResponse(s))
	}
	return out
}
