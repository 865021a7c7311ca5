package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/services"
)

type TaskController struct {
	Service *services.TaskService
}

type createTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	DueAt       *time.Time `json:"due_at"`
	AssignedTo  string     `json:"assigned_to"` // optional student user id
}

func (tc *TaskController) Create(c *gin.Context) {
	uVal, _ := c.Get("user")
	actor := uVal.(models.User)

	var req createTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	task, err := tc.Service.Create(actor, services.TaskInput{
		Title:       req.Title,
		Description: req.Description,
		DueAt:       req.DueAt,
		AssignedTo:  strings.TrimSpace(req.AssignedTo),
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, taskResponse(*task))
}

func (tc *TaskController) Close(c *gin.Context) {
	uVal, _ := c.Get("user")
	actor := uVal.(models.User)

	taskID := strings.TrimSpace(c.Param("id"))
	if taskID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid task id"})
		return
	}
	task, err := tc.Service.Close(actor, taskID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, taskResponse(*task))
}

func (tc *TaskController) ListCompany(c *gin.Context) {
	uVal, _ := c.Get("user")
	actor := uVal.(models.User)

	tasks, err := tc.Service.ListForCompany(actor)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": taskResponses(tasks), "total": len(tasks)})
}

func (tc *TaskController) ListStudent(c *gin.Context) {
	uVal, _ := c.Get("user")
	student := uVal.(models.User)

	tasks, err := tc.Service.ListForStudent(student)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": taskResponses(tasks), "total": len(tasks)})
}

func taskResponse(t models.Task) gin.H {
	return gin.H{
		"id":          t.ID,
		"company":     t.Company,
		"title":       t.Title,
		"description": t.Description,
		"due_at":      t.DueAt,
		"status":      t.Status,
		"broadcast":   t.AssignedToRef == nil,
		"created_at":  t.CreatedAt,
		"updated_at":  t.UpdatedAt,
	}
}

func taskResponses(tasks []models.Task) []gin.H {
	out := make([]gin.H, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, taskResponse(t))
	}
	return out
}
