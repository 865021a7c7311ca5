package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/avickk/internship_backend_v1/internal/models"
	"github.com/avickk/internship_backend_v1/internal/services"
)

type AgreementController struct {
	Service *services.AgreementService
}

type submitAgreementRequest struct {
	ApplicationID  string         `json:"application_id" binding:"required"`
	CompanyName    string         `json:"company_name" binding:"required"`
	CompanyAddress string         `json:"company_address"`
	ContactName    string         `json:"contact_name" binding:"required"`
	ContactEmail   string         `json:"contact_email"`
	ContactPhone   string         `json:"contact_phone"`
	StartDate      *time.Time     `json:"start_date"`
	EndDate        *time.Time     `json:"end_date"`
	Documents      datatypes.JSON `json:"documents"`
}

func (ac *AgreementController) Submit(c *gin.Context) {
	uVal, _ := c.Get("user")
	student := uVal.(models.User)

	var req submitAgreementRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	agreement, err := ac.Service.Submit(student, services.AgreementInput{
		ApplicationID:  req.ApplicationID,
		CompanyName:    req.CompanyName,
		CompanyAddress: req.CompanyAddress,
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		Documents:      req.Documents,
	})
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, agreementResponse(*agreement))
}

func (ac *AgreementController) ListSubmitted(c *gin.Context) {
	agreements, err := ac.Service.ListSubmitted()
	if err != nil {
		respondServiceError(c, err)
		return
	}
	out := make([]gin.H, 0, len(agreements))
	for _, a := range agreements {
		out = append(out, agreementResponse(a))
	}
	c.JSON(http.StatusOK, gin.H{"data": out, "total": len(out)})
}

type verifyRequest struct {
	Decision string `json:"decision" binding:"required"` // approved|rejected
}

func (ac *AgreementController) Verify(c *gin.Context) {
	uVal, _ := c.Get("user")
	actor := uVal.(models.User)

	agreementID := strings.TrimSpace(c.Param("id"))
	if agreementID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid agreement id"})
		return
	}
	var req verifyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if req.Decision != services.DecisionApproved && req.Decision != services.DecisionRejected {
		c.JSON(http.StatusBadRequest, gin.H{"error": "decision must be approved or rejected"})
		return
	}

	agreement, err := ac.Service.Verify(actor, agreementID, req.Decision == services.DecisionApproved)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, agreementResponse(*agreement))
}

func agreementResponse(a models.Agreement) gin.H {
	return gin.H{
		"id":              a.ID,
		"application_id":  a.ApplicationID,
		"status":          a.Status,
		"company_name":    a.CompanyName,
		"company_address": a.CompanyAddress,
		"contact_name":    a.ContactName,
		"contact_email":   a.ContactEmail,
		"contact_phone":   a.ContactPhone,
		"start_date":      a.StartDate,
		"end_date":        a.EndDate,
		"documents":       a.Documents,
		"verified_at":     a.VerifiedAt,
		"created_at":      a.CreatedAt,
		"updated_at":      a.UpdatedAt,
	}
}
