package controllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/avickk/internship_backend_v1/internal/services"
)

// respondServiceError maps the service error kinds onto HTTP statuses.
// Anything untyped is a server fault.
func respondServiceError(c *gin.Context, err error) {
	var (
		notFound     *services.NotFoundError
		conflict     *services.ConflictError
		invalidState *services.InvalidStateError
		authz        *services.AuthorizationError
		validation   *services.ValidationError
	)
	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.As(err, &conflict):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.As(err, &invalidState):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.As(err, &authz):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
	case errors.As(err, &validation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}
