package handlers

import (
	"errors"
	"net/http"

	draftRepo "neighborly/database/repository/draft"
	"neighborly/middleware"
	"neighborly/models"
	"neighborly/services/admin"
	"neighborly/services/availability"
	"neighborly/services/backend"
	"neighborly/services/geo"
	"neighborly/services/session"
	"neighborly/services/tasks"
	"neighborly/services/user"
	"neighborly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// respondError maps service errors onto HTTP answers.
func respondError(c *gin.Context, err error, fallback string) {
	var formErr *models.FormError
	if errors.As(err, &formErr) {
		utils.FieldError(c, formErr.Field, formErr.Message)
		return
	}

	switch {
	case errors.Is(err, session.ErrSessionNotFound),
		errors.Is(err, session.ErrSessionExpired),
		errors.Is(err, user.ErrUnauthenticated),
		errors.Is(err, tasks.ErrUnauthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error(), "code": 0})
		return
	case errors.Is(err, session.ErrNotVerified), errors.Is(err, tasks.ErrNotVerified):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error(), "code": models.FlowOTPPending})
		return
	case errors.Is(err, tasks.ErrForbiddenRole), errors.Is(err, admin.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
		return
	case errors.Is(err, tasks.ErrTaskNotFound), errors.Is(err, availability.ErrSlotNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	case errors.Is(err, draftRepo.ErrDraftNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "No pending availability changes"})
		return
	case errors.Is(err, tasks.ErrTaskNotOpen), errors.Is(err, draftRepo.ErrDraftContention):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	case errors.Is(err, admin.ErrInvalidStatus), errors.Is(err, geo.ErrInvalidCoordinates):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	case errors.Is(err, geo.ErrNoResult):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	var apiErr *backend.APIError
	if errors.As(err, &apiErr) && apiErr.Status >= 400 && apiErr.Status < 500 {
		c.JSON(apiErr.Status, gin.H{"error": apiErr.Message, "code": apiErr.Code})
		return
	}

	getLogger(c).Error(fallback, zap.Error(err))
	if apiErr != nil {
		utils.JSONError(c, http.StatusBadGateway, fallback, "The marketplace service is unavailable. Please try again later.")
		return
	}
	utils.JSONError(c, http.StatusInternalServerError, fallback, "Please try again later.")
}

// mustSession returns the context stored by SessionMiddleware. Routes using
// it are always mounted behind that middleware.
func mustSession(c *gin.Context) (*models.AppContext, bool) {
	appCtx := middleware.CurrentSession(c)
	if appCtx == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Sign in required", "code": 0})
		return nil, false
	}
	return appCtx, true
}
