package handlers

import (
	"net/http"

	"neighborly/models"
	"neighborly/services/availability"

	"github.com/gin-gonic/gin"
)

// AvailabilityHandler serves the neighbor's availability calendar. The
// provider is always the signed-in neighbor.
type AvailabilityHandler struct {
	Service availability.AvailabilityService
}

func NewAvailabilityHandler(svc availability.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{Service: svc}
}

func (h *AvailabilityHandler) GetDraft(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	draft, err := h.Service.Load(c.Request.Context(), appCtx.Token, appCtx.UserID)
	if err != nil {
		respondError(c, err, "Failed to load availability")
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

func (h *AvailabilityHandler) Reload(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	draft, err := h.Service.Reload(c.Request.Context(), appCtx.Token, appCtx.UserID)
	if err != nil {
		respondError(c, err, "Failed to reload availability")
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

// Select applies a calendar drag selection with toggle semantics.
func (h *AvailabilityHandler) Select(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	var req models.SelectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	result, err := h.Service.Select(c.Request.Context(), appCtx.Token, appCtx.UserID, req)
	if err != nil {
		respondError(c, err, "Failed to update availability")
		return
	}
	c.JSON(http.StatusOK, result)
}

func (h *AvailabilityHandler) RemoveSlot(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	draft, err := h.Service.RemoveSlot(c.Request.Context(), appCtx.Token, appCtx.UserID, c.Param("slotID"))
	if err != nil {
		respondError(c, err, "Failed to remove slot")
		return
	}
	c.JSON(http.StatusOK, gin.H{"draft": draft})
}

func (h *AvailabilityHandler) Save(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	schedule, err := h.Service.Save(c.Request.Context(), appCtx.Token, appCtx.UserID)
	if err != nil {
		respondError(c, err, "Failed to save availability")
		return
	}
	c.JSON(http.StatusOK, models.ScheduleResponse{ProviderID: appCtx.UserID, Schedule: schedule})
}

func (h *AvailabilityHandler) Discard(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	if err := h.Service.Discard(c.Request.Context(), appCtx.UserID); err != nil {
		respondError(c, err, "Failed to discard changes")
		return
	}
	c.Status(http.StatusNoContent)
}
