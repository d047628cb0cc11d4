package handlers

import (
	"net/http"

	"neighborly/middleware"
	"neighborly/models"
	"neighborly/services/admin"

	"github.com/gin-gonic/gin"
)

// AdminHandler serves the admin screens and the public legal documents.
type AdminHandler struct {
	Service admin.AdminService
}

func NewAdminHandler(svc admin.AdminService) *AdminHandler {
	return &AdminHandler{Service: svc}
}

func (h *AdminHandler) Overview(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	overview, err := h.Service.Overview(c.Request.Context(), appCtx)
	if err != nil {
		respondError(c, err, "Failed to load admin overview")
		return
	}
	c.JSON(http.StatusOK, overview)
}

func (h *AdminHandler) ListUsers(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	users, err := h.Service.ListUsers(c.Request.Context(), appCtx)
	if err != nil {
		respondError(c, err, "Failed to list users")
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *AdminHandler) ListTasks(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	list, err := h.Service.ListTasks(c.Request.Context(), appCtx)
	if err != nil {
		respondError(c, err, "Failed to list tasks")
		return
	}
	c.JSON(http.StatusOK, gin.H{"tasks": list})
}

func (h *AdminHandler) SetUserStatus(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	var req models.UserStatusUpdate
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	updated, err := h.Service.SetUserStatus(c.Request.Context(), appCtx, c.Param("id"), req.Status)
	if err != nil {
		respondError(c, err, "Failed to update user status")
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": updated})
}

// GetLegalSections is public; a signed-in caller gets the documents for their role.
func (h *AdminHandler) GetLegalSections(c *gin.Context) {
	role := c.Query("role")
	if appCtx := middleware.CurrentSession(c); appCtx != nil && appCtx.Role != "" {
		role = appCtx.Role
	}
	if role == "" {
		c.JSON(http.StatusOK, gin.H{"sections": h.Service.GetLegalSections()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"sections": h.Service.GetLegalSectionsFor(role)})
}
