package handlers

import (
	"net/http"

	"neighborly/models"
	"neighborly/services/user"

	"github.com/gin-gonic/gin"
)

// ProfileHandler serves the profile, settings and skills screens.
type ProfileHandler struct {
	Service user.UserService
}

func NewProfileHandler(svc user.UserService) *ProfileHandler {
	return &ProfileHandler{Service: svc}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	profile, err := h.Service.GetProfile(c.Request.Context(), appCtx)
	if err != nil {
		respondError(c, err, "Failed to load profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

// UpdateProfile accepts a partial body; absent fields stay unchanged.
func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	var body struct {
		Name      *string `json:"name"`
		Phone     *string `json:"phone"`
		Bio       *string `json:"bio"`
		Address   *string `json:"address"`
		AvatarURL *string `json:"avatarUrl"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	upd := models.NewProfileUpdate()
	if body.Name != nil {
		upd.WithName(*body.Name)
	}
	if body.Phone != nil {
		upd.WithPhone(*body.Phone)
	}
	if body.Bio != nil {
		upd.WithBio(*body.Bio)
	}
	if body.Address != nil {
		upd.WithAddress(*body.Address)
	}
	if body.AvatarURL != nil {
		upd.WithAvatarURL(*body.AvatarURL)
	}

	profile, err := h.Service.UpdateProfile(c.Request.Context(), appCtx, upd)
	if err != nil {
		respondError(c, err, "Failed to update profile")
		return
	}
	c.JSON(http.StatusOK, gin.H{"profile": profile})
}

func (h *ProfileHandler) ChangePassword(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	var form models.PasswordChangeForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	if err := h.Service.ChangePassword(c.Request.Context(), appCtx, form); err != nil {
		respondError(c, err, "Failed to change password")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
}

func (h *ProfileHandler) ListSkills(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	skills, err := h.Service.ListSkills(c.Request.Context(), appCtx)
	if err != nil {
		respondError(c, err, "Failed to load skills")
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": skills})
}

func (h *ProfileHandler) AddSkill(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	var body struct {
		Skill string `json:"skill"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}
	skills, err := h.Service.AddSkill(c.Request.Context(), appCtx, body.Skill)
	if err != nil {
		respondError(c, err, "Failed to add skill")
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": skills})
}

func (h *ProfileHandler) RemoveSkill(c *gin.Context) {
	appCtx, ok := mustSession(c)
	if !ok {
		return
	}
	skills, err := h.Service.RemoveSkill(c.Request.Context(), appCtx, c.Param("skill"))
	if err != nil {
		respondError(c, err, "Failed to remove skill")
		return
	}
	c.JSON(http.StatusOK, gin.H{"skills": skills})
}
