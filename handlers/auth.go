package handlers

import (
	"net/http"
	"time"

	"neighborly/middleware"
	"neighborly/models"
	"neighborly/services/session"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AuthHandler serves the signup, OTP and login screens.
type AuthHandler struct {
	Service      session.SessionService
	CookieName   string
	CookieSecure bool
}

func NewAuthHandler(svc session.SessionService, cookieName string, secure bool) *AuthHandler {
	return &AuthHandler{Service: svc, CookieName: cookieName, CookieSecure: secure}
}

func (h *AuthHandler) setCookie(c *gin.Context, flow *models.FlowResponse) {
	maxAge := 0
	if flow.Context != nil && !flow.Context.ExpiresAt.IsZero() {
		maxAge = int(time.Until(flow.Context.ExpiresAt).Seconds())
	}
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.CookieName, flow.SessionID, maxAge, "/", "", h.CookieSecure, true)
}

func (h *AuthHandler) clearCookie(c *gin.Context) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(h.CookieName, "", -1, "/", "", h.CookieSecure, true)
}

// Signup returns flow code 100; the client then shows the OTP screen.
func (h *AuthHandler) Signup(c *gin.Context) {
	var form models.SignupForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	flow, err := h.Service.Signup(c.Request.Context(), form)
	if err != nil {
		respondError(c, err, "Signup failed")
		return
	}
	h.setCookie(c, flow)
	c.JSON(http.StatusCreated, flow)
}

func (h *AuthHandler) VerifyOTP(c *gin.Context) {
	var form models.OTPForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	flow, err := h.Service.VerifyOTP(c.Request.Context(), middleware.SessionID(c, h.CookieName), form.Code)
	if err != nil {
		respondError(c, err, "OTP verification failed")
		return
	}
	h.setCookie(c, flow)
	c.JSON(http.StatusOK, flow)
}

func (h *AuthHandler) ResendOTP(c *gin.Context) {
	if err := h.Service.ResendOTP(c.Request.Context(), middleware.SessionID(c, h.CookieName)); err != nil {
		respondError(c, err, "Failed to resend OTP")
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "A new code has been sent"})
}

func (h *AuthHandler) Login(c *gin.Context) {
	var form models.LoginForm
	if err := c.ShouldBindJSON(&form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request payload", "message": err.Error()})
		return
	}

	flow, err := h.Service.Login(c.Request.Context(), middleware.SessionID(c, h.CookieName), form)
	if err != nil {
		respondError(c, err, "Login failed")
		return
	}
	getLogger(c).Info("User logged in", zap.String("sessionID", flow.SessionID), zap.Int("code", flow.Code))
	h.setCookie(c, flow)
	c.JSON(http.StatusOK, flow)
}

func (h *AuthHandler) Logout(c *gin.Context) {
	if id := middleware.SessionID(c, h.CookieName); id != "" {
		if err := h.Service.Logout(c.Request.Context(), id); err != nil {
			respondError(c, err, "Logout failed")
			return
		}
	}
	h.clearCookie(c)
	c.JSON(http.StatusOK, gin.H{"message": "Signed out"})
}

// Me returns the current application context, or 204 when signed out.
func (h *AuthHandler) Me(c *gin.Context) {
	appCtx := middleware.CurrentSession(c)
	if appCtx == nil {
		c.Status(http.StatusNoContent)
		return
	}
	c.JSON(http.StatusOK, gin.H{"context": appCtx})
}
