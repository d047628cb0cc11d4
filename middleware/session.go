package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"neighborly/models"
	"neighborly/services/session"
	"neighborly/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SessionLoader is the part of the session service the middleware needs.
type SessionLoader interface {
	Load(ctx context.Context, sessionID string) (*models.AppContext, error)
}

// SessionID reads the session from the cookie, falling back to the header.
func SessionID(c *gin.Context, cookieName string) string {
	if id, err := c.Cookie(cookieName); err == nil && id != "" {
		return id
	}
	return strings.TrimSpace(c.GetHeader(utils.SessionHeader))
}

// CurrentSession returns the context stored by SessionMiddleware, or nil.
func CurrentSession(c *gin.Context) *models.AppContext {
	if v, ok := c.Get(utils.ContextSessionKey); ok {
		if appCtx, ok := v.(*models.AppContext); ok {
			return appCtx
		}
	}
	return nil
}

// SessionMiddleware loads the application context for the request. With
// optional set, a missing or expired session lets the request through
// without a context.
func SessionMiddleware(loader SessionLoader, cookieName string, optional bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		id := SessionID(c, cookieName)
		if id == "" {
			if optional {
				c.Next()
				return
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in required", "code": 0})
			return
		}

		appCtx, err := loader.Load(c.Request.Context(), id)
		switch {
		case err == nil:
			c.Set(utils.ContextSessionKey, appCtx)
			c.Next()
		case optional && (errors.Is(err, session.ErrSessionNotFound) || errors.Is(err, session.ErrSessionExpired)):
			c.Next()
		case errors.Is(err, session.ErrSessionExpired):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Session expired, please sign in again", "code": 0})
		case errors.Is(err, session.ErrSessionNotFound):
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in required", "code": 0})
		default:
			utils.GetLogger().Error("Session lookup failed", zap.String("sessionID", id), zap.Error(err))
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
		}
	}
}
