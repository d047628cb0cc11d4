package middleware

import (
	"net/http"

	"neighborly/models"

	"github.com/gin-gonic/gin"
)

// RequireAuth rejects requests whose context carries no backend token.
// Run it after SessionMiddleware.
func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if !CurrentSession(c).Authenticated() {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Sign in required", "code": 0})
			return
		}
		c.Next()
	}
}

// RequireVerified rejects contexts whose email is not yet verified. The
// flow code tells the client to route to the OTP screen.
func RequireVerified() gin.HandlerFunc {
	return func(c *gin.Context) {
		appCtx := CurrentSession(c)
		if appCtx == nil || !appCtx.Verified {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{
				"error": "Verify your email to continue",
				"code":  models.FlowOTPPending,
			})
			return
		}
		c.Next()
	}
}

// RequireRole admits only the listed roles.
func RequireRole(roles ...string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(roles))
	for _, r := range roles {
		allowed[r] = true
	}
	return func(c *gin.Context) {
		appCtx := CurrentSession(c)
		if appCtx == nil || !allowed[appCtx.Role] {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "You do not have access to this resource"})
			return
		}
		c.Next()
	}
}

// RequireAdmin is RequireRole for the admin screens.
func RequireAdmin() gin.HandlerFunc {
	return RequireRole(models.RoleAdmin)
}
