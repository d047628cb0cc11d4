package routes

import (
	"time"

	"neighborly/handlers"
	"neighborly/middleware"
	"neighborly/models"
	"neighborly/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

// RegisterAuthRoutes registers the signup, OTP and login endpoints.
func RegisterAuthRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/auth")
	{
		api.POST("/signup", hb.Auth.Signup)
		api.POST("/verify-otp", hb.Auth.VerifyOTP)
		api.POST("/resend-otp", hb.Auth.ResendOTP)
		api.POST("/login", hb.Auth.Login)
		api.POST("/logout", hb.Auth.Logout)
		api.GET("/me", middleware.SessionMiddleware(hb.Sessions, hb.CookieName, true), hb.Auth.Me)
	}
}

// RegisterAvailabilityRoutes registers the neighbor calendar endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/availability")
	{
		api.Use(middleware.SessionMiddleware(hb.Sessions, hb.CookieName, false))
		api.Use(middleware.RequireAuth())
		api.Use(middleware.RequireRole(models.RoleNeighbor))
		api.Use(middleware.RequireVerified())
		api.GET("", hb.Availability.GetDraft)
		api.POST("/reload", hb.Availability.Reload)
		api.POST("/select", hb.Availability.Select)
		api.DELETE("/slots/:slotID", hb.Availability.RemoveSlot)
		api.POST("/save", hb.Availability.Save)
		api.DELETE("", hb.Availability.Discard)
	}
}

// RegisterTaskRoutes registers browse, post and accept endpoints. Role and
// verification rules live in the task service.
func RegisterTaskRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/tasks")
	{
		api.Use(middleware.SessionMiddleware(hb.Sessions, hb.CookieName, false))
		api.Use(middleware.RequireAuth())
		api.GET("", hb.Tasks.List)
		api.GET("/:id", hb.Tasks.Get)
		api.POST("", hb.Tasks.Post)
		api.POST("/:id/accept", hb.Tasks.Accept)
	}
}

// RegisterProfileRoutes registers the profile, settings and skills endpoints.
func RegisterProfileRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	api := r.Group("/api/me")
	{
		api.Use(middleware.SessionMiddleware(hb.Sessions, hb.CookieName, false))
		api.Use(middleware.RequireAuth())
		api.GET("/profile", hb.Profile.GetProfile)
		api.PATCH("/profile", hb.Profile.UpdateProfile)
		api.POST("/password", hb.Profile.ChangePassword)
		api.GET("/skills", hb.Profile.ListSkills)
		api.POST("/skills", hb.Profile.AddSkill)
		api.DELETE("/skills/:skill", hb.Profile.RemoveSkill)
	}
}

// RegisterAdminRoutes sets up endpoints for admin operations.
func RegisterAdminRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	adminGroup := r.Group("/api/admin")
	{
		adminGroup.Use(middleware.SessionMiddleware(hb.Sessions, hb.CookieName, false))
		adminGroup.Use(middleware.RequireAuth())
		adminGroup.Use(middleware.RequireAdmin())
		adminGroup.GET("", hb.Admin.Overview)
		adminGroup.GET("/users", hb.Admin.ListUsers)
		adminGroup.GET("/tasks", hb.Admin.ListTasks)
		adminGroup.PATCH("/users/:id/status", hb.Admin.SetUserStatus)
	}
}

// RegisterPublicRoutes registers endpoints that work signed out.
func RegisterPublicRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.GET("/health", hb.Health.Health)
	api := r.Group("/api")
	{
		api.GET("/geo/reverse", hb.Geo.ReverseGeocode)
		api.GET("/legal", middleware.SessionMiddleware(hb.Sessions, hb.CookieName, true), hb.Admin.GetLegalSections)
	}
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle, allowedOrigins []string) {
	origins := allowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Authorization", "Content-Type", utils.SessionHeader, "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	RegisterPublicRoutes(r, hb)
	RegisterAuthRoutes(r, hb)
	RegisterAvailabilityRoutes(r, hb)
	RegisterTaskRoutes(r, hb)
	RegisterProfileRoutes(r, hb)
	RegisterAdminRoutes(r, hb)
}
