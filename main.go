// File: main.go
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"neighborly/config"
	"neighborly/database"
	draftRepo "neighborly/database/repository/draft"
	sessionRepo "neighborly/database/repository/session"
	"neighborly/handlers"
	"neighborly/middleware"
	"neighborly/routes"
	"neighborly/services/admin"
	"neighborly/services/availability"
	"neighborly/services/backend"
	"neighborly/services/geo"
	"neighborly/services/session"
	"neighborly/services/tasks"
	"neighborly/services/user"
	"neighborly/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "neighborly",
		Short: "Neighborly backend-for-frontend",
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			config.LoadConfig()
			utils.InitializeLogger()
		},
		SilenceUsage: true,
	}
	rootCmd.AddCommand(newServeCmd(), newEnsureIndexesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Start the HTTP server",
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve()
		},
	}
}

func newEnsureIndexesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "ensure-indexes",
		Short: "Create MongoDB indexes for the sessions collection",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := database.InitDB(); err != nil {
				return err
			}
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			defer func() { _ = database.Close(ctx) }()

			if err := sessionRepo.NewMongoSessionRepo(database.Database()).EnsureIndexes(ctx); err != nil {
				return err
			}
			utils.GetLogger().Info("Session indexes ensured")
			return nil
		},
	}
}

func serve() error {
	logger := utils.GetLogger()
	cfg := config.AppConfig

	if err := database.InitDB(); err != nil {
		return err
	}
	utils.InitRedis()

	if config.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	// Create the Gin router.
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(utils.ErrorHandler())
	router.Use(middleware.RequestLogger())
	router.Use(middleware.RateLimitMiddleware(cfg.MaxRequestsPerMin))

	// repositories.
	sessions := sessionRepo.NewMongoSessionRepo(database.Database())
	if err := sessions.EnsureIndexes(context.Background()); err != nil {
		logger.Warn("main: failed to ensure session indexes", zap.Error(err))
	}
	drafts := draftRepo.NewRedisDraftRepo(utils.GetDraftClient(), cfg.DraftTTL)

	// services.
	backendClient := backend.NewClient(backend.Options{
		BaseURL:    cfg.BackendURL,
		HTTPClient: &http.Client{Timeout: cfg.BackendTimeout},
		RetryCount: cfg.BackendRetryCount,
		RetryWait:  cfg.BackendRetryWait,
		StaleTime:  cfg.BackendStaleTime,
		Cache:      backend.NewRedisResponseCache(utils.GetCacheClient()),
	})

	sessionService := &session.DefaultSessionService{
		Repo:    sessions,
		Backend: backendClient,
		TTL:     cfg.SessionTTL,
	}
	availabilityService := &availability.DefaultAvailabilityService{
		Drafts:   drafts,
		Backend:  backendClient,
		Location: config.CalendarLocation(),
	}
	taskService := &tasks.DefaultTaskService{Backend: backendClient}
	userService := &user.DefaultUserService{Backend: backendClient}
	adminService := &admin.DefaultAdminService{Backend: backendClient, Sessions: sessions}
	geocoder := geo.NewNominatimGeocoder(cfg.GeocoderURL, cfg.GeocoderUserAgent, utils.GetCacheClient())

	// Assemble the handler bundle.
	handlerBundle := &handlers.HandlerBundle{
		Sessions:     sessionService,
		CookieName:   cfg.SessionCookieName,
		Auth:         handlers.NewAuthHandler(sessionService, cfg.SessionCookieName, cfg.CookieSecure),
		Availability: handlers.NewAvailabilityHandler(availabilityService),
		Tasks:        handlers.NewTaskHandler(taskService),
		Profile:      handlers.NewProfileHandler(userService),
		Admin:        handlers.NewAdminHandler(adminService),
		Geo:          handlers.NewGeoHandler(geocoder),
		Health:       handlers.NewHealthHandler(),
	}
	routes.RegisterRoutes(router, handlerBundle, cfg.CORSAllowedOrigins)

	monitorCtx, stopMonitor := context.WithCancel(context.Background())
	defer stopMonitor()
	utils.StartHealthMonitor(monitorCtx, 30*time.Second,
		[]*redis.Client{utils.GetCacheClient(), utils.GetDraftClient()}, database.MongoClient)

	// Start the HTTP server.
	port := cfg.AppPort
	if port == "" {
		port = "8080"
	}
	srv := &http.Server{
		Addr:              "0.0.0.0:" + port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErr := make(chan error, 1)
	logger.Info("Starting server", zap.String("addr", srv.Addr), zap.String("env", cfg.Env))
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	// Wait for an OS signal to gracefully shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case err := <-serverErr:
		logger.Error("main: server failed to start", zap.Error(err))
		return err
	case <-quit:
	}
	logger.Info("main: server is shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("main: server forced to shutdown", zap.Error(err))
		return err
	}
	_ = utils.GetCacheClient().Close()
	_ = utils.GetDraftClient().Close()
	if err := database.Close(ctx); err != nil {
		logger.Warn("main: failed to disconnect MongoDB", zap.Error(err))
	}

	logger.Info("main: server stopped gracefully")
	return nil
}
