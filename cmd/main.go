package main

import (
	"pcp-service/internal/handler"
	mid "pcp-service/internal/middleware"
	"pcp-service/internal/model"
	"pcp-service/internal/session"
	"pcp-service/internal/settings"
	"pcp-service/internal/store"
	"pcp-service/pkg/config"
	"pcp-service/pkg/jwtutil"
	"pcp-service/pkg/localstore"
	"pcp-service/pkg/logger"
	"pcp-service/prometheus"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	appConfig, err := config.Load()
	if err != nil {
		// Can't use structured logger yet since it's not initialized
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	logger.InitLogger(appConfig)
	log := logger.GetLogger()
	defer log.Sync()

	log.Info("Starting pcp-service",
		zap.String("environment", appConfig.Server.Env),
		zap.String("port", appConfig.Server.Port))

	// Initialize JWT utility
	jwtutil.Initialize(&appConfig.JWT)
	log.Info("JWT utility initialized")

	// Open the local key/value store (settings, session, oauth token)
	kv, err := localstore.Open(appConfig.Store.Path)
	if err != nil {
		log.Fatal("Failed to open local store", zap.Error(err))
	}
	defer kv.Close()
	log.Info("Local store opened", zap.String("path", appConfig.Store.Path))

	// Settings and session stores
	settingsStore := settings.NewStore(kv)
	sessions := session.NewStore(kv, log)
	if appConfig.Admin.Email != "" && appConfig.Admin.Password != "" {
		if err := sessions.Seed("Administrator", appConfig.Admin.Email, appConfig.Admin.Password, model.RoleAdmin); err != nil {
			log.Fatal("Failed to seed admin account", zap.Error(err))
		}
		log.Info("Admin account seeded", zap.String("email", appConfig.Admin.Email))
	}
	sessions.Initialize()

	// Backend adapter and Drive uploader
	adapter := store.NewAdapter(settingsStore, log)
	uploader := store.NewDriveUploader(settingsStore, log)
	log.Info("Backend adapter initialized", zap.String("backend", settingsStore.Backend()))

	// Handlers
	authHandler := handler.NewAuthHandler(sessions)
	entityHandler := handler.NewEntityHandler(adapter)
	settingsHandler := handler.NewSettingsHandler(settingsStore)
	uploadHandler := handler.NewUploadHandler(uploader)
	dashboardHandler := handler.NewDashboardHandler(adapter)

	// Initialize Echo instance
	e := echo.New()
	e.Validator = handler.NewValidator()

	// Middleware
	e.Use(middleware.Recover())
	e.Use(mid.RequestIDMiddleware)
	e.Use(mid.MetricsMiddleware)

	// Metrics endpoint
	e.GET("/metrics", echo.WrapHandler(prometheus.GetPrometheusHandler()))

	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Authentication routes
	e.POST("/api/auth/login", authHandler.Login)
	e.POST("/api/auth/register", authHandler.Register)
	e.POST("/api/auth/logout", authHandler.Logout, mid.AuthMiddleware)
	e.GET("/api/auth/me", authHandler.Me, mid.AuthMiddleware)
	e.PUT("/api/auth/profile", authHandler.UpdateProfile, mid.AuthMiddleware)

	// Entity API routes - every dashboard page binds to these
	entityAPI := e.Group("/api/entities", mid.AuthMiddleware)
	entityAPI.GET("/:entity", entityHandler.List)
	entityAPI.POST("/:entity", entityHandler.Create)
	entityAPI.PUT("/:entity/:id", entityHandler.Update)
	entityAPI.DELETE("/:entity/:id", entityHandler.Delete)

	// Settings screen routes
	settingsAPI := e.Group("/api/settings", mid.AuthMiddleware)
	settingsAPI.GET("", settingsHandler.Get)
	settingsAPI.PUT("", settingsHandler.Update)
	settingsAPI.GET("/status", settingsHandler.Status)

	// Image uploads and dashboard widgets
	e.POST("/api/uploads", uploadHandler.Upload, mid.AuthMiddleware)
	e.GET("/api/dashboard/summary", dashboardHandler.Summary, mid.AuthMiddleware)

	// Start server
	port := appConfig.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Server error", zap.Error(err))
	}
}
