package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/vincebiwott/safari-park-maintenance-v/config"
	"github.com/vincebiwott/safari-park-maintenance-v/controllers"
	"github.com/vincebiwott/safari-park-maintenance-v/middleware"
	"github.com/vincebiwott/safari-park-maintenance-v/models"
	"github.com/vincebiwott/safari-park-maintenance-v/services"
	"github.com/vincebiwott/safari-park-maintenance-v/views"
)

// dependencies are the collaborators the router is built from
type dependencies struct {
	cfg       *config.Config
	logger    *zap.Logger
	auth      services.AuthProvider
	profiles  services.ProfileStore
	storage   services.ObjectStorage
	validator *validator.Validator
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := config.NewLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to build logger: %v", err)
	}
	defer logger.Sync()

	logger.Info("Starting Safari Park Maintenance server...", zap.String("env", cfg.GoEnv))

	client := services.NewSupabaseClient(cfg)
	defer client.Close()

	deps := dependencies{
		cfg:    cfg,
		logger: logger,
		auth:   services.NewSupabaseAuthService(client),
	}

	if cfg.DatabaseURL != "" {
		db, err := config.ConnectDatabase(cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer config.CloseDatabase(db)
		deps.profiles = services.NewGormProfileStore(db, cfg.ProfilesTable)
		logger.Info("Using direct database profile store", zap.String("table", cfg.ProfilesTable))
	} else {
		deps.profiles = services.NewPostgrestProfileStore(client, cfg.ProfilesTable)
		logger.Info("Using REST profile store", zap.String("table", cfg.ProfilesTable))
	}

	if cfg.StorageEnabled() {
		storage, err := services.NewS3Storage(context.Background(), cfg)
		if err != nil {
			logger.Fatal("Failed to initialize export storage", zap.Error(err))
		}
		deps.storage = storage
	} else {
		logger.Info("STORAGE_BUCKET not set, profile export disabled")
	}

	if cfg.SupabaseJWTSecret == "" {
		logger.Warn("SUPABASE_JWT_SECRET not set, every protected route will reject sessions")
	}
	deps.validator, err = middleware.NewSessionValidator(cfg)
	if err != nil {
		logger.Fatal("Failed to set up the session validator", zap.Error(err))
	}

	router := setupRouter(deps)

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		logger.Info("Server is running", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", zap.Error(err))
	}
}

// setupRouter wires workflows, controllers and routes
func setupRouter(deps dependencies) *gin.Engine {
	if deps.cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	signup := services.NewSignupService(deps.auth, deps.profiles, deps.logger)
	login := services.NewLoginService(deps.auth, deps.profiles, deps.cfg.RequireApproval, deps.logger)
	exports := services.NewExportService(deps.profiles, deps.storage, deps.logger)

	authController := controllers.NewAuthController(signup, login, deps.cfg.IsProduction(), deps.logger)
	adminController := controllers.NewAdminController(deps.profiles, exports, deps.logger)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestLogger(deps.logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     deps.cfg.CORSAllowedOrigins,
		AllowMethods:     []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.SetHTMLTemplate(views.Templates())

	apiSession := middleware.EnsureValidSession(deps.validator, deps.logger)
	pageSession := middleware.EnsureValidPageSession(deps.validator, deps.logger)

	// API v1 routes
	v1 := router.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)

		auth := v1.Group("/auth")
		auth.POST("/signup", authController.Signup)
		auth.POST("/login", authController.Login)

		admin := v1.Group("/admin", apiSession, middleware.RequireRole(deps.profiles, models.RoleSuperAdmin, deps.logger))
		admin.GET("/profiles", adminController.ListProfiles)
		admin.POST("/profiles/export", adminController.ExportProfiles)
	}

	// Pages
	router.GET("/", func(c *gin.Context) { c.Redirect(http.StatusSeeOther, "/login") })
	router.GET("/login", authController.ShowLogin)
	router.POST("/login", authController.SubmitLogin)
	router.GET("/signup", authController.ShowSignup)
	router.POST("/signup", authController.SubmitSignup)
	router.POST("/logout", authController.Logout)

	router.GET("/admin", pageSession, middleware.RequireRolePage(deps.profiles, models.RoleSuperAdmin, deps.logger), adminController.AdminPage)
	router.GET("/techboard", pageSession, controllers.BoardPage("Technician Board"))
	router.GET("/ticket", pageSession, controllers.BoardPage("Supervisor Tickets"))
	router.GET("/hod", pageSession, controllers.BoardPage("Head of Department"))
	router.GET("/dashboard", pageSession, controllers.BoardPage("Dashboard"))

	return router
}

// healthCheck handles the health check endpoint
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Safari Park Maintenance API is running",
	})
}
