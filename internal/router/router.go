package router

import (
	"database/sql"
	"net/http"

	"associa_backend/internal/config"
	"associa_backend/internal/handlers"
	"associa_backend/internal/middleware"
	"associa_backend/internal/repositories"
	"associa_backend/internal/services"
	"associa_backend/pkg/utils"

	"github.com/gin-gonic/gin"
)

// Setup initializes the routing for the application.
// backupService is shared with the daily scheduler started in main.
func Setup(engine *gin.Engine, db *sql.DB, cfg *config.Config, backupService services.BackupService) {
	tokenManager := utils.NewTokenManager(cfg.JWTSecret, cfg.JWTExpiration)

	// Initialize Repositories
	authRepo := repositories.NewAuthRepository()
	orgRepo := repositories.NewOrganizationRepository()
	memberRepo := repositories.NewMemberRepository()
	duesRepo := repositories.NewDuesRepository()
	settingRepo := repositories.NewSettingRepository()
	reportRepo := repositories.NewReportRepository()
	complaintRepo := repositories.NewComplaintRepository()
	ratingRepo := repositories.NewRatingRepository()

	// Initialize Services
	authService := services.NewAuthService(authRepo, orgRepo, db, tokenManager)
	organizationService := services.NewOrganizationService(orgRepo, authRepo, settingRepo, db, tokenManager)
	memberService := services.NewMemberService(memberRepo, orgRepo, db)
	duesService := services.NewDuesService(duesRepo, memberRepo, settingRepo, db)
	reportService := services.NewReportService(reportRepo, duesRepo, orgRepo, db)
	exportService := services.NewExportService(memberRepo, duesRepo, db)
	settingService := services.NewSettingService(settingRepo, orgRepo, db)
	feedbackService := services.NewFeedbackService(complaintRepo, ratingRepo, db)

	// Initialize Handlers
	authHandler := handlers.NewAuthHandler(authService)
	organizationHandler := handlers.NewOrganizationHandler(organizationService)
	memberHandler := handlers.NewMemberHandler(memberService)
	duesHandler := handlers.NewDuesHandler(duesService)
	reportHandler := handlers.NewReportHandler(reportService, exportService)
	settingHandler := handlers.NewSettingHandler(settingService, backupService)
	feedbackHandler := handlers.NewFeedbackHandler(feedbackService)

	api := engine.Group("/api")
	api.GET("/health", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			utils.LogError(err, "Health check: database unreachable")
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "error"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	// Public routes share one limiter per client IP.
	limiter := middleware.NewIPRateLimiter(cfg.LoginRatePerMinute)
	SetupPublicRoutes(api, limiter, authHandler, organizationHandler)

	authenticated := api.Group("")
	authenticated.Use(middleware.AuthMiddleware(tokenManager))
	{
		SetupAuthRoutes(authenticated, authHandler)
		SetupMemberRoutes(authenticated, memberHandler)
		SetupDuesRoutes(authenticated, duesHandler)
		SetupReportRoutes(authenticated, reportHandler)
		SetupSettingsRoutes(authenticated, settingHandler, cfg.BackupOrganizationID)
		SetupComplaintRoutes(authenticated, feedbackHandler)
		SetupRatingRoutes(authenticated, feedbackHandler)
	}
}
