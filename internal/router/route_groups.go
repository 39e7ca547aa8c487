package router

import (
	"associa_backend/internal/handlers"
	"associa_backend/internal/middleware"
	"associa_backend/internal/models"

	"github.com/gin-gonic/gin"
)

// SetupPublicRoutes sets up login and organization sign-up, both rate limited.
func SetupPublicRoutes(apiGroup *gin.RouterGroup, limiter *middleware.IPRateLimiter, authHandler *handlers.AuthHandler, organizationHandler *handlers.OrganizationHandler) {
	limited := middleware.RateLimitMiddleware(limiter)
	apiGroup.POST("/auth/login", limited, authHandler.Login)
	apiGroup.POST("/associacoes/cadastro", limited, organizationHandler.Register)
}

// SetupAuthRoutes sets up the session and user management routes.
func SetupAuthRoutes(authenticatedGroup *gin.RouterGroup, authHandler *handlers.AuthHandler) {
	authRoutes := authenticatedGroup.Group("/auth")
	{
		authRoutes.GET("/me", authHandler.Me)
		authRoutes.PUT("/senha", authHandler.ChangePassword)
	}

	userRoutes := authRoutes.Group("")
	userRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		userRoutes.GET("/usuarios", authHandler.ListUsers)
		userRoutes.POST("/usuarios", authHandler.CreateUser)
		userRoutes.DELETE("/usuarios/:id", authHandler.DeleteUser)
		userRoutes.GET("/check-username", authHandler.CheckUsername)
	}
}

// SetupMemberRoutes sets up the member routes. Only admins delete.
func SetupMemberRoutes(authenticatedGroup *gin.RouterGroup, memberHandler *handlers.MemberHandler) {
	memberRoutes := authenticatedGroup.Group("/associados")
	{
		memberRoutes.GET("", memberHandler.GetMembers)
		memberRoutes.GET("/capacidade", memberHandler.GetCapacity)
		memberRoutes.GET("/todos", memberHandler.GetAllMembers)
		memberRoutes.GET("/:id", memberHandler.GetMemberByID)
		memberRoutes.POST("", memberHandler.CreateMember)
		memberRoutes.PUT("/:id", memberHandler.UpdateMember)
		memberRoutes.DELETE("/:id", middleware.RoleAuthMiddleware(models.RoleAdmin), memberHandler.DeleteMember)
	}
}

// SetupDuesRoutes sets up the dues routes.
// Generation, payment reversal and deletion are admin only.
func SetupDuesRoutes(authenticatedGroup *gin.RouterGroup, duesHandler *handlers.DuesHandler) {
	duesRoutes := authenticatedGroup.Group("/mensalidades")
	{
		duesRoutes.GET("", duesHandler.GetDues)
		duesRoutes.GET("/inadimplentes", duesHandler.GetArrears)
		duesRoutes.POST("", duesHandler.CreateDues)
		duesRoutes.POST("/:id/pagar", duesHandler.MarkPaid)
	}

	adminRoutes := duesRoutes.Group("")
	adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		adminRoutes.POST("/gerar-mes", duesHandler.GenerateMonth)
		adminRoutes.POST("/:id/cancelar-pagamento", duesHandler.RevertPayment)
		adminRoutes.DELETE("/:id", duesHandler.DeleteDues)
	}
}

// SetupReportRoutes sets up the report and export routes.
func SetupReportRoutes(authenticatedGroup *gin.RouterGroup, reportHandler *handlers.ReportHandler) {
	reportRoutes := authenticatedGroup.Group("/relatorios")
	{
		reportRoutes.GET("/dashboard", reportHandler.GetDashboard)
		reportRoutes.GET("/financeiro", reportHandler.GetFinancialReport)
		reportRoutes.GET("/exportar-excel", reportHandler.ExportMembers)
		reportRoutes.GET("/exportar-mensalidades", reportHandler.ExportDues)
	}
}

// SetupSettingsRoutes sets up the configuration routes. Backups cover the whole
// database, so they are further limited to admins of the operator organization.
func SetupSettingsRoutes(authenticatedGroup *gin.RouterGroup, settingHandler *handlers.SettingHandler, backupOrganizationID int64) {
	settingsRoutes := authenticatedGroup.Group("/configuracoes")
	settingsRoutes.GET("", settingHandler.GetSettings)

	adminRoutes := settingsRoutes.Group("")
	adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		adminRoutes.PUT("", settingHandler.SaveSettings)
	}

	backupRoutes := adminRoutes.Group("")
	backupRoutes.Use(middleware.OrganizationAuthMiddleware(backupOrganizationID))
	{
		backupRoutes.POST("/backup", settingHandler.CreateBackup)
		backupRoutes.GET("/backups", settingHandler.ListBackups)
		backupRoutes.GET("/backup/:arquivo", settingHandler.DownloadBackup)
	}
}

// SetupComplaintRoutes sets up the complaint routes. Any user may file one.
func SetupComplaintRoutes(authenticatedGroup *gin.RouterGroup, feedbackHandler *handlers.FeedbackHandler) {
	complaintRoutes := authenticatedGroup.Group("/denuncias")
	complaintRoutes.POST("", feedbackHandler.CreateComplaint)

	adminRoutes := complaintRoutes.Group("")
	adminRoutes.Use(middleware.RoleAuthMiddleware(models.RoleAdmin))
	{
		adminRoutes.GET("", feedbackHandler.GetComplaints)
		adminRoutes.PUT("/:id/status", feedbackHandler.UpdateComplaintStatus)
		adminRoutes.DELETE("/:id", feedbackHandler.DeleteComplaint)
	}
}

// SetupRatingRoutes sets up the rating routes.
func SetupRatingRoutes(authenticatedGroup *gin.RouterGroup, feedbackHandler *handlers.FeedbackHandler) {
	ratingRoutes := authenticatedGroup.Group("/avaliacoes")
	ratingRoutes.POST("", feedbackHandler.SubmitRating)
	ratingRoutes.GET("", middleware.RoleAuthMiddleware(models.RoleAdmin), feedbackHandler.GetRatings)
}
