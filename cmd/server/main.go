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

	"associa_backend/internal/clients"
	"associa_backend/internal/config"
	"associa_backend/internal/database"
	"associa_backend/internal/router"
	"associa_backend/internal/services"
	"associa_backend/internal/telemetry"
	"associa_backend/pkg/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	// Initialize Logger
	utils.InitLogger(cfg.LogLevel, cfg.LogFormat)
	if cfg.UsesDevSecret() {
		utils.LogWarn("JWT_SECRET not set, using the development secret")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.OTLPEndpoint, "associa-backend")
	if err != nil {
		utils.LogError(err, "Failed to set up tracing")
		os.Exit(1)
	}

	// Initialize Database
	db, err := database.Open(ctx, cfg)
	if err != nil {
		utils.LogError(err, "Failed to open database")
		os.Exit(1)
	}
	defer db.Close()
	if err := database.ApplySchema(ctx, db, cfg.DBDriver); err != nil {
		utils.LogError(err, "Failed to apply schema")
		os.Exit(1)
	}

	var uploader clients.ObjectUploader
	if cfg.BackupS3Bucket != "" {
		s3Client, err := clients.NewS3Client(ctx, cfg.BackupS3Bucket, cfg.BackupS3Region, cfg.BackupS3Endpoint)
		if err != nil {
			utils.LogError(err, "Failed to create S3 client")
			os.Exit(1)
		}
		uploader = s3Client
	}
	backupService := services.NewBackupService(services.BackupOptions{
		Driver:    cfg.DBDriver,
		Dir:       cfg.BackupDir,
		Retention: cfg.BackupRetention,
	}, db, uploader)
	go backupService.RunDaily(ctx, cfg.BackupHour)

	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(utils.GinLogger())
	engine.Use(telemetry.GinMetrics())

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.CORSAllowedOrigins
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", utils.RequestIDHeader}
	corsConfig.ExposeHeaders = []string{"Content-Disposition", utils.RequestIDHeader}
	corsConfig.AllowCredentials = true
	engine.Use(cors.New(corsConfig))

	// Setup all application routes
	router.Setup(engine, db, cfg, backupService)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		utils.LogInfo("Server starting", map[string]interface{}{"port": cfg.Port, "driver": cfg.DBDriver})
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start server")
			stop()
		}
	}()

	metricsSrv := telemetry.NewMetricsServer(cfg.MetricsAddr)
	go func() {
		utils.LogInfo("Metrics listener starting", map[string]interface{}{"addr": cfg.MetricsAddr})
		if err := metricsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			utils.LogError(err, "Failed to start metrics listener")
			stop()
		}
	}()

	<-ctx.Done()
	utils.LogInfo("Shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Server shutdown failed")
	}
	if err := metricsSrv.Shutdown(shutdownCtx); err != nil {
		utils.LogError(err, "Metrics listener shutdown failed")
	}
	if err := shutdownTracing(shutdownCtx); err != nil {
		utils.LogError(err, "Tracer shutdown failed")
	}
}
