// Package config loads the server settings from the environment.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"associa_backend/pkg/utils"

	"github.com/joho/godotenv"
)

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"

	devJWTSecret = "associa-dev-secret-change-me"
)

// Config holds every tunable of the server process.
type Config struct {
	Port string

	// MetricsAddr is the internal listener for Prometheus scrapes, kept off the API port.
	MetricsAddr string

	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string

	JWTSecret     string
	JWTExpiration time.Duration

	CORSAllowedOrigins []string

	BackupDir        string
	BackupRetention  int
	BackupHour       int
	BackupS3Bucket   string
	BackupS3Region   string
	BackupS3Endpoint string

	// BackupOrganizationID is the tenant whose admins may manage instance-wide backups.
	BackupOrganizationID int64

	OTLPEndpoint string

	LogLevel  string
	LogFormat string

	LoginRatePerMinute int
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	// A missing .env is normal in containers.
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the current environment only.
func FromEnv() (*Config, error) {
	cfg := &Config{
		Port:             utils.Getenv("PORT", "8080"),
		MetricsAddr:      utils.Getenv("METRICS_ADDR", "127.0.0.1:9090"),
		DBDriver:         utils.Getenv("DB_DRIVER", DriverSQLite),
		DBPath:           utils.Getenv("DB_PATH", "data/associa.db"),
		DBHost:           utils.Getenv("DB_HOST", "localhost"),
		DBPort:           utils.Getenv("DB_PORT", "5432"),
		DBUser:           utils.Getenv("DB_USER", "associa"),
		DBPassword:       utils.Getenv("DB_PASSWORD", ""),
		DBName:           utils.Getenv("DB_NAME", "associa"),
		DBSSLMode:        utils.Getenv("DB_SSLMODE", "disable"),
		JWTSecret:        utils.Getenv("JWT_SECRET", devJWTSecret),
		BackupDir:        utils.Getenv("BACKUP_DIR", "backups"),
		BackupS3Bucket:   utils.Getenv("BACKUP_S3_BUCKET", ""),
		BackupS3Region:   utils.Getenv("BACKUP_S3_REGION", "us-east-1"),
		BackupS3Endpoint: utils.Getenv("BACKUP_S3_ENDPOINT", ""),
		OTLPEndpoint:     utils.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
		LogLevel:         utils.Getenv("LOG_LEVEL", "info"),
		LogFormat:        utils.Getenv("LOG_FORMAT", "console"),
	}

	origins := utils.Getenv("CORS_ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.CORSAllowedOrigins = append(cfg.CORSAllowedOrigins, o)
		}
	}

	var err error
	if cfg.JWTExpiration, err = utils.GetenvDuration("JWT_EXPIRATION", 8*time.Hour); err != nil {
		return nil, err
	}
	if cfg.BackupRetention, err = utils.GetenvInt("BACKUP_RETENTION", 30); err != nil {
		return nil, err
	}
	if cfg.BackupHour, err = utils.GetenvInt("BACKUP_HOUR", 2); err != nil {
		return nil, err
	}
	if cfg.LoginRatePerMinute, err = utils.GetenvInt("LOGIN_RATE_PER_MINUTE", 10); err != nil {
		return nil, err
	}
	backupOrg, err := utils.GetenvInt("BACKUP_ORGANIZATION_ID", 1)
	if err != nil {
		return nil, err
	}
	cfg.BackupOrganizationID = int64(backupOrg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.DBDriver {
	case DriverSQLite, DriverPostgres:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver)
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET must not be empty")
	}
	if c.JWTExpiration <= 0 {
		return errors.New("JWT_EXPIRATION must be positive")
	}
	if c.BackupRetention <= 0 {
		return errors.New("BACKUP_RETENTION must be positive")
	}
	if c.BackupHour < 0 || c.BackupHour > 23 {
		return fmt.Errorf("BACKUP_HOUR must be between 0 and 23, got %d", c.BackupHour)
	}
	if c.BackupOrganizationID <= 0 {
		return errors.New("BACKUP_ORGANIZATION_ID must be positive")
	}
	if c.MetricsAddr != "" && strings.HasSuffix(c.MetricsAddr, ":"+c.Port) {
		return fmt.Errorf("METRICS_ADDR %q must not share the API port", c.MetricsAddr)
	}
	if c.LoginRatePerMinute <= 0 {
		return errors.New("LOGIN_RATE_PER_MINUTE must be positive")
	}
	return nil
}

// UsesDevSecret reports whether the built-in development JWT secret is active.
func (c *Config) UsesDevSecret() bool {
	return c.JWTSecret == devJWTSecret
}

// PostgresDSN renders the lib/pq connection string.
func (c *Config) PostgresDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, c.DBPassword, c.DBName, c.DBSSLMode)
}
