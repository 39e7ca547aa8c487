package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("DB_DRIVER", "")
	t.Setenv("JWT_SECRET", "")
	t.Setenv("BACKUP_RETENTION", "")
	t.Setenv("METRICS_ADDR", "")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "127.0.0.1:9090", cfg.MetricsAddr)
	assert.Equal(t, DriverSQLite, cfg.DBDriver)
	assert.Equal(t, 8*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, 30, cfg.BackupRetention)
	assert.Equal(t, 2, cfg.BackupHour)
	assert.Equal(t, int64(1), cfg.BackupOrganizationID)
	assert.True(t, cfg.UsesDevSecret())
	assert.NotEmpty(t, cfg.CORSAllowedOrigins)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("DB_DRIVER", "postgres")
	t.Setenv("DB_HOST", "db.internal")
	t.Setenv("JWT_SECRET", "s3cr3t")
	t.Setenv("JWT_EXPIRATION", "2h")
	t.Setenv("BACKUP_RETENTION", "5")
	t.Setenv("CORS_ALLOWED_ORIGINS", "https://a.example, https://b.example ,")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, DriverPostgres, cfg.DBDriver)
	assert.Equal(t, 2*time.Hour, cfg.JWTExpiration)
	assert.Equal(t, 5, cfg.BackupRetention)
	assert.False(t, cfg.UsesDevSecret())
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.CORSAllowedOrigins)
	assert.Contains(t, cfg.PostgresDSN(), "host=db.internal")
}

func TestFromEnv_Invalid(t *testing.T) {
	tests := []struct {
		name  string
		key   string
		value string
	}{
		{"unknown driver", "DB_DRIVER", "mysql"},
		{"bad retention", "BACKUP_RETENTION", "abc"},
		{"zero retention", "BACKUP_RETENTION", "0"},
		{"hour out of range", "BACKUP_HOUR", "24"},
		{"bad duration", "JWT_EXPIRATION", "forever"},
		{"zero backup organization", "BACKUP_ORGANIZATION_ID", "0"},
		{"metrics on the API port", "METRICS_ADDR", ":8080"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(tt.key, tt.value)
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}
