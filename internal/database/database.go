package database

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"associa_backend/internal/config"
	"associa_backend/pkg/utils"

	_ "github.com/lib/pq"           // PostgreSQL driver
	_ "github.com/mattn/go-sqlite3" // SQLite driver
)

//go:embed schema/*.sql
var schemaFS embed.FS

// Open connects to the database selected by cfg and verifies the connection.
// The caller owns the returned handle.
func Open(ctx context.Context, cfg *config.Config) (*sql.DB, error) {
	switch cfg.DBDriver {
	case config.DriverSQLite:
		if dir := filepath.Dir(cfg.DBPath); dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return nil, fmt.Errorf("creating database directory %s: %w", dir, err)
			}
		}
		return OpenSQLite(ctx, SQLiteDSN(cfg.DBPath))
	case config.DriverPostgres:
		return openPostgres(ctx, cfg.PostgresDSN())
	default:
		return nil, fmt.Errorf("unsupported database driver %q", cfg.DBDriver)
	}
}

// SQLiteDSN enables foreign keys (needed for cascading deletes) and a busy timeout.
func SQLiteDSN(path string) string {
	return fmt.Sprintf("file:%s?_foreign_keys=on&_busy_timeout=5000", path)
}

// OpenSQLite opens an SQLite database with a single connection, so writes are
// serialized and in-memory databases stay alive for the handle's lifetime.
// Code holding a transaction must not issue statements on the *sql.DB itself.
func OpenSQLite(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(config.DriverSQLite, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite database: %w", err)
	}
	db.SetMaxOpenConns(1)
	db.SetConnMaxLifetime(0)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to sqlite database: %w", err)
	}
	utils.LogInfo("Connected to database", map[string]interface{}{"driver": config.DriverSQLite})
	return db, nil
}

func openPostgres(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open(config.DriverPostgres, dsn)
	if err != nil {
		return nil, fmt.Errorf("error opening postgres database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to postgres database: %w", err)
	}
	utils.LogInfo("Connected to database", map[string]interface{}{"driver": config.DriverPostgres})
	return db, nil
}

// ApplySchema creates every table that does not exist yet. It is safe to run on each start.
func ApplySchema(ctx context.Context, db *sql.DB, driver string) error {
	content, err := schemaFS.ReadFile("schema/" + schemaFile(driver))
	if err != nil {
		return fmt.Errorf("could not read schema for driver %s: %w", driver, err)
	}
	if _, err := db.ExecContext(ctx, string(content)); err != nil {
		return fmt.Errorf("could not execute schema script: %w", err)
	}
	utils.LogInfo("Database schema applied", map[string]interface{}{"driver": driver})
	return nil
}

func schemaFile(driver string) string {
	if driver == config.DriverPostgres {
		return "postgres.sql"
	}
	return "sqlite.sql"
}
