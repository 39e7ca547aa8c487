package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"associa_backend/internal/clients"
	"associa_backend/internal/config"
	"associa_backend/internal/models"
	"associa_backend/internal/telemetry"
	"associa_backend/pkg/utils"
)

var (
	ErrBackupUnsupported = errors.New("backups are only supported for the sqlite3 driver")
	ErrBackupNotFound    = errors.New("backup file not found")
)

const (
	backupPrefix     = "backup_"
	backupSuffix     = ".db"
	backupTimeLayout = "2006-01-02T15-04-05"
	backupS3Prefix   = "backups/"
)

// BackupOptions configures where backups go and how many are kept.
type BackupOptions struct {
	Driver    string
	Dir       string
	Retention int
}

// BackupService snapshots the SQLite database into timestamped files.
type BackupService interface {
	CreateBackup(ctx context.Context) (string, error)
	ListBackups(ctx context.Context) ([]models.BackupInfo, error)
	BackupPath(name string) (string, error)
	RunDaily(ctx context.Context, hour int)
}

type backupService struct {
	opts     BackupOptions
	db       *sql.DB
	uploader clients.ObjectUploader // nil disables off-site copies
	now      func() time.Time
	mu       sync.Mutex
}

// NewBackupService creates a new instance of BackupService. uploader may be nil.
func NewBackupService(opts BackupOptions, db *sql.DB, uploader clients.ObjectUploader) BackupService {
	if opts.Retention <= 0 {
		opts.Retention = 30
	}
	return &backupService{opts: opts, db: db, uploader: uploader, now: time.Now}
}

func isBackupName(name string) bool {
	return strings.HasPrefix(name, backupPrefix) && strings.HasSuffix(name, backupSuffix) &&
		filepath.Base(name) == name && !strings.ContainsAny(name, `/\`)
}

// CreateBackup writes a consistent snapshot with VACUUM INTO, prunes old files
// and, when configured, uploads the snapshot. It returns the file name.
func (s *backupService) CreateBackup(ctx context.Context) (name string, err error) {
	ctx, span := startSpan(ctx, "backup.create", 0)
	defer func() {
		endSpan(span, err)
		outcome := "success"
		if err != nil {
			outcome = "failure"
		}
		telemetry.Backups.WithLabelValues(outcome).Inc()
	}()

	if s.opts.Driver != config.DriverSQLite {
		return "", ErrBackupUnsupported
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.MkdirAll(s.opts.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create backup directory: %w", err)
	}
	name = backupPrefix + s.now().Format(backupTimeLayout) + backupSuffix
	path := filepath.Join(s.opts.Dir, name)

	// VACUUM INTO refuses to overwrite; a second backup in the same second replaces the first.
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return "", fmt.Errorf("failed to replace backup %s: %w", name, err)
	}
	if _, err := s.db.ExecContext(ctx, "VACUUM INTO '"+strings.ReplaceAll(path, "'", "''")+"'"); err != nil {
		return "", fmt.Errorf("failed to write backup %s: %w", name, err)
	}

	if err := s.prune(); err != nil {
		utils.LogWarn("Backup retention failed", map[string]interface{}{"error": err.Error()})
	}
	if s.uploader != nil {
		if err := s.upload(ctx, name, path); err != nil {
			utils.LogWarn("Off-site backup upload failed", map[string]interface{}{"arquivo": name, "error": err.Error()})
		}
	}

	utils.LogInfo("Backup created", map[string]interface{}{"arquivo": name})
	return name, nil
}

func (s *backupService) upload(ctx context.Context, name, path string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return s.uploader.Upload(ctx, backupS3Prefix+name, f)
}

// backupNames lists backup files, newest first. Names sort chronologically.
func (s *backupService) backupNames() ([]os.DirEntry, error) {
	entries, err := os.ReadDir(s.opts.Dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read backup directory: %w", err)
	}
	backups := make([]os.DirEntry, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && isBackupName(e.Name()) {
			backups = append(backups, e)
		}
	}
	sort.Slice(backups, func(i, j int) bool { return backups[i].Name() > backups[j].Name() })
	return backups, nil
}

// prune deletes everything beyond the newest Retention backups.
func (s *backupService) prune() error {
	backups, err := s.backupNames()
	if err != nil {
		return err
	}
	if len(backups) <= s.opts.Retention {
		return nil
	}
	for _, e := range backups[s.opts.Retention:] {
		if err := os.Remove(filepath.Join(s.opts.Dir, e.Name())); err != nil {
			return fmt.Errorf("failed to remove old backup %s: %w", e.Name(), err)
		}
		utils.LogDebug("Old backup removed", map[string]interface{}{"arquivo": e.Name()})
	}
	return nil
}

func (s *backupService) ListBackups(ctx context.Context) ([]models.BackupInfo, error) {
	backups, err := s.backupNames()
	if err != nil {
		return nil, err
	}
	infos := make([]models.BackupInfo, 0, len(backups))
	for _, e := range backups {
		fi, err := e.Info()
		if err != nil {
			// Removed between ReadDir and Info.
			continue
		}
		infos = append(infos, models.BackupInfo{File: e.Name(), Size: fi.Size(), Modified: fi.ModTime()})
	}
	return infos, nil
}

// BackupPath resolves a backup file name to its path. Only plain backup file
// names inside the backup directory are accepted.
func (s *backupService) BackupPath(name string) (string, error) {
	if !isBackupName(name) {
		return "", ErrBackupNotFound
	}
	path := filepath.Join(s.opts.Dir, name)
	fi, err := os.Stat(path)
	if err != nil || !fi.Mode().IsRegular() {
		return "", ErrBackupNotFound
	}
	return path, nil
}

// nextRun returns the next time at hour:00 strictly after now, in now's location.
func nextRun(now time.Time, hour int) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), hour, 0, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// RunDaily takes a backup every day at hour:00 until ctx is cancelled.
func (s *backupService) RunDaily(ctx context.Context, hour int) {
	if s.opts.Driver != config.DriverSQLite {
		utils.LogWarn("Daily backup disabled", map[string]interface{}{"driver": s.opts.Driver})
		return
	}
	for {
		next := nextRun(s.now(), hour)
		utils.LogInfo("Next scheduled backup", map[string]interface{}{"at": next.Format(time.RFC3339)})

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			utils.LogInfo("Backup scheduler stopped")
			return
		case <-timer.C:
		}

		if _, err := s.CreateBackup(ctx); err != nil {
			utils.LogError(err, "Scheduled backup failed")
		}
	}
}
