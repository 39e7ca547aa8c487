package services

import (
	"context"
	"database/sql"
	"errors"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"associa_backend/internal/clients"
	"associa_backend/internal/config"
	"associa_backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUploader struct {
	mu    sync.Mutex
	keys  []string
	sizes []int
	err   error
}

func (u *fakeUploader) Upload(ctx context.Context, key string, body io.Reader) error {
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	u.mu.Lock()
	defer u.mu.Unlock()
	u.keys = append(u.keys, key)
	u.sizes = append(u.sizes, len(data))
	return u.err
}

func newTestBackupService(t *testing.T, db *sql.DB, retention int, uploader clients.ObjectUploader) (*backupService, string) {
	t.Helper()
	dir := filepath.Join(t.TempDir(), "backups")
	bs := NewBackupService(BackupOptions{Driver: config.DriverSQLite, Dir: dir, Retention: retention}, db, uploader).(*backupService)
	clock := time.Date(2024, 5, 1, 3, 0, 0, 0, time.UTC)
	bs.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}
	return bs, dir
}

func TestBackupService_CreateAndList(t *testing.T) {
	db := testutil.NewTestDB(t)
	testutil.CreateOrganization(t, db, "Bairro Verde")
	uploader := &fakeUploader{}
	svc, dir := newTestBackupService(t, db, 30, uploader)

	name, err := svc.CreateBackup(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "backup_2024-05-01T03-00-01.db", name)

	path, err := svc.BackupPath(name)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, name), path)

	// The snapshot is a usable database with the data in it.
	snapshot, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer snapshot.Close()
	var count int
	require.NoError(t, snapshot.QueryRow(`SELECT COUNT(*) FROM associacoes`).Scan(&count))
	assert.Equal(t, 1, count)

	require.Len(t, uploader.keys, 1)
	assert.Equal(t, "backups/"+name, uploader.keys[0])
	assert.Positive(t, uploader.sizes[0])

	list, err := svc.ListBackups(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, name, list[0].File)
	assert.Positive(t, list[0].Size)
}

func TestBackupService_UploadFailureKeepsLocalCopy(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc, _ := newTestBackupService(t, db, 30, &fakeUploader{err: errors.New("bucket unreachable")})

	name, err := svc.CreateBackup(context.Background())
	require.NoError(t, err)
	_, err = svc.BackupPath(name)
	assert.NoError(t, err)
}

func TestBackupService_Retention(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc, dir := newTestBackupService(t, db, 3, nil)
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notas.txt"), []byte("x"), 0o644))

	var names []string
	for i := 0; i < 5; i++ {
		name, err := svc.CreateBackup(context.Background())
		require.NoError(t, err)
		names = append(names, name)
	}

	list, err := svc.ListBackups(context.Background())
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, names[4], list[0].File, "newest first")
	assert.Equal(t, names[2], list[2].File)

	_, err = svc.BackupPath(names[0])
	assert.ErrorIs(t, err, ErrBackupNotFound)
	_, err = os.Stat(filepath.Join(dir, "notas.txt"))
	assert.NoError(t, err, "unrelated files are left alone")
}

func TestBackupService_BackupPathRejectsOtherFiles(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc, _ := newTestBackupService(t, db, 3, nil)
	name, err := svc.CreateBackup(context.Background())
	require.NoError(t, err)

	for _, bad := range []string{
		"../" + name,
		"backup_../../etc/passwd.db",
		"notas.txt",
		"backup_2024-01-01T00-00-00.db",
		"",
	} {
		_, err := svc.BackupPath(bad)
		assert.ErrorIs(t, err, ErrBackupNotFound, bad)
	}
}

func TestBackupService_PostgresUnsupported(t *testing.T) {
	svc := NewBackupService(BackupOptions{Driver: config.DriverPostgres, Dir: t.TempDir()}, nil, nil)
	_, err := svc.CreateBackup(context.Background())
	assert.ErrorIs(t, err, ErrBackupUnsupported)

	done := make(chan struct{})
	go func() {
		svc.RunDaily(context.Background(), 3)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunDaily should return immediately for postgres")
	}
}

func TestBackupService_RunDailyStopsOnCancel(t *testing.T) {
	db := testutil.NewTestDB(t)
	svc, _ := newTestBackupService(t, db, 3, nil)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan struct{})
	go func() {
		svc.RunDaily(ctx, 3)
		close(done)
	}()
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("RunDaily did not stop")
	}
}

func TestNextRun(t *testing.T) {
	loc := time.FixedZone("BRT", -3*60*60)
	tests := []struct {
		name string
		now  time.Time
		hour int
		want time.Time
	}{
		{name: "later today", now: time.Date(2024, 5, 1, 1, 30, 0, 0, loc), hour: 3, want: time.Date(2024, 5, 1, 3, 0, 0, 0, loc)},
		{name: "exactly at the hour", now: time.Date(2024, 5, 1, 3, 0, 0, 0, loc), hour: 3, want: time.Date(2024, 5, 2, 3, 0, 0, 0, loc)},
		{name: "tomorrow", now: time.Date(2024, 5, 1, 22, 0, 0, 0, loc), hour: 3, want: time.Date(2024, 5, 2, 3, 0, 0, 0, loc)},
		{name: "month end", now: time.Date(2024, 2, 29, 23, 0, 0, 0, loc), hour: 0, want: time.Date(2024, 3, 1, 0, 0, 0, 0, loc)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.want.Equal(nextRun(tt.now, tt.hour)), "got %s", nextRun(tt.now, tt.hour))
		})
	}
}
