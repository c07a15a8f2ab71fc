package scheduler

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"librarium/internal/config"
	"librarium/internal/entities"
	"librarium/internal/persistence"
)

func setupBackupScheduler(t *testing.T, cfg config.Backup) (*BackupScheduler, *persistence.Store) {
	t.Helper()

	store, err := persistence.NewStore(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, store.Save(&persistence.Snapshot{
		Users: []*entities.User{{ID: 1, Name: "Alice", Email: "alice@example.com", BorrowHistory: []int{}}},
	}))

	return NewBackupScheduler(store, nil, cfg, 30), store
}

func TestBackupScheduler_RunBackup(t *testing.T) {
	backupDir := t.TempDir()
	s, _ := setupBackupScheduler(t, config.Backup{Dir: backupDir, Keep: 5})

	s.runBackup()

	sets, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, sets, 1)

	copied, err := os.ReadDir(filepath.Join(backupDir, sets[0].Name()))
	require.NoError(t, err)
	assert.Len(t, copied, 3, "all three snapshot files are copied")

	status, lastRun := s.LastStatus()
	assert.Contains(t, status, "copied")
	assert.False(t, lastRun.IsZero())
}

func TestBackupScheduler_PruneBackups(t *testing.T) {
	backupDir := t.TempDir()
	s, _ := setupBackupScheduler(t, config.Backup{Dir: backupDir, Keep: 2})

	for _, name := range []string{"20260101-000000", "20260102-000000", "20260103-000000", "20260104-000000"} {
		require.NoError(t, os.MkdirAll(filepath.Join(backupDir, name), 0755))
	}

	require.NoError(t, s.pruneBackups())

	sets, err := os.ReadDir(backupDir)
	require.NoError(t, err)
	require.Len(t, sets, 2)
	assert.Equal(t, "20260103-000000", sets[0].Name())
	assert.Equal(t, "20260104-000000", sets[1].Name())
}

func TestBackupScheduler_StartDisabled(t *testing.T) {
	s, _ := setupBackupScheduler(t, config.Backup{Enabled: false})

	require.NoError(t, s.Start(context.Background()))
	assert.False(t, s.IsRunning())
	assert.Nil(t, s.NextRunTime())
}

func TestBackupScheduler_StartAndStop(t *testing.T) {
	s, _ := setupBackupScheduler(t, config.Backup{
		Enabled:  true,
		Dir:      t.TempDir(),
		Schedule: "0 * * * *",
		Keep:     2,
	})

	require.NoError(t, s.Start(context.Background()))
	assert.True(t, s.IsRunning())
	assert.NotNil(t, s.NextRunTime())

	s.Stop()
	assert.False(t, s.IsRunning())
}
