// Package scheduler runs the periodic maintenance jobs: timestamped
// copies of the snapshot files into a backup directory, and pruning of
// expired audit events. Full-file-rewrite persistence makes periodic
// copies the natural recovery story.
package scheduler

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"librarium/internal/audit"
	"librarium/internal/config"
	"librarium/internal/persistence"
)

// BackupScheduler copies the three snapshot files on a cron schedule.
type BackupScheduler struct {
	store              *persistence.Store
	auditor            *audit.Auditor
	cfg                config.Backup
	auditRetentionDays int

	cron       *cron.Cron
	entryID    cron.EntryID
	mu         sync.RWMutex
	isRunning  bool
	cancelFunc context.CancelFunc

	lastStatus string
	lastRun    time.Time
}

// NewBackupScheduler creates a scheduler instance. The auditor may be
// nil when the audit trail is disabled.
func NewBackupScheduler(store *persistence.Store, auditor *audit.Auditor, cfg config.Backup, auditRetentionDays int) *BackupScheduler {
	return &BackupScheduler{
		store:              store,
		auditor:            auditor,
		cfg:                cfg,
		auditRetentionDays: auditRetentionDays,
		cron:               cron.New(cron.WithParser(cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow))),
	}
}

// Start begins the scheduler if backups are enabled.
func (s *BackupScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return nil
	}

	if !s.cfg.Enabled {
		log.Printf("Backup scheduler: disabled")
		return nil
	}

	entryID, err := s.cron.AddFunc(s.cfg.Schedule, func() {
		s.runBackup()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule backup job: %w", err)
	}
	s.entryID = entryID

	var cancelCtx context.Context
	cancelCtx, s.cancelFunc = context.WithCancel(ctx)

	s.cron.Start()
	s.isRunning = true
	log.Printf("Backup scheduler: started with schedule '%s'", s.cfg.Schedule)

	go func() {
		<-cancelCtx.Done()
		s.Stop()
	}()

	return nil
}

// Stop gracefully stops the scheduler, waiting for a running job.
func (s *BackupScheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return
	}

	ctx := s.cron.Stop()
	<-ctx.Done()

	s.isRunning = false
	s.cancelFunc = nil

	log.Printf("Backup scheduler: stopped")
}

// RunNow triggers an immediate backup.
func (s *BackupScheduler) RunNow() {
	go s.runBackup()
}

// IsRunning returns whether the scheduler is active.
func (s *BackupScheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// NextRunTime returns when the next backup will occur.
func (s *BackupScheduler) NextRunTime() *time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning {
		return nil
	}
	for _, entry := range s.cron.Entries() {
		if entry.ID == s.entryID {
			t := entry.Next
			return &t
		}
	}
	return nil
}

// LastStatus returns a human summary of the most recent run.
func (s *BackupScheduler) LastStatus() (string, time.Time) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastStatus, s.lastRun
}

func (s *BackupScheduler) setStatus(status string) {
	s.mu.Lock()
	s.lastStatus = status
	s.lastRun = time.Now()
	s.mu.Unlock()
}

// runBackup copies each existing snapshot file into a timestamped
// subdirectory, prunes old backup sets, then prunes expired audit files.
func (s *BackupScheduler) runBackup() {
	start := time.Now()
	destDir := filepath.Join(s.cfg.Dir, start.Format("20060102-150405"))
	if err := os.MkdirAll(destDir, 0755); err != nil {
		errMsg := fmt.Sprintf("failed to create backup directory: %v", err)
		log.Printf("Backup: %s", errMsg)
		s.setStatus(errMsg)
		return
	}

	copied := 0
	for _, src := range s.store.Files() {
		if _, err := os.Stat(src); os.IsNotExist(err) {
			continue
		}
		dst := filepath.Join(destDir, filepath.Base(src))
		if err := copyFile(src, dst); err != nil {
			errMsg := fmt.Sprintf("failed to copy %s: %v", src, err)
			log.Printf("Backup: %s", errMsg)
			s.setStatus(errMsg)
			return
		}
		copied++
	}

	if err := s.pruneBackups(); err != nil {
		log.Printf("Backup: failed to prune old backups: %v", err)
	}

	if s.auditor != nil {
		if removed, err := s.auditor.Cleanup(s.auditRetentionDays); err != nil {
			log.Printf("Backup: audit cleanup failed: %v", err)
		} else if removed > 0 {
			log.Printf("Backup: removed %d expired audit files", removed)
		}
	}

	msg := fmt.Sprintf("copied %d snapshot files to %s in %v", copied, destDir, time.Since(start).Round(time.Millisecond))
	log.Printf("Backup: %s", msg)
	s.setStatus(msg)
}

// pruneBackups keeps the newest cfg.Keep backup sets and removes the rest.
func (s *BackupScheduler) pruneBackups() error {
	if s.cfg.Keep <= 0 {
		return nil
	}

	entries, err := os.ReadDir(s.cfg.Dir)
	if err != nil {
		return err
	}

	var sets []string
	for _, entry := range entries {
		if entry.IsDir() {
			sets = append(sets, entry.Name())
		}
	}
	if len(sets) <= s.cfg.Keep {
		return nil
	}

	// Directory names are timestamps, so lexical order is age order.
	sort.Strings(sets)
	for _, name := range sets[:len(sets)-s.cfg.Keep] {
		if err := os.RemoveAll(filepath.Join(s.cfg.Dir, name)); err != nil {
			return err
		}
	}
	return nil
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	defer out.Close()

	if _, err := io.Copy(out, in); err != nil {
		return err
	}
	return out.Sync()
}
