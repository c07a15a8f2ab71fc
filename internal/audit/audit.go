// Package audit writes a JSON file per recorded circulation event so
// operators can reconstruct who borrowed what and when, independently of
// the catalog snapshot.
package audit

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Event is one audited mutation.
type Event struct {
	Action    string `json:"action"` // "borrow" or "return"
	UserID    int    `json:"userId"`
	BookID    int    `json:"bookId"`
	Success   bool   `json:"success"`
	Timestamp int64  `json:"timestamp"`
}

type Auditor struct {
	AuditDir string
}

func NewAuditor(auditDir string) *Auditor {
	return &Auditor{
		AuditDir: auditDir,
	}
}

// RecordEvent writes the event as JSON to a file with a UUID4 filename
// and returns the filename. Audit failures are reported to the caller
// but must never fail the transaction they describe.
func (a *Auditor) RecordEvent(event Event) (string, error) {
	if err := a.ensureAuditDir(); err != nil {
		return "", fmt.Errorf("failed to ensure audit directory: %w", err)
	}

	if event.Timestamp == 0 {
		event.Timestamp = time.Now().Unix()
	}

	filename := fmt.Sprintf("%s.json", uuid.New().String())
	path := filepath.Join(a.AuditDir, filename)

	data, err := json.MarshalIndent(event, "", "  ")
	if err != nil {
		return "", fmt.Errorf("failed to marshal audit event: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write audit file: %w", err)
	}

	return filename, nil
}

// Cleanup removes audit files older than retentionDays and returns how
// many were deleted.
func (a *Auditor) Cleanup(retentionDays int) (int, error) {
	if retentionDays <= 0 {
		return 0, nil
	}

	entries, err := os.ReadDir(a.AuditDir)
	if err != nil {
		if os.IsNotExist(err) {
			return 0, nil
		}
		return 0, fmt.Errorf("failed to read audit directory: %w", err)
	}

	cutoff := time.Now().AddDate(0, 0, -retentionDays)
	removed := 0
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if info.ModTime().Before(cutoff) {
			if err := os.Remove(filepath.Join(a.AuditDir, entry.Name())); err != nil {
				log.Printf("Failed to remove expired audit file %s: %v", entry.Name(), err)
				continue
			}
			removed++
		}
	}
	return removed, nil
}

func (a *Auditor) ensureAuditDir() error {
	if _, err := os.Stat(a.AuditDir); os.IsNotExist(err) {
		if err := os.MkdirAll(a.AuditDir, 0755); err != nil {
			return fmt.Errorf("failed to create audit directory: %w", err)
		}
	}
	return nil
}
