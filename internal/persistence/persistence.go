// Package persistence is the durable side of the catalog: three JSON
// array documents, one per entity kind, rewritten in full on every
// mutation. There is deliberately no database here; the snapshot files
// are the storage contract and survive hand-editing, which is why id
// counters are always rebuilt from the data instead of being stored.
package persistence

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"librarium/internal/entities"
)

// Snapshot file names inside the data directory.
const (
	UsersFile   = "users.json"
	BooksFile   = "books.json"
	RecordsFile = "records.json"
)

// Store reads and writes the catalog snapshot files.
type Store struct {
	dataDir string
}

// NewStore creates the data directory if needed and returns a store
// rooted at it.
func NewStore(dataDir string) (*Store, error) {
	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create data directory %s: %w", dataDir, err)
	}
	return &Store{dataDir: dataDir}, nil
}

// DataDir returns the directory holding the snapshot files.
func (s *Store) DataDir() string {
	return s.dataDir
}

// Files returns the paths of all three snapshot files, whether or not
// they exist yet.
func (s *Store) Files() []string {
	return []string{
		filepath.Join(s.dataDir, UsersFile),
		filepath.Join(s.dataDir, BooksFile),
		filepath.Join(s.dataDir, RecordsFile),
	}
}

// Snapshot is the full persisted state of the catalog.
type Snapshot struct {
	Users   []*entities.User
	Books   []*entities.Book
	Records []*entities.BorrowRecord
}

// NextUserID returns max(user id) + 1, never less than 1.
func (snap *Snapshot) NextUserID() int {
	next := 1
	for _, u := range snap.Users {
		if u.ID >= next {
			next = u.ID + 1
		}
	}
	return next
}

// NextBookID returns max(book id) + 1, never less than 1.
func (snap *Snapshot) NextBookID() int {
	next := 1
	for _, b := range snap.Books {
		if b.ID >= next {
			next = b.ID + 1
		}
	}
	return next
}

// NextRecordID returns max(record id) + 1, never less than 1.
func (snap *Snapshot) NextRecordID() int {
	next := 1
	for _, r := range snap.Records {
		if r.RecordID >= next {
			next = r.RecordID + 1
		}
	}
	return next
}

// Save rewrites all three snapshot files. Each file is written to a
// temporary sibling and renamed into place, so a crash mid-write leaves
// every file either old or new, never truncated.
func (s *Store) Save(snap *Snapshot) error {
	if err := s.writeFile(UsersFile, snap.Users); err != nil {
		return err
	}
	if err := s.writeFile(BooksFile, snap.Books); err != nil {
		return err
	}
	return s.writeFile(RecordsFile, snap.Records)
}

// Load reads whichever snapshot files exist. A missing file is an empty
// collection, not an error: first startup has no data directory content.
func (s *Store) Load() (*Snapshot, error) {
	snap := &Snapshot{
		Users:   []*entities.User{},
		Books:   []*entities.Book{},
		Records: []*entities.BorrowRecord{},
	}
	if err := s.readFile(UsersFile, &snap.Users); err != nil {
		return nil, err
	}
	if err := s.readFile(BooksFile, &snap.Books); err != nil {
		return nil, err
	}
	if err := s.readFile(RecordsFile, &snap.Records); err != nil {
		return nil, err
	}
	for _, u := range snap.Users {
		if u.BorrowHistory == nil {
			u.BorrowHistory = []int{}
		}
	}
	for _, b := range snap.Books {
		if b.BorrowHistory == nil {
			b.BorrowHistory = []int{}
		}
	}
	return snap, nil
}

func (s *Store) writeFile(name string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal %s: %w", name, err)
	}

	path := filepath.Join(s.dataDir, name)
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("failed to replace %s: %w", path, err)
	}
	return nil
}

func (s *Store) readFile(name string, v any) error {
	path := filepath.Join(s.dataDir, name)
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to read %s: %w", path, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return nil
}
