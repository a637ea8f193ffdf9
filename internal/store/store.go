package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/foxxcyber/turismo/internal/models"
)

// Store persists the record collection as a single JSON array and reads the
// grouped community index from a second JSON object file.
//
// Every operation loads the whole collection and mutations rewrite the whole
// file. The mutex serializes operations so concurrent writers cannot lose
// each other's updates.
type Store struct {
	mu          sync.Mutex
	dataFile    string
	groupedFile string
	log         *logrus.Logger
}

// New creates a store over the given primary and grouped files
func New(dataFile, groupedFile string, log *logrus.Logger) *Store {
	return &Store{
		dataFile:    dataFile,
		groupedFile: groupedFile,
		log:         log,
	}
}

// DataFile returns the primary store path
func (s *Store) DataFile() string {
	return s.dataFile
}

// GroupedFile returns the grouped index path
func (s *Store) GroupedFile() string {
	return s.groupedFile
}

// LoadAll returns every record in file order. Read and parse errors are
// logged and yield an empty collection.
func (s *Store) LoadAll() []models.Turismo {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadAll()
}

// SaveAll replaces the primary file with records.
func (s *Store) SaveAll(records []models.Turismo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saveAll(records)
}

// LoadGroupedIndex parses the grouped index file. Unlike LoadAll, errors are
// returned to the caller.
func (s *Store) LoadGroupedIndex() (models.GroupedIndex, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loadGroupedIndex()
}

// ReadRaw returns the primary file bytes as stored on disk
func (s *Store) ReadRaw() ([]byte, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.dataFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read records file: %w", err)
	}
	return b, nil
}

func (s *Store) loadAll() []models.Turismo {
	b, err := os.ReadFile(s.dataFile)
	if err != nil {
		s.log.WithFields(logrus.Fields{"file": s.dataFile, "error": err}).Error("Error reading records file")
		return []models.Turismo{}
	}

	var records []models.Turismo
	if err := json.Unmarshal(b, &records); err != nil {
		s.log.WithFields(logrus.Fields{"file": s.dataFile, "error": err}).Error("Error parsing records file")
		return []models.Turismo{}
	}
	if records == nil {
		records = []models.Turismo{}
	}
	return records
}

func (s *Store) saveAll(records []models.Turismo) error {
	if records == nil {
		records = []models.Turismo{}
	}
	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode records: %w", err)
	}
	if err := writeFileAtomic(s.dataFile, b); err != nil {
		return fmt.Errorf("failed to save records: %w", err)
	}
	return nil
}

func (s *Store) loadGroupedIndex() (models.GroupedIndex, error) {
	b, err := os.ReadFile(s.groupedFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read grouped file: %w", err)
	}

	var idx models.GroupedIndex
	if err := json.Unmarshal(b, &idx); err != nil {
		return nil, fmt.Errorf("failed to parse grouped file: %w", err)
	}
	if idx == nil {
		idx = models.GroupedIndex{}
	}
	return idx, nil
}

// writeFileAtomic writes data to a temp file next to path and renames it over
// path, so readers see either the old or the new content.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o750); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	f, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpPath := f.Name()

	if _, err := f.Write(data); err != nil {
		return errors.Join(fmt.Errorf("failed to write temp file: %w", err), f.Close(), os.Remove(tmpPath))
	}
	if err := f.Sync(); err != nil {
		return errors.Join(fmt.Errorf("failed to sync temp file: %w", err), f.Close(), os.Remove(tmpPath))
	}
	if err := f.Close(); err != nil {
		return errors.Join(fmt.Errorf("failed to close temp file: %w", err), os.Remove(tmpPath))
	}
	if err := os.Chmod(tmpPath, 0o644); err != nil {
		return errors.Join(fmt.Errorf("failed to chmod temp file: %w", err), os.Remove(tmpPath))
	}
	if err := os.Rename(tmpPath, path); err != nil {
		return errors.Join(fmt.Errorf("failed to rename temp file: %w", err), os.Remove(tmpPath))
	}
	return nil
}
