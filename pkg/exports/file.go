package exports

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"sync"
)

// FileStore appends records as JSON lines to a single file. Lines that fail
// to decode are skipped on read.
type FileStore struct {
	mu   sync.Mutex
	path string
}

// NewFileStore opens the history file at path, creating its directory.
func NewFileStore(path string) (*FileStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	return &FileStore{path: path}, nil
}

// Path returns the history file location.
func (s *FileStore) Path() string { return s.path }

// Add appends r as one JSON line.
func (s *FileStore) Add(ctx context.Context, r Record) error {
	line, err := json.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("open history: %w", err)
	}
	if _, err := f.Write(append(line, '\n')); err != nil {
		f.Close()
		return fmt.Errorf("write history: %w", err)
	}
	return f.Close()
}

// Last returns the most recently appended record, or ErrEmpty.
func (s *FileStore) Last(ctx context.Context) (Record, error) {
	records, err := s.List(ctx, 1)
	if err != nil {
		return Record{}, err
	}
	if len(records) == 0 {
		return Record{}, ErrEmpty
	}
	return records[0], nil
}

// List returns up to limit records, newest first. Unreadable lines are
// skipped.
func (s *FileStore) List(ctx context.Context, limit int) ([]Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	f, err := os.Open(s.path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	defer f.Close()

	var records []Record
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var r Record
		if json.Unmarshal(sc.Bytes(), &r) == nil {
			records = append(records, r)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}

	slices.Reverse(records)
	if limit > 0 && len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

// Close does nothing; the file is opened per call.
func (s *FileStore) Close() error { return nil }

var _ Store = (*FileStore)(nil)
