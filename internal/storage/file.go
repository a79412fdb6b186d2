package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// fileStore keeps one JSON file per record under baseDir/<collection>/<key>.json.
// The mutex serializes writers so Create's exclusive-open and Update's
// stat-then-write stay race-free within the process.
type fileStore struct {
	baseDir string
	mu      sync.Mutex
}

// NewFile creates a file-backed store rooted at baseDir, creating the
// collection directories on demand.
func NewFile(baseDir string) (Store, error) {
	if baseDir == "" {
		return nil, errors.New("data dir is required")
	}
	if err := os.MkdirAll(baseDir, 0o755); err != nil {
		return nil, fmt.Errorf("create data dir: %w", err)
	}
	return &fileStore{baseDir: baseDir}, nil
}

func (s *fileStore) path(collection, key string) (string, error) {
	if strings.ContainsAny(collection, `/\`) || strings.ContainsAny(key, `/\`) {
		return "", fmt.Errorf("invalid record key %q/%q", collection, key)
	}
	return filepath.Join(s.baseDir, collection, key+".json"), nil
}

func (s *fileStore) Create(_ context.Context, collection, key string, record []byte) error {
	path, err := s.path(collection, key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create collection dir: %w", err)
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		if errors.Is(err, fs.ErrExist) {
			return ErrExists
		}
		return fmt.Errorf("create record file: %w", err)
	}
	if _, err := f.Write(record); err != nil {
		f.Close()
		return fmt.Errorf("write record file: %w", err)
	}
	return f.Close()
}

func (s *fileStore) Read(_ context.Context, collection, key string) ([]byte, error) {
	path, err := s.path(collection, key)
	if err != nil {
		return nil, err
	}
	record, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read record file: %w", err)
	}
	return record, nil
}

func (s *fileStore) Update(_ context.Context, collection, key string, record []byte) error {
	path, err := s.path(collection, key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("stat record file: %w", err)
	}
	if err := os.WriteFile(path, record, 0o644); err != nil {
		return fmt.Errorf("rewrite record file: %w", err)
	}
	return nil
}

func (s *fileStore) Delete(_ context.Context, collection, key string) error {
	path, err := s.path(collection, key)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("remove record file: %w", err)
	}
	return nil
}
