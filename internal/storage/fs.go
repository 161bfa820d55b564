package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
)

// validKey rejects keys that could escape the storage directory.
var validKey = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)

// FSStorage stores blobs as flat files under a single directory.
type FSStorage struct {
	dir string
}

// NewFSStorage creates the storage directory if needed and returns an
// FSStorage rooted at it.
func NewFSStorage(dir string) (*FSStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create storage directory %q: %w", dir, err)
	}
	return &FSStorage{dir: dir}, nil
}

func (s *FSStorage) path(key string) (string, error) {
	if !validKey.MatchString(key) {
		return "", fmt.Errorf("invalid storage key %q", key)
	}
	return filepath.Join(s.dir, key), nil
}

func (s *FSStorage) Upload(_ context.Context, key string, body io.Reader, _ string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %q: %w", path, err)
	}

	if _, err := io.Copy(f, body); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("write %q: %w", path, err)
	}
	return f.Close()
}

func (s *FSStorage) Download(_ context.Context, key string) (io.ReadCloser, error) {
	path, err := s.path(key)
	if err != nil {
		return nil, err
	}

	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open %q: %w", path, err)
	}
	return f, nil
}

func (s *FSStorage) Delete(_ context.Context, key string) error {
	path, err := s.path(key)
	if err != nil {
		return err
	}

	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove %q: %w", path, err)
	}
	return nil
}

func (s *FSStorage) Exists(_ context.Context, key string) (bool, error) {
	path, err := s.path(key)
	if err != nil {
		return false, err
	}

	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

var _ Storage = (*FSStorage)(nil)
