package local

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"loandocs/internal/port"
)

type localStore struct {
	dir string
}

// NewLocalStore creates a FileStore that keeps uploads under dir on the
// local filesystem.
func NewLocalStore(dir string) (port.FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage dir %s: %w", dir, err)
	}
	return &localStore{dir: dir}, nil
}

func (s *localStore) Save(ctx context.Context, input port.SaveInput) error {
	path, err := s.resolve(input.Key)
	if err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("local store create: %w", err)
	}
	if _, err := io.Copy(f, input.Body); err != nil {
		f.Close()
		os.Remove(path)
		return fmt.Errorf("local store write: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(path)
		return fmt.Errorf("local store close: %w", err)
	}
	return nil
}

func (s *localStore) LocalPath(ctx context.Context, key string) (string, func(), error) {
	path, err := s.resolve(key)
	if err != nil {
		return "", nil, err
	}
	if _, err := os.Stat(path); err != nil {
		return "", nil, fmt.Errorf("local store stat %s: %w", key, err)
	}
	return path, func() {}, nil
}

func (s *localStore) Delete(ctx context.Context, key string) error {
	path, err := s.resolve(key)
	if err != nil {
		return err
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("local store delete: %w", err)
	}
	return nil
}

// resolve maps a storage key to a path under the store dir and rejects
// keys that would escape it.
func (s *localStore) resolve(key string) (string, error) {
	if key == "" || strings.Contains(key, "..") {
		return "", errors.New("invalid storage key")
	}
	return filepath.Join(s.dir, filepath.FromSlash(key)), nil
}
