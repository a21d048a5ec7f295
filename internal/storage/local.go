package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"wayfarer/internal/models"
)

// LocalStorage writes uploads to a public directory on local disk.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) (*LocalStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &LocalStorage{dir: dir}, nil
}

func (s *LocalStorage) Save(_ context.Context, name string, data []byte, _ string) error {
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write upload %s: %w", name, err)
	}

	return nil
}

func (s *LocalStorage) Get(_ context.Context, name string) (io.ReadCloser, error) {
	f, err := os.Open(filepath.Join(s.dir, name))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("file %s: %w", name, models.ErrNotFound)
		}
		return nil, fmt.Errorf("open upload %s: %w", name, err)
	}

	return f, nil
}

func (s *LocalStorage) Delete(_ context.Context, name string) error {
	if err := os.Remove(filepath.Join(s.dir, name)); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove upload %s: %w", name, err)
	}

	return nil
}
