package repository

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"resume-parser/internal/domain"
)

// LocalStorage keeps durable files in a directory.
type LocalStorage struct {
	dir string
}

func NewLocalStorage(dir string) *LocalStorage {
	return &LocalStorage{dir: dir}
}

func (l *LocalStorage) path(name string) (string, bool) {
	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		return "", false
	}
	return filepath.Join(l.dir, name), true
}

func (l *LocalStorage) Save(ctx context.Context, name string, data []byte) error {
	path, ok := l.path(name)
	if !ok {
		return fmt.Errorf("invalid file name %q", name)
	}
	if err := os.MkdirAll(l.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	// write then rename so readers never see a partial file
	tmp, err := os.CreateTemp(l.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("failed to write %s: %w", name, err)
	}
	return nil
}

func (l *LocalStorage) Load(ctx context.Context, name string) ([]byte, error) {
	path, ok := l.path(name)
	if !ok {
		return nil, domain.ErrFileNotFound
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, domain.ErrFileNotFound
		}
		return nil, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return data, nil
}
