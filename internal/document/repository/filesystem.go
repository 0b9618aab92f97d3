package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// FileRepo stores every document as a regular file directly under dir.
// There is no locking: concurrent writers to the same name race and the
// last write wins.
type FileRepo struct {
	dir string
}

// NewFileRepo creates dir when missing and returns a repository rooted there.
func NewFileRepo(dir string) (*FileRepo, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create document dir %s: %w", dir, err)
	}
	return &FileRepo{dir: dir}, nil
}

// Dir returns the directory backing the repository.
func (r *FileRepo) Dir() string { return r.dir }

func (r *FileRepo) path(name string) (string, error) {
	if err := ValidName(name); err != nil {
		return "", err
	}
	return filepath.Join(r.dir, name), nil
}

// List returns the names of regular, non-hidden files in the directory.
func (r *FileRepo) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", r.dir, err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		names = append(names, e.Name())
	}
	return names, nil
}

func (r *FileRepo) Exists(ctx context.Context, name string) (bool, error) {
	p, err := r.path(name)
	if err != nil {
		return false, nil
	}
	info, err := os.Stat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, err
	}
	return info.Mode().IsRegular(), nil
}

func (r *FileRepo) Read(ctx context.Context, name string) ([]byte, error) {
	p, err := r.path(name)
	if err != nil {
		return nil, err
	}
	b, err := os.ReadFile(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return b, nil
}

func (r *FileRepo) Write(ctx context.Context, name string, content []byte) error {
	p, err := r.path(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(p, content, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	return nil
}

func (r *FileRepo) Delete(ctx context.Context, name string) error {
	p, err := r.path(name)
	if err != nil {
		return err
	}
	info, err := os.Lstat(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete %s: %w", name, err)
	}
	// Only regular files are documents; directories and links are left alone.
	if !info.Mode().IsRegular() {
		return ErrNotFound
	}
	if err := os.Remove(p); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrNotFound
		}
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}
