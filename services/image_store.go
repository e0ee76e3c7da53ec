package services

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// ImageStore abstracts where uploaded recipe images live. Paths are
// slash-separated and relative to the store root.
type ImageStore interface {
	Save(ctx context.Context, path string, contentType string, body io.Reader) error
	Remove(ctx context.Context, path string) error
	URL(path string) string
}

// LocalStore keeps images on the local filesystem under a base directory and
// serves them from the /media URL prefix.
type LocalStore struct {
	basedir string
}

func NewLocalStore(basedir string) (*LocalStore, error) {
	if err := os.MkdirAll(basedir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &LocalStore{basedir: basedir}, nil
}

// Basedir returns the store's root directory, for static file serving.
func (s *LocalStore) Basedir() string {
	return s.basedir
}

func (s *LocalStore) Save(_ context.Context, path string, _ string, body io.Reader) error {
	target := filepath.Join(s.basedir, filepath.FromSlash(path))
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("failed to create image dir: %w", err)
	}

	f, err := os.Create(target)
	if err != nil {
		return fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, body); err != nil {
		return fmt.Errorf("failed to write image file: %w", err)
	}
	return nil
}

func (s *LocalStore) Remove(_ context.Context, path string) error {
	err := os.Remove(filepath.Join(s.basedir, filepath.FromSlash(path)))
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *LocalStore) URL(path string) string {
	return "/media/" + path
}
