package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileStore saves uploaded files to a local directory (default static/images).
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) *FileStore {
	if dir == "" {
		dir = filepath.Join("static", "images")
	}
	return &FileStore{Dir: dir}
}

// Save writes r to {dir}/temp_{uuid}_{fileName} and returns the path.
func (s *FileStore) Save(r io.Reader, fileName string) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", err
	}
	path := filepath.Join(s.Dir, fmt.Sprintf("temp_%s_%s", uuid.NewString(), filepath.Base(fileName)))
	f, err := os.Create(path)
	if err != nil {
		return "", err
	}
	if _, err := io.Copy(f, r); err != nil {
		f.Close()
		_ = os.Remove(path)
		return "", fmt.Errorf("write upload %s: %w", fileName, err)
	}
	if err := f.Close(); err != nil {
		return "", err
	}
	return path, nil
}

// Remove deletes path; a path that is already gone is fine.
func (s *FileStore) Remove(path string) error {
	return RemoveIfExists(path)
}

// RemoveIfExists deletes path and ignores fs.ErrNotExist.
func RemoveIfExists(path string) error {
	if path == "" {
		return nil
	}
	if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}
	return nil
}
