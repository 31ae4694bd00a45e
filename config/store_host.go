//go:build !(rp2040 || rp2350)

package config

import (
	"os"
	"path/filepath"
)

// FileStore persists blobs as plain files under a directory.
type FileStore struct {
	Dir string
}

func NewFileStore(dir string) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &FileStore{Dir: dir}, nil
}

func (s *FileStore) Read(name string) ([]byte, bool) {
	b, err := os.ReadFile(filepath.Join(s.Dir, name))
	if err != nil {
		return nil, false
	}
	return b, true
}

func (s *FileStore) Write(name string, data []byte) error {
	return os.WriteFile(filepath.Join(s.Dir, name), data, 0o644)
}
