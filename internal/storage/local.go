package storage

import (
	"fmt"
	"os"
	"strings"

	"github.com/chartmuseum/storage"
)

// LocalStore keeps exported files in a directory on disk.
type LocalStore struct {
	backendStore
	dir string
}

// NewLocalStore creates the directory if needed and stores objects beneath it.
func NewLocalStore(dir string) (*LocalStore, error) {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		return nil, fmt.Errorf("local export directory must be provided")
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed creating export directory %s: %w", dir, err)
	}

	return &LocalStore{
		backendStore: backendStore{
			name:    "local",
			backend: storage.NewLocalFilesystemBackend(dir),
		},
		dir: dir,
	}, nil
}

// Dir returns the root directory of the store.
func (s *LocalStore) Dir() string {
	return s.dir
}

var _ ObjectStorage = (*LocalStore)(nil)
