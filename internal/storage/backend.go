package storage

import (
	"context"
	"fmt"

	"github.com/chartmuseum/storage"
)

// backendStore adapts a chartmuseum storage backend to ObjectStorage.
type backendStore struct {
	name    string
	backend storage.Backend
}

func (s *backendStore) PutObject(ctx context.Context, key string, data []byte) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := s.backend.PutObject(key, data); err != nil {
		return fmt.Errorf("%s put %s failed: %w", s.name, key, err)
	}
	return nil
}

func (s *backendStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	object, err := s.backend.GetObject(key)
	if err != nil {
		return nil, fmt.Errorf("%s get %s failed: %w", s.name, key, err)
	}
	return object.Content, nil
}

func (s *backendStore) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	files, err := s.backend.ListObjects(prefix)
	if err != nil {
		return nil, fmt.Errorf("%s list failed: %w", s.name, err)
	}
	results := make([]ObjectInfo, 0, len(files))
	for _, object := range files {
		results = append(results, ObjectInfo{
			Key:  object.Path,
			Size: int64(len(object.Content)),
		})
	}
	return results, nil
}
