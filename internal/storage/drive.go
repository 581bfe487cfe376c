package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/option"
)

// DriveStore keeps exported files in a Google Drive folder, one file per key.
// Keys are flat: a key is the Drive file name inside the folder.
type DriveStore struct {
	srv      *drive.Service
	folderID string
}

// NewDriveStore authenticates with a service account JSON key.
func NewDriveStore(ctx context.Context, credentialsJSON, folderID string) (*DriveStore, error) {
	if strings.TrimSpace(credentialsJSON) == "" {
		return nil, fmt.Errorf("google drive credentials must be provided")
	}

	jwtConfig, err := google.JWTConfigFromJSON([]byte(credentialsJSON), drive.DriveFileScope)
	if err != nil {
		return nil, fmt.Errorf("unable to parse drive credentials: %w", err)
	}

	srv, err := drive.NewService(ctx, option.WithHTTPClient(jwtConfig.Client(ctx)))
	if err != nil {
		return nil, fmt.Errorf("unable to create drive client: %w", err)
	}

	if folderID == "" {
		folderID = "root"
	}

	return &DriveStore{srv: srv, folderID: folderID}, nil
}

// PutObject creates the file or replaces the content of an existing one with
// the same name.
func (s *DriveStore) PutObject(ctx context.Context, key string, data []byte) error {
	existing, err := s.findFile(ctx, key)
	if err != nil {
		return err
	}

	if existing != nil {
		_, err = s.srv.Files.Update(existing.Id, &drive.File{}).
			Media(bytes.NewReader(data)).
			Context(ctx).
			Do()
		if err != nil {
			return fmt.Errorf("drive update %s failed: %w", key, err)
		}
		return nil
	}

	_, err = s.srv.Files.Create(&drive.File{
		Name:    key,
		Parents: []string{s.folderID},
	}).
		Media(bytes.NewReader(data)).
		Context(ctx).
		Do()
	if err != nil {
		return fmt.Errorf("drive create %s failed: %w", key, err)
	}
	return nil
}

func (s *DriveStore) GetObject(ctx context.Context, key string) ([]byte, error) {
	file, err := s.findFile(ctx, key)
	if err != nil {
		return nil, err
	}
	if file == nil {
		return nil, fmt.Errorf("drive file not found: %s", key)
	}

	resp, err := s.srv.Files.Get(file.Id).Context(ctx).Download()
	if err != nil {
		return nil, fmt.Errorf("unable to download %s: %w", key, err)
	}
	defer resp.Body.Close()

	return io.ReadAll(resp.Body)
}

func (s *DriveStore) ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error) {
	result, err := s.srv.Files.List().
		Q(fmt.Sprintf("'%s' in parents and trashed=false", escapeQuery(s.folderID))).
		Fields("files(id, name, size)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("unable to list drive files: %w", err)
	}

	objects := make([]ObjectInfo, 0, len(result.Files))
	for _, f := range result.Files {
		if !strings.HasPrefix(f.Name, prefix) {
			continue
		}
		objects = append(objects, ObjectInfo{Key: f.Name, Size: f.Size})
	}
	return objects, nil
}

func (s *DriveStore) findFile(ctx context.Context, name string) (*drive.File, error) {
	result, err := s.srv.Files.List().
		Q(fmt.Sprintf("'%s' in parents and name='%s' and trashed=false", escapeQuery(s.folderID), escapeQuery(name))).
		Fields("files(id, name, size)").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("error finding drive file %s: %w", name, err)
	}
	if len(result.Files) == 0 {
		return nil, nil
	}
	return result.Files[0], nil
}

var queryEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`)

func escapeQuery(v string) string {
	return queryEscaper.Replace(v)
}

var _ ObjectStorage = (*DriveStore)(nil)
