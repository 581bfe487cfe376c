package storage

import (
	"context"
	"fmt"
	"strings"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/config"
)

// ObjectInfo represents metadata for a stored file/object.
type ObjectInfo struct {
	Key  string
	Size int64
}

// ObjectStorage captures the minimal object operations the export step needs.
type ObjectStorage interface {
	PutObject(ctx context.Context, key string, data []byte) error
	GetObject(ctx context.Context, key string) ([]byte, error)
	ListObjects(ctx context.Context, prefix string) ([]ObjectInfo, error)
}

const (
	BackendLocal   = "local"
	BackendSevalla = "sevalla"
	BackendDrive   = "drive"
)

// New builds the object storage selected by the export configuration.
func New(ctx context.Context, cfg config.ExportConfig) (ObjectStorage, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendLocal:
		return NewLocalStore(cfg.Dir)
	case BackendSevalla:
		return NewSevallaClient(SevallaConfig{
			Endpoint:  cfg.Sevalla.Endpoint,
			AccessKey: cfg.Sevalla.AccessKey,
			SecretKey: cfg.Sevalla.SecretKey,
			Bucket:    cfg.Sevalla.Bucket,
			Region:    cfg.Sevalla.Region,
			Prefix:    cfg.Sevalla.Prefix,
			UseSSL:    cfg.Sevalla.UseSSL,
		})
	case BackendDrive:
		return NewDriveStore(ctx, cfg.Drive.CredentialsJSON, cfg.Drive.FolderID)
	default:
		return nil, fmt.Errorf("unknown export backend %q", cfg.Backend)
	}
}
