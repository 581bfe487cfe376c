package export

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/config"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/storage"
)

const (
	DefaultPolicyFile   = "inventory_policy_data.csv"
	DefaultFilteredFile = "inventory_filtered_data.csv"
)

// Config names the files produced by one export run.
type Config struct {
	PolicyFile   string
	FilteredFile string
	XLSX         bool
}

// ConfigFrom maps the export settings onto an exporter Config, filling in
// default file names.
func ConfigFrom(cfg config.ExportConfig) Config {
	out := Config{
		PolicyFile:   strings.TrimSpace(cfg.PolicyFile),
		FilteredFile: strings.TrimSpace(cfg.FilteredFile),
		XLSX:         cfg.XLSX,
	}
	if out.PolicyFile == "" {
		out.PolicyFile = DefaultPolicyFile
	}
	if out.FilteredFile == "" {
		out.FilteredFile = DefaultFilteredFile
	}
	return out
}

// WorkbookFile is the name of the XLSX companion of the policy file.
func (c Config) WorkbookFile() string {
	return strings.TrimSuffix(c.PolicyFile, path.Ext(c.PolicyFile)) + ".xlsx"
}

// Result describes a finished export run.
type Result struct {
	RunID        string               `json:"run_id"`
	Files        []storage.ObjectInfo `json:"files"`
	Rows         int                  `json:"rows"`
	FilteredRows int                  `json:"filtered_rows"`
}

// Exporter writes policy tables to object storage.
type Exporter struct {
	store storage.ObjectStorage
	cfg   Config
}

func New(store storage.ObjectStorage, cfg Config) *Exporter {
	return &Exporter{store: store, cfg: cfg}
}

type exportFile struct {
	key    string
	encode func() ([]byte, error)
}

// Export encodes and uploads every file of the run concurrently. The first
// failure cancels the remaining uploads.
func (e *Exporter) Export(ctx context.Context, full, filtered []domain.PolicyRow) (*Result, error) {
	runID := uuid.NewString()
	started := time.Now()
	logger := log.With().Str("run_id", runID).Logger()

	files := []exportFile{
		{key: e.cfg.PolicyFile, encode: func() ([]byte, error) { return EncodeCSV(full) }},
		{key: e.cfg.FilteredFile, encode: func() ([]byte, error) { return EncodeCSV(filtered) }},
	}
	if e.cfg.XLSX {
		files = append(files, exportFile{
			key:    e.cfg.WorkbookFile(),
			encode: func() ([]byte, error) { return EncodeXLSX(full, filtered) },
		})
	}

	written := make([]storage.ObjectInfo, len(files))
	g, gctx := errgroup.WithContext(ctx)
	for i, file := range files {
		g.Go(func() error {
			data, err := file.encode()
			if err != nil {
				return fmt.Errorf("encode %s: %w", file.key, err)
			}
			if err := e.store.PutObject(gctx, file.key, data); err != nil {
				return fmt.Errorf("upload %s: %w", file.key, err)
			}
			written[i] = storage.ObjectInfo{Key: file.key, Size: int64(len(data))}
			logger.Debug().Str("key", file.key).Int("bytes", len(data)).Msg("export file written")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error().Err(err).Msg("export failed")
		return nil, err
	}

	logger.Info().
		Int("rows", len(full)).
		Int("filtered_rows", len(filtered)).
		Int("files", len(written)).
		Dur("took", time.Since(started)).
		Msg("export completed")

	return &Result{
		RunID:        runID,
		Files:        written,
		Rows:         len(full),
		FilteredRows: len(filtered),
	}, nil
}
