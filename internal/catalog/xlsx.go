package catalog

import (
	"bytes"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
)

// LoadXLSX reads a base catalog from the first sheet of a workbook. The
// sheet must have the same header row as a catalog CSV.
func LoadXLSX(r io.Reader) (*domain.Catalog, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, fmt.Errorf("open catalog workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("catalog workbook has no sheets")
	}

	rows, err := f.Rows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read rows from sheet %s: %w", sheets[0], err)
	}
	defer rows.Close()

	sum := sha1.Sum(content)
	return parseCatalog(&sheetRows{rows: rows}, "xlsx-"+hex.EncodeToString(sum[:]))
}

// sheetRows adapts excelize's row iterator to recordReader, skipping blank
// rows.
type sheetRows struct {
	rows *excelize.Rows
}

func (s *sheetRows) Read() ([]string, error) {
	for s.rows.Next() {
		record, err := s.rows.Columns()
		if err != nil {
			return nil, err
		}
		if isBlank(record) {
			continue
		}
		return record, nil
	}
	if err := s.rows.Error(); err != nil {
		return nil, err
	}
	return nil, io.EOF
}

func isBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
