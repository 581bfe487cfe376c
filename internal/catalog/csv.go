package catalog

import (
	"bytes"
	"crypto/sha1"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
)

// Header is the column order of a base catalog file.
var Header = []string{
	"sku_id",
	"category",
	"supplier",
	"avg_daily_sales",
	"demand_std",
	"lead_time_days",
	"current_stock",
	"unit_cost",
	"unit_price",
	"annual_demand",
	"order_cost",
	"holding_cost",
	"stock_value",
	"days_of_cover",
}

// WriteCSV writes the catalog with its derived columns.
func WriteCSV(w io.Writer, c *domain.Catalog) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("write catalog header: %w", err)
	}

	for _, s := range c.Items {
		record := []string{
			s.SKUID,
			s.Category,
			s.Supplier,
			formatFloat(s.AvgDailySales),
			formatFloat(s.DemandStd),
			strconv.Itoa(s.LeadTimeDays),
			strconv.Itoa(s.CurrentStock),
			formatFloat(s.UnitCost),
			formatFloat(s.UnitPrice),
			formatFloat(s.AnnualDemand),
			formatFloat(s.OrderCost),
			formatFloat(s.HoldingCost),
			formatFloat(domain.Round(s.StockValue(), 2)),
			s.DaysOfCover().String(),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write catalog row %s: %w", s.SKUID, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// LoadCSV reads a base catalog. Columns are matched by normalized name so
// headers like "Avg Daily Sales" and "avg_daily_sales" are equivalent.
// Derived columns are ignored. Empty numeric cells read as 0.
func LoadCSV(r io.Reader) (*domain.Catalog, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(content))
	reader.TrimLeadingSpace = true

	sum := sha1.Sum(content)
	return parseCatalog(reader, "csv-"+hex.EncodeToString(sum[:]))
}

// recordReader yields one table row per call and io.EOF after the last row.
type recordReader interface {
	Read() ([]string, error)
}

func parseCatalog(reader recordReader, version string) (*domain.Catalog, error) {
	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("catalog file is empty")
		}
		return nil, fmt.Errorf("read catalog header: %w", err)
	}

	colIndex := func(names ...string) int {
		targets := make(map[string]struct{}, len(names))
		for _, name := range names {
			targets[normalizeColumnName(name)] = struct{}{}
		}
		for i, h := range header {
			if _, ok := targets[normalizeColumnName(h)]; ok {
				return i
			}
		}
		return -1
	}

	idxSKU := colIndex("sku_id", "sku")
	if idxSKU < 0 {
		return nil, fmt.Errorf("catalog header has no sku_id column")
	}
	idxCategory := colIndex("category")
	idxSupplier := colIndex("supplier")
	idxAvgDailySales := colIndex("avg_daily_sales", "daily_sales")
	idxDemandStd := colIndex("demand_std")
	idxLeadTime := colIndex("lead_time_days", "lead_time")
	idxStock := colIndex("current_stock", "stock")
	idxUnitCost := colIndex("unit_cost")
	idxUnitPrice := colIndex("unit_price")
	idxAnnualDemand := colIndex("annual_demand")
	idxOrderCost := colIndex("order_cost")
	idxHoldingCost := colIndex("holding_cost")

	seen := make(map[string]int)
	items := make([]domain.SKU, 0)
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("catalog line %d: %w", line, err)
		}

		get := func(idx int) string {
			if idx < 0 || idx >= len(record) {
				return ""
			}
			return strings.TrimSpace(record[idx])
		}

		var parseErr error
		parseFloat := func(idx int) float64 {
			v := strings.ReplaceAll(get(idx), ",", "")
			if v == "" {
				return 0
			}
			f, err := strconv.ParseFloat(v, 64)
			if err == nil && (math.IsNaN(f) || math.IsInf(f, 0)) {
				err = fmt.Errorf("%q is not finite: %w", v, domain.ErrInvalidSKU)
			}
			if err != nil {
				if parseErr == nil {
					parseErr = fmt.Errorf("column %q: %w", header[idx], err)
				}
				return 0
			}
			return f
		}
		parseInt := func(idx int) int {
			f := parseFloat(idx)
			if math.Abs(f) > math.MaxInt32 {
				if parseErr == nil {
					parseErr = fmt.Errorf("column %q: %v out of range: %w", header[idx], f, domain.ErrInvalidSKU)
				}
				return 0
			}
			return int(f)
		}

		sku := domain.SKU{
			SKUID:         get(idxSKU),
			Category:      get(idxCategory),
			Supplier:      get(idxSupplier),
			AvgDailySales: parseFloat(idxAvgDailySales),
			DemandStd:     parseFloat(idxDemandStd),
			LeadTimeDays:  parseInt(idxLeadTime),
			CurrentStock:  parseInt(idxStock),
			UnitCost:      parseFloat(idxUnitCost),
			UnitPrice:     parseFloat(idxUnitPrice),
			AnnualDemand:  parseFloat(idxAnnualDemand),
			OrderCost:     parseFloat(idxOrderCost),
			HoldingCost:   parseFloat(idxHoldingCost),
		}
		if parseErr != nil {
			return nil, fmt.Errorf("catalog line %d: %w", line, parseErr)
		}
		if sku.SKUID == "" {
			return nil, fmt.Errorf("catalog line %d: empty sku_id", line)
		}
		if idxAnnualDemand < 0 {
			sku.AnnualDemand = domain.Round(sku.AvgDailySales*365, 0)
		}
		if err := sku.Validate(); err != nil {
			return nil, fmt.Errorf("catalog line %d: sku %s: %w", line, sku.SKUID, err)
		}
		if prev, ok := seen[sku.SKUID]; ok {
			return nil, fmt.Errorf("catalog line %d: duplicate sku_id %s (first seen on line %d)", line, sku.SKUID, prev)
		}
		seen[sku.SKUID] = line

		items = append(items, sku)
	}

	return &domain.Catalog{
		Version: version,
		Items:   items,
	}, nil
}

var columnNameSanitizer = strings.NewReplacer(" ", "", "_", "", ".", "", "-", "", "/", "")

func normalizeColumnName(name string) string {
	name = strings.TrimSpace(strings.ToLower(name))
	return columnNameSanitizer.Replace(name)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
