package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/config"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/storage"
)

type memoryStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	failKey string
}

func newMemoryStore() *memoryStore {
	return &memoryStore{objects: make(map[string][]byte)}
}

func (m *memoryStore) PutObject(_ context.Context, key string, data []byte) error {
	if key == m.failKey {
		return errors.New("disk full")
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = append([]byte(nil), data...)
	return nil
}

func (m *memoryStore) GetObject(_ context.Context, key string) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	data, ok := m.objects[key]
	if !ok {
		return nil, errors.New("not found")
	}
	return data, nil
}

func (m *memoryStore) ListObjects(_ context.Context, _ string) ([]storage.ObjectInfo, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]storage.ObjectInfo, 0, len(m.objects))
	for k, v := range m.objects {
		out = append(out, storage.ObjectInfo{Key: k, Size: int64(len(v))})
	}
	return out, nil
}

func sampleRows() []domain.PolicyRow {
	return []domain.PolicyRow{
		{
			SKU: domain.SKU{
				SKUID: "SKU_0001", Category: "Beverages", Supplier: "Supplier_A",
				AvgDailySales: 10, DemandStd: 3, LeadTimeDays: 9, CurrentStock: 0,
				UnitCost: 4.5, UnitPrice: 6.3, AnnualDemand: 3650, OrderCost: 100, HoldingCost: 5,
			},
			StockValue:          0,
			DaysOfCover:         0,
			HoldingCostAdj:      5,
			EOQ:                 381.58,
			SafetyStock:         15,
			ReorderPoint:        105,
			RiskFlag:            domain.RiskStockOut,
			RecommendedOrderQty: 382,
		},
		{
			SKU: domain.SKU{
				SKUID: "SKU_0002", Category: "Snacks", Supplier: "Supplier_B",
				AvgDailySales: 0, DemandStd: 1, LeadTimeDays: 5, CurrentStock: 40,
				UnitCost: 2, UnitPrice: 3, OrderCost: 80, HoldingCost: 0,
			},
			StockValue:   80,
			DaysOfCover:  domain.Undefined(),
			EOQ:          domain.Undefined(),
			SafetyStock:  4,
			ReorderPoint: 4,
			RiskFlag:     domain.RiskHealthy,
		},
	}
}

func TestEncodeCSV_WritesHeaderAndBlankUndefined(t *testing.T) {
	data, err := EncodeCSV(sampleRows())
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)

	assert.Equal(t, PolicyHeader, records[0])
	assert.Equal(t, "SKU_0001", records[1][0])
	assert.Equal(t, "381.58", records[1][15])
	assert.Equal(t, "Stock-out", records[1][18])
	assert.Equal(t, "382", records[1][19])

	assert.Equal(t, "", records[2][13], "days_of_cover")
	assert.Equal(t, "", records[2][15], "eoq")
}

func TestEncodeXLSX_WritesBothSheets(t *testing.T) {
	rows := sampleRows()
	data, err := EncodeXLSX(rows, rows[:1])
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{policySheet, filteredSheet}, f.GetSheetList())

	policyRows, err := f.GetRows(policySheet)
	require.NoError(t, err)
	require.Len(t, policyRows, 3)
	assert.Equal(t, PolicyHeader, policyRows[0])

	eoq, err := f.GetCellValue(policySheet, "P3")
	require.NoError(t, err)
	assert.Empty(t, eoq)

	filteredRows, err := f.GetRows(filteredSheet)
	require.NoError(t, err)
	assert.Len(t, filteredRows, 2)
}

func TestExporter_Export(t *testing.T) {
	store := newMemoryStore()
	cfg := ConfigFrom(config.ExportConfig{XLSX: true})
	exp := New(store, cfg)

	rows := sampleRows()
	res, err := exp.Export(context.Background(), rows, rows[:1])
	require.NoError(t, err)

	assert.NotEmpty(t, res.RunID)
	assert.Equal(t, 2, res.Rows)
	assert.Equal(t, 1, res.FilteredRows)
	require.Len(t, res.Files, 3)

	keys := make([]string, 0, len(res.Files))
	for _, f := range res.Files {
		keys = append(keys, f.Key)
		assert.Positive(t, f.Size)
	}
	sort.Strings(keys)
	assert.Equal(t, []string{DefaultFilteredFile, DefaultPolicyFile, "inventory_policy_data.xlsx"}, keys)

	filtered, err := store.GetObject(context.Background(), DefaultFilteredFile)
	require.NoError(t, err)
	records, err := csv.NewReader(bytes.NewReader(filtered)).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 2)
}

func TestExporter_ExportWithoutWorkbook(t *testing.T) {
	store := newMemoryStore()
	exp := New(store, Config{PolicyFile: "policy.csv", FilteredFile: "filtered.csv"})

	res, err := exp.Export(context.Background(), sampleRows(), nil)
	require.NoError(t, err)
	assert.Len(t, res.Files, 2)

	objects, err := store.ListObjects(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, objects, 2)
}

func TestExporter_UploadFailure(t *testing.T) {
	store := newMemoryStore()
	store.failKey = DefaultFilteredFile
	exp := New(store, ConfigFrom(config.ExportConfig{}))

	res, err := exp.Export(context.Background(), sampleRows(), sampleRows())
	require.Error(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), DefaultFilteredFile)
}

func TestExporter_LocalStore(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir())
	require.NoError(t, err)

	exp := New(store, ConfigFrom(config.ExportConfig{}))
	_, err = exp.Export(context.Background(), sampleRows(), nil)
	require.NoError(t, err)

	data, err := store.GetObject(context.Background(), DefaultPolicyFile)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("sku_id,category,supplier")))
}

func TestConfig_WorkbookFile(t *testing.T) {
	assert.Equal(t, "report.xlsx", Config{PolicyFile: "report.csv"}.WorkbookFile())
	assert.Equal(t, "exports/report.xlsx", Config{PolicyFile: "exports/report.csv"}.WorkbookFile())
}
