package catalog

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
)

func TestCSV_RoundTrip(t *testing.T) {
	original := Generate(25, 9)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, original))

	header := strings.SplitN(buf.String(), "\n", 2)[0]
	assert.Equal(t, strings.Join(Header, ","), header)

	loaded, err := LoadCSV(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, original.Items, loaded.Items)
	assert.True(t, strings.HasPrefix(loaded.Version, "csv-"))

	again, err := LoadCSV(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	assert.Equal(t, loaded.Version, again.Version)
}

func TestLoadCSV_FlexibleHeaders(t *testing.T) {
	input := "SKU ID,Category,Supplier,Avg Daily Sales,Demand-Std,Lead Time Days,Current Stock,Unit Cost,Unit Price,Order Cost,Holding Cost\n" +
		"A-1,Paper,Sano,\"1,000\",3,9,0,4.5,6,100,5\n" +
		"A-2,Kitchen,P&G,2,,4,10,1,2,80,0.5\n"

	cat, err := LoadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, cat.Items, 2)

	first := cat.Items[0]
	assert.Equal(t, "A-1", first.SKUID)
	assert.Equal(t, 1000.0, first.AvgDailySales)
	assert.Equal(t, 9, first.LeadTimeDays)
	assert.Equal(t, 365000.0, first.AnnualDemand, "computed when the column is missing")

	assert.Equal(t, 0.0, cat.Items[1].DemandStd)
}

func TestLoadCSV_Errors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "empty", input: "", want: "empty"},
		{name: "no sku column", input: "category,supplier\nPaper,Sano\n", want: "sku_id"},
		{name: "blank sku", input: "sku_id,avg_daily_sales\n,3\n", want: "empty sku_id"},
		{name: "duplicate", input: "sku_id,avg_daily_sales\nA,3\nA,4\n", want: "duplicate sku_id A"},
		{name: "bad number", input: "sku_id,avg_daily_sales\nA,lots\n", want: "avg_daily_sales"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadCSV(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadCSV_RejectsOutOfRangeRows(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "negative lead time", input: "sku_id,lead_time_days\nA,-4\n", want: "lead_time_days"},
		{name: "negative stock", input: "sku_id,current_stock\nA,-1\n", want: "current_stock"},
		{name: "negative sales", input: "sku_id,avg_daily_sales\nA,-2.5\n", want: "avg_daily_sales"},
		{name: "nan cell", input: "sku_id,holding_cost\nA,NaN\n", want: "holding_cost"},
		{name: "infinite cell", input: "sku_id,avg_daily_sales\nA,+Inf\n", want: "avg_daily_sales"},
		{name: "huge cell", input: "sku_id,demand_std\nA,1e300\n", want: "demand_std"},
		{name: "int overflow", input: "sku_id,current_stock\nA,1e30\n", want: "current_stock"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			valid := "B,3\n"
			input := strings.Replace(tt.input, "\n", "\n"+valid, 1)

			cat, err := LoadCSV(strings.NewReader(input))
			require.ErrorIs(t, err, domain.ErrInvalidSKU)
			assert.Contains(t, err.Error(), tt.want)
			assert.Contains(t, err.Error(), "line 3")
			assert.Nil(t, cat)
		})
	}
}

func TestLoadXLSX_RejectsNonFiniteCells(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetRow("Sheet1", "A1", &[]interface{}{"sku_id", "lead_time_days", "holding_cost"}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A2", &[]interface{}{"X-1", 9, 5}))
	require.NoError(t, f.SetSheetRow("Sheet1", "A3", &[]interface{}{"X-2", 9, "NaN"}))

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	_, err = LoadXLSX(bytes.NewReader(buf.Bytes()))
	require.ErrorIs(t, err, domain.ErrInvalidSKU)
	assert.Contains(t, err.Error(), "holding_cost")
}

func TestLoadXLSX(t *testing.T) {
	f := excelize.NewFile()
	defer f.Close()

	rows := [][]interface{}{
		{"sku_id", "category", "supplier", "avg_daily_sales", "demand_std", "lead_time_days", "current_stock", "unit_cost", "unit_price", "annual_demand", "order_cost", "holding_cost"},
		{"X-1", "Paper", "Sano", 10, 3, 9, 50, 12.5, 18, 3650, 100, 5},
		{},
		{"X-2", "Kitchen", "P&G", 4.5, 1, 3, 0, 2, 3, 1643, 90, 0.4},
	}
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	cat, err := LoadXLSX(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	require.Len(t, cat.Items, 2)
	assert.True(t, strings.HasPrefix(cat.Version, "xlsx-"))

	assert.Equal(t, "X-1", cat.Items[0].SKUID)
	assert.Equal(t, 10.0, cat.Items[0].AvgDailySales)
	assert.Equal(t, 50, cat.Items[0].CurrentStock)
	assert.Equal(t, 12.5, cat.Items[0].UnitCost)
	assert.Equal(t, 0.4, cat.Items[1].HoldingCost)
}

func TestLoadXLSX_NotAWorkbook(t *testing.T) {
	_, err := LoadXLSX(strings.NewReader("sku_id\nA\n"))
	assert.Error(t, err)
}
