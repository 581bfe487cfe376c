package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"

	"github.com/xuri/excelize/v2"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
)

const (
	policySheet   = "policy"
	filteredSheet = "filtered"
)

// PolicyHeader is the column order of an exported policy table.
var PolicyHeader = []string{
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
	"holding_cost_adj",
	"eoq",
	"safety_stock",
	"rop",
	"risk_flag",
	"recommended_order_qty",
}

// EncodeCSV renders policy rows as CSV. Undefined metrics become empty cells.
func EncodeCSV(rows []domain.PolicyRow) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(PolicyHeader); err != nil {
		return nil, fmt.Errorf("write policy header: %w", err)
	}
	for _, r := range rows {
		if err := w.Write(csvRecord(r)); err != nil {
			return nil, fmt.Errorf("write policy row %s: %w", r.SKUID, err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("flush policy csv: %w", err)
	}
	return buf.Bytes(), nil
}

func csvRecord(r domain.PolicyRow) []string {
	return []string{
		r.SKUID,
		r.Category,
		r.Supplier,
		formatFloat(r.AvgDailySales),
		formatFloat(r.DemandStd),
		strconv.Itoa(r.LeadTimeDays),
		strconv.Itoa(r.CurrentStock),
		formatFloat(r.UnitCost),
		formatFloat(r.UnitPrice),
		formatFloat(r.AnnualDemand),
		formatFloat(r.OrderCost),
		formatFloat(r.HoldingCost),
		formatFloat(r.StockValue),
		r.DaysOfCover.String(),
		formatFloat(r.HoldingCostAdj),
		r.EOQ.String(),
		r.SafetyStock.String(),
		r.ReorderPoint.String(),
		string(r.RiskFlag),
		strconv.Itoa(r.RecommendedOrderQty),
	}
}

// EncodeXLSX renders a workbook with the full table on the "policy" sheet and
// the filtered view on the "filtered" sheet.
func EncodeXLSX(full, filtered []domain.PolicyRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", policySheet); err != nil {
		return nil, fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(filteredSheet); err != nil {
		return nil, fmt.Errorf("create sheet %s: %w", filteredSheet, err)
	}

	if err := writeSheet(f, policySheet, full); err != nil {
		return nil, err
	}
	if err := writeSheet(f, filteredSheet, filtered); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func writeSheet(f *excelize.File, sheet string, rows []domain.PolicyRow) error {
	header := make([]interface{}, len(PolicyHeader))
	for i, h := range PolicyHeader {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}

	for i, r := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		values := xlsxRecord(r)
		if err := f.SetSheetRow(sheet, cell, &values); err != nil {
			return fmt.Errorf("write %s row %s: %w", sheet, r.SKUID, err)
		}
	}
	return nil
}

func xlsxRecord(r domain.PolicyRow) []interface{} {
	return []interface{}{
		r.SKUID,
		r.Category,
		r.Supplier,
		r.AvgDailySales,
		r.DemandStd,
		r.LeadTimeDays,
		r.CurrentStock,
		r.UnitCost,
		r.UnitPrice,
		r.AnnualDemand,
		r.OrderCost,
		r.HoldingCost,
		r.StockValue,
		metricCell(r.DaysOfCover),
		r.HoldingCostAdj,
		metricCell(r.EOQ),
		metricCell(r.SafetyStock),
		metricCell(r.ReorderPoint),
		string(r.RiskFlag),
		r.RecommendedOrderQty,
	}
}

// metricCell leaves the cell blank for an undefined metric.
func metricCell(m domain.Metric) interface{} {
	if !m.Valid() {
		return nil
	}
	return m.Float64()
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
