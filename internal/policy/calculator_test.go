package policy

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/catalog"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
)

func referenceSKU() domain.SKU {
	return domain.SKU{
		SKUID:         "SKU-1000",
		Category:      "Paper",
		Supplier:      "Sano",
		AvgDailySales: 10,
		DemandStd:     3,
		LeadTimeDays:  9,
		CurrentStock:  50,
		UnitCost:      12.5,
		UnitPrice:     18,
		AnnualDemand:  3650,
		OrderCost:     100,
		HoldingCost:   5,
	}
}

func TestCalculate_ReferenceSKU(t *testing.T) {
	row := NewCalculator(1.65, 1.0).Calculate(referenceSKU())

	assert.Equal(t, 5.0, row.HoldingCostAdj)
	require.True(t, row.EOQ.Valid())
	assert.InDelta(t, math.Sqrt(2*3650*100/5.0), row.EOQ.Float64(), 1e-9)
	assert.Equal(t, domain.Metric(15), row.SafetyStock)
	assert.Equal(t, domain.Metric(105), row.ReorderPoint)
	assert.Equal(t, domain.RiskBelowROP, row.RiskFlag)
	assert.Equal(t, 382, row.RecommendedOrderQty)
	assert.Equal(t, 625.0, row.StockValue)
	assert.InDelta(t, 5.0, row.DaysOfCover.Float64(), 1e-9)
}

func TestCalculate_StockOut(t *testing.T) {
	sku := referenceSKU()
	sku.CurrentStock = 0

	row := NewCalculator(1.65, 1.0).Calculate(sku)
	assert.Equal(t, domain.RiskStockOut, row.RiskFlag)
	assert.Equal(t, 382, row.RecommendedOrderQty)
}

func TestCalculate_ShortfallExceedsEOQ(t *testing.T) {
	sku := referenceSKU()
	sku.CurrentStock = 0
	sku.OrderCost = 1 // eoq ~38

	row := NewCalculator(1.65, 1.0).Calculate(sku)
	assert.Equal(t, domain.RiskStockOut, row.RiskFlag)
	assert.Equal(t, 105, row.RecommendedOrderQty)
}

func TestCalculate_OverstockAndHealthy(t *testing.T) {
	sku := referenceSKU()
	sku.CurrentStock = 200 // 20 days of cover

	row := NewCalculator(1.65, 1.0).Calculate(sku)
	assert.Equal(t, domain.RiskOverstock, row.RiskFlag)
	assert.Zero(t, row.RecommendedOrderQty)

	sku.CurrentStock = 105
	sku.LeadTimeDays = 0
	sku.DemandStd = 0
	sku.AvgDailySales = 20 // rop 0, cover 5.25
	row = NewCalculator(1.65, 1.0).Calculate(sku)
	assert.Equal(t, domain.RiskHealthy, row.RiskFlag)
	assert.Zero(t, row.RecommendedOrderQty)
}

func TestCalculate_ZeroSalesIsNeverOverstock(t *testing.T) {
	sku := referenceSKU()
	sku.AvgDailySales = 0
	sku.DemandStd = 0
	sku.CurrentStock = 1000

	row := NewCalculator(1.65, 1.0).Calculate(sku)
	assert.False(t, row.DaysOfCover.Valid())
	assert.Equal(t, domain.RiskHealthy, row.RiskFlag)
	assert.Equal(t, 0.0, row.EOQ.Float64())
}

func TestCalculate_ZeroHoldingCostLeavesEOQUndefined(t *testing.T) {
	sku := referenceSKU()
	sku.HoldingCost = 0
	sku.CurrentStock = 5

	row := NewCalculator(1.65, 1.0).Calculate(sku)
	assert.False(t, row.EOQ.Valid())
	assert.Equal(t, domain.RiskBelowROP, row.RiskFlag)
	assert.Equal(t, 100, row.RecommendedOrderQty)
}

func TestCalculate_RoundsHalfToEven(t *testing.T) {
	sku := referenceSKU()
	sku.DemandStd = 1
	sku.LeadTimeDays = 4
	sku.AvgDailySales = 1.25 // lead demand 5

	// z 1.25 -> safety 2.5 -> 2; rop 5 + 2 = 7
	row := NewCalculator(1.25, 1.0).Calculate(sku)
	assert.Equal(t, domain.Metric(2), row.SafetyStock)
	assert.Equal(t, domain.Metric(7), row.ReorderPoint)

	// z 1.75 -> safety 3.5 -> 4
	row = NewCalculator(1.75, 1.0).Calculate(sku)
	assert.Equal(t, domain.Metric(4), row.SafetyStock)
}

func TestApply_Validation(t *testing.T) {
	items := []domain.SKU{referenceSKU()}

	tests := []struct {
		name   string
		params domain.PolicyParams
	}{
		{name: "zero multiplier", params: domain.PolicyParams{Z: 1.65, HoldingMultiplier: 0}},
		{name: "negative multiplier", params: domain.PolicyParams{Z: 1.65, HoldingMultiplier: -1}},
		{name: "nan multiplier", params: domain.PolicyParams{Z: 1.65, HoldingMultiplier: math.NaN()}},
		{name: "negative z", params: domain.PolicyParams{Z: -0.5, HoldingMultiplier: 1}},
		{name: "infinite z", params: domain.PolicyParams{Z: math.Inf(1), HoldingMultiplier: 1}},
		{name: "huge z", params: domain.PolicyParams{Z: 1e308, HoldingMultiplier: 1}},
		{name: "z above cap", params: domain.PolicyParams{Z: MaxZ + 0.01, HoldingMultiplier: 1}},
		{name: "multiplier above cap", params: domain.PolicyParams{Z: 1.65, HoldingMultiplier: 1e300}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rows, err := Apply(items, tt.params)
			assert.ErrorIs(t, err, domain.ErrInvalidParameter)
			assert.Nil(t, rows)
		})
	}
}

func TestApply_Properties(t *testing.T) {
	items := catalog.Generate(200, 42).Items
	snapshot := append([]domain.SKU(nil), items...)

	base, err := Apply(items, domain.PolicyParams{Z: 1.65, HoldingMultiplier: 1.0})
	require.NoError(t, err)
	require.Len(t, base, len(items))
	assert.Equal(t, snapshot, items, "input must not be modified")

	again, err := Apply(items, domain.PolicyParams{Z: 1.65, HoldingMultiplier: 1.0})
	require.NoError(t, err)
	assert.Equal(t, base, again)

	higherZ, err := Apply(items, domain.PolicyParams{Z: 2.33, HoldingMultiplier: 1.0})
	require.NoError(t, err)
	higherHolding, err := Apply(items, domain.PolicyParams{Z: 1.65, HoldingMultiplier: 1.2})
	require.NoError(t, err)

	for i, row := range base {
		assert.Equal(t, items[i].SKUID, row.SKUID)
		require.True(t, row.SafetyStock.Valid())
		require.True(t, row.ReorderPoint.Valid())
		rop := int(row.ReorderPoint.Float64())

		assert.GreaterOrEqual(t, row.RecommendedOrderQty, 0)
		assert.GreaterOrEqual(t, row.SafetyStock.Float64(), 0.0)
		assert.Contains(t, domain.AllRiskFlags, row.RiskFlag)

		switch {
		case row.CurrentStock <= 0:
			assert.Equal(t, domain.RiskStockOut, row.RiskFlag)
		case row.CurrentStock < rop:
			assert.Equal(t, domain.RiskBelowROP, row.RiskFlag)
		}
		if row.CurrentStock < rop {
			assert.GreaterOrEqual(t, row.RecommendedOrderQty, rop-row.CurrentStock)
		} else {
			assert.Zero(t, row.RecommendedOrderQty)
		}

		assert.GreaterOrEqual(t, higherZ[i].SafetyStock.Float64(), row.SafetyStock.Float64())
		assert.GreaterOrEqual(t, higherZ[i].ReorderPoint.Float64(), row.ReorderPoint.Float64())
		assert.LessOrEqual(t, higherHolding[i].EOQ.Float64(), row.EOQ.Float64())
	}
}

func TestApply_EmptyCatalog(t *testing.T) {
	rows, err := Apply(nil, domain.PolicyParams{Z: 1.65, HoldingMultiplier: 1})
	require.NoError(t, err)
	assert.Empty(t, rows)
}

func TestCalculate_NegativeLeadTimeLeavesUnitsUndefined(t *testing.T) {
	sku := referenceSKU()
	sku.LeadTimeDays = -4
	sku.CurrentStock = 5

	row := NewCalculator(1.65, 1.0).Calculate(sku)
	assert.False(t, row.SafetyStock.Valid())
	assert.False(t, row.ReorderPoint.Valid())
	assert.Equal(t, domain.RiskHealthy, row.RiskFlag)
	assert.Zero(t, row.RecommendedOrderQty)

	sku.CurrentStock = 0
	row = NewCalculator(1.65, 1.0).Calculate(sku)
	assert.Equal(t, domain.RiskStockOut, row.RiskFlag)
	assert.Zero(t, row.RecommendedOrderQty)
}

func TestCalculate_HugeEOQFallsBackToShortfall(t *testing.T) {
	sku := referenceSKU()
	sku.HoldingCost = 1e-300
	sku.CurrentStock = 5

	row := NewCalculator(1.65, 1.0).Calculate(sku)
	assert.Equal(t, domain.RiskBelowROP, row.RiskFlag)
	assert.Equal(t, 100, row.RecommendedOrderQty)
}

func TestApply_OutOfRangeRows(t *testing.T) {
	negativeLead := referenceSKU()
	negativeLead.SKUID = "SKU-1"
	negativeLead.LeadTimeDays = -4
	negativeLead.CurrentStock = 5

	valid := referenceSKU()
	valid.SKUID = "SKU-2"

	rows, err := Apply([]domain.SKU{negativeLead, valid}, domain.PolicyParams{Z: MaxZ, HoldingMultiplier: 1})
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.False(t, rows[0].ReorderPoint.Valid())
	assert.Zero(t, rows[0].RecommendedOrderQty)
	assert.Equal(t, domain.RiskBelowROP, rows[1].RiskFlag)
	assert.Positive(t, rows[1].RecommendedOrderQty)
	assert.GreaterOrEqual(t, rows[1].SafetyStock.Float64(), 0.0)

	data, err := json.Marshal(rows)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"safety_stock":null,"rop":null`)
}

func TestApply_RejectsNonFiniteAttributes(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*domain.SKU)
	}{
		{name: "nan holding cost", mutate: func(s *domain.SKU) { s.HoldingCost = math.NaN() }},
		{name: "infinite sales", mutate: func(s *domain.SKU) { s.AvgDailySales = math.Inf(1) }},
		{name: "huge demand std", mutate: func(s *domain.SKU) { s.DemandStd = 1e300 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sku := referenceSKU()
			tt.mutate(&sku)

			rows, err := Apply([]domain.SKU{sku}, domain.PolicyParams{Z: 1.65, HoldingMultiplier: 1})
			assert.ErrorIs(t, err, domain.ErrInvalidSKU)
			assert.Nil(t, rows)
		})
	}
}
