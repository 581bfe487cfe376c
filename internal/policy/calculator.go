package policy

import (
	"math"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
)

// overstockCoverDays is the days-of-cover threshold above which healthy stock
// is classified as overstock.
const overstockCoverDays = 7.0

const daysPerYear = 365.0

// maxUnits is the largest rounded quantity kept; it is exactly representable
// as a float64 and fits a 64-bit int.
const maxUnits = 1 << 53

// Calculator derives replenishment metrics for a single SKU under fixed
// parameters. Parameters must already be validated.
type Calculator struct {
	z                 float64
	holdingMultiplier float64
}

// NewCalculator creates a calculator for the given z-score and holding multiplier.
func NewCalculator(z, holdingMultiplier float64) *Calculator {
	return &Calculator{
		z:                 z,
		holdingMultiplier: holdingMultiplier,
	}
}

// Calculate computes the policy row for a SKU. The metrics are derived in
// dependency order; rop must be final before risk and order quantity.
func (c *Calculator) Calculate(sku domain.SKU) domain.PolicyRow {
	row := domain.PolicyRow{
		SKU:         sku,
		StockValue:  domain.Round(sku.StockValue(), 2),
		DaysOfCover: sku.DaysOfCover(),
	}

	// 1. Adjusted holding cost
	row.HoldingCostAdj = sku.HoldingCost * c.holdingMultiplier

	// 2. EOQ = sqrt(2 × annual demand × order cost / adjusted holding cost)
	row.EOQ = economicOrderQuantity(sku.AvgDailySales*daysPerYear, sku.OrderCost, row.HoldingCostAdj)

	// 3. Safety stock = z × σ(daily demand) × sqrt(lead time)
	safetyStock := c.z * sku.DemandStd * math.Sqrt(float64(sku.LeadTimeDays))
	row.SafetyStock = toUnits(math.Max(0, safetyStock))

	// 4. Reorder point = lead time demand + safety stock
	row.ReorderPoint = domain.Undefined()
	if row.SafetyStock.Valid() {
		row.ReorderPoint = toUnits(sku.AvgDailySales*float64(sku.LeadTimeDays) + row.SafetyStock.Float64())
	}

	// 5. Risk flag
	row.RiskFlag = classify(sku.CurrentStock, row.ReorderPoint, row.DaysOfCover)

	// 6. Recommended order quantity
	row.RecommendedOrderQty = recommendedOrderQty(sku.CurrentStock, row.ReorderPoint, row.EOQ)

	return row
}

func economicOrderQuantity(annualDemand, orderCost, holdingCostAdj float64) domain.Metric {
	if holdingCostAdj <= 0 || annualDemand < 0 || orderCost < 0 {
		return domain.Undefined()
	}
	return domain.Metric(math.Sqrt(2 * annualDemand * orderCost / holdingCostAdj))
}

// toUnits rounds a quantity to whole units. Values that are not finite or do
// not fit an int come back undefined.
func toUnits(v float64) domain.Metric {
	r := math.RoundToEven(v)
	if !isFinite(r) || math.Abs(r) > maxUnits {
		return domain.Undefined()
	}
	return domain.Metric(r)
}

// belowROP is false for an undefined reorder point.
func belowROP(currentStock int, rop domain.Metric) bool {
	return rop.Valid() && float64(currentStock) < rop.Float64()
}

// classify walks the risk chain in priority order; the first match wins.
func classify(currentStock int, rop, daysOfCover domain.Metric) domain.RiskFlag {
	switch {
	case currentStock <= 0:
		return domain.RiskStockOut
	case belowROP(currentStock, rop):
		return domain.RiskBelowROP
	case daysOfCover.Valid() && daysOfCover.Float64() > overstockCoverDays:
		return domain.RiskOverstock
	default:
		return domain.RiskHealthy
	}
}

func recommendedOrderQty(currentStock int, rop, eoq domain.Metric) int {
	if !belowROP(currentStock, rop) {
		return 0
	}

	// An undefined EOQ falls back to the shortfall.
	shortfall := int(rop.Float64()) - currentStock
	if units := toUnits(eoq.Float64()); units.Valid() && int(units.Float64()) > shortfall {
		return int(units.Float64())
	}
	return shortfall
}
