package domain

import (
	"fmt"
	"math"
	"time"
)

// SKU is one row of the base catalog.
type SKU struct {
	SKUID         string  `json:"sku_id"`
	Category      string  `json:"category"`
	Supplier      string  `json:"supplier"`
	AvgDailySales float64 `json:"avg_daily_sales"`
	DemandStd     float64 `json:"demand_std"`
	LeadTimeDays  int     `json:"lead_time_days"`
	CurrentStock  int     `json:"current_stock"`
	UnitCost      float64 `json:"unit_cost"`
	UnitPrice     float64 `json:"unit_price"`
	AnnualDemand  float64 `json:"annual_demand"`
	OrderCost     float64 `json:"order_cost"`
	HoldingCost   float64 `json:"holding_cost"` // per unit per year
}

// StockValue is the value of the stock on hand at unit cost.
func (s SKU) StockValue() float64 {
	return float64(s.CurrentStock) * s.UnitCost
}

// DaysOfCover is the approximate runway before stock-out. It is undefined
// when the SKU has no sales.
func (s SKU) DaysOfCover() Metric {
	if s.AvgDailySales <= 0 {
		return Undefined()
	}
	return Metric(float64(s.CurrentStock) / s.AvgDailySales)
}

// MaxAttribute bounds the magnitude of every numeric SKU attribute so that
// stock value and adjusted holding cost stay finite.
const MaxAttribute = 1e12

// CheckFinite reports the first numeric attribute that is NaN, infinite or
// larger than MaxAttribute in magnitude.
func (s SKU) CheckFinite() error {
	for _, a := range s.attributes() {
		if math.IsNaN(a.value) || math.IsInf(a.value, 0) || math.Abs(a.value) > MaxAttribute {
			return fmt.Errorf("%s %v out of range: %w", a.name, a.value, ErrInvalidSKU)
		}
	}
	return nil
}

// Validate checks CheckFinite and that no attribute is negative.
func (s SKU) Validate() error {
	if err := s.CheckFinite(); err != nil {
		return err
	}
	for _, a := range s.attributes() {
		if a.value < 0 {
			return fmt.Errorf("%s must be >= 0, got %v: %w", a.name, a.value, ErrInvalidSKU)
		}
	}
	return nil
}

type attribute struct {
	name  string
	value float64
}

func (s SKU) attributes() []attribute {
	return []attribute{
		{"avg_daily_sales", s.AvgDailySales},
		{"demand_std", s.DemandStd},
		{"lead_time_days", float64(s.LeadTimeDays)},
		{"current_stock", float64(s.CurrentStock)},
		{"unit_cost", s.UnitCost},
		{"unit_price", s.UnitPrice},
		{"annual_demand", s.AnnualDemand},
		{"order_cost", s.OrderCost},
		{"holding_cost", s.HoldingCost},
	}
}

// Catalog is the base table the policy engine reads. Version identifies the
// table contents so that derived results can be cached per table.
type Catalog struct {
	Version string `json:"version"`
	Items   []SKU  `json:"items"`
}

// Index returns the row position of the SKU with the given id, or -1.
func (c *Catalog) Index(skuID string) int {
	for i := range c.Items {
		if c.Items[i].SKUID == skuID {
			return i
		}
	}
	return -1
}

// PolicyParams are the operator adjustable inputs of a policy evaluation.
type PolicyParams struct {
	ServiceLevel      float64 `json:"service_level,omitempty"`
	Z                 float64 `json:"z"`
	HoldingMultiplier float64 `json:"holding_multiplier"`
}

// PolicyRow is a catalog row extended with the replenishment metrics of one
// policy evaluation.
type PolicyRow struct {
	SKU

	StockValue          float64  `json:"stock_value"`
	DaysOfCover         Metric   `json:"days_of_cover"`
	HoldingCostAdj      float64  `json:"holding_cost_adj"`
	EOQ                 Metric   `json:"eoq"`
	SafetyStock         Metric   `json:"safety_stock"`
	ReorderPoint        Metric   `json:"rop"`
	RiskFlag            RiskFlag `json:"risk_flag"`
	RecommendedOrderQty int      `json:"recommended_order_qty"`
}

// DemandPoint is one day of a simulated demand series.
type DemandPoint struct {
	Date   time.Time `json:"date"`
	Demand float64   `json:"demand"`
}
