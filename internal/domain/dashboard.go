package domain

import "github.com/shopspring/decimal"

// PolicyFilter restricts which policy rows the dashboard shows. Empty slices
// place no restriction. When a cover bound is set, rows whose days of cover is
// undefined are excluded.
type PolicyFilter struct {
	Categories []string   `json:"categories,omitempty"`
	Suppliers  []string   `json:"suppliers,omitempty"`
	Risks      []RiskFlag `json:"risks,omitempty"`
	CoverMin   *float64   `json:"cover_min,omitempty"`
	CoverMax   *float64   `json:"cover_max,omitempty"`
}

// PolicySummary holds the KPI banner values for a set of policy rows.
type PolicySummary struct {
	TotalItems          int             `json:"total_items"`
	TotalStockValue     decimal.Decimal `json:"total_stock_value"`
	ItemsAtRisk         int             `json:"items_at_risk"`
	OverstockItems      int             `json:"overstock_items"`
	AvgDaysOfCover      Metric          `json:"avg_days_of_cover"`
	TotalRecommendedQty int             `json:"total_recommended_qty"`
	RecommendedBudget   decimal.Decimal `json:"recommended_budget"`
}

// Breakdown is one bar/slice of a grouped chart.
type Breakdown struct {
	Key   string          `json:"key"`
	Count int             `json:"count"`
	Value decimal.Decimal `json:"value"`
}

// PlanItem is one line of the replenishment plan.
type PlanItem struct {
	SKUID               string   `json:"sku_id"`
	Category            string   `json:"category"`
	Supplier            string   `json:"supplier"`
	CurrentStock        int      `json:"current_stock"`
	ReorderPoint        Metric   `json:"rop"`
	EOQ                 Metric   `json:"eoq"`
	RecommendedOrderQty int      `json:"recommended_order_qty"`
	DaysOfCover         Metric   `json:"days_of_cover"`
	AvgDailySales       float64  `json:"avg_daily_sales"`
	LeadTimeDays        int      `json:"lead_time_days"`
	UnitCost            float64  `json:"unit_cost"`
	RiskFlag            RiskFlag `json:"risk_flag"`
}

// PolicyDashboard aggregates everything the overview tab renders.
type PolicyDashboard struct {
	Params                   PolicyParams  `json:"params"`
	Summary                  PolicySummary `json:"summary"`
	StockValueByCategory     []Breakdown   `json:"stock_value_by_category"`
	StockValueBySupplier     []Breakdown   `json:"stock_value_by_supplier"`
	RiskDistribution         []Breakdown   `json:"risk_distribution"`
	SKUCountByCategory       []Breakdown   `json:"sku_count_by_category"`
	RecommendedQtyByCategory []Breakdown   `json:"recommended_qty_by_category"`
}

// SKUDrilldown is the detail view of one SKU under a policy.
type SKUDrilldown struct {
	Params PolicyParams  `json:"params"`
	Row    PolicyRow     `json:"row"`
	Demand []DemandPoint `json:"demand,omitempty"`
}
