package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
)

// Summarize computes the KPI banner values. The average days of cover skips
// undefined values and is undefined when no row has one.
func Summarize(rows []domain.PolicyRow) domain.PolicySummary {
	summary := domain.PolicySummary{
		TotalItems:        len(rows),
		TotalStockValue:   decimal.Zero,
		RecommendedBudget: decimal.Zero,
		AvgDaysOfCover:    domain.Undefined(),
	}

	var coverSum float64
	var coverCount int
	for _, row := range rows {
		summary.TotalStockValue = summary.TotalStockValue.Add(decimal.NewFromFloat(row.StockValue))

		if row.RiskFlag.AtRisk() {
			summary.ItemsAtRisk++
		}
		if row.RiskFlag == domain.RiskOverstock {
			summary.OverstockItems++
		}
		if row.DaysOfCover.Valid() {
			coverSum += row.DaysOfCover.Float64()
			coverCount++
		}

		summary.TotalRecommendedQty += row.RecommendedOrderQty
		budget := decimal.NewFromFloat(row.UnitCost).Mul(decimal.NewFromInt(int64(row.RecommendedOrderQty)))
		summary.RecommendedBudget = summary.RecommendedBudget.Add(budget)
	}

	if coverCount > 0 {
		summary.AvgDaysOfCover = domain.Metric(coverSum / float64(coverCount))
	}
	summary.TotalStockValue = summary.TotalStockValue.Round(2)
	summary.RecommendedBudget = summary.RecommendedBudget.Round(2)

	return summary
}

// Plan lists the rows that need an order, largest recommended quantity first.
// Rows with equal quantities keep their table order.
func Plan(rows []domain.PolicyRow) []domain.PlanItem {
	items := make([]domain.PlanItem, 0)
	for _, row := range rows {
		if !row.RiskFlag.AtRisk() {
			continue
		}
		items = append(items, domain.PlanItem{
			SKUID:               row.SKUID,
			Category:            row.Category,
			Supplier:            row.Supplier,
			CurrentStock:        row.CurrentStock,
			ReorderPoint:        row.ReorderPoint,
			EOQ:                 row.EOQ,
			RecommendedOrderQty: row.RecommendedOrderQty,
			DaysOfCover:         row.DaysOfCover,
			AvgDailySales:       row.AvgDailySales,
			LeadTimeDays:        row.LeadTimeDays,
			UnitCost:            row.UnitCost,
			RiskFlag:            row.RiskFlag,
		})
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].RecommendedOrderQty > items[j].RecommendedOrderQty
	})
	return items
}
