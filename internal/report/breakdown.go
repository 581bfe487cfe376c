package report

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
)

// GroupBy buckets rows by key and sums value per bucket. Buckets are sorted
// by key.
func GroupBy(rows []domain.PolicyRow, key func(domain.PolicyRow) string, value func(domain.PolicyRow) decimal.Decimal) []domain.Breakdown {
	index := make(map[string]int)
	out := make([]domain.Breakdown, 0)
	for _, row := range rows {
		k := key(row)
		i, ok := index[k]
		if !ok {
			i = len(out)
			index[k] = i
			out = append(out, domain.Breakdown{Key: k, Value: decimal.Zero})
		}
		out[i].Count++
		if value != nil {
			out[i].Value = out[i].Value.Add(value(row))
		}
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func byCategory(row domain.PolicyRow) string { return row.Category }
func bySupplier(row domain.PolicyRow) string { return row.Supplier }
func byRisk(row domain.PolicyRow) string     { return string(row.RiskFlag) }

func stockValue(row domain.PolicyRow) decimal.Decimal {
	return decimal.NewFromFloat(row.StockValue)
}

func recommendedQty(row domain.PolicyRow) decimal.Decimal {
	return decimal.NewFromInt(int64(row.RecommendedOrderQty))
}

func StockValueByCategory(rows []domain.PolicyRow) []domain.Breakdown {
	return GroupBy(rows, byCategory, stockValue)
}

func StockValueBySupplier(rows []domain.PolicyRow) []domain.Breakdown {
	return GroupBy(rows, bySupplier, stockValue)
}

// RiskDistribution counts SKUs per risk flag.
func RiskDistribution(rows []domain.PolicyRow) []domain.Breakdown {
	return GroupBy(rows, byRisk, nil)
}

func SKUCountByCategory(rows []domain.PolicyRow) []domain.Breakdown {
	return GroupBy(rows, byCategory, nil)
}

func RecommendedQtyByCategory(rows []domain.PolicyRow) []domain.Breakdown {
	return GroupBy(rows, byCategory, recommendedQty)
}

// Dashboard assembles the overview for already filtered rows.
func Dashboard(params domain.PolicyParams, rows []domain.PolicyRow) domain.PolicyDashboard {
	return domain.PolicyDashboard{
		Params:                   params,
		Summary:                  Summarize(rows),
		StockValueByCategory:     StockValueByCategory(rows),
		StockValueBySupplier:     StockValueBySupplier(rows),
		RiskDistribution:         RiskDistribution(rows),
		SKUCountByCategory:       SKUCountByCategory(rows),
		RecommendedQtyByCategory: RecommendedQtyByCategory(rows),
	}
}
