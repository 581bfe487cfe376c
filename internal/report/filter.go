package report

import (
	"strings"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
)

// Apply returns the rows matching the filter, preserving order.
func Apply(rows []domain.PolicyRow, filter domain.PolicyFilter) []domain.PolicyRow {
	categories := toSet(filter.Categories)
	suppliers := toSet(filter.Suppliers)
	risks := make(map[domain.RiskFlag]struct{}, len(filter.Risks))
	for _, r := range filter.Risks {
		risks[r] = struct{}{}
	}

	out := make([]domain.PolicyRow, 0, len(rows))
	for _, row := range rows {
		if len(categories) > 0 && !contains(categories, row.Category) {
			continue
		}
		if len(suppliers) > 0 && !contains(suppliers, row.Supplier) {
			continue
		}
		if len(risks) > 0 {
			if _, ok := risks[row.RiskFlag]; !ok {
				continue
			}
		}
		if !coverInRange(row.DaysOfCover, filter.CoverMin, filter.CoverMax) {
			continue
		}
		out = append(out, row)
	}

	return out
}

// coverInRange applies the inclusive days-of-cover bounds. An undefined
// cover never satisfies a bound.
func coverInRange(cover domain.Metric, lo, hi *float64) bool {
	if lo == nil && hi == nil {
		return true
	}
	if !cover.Valid() {
		return false
	}
	if lo != nil && cover.Float64() < *lo {
		return false
	}
	if hi != nil && cover.Float64() > *hi {
		return false
	}
	return true
}

func toSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		v = strings.ToLower(strings.TrimSpace(v))
		if v == "" {
			continue
		}
		set[v] = struct{}{}
	}
	return set
}

func contains(set map[string]struct{}, v string) bool {
	_, ok := set[strings.ToLower(strings.TrimSpace(v))]
	return ok
}
