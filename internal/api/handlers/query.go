package handlers

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
	"github.com/andresuchdata/inventory-bi/backend-go/internal/service"
)

// coverUnbounded clears a default days-of-cover bound, e.g. cover_max=none.
const coverUnbounded = "none"

func parseParams(c *gin.Context) (service.ParamsInput, error) {
	var (
		in  service.ParamsInput
		err error
	)
	if in.ServiceLevel, err = parseFloat(c, "service_level"); err != nil {
		return in, err
	}
	if in.Z, err = parseFloat(c, "z"); err != nil {
		return in, err
	}
	if in.HoldingMultiplier, err = parseFloat(c, "holding_multiplier"); err != nil {
		return in, err
	}
	return in, nil
}

// parseFilter narrows the default filter with the request query. A risk
// list without a risk_view selects the custom view.
func parseFilter(c *gin.Context, defaults domain.PolicyFilter) (domain.PolicyFilter, error) {
	filter := defaults
	filter.Categories = queryList(c, "category")
	filter.Suppliers = queryList(c, "supplier")

	var custom []domain.RiskFlag
	for _, label := range queryList(c, "risk") {
		flag, ok := domain.ParseRiskFlag(label)
		if !ok {
			return filter, fmt.Errorf("unknown risk %q: %w", label, domain.ErrInvalidParameter)
		}
		custom = append(custom, flag)
	}

	view := domain.RiskView(strings.ToLower(strings.TrimSpace(c.Query("risk_view"))))
	switch view {
	case "":
		if len(custom) > 0 {
			filter.Risks = custom
		}
	case domain.RiskViewAll:
	case domain.RiskViewAtRisk, domain.RiskViewOverstock, domain.RiskViewCustom:
		filter.Risks = view.Flags(custom)
	default:
		return filter, fmt.Errorf("unknown risk_view %q: %w", view, domain.ErrInvalidParameter)
	}

	var err error
	if filter.CoverMin, err = parseCoverBound(c, "cover_min", filter.CoverMin); err != nil {
		return filter, err
	}
	if filter.CoverMax, err = parseCoverBound(c, "cover_max", filter.CoverMax); err != nil {
		return filter, err
	}
	if filter.CoverMin != nil && filter.CoverMax != nil && *filter.CoverMin > *filter.CoverMax {
		return filter, fmt.Errorf("cover_min %v exceeds cover_max %v: %w", *filter.CoverMin, *filter.CoverMax, domain.ErrInvalidParameter)
	}

	return filter, nil
}

func parseCoverBound(c *gin.Context, param string, fallback *float64) (*float64, error) {
	raw := strings.TrimSpace(c.Query(param))
	switch {
	case raw == "":
		return fallback, nil
	case strings.EqualFold(raw, coverUnbounded):
		return nil, nil
	}
	return parseFloat(c, param)
}

func parseFloat(c *gin.Context, param string) (*float64, error) {
	value := strings.TrimSpace(c.Query(param))
	if value == "" {
		return nil, nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("%s must be a number, got %q: %w", param, value, domain.ErrInvalidParameter)
	}
	return &f, nil
}

// queryList supports both repeated params and comma separated values:
//
//	?category=A&category=B
//	?category=A,B
func queryList(c *gin.Context, param string) []string {
	var out []string
	seen := make(map[string]struct{})
	for _, raw := range c.QueryArray(param) {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			key := strings.ToLower(part)
			if _, ok := seen[key]; ok {
				continue
			}
			seen[key] = struct{}{}
			out = append(out, part)
		}
	}
	return out
}
