package domain

import "strings"

// RiskFlag classifies a SKU under a policy. Exactly one flag applies per row.
type RiskFlag string

const (
	RiskStockOut  RiskFlag = "Stock-out"
	RiskBelowROP  RiskFlag = "Below ROP"
	RiskOverstock RiskFlag = "Overstock"
	RiskHealthy   RiskFlag = "Healthy"
)

// AllRiskFlags lists the flags in classification priority order.
var AllRiskFlags = []RiskFlag{RiskStockOut, RiskBelowROP, RiskOverstock, RiskHealthy}

var riskFlagCodes = map[string]RiskFlag{
	"stock-out": RiskStockOut,
	"stockout":  RiskStockOut,
	"stock_out": RiskStockOut,
	"below rop": RiskBelowROP,
	"below_rop": RiskBelowROP,
	"overstock": RiskOverstock,
	"healthy":   RiskHealthy,
}

// ParseRiskFlag returns the flag for a label (case-insensitive).
func ParseRiskFlag(label string) (RiskFlag, bool) {
	flag, ok := riskFlagCodes[strings.ToLower(strings.TrimSpace(label))]

	return flag, ok
}

// AtRisk reports whether the flag needs a replenishment order.
func (f RiskFlag) AtRisk() bool {
	return f == RiskStockOut || f == RiskBelowROP
}

// RiskView is a preset selection of risk flags offered by the dashboard.
type RiskView string

const (
	RiskViewAll       RiskView = "all"
	RiskViewAtRisk    RiskView = "at_risk"
	RiskViewOverstock RiskView = "overstock"
	RiskViewCustom    RiskView = "custom"
)

// DefaultCustomRisks is the selection used by the custom view when none is given.
var DefaultCustomRisks = []RiskFlag{RiskStockOut, RiskBelowROP, RiskOverstock}

// Flags expands the view into the flags it selects. For the custom view the
// given selection is used, falling back to DefaultCustomRisks.
func (v RiskView) Flags(custom []RiskFlag) []RiskFlag {
	switch v {
	case RiskViewAtRisk:
		return []RiskFlag{RiskStockOut, RiskBelowROP}
	case RiskViewOverstock:
		return []RiskFlag{RiskOverstock}
	case RiskViewCustom:
		if len(custom) == 0 {
			return append([]RiskFlag(nil), DefaultCustomRisks...)
		}
		return custom
	default:
		return append([]RiskFlag(nil), AllRiskFlags...)
	}
}
