package policy

import (
	"fmt"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
)

const (
	// MaxZ is the largest accepted z-score.
	MaxZ = 6.0
	// MaxHoldingMultiplier is the largest accepted holding cost multiplier.
	MaxHoldingMultiplier = 100.0
)

// Validate checks that the parameters can drive an evaluation.
func Validate(params domain.PolicyParams) error {
	if !isFinite(params.HoldingMultiplier) || params.HoldingMultiplier <= 0 || params.HoldingMultiplier > MaxHoldingMultiplier {
		return fmt.Errorf("holding multiplier must be in (0, %v], got %v: %w", MaxHoldingMultiplier, params.HoldingMultiplier, domain.ErrInvalidParameter)
	}
	if !isFinite(params.Z) || params.Z < 0 || params.Z > MaxZ {
		return fmt.Errorf("z-score must be in [0, %v], got %v: %w", MaxZ, params.Z, domain.ErrInvalidParameter)
	}
	return nil
}

// Apply evaluates the policy over the base table and returns one row per SKU,
// in input order. The input slice is not modified. Rows whose metrics cannot
// be computed, such as a negative lead time, carry undefined metrics instead
// of failing the table. Attributes that are not finite are rejected since the
// table could not be encoded.
func Apply(items []domain.SKU, params domain.PolicyParams) ([]domain.PolicyRow, error) {
	if err := Validate(params); err != nil {
		return nil, err
	}
	for _, sku := range items {
		if err := sku.CheckFinite(); err != nil {
			return nil, fmt.Errorf("sku %s: %w", sku.SKUID, err)
		}
	}

	calc := NewCalculator(params.Z, params.HoldingMultiplier)
	rows := make([]domain.PolicyRow, len(items))
	for i, sku := range items {
		rows[i] = calc.Calculate(sku)
	}

	return rows, nil
}
