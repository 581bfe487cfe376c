package policy

import (
	"fmt"
	"math"
	"sort"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
)

// ServiceLevel pairs a target cycle service level with its z-score.
type ServiceLevel struct {
	Level float64 `json:"service_level"`
	Z     float64 `json:"z"`
}

// serviceLevelZ is the fixed lookup from target service level to z-score.
// Intermediate levels are not interpolated.
var serviceLevelZ = map[float64]float64{
	0.90: 1.28,
	0.95: 1.65,
	0.98: 2.05,
	0.99: 2.33,
}

const serviceLevelTolerance = 1e-9

// ZForServiceLevel returns the z-score for one of the supported service levels.
func ZForServiceLevel(level float64) (float64, error) {
	for l, z := range serviceLevelZ {
		if math.Abs(l-level) < serviceLevelTolerance {
			return z, nil
		}
	}
	return 0, fmt.Errorf("unsupported service level %v: %w", level, domain.ErrInvalidParameter)
}

// ServiceLevels lists the supported service levels in ascending order.
func ServiceLevels() []ServiceLevel {
	levels := make([]ServiceLevel, 0, len(serviceLevelZ))
	for l, z := range serviceLevelZ {
		levels = append(levels, ServiceLevel{Level: l, Z: z})
	}
	sort.Slice(levels, func(i, j int) bool { return levels[i].Level < levels[j].Level })
	return levels
}

// ParamsForServiceLevel builds validated parameters from a service level.
func ParamsForServiceLevel(level, holdingMultiplier float64) (domain.PolicyParams, error) {
	z, err := ZForServiceLevel(level)
	if err != nil {
		return domain.PolicyParams{}, err
	}

	params := domain.PolicyParams{
		ServiceLevel:      level,
		Z:                 z,
		HoldingMultiplier: holdingMultiplier,
	}
	if err := Validate(params); err != nil {
		return domain.PolicyParams{}, err
	}
	return params, nil
}
