package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
)

func TestZForServiceLevel(t *testing.T) {
	tests := map[float64]float64{
		0.90: 1.28,
		0.95: 1.65,
		0.98: 2.05,
		0.99: 2.33,
	}
	for level, want := range tests {
		z, err := ZForServiceLevel(level)
		require.NoError(t, err)
		assert.Equal(t, want, z)
	}

	for _, level := range []float64{0.5, 0.97, 1, 0} {
		_, err := ZForServiceLevel(level)
		assert.ErrorIs(t, err, domain.ErrInvalidParameter, "level %v", level)
	}
}

func TestServiceLevels_Sorted(t *testing.T) {
	levels := ServiceLevels()
	require.Len(t, levels, 4)
	for i := 1; i < len(levels); i++ {
		assert.Less(t, levels[i-1].Level, levels[i].Level)
		assert.Less(t, levels[i-1].Z, levels[i].Z)
	}
}

func TestParamsForServiceLevel(t *testing.T) {
	params, err := ParamsForServiceLevel(0.98, 0.8)
	require.NoError(t, err)
	assert.Equal(t, domain.PolicyParams{ServiceLevel: 0.98, Z: 2.05, HoldingMultiplier: 0.8}, params)

	_, err = ParamsForServiceLevel(0.98, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidParameter)
}
