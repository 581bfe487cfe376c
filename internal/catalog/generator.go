package catalog

import (
	"fmt"
	"math"
	"math/rand/v2"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
)

// DefaultItems and DefaultSeed reproduce the dashboard's standard catalog.
const (
	DefaultItems = 150
	DefaultSeed  = 42
)

var (
	Categories = []string{"Home Cleaning", "Personal Care", "Paper", "Kitchen"}
	Suppliers  = []string{"Sano", "Unilever", "P&G", "Local Supplier A", "Local Supplier B"}
)

// pcgStream fixes the second PCG word so a catalog depends on the seed alone.
const pcgStream = 0x9e3779b97f4a7c15

// Generate builds a synthetic catalog of nItems SKUs. The same seed always
// yields the same catalog. nItems <= 0 yields an empty catalog.
func Generate(nItems int, seed int64) *domain.Catalog {
	if nItems < 0 {
		nItems = 0
	}

	rng := rand.New(rand.NewPCG(uint64(seed), pcgStream))
	items := make([]domain.SKU, 0, nItems)
	for i := 0; i < nItems; i++ {
		items = append(items, generateSKU(rng, i))
	}

	return &domain.Catalog{
		Version: GeneratedVersion(nItems, seed),
		Items:   items,
	}
}

// GeneratedVersion is the catalog version of Generate(nItems, seed).
func GeneratedVersion(nItems int, seed int64) string {
	return fmt.Sprintf("gen-n%d-s%d", nItems, seed)
}

// generateSKU draws one SKU. The draw order is part of the reproducibility
// contract and must not change.
func generateSKU(rng *rand.Rand, i int) domain.SKU {
	category := Categories[rng.IntN(len(Categories))]
	supplier := Suppliers[rng.IntN(len(Suppliers))]

	avgDailySales := uniform(rng, 3, 80) // units / day
	demandStd := avgDailySales * uniform(rng, 0.2, 0.6)
	leadTimeDays := integers(rng, 3, 21)
	currentStock := integers(rng, 0, int(avgDailySales*45))

	unitCost := uniform(rng, 5, 40)
	unitPrice := unitCost * uniform(rng, 1.2, 1.9)

	orderCost := uniform(rng, 80, 250)     // per order
	holdingRate := uniform(rng, 0.18, 0.32) // 18-32% / year
	holdingCost := unitCost * holdingRate

	return domain.SKU{
		SKUID:         fmt.Sprintf("SKU-%d", 1000+i),
		Category:      category,
		Supplier:      supplier,
		AvgDailySales: domain.Round(avgDailySales, 2),
		DemandStd:     domain.Round(demandStd, 2),
		LeadTimeDays:  leadTimeDays,
		CurrentStock:  currentStock,
		UnitCost:      domain.Round(unitCost, 2),
		UnitPrice:     domain.Round(unitPrice, 2),
		AnnualDemand:  math.Round(avgDailySales * 365),
		OrderCost:     domain.Round(orderCost, 2),
		HoldingCost:   domain.Round(holdingCost, 2),
	}
}

// uniform draws from [lo, hi).
func uniform(rng *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*rng.Float64()
}

// integers draws an int from [lo, hi). An empty range returns lo.
func integers(rng *rand.Rand, lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + rng.IntN(hi-lo)
}
