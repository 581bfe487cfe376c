package simulation

import (
	"math"
	"math/rand/v2"
	"time"

	"github.com/andresuchdata/inventory-bi/backend-go/internal/domain"
)

// DefaultDays is the length of the drill-down demand history.
const DefaultDays = 60

const pcgStream = 0x632be59bd9b4e019

// DailyDemand simulates a daily demand series for one SKU. The series covers
// days consecutive dates ending on end's calendar day; each value is drawn
// from Normal(avg, std) and clipped at zero. Identical arguments always give
// identical series.
func DailyDemand(seed int64, avg, std float64, days int, end time.Time) []domain.DemandPoint {
	if days <= 0 {
		return []domain.DemandPoint{}
	}
	if std < 0 || math.IsNaN(std) {
		std = 0
	}

	rng := rand.New(rand.NewPCG(uint64(seed), pcgStream))
	last := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, end.Location())
	first := last.AddDate(0, 0, -(days - 1))

	points := make([]domain.DemandPoint, days)
	for i := range points {
		demand := avg + std*rng.NormFloat64()
		points[i] = domain.DemandPoint{
			Date:   first.AddDate(0, 0, i),
			Demand: math.Max(0, demand),
		}
	}

	return points
}
