package usecase

import (
	"math"

	domain "github.com/dulcecostawork-hub/minifood-api/internal/entity"
)

// ComputeTotal prices the given lines against the catalog as it stands right
// now; prices are looked up fresh, never reused from validation. Lines whose
// meal no longer resolves contribute zero — a fallback for callers that
// skipped validation, not something the checkout pipeline relies on. The sum
// is rounded once, at the end, to two decimals.
func ComputeTotal(cat Catalog, lines []domain.CartLine) float64 {
	var sum float64
	for _, line := range lines {
		id, ok := asInt(line.MealID)
		if !ok {
			continue
		}
		meal, found := cat.FindByID(id)
		if !found {
			continue
		}
		sum += meal.Price * line.Qty
	}
	return round2(sum)
}

// round2 rounds half away from zero to two decimals.
func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
