package usecase

import (
	"fmt"
	"math"

	domain "github.com/dulcecostawork-hub/minifood-api/internal/entity"
)

// ValidatedLine couples the resolved meal with the accepted quantity.
type ValidatedLine struct {
	Meal domain.Meal
	Qty  int
}

// ValidateLine checks one requested line against the catalog. The checks run
// in a fixed order — existence, quantity shape, stock sufficiency — because
// when several conditions fail at once, the first one decides which fault the
// caller reports. maxQty of 0 means no upper bound on quantity.
func ValidateLine(cat Catalog, line domain.CartLine, maxQty int) (ValidatedLine, *domain.Fault) {
	id, ok := asInt(line.MealID)
	if !ok {
		return ValidatedLine{}, &domain.Fault{
			Code:    domain.CodeNotFound,
			Message: fmt.Sprintf("meal %v does not exist", line.MealID),
		}
	}
	meal, found := cat.FindByID(id)
	if !found {
		return ValidatedLine{}, &domain.Fault{
			Code:    domain.CodeNotFound,
			Message: fmt.Sprintf("meal %d does not exist", id),
			MealID:  id,
		}
	}

	qty, ok := asInt(line.Qty)
	if !ok || qty < 1 || (maxQty > 0 && qty > maxQty) {
		msg := "qty must be a positive integer"
		if maxQty > 0 {
			msg = fmt.Sprintf("qty must be 1..%d", maxQty)
		}
		return ValidatedLine{}, &domain.Fault{
			Code:    domain.CodeInvalidQty,
			Message: msg,
			MealID:  id,
		}
	}

	if meal.Stock < qty {
		avail := meal.Stock
		return ValidatedLine{}, &domain.Fault{
			Code:      domain.CodeOutOfStock,
			Message:   "not enough stock",
			MealID:    id,
			Available: &avail,
		}
	}

	return ValidatedLine{Meal: meal, Qty: qty}, nil
}

// asInt accepts only values that arrived as whole JSON numbers.
func asInt(x float64) (int, bool) {
	if x != math.Trunc(x) || math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, false
	}
	if x > math.MaxInt32 || x < math.MinInt32 {
		return 0, false
	}
	return int(x), true
}
