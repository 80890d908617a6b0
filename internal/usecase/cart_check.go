package usecase

import (
	domain "github.com/dulcecostawork-hub/minifood-api/internal/entity"
)

// The single-item cart check caps quantity at 10. Checkout lines have no such
// cap; the two call sites deliberately apply different policies.
const cartMaxQty = 10

// CartCheck validates one prospective cart line without touching stock.
type CartCheck struct {
	cat Catalog
}

func NewCartCheck(cat Catalog) *CartCheck {
	return &CartCheck{cat: cat}
}

func (uc *CartCheck) Execute(line domain.CartLine) (ValidatedLine, *domain.Fault) {
	return ValidateLine(uc.cat, line, cartMaxQty)
}
