package domain

// Meal is a purchasable catalog item. Stock is mutated only by the catalog
// store's decrement (checkout commit) and reset operations.
type Meal struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Stock int     `json:"stock"`
}

// CartLine is one requested (meal, quantity) pair. Both fields keep their raw
// wire shape: clients can send fractional numbers, and the validator decides
// how that fails so error precedence stays stable.
type CartLine struct {
	MealID float64 `json:"mealId"`
	Qty    float64 `json:"qty"`
}

// Customer accompanies a checkout request. Email is carried but never
// validated here; see the checkout pipeline.
type Customer struct {
	Email       string `json:"email"`
	AcceptTerms bool   `json:"acceptTerms"`
}

// Order is the receipt for a committed checkout. It is returned to the caller
// and not stored anywhere.
type Order struct {
	ID    int64   `json:"orderId"`
	Total float64 `json:"total"`
}
