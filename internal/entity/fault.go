package domain

// Result codes shared with the HTTP surface. These are part of the public
// contract; renaming one breaks clients.
const (
	CodeNotFound         = "NOT_FOUND"
	CodeInvalidQty       = "INVALID_QTY"
	CodeOutOfStock       = "OUT_OF_STOCK"
	CodeInvalidCart      = "INVALID_CART"
	CodeTermsNotAccepted = "TERMS_NOT_ACCEPTED"
	CodeMinOrderNotMet   = "MIN_ORDER_NOT_MET"
	CodeDuplicateRequest = "DUPLICATE_REQUEST"
)

// Fault is an expected, user-facing outcome of cart or checkout validation.
// Every branch of the pipeline returns one of these; none are panics or
// transient errors. Only the fields relevant to Code are set.
type Fault struct {
	Code    string
	Message string

	// Path points at the offending request field (checkout INVALID_QTY).
	Path string

	// MealID identifies the offending line for referential and stock faults.
	MealID int

	// Available is the remaining stock for OUT_OF_STOCK. Pointer so that a
	// genuine zero still serializes.
	Available *int

	// Minimum and Total accompany MIN_ORDER_NOT_MET.
	Minimum float64
	Total   float64
}

func (f *Fault) Error() string {
	return f.Code + ": " + f.Message
}
