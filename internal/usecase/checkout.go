package usecase

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"sync"
	"time"

	domain "github.com/dulcecostawork-hub/minifood-api/internal/entity"
)

type CheckoutInput struct {
	Lines    []domain.CartLine
	Customer domain.Customer

	// IdempotencyKey is optional; empty disables the replay path.
	IdempotencyKey string
}

// Checkout runs the order-intake pipeline: validate every line, apply policy,
// price the cart, and only then commit stock decrements. Validation through
// commit runs under one mutex, so parallel requests can never observe catalog
// state between another request's validation and its commit. That ordering is
// what keeps stock from going negative.
type Checkout struct {
	cat      Catalog
	ids      IDSource
	idem     IdempotencyStore
	events   OrderEvents
	minOrder float64
	log      *slog.Logger

	mu sync.Mutex
}

func NewCheckout(cat Catalog, ids IDSource, idem IdempotencyStore, events OrderEvents, minOrder float64, log *slog.Logger) *Checkout {
	return &Checkout{cat: cat, ids: ids, idem: idem, events: events, minOrder: minOrder, log: log}
}

func (uc *Checkout) Execute(ctx context.Context, in CheckoutInput) (domain.Order, *domain.Fault) {
	// Keys are scoped per customer email; anonymous checkouts share one
	// scope, which is fine because idempotency keys are client-generated
	// and unique on their own.
	scope := in.Customer.Email
	if scope == "" {
		scope = "anon"
	}

	// Fast path: a replayed key returns the original receipt untouched.
	locked := false
	if in.IdempotencyKey != "" {
		if val, ok, _ := uc.idem.Recall(ctx, scope, in.IdempotencyKey); ok {
			if order, ok := decodeReceipt(val); ok {
				return order, nil
			}
		}
		ok, err := uc.idem.TryLock(ctx, scope, in.IdempotencyKey)
		switch {
		case err != nil:
			// The store being down must not block checkouts; it just means
			// no replay protection for this request.
			uc.log.Warn("idempotency lock failed, continuing without replay protection", "error", err)
		case !ok:
			return domain.Order{}, &domain.Fault{
				Code:    domain.CodeDuplicateRequest,
				Message: "a checkout with this idempotency key is already in flight",
			}
		default:
			locked = true
		}
	}

	order, lines, fault := uc.run(in)
	if fault != nil {
		// A failed checkout is no longer in flight: free the key so the
		// client can retry and see the same deterministic fault again.
		if locked {
			if err := uc.idem.Release(ctx, scope, in.IdempotencyKey); err != nil {
				uc.log.Warn("idempotency release failed", "error", err)
			}
		}
		return domain.Order{}, fault
	}

	if in.IdempotencyKey != "" {
		if err := uc.idem.Remember(ctx, scope, in.IdempotencyKey, encodeReceipt(order)); err != nil {
			uc.log.Warn("idempotency remember failed", "error", err)
		}
	}
	uc.publish(ctx, order, lines)
	return order, nil
}

// run is the serialized validate-all-then-commit-all section.
func (uc *Checkout) run(in CheckoutInput) (domain.Order, []ValidatedLine, *domain.Fault) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	if len(in.Lines) == 0 {
		return domain.Order{}, nil, &domain.Fault{
			Code:    domain.CodeInvalidCart,
			Message: "cart is empty",
		}
	}

	// Per-line validation in input order, first failure aborts. Checkout
	// lines carry no quantity cap.
	validated := make([]ValidatedLine, 0, len(in.Lines))
	for _, line := range in.Lines {
		v, fault := ValidateLine(uc.cat, line, 0)
		if fault != nil {
			if fault.Code == domain.CodeInvalidQty {
				fault.Path = "items[].qty"
			}
			return domain.Order{}, nil, fault
		}
		validated = append(validated, v)
	}

	// Email is deliberately not validated here; the storefront front-end is
	// stricter and the gap is a documented mismatch, not an oversight.
	if !in.Customer.AcceptTerms {
		return domain.Order{}, nil, &domain.Fault{
			Code:    domain.CodeTermsNotAccepted,
			Message: "terms must be accepted",
		}
	}

	total := ComputeTotal(uc.cat, in.Lines)
	if total < uc.minOrder {
		return domain.Order{}, nil, &domain.Fault{
			Code:    domain.CodeMinOrderNotMet,
			Message: "order total is below the minimum",
			Minimum: uc.minOrder,
			Total:   total,
		}
	}

	// Commit. Every line passed validation in this same locked pass, so the
	// decrements cannot fail or go negative.
	for _, v := range validated {
		uc.cat.DecrementStock(v.Meal.ID, v.Qty)
	}

	return domain.Order{ID: uc.ids.Next(), Total: total}, validated, nil
}

func (uc *Checkout) publish(ctx context.Context, order domain.Order, lines []ValidatedLine) {
	items := make([]PlacedItem, 0, len(lines))
	for _, v := range lines {
		items = append(items, PlacedItem{MealID: v.Meal.ID, Qty: v.Qty})
	}
	msg := PlacedMsg{
		OrderID:  order.ID,
		Total:    order.Total,
		Items:    items,
		PlacedAt: time.Now().UTC(),
	}
	// Event delivery never fails the checkout; the receipt is already owed
	// to the caller.
	if err := uc.events.PublishPlaced(ctx, msg); err != nil {
		uc.log.Warn("order.placed publish failed", "orderId", order.ID, "error", err)
	}
}

func encodeReceipt(o domain.Order) string {
	return strconv.FormatInt(o.ID, 10) + "|" + strconv.FormatFloat(o.Total, 'f', -1, 64)
}

func decodeReceipt(s string) (domain.Order, bool) {
	id, rest, ok := strings.Cut(s, "|")
	if !ok {
		return domain.Order{}, false
	}
	orderID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return domain.Order{}, false
	}
	total, err := strconv.ParseFloat(rest, 64)
	if err != nil {
		return domain.Order{}, false
	}
	return domain.Order{ID: orderID, Total: total}, true
}
