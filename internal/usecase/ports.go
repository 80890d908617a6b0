package usecase

import (
	"context"

	domain "github.com/dulcecostawork-hub/minifood-api/internal/entity"
)

// Catalog owns all mutable meal state. Reads are snapshots; DecrementStock is
// the only mutator besides Reset.
type Catalog interface {
	ListAll() []domain.Meal
	FindByID(id int) (domain.Meal, bool)
	Reset()

	// DecrementStock reduces the stock of one meal. Contract, not a check:
	// the caller must have validated qty <= current stock earlier in the same
	// serialized pass. It does not re-validate.
	DecrementStock(id, qty int)
}

// IDSource hands out order identifiers.
type IDSource interface {
	Next() int64
}

type IdempotencyStore interface {
	TryLock(ctx context.Context, scope, key string) (bool, error)

	// Release frees a lock taken by TryLock without storing a value, so a
	// checkout that failed can be retried under the same key.
	Release(ctx context.Context, scope, key string) error

	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

type OrderEvents interface {
	PublishPlaced(ctx context.Context, msg PlacedMsg) error
}
