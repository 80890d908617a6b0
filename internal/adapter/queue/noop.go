package queue

import (
	"context"

	"github.com/dulcecostawork-hub/minifood-api/internal/usecase"
)

// NoopPublisher discards events. Wired when no broker URL is configured.
type NoopPublisher struct{}

func (NoopPublisher) PublishPlaced(context.Context, usecase.PlacedMsg) error { return nil }

var _ usecase.OrderEvents = NoopPublisher{}
