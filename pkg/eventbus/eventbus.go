package eventbus

import (
	"context"

	"github.com/laokitchen/payflow/pkg/domain/common"
)

// HandlerFunc handles a single published event.
type HandlerFunc func(ctx context.Context, event common.Event)

// Bus defines the contract for publishing and subscribing to domain events.
type Bus interface {
	Register(eventType string, handler HandlerFunc)
	Emit(ctx context.Context, event common.Event) error
}
