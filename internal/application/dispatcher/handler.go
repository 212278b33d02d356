package dispatcher

import (
	"context"

	"github.com/Forgesaroj/complete-sales-tracker-tally-prime-sub004/internal/domain/event"
)

// Handler processes domain events
type Handler func(ctx context.Context, evt event.Event) error

// HandlerInfo contains handler metadata for debugging
type HandlerInfo struct {
	Name      string
	EventType event.Type
	Handler   Handler
}
