package handlers

import (
	"context"
	"log/slog"

	"github.com/vmunix/fijkbridge/internal/events"
)

// ActivityHandler writes all bus traffic to the debug log.
type ActivityHandler struct {
	*BaseHandler
	all <-chan events.Event
}

// NewActivityHandler creates the handler and subscribes it to every event.
func NewActivityHandler(bus *events.Bus, buffer int, logger *slog.Logger) *ActivityHandler {
	return &ActivityHandler{
		BaseHandler: NewBaseHandler(bus, logger),
		all:         bus.SubscribeAll(buffer),
	}
}

// Name returns the handler name.
func (h *ActivityHandler) Name() string {
	return "activity"
}

// Start begins processing events.
func (h *ActivityHandler) Start(ctx context.Context) error {
	for {
		select {
		case e := <-h.all:
			if e == nil {
				return nil // Channel closed
			}
			h.Logger().Debug("event",
				"type", e.EventType(),
				"player", e.EntityID())
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}
