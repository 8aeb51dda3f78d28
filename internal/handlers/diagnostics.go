package handlers

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/vmunix/fijkbridge/internal/events"
)

// UnknownCode counts one unknown event code value.
type UnknownCode struct {
	Code    int64   `json:"code"`
	Count   int     `json:"count"`
	Players []int64 `json:"players"`
}

// Diagnostics is a snapshot of protocol problems seen so far.
type Diagnostics struct {
	Unknown       []UnknownCode  `json:"unknown_codes"`
	HandlerFailed map[string]int `json:"handler_failures"`
	TotalUnknown  int            `json:"total_unknown"`
	TotalFailed   int            `json:"total_failed"`
}

// DiagnosticsHandler tracks unknown event codes and handler failures.
// An unknown code usually means the producer was built against a newer
// code table, so the first sighting of each value is logged at warn.
type DiagnosticsHandler struct {
	*BaseHandler

	unknown <-chan events.Event
	failed  <-chan events.Event

	mu            sync.Mutex
	unknownCodes  map[int64]*UnknownCode
	handlerFailed map[string]int
	totalUnknown  int
	totalFailed   int
}

// NewDiagnosticsHandler creates the handler and subscribes it to the bus.
func NewDiagnosticsHandler(bus *events.Bus, logger *slog.Logger) *DiagnosticsHandler {
	h := &DiagnosticsHandler{
		BaseHandler:   NewBaseHandler(bus, logger),
		unknownCodes:  make(map[int64]*UnknownCode),
		handlerFailed: make(map[string]int),
	}
	h.unknown = bus.Subscribe(events.EventPlayerCodeUnknown, 100)
	h.failed = bus.Subscribe(events.EventPlayerHandlerFailed, 100)
	return h
}

// Name returns the handler name.
func (h *DiagnosticsHandler) Name() string {
	return "diagnostics"
}

// Start begins processing events.
func (h *DiagnosticsHandler) Start(ctx context.Context) error {
	for {
		select {
		case e := <-h.unknown:
			if e == nil {
				return nil // Channel closed
			}
			if ev, ok := e.(*events.PlayerCodeUnknown); ok {
				h.handleUnknown(ev)
			}
		case e := <-h.failed:
			if e == nil {
				return nil // Channel closed
			}
			if ev, ok := e.(*events.PlayerHandlerFailed); ok {
				h.handleFailed(ev)
			}
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (h *DiagnosticsHandler) handleUnknown(e *events.PlayerCodeUnknown) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.totalUnknown++
	u, seen := h.unknownCodes[e.Code]
	if !seen {
		u = &UnknownCode{Code: e.Code}
		h.unknownCodes[e.Code] = u
		h.Logger().Warn("first sighting of unknown event code, producer and consumer code tables may differ",
			"code", e.Code,
			"player", e.EntityID())
	}
	u.Count++
	for _, p := range u.Players {
		if p == e.EntityID() {
			return
		}
	}
	u.Players = append(u.Players, e.EntityID())
}

func (h *DiagnosticsHandler) handleFailed(e *events.PlayerHandlerFailed) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.totalFailed++
	h.handlerFailed[e.Name]++
}

// Snapshot returns the counts so far. Unknown codes are sorted by value.
func (h *DiagnosticsHandler) Snapshot() Diagnostics {
	h.mu.Lock()
	defer h.mu.Unlock()

	d := Diagnostics{
		Unknown:       make([]UnknownCode, 0, len(h.unknownCodes)),
		HandlerFailed: make(map[string]int, len(h.handlerFailed)),
		TotalUnknown:  h.totalUnknown,
		TotalFailed:   h.totalFailed,
	}
	for _, u := range h.unknownCodes {
		c := *u
		c.Players = append([]int64(nil), u.Players...)
		d.Unknown = append(d.Unknown, c)
	}
	sort.Slice(d.Unknown, func(i, j int) bool { return d.Unknown[i].Code < d.Unknown[j].Code })
	for name, n := range h.handlerFailed {
		d.HandlerFailed[name] = n
	}
	return d
}
