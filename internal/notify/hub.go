package notify

import (
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/callenovena/comanda/internal/domain/model"
)

// Scope identifies a group of connected screens interested in the same
// order updates: one per staff role plus one per table.
type Scope string

// ScopeAll receives every event once, regardless of scopes. The broker
// bridge uses it.
const ScopeAll Scope = "all"

// RoleScope builds the scope for a staff role board.
func RoleScope(role model.Role) Scope {
	return Scope("role:" + string(role))
}

// TableScope builds the scope for a single table's cart screen.
func TableScope(table string) Scope {
	return Scope("table:" + table)
}

// Event describes one persisted transition. The payload is the full record
// snapshot, never a diff: receivers replace their cached copy wholesale so
// a lost or reordered event cannot leave them with merged partial state.
type Event struct {
	Order    model.Order
	Previous model.OrderStatus
	Current  model.OrderStatus
}

// Scopes lists the subscriber groups interested in the event.
func (e Event) Scopes() []Scope {
	scopes := []Scope{RoleScope(model.RoleWaiter), RoleScope(model.RoleKitchen)}
	if e.Order.Table != nil && *e.Order.Table != "" {
		scopes = append(scopes, TableScope(*e.Order.Table))
	}
	return scopes
}

// Hub fans transition events out to live subscribers. Delivery is
// best-effort: a subscriber whose buffer is full loses the event (and a log
// line records it); the publisher never blocks and never fails. Dropped
// events are recovered by the next poll against the view projector.
type Hub struct {
	mu      sync.RWMutex
	subs    map[Scope]map[uint64]chan Event
	nextID  uint64
	buffer  int
	dropped atomic.Uint64
	logger  *slog.Logger
}

// NewHub constructs a hub with the given per-subscriber buffer size.
func NewHub(buffer int, logger *slog.Logger) *Hub {
	if buffer <= 0 {
		buffer = 1
	}
	return &Hub{
		subs:   make(map[Scope]map[uint64]chan Event),
		buffer: buffer,
		logger: logger,
	}
}

// Subscribe registers a listener for one scope and returns its event
// channel plus a cancel function. Cancel is idempotent and closes the
// channel; a reconnecting client simply subscribes again and refetches the
// full state from the projector.
func (h *Hub) Subscribe(scope Scope) (<-chan Event, func()) {
	ch := make(chan Event, h.buffer)

	h.mu.Lock()
	id := h.nextID
	h.nextID++
	if h.subs[scope] == nil {
		h.subs[scope] = make(map[uint64]chan Event)
	}
	h.subs[scope][id] = ch
	h.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			h.mu.Lock()
			if scoped, ok := h.subs[scope]; ok {
				delete(scoped, id)
				if len(scoped) == 0 {
					delete(h.subs, scope)
				}
			}
			h.mu.Unlock()
			close(ch)
		})
	}
	return ch, cancel
}

// Publish delivers the event to every subscriber of its scopes, exactly
// once per subscriber, without blocking.
func (h *Hub) Publish(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, scope := range append(event.Scopes(), ScopeAll) {
		for _, ch := range h.subs[scope] {
			select {
			case ch <- event:
			default:
				h.dropped.Add(1)
				h.logger.Warn("push event dropped, subscriber too slow",
					slog.String("scope", string(scope)),
					slog.Int64("order_id", event.Order.ID),
				)
			}
		}
	}
}

// SubscriberCount reports the number of live subscribers for a scope.
func (h *Hub) SubscriberCount(scope Scope) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[scope])
}

// Dropped reports how many events were lost to slow subscribers.
func (h *Hub) Dropped() uint64 {
	return h.dropped.Load()
}
