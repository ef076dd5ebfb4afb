package test

import (
	"context"
	"sync"
	"time"

	"github.com/callenovena/comanda/internal/catalog"
	"github.com/callenovena/comanda/internal/domain/model"
	"github.com/callenovena/comanda/internal/notify"
	"github.com/callenovena/comanda/internal/usecase"
)

// OrderFacadeStub provides controllable behaviour for order endpoints.
type OrderFacadeStub struct {
	SubmitFn  func(context.Context, model.OrderDraft) (*model.Order, error)
	OrderFn   func(context.Context, int64) (*usecase.OrderView, error)
	OrdersFn  func(context.Context, []model.OrderStatus) ([]usecase.OrderView, error)
	AdvanceFn func(context.Context, int64, model.OrderStatus, model.Role, *string) (*model.Order, error)
}

// SubmitOrder delegates to the provided function or returns a default order.
func (s OrderFacadeStub) SubmitOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	if s.SubmitFn != nil {
		return s.SubmitFn(ctx, draft)
	}
	return &model.Order{ID: 1, Items: draft.Items, Status: model.OrderStatusPendingWaiter, CreatedAt: time.Now()}, nil
}

// Order returns a single annotated order.
func (s OrderFacadeStub) Order(ctx context.Context, id int64) (*usecase.OrderView, error) {
	if s.OrderFn != nil {
		return s.OrderFn(ctx, id)
	}
	return &usecase.OrderView{Order: model.Order{ID: id, Status: model.OrderStatusPendingWaiter}}, nil
}

// Orders returns predefined orders for the given statuses.
func (s OrderFacadeStub) Orders(ctx context.Context, statuses []model.OrderStatus) ([]usecase.OrderView, error) {
	if s.OrdersFn != nil {
		return s.OrdersFn(ctx, statuses)
	}
	return []usecase.OrderView{{Order: model.Order{ID: 1}}}, nil
}

// AdvanceOrder delegates transition handling to the override.
func (s OrderFacadeStub) AdvanceOrder(ctx context.Context, id int64, target model.OrderStatus, role model.Role, voidReason *string) (*model.Order, error) {
	if s.AdvanceFn != nil {
		return s.AdvanceFn(ctx, id, target, role, voidReason)
	}
	return &model.Order{ID: id, Status: target}, nil
}

// ViewFacadeStub simulates the projector views.
type ViewFacadeStub struct {
	PendingFn func(context.Context) ([]usecase.OrderView, error)
	KitchenFn func(context.Context) ([]usecase.OrderView, error)
	ReadyFn   func(context.Context) ([]usecase.OrderView, error)
}

// PendingWaiter returns the waiter inbox.
func (s ViewFacadeStub) PendingWaiter(ctx context.Context) ([]usecase.OrderView, error) {
	if s.PendingFn != nil {
		return s.PendingFn(ctx)
	}
	return []usecase.OrderView{{Order: model.Order{ID: 1, Status: model.OrderStatusPendingWaiter}}}, nil
}

// InKitchen returns the kitchen queue.
func (s ViewFacadeStub) InKitchen(ctx context.Context) ([]usecase.OrderView, error) {
	if s.KitchenFn != nil {
		return s.KitchenFn(ctx)
	}
	return []usecase.OrderView{{Order: model.Order{ID: 1, Status: model.OrderStatusConfirmed}}}, nil
}

// ReadyBoard returns the pickup board.
func (s ViewFacadeStub) ReadyBoard(ctx context.Context) ([]usecase.OrderView, error) {
	if s.ReadyFn != nil {
		return s.ReadyFn(ctx)
	}
	return []usecase.OrderView{{Order: model.Order{ID: 1, Status: model.OrderStatusReady}}}, nil
}

// StreamFacadeStub hands out channels for event streaming tests.
type StreamFacadeStub struct {
	SubscribeFn func(notify.Scope) (<-chan notify.Event, func())
}

// Subscribe returns a closed-over channel or an inert default.
func (s StreamFacadeStub) Subscribe(scope notify.Scope) (<-chan notify.Event, func()) {
	if s.SubscribeFn != nil {
		return s.SubscribeFn(scope)
	}
	ch := make(chan notify.Event)
	return ch, func() { close(ch) }
}

// MenuFacadeStub serves a fixed menu listing.
type MenuFacadeStub struct {
	MenuFn func() []catalog.Item
}

// Menu returns the configured items or a single default entry.
func (s MenuFacadeStub) Menu() []catalog.Item {
	if s.MenuFn != nil {
		return s.MenuFn()
	}
	return []catalog.Item{{ID: "ceviche-clasico", Name: "Ceviche Clasico", Category: "Ceviches"}}
}

// PurgeCall records a retention sweep invocation.
type PurgeCall struct {
	Cutoff time.Time
}

// MaintenanceFacadeStub mimics sweeper interactions with the app facade.
type MaintenanceFacadeStub struct {
	PurgeFn func(context.Context, time.Time) (int64, error)

	mu    sync.Mutex
	Calls []PurgeCall
}

// Lock exposes the internal mutex for external synchronization.
func (s *MaintenanceFacadeStub) Lock() { s.mu.Lock() }

// Unlock releases a previously acquired lock.
func (s *MaintenanceFacadeStub) Unlock() { s.mu.Unlock() }

// PurgeOrdersBefore records invocations and returns configured responses.
func (s *MaintenanceFacadeStub) PurgeOrdersBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.PurgeFn != nil {
		return s.PurgeFn(ctx, cutoff)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Calls = append(s.Calls, PurgeCall{Cutoff: cutoff})
	return 0, nil
}

// ComandaFacadeStub aggregates facade dependencies for HTTP layer tests.
type ComandaFacadeStub struct {
	AuthFacadeStub
	OrderFacadeStub
	ViewFacadeStub
	StreamFacadeStub
	MenuFacadeStub
}
