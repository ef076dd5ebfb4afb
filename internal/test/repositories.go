package test

import (
	"context"
	"sync"
	"time"

	domainErrors "github.com/callenovena/comanda/internal/domain/errors"
	"github.com/callenovena/comanda/internal/domain/model"
	"github.com/callenovena/comanda/internal/domain/repository"
)

// OrderRepositoryStub stores orders in-memory and allows overrides per method.
type OrderRepositoryStub struct {
	CreateFn          func(context.Context, model.OrderDraft) (*model.Order, error)
	GetByIDFn         func(context.Context, int64) (*model.Order, error)
	ListFn            func(context.Context, repository.OrderFilter) ([]model.Order, error)
	ApplyTransitionFn func(context.Context, int64, model.OrderStatus, model.OrderStatus, *string, time.Time) (*model.Order, error)
	DeleteOlderThanFn func(context.Context, time.Time) (int64, error)

	mu     sync.Mutex
	Orders map[int64]*model.Order
	Next   int64
}

// NewOrderRepositoryStub constructs a stub with an initialized order map.
func NewOrderRepositoryStub() *OrderRepositoryStub {
	return &OrderRepositoryStub{Orders: make(map[int64]*model.Order), Next: 1}
}

// Lock exposes the internal mutex for external synchronization.
func (s *OrderRepositoryStub) Lock() { s.mu.Lock() }

// Unlock releases a previously acquired lock.
func (s *OrderRepositoryStub) Unlock() { s.mu.Unlock() }

// Create stores a new pending order unless an override is set.
func (s *OrderRepositoryStub) Create(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	if s.CreateFn != nil {
		return s.CreateFn(ctx, draft)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Orders == nil {
		s.Orders = make(map[int64]*model.Order)
	}
	if s.Next == 0 {
		s.Next = 1
	}
	order := &model.Order{
		ID:           s.Next,
		Table:        draft.Table,
		GuestName:    draft.GuestName,
		Comments:     draft.Comments,
		AllergyNotes: draft.AllergyNotes,
		Items:        draft.Items,
		Status:       model.OrderStatusPendingWaiter,
		CreatedAt:    time.Now(),
	}
	s.Next++
	s.Orders[order.ID] = order
	copied := *order
	return &copied, nil
}

// GetByID fetches a stored order or returns not found.
func (s *OrderRepositoryStub) GetByID(ctx context.Context, id int64) (*model.Order, error) {
	if s.GetByIDFn != nil {
		return s.GetByIDFn(ctx, id)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if order, ok := s.Orders[id]; ok {
		copied := *order
		return &copied, nil
	}
	return nil, domainErrors.ErrOrderNotFound
}

// List returns stored orders matching the filter in insertion order.
func (s *OrderRepositoryStub) List(ctx context.Context, filter repository.OrderFilter) ([]model.Order, error) {
	if s.ListFn != nil {
		return s.ListFn(ctx, filter)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	match := func(status model.OrderStatus) bool {
		if len(filter.Statuses) == 0 {
			return true
		}
		for _, want := range filter.Statuses {
			if status == want {
				return true
			}
		}
		return false
	}
	var result []model.Order
	for id := int64(1); id < s.Next; id++ {
		if order, ok := s.Orders[id]; ok && match(order.Status) {
			result = append(result, *order)
		}
	}
	return result, nil
}

// ApplyTransition performs a guarded status update against stored state.
func (s *OrderRepositoryStub) ApplyTransition(ctx context.Context, id int64, from, to model.OrderStatus, voidReason *string, at time.Time) (*model.Order, error) {
	if s.ApplyTransitionFn != nil {
		return s.ApplyTransitionFn(ctx, id, from, to, voidReason, at)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	order, ok := s.Orders[id]
	if !ok {
		return nil, domainErrors.ErrOrderNotFound
	}
	if order.Status != from {
		return nil, domainErrors.ErrConflict
	}
	order.Status = to
	if to == model.OrderStatusCancelled {
		order.VoidReason = voidReason
	}
	stamp := at
	switch model.TimestampFor(to) {
	case model.TimestampSentToKitchen:
		if order.SentToKitchenAt == nil {
			order.SentToKitchenAt = &stamp
		}
	case model.TimestampReady:
		if order.ReadyAt == nil {
			order.ReadyAt = &stamp
		}
	case model.TimestampDelivered:
		if order.DeliveredAt == nil {
			order.DeliveredAt = &stamp
		}
	}
	copied := *order
	return &copied, nil
}

// DeleteOlderThan drops orders created before cutoff.
func (s *OrderRepositoryStub) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	if s.DeleteOlderThanFn != nil {
		return s.DeleteOlderThanFn(ctx, cutoff)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	var removed int64
	for id, order := range s.Orders {
		if order.CreatedAt.Before(cutoff) {
			delete(s.Orders, id)
			removed++
		}
	}
	return removed, nil
}

var _ repository.OrderRepository = (*OrderRepositoryStub)(nil)
