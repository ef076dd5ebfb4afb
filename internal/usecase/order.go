package usecase

import (
	"context"
	"time"

	domainErrors "github.com/callenovena/comanda/internal/domain/errors"
	"github.com/callenovena/comanda/internal/domain/model"
	"github.com/callenovena/comanda/internal/domain/repository"
)

// OrderUseCase is the order lifecycle engine: it validates and applies
// status transitions. It is stateless across calls; the repository holds
// the only durable copy and serializes concurrent transitions per order id.
type OrderUseCase struct {
	orders repository.OrderRepository
	now    func() time.Time
}

// NewOrderUseCase constructs OrderUseCase.
func NewOrderUseCase(orders repository.OrderRepository) *OrderUseCase {
	return &OrderUseCase{orders: orders, now: time.Now}
}

// Submit validates a customer draft and persists it as pending_waiter.
// Items without an identifier are dropped; an empty result is rejected
// before anything touches storage.
func (u *OrderUseCase) Submit(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	draft.Items = NormalizeItems(draft.Items)
	if len(draft.Items) == 0 {
		return nil, domainErrors.ErrEmptyOrder
	}
	return u.orders.Create(ctx, draft)
}

// Get returns the current stored record.
func (u *OrderUseCase) Get(ctx context.Context, id int64) (*model.Order, error) {
	return u.orders.GetByID(ctx, id)
}

// TransitionResult carries the updated record together with the status it
// left, which fan-out consumers need to describe the event.
type TransitionResult struct {
	Order    *model.Order
	Previous model.OrderStatus
}

// Transition moves an order to the target status on behalf of a role. The
// move is validated against the lifecycle table first; the persist step is
// a compare-and-set, so of two racing requests exactly one wins and the
// loser observes ErrConflict (or ErrInvalidTransition on its own refetch).
func (u *OrderUseCase) Transition(ctx context.Context, id int64, target model.OrderStatus, role model.Role, voidReason *string) (*TransitionResult, error) {
	current, err := u.orders.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !model.CanTransition(current.Status, target, role) {
		return nil, &TransitionError{From: current.Status, To: target, Role: role}
	}

	if target != model.OrderStatusCancelled {
		voidReason = nil
	}

	updated, err := u.orders.ApplyTransition(ctx, id, current.Status, target, voidReason, u.now())
	if err != nil {
		return nil, err
	}

	return &TransitionResult{Order: updated, Previous: current.Status}, nil
}

// PurgeOlderThan removes orders created before cutoff. The retention
// sweeper calls it; day-old history has no operational value on any board.
func (u *OrderUseCase) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	return u.orders.DeleteOlderThan(ctx, cutoff)
}

// TransitionError wraps ErrInvalidTransition with the actual current state
// so a stale client can resync.
type TransitionError struct {
	From model.OrderStatus
	To   model.OrderStatus
	Role model.Role
}

func (e *TransitionError) Error() string {
	return "invalid order transition " + string(e.From) + " -> " + string(e.To) + " for role " + string(e.Role)
}

func (e *TransitionError) Unwrap() error {
	return domainErrors.ErrInvalidTransition
}
