package repository

import (
	"context"
	"time"

	"github.com/callenovena/comanda/internal/domain/model"
)

// OrderFilter narrows List results. A nil/empty Statuses set means all
// statuses. Results are always ordered by creation time ascending so
// repeated queries between transitions are stable.
type OrderFilter struct {
	Statuses []model.OrderStatus
}

// OrderRepository describes persistence operations with orders. The
// repository owns the only durable copy; callers never mutate fields
// directly, every status change goes through ApplyTransition.
type OrderRepository interface {
	// Create persists a normalized draft as a pending_waiter order and
	// returns the stored record with its assigned id.
	Create(ctx context.Context, draft model.OrderDraft) (*model.Order, error)

	// GetByID returns the order or ErrOrderNotFound.
	GetByID(ctx context.Context, id int64) (*model.Order, error)

	// List returns orders matching the filter, creation order preserved.
	List(ctx context.Context, filter OrderFilter) ([]model.Order, error)

	// ApplyTransition atomically moves an order from one status to another,
	// stamping the target's timestamp column in the same write. When the
	// row exists but its status no longer equals from, the caller lost a
	// race and receives ErrConflict; a missing row yields ErrOrderNotFound.
	ApplyTransition(ctx context.Context, id int64, from, to model.OrderStatus, voidReason *string, at time.Time) (*model.Order, error)

	// DeleteOlderThan purges orders created before the cutoff and returns
	// the number of removed records.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}
