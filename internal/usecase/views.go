package usecase

import (
	"context"
	"time"

	"github.com/callenovena/comanda/internal/domain/model"
	"github.com/callenovena/comanda/internal/domain/repository"
)

// DefaultReadyWindow keeps delivered orders on the ready board briefly so
// the waiter screen can confirm the hand-off before the card disappears.
const DefaultReadyWindow = 10 * time.Minute

// OrderView is an order snapshot annotated with the advisory kitchen
// timing fields a board renders alongside it.
type OrderView struct {
	Order    model.Order
	Deadline time.Duration
	Elapsed  time.Duration
	Late     bool
}

// ViewUseCase answers per-role board queries from canonical storage. The
// push stream is an optimization on top of it; every view stays correct if
// every notification is dropped, because polling re-runs these reads.
type ViewUseCase struct {
	orders      repository.OrderRepository
	prep        PrepTimer
	readyWindow time.Duration
	now         func() time.Time
}

// NewViewUseCase constructs ViewUseCase. A non-positive readyWindow falls
// back to DefaultReadyWindow.
func NewViewUseCase(orders repository.OrderRepository, prep PrepTimer, readyWindow time.Duration) *ViewUseCase {
	if readyWindow <= 0 {
		readyWindow = DefaultReadyWindow
	}
	return &ViewUseCase{orders: orders, prep: prep, readyWindow: readyWindow, now: time.Now}
}

// WaiterPending lists orders awaiting waiter approval, oldest first.
func (v *ViewUseCase) WaiterPending(ctx context.Context) ([]model.Order, error) {
	return v.orders.List(ctx, repository.OrderFilter{
		Statuses: []model.OrderStatus{model.OrderStatusPendingWaiter},
	})
}

// KitchenActive lists confirmed orders for the kitchen board, oldest
// first, each annotated with elapsed time against its deadline.
func (v *ViewUseCase) KitchenActive(ctx context.Context) ([]OrderView, error) {
	orders, err := v.orders.List(ctx, repository.OrderFilter{
		Statuses: []model.OrderStatus{model.OrderStatusConfirmed},
	})
	if err != nil {
		return nil, err
	}

	views := make([]OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, v.Annotate(&orders[i]))
	}
	return views, nil
}

// ReadyBoard lists ready orders plus recently delivered ones within the
// trailing window, oldest first.
func (v *ViewUseCase) ReadyBoard(ctx context.Context) ([]model.Order, error) {
	orders, err := v.orders.List(ctx, repository.OrderFilter{
		Statuses: []model.OrderStatus{model.OrderStatusReady, model.OrderStatusDelivered},
	})
	if err != nil {
		return nil, err
	}

	now := v.now()
	board := make([]model.Order, 0, len(orders))
	for _, o := range orders {
		if o.Status == model.OrderStatusDelivered {
			if o.DeliveredAt == nil || now.Sub(*o.DeliveredAt) > v.readyWindow {
				continue
			}
		}
		board = append(board, o)
	}
	return board, nil
}

// List is the generic filtered query behind the admin/debug listing.
func (v *ViewUseCase) List(ctx context.Context, statuses []model.OrderStatus) ([]model.Order, error) {
	return v.orders.List(ctx, repository.OrderFilter{Statuses: statuses})
}

// Annotate computes the advisory timing fields for a single order.
func (v *ViewUseCase) Annotate(order *model.Order) OrderView {
	view := OrderView{Order: *order, Deadline: Deadline(order, v.prep)}
	if order.SentToKitchenAt != nil {
		view.Elapsed = v.now().Sub(*order.SentToKitchenAt)
	}
	view.Late = Late(order, v.prep, v.now())
	return view
}
