package app

import (
	"context"
	"time"

	"github.com/callenovena/comanda/internal/catalog"
	"github.com/callenovena/comanda/internal/domain/model"
	"github.com/callenovena/comanda/internal/notify"
	"github.com/callenovena/comanda/internal/usecase"
)

// ComandaFacade aggregates the use cases behind one surface for the HTTP
// layer, the event stream, and the retention sweeper. It is also the single
// place where persisted transitions are fanned out to the hub, so a
// subscriber can never observe an event whose write failed.
type ComandaFacade struct {
	orders *usecase.OrderUseCase
	views  *usecase.ViewUseCase
	auth   *usecase.AuthUseCase
	hub    *notify.Hub
	menu   *catalog.Catalog
}

func NewComandaFacade(orders *usecase.OrderUseCase, views *usecase.ViewUseCase, auth *usecase.AuthUseCase, hub *notify.Hub, menu *catalog.Catalog) *ComandaFacade {
	return &ComandaFacade{orders: orders, views: views, auth: auth, hub: hub, menu: menu}
}

func (f *ComandaFacade) Login(ctx context.Context, role model.Role, pin string) (string, error) {
	return f.auth.Authenticate(ctx, role, pin)
}

func (f *ComandaFacade) ParseToken(token string) (model.Role, error) {
	return f.auth.ParseToken(token)
}

func (f *ComandaFacade) SubmitOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error) {
	order, err := f.orders.Submit(ctx, draft)
	if err != nil {
		return nil, err
	}
	f.hub.Publish(notify.Event{
		Order:   *order,
		Current: order.Status,
	})
	return order, nil
}

func (f *ComandaFacade) Order(ctx context.Context, id int64) (*usecase.OrderView, error) {
	order, err := f.orders.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := f.views.Annotate(order)
	return &view, nil
}

func (f *ComandaFacade) Orders(ctx context.Context, statuses []model.OrderStatus) ([]usecase.OrderView, error) {
	orders, err := f.views.List(ctx, statuses)
	if err != nil {
		return nil, err
	}
	return f.annotateAll(orders), nil
}

func (f *ComandaFacade) AdvanceOrder(ctx context.Context, id int64, target model.OrderStatus, role model.Role, voidReason *string) (*model.Order, error) {
	result, err := f.orders.Transition(ctx, id, target, role, voidReason)
	if err != nil {
		return nil, err
	}
	f.hub.Publish(notify.Event{
		Order:    *result.Order,
		Previous: result.Previous,
		Current:  result.Order.Status,
	})
	return result.Order, nil
}

func (f *ComandaFacade) PendingWaiter(ctx context.Context) ([]usecase.OrderView, error) {
	orders, err := f.views.WaiterPending(ctx)
	if err != nil {
		return nil, err
	}
	return f.annotateAll(orders), nil
}

func (f *ComandaFacade) InKitchen(ctx context.Context) ([]usecase.OrderView, error) {
	return f.views.KitchenActive(ctx)
}

func (f *ComandaFacade) ReadyBoard(ctx context.Context) ([]usecase.OrderView, error) {
	orders, err := f.views.ReadyBoard(ctx)
	if err != nil {
		return nil, err
	}
	return f.annotateAll(orders), nil
}

func (f *ComandaFacade) Subscribe(scope notify.Scope) (<-chan notify.Event, func()) {
	return f.hub.Subscribe(scope)
}

func (f *ComandaFacade) Menu() []catalog.Item {
	return f.menu.Items()
}

func (f *ComandaFacade) PurgeOrdersBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	return f.orders.PurgeOlderThan(ctx, cutoff)
}

func (f *ComandaFacade) annotateAll(orders []model.Order) []usecase.OrderView {
	views := make([]usecase.OrderView, 0, len(orders))
	for i := range orders {
		views = append(views, f.views.Annotate(&orders[i]))
	}
	return views
}
