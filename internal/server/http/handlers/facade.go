package handlers

import (
	"context"

	"github.com/callenovena/comanda/internal/catalog"
	"github.com/callenovena/comanda/internal/domain/model"
	"github.com/callenovena/comanda/internal/notify"
	"github.com/callenovena/comanda/internal/usecase"
)

// AuthFacade describes authentication capabilities required by handlers.
type AuthFacade interface {
	Login(ctx context.Context, role model.Role, pin string) (string, error)
	ParseToken(token string) (model.Role, error)
}

// OrderFacade encapsulates order operations exposed via HTTP.
type OrderFacade interface {
	SubmitOrder(ctx context.Context, draft model.OrderDraft) (*model.Order, error)
	Order(ctx context.Context, id int64) (*usecase.OrderView, error)
	Orders(ctx context.Context, statuses []model.OrderStatus) ([]usecase.OrderView, error)
	AdvanceOrder(ctx context.Context, id int64, target model.OrderStatus, role model.Role, voidReason *string) (*model.Order, error)
}

// ViewFacade provides the per-role board projections.
type ViewFacade interface {
	PendingWaiter(ctx context.Context) ([]usecase.OrderView, error)
	InKitchen(ctx context.Context) ([]usecase.OrderView, error)
	ReadyBoard(ctx context.Context) ([]usecase.OrderView, error)
}

// StreamFacade hands out live event subscriptions.
type StreamFacade interface {
	Subscribe(scope notify.Scope) (<-chan notify.Event, func())
}

// MenuFacade serves the read-only menu listing.
type MenuFacade interface {
	Menu() []catalog.Item
}

// ComandaFacade aggregates the full set of operations used across handlers.
type ComandaFacade interface {
	AuthFacade
	OrderFacade
	ViewFacade
	StreamFacade
	MenuFacade
}
