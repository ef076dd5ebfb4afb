package usecase

import (
	"go.uber.org/fx"

	"github.com/callenovena/comanda/internal/config"
	"github.com/callenovena/comanda/internal/domain/model"
	"github.com/callenovena/comanda/internal/domain/repository"
	pkgAuth "github.com/callenovena/comanda/internal/pkg/auth"
)

// Module provides core business use cases to the fx container.
var Module = fx.Provide(
	NewOrderUseCase,
	newViewUseCase,
	newAuthUseCase,
)

type authParams struct {
	fx.In

	Hasher   pkgAuth.PasswordHasher
	Strategy pkgAuth.Strategy
	Config   *config.Config
}

func newAuthUseCase(p authParams) *AuthUseCase {
	pins := map[model.Role]string{
		model.RoleWaiter:  p.Config.WaiterPINHash,
		model.RoleKitchen: p.Config.KitchenPINHash,
		model.RoleAdmin:   p.Config.AdminPINHash,
	}
	return NewAuthUseCase(p.Hasher, p.Strategy, pins)
}

type viewParams struct {
	fx.In

	Orders repository.OrderRepository
	Prep   PrepTimer
	Config *config.Config
}

func newViewUseCase(p viewParams) *ViewUseCase {
	return NewViewUseCase(p.Orders, p.Prep, p.Config.ReadyBoardWindow)
}
