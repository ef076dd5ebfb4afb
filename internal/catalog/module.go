package catalog

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/callenovena/comanda/internal/config"
	"github.com/callenovena/comanda/internal/usecase"
)

// Module wires the menu catalog and binds it as the prep time source for
// the view projector.
var Module = fx.Options(
	fx.Provide(newCatalog),
	fx.Provide(func(c *Catalog) usecase.PrepTimer { return c }),
)

type catalogParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newCatalog(p catalogParams) *Catalog {
	return Load(p.Config.MenuCSVPath, p.Config.PromotionsPath, p.Logger)
}
