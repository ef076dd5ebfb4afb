package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/callenovena/comanda/internal/config"
)

// Module wires the in-process fan-out hub.
var Module = fx.Provide(newHub)

type hubParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newHub(p hubParams) *Hub {
	return NewHub(p.Config.SubscriberBuffer, p.Logger)
}
