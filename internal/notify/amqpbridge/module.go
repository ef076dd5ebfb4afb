package amqpbridge

import (
	"context"
	"log/slog"

	"go.uber.org/fx"

	"github.com/callenovena/comanda/internal/config"
	"github.com/callenovena/comanda/internal/notify"
)

// Module starts the broker bridge when an AMQP URL is configured. Without
// one the service runs with in-process fan-out only.
var Module = fx.Invoke(register)

type bridgeParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Config    *config.Config
	Hub       *notify.Hub
	Logger    *slog.Logger
}

func register(p bridgeParams) {
	if p.Config.AMQPURL == "" {
		return
	}

	var bridge *Bridge
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(context.Context) error {
			b, err := Dial(p.Config.AMQPURL, p.Hub, p.Logger)
			if err != nil {
				return err
			}
			bridge = b
			bridge.Start()
			p.Logger.Info("amqp bridge started", slog.String("exchange", Exchange))
			return nil
		},
		OnStop: func(context.Context) error {
			if bridge != nil {
				bridge.Stop()
			}
			return nil
		},
	})
}
