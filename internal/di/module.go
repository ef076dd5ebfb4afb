package di

import (
	"go.uber.org/fx"

	"github.com/callenovena/comanda/internal/app"
	"github.com/callenovena/comanda/internal/catalog"
	"github.com/callenovena/comanda/internal/config"
	"github.com/callenovena/comanda/internal/logger"
	"github.com/callenovena/comanda/internal/notify"
	"github.com/callenovena/comanda/internal/notify/amqpbridge"
	"github.com/callenovena/comanda/internal/pkg/auth"
	"github.com/callenovena/comanda/internal/server/http/handlers"
	"github.com/callenovena/comanda/internal/server/http/router"
	"github.com/callenovena/comanda/internal/storage/postgres"
	"github.com/callenovena/comanda/internal/usecase"
)

func Module(opts ...fx.Option) fx.Option {
	modules := []fx.Option{
		config.Module,
		logger.Module,
		auth.Module,
		postgres.Module,
		catalog.Module,
		notify.Module,
		usecase.Module,
		fx.Provide(func(facade *app.ComandaFacade) handlers.ComandaFacade { return facade }),
		router.Module,
		app.Module,
		amqpbridge.Module,
	}
	modules = append(modules, opts...)
	return fx.Options(modules...)
}
