package components

import (
	"library-circulation/internal/handler"
	"library-circulation/internal/handler/api"
	"library-circulation/internal/handler/middleware"
	"library-circulation/internal/pkg/clock"
	"library-circulation/internal/pkg/config"
	"library-circulation/internal/usecase/commands"

	"go.uber.org/fx"
)

var HandlerModule = fx.Module("handler",
	fx.Provide(
		api.NewCirculationHandler,
		api.NewTitleHandler,
		api.NewFineHandler,
		func(sweeper commands.ExpirySweeper, clk clock.Clock, cfg config.Config) *api.SweepHandler {
			return api.NewSweepHandler(sweeper, clk, cfg.Circulation.ExpiryThreshold)
		},
		NewHandlers,
		middleware.NewAuthMiddleware,
	),
	fx.Invoke(handler.NewRouter),
)

type handlerParams struct {
	fx.In

	Circulation *api.CirculationHandler
	Title       *api.TitleHandler
	Fine        *api.FineHandler
	Sweep       *api.SweepHandler
}

func NewHandlers(p handlerParams) handler.Handlers {
	return handler.Handlers{
		Circulation: p.Circulation,
		Title:       p.Title,
		Fine:        p.Fine,
		Sweep:       p.Sweep,
	}
}
