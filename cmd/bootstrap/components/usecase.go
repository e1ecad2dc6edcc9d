package components

import (
	"log/slog"

	"library-circulation/internal/domain/circulation"
	"library-circulation/internal/pkg/clock"
	"library-circulation/internal/pkg/config"
	"library-circulation/internal/usecase"
	"library-circulation/internal/usecase/commands"
	"library-circulation/internal/usecase/queries"
	"library-circulation/internal/usecase/shared"

	"go.uber.org/fx"
)

var UseCaseModule = fx.Module("usecase",
	usecaseBaseOption,
	usecaseQueriesModule,
	usecaseValidatorsModule,
	usecaseCommandsModule,
)

var usecaseBaseOption = fx.Provide(
	clock.NewRealClock,
	NewFineCalculator,
	func(cfg config.Config, fines *circulation.FineCalculator) circulation.Policy {
		return circulation.Policy{
			LoanPeriodDays: cfg.Circulation.LoanPeriodDays,
			Fines:          fines,
		}
	},
)

var usecaseCommandsModule = fx.Module("usecase/commands",
	fx.Provide(
		commands.NewStockLedger,
		commands.NewCirculationUseCase,
		fx.Annotate(
			NewSweeper,
			fx.As(new(commands.ExpirySweeper)),
		),
	),
)

var usecaseQueriesModule = fx.Module("usecase/queries",
	fx.Provide(
		queries.NewCirculationQueries,
	),
)

var usecaseValidatorsModule = fx.Module("usecase/validators",
	fx.Provide(
		usecase.NewTokenValidator,
	),
)

func NewFineCalculator(cfg config.Config, clk clock.Clock) (*circulation.FineCalculator, error) {
	loc, err := cfg.Circulation.Location()
	if err != nil {
		return nil, err
	}
	return circulation.NewFineCalculator(loc, clk), nil
}

func NewSweeper(uow shared.UnitOfWork, clk clock.Clock, logger *slog.Logger, cfg config.Config) *commands.Sweeper {
	return commands.NewSweeper(uow, clk, logger, cfg.Circulation.SweepBatchSize)
}
