package components

import (
	"context"
	"fmt"
	"log/slog"

	"library-circulation/internal/infra/db"
	"library-circulation/internal/infra/memstore"
	"library-circulation/internal/infra/readstore"
	"library-circulation/internal/infra/uow"
	"library-circulation/internal/pkg/config"
	"library-circulation/internal/usecase/queries"
	"library-circulation/internal/usecase/shared"

	"github.com/google/uuid"
	"go.uber.org/fx"
)

var PersistenceModule = fx.Module("persistence",
	fx.Provide(
		NewStorage,
	),
)

// Storage is the write and read side of one storage driver.
type Storage struct {
	fx.Out

	UnitOfWork shared.UnitOfWork
	ReadStore  queries.CirculationReadStore
}

func NewStorage(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (Storage, error) {
	switch cfg.Circulation.StorageDriver {
	case config.StorageDriverMemory:
		return newMemoryStorage(cfg, logger)
	default:
		return newPostgresStorage(lc, cfg, logger)
	}
}

func newPostgresStorage(lc fx.Lifecycle, cfg config.Config, logger *slog.Logger) (Storage, error) {
	pool, closePool, err := db.Connect(cfg.DB)
	if err != nil {
		return Storage{}, err
	}
	reader, closeReader, err := db.ConnectReader(cfg.DB)
	if err != nil {
		closePool()
		return Storage{}, err
	}

	lc.Append(fx.Hook{
		OnStop: func(_ context.Context) error {
			closeReader()
			closePool()
			return nil
		},
	})

	logger.Info("Storage ready", "driver", config.StorageDriverPostgres, "host", cfg.DB.Host, "database", cfg.DB.DBName)
	return Storage{
		UnitOfWork: uow.NewPostgresUoW(pool, cfg, logger),
		ReadStore:  readstore.NewCirculationReadStore(reader, cfg.Circulation.StorageTimeout),
	}, nil
}

func newMemoryStorage(cfg config.Config, logger *slog.Logger) (Storage, error) {
	store := memstore.New()
	for rawID, copies := range cfg.Circulation.MemoryTitles {
		id, err := uuid.Parse(rawID)
		if err != nil {
			return Storage{}, fmt.Errorf("invalid MEMORY_TITLES id %q: %w", rawID, err)
		}
		if copies < 0 {
			return Storage{}, fmt.Errorf("invalid MEMORY_TITLES copies for %s: %d", id, copies)
		}
		store.PutTitle(id, copies)
	}

	logger.Warn("Storage is in process memory; state is lost on restart",
		"driver", config.StorageDriverMemory,
		"titles", len(cfg.Circulation.MemoryTitles))
	return Storage{UnitOfWork: store, ReadStore: store}, nil
}
