package app

import (
	"context"
	"fmt"

	"github.com/Freeeeeet/slot_swapper/internal/clock"
	"github.com/Freeeeeet/slot_swapper/internal/config"
	"github.com/Freeeeeet/slot_swapper/internal/repository"
	"github.com/Freeeeeet/slot_swapper/internal/repository/memory"
	"github.com/Freeeeeet/slot_swapper/internal/repository/sqlite"
	"github.com/Freeeeeet/slot_swapper/internal/service"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// Storage хранилища выбранного драйвера
type Storage struct {
	Slots     service.SlotStore
	Exchanges service.ExchangeStore

	ping  func(ctx context.Context) error
	close func()
}

// Ping проверяет доступность хранилища
func (s *Storage) Ping(ctx context.Context) error {
	if s.ping == nil {
		return nil
	}
	return s.ping(ctx)
}

// Close освобождает соединения
func (s *Storage) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenStorage открывает хранилище по STORAGE_DRIVER. Для postgres
// при migrate=true перед стартом применяются миграции.
func OpenStorage(ctx context.Context, cfg *config.Config, clk clock.Clock, migrate bool, logger *zap.Logger) (*Storage, error) {
	switch cfg.StorageDriver {
	case config.DriverPostgres:
		pool, err := OpenPool(ctx, cfg.DBDSN)
		if err != nil {
			return nil, err
		}
		if migrate {
			mg := NewMigrator(pool, cfg.MigrationsPath, logger)
			err := mg.Run(ctx)
			_ = mg.Close()
			if err != nil {
				pool.Close()
				return nil, err
			}
		}
		logger.Info("Connected to PostgreSQL")
		return &Storage{
			Slots:     repository.NewSlotRepository(pool),
			Exchanges: repository.NewExchangeRepository(pool),
			ping:      pool.Ping,
			close:     pool.Close,
		}, nil

	case config.DriverSQLite:
		db, err := sqlite.Open(ctx, cfg.SQLitePath, clk)
		if err != nil {
			return nil, err
		}
		logger.Info("Opened SQLite database", zap.String("path", cfg.SQLitePath))
		return &Storage{
			Slots:     db.Slots(),
			Exchanges: db.Exchanges(),
			ping:      db.Ping,
			close: func() {
				if err := db.Close(); err != nil {
					logger.Error("Failed to close SQLite database", zap.Error(err))
				}
			},
		}, nil

	case config.DriverMemory:
		logger.Warn("Using in-memory storage, data is lost on restart")
		return &Storage{
			Slots:     memory.NewSlotRepository(clk),
			Exchanges: memory.NewExchangeRepository(clk),
		}, nil
	}

	return nil, fmt.Errorf("unknown storage driver %q", cfg.StorageDriver)
}

// OpenPool подключается к PostgreSQL и проверяет соединение
func OpenPool(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return pool, nil
}
