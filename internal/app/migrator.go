package app

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Freeeeeet/slot_swapper/migrations"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jackc/pgx/v5/stdlib"
	"go.uber.org/zap"
)

// Migrator обёртка над goose
type Migrator struct {
	db             *sql.DB
	migrationsPath string
	logger         *zap.Logger
}

// NewMigrator создаёт мигратор поверх пула. Пустой migrationsPath
// означает встроенные в бинарник миграции.
func NewMigrator(pool *pgxpool.Pool, migrationsPath string, logger *zap.Logger) *Migrator {
	// Goose работает с *sql.DB, поэтому создаём его из пула
	return &Migrator{
		db:             stdlib.OpenDBFromPool(pool),
		migrationsPath: migrationsPath,
		logger:         logger,
	}
}

// Run применяет все pending миграции
func (mg *Migrator) Run(ctx context.Context) error {
	mg.logger.Info("Applying database migrations", zap.String("path", mg.source()))

	if err := migrations.Up(ctx, mg.db, mg.migrationsPath); err != nil {
		return err
	}

	version, err := mg.Version(ctx)
	if err != nil {
		return err
	}
	mg.logger.Info("Migrations applied", zap.Int64("version", version))
	return nil
}

// Version показывает текущую версию миграций
func (mg *Migrator) Version(ctx context.Context) (int64, error) {
	version, err := migrations.Version(ctx, mg.db, mg.migrationsPath)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}

// Close закрывает sql.DB мигратора, но не пул
func (mg *Migrator) Close() error {
	return mg.db.Close()
}

func (mg *Migrator) source() string {
	if mg.migrationsPath == "" {
		return "embedded"
	}
	return mg.migrationsPath
}
