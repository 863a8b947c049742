// Package migrations содержит SQL-миграции схемы PostgreSQL для goose.
package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"

	"github.com/pressly/goose/v3"
)

//go:embed *.sql
var files embed.FS

// FS возвращает встроенные миграции или каталог dir, если он задан
func FS(dir string) fs.FS {
	if dir != "" {
		return os.DirFS(dir)
	}
	return files
}

// Up применяет все непримененные миграции
func Up(ctx context.Context, db *sql.DB, dir string) error {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, FS(dir))
	if err != nil {
		return fmt.Errorf("create goose provider: %w", err)
	}
	if _, err := provider.Up(ctx); err != nil {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}

// Version возвращает текущую версию схемы
func Version(ctx context.Context, db *sql.DB, dir string) (int64, error) {
	provider, err := goose.NewProvider(goose.DialectPostgres, db, FS(dir))
	if err != nil {
		return 0, fmt.Errorf("create goose provider: %w", err)
	}
	version, err := provider.GetDBVersion(ctx)
	if err != nil {
		return 0, fmt.Errorf("get version: %w", err)
	}
	return version, nil
}
