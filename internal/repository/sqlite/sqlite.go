// Package sqlite implements the slot and exchange stores on SQLite using GORM.
package sqlite

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/Freeeeeet/slot_swapper/internal/clock"
	"github.com/Freeeeeet/slot_swapper/internal/model"
)

// slotRow строка таблицы slots
type slotRow struct {
	ID        string    `gorm:"primaryKey"`
	Title     string    `gorm:"not null"`
	StartTime time.Time `gorm:"not null;index:idx_slots_owner,priority:2"`
	EndTime   time.Time `gorm:"not null"`
	OwnerID   string    `gorm:"not null;index:idx_slots_owner,priority:1"`
	Status    string    `gorm:"not null;index"`
	Version   int64     `gorm:"not null"`
	CreatedAt time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt time.Time `gorm:"autoUpdateTime:false"`
}

func (slotRow) TableName() string { return "slots" }

// exchangeRow строка таблицы exchange_requests
type exchangeRow struct {
	ID          string    `gorm:"primaryKey"`
	RequesterID string    `gorm:"not null;index"`
	ReceiverID  string    `gorm:"not null;index"`
	MySlotID    string    `gorm:"not null"`
	TheirSlotID string    `gorm:"not null"`
	Status      string    `gorm:"not null;index"`
	Version     int64     `gorm:"not null"`
	CreatedAt   time.Time `gorm:"autoCreateTime:false"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime:false"`
}

func (exchangeRow) TableName() string { return "exchange_requests" }

// Слот может участвовать не более чем в одной ожидающей заявке с каждой стороны
var pendingIndexes = []string{
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_exchange_requests_pending_my_slot
		ON exchange_requests (my_slot_id) WHERE status = 'PENDING'`,
	`CREATE UNIQUE INDEX IF NOT EXISTS ux_exchange_requests_pending_their_slot
		ON exchange_requests (their_slot_id) WHERE status = 'PENDING'`,
}

// DB открытая база SQLite со схемой
type DB struct {
	db    *gorm.DB
	clock clock.Clock
}

// Open открывает (создаёт) базу по пути path и приводит схему в актуальное состояние
func Open(ctx context.Context, path string, clk clock.Clock) (*DB, error) {
	if path == "" {
		return nil, fmt.Errorf("sqlite path is required")
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path+"?_busy_timeout=5000&_journal_mode=WAL"), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	// SQLite допускает одного писателя: все операции идут через одно соединение
	sqlDB.SetMaxOpenConns(1)

	if err := db.WithContext(ctx).AutoMigrate(&slotRow{}, &exchangeRow{}); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	for _, stmt := range pendingIndexes {
		if err := db.WithContext(ctx).Exec(stmt).Error; err != nil {
			_ = sqlDB.Close()
			return nil, fmt.Errorf("create index: %w", err)
		}
	}

	return &DB{db: db, clock: clk}, nil
}

// Close закрывает соединение с базой
func (d *DB) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Ping проверяет соединение
func (d *DB) Ping(ctx context.Context) error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// Slots возвращает хранилище слотов поверх базы
func (d *DB) Slots() *SlotRepository {
	return &SlotRepository{db: d.db, clock: d.clock}
}

// Exchanges возвращает хранилище заявок поверх базы
func (d *DB) Exchanges() *ExchangeRepository {
	return &ExchangeRepository{db: d.db, clock: d.clock}
}

func notFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

func toSlot(row slotRow) (*model.Slot, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("parse slot id %q: %w", row.ID, err)
	}
	return &model.Slot{
		ID:        id,
		Title:     row.Title,
		StartTime: row.StartTime.UTC(),
		EndTime:   row.EndTime.UTC(),
		OwnerID:   row.OwnerID,
		Status:    model.SlotStatus(row.Status),
		Version:   row.Version,
		CreatedAt: row.CreatedAt.UTC(),
		UpdatedAt: row.UpdatedAt.UTC(),
	}, nil
}

func toExchange(row exchangeRow) (*model.ExchangeRequest, error) {
	id, err := uuid.Parse(row.ID)
	if err != nil {
		return nil, fmt.Errorf("parse exchange id %q: %w", row.ID, err)
	}
	mySlot, err := uuid.Parse(row.MySlotID)
	if err != nil {
		return nil, fmt.Errorf("parse my slot id %q: %w", row.MySlotID, err)
	}
	theirSlot, err := uuid.Parse(row.TheirSlotID)
	if err != nil {
		return nil, fmt.Errorf("parse their slot id %q: %w", row.TheirSlotID, err)
	}
	return &model.ExchangeRequest{
		ID:          id,
		RequesterID: row.RequesterID,
		ReceiverID:  row.ReceiverID,
		MySlotID:    mySlot,
		TheirSlotID: theirSlot,
		Status:      model.ExchangeStatus(row.Status),
		Version:     row.Version,
		CreatedAt:   row.CreatedAt.UTC(),
		UpdatedAt:   row.UpdatedAt.UTC(),
	}, nil
}
