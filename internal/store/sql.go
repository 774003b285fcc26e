package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	gormlogger "gorm.io/gorm/logger"
)

// kvEntry is one collection blob. The JSON document is stored verbatim so the
// SQL backends hold exactly the bytes the file backend would.
type kvEntry struct {
	Collection string    `gorm:"primaryKey;size:64"`
	Value      string    `gorm:"type:text;not null"`
	UpdatedAt  time.Time `gorm:"not null"`
}

func (kvEntry) TableName() string { return "kv_entries" }

// SQLBackend stores blobs in a single kv_entries table through gorm.
type SQLBackend struct {
	db *gorm.DB
}

// NewSQLBackend opens dialector and migrates the kv_entries table.
func NewSQLBackend(dialector gorm.Dialector) (*SQLBackend, error) {
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.AutoMigrate(&kvEntry{}); err != nil {
		return nil, fmt.Errorf("migrate kv_entries: %w", err)
	}
	return &SQLBackend{db: db}, nil
}

// OpenSQLite opens (and creates) a sqlite database file. Use ":memory:" for
// a private in-memory database.
func OpenSQLite(path string) (*SQLBackend, error) {
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create database dir: %w", err)
		}
	}
	return NewSQLBackend(sqlite.Open(path))
}

// OpenPostgres connects to a postgres database.
func OpenPostgres(dsn string) (*SQLBackend, error) {
	return NewSQLBackend(postgres.Open(dsn))
}

func (s *SQLBackend) Get(ctx context.Context, key string) ([]byte, error) {
	var entry kvEntry
	err := s.db.WithContext(ctx).First(&entry, "collection = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", key, err)
	}
	return []byte(entry.Value), nil
}

func (s *SQLBackend) Set(ctx context.Context, key string, value []byte) error {
	entry := kvEntry{
		Collection: key,
		Value:      string(value),
		UpdatedAt:  time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "collection"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
	if err != nil {
		return fmt.Errorf("upsert %s: %w", key, err)
	}
	return nil
}

func (s *SQLBackend) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
