package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// KVRecord is the database row backing one persisted key
type KVRecord struct {
	Key       string         `gorm:"primaryKey;column:key"`
	Value     datatypes.JSON `gorm:"column:value"`
	UpdatedAt time.Time      `gorm:"column:updated_at"`
}

// TableName overrides the GORM table name
func (KVRecord) TableName() string {
	return "kv_records"
}

// PostgresStore persists values in a PostgreSQL key-value table. It backs
// the meeting store when the persistence backend is set to "postgres".
type PostgresStore struct {
	db *gorm.DB
}

// NewPostgresStore wraps a GORM connection as a KV backend
func NewPostgresStore(db *gorm.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Get retrieves the value for key. A missing row is not an error.
func (s *PostgresStore) Get(ctx context.Context, key string) ([]byte, bool, error) {
	var record KVRecord
	err := s.db.WithContext(ctx).First(&record, "key = ?", key).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("postgres get %q: %w", key, err)
	}
	return []byte(record.Value), true, nil
}

// Set upserts the value for key
func (s *PostgresStore) Set(ctx context.Context, key string, value []byte) error {
	record := KVRecord{
		Key:       key,
		Value:     datatypes.JSON(value),
		UpdatedAt: time.Now().UTC(),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&record).Error
	if err != nil {
		return fmt.Errorf("postgres set %q: %w", key, err)
	}
	return nil
}
