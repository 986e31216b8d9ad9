package db

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/balkashynov/taskman/internal/models"
	"github.com/balkashynov/taskman/internal/storage"
)

// KVStore implements storage.KV on top of the kv_entries table
type KVStore struct {
	db *gorm.DB
}

// NewKVStore creates a KV store over an opened database
func NewKVStore(db *gorm.DB) *KVStore {
	return &KVStore{db: db}
}

func (s *KVStore) Get(ctx context.Context, key string) (string, error) {
	var entry models.KVEntry
	err := s.db.WithContext(ctx).First(&entry, "key = ?", key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return "", storage.ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return entry.Value, nil
}

func (s *KVStore) Set(ctx context.Context, key, value string) error {
	entry := models.KVEntry{Key: key, Value: value, UpdatedAt: time.Now()}
	return s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(&entry).Error
}

func (s *KVStore) Delete(ctx context.Context, key string) error {
	return s.db.WithContext(ctx).Delete(&models.KVEntry{}, "key = ?", key).Error
}
