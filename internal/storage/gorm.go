package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/allease/allease-core/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormStore persists document payloads to the database via GORM.
type GormStore struct {
	db *gorm.DB
}

// NewGormStore constructs a GormStore.
func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Read loads the payload stored under key.
func (s *GormStore) Read(ctx context.Context, key string) ([]byte, bool, error) {
	if s == nil || s.db == nil {
		return nil, false, fmt.Errorf("gorm store: not initialized")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, false, fmt.Errorf("gorm store: missing key")
	}

	var row models.Document
	if errFind := s.db.WithContext(ctx).Where("key = ?", key).First(&row).Error; errFind != nil {
		if errors.Is(errFind, gorm.ErrRecordNotFound) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("gorm store: read %s: %w", key, errFind)
	}
	if len(row.Content) == 0 {
		return nil, false, nil
	}
	return []byte(row.Content), true, nil
}

// Write upserts the payload stored under key.
func (s *GormStore) Write(ctx context.Context, key string, data []byte) error {
	if s == nil || s.db == nil {
		return fmt.Errorf("gorm store: not initialized")
	}
	key = strings.TrimSpace(key)
	if key == "" {
		return fmt.Errorf("gorm store: missing key")
	}

	now := time.Now().UTC()
	record := models.Document{
		Key:       key,
		Content:   datatypes.JSON(data),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"content", "updated_at"}),
	}).Create(&record).Error; err != nil {
		return fmt.Errorf("gorm store: upsert %s: %w", key, err)
	}
	return nil
}
