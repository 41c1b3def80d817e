package services

import (
	"context"
	"fmt"

	"github.com/Conceptual-Machines/melodycraft-api/internal/models"
	"gorm.io/gorm"
)

// UsageStore persists one row per generation
type UsageStore interface {
	Record(ctx context.Context, entry *models.GenerationLog) error
}

// NewUsageStore returns a gorm-backed store, or a no-op store when db is nil
func NewUsageStore(db *gorm.DB) UsageStore {
	if db == nil {
		return nopUsageStore{}
	}
	return &GormUsageStore{db: db}
}

type GormUsageStore struct {
	db *gorm.DB
}

func (s *GormUsageStore) Record(ctx context.Context, entry *models.GenerationLog) error {
	if err := s.db.WithContext(ctx).Create(entry).Error; err != nil {
		return fmt.Errorf("failed to record generation: %w", err)
	}
	return nil
}

// Recent returns the newest log rows first
func (s *GormUsageStore) Recent(ctx context.Context, limit int) ([]models.GenerationLog, error) {
	var logs []models.GenerationLog
	err := s.db.WithContext(ctx).Order("id DESC").Limit(limit).Find(&logs).Error
	return logs, err
}

type nopUsageStore struct{}

func (nopUsageStore) Record(context.Context, *models.GenerationLog) error { return nil }
