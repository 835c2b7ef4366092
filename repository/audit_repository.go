package repository

import (
	"context"
	"fmt"

	"github.com/example/product-catalog/models"
	"gorm.io/gorm"
)

// AuditRepository persists audit entries with gorm
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new AuditRepository
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// Create inserts an audit entry
func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	result := r.db.WithContext(ctx).Create(entry)
	if result.Error != nil {
		return fmt.Errorf("create audit log: %w", result.Error)
	}
	return nil
}

// Find retrieves one page of audit entries matching the filter, newest first
func (r *AuditRepository) Find(ctx context.Context, filter models.AuditFilter, page models.PageRequest) (models.AuditPage, error) {
	page = page.Normalize()
	query := r.db.WithContext(ctx).Model(&models.AuditLog{})
	if filter.EntityType != "" {
		query = query.Where("entity_type = ?", filter.EntityType)
	}
	if filter.EntityID != "" {
		query = query.Where("entity_id = ?", filter.EntityID)
	}
	if filter.Username != "" {
		query = query.Where("username = ?", filter.Username)
	}
	if filter.Action != "" {
		query = query.Where("action = ?", filter.Action)
	}
	query = query.Session(&gorm.Session{})

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return models.AuditPage{}, fmt.Errorf("count audit logs: %w", err)
	}

	var entries []models.AuditLog
	result := query.
		Order("created_at DESC").
		Order("id").
		Offset(page.Offset()).
		Limit(page.Size).
		Find(&entries)
	if result.Error != nil {
		return models.AuditPage{}, fmt.Errorf("list audit logs: %w", result.Error)
	}

	return models.AuditPage{
		Entries: entries,
		Number:  page.Page,
		Size:    page.Size,
		Total:   total,
	}, nil
}
