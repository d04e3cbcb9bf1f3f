package repository

import (
	"context"

	"github.com/fadilmartias/atobs/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AuditLogRepository only appends and reads; there is no update or delete.
type AuditLogRepository struct {
	db *gorm.DB
}

func NewAuditLogRepository(db *gorm.DB) *AuditLogRepository {
	return &AuditLogRepository{db}
}

func (r *AuditLogRepository) Create(ctx context.Context, entry *model.AuditLog) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

// ListByEntity returns the newest entries first; limit <= 0 means all.
func (r *AuditLogRepository) ListByEntity(ctx context.Context, entityType string, entityID uuid.UUID, limit int) ([]model.AuditLog, error) {
	var logs []model.AuditLog
	q := r.db.WithContext(ctx).
		Preload("PerformedBy").
		Where("entity_type = ? AND entity_id = ?", entityType, entityID).
		Order("created_at DESC")
	if limit > 0 {
		q = q.Limit(limit)
	}
	err := q.Find(&logs).Error
	return logs, err
}
