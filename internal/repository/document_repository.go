package repository

import (
	"context"

	"github.com/fadilmartias/atobs/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type DocumentRepository struct {
	db *gorm.DB
}

func NewDocumentRepository(db *gorm.DB) *DocumentRepository {
	return &DocumentRepository{db}
}

func (r *DocumentRepository) Create(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *DocumentRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Document, error) {
	var d model.Document
	err := r.db.WithContext(ctx).First(&d, "id = ?", id).Error
	return &d, err
}

func (r *DocumentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Document{}, "id = ?", id).Error
}

func (r *DocumentRepository) ListByApplications(ctx context.Context, applicationIDs []uuid.UUID) ([]model.Document, error) {
	var docs []model.Document
	if len(applicationIDs) == 0 {
		return docs, nil
	}
	err := r.db.WithContext(ctx).Where("application_id IN ?", applicationIDs).Find(&docs).Error
	return docs, err
}

func (r *DocumentRepository) DeleteByApplications(ctx context.Context, applicationIDs []uuid.UUID) error {
	if len(applicationIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("application_id IN ?", applicationIDs).Delete(&model.Document{}).Error
}
