package repository

import (
	"context"

	"github.com/fadilmartias/atobs/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type NoteRepository struct {
	db *gorm.DB
}

func NewNoteRepository(db *gorm.DB) *NoteRepository {
	return &NoteRepository{db}
}

func (r *NoteRepository) Create(ctx context.Context, note *model.Note) error {
	return r.db.WithContext(ctx).Create(note).Error
}

func (r *NoteRepository) ListByApplication(ctx context.Context, applicationID uuid.UUID) ([]model.Note, error) {
	var notes []model.Note
	err := r.db.WithContext(ctx).
		Preload("Author").
		Where("application_id = ?", applicationID).
		Order("created_at DESC").
		Find(&notes).Error
	return notes, err
}

// DeleteByApplications is only used when the owning job is deleted.
func (r *NoteRepository) DeleteByApplications(ctx context.Context, applicationIDs []uuid.UUID) error {
	if len(applicationIDs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Where("application_id IN ?", applicationIDs).Delete(&model.Note{}).Error
}
