package repository

import (
	"context"

	"github.com/fadilmartias/atobs/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type CandidateRepository struct {
	db *gorm.DB
}

func NewCandidateRepository(db *gorm.DB) *CandidateRepository {
	return &CandidateRepository{db}
}

func (r *CandidateRepository) Create(ctx context.Context, c *model.Candidate) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CandidateRepository) Save(ctx context.Context, c *model.Candidate) error {
	return r.db.WithContext(ctx).Save(c).Error
}

func (r *CandidateRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Candidate, error) {
	var c model.Candidate
	err := r.db.WithContext(ctx).First(&c, "id = ?", id).Error
	return &c, err
}

func (r *CandidateRepository) FindByEmail(ctx context.Context, email string) (*model.Candidate, error) {
	var c model.Candidate
	err := r.db.WithContext(ctx).First(&c, "email = ?", email).Error
	return &c, err
}

func (r *CandidateRepository) SetResumeText(ctx context.Context, id uuid.UUID, text string) error {
	return r.db.WithContext(ctx).Model(&model.Candidate{}).Where("id = ?", id).Update("resume_text", text).Error
}

func (r *CandidateRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Candidate{}).Count(&n).Error
	return n, err
}
