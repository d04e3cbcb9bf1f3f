package repository

import (
	"context"

	"github.com/fadilmartias/atobs/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ApplicationRepository struct {
	db *gorm.DB
}

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db}
}

// ApplicationFilter drives the recruiter list view. Zero values mean "any".
type ApplicationFilter struct {
	Stage       model.Stage
	RecruiterID *uuid.UUID
	VisaStatus  string
	JobID       *uuid.UUID
	IsProcessed *bool
	Search      string
	Page        int
	Limit       int
}

// StatsScope selects which applications feed a statistics computation.
type StatsScope struct {
	JobID       *uuid.UUID
	RecruiterID *uuid.UUID
}

func (r *ApplicationRepository) Create(ctx context.Context, app *model.Application) error {
	return r.db.WithContext(ctx).Create(app).Error
}

func (r *ApplicationRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).First(&app, "id = ?", id).Error
	return &app, err
}

// FindDetail loads an application with everything the profile view shows.
func (r *ApplicationRepository) FindDetail(ctx context.Context, id uuid.UUID) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).
		Preload("Candidate").
		Preload("Job").
		Preload("AssignedRecruiter").
		Preload("Notes", func(db *gorm.DB) *gorm.DB { return db.Order("created_at DESC") }).
		Preload("Notes.Author").
		Preload("Documents", func(db *gorm.DB) *gorm.DB { return db.Order("uploaded_at DESC") }).
		Preload("Documents.UploadedBy").
		First(&app, "id = ?", id).Error
	return &app, err
}

func (r *ApplicationRepository) FindByJobAndCandidate(ctx context.Context, jobID, candidateID uuid.UUID) (*model.Application, error) {
	var app model.Application
	err := r.db.WithContext(ctx).First(&app, "job_id = ? AND candidate_id = ?", jobID, candidateID).Error
	return &app, err
}

// UpdateFields writes the given columns; a nil value writes NULL.
func (r *ApplicationRepository) UpdateFields(ctx context.Context, id uuid.UUID, fields map[string]any) error {
	res := r.db.WithContext(ctx).Model(&model.Application{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *ApplicationRepository) List(ctx context.Context, f ApplicationFilter) ([]model.Application, int64, error) {
	var (
		apps  []model.Application
		total int64
	)

	q := r.db.WithContext(ctx).Model(&model.Application{})
	if f.Stage != "" {
		q = q.Where("applications.stage = ?", f.Stage)
	}
	if f.RecruiterID != nil {
		q = q.Where("applications.assigned_recruiter_id = ?", *f.RecruiterID)
	}
	if f.JobID != nil {
		q = q.Where("applications.job_id = ?", *f.JobID)
	}
	if f.IsProcessed != nil {
		q = q.Where("applications.is_processed = ?", *f.IsProcessed)
	}
	if f.VisaStatus != "" || f.Search != "" {
		q = q.Joins("JOIN candidates ON candidates.id = applications.candidate_id")
		if f.VisaStatus != "" {
			q = q.Where("candidates.visa_status = ?", f.VisaStatus)
		}
		if f.Search != "" {
			s := like(f.Search)
			q = q.Where(`(LOWER(candidates.first_name) LIKE ? ESCAPE '\' OR LOWER(candidates.last_name) LIKE ? ESCAPE '\'
				OR LOWER(candidates.email) LIKE ? ESCAPE '\' OR LOWER(candidates.current_employer) LIKE ? ESCAPE '\'
				OR LOWER(candidates.resume_text) LIKE ? ESCAPE '\')`, s, s, s, s, s)
		}
	}

	q = q.Session(&gorm.Session{})
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	if f.Limit > 0 {
		page := f.Page
		if page < 1 {
			page = 1
		}
		q = q.Offset((page - 1) * f.Limit).Limit(f.Limit)
	}

	err := q.
		Preload("Candidate").
		Preload("Job").
		Preload("AssignedRecruiter").
		Order("applications.applied_at DESC").
		Find(&apps).Error
	return apps, total, err
}

// ListForStats loads the columns statistics need, with the candidate's visa
// status and location attached.
func (r *ApplicationRepository) ListForStats(ctx context.Context, scope StatsScope) ([]model.Application, error) {
	var apps []model.Application

	q := r.db.WithContext(ctx).
		Select("id", "candidate_id", "stage", "is_processed", "applied_at").
		Preload("Candidate", func(db *gorm.DB) *gorm.DB {
			return db.Select("id", "visa_status", "location_state")
		})
	if scope.JobID != nil {
		q = q.Where("job_id = ?", *scope.JobID)
	}
	if scope.RecruiterID != nil {
		q = q.Where("assigned_recruiter_id = ?", *scope.RecruiterID)
	}

	err := q.Find(&apps).Error
	return apps, err
}

// StagesByJob returns stage and processed flag for every application of the
// given jobs, keyed by job id.
func (r *ApplicationRepository) StagesByJob(ctx context.Context, jobIDs []uuid.UUID) (map[uuid.UUID][]model.Application, error) {
	out := make(map[uuid.UUID][]model.Application, len(jobIDs))
	if len(jobIDs) == 0 {
		return out, nil
	}
	var apps []model.Application
	err := r.db.WithContext(ctx).
		Select("id", "job_id", "stage", "is_processed", "applied_at").
		Where("job_id IN ?", jobIDs).
		Find(&apps).Error
	if err != nil {
		return nil, err
	}
	for _, a := range apps {
		out[a.JobID] = append(out[a.JobID], a)
	}
	return out, nil
}

func (r *ApplicationRepository) IDsByJob(ctx context.Context, jobID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	err := r.db.WithContext(ctx).Model(&model.Application{}).Where("job_id = ?", jobID).Pluck("id", &ids).Error
	return ids, err
}

func (r *ApplicationRepository) DeleteByJob(ctx context.Context, jobID uuid.UUID) error {
	return r.db.WithContext(ctx).Where("job_id = ?", jobID).Delete(&model.Application{}).Error
}

// CountNotesAndDocuments returns per-application note and document counts.
func (r *ApplicationRepository) CountNotesAndDocuments(ctx context.Context, ids []uuid.UUID) (notes, docs map[uuid.UUID]int64, err error) {
	notes = make(map[uuid.UUID]int64)
	docs = make(map[uuid.UUID]int64)
	if len(ids) == 0 {
		return notes, docs, nil
	}

	var rows []struct {
		ApplicationID uuid.UUID
		Count         int64
	}
	if err = r.db.WithContext(ctx).Model(&model.Note{}).
		Select("application_id, COUNT(*) AS count").
		Where("application_id IN ?", ids).
		Group("application_id").
		Scan(&rows).Error; err != nil {
		return nil, nil, err
	}
	for _, row := range rows {
		notes[row.ApplicationID] = row.Count
	}

	rows = rows[:0]
	if err = r.db.WithContext(ctx).Model(&model.Document{}).
		Select("application_id, COUNT(*) AS count").
		Where("application_id IN ?", ids).
		Group("application_id").
		Scan(&rows).Error; err != nil {
		return nil, nil, err
	}
	for _, row := range rows {
		docs[row.ApplicationID] = row.Count
	}
	return notes, docs, nil
}
