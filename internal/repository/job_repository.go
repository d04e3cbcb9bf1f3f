package repository

import (
	"context"
	"strings"

	"github.com/fadilmartias/atobs/internal/model"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type JobRepository struct {
	db *gorm.DB
}

func NewJobRepository(db *gorm.DB) *JobRepository {
	return &JobRepository{db}
}

// PublicJobFilter narrows the public job board.
type PublicJobFilter struct {
	Location  string
	JobType   string
	Sponsored bool
	Search    string
}

// JobFilter narrows the internal job list.
type JobFilter struct {
	Status      string
	Search      string
	RecruiterID *uuid.UUID
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// like turns user input into a case-insensitive contains pattern. Clauses
// using it must declare ESCAPE '\'.
func like(s string) string {
	return "%" + likeEscaper.Replace(strings.ToLower(strings.TrimSpace(s))) + "%"
}

// SearchPublished returns open, published jobs newest first.
func (r *JobRepository) SearchPublished(ctx context.Context, f PublicJobFilter) ([]model.Job, error) {
	var jobs []model.Job

	q := r.db.WithContext(ctx).Where("is_published = ? AND status = ?", true, model.JobStatusOpen)
	if f.Location != "" {
		l := like(f.Location)
		q = q.Where(`(LOWER(location_city) LIKE ? ESCAPE '\' OR LOWER(location_state) LIKE ? ESCAPE '\')`, l, l)
	}
	if f.JobType != "" {
		q = q.Where("job_type = ?", f.JobType)
	}
	if f.Sponsored {
		q = q.Where("visa_sponsorship = ?", true)
	}
	if f.Search != "" {
		s := like(f.Search)
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(public_title) LIKE ? ESCAPE '\'
			OR LOWER(public_description) LIKE ? ESCAPE '\' OR LOWER(prerequisites) LIKE ? ESCAPE '\')`, s, s, s, s)
	}

	err := q.Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *JobRepository) List(ctx context.Context, f JobFilter) ([]model.Job, error) {
	var jobs []model.Job

	q := r.db.WithContext(ctx).Preload("CreatedBy").Preload("AssignedRecruiter")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.RecruiterID != nil {
		q = q.Where("assigned_recruiter_id = ?", *f.RecruiterID)
	}
	if f.Search != "" {
		s := like(f.Search)
		q = q.Where(`(LOWER(title) LIKE ? ESCAPE '\' OR LOWER(department) LIKE ? ESCAPE '\')`, s, s)
	}

	err := q.Order("created_at DESC").Find(&jobs).Error
	return jobs, err
}

func (r *JobRepository) CreateJob(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Create(job).Error
}

// UpdateJob writes every column of job. Preloaded associations are not
// saved back.
func (r *JobRepository) UpdateJob(ctx context.Context, job *model.Job) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Save(job).Error
}

func (r *JobRepository) FindJobByID(ctx context.Context, id uuid.UUID) (*model.Job, error) {
	var j model.Job
	err := r.db.WithContext(ctx).Preload("CreatedBy").Preload("AssignedRecruiter").First(&j, "id = ?", id).Error
	return &j, err
}

func (r *JobRepository) DeleteJob(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Delete(&model.Job{}, "id = ?", id).Error
}

// CountByStatus returns job counts keyed by status.
func (r *JobRepository) CountByStatus(ctx context.Context) (map[model.JobStatus]int64, error) {
	var rows []struct {
		Status model.JobStatus
		Count  int64
	}
	err := r.db.WithContext(ctx).Model(&model.Job{}).
		Select("status, COUNT(*) AS count").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[model.JobStatus]int64, len(rows))
	for _, row := range rows {
		counts[row.Status] = row.Count
	}
	return counts, nil
}
