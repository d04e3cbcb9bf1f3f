package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fadilmartias/atobs/internal/apperror"
	"github.com/fadilmartias/atobs/internal/dto"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/repository"
	"github.com/fadilmartias/atobs/internal/service"
	"github.com/google/uuid"
)

type JobWithStats struct {
	model.Job
	Stats Stats `json:"stats"`
}

type JobDetail struct {
	Job          *model.Job            `json:"job"`
	Stats        Stats                 `json:"stats"`
	Applications []ApplicationListItem `json:"applications"`
}

// JobDetailFilter selects which applications the job detail lists. Tab is
// "unprocessed", "processed" or empty for all.
type JobDetailFilter struct {
	Tab   string
	Stage string
}

type JobUsecase struct {
	store   *repository.Store
	storage service.StorageServiceInterface
	audit   *service.AuditService
	now     func() time.Time
}

func NewJobUsecase(store *repository.Store, storage service.StorageServiceInterface, audit *service.AuditService) *JobUsecase {
	return &JobUsecase{store: store, storage: storage, audit: audit, now: time.Now}
}

func (uc *JobUsecase) ListPublic(ctx context.Context, f repository.PublicJobFilter) ([]dto.PublicJobDTO, error) {
	jobs, err := uc.store.Jobs.SearchPublished(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.PublicJobDTO, len(jobs))
	for i := range jobs {
		out[i] = dto.NewPublicJobDTO(&jobs[i], false)
	}
	return out, nil
}

// GetPublic returns a job only while it is published and open.
func (uc *JobUsecase) GetPublic(ctx context.Context, id uuid.UUID) (*dto.PublicJobDTO, error) {
	job, err := uc.store.Jobs.FindJobByID(ctx, id)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}
	if err != nil || !job.AcceptsApplications() {
		return nil, apperror.NotFound("Job not found")
	}
	out := dto.NewPublicJobDTO(job, true)
	return &out, nil
}

func (uc *JobUsecase) List(ctx context.Context, f repository.JobFilter) ([]JobWithStats, error) {
	jobs, err := uc.store.Jobs.List(ctx, f)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, len(jobs))
	for i, j := range jobs {
		ids[i] = j.ID
	}
	byJob, err := uc.store.Applications.StagesByJob(ctx, ids)
	if err != nil {
		return nil, err
	}

	out := make([]JobWithStats, len(jobs))
	for i, j := range jobs {
		out[i] = JobWithStats{Job: j, Stats: ComputeStats(byJob[j.ID])}
	}
	return out, nil
}

func (uc *JobUsecase) Get(ctx context.Context, id uuid.UUID, f JobDetailFilter) (*JobDetail, error) {
	job, err := uc.store.Jobs.FindJobByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Job not found")
	}

	byJob, err := uc.store.Applications.StagesByJob(ctx, []uuid.UUID{id})
	if err != nil {
		return nil, err
	}

	filter := repository.ApplicationFilter{JobID: &id, Stage: model.Stage(f.Stage)}
	switch f.Tab {
	case "unprocessed":
		processed := false
		filter.IsProcessed = &processed
	case "processed":
		processed := true
		filter.IsProcessed = &processed
	}
	apps, _, err := uc.store.Applications.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	appIDs := make([]uuid.UUID, len(apps))
	for i, a := range apps {
		appIDs[i] = a.ID
	}
	notes, docs, err := uc.store.Applications.CountNotesAndDocuments(ctx, appIDs)
	if err != nil {
		return nil, err
	}
	items := make([]ApplicationListItem, len(apps))
	for i, a := range apps {
		items[i] = ApplicationListItem{Application: a, NoteCount: notes[a.ID], DocumentCount: docs[a.ID]}
	}

	return &JobDetail{Job: job, Stats: ComputeStats(byJob[id]), Applications: items}, nil
}

// applyJobRequest copies the fields present in req onto job.
func applyJobRequest(job *model.Job, req *dto.JobRequest) error {
	if req.Title != nil {
		job.Title = strings.TrimSpace(*req.Title)
	}
	if req.PublicTitle != nil {
		job.PublicTitle = optional(*req.PublicTitle)
	}
	if req.Department != nil {
		job.Department = optional(*req.Department)
	}
	if req.LocationCity != nil {
		job.LocationCity = optional(*req.LocationCity)
	}
	if req.LocationState != nil {
		job.LocationState = optional(*req.LocationState)
	}
	if req.IsRemote != nil {
		job.IsRemote = *req.IsRemote
	}
	if req.JobType != nil {
		job.JobType = model.JobType(*req.JobType)
	}
	if req.VisaSponsorship != nil {
		job.VisaSponsorship = *req.VisaSponsorship
	}
	if req.InternalNotes != nil {
		job.InternalNotes = optional(*req.InternalNotes)
	}
	if req.SalaryMin != nil {
		job.SalaryMin = req.SalaryMin
	}
	if req.SalaryMax != nil {
		job.SalaryMax = req.SalaryMax
	}
	if req.PublicDescription != nil {
		job.PublicDescription = *req.PublicDescription
	}
	if req.Prerequisites != nil {
		job.Prerequisites = optional(*req.Prerequisites)
	}
	if req.Responsibilities != nil {
		job.Responsibilities = optional(*req.Responsibilities)
	}
	if req.ShowSalary != nil {
		job.ShowSalary = *req.ShowSalary
	}
	if req.IsPublished != nil {
		job.IsPublished = *req.IsPublished
	}
	if req.Status != nil {
		job.Status = model.JobStatus(*req.Status)
	}
	if req.AssignedRecruiterID != nil {
		if *req.AssignedRecruiterID == "" {
			job.AssignedRecruiterID = nil
		} else {
			id, err := uuid.Parse(*req.AssignedRecruiterID)
			if err != nil {
				return apperror.ValidationFields("Invalid recruiter id", map[string]string{"assigned_recruiter_id": "must be a valid UUID"})
			}
			job.AssignedRecruiterID = &id
		}
	}
	if job.SalaryMin != nil && job.SalaryMax != nil && *job.SalaryMin > *job.SalaryMax {
		return apperror.ValidationFields("Salary range is inverted", map[string]string{"salary_min": "must not exceed salary_max"})
	}
	return nil
}

func (uc *JobUsecase) Create(ctx context.Context, actor Actor, req *dto.JobRequest) (*model.Job, error) {
	fields := map[string]string{}
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		fields["title"] = "is required"
	}
	if req.PublicDescription == nil || strings.TrimSpace(*req.PublicDescription) == "" {
		fields["public_description"] = "is required"
	}
	if len(fields) > 0 {
		return nil, apperror.ValidationFields("Validation error", fields)
	}

	job := &model.Job{
		JobType:         model.JobTypeFullTime,
		VisaSponsorship: true,
		Status:          model.JobStatusOpen,
		CreatedByID:     actor.ref(),
	}
	if err := applyJobRequest(job, req); err != nil {
		return nil, err
	}
	if job.Status == model.JobStatusClosed {
		now := uc.now().UTC()
		job.ClosedAt = &now
	}

	err := uc.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Jobs.CreateJob(ctx, job); err != nil {
			return err
		}
		return uc.audit.Write(ctx, tx.AuditLogs, service.AuditParams{
			EntityType:  model.EntityJob,
			EntityID:    job.ID,
			Action:      model.ActionCreated,
			NewValue:    map[string]any{"title": job.Title, "status": job.Status},
			PerformedBy: actor.ref(),
			IPAddress:   actor.IP,
		})
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (uc *JobUsecase) Update(ctx context.Context, actor Actor, id uuid.UUID, req *dto.JobRequest) (*model.Job, error) {
	var job *model.Job
	err := uc.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		job, err = tx.Jobs.FindJobByID(ctx, id)
		if err != nil {
			return notFound(err, "Job not found")
		}
		old := map[string]any{"title": job.Title, "status": job.Status}
		prevStatus := job.Status

		if err := applyJobRequest(job, req); err != nil {
			return err
		}
		uc.stampClosed(job, prevStatus)

		if err := tx.Jobs.UpdateJob(ctx, job); err != nil {
			return err
		}
		return uc.audit.Write(ctx, tx.AuditLogs, service.AuditParams{
			EntityType:  model.EntityJob,
			EntityID:    id,
			Action:      model.ActionUpdated,
			OldValue:    old,
			NewValue:    map[string]any{"title": job.Title, "status": job.Status},
			PerformedBy: actor.ref(),
			IPAddress:   actor.IP,
		})
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

func (uc *JobUsecase) ChangeStatus(ctx context.Context, actor Actor, id uuid.UUID, status string) (*model.Job, error) {
	st := model.JobStatus(status)
	if !st.Valid() {
		return nil, apperror.ValidationFields("Invalid status", map[string]string{"status": "must be one of open, on_hold, closed"})
	}

	var job *model.Job
	err := uc.store.Transaction(ctx, func(tx *repository.Store) error {
		var err error
		job, err = tx.Jobs.FindJobByID(ctx, id)
		if err != nil {
			return notFound(err, "Job not found")
		}
		prev := job.Status
		job.Status = st
		uc.stampClosed(job, prev)

		if err := tx.Jobs.UpdateJob(ctx, job); err != nil {
			return err
		}
		return uc.audit.Write(ctx, tx.AuditLogs, service.AuditParams{
			EntityType:  model.EntityJob,
			EntityID:    id,
			Action:      model.ActionStatusChanged,
			OldValue:    map[string]any{"status": prev},
			NewValue:    map[string]any{"status": st},
			PerformedBy: actor.ref(),
			IPAddress:   actor.IP,
		})
	})
	if err != nil {
		return nil, err
	}
	return job, nil
}

// stampClosed keeps ClosedAt in step with Status: set on entering closed,
// cleared on leaving it.
func (uc *JobUsecase) stampClosed(job *model.Job, prev model.JobStatus) {
	switch {
	case job.Status == model.JobStatusClosed && prev != model.JobStatusClosed:
		now := uc.now().UTC()
		job.ClosedAt = &now
	case job.Status != model.JobStatusClosed:
		job.ClosedAt = nil
	}
}

// Delete removes a job with its applications, their notes and documents.
// Stored files are removed once the rows are gone.
func (uc *JobUsecase) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	var paths []string
	err := uc.store.Transaction(ctx, func(tx *repository.Store) error {
		job, err := tx.Jobs.FindJobByID(ctx, id)
		if err != nil {
			return notFound(err, "Job not found")
		}
		appIDs, err := tx.Applications.IDsByJob(ctx, id)
		if err != nil {
			return err
		}
		docs, err := tx.Documents.ListByApplications(ctx, appIDs)
		if err != nil {
			return err
		}
		for _, d := range docs {
			paths = append(paths, d.StoragePath)
		}

		if err := tx.Documents.DeleteByApplications(ctx, appIDs); err != nil {
			return err
		}
		if err := tx.Notes.DeleteByApplications(ctx, appIDs); err != nil {
			return err
		}
		if err := tx.Applications.DeleteByJob(ctx, id); err != nil {
			return err
		}
		if err := tx.Jobs.DeleteJob(ctx, id); err != nil {
			return err
		}
		return uc.audit.Write(ctx, tx.AuditLogs, service.AuditParams{
			EntityType:  model.EntityJob,
			EntityID:    id,
			Action:      model.ActionDeleted,
			OldValue:    map[string]any{"title": job.Title, "applications": len(appIDs), "documents": len(docs)},
			PerformedBy: actor.ref(),
			IPAddress:   actor.IP,
		})
	})
	if err != nil {
		return err
	}
	uc.storage.DeleteAll(paths)
	return nil
}
