package usecase

import (
	"context"
	"time"

	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/repository"
	"github.com/google/uuid"
)

type Overview struct {
	Stats
	TotalJobs       int64           `json:"total_jobs"`
	OpenJobs        int64           `json:"open_jobs"`
	OnHoldJobs      int64           `json:"on_hold_jobs"`
	ClosedJobs      int64           `json:"closed_jobs"`
	TotalCandidates int64           `json:"total_candidates"`
	ThisMonth       int             `json:"this_month"`
	Conversion      ConversionRates `json:"conversion_rates"`
}

type JobAnalytics struct {
	Job *model.Job `json:"job"`
	Stats
	VisaCounts     map[string]int  `json:"visa_counts"`
	LocationCounts map[string]int  `json:"location_counts"`
	Conversion     ConversionRates `json:"conversion_rates"`
}

type RecruiterAnalytics struct {
	Recruiter *model.User `json:"recruiter"`
	Stats
	Conversion ConversionRates `json:"conversion_rates"`
}

type AnalyticsUsecase struct {
	store *repository.Store
	now   func() time.Time
}

func NewAnalyticsUsecase(store *repository.Store) *AnalyticsUsecase {
	return &AnalyticsUsecase{store: store, now: time.Now}
}

func (uc *AnalyticsUsecase) Overview(ctx context.Context) (*Overview, error) {
	apps, err := uc.store.Applications.ListForStats(ctx, repository.StatsScope{})
	if err != nil {
		return nil, err
	}
	byStatus, err := uc.store.Jobs.CountByStatus(ctx)
	if err != nil {
		return nil, err
	}
	candidates, err := uc.store.Candidates.Count(ctx)
	if err != nil {
		return nil, err
	}

	stats := ComputeStats(apps)
	out := &Overview{
		Stats:           stats,
		OpenJobs:        byStatus[model.JobStatusOpen],
		OnHoldJobs:      byStatus[model.JobStatusOnHold],
		ClosedJobs:      byStatus[model.JobStatusClosed],
		TotalCandidates: candidates,
		ThisMonth:       CountAppliedSince(apps, MonthStart(uc.now())),
		Conversion:      stats.ConversionRates(),
	}
	for _, n := range byStatus {
		out.TotalJobs += n
	}
	return out, nil
}

func (uc *AnalyticsUsecase) Job(ctx context.Context, jobID uuid.UUID) (*JobAnalytics, error) {
	job, err := uc.store.Jobs.FindJobByID(ctx, jobID)
	if err != nil {
		return nil, notFound(err, "Job not found")
	}
	apps, err := uc.store.Applications.ListForStats(ctx, repository.StatsScope{JobID: &jobID})
	if err != nil {
		return nil, err
	}

	stats := ComputeStats(apps)
	visa, location := CrossTab(apps)
	return &JobAnalytics{
		Job:            job,
		Stats:          stats,
		VisaCounts:     visa,
		LocationCounts: location,
		Conversion:     stats.ConversionRates(),
	}, nil
}

func (uc *AnalyticsUsecase) Recruiter(ctx context.Context, recruiterID uuid.UUID) (*RecruiterAnalytics, error) {
	user, err := uc.store.Users.FindByID(ctx, recruiterID)
	if err != nil {
		return nil, notFound(err, "Recruiter not found")
	}
	apps, err := uc.store.Applications.ListForStats(ctx, repository.StatsScope{RecruiterID: &recruiterID})
	if err != nil {
		return nil, err
	}

	stats := ComputeStats(apps)
	return &RecruiterAnalytics{Recruiter: user, Stats: stats, Conversion: stats.ConversionRates()}, nil
}
