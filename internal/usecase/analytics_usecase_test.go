package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/fadilmartias/atobs/internal/apperror"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOverview(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := NewAnalyticsUsecase(f.store)
	now := time.Date(2026, 10, 16, 9, 0, 0, 0, time.UTC)
	uc.now = func() time.Time { return now }

	job := testutil.CreateJob(t, f.db, nil)
	closed := testutil.CreateJob(t, f.db, nil)
	require.NoError(t, f.db.Model(closed).Update("status", model.JobStatusClosed).Error)

	fresh := testutil.CreateApplication(t, f.db, job, testutil.CreateCandidate(t, f.db, model.VisaH1B, "TX"), model.StageInterviewScheduled, true)
	old := testutil.CreateApplication(t, f.db, job, testutil.CreateCandidate(t, f.db, model.VisaGC, "CA"), model.StageHired, true)
	require.NoError(t, f.db.Model(fresh).Update("applied_at", time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)).Error)
	require.NoError(t, f.db.Model(old).Update("applied_at", time.Date(2026, 9, 30, 23, 59, 0, 0, time.UTC)).Error)

	o, err := uc.Overview(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, o.TotalJobs)
	assert.EqualValues(t, 1, o.OpenJobs)
	assert.EqualValues(t, 1, o.ClosedJobs)
	assert.EqualValues(t, 2, o.TotalCandidates)
	assert.Equal(t, 2, o.Total)
	assert.Equal(t, 1, o.ThisMonth)
	require.NotNil(t, o.Conversion.Hire)
	assert.InDelta(t, 0.5, *o.Conversion.Hire, 1e-9)
	assert.Nil(t, o.Conversion.Offer)
}

func TestJobAnalyticsCrossTabs(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := NewAnalyticsUsecase(f.store)
	job := testutil.CreateJob(t, f.db, nil)
	testutil.CreateApplication(t, f.db, job, testutil.CreateCandidate(t, f.db, model.VisaH1B, "TX"), model.StageScreened, true)
	testutil.CreateApplication(t, f.db, job, testutil.CreateCandidate(t, f.db, model.VisaH1B, "NJ"), model.StageResumeReceived, false)
	testutil.CreateApplication(t, f.db, job, testutil.CreateCandidate(t, f.db, "", ""), model.StageResumeReceived, false)

	got, err := uc.Job(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, got.Total)
	assert.Equal(t, map[string]int{"h1b": 2}, got.VisaCounts)
	assert.Equal(t, map[string]int{"TX": 1, "NJ": 1}, got.LocationCounts)

	_, err = uc.Job(ctx, uuid.New())
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestRecruiterAnalytics(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	uc := NewAnalyticsUsecase(f.store)
	recruiter := testutil.CreateUser(t, f.db, model.RoleRecruiter)
	mine := testutil.CreateJob(t, f.db, recruiter)
	theirs := testutil.CreateJob(t, f.db, nil)

	app := testutil.CreateApplication(t, f.db, mine, testutil.CreateCandidate(t, f.db, model.VisaOPT, "WA"), model.StageClientSubmitted, true)
	require.NoError(t, f.db.Model(app).Update("assigned_recruiter_id", recruiter.ID).Error)
	testutil.CreateApplication(t, f.db, theirs, testutil.CreateCandidate(t, f.db, model.VisaOPT, "WA"), model.StageClientSubmitted, true)

	got, err := uc.Recruiter(ctx, recruiter.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, got.Total)
	assert.Equal(t, recruiter.ID, got.Recruiter.ID)
	require.NotNil(t, got.Conversion.Offer)
	assert.Zero(t, *got.Conversion.Offer)
	assert.Nil(t, got.Conversion.Submission)
}
