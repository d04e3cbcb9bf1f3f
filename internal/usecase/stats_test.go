package usecase

import (
	"testing"
	"time"

	"github.com/fadilmartias/atobs/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func appsAt(stages ...model.Stage) []model.Application {
	out := make([]model.Application, len(stages))
	for i, s := range stages {
		out[i] = model.Application{Stage: s, IsProcessed: s != model.StageResumeReceived}
	}
	return out
}

func TestComputeStats(t *testing.T) {
	s := ComputeStats(appsAt(model.StageResumeReceived, model.StageResumeReceived, model.StageHired, model.StageRejected))

	assert.Equal(t, 4, s.Total)
	assert.Equal(t, 2, s.Unprocessed)
	assert.Equal(t, 2, s.Processed)
	assert.Equal(t, 1, s.Hired)
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, map[model.Stage]int{
		model.StageResumeReceived: 2,
		model.StageHired:          1,
		model.StageRejected:       1,
	}, s.StageCounts)
}

func TestComputeStatsStageCountsSumToTotal(t *testing.T) {
	s := ComputeStats(appsAt(model.Stages...))

	sum := 0
	for stage, n := range s.StageCounts {
		assert.NotZero(t, n, stage)
		sum += n
	}
	assert.Equal(t, s.Total, sum)
	assert.Equal(t, s.Total, s.Processed+s.Unprocessed)
}

func TestComputeStatsEmpty(t *testing.T) {
	s := ComputeStats(nil)

	assert.Zero(t, s.Total)
	assert.Empty(t, s.StageCounts)
	rates := s.ConversionRates()
	assert.Nil(t, rates.Interview)
	assert.Nil(t, rates.Submission)
	assert.Nil(t, rates.Offer)
	assert.Nil(t, rates.Hire)
}

func TestConversionRates(t *testing.T) {
	s := ComputeStats(appsAt(
		model.StageInterviewScheduled,
		model.StageInterviewCompleted,
		model.StageClientSubmitted,
		model.StageOfferReleased,
		model.StageHired,
	))
	r := s.ConversionRates()

	require.NotNil(t, r.Interview)
	assert.InDelta(t, 0.4, *r.Interview, 1e-9)
	require.NotNil(t, r.Submission)
	assert.InDelta(t, 0.5, *r.Submission, 1e-9)
	require.NotNil(t, r.Offer)
	assert.InDelta(t, 1.0, *r.Offer, 1e-9)
	require.NotNil(t, r.Hire)
	assert.InDelta(t, 0.2, *r.Hire, 1e-9)
}

func TestConversionRatesZeroIsNotNil(t *testing.T) {
	r := ComputeStats(appsAt(model.StageScreened)).ConversionRates()

	require.NotNil(t, r.Interview)
	assert.Zero(t, *r.Interview)
	assert.Nil(t, r.Submission)
	assert.Nil(t, r.Offer)
}

func TestCrossTabSkipsMissingValues(t *testing.T) {
	h1b, gc := model.VisaH1B, model.VisaGC
	tx, ca, empty := "TX", "CA", ""
	visa, location := CrossTab([]model.Application{
		{Candidate: &model.Candidate{VisaStatus: &h1b, LocationState: &tx}},
		{Candidate: &model.Candidate{VisaStatus: &h1b, LocationState: &ca}},
		{Candidate: &model.Candidate{VisaStatus: &gc, LocationState: &empty}},
		{Candidate: &model.Candidate{}},
		{},
	})

	assert.Equal(t, map[string]int{"h1b": 2, "gc": 1}, visa)
	assert.Equal(t, map[string]int{"TX": 1, "CA": 1}, location)
}

func TestMonthStart(t *testing.T) {
	est := time.FixedZone("EST", -5*3600)
	// 2026-03-31 22:00 EST is already April in UTC.
	got := MonthStart(time.Date(2026, 3, 31, 22, 0, 0, 0, est))

	assert.Equal(t, time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC), got)
}

func TestCountAppliedSince(t *testing.T) {
	start := time.Date(2026, 10, 1, 0, 0, 0, 0, time.UTC)
	list := []model.Application{
		{AppliedAt: start.Add(-time.Nanosecond)},
		{AppliedAt: start},
		{AppliedAt: start.Add(72 * time.Hour)},
	}

	assert.Equal(t, 2, CountAppliedSince(list, start))
}
