package usecase

import (
	"time"

	"github.com/fadilmartias/atobs/internal/model"
)

// Stats summarises a set of applications. StageCounts only carries stages
// with at least one application and always sums to Total.
type Stats struct {
	Total       int                 `json:"total"`
	Unprocessed int                 `json:"unprocessed"`
	Processed   int                 `json:"processed"`
	Hired       int                 `json:"hired"`
	Rejected    int                 `json:"rejected"`
	StageCounts map[model.Stage]int `json:"stage_counts"`
}

// ConversionRates are derived for display only. A nil rate means the
// denominator was zero, which is not the same as a 0% rate.
type ConversionRates struct {
	Interview  *float64 `json:"interview"`
	Submission *float64 `json:"submission"`
	Offer      *float64 `json:"offer"`
	Hire       *float64 `json:"hire"`
}

func ComputeStats(apps []model.Application) Stats {
	s := Stats{StageCounts: make(map[model.Stage]int)}
	for _, a := range apps {
		s.Total++
		if a.IsProcessed {
			s.Processed++
		} else {
			s.Unprocessed++
		}
		s.StageCounts[a.Stage]++
	}
	s.Hired = s.StageCounts[model.StageHired]
	s.Rejected = s.StageCounts[model.StageRejected]
	return s
}

func (s Stats) ConversionRates() ConversionRates {
	interviews := s.StageCounts[model.StageInterviewScheduled] + s.StageCounts[model.StageInterviewCompleted]
	submitted := s.StageCounts[model.StageClientSubmitted]
	offers := s.StageCounts[model.StageOfferAwaiting] + s.StageCounts[model.StageOfferReleased]

	return ConversionRates{
		Interview:  ratio(interviews, s.Total),
		Submission: ratio(submitted, interviews),
		Offer:      ratio(offers, submitted),
		Hire:       ratio(s.Hired, s.Total),
	}
}

func ratio(num, den int) *float64 {
	if den == 0 {
		return nil
	}
	r := float64(num) / float64(den)
	return &r
}

// CrossTab counts applications by candidate visa status and location state.
// Applications whose candidate has no value for a dimension are left out of
// that dimension.
func CrossTab(apps []model.Application) (visa, location map[string]int) {
	visa = make(map[string]int)
	location = make(map[string]int)
	for _, a := range apps {
		if a.Candidate == nil {
			continue
		}
		if v := a.Candidate.VisaStatus; v != nil && *v != "" {
			visa[string(*v)]++
		}
		if l := a.Candidate.LocationState; l != nil && *l != "" {
			location[*l]++
		}
	}
	return visa, location
}

// MonthStart is the first instant of now's calendar month in UTC.
func MonthStart(now time.Time) time.Time {
	now = now.UTC()
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// CountAppliedSince counts applications with AppliedAt at or after since.
func CountAppliedSince(apps []model.Application, since time.Time) int {
	n := 0
	for _, a := range apps {
		if !a.AppliedAt.Before(since) {
			n++
		}
	}
	return n
}
