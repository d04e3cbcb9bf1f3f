package dto

import (
	"time"

	"github.com/fadilmartias/atobs/internal/model"
	"github.com/google/uuid"
)

// JobRequest is the body of POST /ats/jobs. On PUT every field is optional.
type JobRequest struct {
	Title               *string `json:"title" validate:"omitempty,min=1"`
	PublicTitle         *string `json:"public_title"`
	Department          *string `json:"department"`
	LocationCity        *string `json:"location_city"`
	LocationState       *string `json:"location_state"`
	IsRemote            *bool   `json:"is_remote"`
	JobType             *string `json:"job_type" validate:"omitempty,oneof=full_time contract c2c w2"`
	VisaSponsorship     *bool   `json:"visa_sponsorship"`
	InternalNotes       *string `json:"internal_notes"`
	SalaryMin           *int    `json:"salary_min" validate:"omitempty,min=0"`
	SalaryMax           *int    `json:"salary_max" validate:"omitempty,min=0"`
	PublicDescription   *string `json:"public_description" validate:"omitempty,min=1"`
	Prerequisites       *string `json:"prerequisites"`
	Responsibilities    *string `json:"responsibilities"`
	ShowSalary          *bool   `json:"show_salary"`
	IsPublished         *bool   `json:"is_published"`
	Status              *string `json:"status" validate:"omitempty,oneof=open on_hold closed"`
	AssignedRecruiterID *string `json:"assigned_recruiter_id" validate:"omitempty,uuid"`
}

type JobStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=open on_hold closed"`
}

type SalaryDTO struct {
	Min *int `json:"min"`
	Max *int `json:"max"`
}

// PublicJobDTO is a job as the public board sees it. Salary is nil unless
// the job opts in to showing it.
type PublicJobDTO struct {
	ID               uuid.UUID     `json:"id"`
	Title            string        `json:"title"`
	Department       *string       `json:"department"`
	LocationCity     *string       `json:"location_city"`
	LocationState    *string       `json:"location_state"`
	IsRemote         bool          `json:"is_remote"`
	JobType          model.JobType `json:"job_type"`
	VisaSponsorship  bool          `json:"visa_sponsorship"`
	Description      *string       `json:"description,omitempty"`
	Prerequisites    *string       `json:"prerequisites,omitempty"`
	Responsibilities *string       `json:"responsibilities,omitempty"`
	Salary           *SalaryDTO    `json:"salary"`
	CreatedAt        time.Time     `json:"created_at"`
}

func NewPublicJobDTO(j *model.Job, withDetail bool) PublicJobDTO {
	out := PublicJobDTO{
		ID:              j.ID,
		Title:           j.DisplayTitle(),
		Department:      j.Department,
		LocationCity:    j.LocationCity,
		LocationState:   j.LocationState,
		IsRemote:        j.IsRemote,
		JobType:         j.JobType,
		VisaSponsorship: j.VisaSponsorship,
		CreatedAt:       j.CreatedAt,
	}
	if j.ShowSalary {
		out.Salary = &SalaryDTO{Min: j.SalaryMin, Max: j.SalaryMax}
	}
	if withDetail {
		desc := j.PublicDescription
		out.Description = &desc
		out.Prerequisites = j.Prerequisites
		out.Responsibilities = j.Responsibilities
	}
	return out
}
