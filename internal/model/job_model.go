package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Job struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	Title               string     `gorm:"not null" json:"title"`
	PublicTitle         *string    `json:"public_title"`
	Department          *string    `json:"department"`
	LocationCity        *string    `json:"location_city"`
	LocationState       *string    `json:"location_state"`
	IsRemote            bool       `gorm:"default:false" json:"is_remote"`
	JobType             JobType    `gorm:"type:varchar(20);default:'full_time'" json:"job_type"`
	VisaSponsorship     bool       `gorm:"not null" json:"visa_sponsorship"`
	InternalNotes       *string    `gorm:"type:text" json:"internal_notes,omitempty"`
	SalaryMin           *int       `json:"salary_min"`
	SalaryMax           *int       `json:"salary_max"`
	PublicDescription   string     `gorm:"type:text" json:"public_description"`
	Prerequisites       *string    `gorm:"type:text" json:"prerequisites"`
	Responsibilities    *string    `gorm:"type:text" json:"responsibilities"`
	ShowSalary          bool       `gorm:"default:false" json:"show_salary"`
	IsPublished         bool       `gorm:"default:false;index" json:"is_published"`
	Status              JobStatus  `gorm:"type:varchar(20);default:'open';index" json:"status"`
	ClosedAt            *time.Time `json:"closed_at"`
	CreatedByID         *uuid.UUID `gorm:"type:uuid" json:"created_by_id"`
	CreatedBy           *User      `gorm:"foreignKey:CreatedByID" json:"created_by,omitempty"`
	AssignedRecruiterID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_recruiter_id"`
	AssignedRecruiter   *User      `gorm:"foreignKey:AssignedRecruiterID" json:"assigned_recruiter,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

func (j *Job) TableName() string {
	return "jobs"
}

func (j *Job) BeforeCreate(tx *gorm.DB) error {
	if j.ID == uuid.Nil {
		j.ID = uuid.New()
	}
	return nil
}

// DisplayTitle is what the public board shows.
func (j *Job) DisplayTitle() string {
	if j.PublicTitle != nil && *j.PublicTitle != "" {
		return *j.PublicTitle
	}
	return j.Title
}

// AcceptsApplications reports whether the public form may target this job.
func (j *Job) AcceptsApplications() bool {
	return j.IsPublished && j.Status == JobStatusOpen
}
