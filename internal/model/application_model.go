package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Application joins a Job and a Candidate. The composite unique index is
// what stops a candidate from applying twice to the same posting.
type Application struct {
	ID                  uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	JobID               uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_candidate" json:"job_id"`
	Job                 *Job       `gorm:"constraint:OnDelete:CASCADE" json:"job,omitempty"`
	CandidateID         uuid.UUID  `gorm:"type:uuid;not null;uniqueIndex:idx_applications_job_candidate;index" json:"candidate_id"`
	Candidate           *Candidate `json:"candidate,omitempty"`
	Stage               Stage      `gorm:"type:varchar(30);not null;default:'resume_received';index" json:"stage"`
	IsProcessed         bool       `gorm:"not null;default:false;index" json:"is_processed"`
	RejectionReason     *string    `gorm:"type:text" json:"rejection_reason"`
	AssignedRecruiterID *uuid.UUID `gorm:"type:uuid;index" json:"assigned_recruiter_id"`
	AssignedRecruiter   *User      `gorm:"foreignKey:AssignedRecruiterID" json:"assigned_recruiter,omitempty"`
	AppliedAt           time.Time  `gorm:"not null;index" json:"applied_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	Notes               []Note     `json:"notes,omitempty"`
	Documents           []Document `json:"documents,omitempty"`
}

func (a *Application) TableName() string {
	return "applications"
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.AppliedAt.IsZero() {
		a.AppliedAt = time.Now().UTC()
	}
	if a.Stage == "" {
		a.Stage = StageResumeReceived
	}
	return nil
}
