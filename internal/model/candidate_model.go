package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Candidate struct {
	ID                uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	FirstName         string                      `gorm:"not null" json:"first_name"`
	LastName          string                      `gorm:"not null" json:"last_name"`
	Email             string                      `gorm:"uniqueIndex;not null" json:"email"`
	Phone             *string                     `json:"phone"`
	LocationCity      *string                     `json:"location_city"`
	LocationState     *string                     `json:"location_state"`
	LinkedinURL       *string                     `json:"linkedin_url"`
	VisaStatus        *VisaStatus                 `gorm:"type:varchar(20);index" json:"visa_status"`
	CurrentEmployer   *string                     `json:"current_employer"`
	ExperienceYears   *int                        `json:"experience_years"`
	SalaryExpectation *int                        `json:"salary_expectation"`
	Skills            datatypes.JSONSlice[string] `json:"skills"`
	ResumeText        *string                     `gorm:"type:text" json:"-"`
	Source            CandidateSource             `gorm:"type:varchar(20);default:'internal'" json:"source"`
	CreatedAt         time.Time                   `json:"created_at"`
	UpdatedAt         time.Time                   `json:"updated_at"`
}

func (c *Candidate) TableName() string {
	return "candidates"
}

func (c *Candidate) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
