package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Note is never updated or deleted once written.
type Note struct {
	ID            uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	ApplicationID uuid.UUID  `gorm:"type:uuid;not null;index" json:"application_id"`
	AuthorID      *uuid.UUID `gorm:"type:uuid" json:"author_id"`
	Author        *User      `gorm:"foreignKey:AuthorID" json:"author,omitempty"`
	Content       string     `gorm:"type:text;not null" json:"content"`
	StageAtTime   Stage      `gorm:"type:varchar(30)" json:"stage_at_time"`
	IsStageNote   bool       `gorm:"not null;default:false" json:"is_stage_note"`
	CreatedAt     time.Time  `json:"created_at"`
}

func (n *Note) TableName() string {
	return "notes"
}

func (n *Note) BeforeCreate(tx *gorm.DB) error {
	if n.ID == uuid.Nil {
		n.ID = uuid.New()
	}
	return nil
}
