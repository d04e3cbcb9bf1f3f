package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Document struct {
	ID               uuid.UUID  `gorm:"type:uuid;primaryKey" json:"id"`
	CandidateID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"candidate_id"`
	ApplicationID    *uuid.UUID `gorm:"type:uuid;index" json:"application_id"`
	DocType          DocType    `gorm:"type:varchar(20);not null;default:'other'" json:"doc_type"`
	OriginalFilename string     `gorm:"not null" json:"original_filename"`
	StoragePath      string     `gorm:"not null" json:"storage_path"`
	FileSizeBytes    int64      `json:"file_size_bytes"`
	MimeType         string     `json:"mime_type"`
	UploadedByID     *uuid.UUID `gorm:"type:uuid" json:"uploaded_by_id"`
	UploadedBy       *User      `gorm:"foreignKey:UploadedByID" json:"uploaded_by,omitempty"`
	UploadedAt       time.Time  `gorm:"autoCreateTime" json:"uploaded_at"`
}

func (d *Document) TableName() string {
	return "documents"
}

func (d *Document) BeforeCreate(tx *gorm.DB) error {
	if d.ID == uuid.Nil {
		d.ID = uuid.New()
	}
	return nil
}
