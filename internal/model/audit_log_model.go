package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// AuditLog is append-only.
type AuditLog struct {
	ID            uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	EntityType    string         `gorm:"type:varchar(30);not null;index:idx_audit_entity" json:"entity_type"`
	EntityID      uuid.UUID      `gorm:"type:uuid;not null;index:idx_audit_entity" json:"entity_id"`
	Action        string         `gorm:"type:varchar(50);not null" json:"action"`
	OldValue      datatypes.JSON `json:"old_value,omitempty"`
	NewValue      datatypes.JSON `json:"new_value,omitempty"`
	PerformedByID *uuid.UUID     `gorm:"type:uuid" json:"performed_by_id"`
	PerformedBy   *User          `gorm:"foreignKey:PerformedByID" json:"performed_by,omitempty"`
	IPAddress     *string        `json:"ip_address"`
	CreatedAt     time.Time      `gorm:"index" json:"created_at"`
}

func (a *AuditLog) TableName() string {
	return "audit_logs"
}

func (a *AuditLog) BeforeCreate(tx *gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	return nil
}

const (
	EntityApplication = "application"
	EntityJob         = "job"
	EntityDocument    = "document"
	EntityUser        = "user"
)

const (
	ActionCreated           = "created"
	ActionUpdated           = "updated"
	ActionDeleted           = "deleted"
	ActionStageChanged      = "stage_changed"
	ActionRejected          = "rejected"
	ActionRecruiterAssigned = "recruiter_assigned"
	ActionProcessed         = "processed"
	ActionStatusChanged     = "status_changed"
	ActionUploaded          = "uploaded"
)
