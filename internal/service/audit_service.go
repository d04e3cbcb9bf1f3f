package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/repository"
	"github.com/google/uuid"
	"github.com/tidwall/gjson"
	"gorm.io/datatypes"
)

type AuditParams struct {
	EntityType  string
	EntityID    uuid.UUID
	Action      string
	OldValue    map[string]any
	NewValue    map[string]any
	PerformedBy *uuid.UUID
	IPAddress   string
}

// StageTransition is one stage move read back out of the audit trail.
type StageTransition struct {
	From        model.Stage `json:"from"`
	To          model.Stage `json:"to"`
	Action      string      `json:"action"`
	Reason      string      `json:"reason,omitempty"`
	PerformedBy string      `json:"performed_by,omitempty"`
	At          time.Time   `json:"at"`
}

type AuditService struct{}

func NewAuditService() *AuditService {
	return &AuditService{}
}

// Write appends an entry through repo, which may be bound to the caller's
// transaction.
func (s *AuditService) Write(ctx context.Context, repo *repository.AuditLogRepository, p AuditParams) error {
	entry := &model.AuditLog{
		EntityType:    p.EntityType,
		EntityID:      p.EntityID,
		Action:        p.Action,
		PerformedByID: p.PerformedBy,
	}
	if p.IPAddress != "" {
		ip := p.IPAddress
		entry.IPAddress = &ip
	}
	var err error
	if entry.OldValue, err = encodeAuditValue(p.OldValue); err != nil {
		return err
	}
	if entry.NewValue, err = encodeAuditValue(p.NewValue); err != nil {
		return err
	}
	if err := repo.Create(ctx, entry); err != nil {
		return fmt.Errorf("write audit log: %w", err)
	}
	return nil
}

func encodeAuditValue(v map[string]any) (datatypes.JSON, error) {
	if v == nil {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode audit value: %w", err)
	}
	return datatypes.JSON(b), nil
}

// StageTransitions picks the stage moves out of an application's audit
// entries, preserving their order.
func (s *AuditService) StageTransitions(logs []model.AuditLog) []StageTransition {
	out := make([]StageTransition, 0, len(logs))
	for _, l := range logs {
		to := gjson.GetBytes(l.NewValue, "stage")
		if !to.Exists() {
			continue
		}
		t := StageTransition{
			From:   model.Stage(gjson.GetBytes(l.OldValue, "stage").String()),
			To:     model.Stage(to.String()),
			Action: l.Action,
			Reason: gjson.GetBytes(l.NewValue, "reason").String(),
			At:     l.CreatedAt,
		}
		if l.PerformedBy != nil {
			t.PerformedBy = l.PerformedBy.FullName
		}
		out = append(out, t)
	}
	return out
}
