package usecase

import (
	"context"
	"slices"
	"strings"

	"github.com/fadilmartias/atobs/internal/apperror"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/repository"
	"github.com/fadilmartias/atobs/internal/response"
	"github.com/fadilmartias/atobs/internal/service"
	"github.com/google/uuid"
)

const recentAuditEntries = 20

// PipelineUsecase owns the application stage machine and everything that
// hangs off an application: notes, assignment, history.
type PipelineUsecase struct {
	store *repository.Store
	audit *service.AuditService
}

func NewPipelineUsecase(store *repository.Store, audit *service.AuditService) *PipelineUsecase {
	return &PipelineUsecase{store: store, audit: audit}
}

type ChangeStageInput struct {
	Stage           string
	NoteContent     string
	RejectionReason *string
}

// ApplicationDetail is an application with its recent audit trail.
type ApplicationDetail struct {
	*model.Application
	AuditLogs []model.AuditLog `json:"audit_logs"`
}

// ApplicationListItem carries the note and document counts the list view
// shows next to each application.
type ApplicationListItem struct {
	model.Application
	NoteCount     int64 `json:"note_count"`
	DocumentCount int64 `json:"document_count"`
}

// ChangeStage moves an application to any stage, including its current
// one. A non-empty note is mandatory and is recorded against the stage the
// application is leaving. Leaving "rejected" clears the rejection reason.
func (uc *PipelineUsecase) ChangeStage(ctx context.Context, actor Actor, id uuid.UUID, in ChangeStageInput) (*model.Application, error) {
	stage := model.Stage(in.Stage)
	if !stage.Valid() {
		return nil, apperror.ValidationFields("Invalid stage", map[string]string{"stage": "is not a recognised stage"})
	}
	note := strings.TrimSpace(in.NoteContent)
	if note == "" {
		return nil, apperror.ValidationFields("A note is required when changing stage", map[string]string{"note_content": "is required"})
	}

	var reason *string
	if stage == model.StageRejected {
		reason = optionalPtr(in.RejectionReason)
	}
	return uc.transition(ctx, actor, id, stage, note, reason, model.ActionStageChanged)
}

// Reject is ChangeStage to "rejected" with a mandatory reason.
func (uc *PipelineUsecase) Reject(ctx context.Context, actor Actor, id uuid.UUID, reason, noteContent string) (*model.Application, error) {
	r := optional(reason)
	if r == nil {
		return nil, apperror.ValidationFields("Rejection reason is required", map[string]string{"reason": "is required"})
	}
	note := strings.TrimSpace(noteContent)
	if note == "" {
		return nil, apperror.ValidationFields("Note is required", map[string]string{"note_content": "is required"})
	}
	return uc.transition(ctx, actor, id, model.StageRejected, note, r, model.ActionRejected)
}

func (uc *PipelineUsecase) transition(ctx context.Context, actor Actor, id uuid.UUID, stage model.Stage, note string, reason *string, action string) (*model.Application, error) {
	var updated *model.Application
	err := uc.store.Transaction(ctx, func(tx *repository.Store) error {
		app, err := tx.Applications.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "Application not found")
		}
		prev := app.Stage

		err = tx.Applications.UpdateFields(ctx, id, map[string]any{
			"stage":            stage,
			"is_processed":     true,
			"rejection_reason": reason,
		})
		if err != nil {
			return err
		}

		err = tx.Notes.Create(ctx, &model.Note{
			ApplicationID: id,
			AuthorID:      actor.ref(),
			Content:       note,
			StageAtTime:   prev,
			IsStageNote:   true,
		})
		if err != nil {
			return err
		}

		newValue := map[string]any{"stage": stage}
		if action == model.ActionRejected && reason != nil {
			newValue["reason"] = *reason
		}
		err = uc.audit.Write(ctx, tx.AuditLogs, service.AuditParams{
			EntityType:  model.EntityApplication,
			EntityID:    id,
			Action:      action,
			OldValue:    map[string]any{"stage": prev},
			NewValue:    newValue,
			PerformedBy: actor.ref(),
			IPAddress:   actor.IP,
		})
		if err != nil {
			return err
		}

		updated, err = tx.Applications.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AssignRecruiter sets or clears (nil) the owning recruiter.
func (uc *PipelineUsecase) AssignRecruiter(ctx context.Context, actor Actor, id uuid.UUID, recruiterID *uuid.UUID) (*model.Application, error) {
	var updated *model.Application
	err := uc.store.Transaction(ctx, func(tx *repository.Store) error {
		app, err := tx.Applications.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "Application not found")
		}
		if recruiterID != nil {
			u, err := tx.Users.FindByID(ctx, *recruiterID)
			if err != nil {
				return notFound(err, "Recruiter not found")
			}
			if !u.IsActive {
				return apperror.Validation("Recruiter account is inactive")
			}
		}

		if err := tx.Applications.UpdateFields(ctx, id, map[string]any{"assigned_recruiter_id": recruiterID}); err != nil {
			return err
		}

		err = uc.audit.Write(ctx, tx.AuditLogs, service.AuditParams{
			EntityType:  model.EntityApplication,
			EntityID:    id,
			Action:      model.ActionRecruiterAssigned,
			OldValue:    map[string]any{"recruiter_id": app.AssignedRecruiterID},
			NewValue:    map[string]any{"recruiter_id": recruiterID},
			PerformedBy: actor.ref(),
			IPAddress:   actor.IP,
		})
		if err != nil {
			return err
		}

		updated, err = tx.Applications.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// MarkProcessed flags an application as triaged without moving it.
func (uc *PipelineUsecase) MarkProcessed(ctx context.Context, actor Actor, id uuid.UUID) (*model.Application, error) {
	var updated *model.Application
	err := uc.store.Transaction(ctx, func(tx *repository.Store) error {
		app, err := tx.Applications.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "Application not found")
		}
		if err := tx.Applications.UpdateFields(ctx, id, map[string]any{"is_processed": true}); err != nil {
			return err
		}
		err = uc.audit.Write(ctx, tx.AuditLogs, service.AuditParams{
			EntityType:  model.EntityApplication,
			EntityID:    id,
			Action:      model.ActionProcessed,
			OldValue:    map[string]any{"is_processed": app.IsProcessed},
			NewValue:    map[string]any{"is_processed": true},
			PerformedBy: actor.ref(),
			IPAddress:   actor.IP,
		})
		if err != nil {
			return err
		}
		updated, err = tx.Applications.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// AddNote attaches a free-form note tagged with the current stage.
func (uc *PipelineUsecase) AddNote(ctx context.Context, actor Actor, id uuid.UUID, content string) (*model.Note, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperror.ValidationFields("Note content is required", map[string]string{"content": "is required"})
	}

	app, err := uc.store.Applications.FindByID(ctx, id)
	if err != nil {
		return nil, notFound(err, "Application not found")
	}

	note := &model.Note{
		ApplicationID: id,
		AuthorID:      actor.ref(),
		Content:       content,
		StageAtTime:   app.Stage,
		IsStageNote:   false,
	}
	if err := uc.store.Notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return note, nil
}

func (uc *PipelineUsecase) ListNotes(ctx context.Context, id uuid.UUID) ([]model.Note, error) {
	if _, err := uc.store.Applications.FindByID(ctx, id); err != nil {
		return nil, notFound(err, "Application not found")
	}
	return uc.store.Notes.ListByApplication(ctx, id)
}

func (uc *PipelineUsecase) Get(ctx context.Context, id uuid.UUID) (*ApplicationDetail, error) {
	app, err := uc.store.Applications.FindDetail(ctx, id)
	if err != nil {
		return nil, notFound(err, "Application not found")
	}
	logs, err := uc.store.AuditLogs.ListByEntity(ctx, model.EntityApplication, id, recentAuditEntries)
	if err != nil {
		return nil, err
	}
	return &ApplicationDetail{Application: app, AuditLogs: logs}, nil
}

func (uc *PipelineUsecase) List(ctx context.Context, f repository.ApplicationFilter) ([]ApplicationListItem, *response.Pagination, error) {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}

	apps, total, err := uc.store.Applications.List(ctx, f)
	if err != nil {
		return nil, nil, err
	}

	ids := make([]uuid.UUID, len(apps))
	for i, a := range apps {
		ids[i] = a.ID
	}
	notes, docs, err := uc.store.Applications.CountNotesAndDocuments(ctx, ids)
	if err != nil {
		return nil, nil, err
	}

	items := make([]ApplicationListItem, len(apps))
	for i, a := range apps {
		items[i] = ApplicationListItem{Application: a, NoteCount: notes[a.ID], DocumentCount: docs[a.ID]}
	}
	return items, response.NewPagination(f.Page, f.Limit, total), nil
}

// History returns the stage moves of an application, oldest first.
func (uc *PipelineUsecase) History(ctx context.Context, id uuid.UUID) ([]service.StageTransition, error) {
	if _, err := uc.store.Applications.FindByID(ctx, id); err != nil {
		return nil, notFound(err, "Application not found")
	}
	logs, err := uc.store.AuditLogs.ListByEntity(ctx, model.EntityApplication, id, 0)
	if err != nil {
		return nil, err
	}
	slices.Reverse(logs)
	return uc.audit.StageTransitions(logs), nil
}
