package usecase

import (
	"context"
	"io"
	"log"

	"github.com/fadilmartias/atobs/internal/apperror"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/repository"
	"github.com/fadilmartias/atobs/internal/service"
	"github.com/fadilmartias/atobs/internal/util"
	"github.com/google/uuid"
)

const fileTypeNotAllowed = "File type not allowed. Accepted: PDF, DOC, DOCX, JPG, PNG"

type DocumentUsecase struct {
	store   *repository.Store
	storage service.StorageServiceInterface
	audit   *service.AuditService
	extract TextExtractor
}

func NewDocumentUsecase(store *repository.Store, storage service.StorageServiceInterface, audit *service.AuditService) *DocumentUsecase {
	return &DocumentUsecase{store: store, storage: storage, audit: audit, extract: util.ExtractPDFText}
}

// Upload attaches one file to an application. docType values outside the
// known set are stored as "other".
func (uc *DocumentUsecase) Upload(ctx context.Context, actor Actor, applicationID uuid.UUID, docType string, f FileUpload) (*model.Document, error) {
	app, err := uc.store.Applications.FindByID(ctx, applicationID)
	if err != nil {
		return nil, notFound(err, "Application not found")
	}

	stored, ok, err := storeUpload(uc.storage, f, app.CandidateID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.ValidationFields(fileTypeNotAllowed, map[string]string{"file": "unsupported file type"})
	}

	doc := &model.Document{
		CandidateID:      app.CandidateID,
		ApplicationID:    &app.ID,
		DocType:          model.ParseDocType(docType),
		OriginalFilename: f.Filename,
		StoragePath:      stored.StoragePath,
		FileSizeBytes:    stored.SizeBytes,
		MimeType:         stored.MimeType,
		UploadedByID:     actor.ref(),
	}
	err = uc.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Documents.Create(ctx, doc); err != nil {
			return err
		}
		return uc.audit.Write(ctx, tx.AuditLogs, service.AuditParams{
			EntityType: model.EntityDocument,
			EntityID:   doc.ID,
			Action:     model.ActionUploaded,
			NewValue: map[string]any{
				"application_id": app.ID,
				"doc_type":       doc.DocType,
				"filename":       doc.OriginalFilename,
			},
			PerformedBy: actor.ref(),
			IPAddress:   actor.IP,
		})
	})
	if err != nil {
		uc.storage.DeleteAll([]string{stored.StoragePath})
		return nil, err
	}

	indexResume(ctx, uc.store.Candidates, uc.extract, doc)
	return doc, nil
}

// Open returns the document metadata and its content. The caller closes
// the reader.
func (uc *DocumentUsecase) Open(ctx context.Context, id uuid.UUID) (*model.Document, io.ReadCloser, error) {
	doc, err := uc.store.Documents.FindByID(ctx, id)
	if err != nil {
		return nil, nil, notFound(err, "Document not found")
	}
	r, err := uc.storage.Retrieve(doc.StoragePath)
	if err != nil {
		return nil, nil, err
	}
	return doc, r, nil
}

// Delete removes the row and then the file. Only the uploader or an admin
// may do this.
func (uc *DocumentUsecase) Delete(ctx context.Context, actor Actor, id uuid.UUID) error {
	doc, err := uc.store.Documents.FindByID(ctx, id)
	if err != nil {
		return notFound(err, "Document not found")
	}
	uploader := doc.UploadedByID != nil && *doc.UploadedByID == actor.UserID
	if !actor.IsAdmin() && !uploader {
		return apperror.Forbidden("Only the uploader or an admin can delete this document")
	}

	err = uc.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Documents.Delete(ctx, doc.ID); err != nil {
			return err
		}
		return uc.audit.Write(ctx, tx.AuditLogs, service.AuditParams{
			EntityType: model.EntityDocument,
			EntityID:   doc.ID,
			Action:     model.ActionDeleted,
			OldValue: map[string]any{
				"application_id": doc.ApplicationID,
				"doc_type":       doc.DocType,
				"filename":       doc.OriginalFilename,
			},
			PerformedBy: actor.ref(),
			IPAddress:   actor.IP,
		})
	})
	if err != nil {
		return err
	}

	if err := uc.storage.Delete(doc.StoragePath); err != nil {
		log.Printf("[document] row %s deleted but file remains: %v", doc.ID, err)
	}
	return nil
}
