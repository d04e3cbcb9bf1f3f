package usecase

import (
	"context"
	"io"
	"log"

	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/repository"
	"github.com/fadilmartias/atobs/internal/service"
	"github.com/google/uuid"
)

// FileUpload is one file part of a multipart request. Open may be called
// more than once.
type FileUpload struct {
	Field       string
	Filename    string
	ContentType string
	Open        func() (io.ReadSeekCloser, error)
}

// TextExtractor pulls searchable text out of a stored file.
type TextExtractor func(path string) (string, error)

// store writes f through storage after checking its type. ok is false when
// the type is not on the allow-list, in which case nothing is written.
func storeUpload(storage service.StorageServiceInterface, f FileUpload, candidateID uuid.UUID) (stored *service.StoredFile, ok bool, err error) {
	declared := service.NormalizeMimeType(f.ContentType)
	if declared != "" && declared != service.DefaultMimeType && !storage.ValidateType(declared) {
		return nil, false, nil
	}

	r, err := f.Open()
	if err != nil {
		return nil, false, err
	}
	defer r.Close()

	mime, err := storage.DetectType(declared, r)
	if err != nil {
		return nil, false, err
	}
	if !storage.ValidateType(mime) {
		return nil, false, nil
	}

	stored, err = storage.Save(r, f.Filename, mime, candidateID)
	if err != nil {
		return nil, false, err
	}
	return stored, true, nil
}

// indexResume stores the text of a PDF resume on its candidate. Failures are
// logged and otherwise ignored.
func indexResume(ctx context.Context, repo *repository.CandidateRepository, extract TextExtractor, doc *model.Document) {
	if extract == nil || doc.DocType != model.DocResume || doc.MimeType != "application/pdf" {
		return
	}
	text, err := extract(doc.StoragePath)
	if err != nil {
		log.Printf("[resume] extract %s: %v", doc.ID, err)
		return
	}
	if text == "" {
		return
	}
	if err := repo.SetResumeText(ctx, doc.CandidateID, text); err != nil {
		log.Printf("[resume] save text for candidate %s: %v", doc.CandidateID, err)
	}
}
