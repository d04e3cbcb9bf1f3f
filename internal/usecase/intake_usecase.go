package usecase

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/fadilmartias/atobs/internal/apperror"
	"github.com/fadilmartias/atobs/internal/dto"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/repository"
	"github.com/fadilmartias/atobs/internal/service"
	"github.com/fadilmartias/atobs/internal/util"
	"github.com/google/uuid"
	"gorm.io/datatypes"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type IntakeUsecase struct {
	store   *repository.Store
	storage service.StorageServiceInterface
	audit   *service.AuditService
	extract TextExtractor
}

func NewIntakeUsecase(store *repository.Store, storage service.StorageServiceInterface, audit *service.AuditService) *IntakeUsecase {
	return &IntakeUsecase{store: store, storage: storage, audit: audit, extract: util.ExtractPDFText}
}

// DocTypeForField maps a public form field name to the document type it
// carries.
func DocTypeForField(field string) model.DocType {
	switch field {
	case "resume":
		return model.DocResume
	case "passport":
		return model.DocPassport
	case "visa", "visaDoc", "visa_doc":
		return model.DocVisaStamp
	case "ead":
		return model.DocEAD
	default:
		return model.DocOther
	}
}

// candidateFields is the parsed, optional part of the application form.
type candidateFields struct {
	phone, city, state, linkedin, employer *string
	visa                                   *model.VisaStatus
	experience, salary                     *int
	skills                                 []string
}

func parseApplyForm(form dto.ApplyForm) (*candidateFields, error) {
	for _, req := range []struct{ name, value string }{
		{"first_name", form.FirstName},
		{"last_name", form.LastName},
		{"email", form.Email},
	} {
		if strings.TrimSpace(req.value) == "" {
			return nil, apperror.ValidationFields("Missing required field: "+req.name, map[string]string{req.name: "is required"})
		}
	}
	if !emailPattern.MatchString(strings.TrimSpace(form.Email)) {
		return nil, apperror.ValidationFields("Invalid email address", map[string]string{"email": "must be a valid email address"})
	}

	f := &candidateFields{
		phone:    optional(form.Phone),
		city:     optional(form.LocationCity),
		state:    optional(form.LocationState),
		linkedin: optional(form.LinkedinURL),
		employer: optional(form.CurrentEmployer),
	}

	if v := optional(form.VisaStatus); v != nil {
		vs := model.VisaStatus(strings.ToLower(*v))
		if !vs.Valid() {
			return nil, apperror.ValidationFields("Invalid visa status", map[string]string{"visa_status": "is not a recognised visa status"})
		}
		f.visa = &vs
	}

	var err error
	if f.experience, err = optionalInt("experience_years", form.ExperienceYears); err != nil {
		return nil, err
	}
	if f.salary, err = optionalInt("salary_expectation", form.SalaryExpectation); err != nil {
		return nil, err
	}

	for _, s := range strings.Split(form.Skills, ",") {
		if s = strings.TrimSpace(s); s != "" {
			f.skills = append(f.skills, s)
		}
	}
	return f, nil
}

func optionalInt(field, raw string) (*int, error) {
	s := optional(raw)
	if s == nil {
		return nil, nil
	}
	n, err := strconv.Atoi(*s)
	if err != nil || n < 0 {
		return nil, apperror.ValidationFields(fmt.Sprintf("Invalid %s", field), map[string]string{field: "must be a non-negative whole number"})
	}
	return &n, nil
}

// apply copies every supplied field onto c. Fields left blank on the form
// keep their stored value.
func (f *candidateFields) apply(c *model.Candidate) {
	if f.phone != nil {
		c.Phone = f.phone
	}
	if f.city != nil {
		c.LocationCity = f.city
	}
	if f.state != nil {
		c.LocationState = f.state
	}
	if f.linkedin != nil {
		c.LinkedinURL = f.linkedin
	}
	if f.employer != nil {
		c.CurrentEmployer = f.employer
	}
	if f.visa != nil {
		c.VisaStatus = f.visa
	}
	if f.experience != nil {
		c.ExperienceYears = f.experience
	}
	if f.salary != nil {
		c.SalaryExpectation = f.salary
	}
	if len(f.skills) > 0 {
		c.Skills = datatypes.JSONSlice[string](f.skills)
	}
}

// Apply handles a public job application: it finds or creates the candidate,
// stores the attached files and opens an application at resume_received.
func (uc *IntakeUsecase) Apply(ctx context.Context, ip string, jobID uuid.UUID, form dto.ApplyForm, files []FileUpload) (*model.Application, error) {
	job, err := uc.store.Jobs.FindJobByID(ctx, jobID)
	if err != nil && !repository.IsNotFound(err) {
		return nil, err
	}
	if err != nil || !job.AcceptsApplications() {
		return nil, apperror.NotFound("Job not found or no longer accepting applications")
	}

	fields, err := parseApplyForm(form)
	if err != nil {
		return nil, err
	}
	email := strings.ToLower(strings.TrimSpace(form.Email))

	existing, err := uc.store.Candidates.FindByEmail(ctx, email)
	switch {
	case err == nil:
		if _, err := uc.store.Applications.FindByJobAndCandidate(ctx, job.ID, existing.ID); err == nil {
			return nil, apperror.Conflict("You have already applied to this job")
		} else if !repository.IsNotFound(err) {
			return nil, err
		}
	case repository.IsNotFound(err):
		existing = nil
	default:
		return nil, err
	}

	candidateID := uuid.New()
	if existing != nil {
		candidateID = existing.ID
	}

	docs := make([]*model.Document, 0, len(files))
	var written []string
	for _, f := range files {
		stored, ok, err := storeUpload(uc.storage, f, candidateID)
		if err != nil {
			uc.storage.DeleteAll(written)
			return nil, err
		}
		if !ok {
			continue
		}
		written = append(written, stored.StoragePath)
		docs = append(docs, &model.Document{
			CandidateID:      candidateID,
			DocType:          DocTypeForField(f.Field),
			OriginalFilename: f.Filename,
			StoragePath:      stored.StoragePath,
			FileSizeBytes:    stored.SizeBytes,
			MimeType:         stored.MimeType,
		})
	}

	app := &model.Application{
		JobID:               job.ID,
		CandidateID:         candidateID,
		Stage:               model.StageResumeReceived,
		AssignedRecruiterID: job.AssignedRecruiterID,
	}

	err = uc.store.Transaction(ctx, func(tx *repository.Store) error {
		if existing != nil {
			fields.apply(existing)
			if err := tx.Candidates.Save(ctx, existing); err != nil {
				return err
			}
		} else {
			c := &model.Candidate{
				ID:        candidateID,
				FirstName: strings.TrimSpace(form.FirstName),
				LastName:  strings.TrimSpace(form.LastName),
				Email:     email,
				Source:    model.SourceJobBoard,
			}
			fields.apply(c)
			if err := tx.Candidates.Create(ctx, c); err != nil {
				if repository.IsDuplicate(err) {
					return apperror.Conflict("An application for this email is already being processed")
				}
				return err
			}
		}

		if err := tx.Applications.Create(ctx, app); err != nil {
			if repository.IsDuplicate(err) {
				return apperror.Conflict("You have already applied to this job")
			}
			return err
		}

		for _, d := range docs {
			d.ApplicationID = &app.ID
			if err := tx.Documents.Create(ctx, d); err != nil {
				return err
			}
		}

		return uc.audit.Write(ctx, tx.AuditLogs, service.AuditParams{
			EntityType: model.EntityApplication,
			EntityID:   app.ID,
			Action:     model.ActionCreated,
			NewValue: map[string]any{
				"stage":        app.Stage,
				"job_id":       job.ID,
				"candidate_id": candidateID,
				"documents":    len(docs),
			},
			IPAddress: ip,
		})
	})
	if err != nil {
		uc.storage.DeleteAll(written)
		return nil, err
	}

	for _, d := range docs {
		indexResume(ctx, uc.store.Candidates, uc.extract, d)
	}
	return app, nil
}
