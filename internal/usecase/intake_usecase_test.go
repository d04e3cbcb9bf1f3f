package usecase

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"testing"

	"github.com/fadilmartias/atobs/internal/apperror"
	"github.com/fadilmartias/atobs/internal/dto"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/service"
	"github.com/fadilmartias/atobs/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newIntake(t *testing.T) (*fixture, *IntakeUsecase, *fakeExtractor) {
	t.Helper()
	f := newFixture(t)
	uc := NewIntakeUsecase(f.store, f.storage, f.audit)
	ext := &fakeExtractor{text: "Java Spring Kafka"}
	uc.extract = ext.extract
	return f, uc, ext
}

func applyForm() dto.ApplyForm {
	return dto.ApplyForm{
		FirstName:       "Ravi",
		LastName:        "Kumar",
		Email:           "Ravi.Kumar@Example.com ",
		Phone:           "555-0100",
		LocationState:   "NJ",
		VisaStatus:      "h1b",
		ExperienceYears: "7",
		Skills:          "Java, Spring , ,Kafka",
	}
}

func countRows(t *testing.T, f *fixture, m any) int64 {
	t.Helper()
	var n int64
	require.NoError(t, f.db.Model(m).Count(&n).Error)
	return n
}

func TestApplyCreatesCandidateApplicationAndDocuments(t *testing.T) {
	ctx := context.Background()
	f, uc, ext := newIntake(t)
	recruiter := testutil.CreateUser(t, f.db, model.RoleRecruiter)
	job := testutil.CreateJob(t, f.db, recruiter)

	app, err := uc.Apply(ctx, "203.0.113.9", job.ID, applyForm(), []FileUpload{
		upload("resume", "ravi_cv.pdf", "application/pdf", pdfBytes),
		upload("passport", "passport.png", "", pngBytes),
	})
	require.NoError(t, err)
	assert.Equal(t, model.StageResumeReceived, app.Stage)
	assert.False(t, app.IsProcessed)
	require.NotNil(t, app.AssignedRecruiterID)
	assert.Equal(t, recruiter.ID, *app.AssignedRecruiterID)

	cand, err := f.store.Candidates.FindByEmail(ctx, "ravi.kumar@example.com")
	require.NoError(t, err)
	assert.Equal(t, app.CandidateID, cand.ID)
	assert.Equal(t, model.SourceJobBoard, cand.Source)
	require.NotNil(t, cand.VisaStatus)
	assert.Equal(t, model.VisaH1B, *cand.VisaStatus)
	require.NotNil(t, cand.ExperienceYears)
	assert.Equal(t, 7, *cand.ExperienceYears)
	assert.Equal(t, []string{"Java", "Spring", "Kafka"}, []string(cand.Skills))
	require.NotNil(t, cand.ResumeText)
	assert.Equal(t, "Java Spring Kafka", *cand.ResumeText)

	docs, err := f.store.Documents.ListByApplications(ctx, []uuid.UUID{app.ID})
	require.NoError(t, err)
	require.Len(t, docs, 2)
	types := map[model.DocType]model.Document{}
	for _, d := range docs {
		types[d.DocType] = d
		assert.FileExists(t, filepath.FromSlash(d.StoragePath))
		assert.Equal(t, filepath.Join(f.dir, cand.ID.String()), filepath.Dir(filepath.FromSlash(d.StoragePath)))
	}
	assert.Equal(t, "image/png", types[model.DocPassport].MimeType)
	assert.EqualValues(t, len(pdfBytes), types[model.DocResume].FileSizeBytes)
	assert.Len(t, ext.paths, 1)

	logs, err := f.store.AuditLogs.ListByEntity(ctx, model.EntityApplication, app.ID, 0)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	assert.Equal(t, model.ActionCreated, logs[0].Action)
	require.NotNil(t, logs[0].IPAddress)
	assert.Equal(t, "203.0.113.9", *logs[0].IPAddress)
}

func TestApplyTwiceToSameJobConflicts(t *testing.T) {
	ctx := context.Background()
	f, uc, _ := newIntake(t)
	job := testutil.CreateJob(t, f.db, nil)

	_, err := uc.Apply(ctx, "", job.ID, applyForm(), nil)
	require.NoError(t, err)

	_, err = uc.Apply(ctx, "", job.ID, applyForm(), []FileUpload{upload("resume", "cv.pdf", "application/pdf", pdfBytes)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrConflict))

	assert.EqualValues(t, 1, countRows(t, f, &model.Application{}))
	assert.EqualValues(t, 1, countRows(t, f, &model.Candidate{}))
	assert.EqualValues(t, 0, countRows(t, f, &model.Document{}))
}

// racingStorage runs hook once, on the first Save. Apply saves files after
// its candidate and application lookups and before its transaction, so the
// hook stands in for a concurrent request landing in that gap.
type racingStorage struct {
	*service.StorageService
	hook func()
}

func (s *racingStorage) Save(r io.Reader, name, mimeType string, candidateID uuid.UUID) (*service.StoredFile, error) {
	if s.hook != nil {
		s.hook()
		s.hook = nil
	}
	return s.StorageService.Save(r, name, mimeType, candidateID)
}

func storedFiles(t *testing.T, dir string) []string {
	t.Helper()
	var files []string
	require.NoError(t, filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			files = append(files, path)
		}
		return err
	}))
	return files
}

func TestApplyConcurrentCandidateInsertConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := testutil.CreateJob(t, f.db, nil)
	storage := &racingStorage{StorageService: f.storage}
	storage.hook = func() {
		require.NoError(t, f.db.Create(&model.Candidate{
			FirstName: "Ravi",
			LastName:  "Kumar",
			Email:     "ravi.kumar@example.com",
		}).Error)
	}
	uc := NewIntakeUsecase(f.store, storage, f.audit)

	_, err := uc.Apply(ctx, "", job.ID, applyForm(), []FileUpload{upload("resume", "cv.pdf", "application/pdf", pdfBytes)})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrConflict))

	assert.EqualValues(t, 1, countRows(t, f, &model.Candidate{}))
	assert.EqualValues(t, 0, countRows(t, f, &model.Application{}))
	assert.EqualValues(t, 0, countRows(t, f, &model.Document{}))
	assert.EqualValues(t, 0, countRows(t, f, &model.AuditLog{}))
	assert.Empty(t, storedFiles(t, f.dir))
}

func TestApplyConcurrentApplicationInsertConflicts(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	job := testutil.CreateJob(t, f.db, nil)
	cand := testutil.CreateCandidate(t, f.db, model.VisaOPT, "NJ")
	storage := &racingStorage{StorageService: f.storage}
	storage.hook = func() {
		testutil.CreateApplication(t, f.db, job, cand, model.StageResumeReceived, false)
	}
	uc := NewIntakeUsecase(f.store, storage, f.audit)

	form := applyForm()
	form.Email = cand.Email
	_, err := uc.Apply(ctx, "", job.ID, form, []FileUpload{
		upload("resume", "cv.pdf", "application/pdf", pdfBytes),
		upload("passport", "passport.png", "image/png", pngBytes),
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, apperror.ErrConflict))
	assert.Contains(t, err.Error(), "You have already applied to this job")

	assert.EqualValues(t, 1, countRows(t, f, &model.Application{}))
	assert.EqualValues(t, 0, countRows(t, f, &model.Document{}))
	assert.Empty(t, storedFiles(t, f.dir))

	stored, err := f.store.Candidates.FindByID(ctx, cand.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.ExperienceYears, "candidate update rolls back with the application")
}

func TestApplyToSecondJobReusesCandidate(t *testing.T) {
	ctx := context.Background()
	f, uc, _ := newIntake(t)
	first := testutil.CreateJob(t, f.db, nil)
	second := testutil.CreateJob(t, f.db, nil)

	a1, err := uc.Apply(ctx, "", first.ID, applyForm(), nil)
	require.NoError(t, err)

	form := applyForm()
	form.FirstName = "Ravindra"
	form.LastName = "K"
	form.Phone = ""
	form.LocationState = "TX"
	form.CurrentEmployer = "Infosys"
	a2, err := uc.Apply(ctx, "", second.ID, form, nil)
	require.NoError(t, err)

	assert.Equal(t, a1.CandidateID, a2.CandidateID)
	assert.EqualValues(t, 1, countRows(t, f, &model.Candidate{}))

	cand, err := f.store.Candidates.FindByID(ctx, a1.CandidateID)
	require.NoError(t, err)
	require.NotNil(t, cand.Phone)
	assert.Equal(t, "555-0100", *cand.Phone, "blank fields keep the stored value")
	assert.Equal(t, "TX", *cand.LocationState)
	assert.Equal(t, "Infosys", *cand.CurrentEmployer)
	assert.Equal(t, "Ravi", cand.FirstName, "names are kept from the first application")
	assert.Equal(t, "Kumar", cand.LastName)
}

func TestApplyDropsDisallowedFiles(t *testing.T) {
	ctx := context.Background()
	f, uc, ext := newIntake(t)
	job := testutil.CreateJob(t, f.db, nil)

	app, err := uc.Apply(ctx, "", job.ID, applyForm(), []FileUpload{
		upload("other", "run.exe", "application/x-msdownload", elfBytes),
		upload("other", "payload", "application/octet-stream", elfBytes),
		upload("visaDoc", "stamp.png", "image/png", pngBytes),
	})
	require.NoError(t, err)

	docs, err := f.store.Documents.ListByApplications(ctx, []uuid.UUID{app.ID})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, model.DocVisaStamp, docs[0].DocType)
	assert.Empty(t, ext.paths)

	entries, err := os.ReadDir(filepath.Join(f.dir, app.CandidateID.String()))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestApplyJobMustAcceptApplications(t *testing.T) {
	ctx := context.Background()
	f, uc, _ := newIntake(t)
	job := testutil.CreateJob(t, f.db, nil)
	require.NoError(t, f.db.Model(job).Update("status", model.JobStatusClosed).Error)

	_, err := uc.Apply(ctx, "", job.ID, applyForm(), nil)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))

	_, err = uc.Apply(ctx, "", uuid.New(), applyForm(), nil)
	assert.True(t, errors.Is(err, apperror.ErrNotFound))
}

func TestApplyValidation(t *testing.T) {
	f, uc, _ := newIntake(t)
	job := testutil.CreateJob(t, f.db, nil)

	cases := map[string]func(*dto.ApplyForm){
		"missing first name": func(d *dto.ApplyForm) { d.FirstName = " " },
		"missing email":      func(d *dto.ApplyForm) { d.Email = "" },
		"bad email":          func(d *dto.ApplyForm) { d.Email = "ravi@localhost" },
		"bad visa":           func(d *dto.ApplyForm) { d.VisaStatus = "h2b" },
		"bad experience":     func(d *dto.ApplyForm) { d.ExperienceYears = "seven" },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			form := applyForm()
			mutate(&form)
			_, err := uc.Apply(context.Background(), "", job.ID, form, nil)
			assert.True(t, errors.Is(err, apperror.ErrValidation))
		})
	}
	assert.EqualValues(t, 0, countRows(t, f, &model.Candidate{}))
}

func TestApplyMissingFieldNamesIt(t *testing.T) {
	f, uc, _ := newIntake(t)
	job := testutil.CreateJob(t, f.db, nil)

	form := applyForm()
	form.LastName = ""
	_, err := uc.Apply(context.Background(), "", job.ID, form, nil)

	e, ok := apperror.As(err)
	require.True(t, ok)
	assert.Equal(t, "Missing required field: last_name", e.Message)
}

func TestDocTypeForField(t *testing.T) {
	assert.Equal(t, model.DocResume, DocTypeForField("resume"))
	assert.Equal(t, model.DocPassport, DocTypeForField("passport"))
	assert.Equal(t, model.DocVisaStamp, DocTypeForField("visa"))
	assert.Equal(t, model.DocVisaStamp, DocTypeForField("visaDoc"))
	assert.Equal(t, model.DocEAD, DocTypeForField("ead"))
	assert.Equal(t, model.DocOther, DocTypeForField("cover_letter"))
}
