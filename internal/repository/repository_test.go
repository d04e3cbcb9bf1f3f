package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/testutil"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransactionRollsBack(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	store := NewStore(db)
	boom := errors.New("boom")

	err := store.Transaction(ctx, func(tx *Store) error {
		if err := tx.Candidates.Create(ctx, &model.Candidate{FirstName: "A", LastName: "B", Email: "ab@example.com"}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	_, err = store.Candidates.FindByEmail(ctx, "ab@example.com")
	assert.True(t, IsNotFound(err))
}

func TestDuplicateApplicationIsTranslated(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	store := NewStore(db)
	job := testutil.CreateJob(t, db, nil)
	cand := testutil.CreateCandidate(t, db, model.VisaH1B, "CA")
	testutil.CreateApplication(t, db, job, cand, model.StageResumeReceived, false)

	err := store.Applications.Create(ctx, &model.Application{JobID: job.ID, CandidateID: cand.ID, Stage: model.StageResumeReceived})
	assert.True(t, IsDuplicate(err), "got %v", err)
}

func TestApplicationListFilters(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	store := NewStore(db)
	recruiter := testutil.CreateUser(t, db, model.RoleRecruiter)
	job := testutil.CreateJob(t, db, recruiter)

	h1b := testutil.CreateCandidate(t, db, model.VisaH1B, "TX")
	require.NoError(t, store.Candidates.SetResumeText(ctx, h1b.ID, "Kubernetes and Terraform on AWS"))
	opt := testutil.CreateCandidate(t, db, model.VisaOPT, "NJ")
	gc := testutil.CreateCandidate(t, db, model.VisaGC, "NY")

	a1 := testutil.CreateApplication(t, db, job, h1b, model.StageVetted, true)
	testutil.CreateApplication(t, db, job, opt, model.StageVetted, false)
	testutil.CreateApplication(t, db, job, gc, model.StageScreened, true)
	require.NoError(t, store.Applications.UpdateFields(ctx, a1.ID, map[string]any{"assigned_recruiter_id": recruiter.ID}))
	require.NoError(t, db.Model(h1b).Update("current_employer", "Tata_Consultancy").Error)
	require.NoError(t, db.Model(opt).Update("current_employer", "TataXConsultancy").Error)

	processed := true
	cases := []struct {
		name   string
		filter ApplicationFilter
		want   int64
	}{
		{"all", ApplicationFilter{}, 3},
		{"stage", ApplicationFilter{Stage: model.StageVetted}, 2},
		{"visa", ApplicationFilter{VisaStatus: string(model.VisaOPT)}, 1},
		{"processed", ApplicationFilter{IsProcessed: &processed}, 2},
		{"recruiter", ApplicationFilter{RecruiterID: &recruiter.ID}, 1},
		{"resume text", ApplicationFilter{Search: "terraform"}, 1},
		{"underscore is literal", ApplicationFilter{Search: "tata_c"}, 1},
		{"lone underscore", ApplicationFilter{Search: "_"}, 1},
		{"percent is literal", ApplicationFilter{Search: "%"}, 0},
		{"backslash is literal", ApplicationFilter{Search: `\`}, 0},
		{"stage and visa", ApplicationFilter{Stage: model.StageScreened, VisaStatus: string(model.VisaH1B)}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			apps, total, err := store.Applications.List(ctx, tc.filter)
			require.NoError(t, err)
			assert.Equal(t, tc.want, total)
			assert.Len(t, apps, int(tc.want))
		})
	}

	apps, total, err := store.Applications.List(ctx, ApplicationFilter{Page: 2, Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, apps, 1)
	assert.NotNil(t, apps[0].Candidate)
}

func TestUpdateFieldsMissingRow(t *testing.T) {
	db := testutil.NewDB(t)
	err := NewStore(db).Applications.UpdateFields(context.Background(), uuid.New(), map[string]any{"is_processed": true})
	assert.True(t, IsNotFound(err))
}

func TestSearchPublishedJobs(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewDB(t)
	store := NewStore(db)

	city := "Austin"
	open := testutil.CreateJob(t, db, nil)
	require.NoError(t, db.Model(open).Update("location_city", city).Error)

	draft := testutil.CreateJob(t, db, nil)
	require.NoError(t, db.Model(draft).Update("is_published", false).Error)

	held := testutil.CreateJob(t, db, nil)
	require.NoError(t, db.Model(held).Update("status", model.JobStatusOnHold).Error)

	jobs, err := store.Jobs.SearchPublished(ctx, PublicJobFilter{})
	require.NoError(t, err)
	require.Len(t, jobs, 1)
	assert.Equal(t, open.ID, jobs[0].ID)

	jobs, err = store.Jobs.SearchPublished(ctx, PublicJobFilter{Location: "austin", Search: "spring"})
	require.NoError(t, err)
	assert.Len(t, jobs, 1)

	jobs, err = store.Jobs.SearchPublished(ctx, PublicJobFilter{Location: "Denver"})
	require.NoError(t, err)
	assert.Empty(t, jobs)

	for _, search := range []string{"%", "_", "spring_boot"} {
		jobs, err = store.Jobs.SearchPublished(ctx, PublicJobFilter{Search: search})
		require.NoError(t, err)
		assert.Empty(t, jobs, search)
	}
}
