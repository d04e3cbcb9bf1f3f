// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"fmt"
	"testing"

	"github.com/fadilmartias/atobs/internal/model"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDB opens a private in-memory SQLite database with the full schema.
func NewDB(t testing.TB) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared&_pragma=foreign_keys(1)", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(model.AllModels()...))
	return db
}

func CreateUser(t testing.TB, db *gorm.DB, role model.Role) *model.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)

	u := &model.User{
		Email:        fmt.Sprintf("%s-%s@atobs.test", role, uuid.NewString()[:8]),
		PasswordHash: string(hash),
		FullName:     "Test " + string(role),
		Role:         role,
		IsActive:     true,
	}
	require.NoError(t, db.WithContext(context.Background()).Create(u).Error)
	return u
}

// CreateJob inserts an open, published job.
func CreateJob(t testing.TB, db *gorm.DB, recruiter *model.User) *model.Job {
	t.Helper()

	job := &model.Job{
		Title:             "Senior Java Developer",
		PublicDescription: "Spring Boot microservices",
		JobType:           model.JobTypeFullTime,
		VisaSponsorship:   true,
		IsPublished:       true,
		Status:            model.JobStatusOpen,
	}
	if recruiter != nil {
		job.AssignedRecruiterID = &recruiter.ID
	}
	require.NoError(t, db.Create(job).Error)
	return job
}

func CreateCandidate(t testing.TB, db *gorm.DB, visa model.VisaStatus, state string) *model.Candidate {
	t.Helper()

	c := &model.Candidate{
		FirstName: "Priya",
		LastName:  "Sharma",
		Email:     fmt.Sprintf("priya-%s@example.com", uuid.NewString()[:8]),
		Source:    model.SourceInternal,
	}
	if visa != "" {
		c.VisaStatus = &visa
	}
	if state != "" {
		c.LocationState = &state
	}
	require.NoError(t, db.Create(c).Error)
	return c
}

func CreateApplication(t testing.TB, db *gorm.DB, job *model.Job, cand *model.Candidate, stage model.Stage, processed bool) *model.Application {
	t.Helper()

	app := &model.Application{
		JobID:       job.ID,
		CandidateID: cand.ID,
		Stage:       stage,
		IsProcessed: processed,
	}
	require.NoError(t, db.Create(app).Error)
	return app
}
