package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

// Store bundles the repositories over one *gorm.DB handle so a usecase can
// run several of them inside a single transaction.
type Store struct {
	db           *gorm.DB
	Users        *UserRepository
	Jobs         *JobRepository
	Candidates   *CandidateRepository
	Applications *ApplicationRepository
	Notes        *NoteRepository
	Documents    *DocumentRepository
	AuditLogs    *AuditLogRepository
}

func NewStore(db *gorm.DB) *Store {
	return &Store{
		db:           db,
		Users:        NewUserRepository(db),
		Jobs:         NewJobRepository(db),
		Candidates:   NewCandidateRepository(db),
		Applications: NewApplicationRepository(db),
		Notes:        NewNoteRepository(db),
		Documents:    NewDocumentRepository(db),
		AuditLogs:    NewAuditLogRepository(db),
	}
}

// Transaction runs fn against a Store bound to a new transaction. Returning
// an error from fn rolls everything back.
func (s *Store) Transaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(NewStore(tx))
	})
}

// IsNotFound reports whether err is gorm's record-not-found error.
func IsNotFound(err error) bool {
	return errors.Is(err, gorm.ErrRecordNotFound)
}

// IsDuplicate reports whether err is a unique constraint violation. It
// relies on the connection being opened with TranslateError enabled.
func IsDuplicate(err error) bool {
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
