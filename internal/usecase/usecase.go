package usecase

import (
	"strings"

	"github.com/fadilmartias/atobs/internal/apperror"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/repository"
	"github.com/google/uuid"
)

// Actor is the authenticated staff member behind a call. The zero Actor is
// an anonymous caller, such as a public applicant.
type Actor struct {
	UserID uuid.UUID
	Role   model.Role
	IP     string
}

func (a Actor) ref() *uuid.UUID {
	if a.UserID == uuid.Nil {
		return nil
	}
	id := a.UserID
	return &id
}

func (a Actor) IsAdmin() bool {
	return a.Role == model.RoleAdmin
}

// notFound turns gorm's record-not-found into an apperror with msg.
func notFound(err error, msg string) error {
	if repository.IsNotFound(err) {
		return apperror.NotFound(msg)
	}
	return err
}

// optional trims s and returns nil when nothing is left.
func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

func optionalPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return optional(*s)
}
