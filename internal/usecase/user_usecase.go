package usecase

import (
	"context"
	"log"
	"strings"

	"github.com/fadilmartias/atobs/internal/apperror"
	"github.com/fadilmartias/atobs/internal/dto"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/repository"
	"github.com/fadilmartias/atobs/internal/service"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type UserUsecase struct {
	store *repository.Store
	audit *service.AuditService
	cost  int
}

func NewUserUsecase(store *repository.Store, audit *service.AuditService) *UserUsecase {
	return &UserUsecase{store: store, audit: audit, cost: bcrypt.DefaultCost}
}

func (uc *UserUsecase) List(ctx context.Context) ([]model.User, error) {
	return uc.store.Users.List(ctx)
}

func (uc *UserUsecase) ListRecruiters(ctx context.Context) ([]model.User, error) {
	return uc.store.Users.ListRecruiters(ctx)
}

func (uc *UserUsecase) Create(ctx context.Context, actor Actor, req *dto.CreateUserRequest) (*model.User, error) {
	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := uc.store.Users.FindByEmail(ctx, email); err == nil {
		return nil, apperror.Conflict("Email already in use")
	} else if !repository.IsNotFound(err) {
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), uc.cost)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		Role:         model.Role(req.Role),
		IsActive:     true,
	}

	err = uc.store.Transaction(ctx, func(tx *repository.Store) error {
		if err := tx.Users.Create(ctx, user); err != nil {
			if repository.IsDuplicate(err) {
				return apperror.Conflict("Email already in use")
			}
			return err
		}
		return uc.audit.Write(ctx, tx.AuditLogs, service.AuditParams{
			EntityType:  model.EntityUser,
			EntityID:    user.ID,
			Action:      model.ActionCreated,
			NewValue:    map[string]any{"email": user.Email, "role": user.Role},
			PerformedBy: actor.ref(),
			IPAddress:   actor.IP,
		})
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// Update changes role, active flag or name. An admin cannot deactivate
// their own account.
func (uc *UserUsecase) Update(ctx context.Context, actor Actor, id uuid.UUID, req *dto.UpdateUserRequest) (*model.User, error) {
	if id == actor.UserID && req.IsActive != nil && !*req.IsActive {
		return nil, apperror.Validation("Cannot deactivate your own account")
	}

	fields := map[string]any{}
	if req.Role != nil && *req.Role != "" {
		fields["role"] = model.Role(*req.Role)
	}
	if req.IsActive != nil {
		fields["is_active"] = *req.IsActive
	}
	if req.FullName != nil && strings.TrimSpace(*req.FullName) != "" {
		fields["full_name"] = strings.TrimSpace(*req.FullName)
	}

	var user *model.User
	err := uc.store.Transaction(ctx, func(tx *repository.Store) error {
		before, err := tx.Users.FindByID(ctx, id)
		if err != nil {
			return notFound(err, "User not found")
		}
		if len(fields) > 0 {
			if err := tx.Users.Update(ctx, id, fields); err != nil {
				return err
			}
			err = uc.audit.Write(ctx, tx.AuditLogs, service.AuditParams{
				EntityType:  model.EntityUser,
				EntityID:    id,
				Action:      model.ActionUpdated,
				OldValue:    map[string]any{"role": before.Role, "is_active": before.IsActive, "full_name": before.FullName},
				NewValue:    fields,
				PerformedBy: actor.ref(),
				IPAddress:   actor.IP,
			})
			if err != nil {
				return err
			}
		}
		user, err = tx.Users.FindByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}
	return user, nil
}

// EnsureAdmin creates the first admin account when the users table is
// empty and credentials are configured.
func (uc *UserUsecase) EnsureAdmin(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return nil
	}
	n, err := uc.store.Users.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	_, err = uc.Create(ctx, Actor{}, &dto.CreateUserRequest{
		Email:    email,
		Password: password,
		FullName: "Administrator",
		Role:     string(model.RoleAdmin),
	})
	if err != nil {
		return err
	}
	log.Printf("[bootstrap] created admin account %s", email)
	return nil
}
