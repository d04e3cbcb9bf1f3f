package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/fadilmartias/atobs/internal/apperror"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/fadilmartias/atobs/internal/repository"
	"github.com/fadilmartias/atobs/internal/service"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const invalidCredentials = "Invalid credentials"

// Session is the result of a successful login.
type Session struct {
	AccessToken  string
	RefreshToken string
	User         *model.User
}

type AuthUsecase struct {
	store  *repository.Store
	tokens service.TokenServiceInterface
	now    func() time.Time
}

func NewAuthUsecase(store *repository.Store, tokens service.TokenServiceInterface) *AuthUsecase {
	return &AuthUsecase{store: store, tokens: tokens, now: time.Now}
}

// Login checks the password and issues an access/refresh token pair.
// Unknown, inactive and wrong-password logins fail the same way.
func (uc *AuthUsecase) Login(ctx context.Context, email, password string) (*Session, error) {
	user, err := uc.store.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if repository.IsNotFound(err) {
			return nil, apperror.Unauthenticated(invalidCredentials)
		}
		return nil, err
	}
	if !user.IsActive {
		return nil, apperror.Unauthenticated(invalidCredentials)
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, apperror.Unauthenticated(invalidCredentials)
	}

	now := uc.now().UTC()
	if err := uc.store.Users.Update(ctx, user.ID, map[string]any{"last_login_at": now}); err != nil {
		return nil, err
	}
	user.LastLoginAt = &now

	access, err := uc.tokens.SignAccess(user)
	if err != nil {
		return nil, err
	}
	refresh, err := uc.tokens.SignRefresh(user.ID)
	if err != nil {
		return nil, err
	}
	return &Session{AccessToken: access, RefreshToken: refresh, User: user}, nil
}

// Refresh exchanges a refresh token for a new access token.
func (uc *AuthUsecase) Refresh(ctx context.Context, refreshToken string) (string, error) {
	if refreshToken == "" {
		return "", apperror.Unauthenticated("No refresh token")
	}
	userID, err := uc.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		return "", apperror.Unauthenticated("Invalid refresh token")
	}
	user, err := uc.store.Users.FindByID(ctx, userID)
	if err != nil || !user.IsActive {
		if err != nil && !repository.IsNotFound(err) {
			return "", err
		}
		return "", apperror.Unauthenticated("User not found or inactive")
	}
	return uc.tokens.SignAccess(user)
}

func (uc *AuthUsecase) Me(ctx context.Context, userID uuid.UUID) (*model.User, error) {
	user, err := uc.store.Users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFound(err, "User not found")
	}
	return user, nil
}
