package service

import (
	"errors"
	"fmt"
	"time"

	"github.com/fadilmartias/atobs/internal/config"
	"github.com/fadilmartias/atobs/internal/model"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// AccessClaims is what handlers see about the caller.
type AccessClaims struct {
	UserID uuid.UUID  `json:"userId"`
	Email  string     `json:"email"`
	Role   model.Role `json:"role"`
	jwt.RegisteredClaims
}

type refreshClaims struct {
	UserID uuid.UUID `json:"userId"`
	jwt.RegisteredClaims
}

type TokenServiceInterface interface {
	SignAccess(user *model.User) (string, error)
	SignRefresh(userID uuid.UUID) (string, error)
	VerifyAccess(token string) (*AccessClaims, error)
	VerifyRefresh(token string) (uuid.UUID, error)
	RefreshTTL() time.Duration
}

type TokenService struct {
	cfg *config.AuthConfig
	now func() time.Time
}

func NewTokenService(cfg *config.AuthConfig) *TokenService {
	return &TokenService{cfg: cfg, now: time.Now}
}

func (s *TokenService) RefreshTTL() time.Duration {
	return s.cfg.RefreshTTL
}

func (s *TokenService) SignAccess(user *model.User) (string, error) {
	now := s.now()
	claims := AccessClaims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.AccessTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.AccessSecret))
}

func (s *TokenService) SignRefresh(userID uuid.UUID) (string, error) {
	now := s.now()
	claims := refreshClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			ID:        uuid.NewString(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.cfg.RefreshTTL)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.cfg.RefreshSecret))
}

func (s *TokenService) VerifyAccess(token string) (*AccessClaims, error) {
	var claims AccessClaims
	if err := s.parse(token, s.cfg.AccessSecret, &claims); err != nil {
		return nil, err
	}
	return &claims, nil
}

func (s *TokenService) VerifyRefresh(token string) (uuid.UUID, error) {
	var claims refreshClaims
	if err := s.parse(token, s.cfg.RefreshSecret, &claims); err != nil {
		return uuid.Nil, err
	}
	return claims.UserID, nil
}

func (s *TokenService) parse(token, secret string, claims jwt.Claims) error {
	_, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
		return []byte(secret), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return fmt.Errorf("token expired: %w", err)
		}
		return fmt.Errorf("invalid token: %w", err)
	}
	return nil
}
