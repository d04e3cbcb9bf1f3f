package dto

import (
	"time"

	"github.com/fadilmartias/atobs/internal/model"
	"github.com/google/uuid"
)

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string  `json:"access_token"`
	User        UserDTO `json:"user"`
}

type RefreshResponse struct {
	AccessToken string `json:"access_token"`
}

type UserDTO struct {
	ID          uuid.UUID  `json:"id"`
	Email       string     `json:"email"`
	FullName    string     `json:"full_name"`
	Role        model.Role `json:"role"`
	IsActive    bool       `json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

func NewUserDTO(u *model.User) UserDTO {
	return UserDTO{
		ID:          u.ID,
		Email:       u.Email,
		FullName:    u.FullName,
		Role:        u.Role,
		IsActive:    u.IsActive,
		LastLoginAt: u.LastLoginAt,
		CreatedAt:   u.CreatedAt,
	}
}

type CreateUserRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required"`
	Role     string `json:"role" validate:"required,oneof=admin recruiter hiring_manager viewer"`
}

type UpdateUserRequest struct {
	Role     *string `json:"role" validate:"omitempty,oneof=admin recruiter hiring_manager viewer"`
	IsActive *bool   `json:"is_active"`
	FullName *string `json:"full_name" validate:"omitempty,min=1"`
}
