// file: internals/features/users/user/dto/user_dto.go
package dto

import (
	"time"

	"github.com/google/uuid"

	umodel "akademiku_backend/internals/features/users/user/model"
)

type RegisterRequest struct {
	UserName     string `json:"user_name" validate:"required,min=3,max=60"`
	UserEmail    string `json:"user_email" validate:"required,email,max=255"`
	UserPassword string `json:"user_password" validate:"required,min=8,max=72"`
	UserRole     string `json:"user_role" validate:"omitempty,oneof=student teacher"`
}

type LoginRequest struct {
	UserEmail    string `json:"user_email" validate:"required,email"`
	UserPassword string `json:"user_password" validate:"required"`
}

type LoginResponse struct {
	AccessToken string        `json:"access_token"`
	ExpiresAt   time.Time     `json:"expires_at"`
	User        *UserResponse `json:"user"`
}

type UserResponse struct {
	UserID        uuid.UUID       `json:"user_id"`
	UserName      string          `json:"user_name"`
	UserEmail     string          `json:"user_email"`
	UserRole      umodel.UserRole `json:"user_role"`
	UserIsActive  bool            `json:"user_is_active"`
	UserCreatedAt time.Time       `json:"user_created_at"`
}

func FromUserModel(m *umodel.UserModel) *UserResponse {
	return &UserResponse{
		UserID:        m.UserID,
		UserName:      m.UserName,
		UserEmail:     m.UserEmail,
		UserRole:      m.UserRole,
		UserIsActive:  m.UserIsActive,
		UserCreatedAt: m.UserCreatedAt,
	}
}
