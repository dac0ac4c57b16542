// file: internals/features/users/user/service/auth_service.go
package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v4"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"akademiku_backend/internals/configs"
	umodel "akademiku_backend/internals/features/users/user/model"
)

/* =========================================================
   AUTH SERVICE
   Register + login + blacklist-on-logout. Access token saja,
   umur pendek (default 24 jam, override lewat env).
========================================================= */

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserInactive       = errors.New("user inactive")
)

const defaultTokenTTL = 24 * time.Hour

type AuthService struct {
	DB  *gorm.DB
	Now func() time.Time
}

func NewAuthService(db *gorm.DB) *AuthService {
	return &AuthService{DB: db, Now: time.Now}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string, role umodel.UserRole) (*umodel.UserModel, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var count int64
	if err := s.DB.WithContext(ctx).
		Model(&umodel.UserModel{}).
		Where("user_email = ?", email).
		Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	u := &umodel.UserModel{
		UserName:     strings.TrimSpace(name),
		UserEmail:    email,
		UserPassword: string(hash),
		UserRole:     role,
		UserIsActive: true,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (*umodel.UserModel, string, time.Time, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	var u umodel.UserModel
	if err := s.DB.WithContext(ctx).
		First(&u, "user_email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", time.Time{}, ErrInvalidCredentials
		}
		return nil, "", time.Time{}, err
	}
	if !u.UserIsActive {
		return nil, "", time.Time{}, ErrUserInactive
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.UserPassword), []byte(password)); err != nil {
		return nil, "", time.Time{}, ErrInvalidCredentials
	}

	token, exp, err := s.issueToken(&u)
	if err != nil {
		return nil, "", time.Time{}, err
	}
	return &u, token, exp, nil
}

func (s *AuthService) issueToken(u *umodel.UserModel) (string, time.Time, error) {
	ttl := defaultTokenTTL
	if raw := configs.GetEnv("JWT_TTL_HOURS"); raw != "" {
		if d, err := time.ParseDuration(raw + "h"); err == nil && d > 0 {
			ttl = d
		}
	}
	exp := s.Now().Add(ttl)

	claims := jwt.MapClaims{
		"id":        u.UserID.String(),
		"role":      string(u.UserRole),
		"user_name": u.UserName,
		"exp":       exp.Unix(),
		"iat":       s.Now().Unix(),
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(configs.JWTSecret))
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, exp, nil
}

// Logout: masukkan token ke blacklist sampai exp-nya lewat.
func (s *AuthService) Logout(ctx context.Context, token string, expiredAt time.Time) error {
	return s.DB.WithContext(ctx).Create(&umodel.TokenBlacklist{
		TokenBlacklistToken:     token,
		TokenBlacklistExpiredAt: expiredAt,
	}).Error
}
