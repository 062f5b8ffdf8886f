package auth

import (
	"context"
	"errors"
	"strings"

	"ecomcore-backend/internal/constants"
	"ecomcore-backend/internal/domain"
	"ecomcore-backend/internal/schemas"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const bcryptCost = 10

// UserFinder abstracts user lookup by email+password (for production GORM or test doubles).
type UserFinder interface {
	FindByEmailAndPassword(ctx context.Context, email, password string) (*domain.User, error)
}

// Service registers and authenticates users.
type Service struct {
	DB *gorm.DB
}

// Register creates a customer account. Staff accounts are created by admins.
func (s *Service) Register(ctx context.Context, in schemas.RegisterRequest) (*domain.User, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	var count int64
	if err := s.DB.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, ErrEmailTaken
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcryptCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		PasswordHash: string(hash),
		Role:         constants.Customer,
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return u, nil
}

// FindByEmailAndPassword returns the user when the password matches. Unknown email and
// wrong password both yield ErrInvalidCredentials.
func (s *Service) FindByEmailAndPassword(ctx context.Context, email, password string) (*domain.User, error) {
	var u domain.User
	err := s.DB.WithContext(ctx).Where("email = ?", strings.ToLower(strings.TrimSpace(email))).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if u.PasswordHash == "" {
		return nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return nil, ErrInvalidCredentials
	}
	return &u, nil
}

// RevokeTokens invalidates every access token issued to the user so far.
func (s *Service) RevokeTokens(ctx context.Context, userID string) error {
	return domain.RevokeTokens(s.DB.WithContext(ctx), userID)
}

// FindByID loads a user for /auth/me and bearer token checks.
func (s *Service) FindByID(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	if err := s.DB.WithContext(ctx).Where("user_id = ?", id).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}
