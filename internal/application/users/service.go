package users

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"strings"

	"ecomcore-backend/internal/constants"
	"ecomcore-backend/internal/domain"
	"ecomcore-backend/internal/rbac"
	"ecomcore-backend/internal/schemas"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound  = errors.New("User not found")
	ErrEmailTaken    = errors.New("Email already registered")
	ErrWrongPassword = errors.New("Current password is incorrect")
	ErrNotCustomer   = errors.New("Account is not a customer")
)

// SessionRevoker drops every session of a user after a credential change.
type SessionRevoker interface {
	DestroyAll(ctx context.Context, userID string) error
}

// Service holds DB and the session store for account operations.
type Service struct {
	DB       *gorm.DB
	Sessions SessionRevoker
}

// CreatedUser is a new staff account with its one-time temporary password.
type CreatedUser struct {
	User              *domain.User `json:"user"`
	TemporaryPassword string       `json:"temporary_password"`
}

// CreateUser adds a staff account. The role has already been checked against the
// staff roles by the create_user schema.
func (s *Service) CreateUser(ctx context.Context, in schemas.CreateUserRequest) (*CreatedUser, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if err := s.ensureEmailFree(ctx, email, ""); err != nil {
		return nil, err
	}
	temp, err := temporaryPassword()
	if err != nil {
		return nil, err
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(temp), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	u := &domain.User{
		Email:        email,
		FirstName:    strings.TrimSpace(in.FirstName),
		LastName:     strings.TrimSpace(in.LastName),
		Role:         constants.Role(in.Role),
		PasswordHash: string(hash),
	}
	if err := s.DB.WithContext(ctx).Create(u).Error; err != nil {
		return nil, err
	}
	return &CreatedUser{User: u, TemporaryPassword: temp}, nil
}

// UpdateUser applies the fields present in in. A role change revokes the user's sessions
// and access tokens so the new permissions apply on the next login.
func (s *Service) UpdateUser(ctx context.Context, id string, in schemas.UpdateUserRequest) (*domain.User, error) {
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	updates := map[string]interface{}{}
	if in.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*in.Email))
		if err := s.ensureEmailFree(ctx, email, id); err != nil {
			return nil, err
		}
		updates["email"] = email
	}
	if in.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*in.LastName)
	}
	roleChanged := in.Role != nil && constants.Role(*in.Role) != u.Role
	if in.Role != nil {
		updates["role"] = *in.Role
	}
	if roleChanged {
		updates["token_version"] = gorm.Expr("token_version + 1")
	}
	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	if roleChanged {
		s.revoke(ctx, id)
	}
	return s.find(ctx, id)
}

// UpdateCustomer lets a customer edit their own profile; admins may edit any customer.
func (s *Service) UpdateCustomer(ctx context.Context, actor rbac.UserContext, id string, in schemas.UpdateCustomerRequest) (*domain.User, error) {
	if !actor.IsAuthenticated {
		return nil, rbac.ErrUnauthenticated
	}
	if !actor.CanAccessResource(id, true) {
		return nil, rbac.ErrForbidden
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return nil, err
	}
	if u.Role != constants.Customer {
		return nil, ErrNotCustomer
	}
	updates := map[string]interface{}{}
	if in.FirstName != nil {
		updates["first_name"] = strings.TrimSpace(*in.FirstName)
	}
	if in.LastName != nil {
		updates["last_name"] = strings.TrimSpace(*in.LastName)
	}
	if in.Phone != nil {
		updates["phone"] = strings.TrimSpace(*in.Phone)
	}
	if len(updates) > 0 {
		if err := s.DB.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.find(ctx, id)
}

// ChangePassword is owner-only: an admin cannot set another user's password here. It
// signs the user out everywhere.
func (s *Service) ChangePassword(ctx context.Context, actor rbac.UserContext, id string, in schemas.ChangePasswordRequest) error {
	if !actor.IsAuthenticated {
		return rbac.ErrUnauthenticated
	}
	if !actor.CanAccessResource(id, false) {
		return rbac.ErrForbidden
	}
	u, err := s.find(ctx, id)
	if err != nil {
		return err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(in.CurrentPassword)) != nil {
		return ErrWrongPassword
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(in.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	updates := map[string]interface{}{
		"password_hash": string(hash),
		"token_version": gorm.Expr("token_version + 1"),
	}
	if err := s.DB.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
		return err
	}
	s.revoke(ctx, id)
	return nil
}

func (s *Service) find(ctx context.Context, id string) (*domain.User, error) {
	var u domain.User
	err := s.DB.WithContext(ctx).Where("user_id = ?", id).First(&u).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &u, nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email, exceptID string) error {
	q := s.DB.WithContext(ctx).Model(&domain.User{}).Where("email = ?", email)
	if exceptID != "" {
		q = q.Where("user_id <> ?", exceptID)
	}
	var count int64
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return ErrEmailTaken
	}
	return nil
}

func (s *Service) revoke(ctx context.Context, userID string) {
	if s.Sessions == nil {
		return
	}
	if err := s.Sessions.DestroyAll(ctx, userID); err != nil {
		log.Warn().Err(err).Str("user_id", userID).Msg("revoke sessions failed")
	}
}

func temporaryPassword() (string, error) {
	b := make([]byte, 12)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
