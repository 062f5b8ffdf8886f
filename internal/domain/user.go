package domain

import (
	"time"

	"ecomcore-backend/internal/constants"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// User is a staff member or customer account.
type User struct {
	UserID       uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	FirstName    string         `gorm:"column:first_name;not null" json:"first_name"`
	LastName     string         `gorm:"column:last_name;not null" json:"last_name"`
	Phone        *string        `gorm:"column:phone" json:"phone"`
	PasswordHash string         `gorm:"column:password_hash" json:"-"`
	Role         constants.Role `gorm:"column:role;not null;default:customer" json:"role"`
	TokenVersion int            `gorm:"column:token_version;not null;default:0" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}

// RevokeTokens bumps the user's token version so every access token issued before the
// call stops verifying.
func RevokeTokens(db *gorm.DB, userID string) error {
	return db.Model(&User{}).Where("user_id = ?", userID).
		UpdateColumn("token_version", gorm.Expr("token_version + 1")).Error
}
