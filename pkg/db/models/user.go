package models

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered account that can own saved builds.
type User struct {
	ID           uuid.UUID  `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	Email        string     `gorm:"column:email;not null;uniqueIndex:users_email_key"`
	PasswordHash string     `gorm:"column:password_hash;not null"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime"`
	LastLoginAt  *time.Time `gorm:"column:last_login_at"`
}

// TableName overrides the GORM default.
func (User) TableName() string {
	return "users"
}

// UserPc links a user to a saved build.
type UserPc struct {
	ID        uuid.UUID `gorm:"column:id;type:uuid;default:gen_random_uuid();primaryKey"`
	UserID    uuid.UUID `gorm:"column:user_id;type:uuid;not null;uniqueIndex:user_pcs_user_pc_key"`
	PcID      uuid.UUID `gorm:"column:pc_id;type:uuid;not null;uniqueIndex:user_pcs_user_pc_key"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime"`
}

// TableName overrides the GORM default.
func (UserPc) TableName() string {
	return "user_pcs"
}
