// file: internals/features/users/user/model/token_blacklist_model.go
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Token yang sudah di-logout sebelum exp. Disapu periodik setelah lewat exp.
type TokenBlacklist struct {
	TokenBlacklistID        uuid.UUID      `gorm:"column:token_blacklist_id;type:uuid;primaryKey" json:"token_blacklist_id"`
	TokenBlacklistToken     string         `gorm:"column:token_blacklist_token;type:text;not null;index" json:"-"`
	TokenBlacklistExpiredAt time.Time      `gorm:"column:token_blacklist_expired_at;type:timestamptz;not null" json:"token_blacklist_expired_at"`
	TokenBlacklistCreatedAt time.Time      `gorm:"column:token_blacklist_created_at;type:timestamptz;not null;autoCreateTime" json:"token_blacklist_created_at"`
	TokenBlacklistDeletedAt gorm.DeletedAt `gorm:"column:token_blacklist_deleted_at;index" json:"-"`
}

func (TokenBlacklist) TableName() string { return "token_blacklists" }

func (m *TokenBlacklist) BeforeCreate(_ *gorm.DB) error {
	if m.TokenBlacklistID == uuid.Nil {
		m.TokenBlacklistID = uuid.New()
	}
	return nil
}
