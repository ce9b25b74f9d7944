package domain

import "time"

// AuthToken is the opaque session credential handed out on login, one per user
type AuthToken struct {
	Key       string    `gorm:"column:token;type:varchar(40);primaryKey" json:"-"`
	UserID    uint64    `gorm:"column:user_id;uniqueIndex;not null" json:"-"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"-"`
}

func (AuthToken) TableName() string { return "auth_tokens" }
