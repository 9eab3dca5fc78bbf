package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AnonymousChatUsage tracks the weekly chat counter for one anonymous
// session. ChatCount resets to 1 on the first send of a new week; WeekStart
// is always the boundary of the week that LastUsed falls in.
type AnonymousChatUsage struct {
	ID        string    `gorm:"primaryKey"`
	SessionID string    `gorm:"uniqueIndex;not null"`
	IPAddress string
	ChatCount int       `gorm:"default:0"`
	WeekStart time.Time `gorm:"not null"`
	CreatedAt time.Time
	LastUsed  time.Time
}

func (u *AnonymousChatUsage) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = uuid.NewString()
	}
	return nil
}

func (AnonymousChatUsage) TableName() string {
	return "anonymous_chat_usage"
}

// QuotaStatus is the quota view surfaced to callers on chat and init
// responses.
type QuotaStatus struct {
	Unlimited      bool       `json:"unlimited"`
	RemainingChats int        `json:"remainingChats"`
	IsLimitReached bool       `json:"isLimitReached"`
	WeekStart      *time.Time `json:"weekStart,omitempty"`
}

// InitResponse is returned by /api/init to bootstrap a client session.
type InitResponse struct {
	UserType  string      `json:"userType"` // "anonymous" or "account"
	UserID    string      `json:"userId"`
	SessionID string      `json:"sessionId,omitempty"`
	Quota     QuotaStatus `json:"quota"`
}
