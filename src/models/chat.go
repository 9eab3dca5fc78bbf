package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ChatMessage is one turn in a chat thread. Exactly one of UserID or
// SessionID is set, depending on whether the sender was authenticated.
// Rows are immutable and never deleted.
type ChatMessage struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"userId,omitempty" gorm:"index"`
	SessionID string    `json:"sessionId,omitempty" gorm:"index"`
	Message   string    `json:"message" gorm:"not null"`
	IsFromBot bool      `json:"isFromBot" gorm:"default:false"`
	CreatedAt time.Time `json:"createdAt" gorm:"index"`
}

func (m *ChatMessage) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (ChatMessage) TableName() string {
	return "chat_messages"
}
