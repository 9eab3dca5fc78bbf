package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// UserSearch is a logged past query, attributed to an account or an
// anonymous session.
type UserSearch struct {
	ID        string    `json:"id" gorm:"primaryKey"`
	UserID    string    `json:"userId,omitempty" gorm:"index"`
	SessionID string    `json:"sessionId,omitempty" gorm:"index"`
	Query     string    `json:"query" gorm:"not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *UserSearch) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}

func (UserSearch) TableName() string {
	return "user_searches"
}

// SearchResponse is the combined search envelope returned by /api/search.
type SearchResponse struct {
	Medicines  []Medicine `json:"medicines"`
	Pharmacies []Pharmacy `json:"pharmacies"`
}
