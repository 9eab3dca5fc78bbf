package repository

import (
	"errors"
	"fmt"
	"log"

	"github.com/KwameAlfred37/MedFinderNew/src/models"

	"gorm.io/gorm"
)

// DefaultChatHistoryLimit is applied when a caller asks for no particular
// message count.
const DefaultChatHistoryLimit = 50

// ChatRepository is the append-only chat message log.
type ChatRepository interface {
	SaveMessage(message *models.ChatMessage) error
	GetMessages(userID, sessionID string, limit int) ([]models.ChatMessage, error)
}

type chatRepository struct {
	db *gorm.DB
}

// NewChatRepository creates a new instance of ChatRepository.
func NewChatRepository(db *gorm.DB) ChatRepository {
	return &chatRepository{db: db}
}

// SaveMessage persists one immutable chat turn.
func (r *chatRepository) SaveMessage(message *models.ChatMessage) error {
	if message.UserID == "" && message.SessionID == "" {
		return errors.New("chat message requires a user ID or a session ID")
	}
	if message.Message == "" {
		return errors.New("chat message text cannot be empty")
	}

	if err := r.db.Create(message).Error; err != nil {
		return fmt.Errorf("failed to save chat message: %w", err)
	}
	log.Printf("INFO: [ChatRepository] Saved message %s (bot=%t) for user=%q session=%q", message.ID, message.IsFromBot, message.UserID, message.SessionID)
	return nil
}

// GetMessages returns the most recent messages for one identity in
// descending creation order. Callers must supply a user ID or a session ID;
// with neither there is nothing to look up.
func (r *chatRepository) GetMessages(userID, sessionID string, limit int) ([]models.ChatMessage, error) {
	if limit <= 0 {
		limit = DefaultChatHistoryLimit
	}

	tx := r.db.Model(&models.ChatMessage{})
	switch {
	case userID != "":
		tx = tx.Where("user_id = ?", userID)
	case sessionID != "":
		tx = tx.Where("session_id = ?", sessionID)
	default:
		return []models.ChatMessage{}, nil
	}

	var messages []models.ChatMessage
	err := tx.Order("created_at DESC").Limit(limit).Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch chat messages: %w", err)
	}
	return messages, nil
}
