package repository

import (
	"errors"
	"fmt"

	"github.com/KwameAlfred37/MedFinderNew/src/models"

	"gorm.io/gorm"
)

// DefaultSearchHistoryLimit is applied when a caller asks for no particular
// history length.
const DefaultSearchHistoryLimit = 20

// SearchRepository records and lists past search submissions.
type SearchRepository interface {
	Create(search *models.UserSearch) error
	List(userID, sessionID string, limit int) ([]models.UserSearch, error)
}

type searchRepository struct {
	db *gorm.DB
}

// NewSearchRepository creates a new instance of SearchRepository.
func NewSearchRepository(db *gorm.DB) SearchRepository {
	return &searchRepository{db: db}
}

func (r *searchRepository) Create(search *models.UserSearch) error {
	if search.UserID == "" && search.SessionID == "" {
		return errors.New("search record requires a user ID or a session ID")
	}
	if err := r.db.Create(search).Error; err != nil {
		return fmt.Errorf("failed to record search: %w", err)
	}
	return nil
}

func (r *searchRepository) List(userID, sessionID string, limit int) ([]models.UserSearch, error) {
	if limit <= 0 {
		limit = DefaultSearchHistoryLimit
	}

	tx := r.db.Model(&models.UserSearch{})
	switch {
	case userID != "":
		tx = tx.Where("user_id = ?", userID)
	case sessionID != "":
		tx = tx.Where("session_id = ?", sessionID)
	default:
		return []models.UserSearch{}, nil
	}

	var searches []models.UserSearch
	err := tx.Order("created_at DESC").Limit(limit).Find(&searches).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch search history: %w", err)
	}
	return searches, nil
}
