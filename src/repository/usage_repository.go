package repository

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/KwameAlfred37/MedFinderNew/src/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AnonymousUsageRepository tracks weekly chat usage per anonymous session.
type AnonymousUsageRepository interface {
	GetUsage(sessionID string) (*models.AnonymousChatUsage, error)
	RecordUsage(sessionID, ipAddress string, weekStart, now time.Time) (*models.AnonymousChatUsage, error)
}

type anonymousUsageRepository struct {
	db *gorm.DB
}

// NewAnonymousUsageRepository creates a new instance of AnonymousUsageRepository.
func NewAnonymousUsageRepository(db *gorm.DB) AnonymousUsageRepository {
	return &anonymousUsageRepository{db: db}
}

// GetUsage retrieves the current usage record for an anonymous session.
// If no record exists it returns (nil, nil); absence is not an error for
// admission checks.
func (r *anonymousUsageRepository) GetUsage(sessionID string) (*models.AnonymousChatUsage, error) {
	if sessionID == "" {
		return nil, errors.New("session ID cannot be empty")
	}

	var usage models.AnonymousChatUsage
	err := r.db.First(&usage, "session_id = ?", sessionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		log.Printf("ERROR: [UsageRepository] Failed to fetch usage for session %s: %v", sessionID, err)
		return nil, fmt.Errorf("failed to fetch usage for session %s: %w", sessionID, err)
	}
	return &usage, nil
}

// RecordUsage applies one chat send for an anonymous session as a single
// conditional upsert: a fresh session inserts with count 1, a stale week
// resets to 1, and an in-week record increments. The reset-or-increment
// choice happens inside the statement, so two concurrent sends cannot lose
// an increment or double-reset the window.
func (r *anonymousUsageRepository) RecordUsage(sessionID, ipAddress string, weekStart, now time.Time) (*models.AnonymousChatUsage, error) {
	if sessionID == "" {
		return nil, errors.New("session ID cannot be empty")
	}

	usage := models.AnonymousChatUsage{
		SessionID: sessionID,
		IPAddress: ipAddress,
		ChatCount: 1,
		WeekStart: weekStart,
		LastUsed:  now,
	}

	// Unqualified column names in DO UPDATE refer to the existing row on
	// both SQLite and PostgreSQL.
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "session_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"chat_count": gorm.Expr("CASE WHEN week_start < ? THEN 1 ELSE chat_count + 1 END", weekStart),
			"week_start": gorm.Expr("CASE WHEN week_start < ? THEN ? ELSE week_start END", weekStart, weekStart),
			"last_used":  now,
		}),
	}).Create(&usage).Error
	if err != nil {
		log.Printf("ERROR: [UsageRepository] Failed to record usage for session %s: %v", sessionID, err)
		return nil, fmt.Errorf("failed to record usage for session %s: %w", sessionID, err)
	}

	// The struct is not populated with the post-update state when the row
	// already existed, so re-fetch to return the actual counter.
	var current models.AnonymousChatUsage
	if fetchErr := r.db.First(&current, "session_id = ?", sessionID).Error; fetchErr != nil {
		log.Printf("ERROR: [UsageRepository] Failed to fetch usage for session %s after update: %v", sessionID, fetchErr)
		return nil, fmt.Errorf("failed to fetch usage for session %s after update: %w", sessionID, fetchErr)
	}

	log.Printf("INFO: [UsageRepository] Recorded chat usage for session %s. Count this week: %d", sessionID, current.ChatCount)
	return &current, nil
}
