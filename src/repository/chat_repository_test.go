package repository

import (
	"fmt"
	"testing"
	"time"

	"github.com/KwameAlfred37/MedFinderNew/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChatRepository(t *testing.T) {
	base := time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)

	t.Run("Messages require some identity and some text", func(t *testing.T) {
		repo := NewChatRepository(newTestDB(t))
		assert.Error(t, repo.SaveMessage(&models.ChatMessage{Message: "hello"}))
		assert.Error(t, repo.SaveMessage(&models.ChatMessage{SessionID: "session-1"}))
	})

	t.Run("History comes back newest first", func(t *testing.T) {
		repo := NewChatRepository(newTestDB(t))
		for i := 0; i < 3; i++ {
			require.NoError(t, repo.SaveMessage(&models.ChatMessage{
				SessionID: "session-1",
				Message:   fmt.Sprintf("message %d", i),
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}))
		}

		messages, err := repo.GetMessages("", "session-1", 0)
		require.NoError(t, err)
		require.Len(t, messages, 3)
		assert.Equal(t, "message 2", messages[0].Message)
		assert.Equal(t, "message 0", messages[2].Message)
	})

	t.Run("Limit truncates to the most recent messages", func(t *testing.T) {
		repo := NewChatRepository(newTestDB(t))
		for i := 0; i < 5; i++ {
			require.NoError(t, repo.SaveMessage(&models.ChatMessage{
				SessionID: "session-1",
				Message:   fmt.Sprintf("message %d", i),
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}))
		}

		messages, err := repo.GetMessages("", "session-1", 2)
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.Equal(t, "message 4", messages[0].Message)
		assert.Equal(t, "message 3", messages[1].Message)
	})

	t.Run("Account and session threads are isolated", func(t *testing.T) {
		repo := NewChatRepository(newTestDB(t))
		require.NoError(t, repo.SaveMessage(&models.ChatMessage{UserID: "user-1", Message: "from the account", CreatedAt: base}))
		require.NoError(t, repo.SaveMessage(&models.ChatMessage{SessionID: "session-1", Message: "from the session", CreatedAt: base}))

		accountThread, err := repo.GetMessages("user-1", "", 0)
		require.NoError(t, err)
		require.Len(t, accountThread, 1)
		assert.Equal(t, "from the account", accountThread[0].Message)

		sessionThread, err := repo.GetMessages("", "session-1", 0)
		require.NoError(t, err)
		require.Len(t, sessionThread, 1)
		assert.Equal(t, "from the session", sessionThread[0].Message)
	})

	t.Run("No identity at all yields an empty history", func(t *testing.T) {
		repo := NewChatRepository(newTestDB(t))
		messages, err := repo.GetMessages("", "", 0)
		assert.NoError(t, err)
		assert.Empty(t, messages)
	})

	t.Run("Bot flag survives the round trip", func(t *testing.T) {
		repo := NewChatRepository(newTestDB(t))
		require.NoError(t, repo.SaveMessage(&models.ChatMessage{SessionID: "session-1", Message: "hi", CreatedAt: base}))
		require.NoError(t, repo.SaveMessage(&models.ChatMessage{SessionID: "session-1", Message: "hello there", IsFromBot: true, CreatedAt: base.Add(time.Second)}))

		messages, err := repo.GetMessages("", "session-1", 0)
		require.NoError(t, err)
		require.Len(t, messages, 2)
		assert.True(t, messages[0].IsFromBot)
		assert.False(t, messages[1].IsFromBot)
	})
}

func TestSearchRepository(t *testing.T) {
	base := time.Date(2025, 6, 16, 9, 0, 0, 0, time.UTC)

	t.Run("History is attributed and listed newest first", func(t *testing.T) {
		repo := NewSearchRepository(newTestDB(t))
		for i, q := range []string{"aspirin", "ibuprofen", "pharmacy near me"} {
			require.NoError(t, repo.Create(&models.UserSearch{
				SessionID: "session-1",
				Query:     q,
				CreatedAt: base.Add(time.Duration(i) * time.Minute),
			}))
		}
		require.NoError(t, repo.Create(&models.UserSearch{SessionID: "session-2", Query: "insulin", CreatedAt: base}))

		searches, err := repo.List("", "session-1", 0)
		require.NoError(t, err)
		require.Len(t, searches, 3)
		assert.Equal(t, "pharmacy near me", searches[0].Query)
		assert.Equal(t, "aspirin", searches[2].Query)
	})

	t.Run("Records without any identity are rejected", func(t *testing.T) {
		repo := NewSearchRepository(newTestDB(t))
		assert.Error(t, repo.Create(&models.UserSearch{Query: "aspirin"}))
	})

	t.Run("No identity yields an empty history", func(t *testing.T) {
		repo := NewSearchRepository(newTestDB(t))
		searches, err := repo.List("", "", 0)
		assert.NoError(t, err)
		assert.Empty(t, searches)
	})
}
