package services

import (
	"context"
	"fmt"
	"log"
	"math/rand"
	"strings"
	"time"

	"github.com/KwameAlfred37/MedFinderNew/src/models"
	"github.com/KwameAlfred37/MedFinderNew/src/repository"
)

// Quota notices composed by the chat service. They take precedence over the
// reply generator.
const (
	quotaWarningNotice   = "Just so you know, you have 1 free chat left this week. Sign in for unlimited chats."
	quotaExhaustedNotice = "You've used all your free chats for this week. Sign in to keep chatting without limits."
)

// ChatService is the chat message log plus the scripted assistant follow-up.
type ChatService interface {
	ListMessages(identity Identity, limit int) ([]models.ChatMessage, error)
	SendMessage(identity Identity, text, ipAddress string) (*models.ChatMessage, models.QuotaStatus, error)
}

type chatService struct {
	chatRepo repository.ChatRepository
	quota    QuotaService
	replier  ReplyGenerator
	fallback ReplyGenerator
	delayFn  func() time.Duration
}

// NewChatService creates a new ChatService. The replier generates the
// assistant follow-ups; the scripted replier is kept as a fallback when it
// fails.
func NewChatService(chatRepo repository.ChatRepository, quota QuotaService, replier ReplyGenerator) ChatService {
	return &chatService{
		chatRepo: chatRepo,
		quota:    quota,
		replier:  replier,
		fallback: NewScriptedReplier(),
		delayFn:  botReplyDelay,
	}
}

// botReplyDelay is the fixed artificial pause before the assistant answers,
// uniform between 1.0 and 1.5 seconds.
func botReplyDelay() time.Duration {
	return time.Second + time.Duration(rand.Int63n(int64(500*time.Millisecond)))
}

// ListMessages returns the identity's most recent messages, newest first.
func (s *chatService) ListMessages(identity Identity, limit int) ([]models.ChatMessage, error) {
	userID, sessionID := identity.UserAndSessionIDs()
	return s.chatRepo.GetMessages(userID, sessionID, limit)
}

// SendMessage admits, persists, and counts one user-authored message, then
// schedules the assistant follow-up. A quota-exhausted identity gets
// ErrQuotaExceeded and nothing is appended.
func (s *chatService) SendMessage(identity Identity, text, ipAddress string) (*models.ChatMessage, models.QuotaStatus, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, models.QuotaStatus{}, ErrEmptyMessage
	}

	status, err := s.quota.CheckAdmission(identity)
	if err != nil {
		return nil, models.QuotaStatus{}, fmt.Errorf("quota admission check failed: %w", err)
	}
	if !status.Unlimited && status.IsLimitReached {
		return nil, status, ErrQuotaExceeded
	}

	userID, sessionID := identity.UserAndSessionIDs()
	message := &models.ChatMessage{
		UserID:    userID,
		SessionID: sessionID,
		Message:   text,
		IsFromBot: false,
	}
	if err := s.chatRepo.SaveMessage(message); err != nil {
		return nil, status, err
	}

	recorded, err := s.quota.RecordUsage(identity, ipAddress)
	if err != nil {
		// The message is already stored; a failed counter update is logged
		// rather than surfaced. Approximate the post-send status from the
		// admission-time one so the response never reports a reached limit
		// the sender does not have.
		log.Printf("ERROR: [ChatService] Failed to record quota usage for %s/%s: %v", identity.Kind, identity.ID, err)
		if !status.Unlimited {
			if status.RemainingChats > 0 {
				status.RemainingChats--
			}
			status.IsLimitReached = status.RemainingChats == 0
		}
	} else {
		status = recorded
	}

	go func(status models.QuotaStatus, userText string) {
		time.Sleep(s.delayFn())
		s.deliverBotReply(identity, status, userText)
	}(status, text)

	return message, status, nil
}

// deliverBotReply appends the assistant follow-up for one accepted user
// message. Quota notices take precedence over the generated reply: the
// exhausted notice when this send used the last allotment, the one-time
// upsell warning when exactly one send remains.
func (s *chatService) deliverBotReply(identity Identity, status models.QuotaStatus, userText string) {
	var reply string
	switch {
	case !status.Unlimited && status.RemainingChats == 0:
		reply = quotaExhaustedNotice
	case !status.Unlimited && status.RemainingChats == 1:
		reply = quotaWarningNotice
	default:
		reply = s.generateReply(identity, userText)
	}

	userID, sessionID := identity.UserAndSessionIDs()
	botMessage := &models.ChatMessage{
		UserID:    userID,
		SessionID: sessionID,
		Message:   reply,
		IsFromBot: true,
	}
	if err := s.chatRepo.SaveMessage(botMessage); err != nil {
		log.Printf("ERROR: [ChatService] Failed to save assistant reply for %s/%s: %v", identity.Kind, identity.ID, err)
	}
}

func (s *chatService) generateReply(identity Identity, userText string) string {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	userID, sessionID := identity.UserAndSessionIDs()
	history, err := s.chatRepo.GetMessages(userID, sessionID, repository.DefaultChatHistoryLimit)
	if err != nil {
		log.Printf("WARN: [ChatService] Failed to load history for reply generation: %v", err)
	}

	reply, err := s.replier.NextReply(ctx, history, userText)
	if err != nil {
		log.Printf("WARN: [ChatService] Reply generator failed, falling back to scripted reply: %v", err)
		reply, _ = s.fallback.NextReply(ctx, history, userText)
	}
	return reply
}
