package services

import (
	"log"
	"time"

	"github.com/KwameAlfred37/MedFinderNew/src/models"
	"github.com/KwameAlfred37/MedFinderNew/src/repository"
)

// QuotaService answers admission questions for chat sends and records
// usage. Registered accounts are always unlimited; anonymous sessions get a
// fixed weekly allotment.
type QuotaService interface {
	CheckAdmission(identity Identity) (models.QuotaStatus, error)
	RecordUsage(identity Identity, ipAddress string) (models.QuotaStatus, error)
}

type quotaService struct {
	usageRepo repository.AnonymousUsageRepository
	allotment int
	now       func() time.Time
}

// NewQuotaService creates a new QuotaService with the given weekly
// allotment for anonymous sessions.
func NewQuotaService(usageRepo repository.AnonymousUsageRepository, allotment int) QuotaService {
	return &quotaService{
		usageRepo: usageRepo,
		allotment: allotment,
		now:       time.Now,
	}
}

// WeekStart returns the quota window boundary for t: the most recent Sunday
// at 00:00 UTC. The window is pinned to UTC so every node computes the same
// boundary regardless of server timezone or DST.
func WeekStart(t time.Time) time.Time {
	t = t.UTC()
	daysIntoWeek := int(t.Weekday()) // Sunday == 0
	midnight := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return midnight.AddDate(0, 0, -daysIntoWeek)
}

// CheckAdmission reports whether the identity may send another chat message
// this week, without consuming quota.
func (s *quotaService) CheckAdmission(identity Identity) (models.QuotaStatus, error) {
	if identity.IsAccount() {
		return models.QuotaStatus{Unlimited: true, RemainingChats: -1}, nil
	}

	usage, err := s.usageRepo.GetUsage(identity.ID)
	if err != nil {
		return models.QuotaStatus{}, err
	}

	boundary := WeekStart(s.now())
	effectiveCount := 0
	var weekStart *time.Time
	if usage != nil {
		weekStart = &usage.WeekStart
		// A record from a previous week counts as fresh; the reset is
		// applied lazily on the next send.
		if !usage.WeekStart.Before(boundary) {
			effectiveCount = usage.ChatCount
		}
	}

	remaining := s.allotment - effectiveCount
	if remaining < 0 {
		remaining = 0
	}
	return models.QuotaStatus{
		RemainingChats: remaining,
		IsLimitReached: remaining == 0,
		WeekStart:      weekStart,
	}, nil
}

// RecordUsage consumes one send for an anonymous identity and returns the
// post-send status. No-op for accounts.
func (s *quotaService) RecordUsage(identity Identity, ipAddress string) (models.QuotaStatus, error) {
	if identity.IsAccount() {
		return models.QuotaStatus{Unlimited: true, RemainingChats: -1}, nil
	}

	now := s.now()
	usage, err := s.usageRepo.RecordUsage(identity.ID, ipAddress, WeekStart(now), now)
	if err != nil {
		return models.QuotaStatus{}, err
	}

	remaining := s.allotment - usage.ChatCount
	if remaining < 0 {
		remaining = 0
	}
	log.Printf("INFO: [QuotaService] Session %s has %d of %d chats remaining this week.", identity.ID, remaining, s.allotment)
	return models.QuotaStatus{
		RemainingChats: remaining,
		IsLimitReached: remaining == 0,
		WeekStart:      &usage.WeekStart,
	}, nil
}
