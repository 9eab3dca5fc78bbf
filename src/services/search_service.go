package services

import (
	"context"
	"log"
	"strings"

	"github.com/KwameAlfred37/MedFinderNew/src/models"
	"github.com/KwameAlfred37/MedFinderNew/src/repository"

	"golang.org/x/sync/errgroup"
)

// SearchService fans a free-text query out to the medicine and pharmacy
// matchers and merges the results into one envelope.
type SearchService interface {
	Search(ctx context.Context, identity Identity, query string, near *repository.Location) (*models.SearchResponse, error)
}

type searchService struct {
	medicineRepo repository.MedicineRepository
	pharmacyRepo repository.PharmacyRepository
	searchRepo   repository.SearchRepository
}

// NewSearchService creates a new SearchService.
func NewSearchService(
	medicineRepo repository.MedicineRepository,
	pharmacyRepo repository.PharmacyRepository,
	searchRepo repository.SearchRepository,
) SearchService {
	return &searchService{
		medicineRepo: medicineRepo,
		pharmacyRepo: pharmacyRepo,
		searchRepo:   searchRepo,
	}
}

// Search runs both lookups concurrently and waits for both; the first
// failure wins. The submission is logged to the caller's search history,
// but a history write failure never fails the search itself.
func (s *searchService) Search(ctx context.Context, identity Identity, query string, near *repository.Location) (*models.SearchResponse, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	var (
		medicines  []models.Medicine
		pharmacies []models.Pharmacy
	)

	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		medicines, err = s.medicineRepo.Search(query)
		return err
	})
	g.Go(func() error {
		var err error
		pharmacies, err = s.pharmacyRepo.Search(query, near)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	userID, sessionID := identity.UserAndSessionIDs()
	record := &models.UserSearch{UserID: userID, SessionID: sessionID, Query: query}
	if err := s.searchRepo.Create(record); err != nil {
		log.Printf("WARN: [SearchService] Failed to record search history for %s/%s: %v", identity.Kind, identity.ID, err)
	}

	if medicines == nil {
		medicines = []models.Medicine{}
	}
	if pharmacies == nil {
		pharmacies = []models.Pharmacy{}
	}
	return &models.SearchResponse{Medicines: medicines, Pharmacies: pharmacies}, nil
}
