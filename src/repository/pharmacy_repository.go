package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KwameAlfred37/MedFinderNew/src/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// PharmacySearchLimit caps the pharmacy entries returned by a search.
const PharmacySearchLimit = 20

// Location is a caller-supplied point for distance ordering.
type Location struct {
	Latitude  float64
	Longitude float64
}

// PharmacyRepository defines data access for pharmacy locations.
type PharmacyRepository interface {
	Search(query string, near *Location) ([]models.Pharmacy, error)
	GetByID(id string) (*models.Pharmacy, error)
	Create(pharmacy *models.Pharmacy) error
}

type pharmacyRepository struct {
	db *gorm.DB
}

// NewPharmacyRepository creates a new instance of PharmacyRepository.
func NewPharmacyRepository(db *gorm.DB) PharmacyRepository {
	return &pharmacyRepository{db: db}
}

// Search matches the query case-insensitively as a substring of name or
// address. An empty query matches every pharmacy. When a location is given,
// results are ordered by squared planar distance to it; the approximation
// is only meaningful for nearby points, which is all the UI asks for.
func (r *pharmacyRepository) Search(query string, near *Location) ([]models.Pharmacy, error) {
	tx := r.db.Model(&models.Pharmacy{})

	if query != "" {
		pattern := "%" + strings.ToLower(query) + "%"
		tx = tx.Where("LOWER(name) LIKE ? OR LOWER(address) LIKE ?", pattern, pattern)
	}

	if near != nil {
		tx = tx.Clauses(clause.OrderBy{
			Expression: clause.Expr{
				SQL:  "((latitude - ?) * (latitude - ?) + (longitude - ?) * (longitude - ?))",
				Vars: []interface{}{near.Latitude, near.Latitude, near.Longitude, near.Longitude},
			},
		})
	}

	var pharmacies []models.Pharmacy
	if err := tx.Limit(PharmacySearchLimit).Find(&pharmacies).Error; err != nil {
		return nil, fmt.Errorf("failed to search pharmacies: %w", err)
	}
	return pharmacies, nil
}

// GetByID returns (nil, nil) when the pharmacy does not exist.
func (r *pharmacyRepository) GetByID(id string) (*models.Pharmacy, error) {
	var pharmacy models.Pharmacy
	err := r.db.First(&pharmacy, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch pharmacy %s: %w", id, err)
	}
	return &pharmacy, nil
}

func (r *pharmacyRepository) Create(pharmacy *models.Pharmacy) error {
	if pharmacy.Name == "" || pharmacy.Address == "" {
		return errors.New("pharmacy name and address cannot be empty")
	}
	if err := r.db.Create(pharmacy).Error; err != nil {
		return fmt.Errorf("failed to create pharmacy: %w", err)
	}
	return nil
}
