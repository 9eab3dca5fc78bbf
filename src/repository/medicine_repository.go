package repository

import (
	"errors"
	"fmt"
	"strings"

	"github.com/KwameAlfred37/MedFinderNew/src/models"

	"gorm.io/gorm"
)

// MedicineSearchLimit caps the medicine entries returned by a search.
const MedicineSearchLimit = 10

// MedicineRepository defines data access for the medicine catalog.
type MedicineRepository interface {
	Search(query string) ([]models.Medicine, error)
	GetByID(id string) (*models.Medicine, error)
	Create(medicine *models.Medicine) error
}

type medicineRepository struct {
	db *gorm.DB
}

// NewMedicineRepository creates a new instance of MedicineRepository.
func NewMedicineRepository(db *gorm.DB) MedicineRepository {
	return &medicineRepository{db: db}
}

// Search matches the query case-insensitively as a substring of name,
// category, manufacturer, or description.
func (r *medicineRepository) Search(query string) ([]models.Medicine, error) {
	pattern := "%" + strings.ToLower(query) + "%"

	var medicines []models.Medicine
	err := r.db.
		Where("LOWER(name) LIKE ? OR LOWER(category) LIKE ? OR LOWER(manufacturer) LIKE ? OR LOWER(description) LIKE ?",
			pattern, pattern, pattern, pattern).
		Limit(MedicineSearchLimit).
		Find(&medicines).Error
	if err != nil {
		return nil, fmt.Errorf("failed to search medicines: %w", err)
	}
	return medicines, nil
}

// GetByID returns (nil, nil) when the medicine does not exist.
func (r *medicineRepository) GetByID(id string) (*models.Medicine, error) {
	var medicine models.Medicine
	err := r.db.First(&medicine, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to fetch medicine %s: %w", id, err)
	}
	return &medicine, nil
}

func (r *medicineRepository) Create(medicine *models.Medicine) error {
	if medicine.Name == "" {
		return errors.New("medicine name cannot be empty")
	}
	if err := r.db.Create(medicine).Error; err != nil {
		return fmt.Errorf("failed to create medicine: %w", err)
	}
	return nil
}
