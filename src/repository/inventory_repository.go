package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/KwameAlfred37/MedFinderNew/src/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AvailabilityLimit caps the inventory rows returned per medicine.
const AvailabilityLimit = 20

// InventoryRepository defines data access for per-pharmacy medicine stock.
type InventoryRepository interface {
	GetAvailability(medicineID string, near *Location) ([]models.MedicineAvailability, error)
	Upsert(inventory *models.MedicineInventory) (*models.MedicineInventory, error)
}

type inventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new instance of InventoryRepository.
func NewInventoryRepository(db *gorm.DB) InventoryRepository {
	return &inventoryRepository{db: db}
}

// GetAvailability lists in-stock inventory rows for a medicine, each joined
// with its pharmacy and the medicine itself. With a location the rows are
// ordered by squared planar distance to the pharmacy.
func (r *inventoryRepository) GetAvailability(medicineID string, near *Location) ([]models.MedicineAvailability, error) {
	if medicineID == "" {
		return nil, errors.New("medicine ID cannot be empty")
	}

	tx := r.db.Model(&models.MedicineInventory{}).
		Joins("JOIN pharmacies ON pharmacies.id = medicine_inventory.pharmacy_id").
		Where("medicine_inventory.medicine_id = ? AND medicine_inventory.stock > 0", medicineID).
		Select("medicine_inventory.*")

	if near != nil {
		tx = tx.Clauses(clause.OrderBy{
			Expression: clause.Expr{
				SQL:  "((pharmacies.latitude - ?) * (pharmacies.latitude - ?) + (pharmacies.longitude - ?) * (pharmacies.longitude - ?))",
				Vars: []interface{}{near.Latitude, near.Latitude, near.Longitude, near.Longitude},
			},
		})
	}

	var rows []models.MedicineInventory
	if err := tx.Limit(AvailabilityLimit).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch availability for medicine %s: %w", medicineID, err)
	}
	if len(rows) == 0 {
		return []models.MedicineAvailability{}, nil
	}

	var medicine models.Medicine
	if err := r.db.First(&medicine, "id = ?", medicineID).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch medicine %s for availability: %w", medicineID, err)
	}

	pharmacyIDs := make([]string, 0, len(rows))
	for _, row := range rows {
		pharmacyIDs = append(pharmacyIDs, row.PharmacyID)
	}
	var pharmacies []models.Pharmacy
	if err := r.db.Where("id IN ?", pharmacyIDs).Find(&pharmacies).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch pharmacies for availability: %w", err)
	}
	pharmacyByID := make(map[string]models.Pharmacy, len(pharmacies))
	for _, p := range pharmacies {
		pharmacyByID[p.ID] = p
	}

	result := make([]models.MedicineAvailability, 0, len(rows))
	for _, row := range rows {
		result = append(result, models.MedicineAvailability{
			MedicineInventory: row,
			Pharmacy:          pharmacyByID[row.PharmacyID],
			Medicine:          medicine,
		})
	}
	return result, nil
}

// Upsert creates or updates the inventory row for a (medicine, pharmacy)
// pair, refreshing price, stock, and the update timestamp.
func (r *inventoryRepository) Upsert(inventory *models.MedicineInventory) (*models.MedicineInventory, error) {
	if inventory.MedicineID == "" || inventory.PharmacyID == "" {
		return nil, errors.New("inventory requires both medicine ID and pharmacy ID")
	}

	inventory.LastUpdated = time.Now().UTC()
	err := r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "medicine_id"}, {Name: "pharmacy_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"price":        inventory.Price,
			"stock":        inventory.Stock,
			"last_updated": inventory.LastUpdated,
		}),
	}).Create(inventory).Error
	if err != nil {
		return nil, fmt.Errorf("failed to upsert inventory: %w", err)
	}

	var current models.MedicineInventory
	err = r.db.First(&current, "medicine_id = ? AND pharmacy_id = ?", inventory.MedicineID, inventory.PharmacyID).Error
	if err != nil {
		return nil, fmt.Errorf("failed to fetch inventory after upsert: %w", err)
	}
	return &current, nil
}
