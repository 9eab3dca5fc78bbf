package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Medicine is a catalog entry. Read-only to search; created through the
// admin create endpoint.
type Medicine struct {
	ID           string    `json:"id" gorm:"primaryKey"`
	Name         string    `json:"name" gorm:"not null;index"`
	GenericName  string    `json:"genericName"`
	Category     string    `json:"category" gorm:"not null"`
	Description  string    `json:"description"`
	Dosage       string    `json:"dosage"`
	Manufacturer string    `json:"manufacturer"`
	CreatedAt    time.Time `json:"createdAt"`
}

func (m *Medicine) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}

func (Medicine) TableName() string {
	return "medicines"
}

// Pharmacy is a store location. Coordinates are plain lat/lng used for the
// planar distance ordering in search.
type Pharmacy struct {
	ID                string    `json:"id" gorm:"primaryKey"`
	Name              string    `json:"name" gorm:"not null;index"`
	Address           string    `json:"address" gorm:"not null"`
	Phone             string    `json:"phone"`
	Latitude          float64   `json:"latitude"`
	Longitude         float64   `json:"longitude"`
	Rating            float64   `json:"rating"`
	ReviewCount       int       `json:"reviewCount" gorm:"default:0"`
	IsOpen            bool      `json:"isOpen" gorm:"default:true"`
	OpenTime          string    `json:"openTime"`
	CloseTime         string    `json:"closeTime"`
	DeliveryAvailable bool      `json:"deliveryAvailable" gorm:"default:false"`
	CreatedAt         time.Time `json:"createdAt"`
}

func (p *Pharmacy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

func (Pharmacy) TableName() string {
	return "pharmacies"
}

// MedicineInventory links a medicine to a pharmacy with price and stock.
// One row per (medicine, pharmacy) pair.
type MedicineInventory struct {
	ID          string    `json:"id" gorm:"primaryKey"`
	MedicineID  string    `json:"medicineId" gorm:"not null;uniqueIndex:idx_inventory_medicine_pharmacy"`
	PharmacyID  string    `json:"pharmacyId" gorm:"not null;uniqueIndex:idx_inventory_medicine_pharmacy"`
	Price       float64   `json:"price" gorm:"not null"`
	Stock       int       `json:"stock" gorm:"not null;default:0"`
	LastUpdated time.Time `json:"lastUpdated"`
}

func (i *MedicineInventory) BeforeCreate(tx *gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

func (MedicineInventory) TableName() string {
	return "medicine_inventory"
}

// MedicineAvailability is an inventory row joined with its pharmacy and
// medicine for the availability endpoint.
type MedicineAvailability struct {
	MedicineInventory
	Pharmacy Pharmacy `json:"pharmacy" gorm:"-"`
	Medicine Medicine `json:"medicine" gorm:"-"`
}
