package database

import (
	"fmt"
	"log"

	"github.com/KwameAlfred37/MedFinderNew/src/models"

	"gorm.io/gorm"
)

// Demo catalog used to seed empty development databases. Production
// catalogs are populated through the admin endpoints; search always reads
// from the store, never from these literals.
var demoMedicines = []models.Medicine{
	{Name: "Paracetamol", Category: "Pain Relief", Dosage: "500mg", Manufacturer: "Generic Pharma", Description: "Common pain reliever and fever reducer"},
	{Name: "Ibuprofen", Category: "Pain Relief", Dosage: "400mg", Manufacturer: "Advil Labs", Description: "Anti-inflammatory pain relief medication"},
	{Name: "Aspirin", Category: "Pain Relief", Dosage: "325mg", Manufacturer: "Bayer", Description: "Blood thinner and pain reliever"},
	{Name: "Amoxicillin", Category: "Antibiotic", Dosage: "250mg", Manufacturer: "Antibio Corp", Description: "Broad-spectrum antibiotic"},
	{Name: "Omeprazole", Category: "Gastric", Dosage: "20mg", Manufacturer: "Stomach Care", Description: "Proton pump inhibitor for acid reflux"},
	{Name: "Metformin", Category: "Diabetes", Dosage: "500mg", Manufacturer: "Diabetic Solutions", Description: "Type 2 diabetes medication"},
	{Name: "Lisinopril", Category: "Blood Pressure", Dosage: "10mg", Manufacturer: "CardioMed", Description: "ACE inhibitor for high blood pressure"},
	{Name: "Atorvastatin", Category: "Cholesterol", Dosage: "20mg", Manufacturer: "LipidCare", Description: "Statin for cholesterol management"},
	{Name: "Levothyroxine", Category: "Thyroid", Dosage: "50mcg", Manufacturer: "ThyroMed", Description: "Thyroid hormone replacement"},
	{Name: "Amlodipine", Category: "Blood Pressure", Dosage: "5mg", Manufacturer: "CardioMed", Description: "Calcium channel blocker"},
}

var demoPharmacies = []models.Pharmacy{
	{Name: "HealthPlus Pharmacy", Address: "123 Main St", Phone: "+1-555-0101", OpenTime: "8 AM", CloseTime: "10 PM", Latitude: 40.7128, Longitude: -74.0060, IsOpen: true},
	{Name: "MediCare Central", Address: "456 Oak Ave", Phone: "+1-555-0102", OpenTime: "12 AM", CloseTime: "12 AM", Latitude: 40.7589, Longitude: -73.9851, IsOpen: true, DeliveryAvailable: true},
	{Name: "Quick Relief Pharmacy", Address: "789 Pine Rd", Phone: "+1-555-0103", OpenTime: "7 AM", CloseTime: "11 PM", Latitude: 40.7505, Longitude: -73.9934, IsOpen: true},
	{Name: "Family Drug Store", Address: "321 Elm St", Phone: "+1-555-0104", OpenTime: "9 AM", CloseTime: "9 PM", Latitude: 40.7282, Longitude: -74.0776, IsOpen: true, DeliveryAvailable: true},
	{Name: "Express Meds", Address: "654 Cedar Ave", Phone: "+1-555-0105", OpenTime: "6 AM", CloseTime: "12 AM", Latitude: 40.7614, Longitude: -73.9776, IsOpen: true},
}

// SeedDemoCatalog inserts the demo catalog when both catalog tables are
// empty, then stocks every pharmacy with every medicine. Idempotent:
// anything already in the catalog disables it entirely.
func SeedDemoCatalog(db *gorm.DB) error {
	var medicineCount, pharmacyCount int64
	if err := db.Model(&models.Medicine{}).Count(&medicineCount).Error; err != nil {
		return fmt.Errorf("failed to count medicines: %w", err)
	}
	if err := db.Model(&models.Pharmacy{}).Count(&pharmacyCount).Error; err != nil {
		return fmt.Errorf("failed to count pharmacies: %w", err)
	}
	if medicineCount > 0 || pharmacyCount > 0 {
		log.Println("INFO: [Database] Catalog already populated, skipping demo seed.")
		return nil
	}

	medicines := make([]models.Medicine, len(demoMedicines))
	copy(medicines, demoMedicines)
	if err := db.Create(&medicines).Error; err != nil {
		return fmt.Errorf("failed to seed medicines: %w", err)
	}
	pharmacies := make([]models.Pharmacy, len(demoPharmacies))
	copy(pharmacies, demoPharmacies)
	if err := db.Create(&pharmacies).Error; err != nil {
		return fmt.Errorf("failed to seed pharmacies: %w", err)
	}

	var inventory []models.MedicineInventory
	for i, medicine := range medicines {
		for j, pharmacy := range pharmacies {
			inventory = append(inventory, models.MedicineInventory{
				MedicineID: medicine.ID,
				PharmacyID: pharmacy.ID,
				Price:      4.99 + float64((i+j)%7)*1.5,
				Stock:      10 + (i*len(pharmacies)+j)%40,
			})
		}
	}
	if err := db.Create(&inventory).Error; err != nil {
		return fmt.Errorf("failed to seed inventory: %w", err)
	}

	log.Printf("INFO: [Database] Seeded demo catalog: %d medicines, %d pharmacies, %d inventory rows.",
		len(medicines), len(pharmacies), len(inventory))
	return nil
}
