package database

import (
	"fmt"
	"testing"

	"github.com/KwameAlfred37/MedFinderNew/src/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newSeedTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:seed_%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.Medicine{}, &models.Pharmacy{}, &models.MedicineInventory{}))
	return db
}

func TestSeedDemoCatalog(t *testing.T) {
	t.Run("Empty database gets the full demo catalog with stock everywhere", func(t *testing.T) {
		db := newSeedTestDB(t)
		require.NoError(t, SeedDemoCatalog(db))

		var medicines, pharmacies, inventory int64
		require.NoError(t, db.Model(&models.Medicine{}).Count(&medicines).Error)
		require.NoError(t, db.Model(&models.Pharmacy{}).Count(&pharmacies).Error)
		require.NoError(t, db.Model(&models.MedicineInventory{}).Count(&inventory).Error)
		assert.EqualValues(t, len(demoMedicines), medicines)
		assert.EqualValues(t, len(demoPharmacies), pharmacies)
		assert.EqualValues(t, len(demoMedicines)*len(demoPharmacies), inventory)
	})

	t.Run("Seeding twice does not duplicate anything", func(t *testing.T) {
		db := newSeedTestDB(t)
		require.NoError(t, SeedDemoCatalog(db))
		require.NoError(t, SeedDemoCatalog(db))

		var medicines int64
		require.NoError(t, db.Model(&models.Medicine{}).Count(&medicines).Error)
		assert.EqualValues(t, len(demoMedicines), medicines)
	})

	t.Run("An existing catalog disables the seed", func(t *testing.T) {
		db := newSeedTestDB(t)
		require.NoError(t, db.Create(&models.Medicine{Name: "Custom Med", Category: "Custom"}).Error)

		require.NoError(t, SeedDemoCatalog(db))

		var medicines, pharmacies int64
		require.NoError(t, db.Model(&models.Medicine{}).Count(&medicines).Error)
		require.NoError(t, db.Model(&models.Pharmacy{}).Count(&pharmacies).Error)
		assert.EqualValues(t, 1, medicines)
		assert.Zero(t, pharmacies)
	})
}
