package repository

import (
	"fmt"
	"strings"
	"testing"

	"github.com/KwameAlfred37/MedFinderNew/src/models"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newTestDB opens an isolated in-memory database for one test and migrates
// the full schema. Each test gets its own named memory database so parallel
// tests cannot see each other's rows.
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.Medicine{},
		&models.Pharmacy{},
		&models.MedicineInventory{},
		&models.ChatMessage{},
		&models.UserSearch{},
		&models.AnonymousChatUsage{},
	))
	return db
}
