package database

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"time"

	"github.com/KwameAlfred37/MedFinderNew/src/config"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var DB *gorm.DB

// Init initializes the database connection using the configured driver and DSN.
// For the sqlite driver, a DSN of "memory" (or empty) opens an in-memory
// database; any other value is treated as a file path.
func Init() (*gorm.DB, error) {
	driver := config.AppConfig.Database.Driver
	dsn := config.AppConfig.Database.DSN

	gormLogger := logger.New(
		log.New(os.Stdout, "\r\n", log.LstdFlags),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
			Colorful:                  true,
		},
	)
	gormConfig := &gorm.Config{Logger: gormLogger}

	var db *gorm.DB
	var err error

	switch driver {
	case "postgres":
		log.Println("INFO: [Database] Initializing PostgreSQL database connection.")
		db, err = gorm.Open(postgres.Open(dsn), gormConfig)
	case "sqlite", "":
		if dsn == "memory" || dsn == "" {
			log.Println("INFO: [Database] Initializing in-memory SQLite database (DSN: 'memory' or empty).")
			db, err = gorm.Open(sqlite.Open("file::memory:?cache=shared"), gormConfig)
		} else {
			if dir := filepath.Dir(dsn); dir != "." {
				if mkErr := os.MkdirAll(dir, 0o755); mkErr != nil {
					return nil, fmt.Errorf("failed to create database directory %s: %w", dir, mkErr)
				}
			}
			log.Printf("INFO: [Database] Initializing file-based SQLite database at %s.", dsn)
			db, err = gorm.Open(sqlite.Open(dsn), gormConfig)
		}
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", driver)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to open database (driver=%s): %w", driver, err)
	}

	DB = db
	log.Println("INFO: [Database] Database connection established.")
	return db, nil
}
