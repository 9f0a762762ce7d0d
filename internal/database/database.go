package database

import (
	"fmt"

	"grocer/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Connect opens the catalog database. The default driver is sqlite with a
// file-backed DSN so the catalog survives restarts; postgres is available for
// deployments that already run one. TranslateError is enabled so unique-index
// violations surface as gorm.ErrDuplicatedKey on both drivers.
func Connect(driver, dsn string) (*gorm.DB, error) {
	cfg := &gorm.Config{TranslateError: true}

	var (
		db  *gorm.DB
		err error
	)
	switch driver {
	case "sqlite", "":
		db, err = gorm.Open(sqlite.Open(dsn), cfg)
	case "postgres":
		db, err = gorm.Open(postgres.Open(dsn), cfg)
	default:
		return nil, fmt.Errorf("unsupported database driver %q", driver)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", driver, err)
	}
	return db, nil
}

// Migrate creates the products table and its unique name index if absent.
// AutoMigrate is idempotent, so it is safe to run on every process start.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&models.Product{}); err != nil {
		return fmt.Errorf("failed to migrate database: %w", err)
	}
	return nil
}
