package db

import (
	"fmt"
	"log/slog"

	"gorm.io/gorm"

	"cartify/internal/model"
)

// models lists every table in dependency order: parents first.
func models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Address{},
		&model.Product{},
		&model.Review{},
		&model.Order{},
		&model.OrderItem{},
	}
}

// Migrate creates or updates the schema. With reset set, existing tables are
// dropped first.
func Migrate(db *gorm.DB, reset bool) error {
	all := models()
	if reset {
		slog.Warn("dropping all tables before migration")
		for i := len(all) - 1; i >= 0; i-- {
			if err := db.Migrator().DropTable(all[i]); err != nil {
				slog.Warn("drop table failed, it may not exist", "error", err)
			}
		}
	}
	if err := db.AutoMigrate(all...); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}
