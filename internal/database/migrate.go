package database

import (
	"fmt"

	"github.com/bhoomika11-art/OIBSIP-pizza-app/internal/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Migrate creates or updates every table used by the API. The four
// ingredient tables share models.Ingredient and are migrated by name.
func Migrate(db *gorm.DB) error {
	for _, kind := range models.IngredientKinds {
		if err := db.Table(kind.Table()).AutoMigrate(&models.Ingredient{}); err != nil {
			return fmt.Errorf("migrating %s: %w", kind.Table(), err)
		}
	}

	err := db.AutoMigrate(
		&models.PizzaVariety{},
		&models.User{},
		&models.Order{},
		&models.OrderItem{},
		&models.OrderItemTopping{},
		&models.OrderStatusLog{},
		&models.OAuthClient{},
		&models.OAuthToken{},
	)
	if err != nil {
		return fmt.Errorf("migrating schema: %w", err)
	}
	log.Info("Database schema migrated")
	return nil
}

// OpenInMemory returns a migrated, private sqlite database. The pool is
// pinned to one connection because every ":memory:" connection is a
// separate database.
func OpenInMemory() (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), GormConfig())
	if err != nil {
		return nil, err
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}
