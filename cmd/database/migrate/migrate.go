package migration

import (
	"Food-Inventory-Backend/entities"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if db.Dialector.Name() == "postgres" {
		if err := db.Exec("CREATE EXTENSION IF NOT EXISTS \"uuid-ossp\";").Error; err != nil {
			return fmt.Errorf("error creating uuid-ossp extension: %w", err)
		}
	}

	if err := db.AutoMigrate(&entities.User{}); err != nil {
		return fmt.Errorf("error migrating user database: %w", err)
	}
	if err := db.AutoMigrate(&entities.FoodItem{}); err != nil {
		return fmt.Errorf("error migrating food item database: %w", err)
	}

	log.Info("Database migration complete")
	return nil
}
