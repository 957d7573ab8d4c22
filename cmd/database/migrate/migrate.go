package migration

import (
	"Health-Tracker-Backend/entities"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&entities.DailyLog{}); err != nil {
		log.Errorf("Error migrating daily log database: %v", err)
		return err
	}

	log.Info("Database migration complete")
	return nil
}
