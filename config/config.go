package config

import (
	"fmt"
	"log"
	"os"

	"github.com/hugodiana/BariPlus-sub001/models"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB() {
	if err := godotenv.Load(); err != nil {
		log.Printf("no .env file found, relying on environment")
	}

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable",
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
	)

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	if err := AutoMigrate(DB); err != nil {
		log.Fatalf("AutoMigrate failed: %v", err)
	}
}

// AutoMigrate is split out so tests can apply the same schema to their own DB.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&models.User{},
		&models.DailyGoal{},
		&models.PatientGoal{},
		&models.DailyAggregate{},
		&models.DiaryEntry{},
		&models.WeightEntry{},
		&models.ChecklistItem{},
		&models.MedicationLog{},
		&models.UserDevice{},
	)
}
