package models

import (
	"time"

	"gorm.io/gorm"
)

type WeightEntry struct {
	gorm.Model
	UserID   uint      `gorm:"index;not null"`
	Weight   float64   `gorm:"not null"` // kg
	LoggedAt time.Time `gorm:"index;not null"`
	Notes    string
}
