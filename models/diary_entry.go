package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	DiaryKindWater = "water"
	DiaryKindMeal  = "meal"
)

// DiaryEntry is one self-reported log (a glass of water, a meal). The entry
// is the historical record; its amounts are also folded into DailyAggregate.
type DiaryEntry struct {
	gorm.Model
	UserID      uint   `gorm:"index;not null"`
	Date        string `gorm:"size:10;index;not null"` // YYYY-MM-DD
	Kind        string `gorm:"size:10;not null"`
	Description string

	WaterMl  float64
	ProteinG float64

	LoggedAt time.Time
}
