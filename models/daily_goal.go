package models

import (
	"gorm.io/gorm"
)

// DailyGoal holds each patient's own daily intake targets. This is the
// patient's personal setting, not a nutricionista-assigned PatientGoal.
type DailyGoal struct {
	gorm.Model
	UserID  uint    `gorm:"uniqueIndex;not null"`
	Water   float64 // e.g. 2000 ml
	Protein float64 // e.g. 60 g
}
