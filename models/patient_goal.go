package models

import (
	"time"

	"gorm.io/gorm"
)

const (
	GoalStatusActive    = "active"
	GoalStatusCompleted = "completed"
	GoalStatusFailed    = "failed"
)

const (
	MetricWater        = "water"
	MetricProtein      = "protein"
	MetricWeighInCount = "weighInCount"
	MetricDiaryLogs    = "diaryLogCount"
	MetricOther        = "other"
)

// PatientGoal is a time-bounded target a nutricionista assigns to a patient.
// The status leaves "active" exactly once; the sweep owns that transition.
type PatientGoal struct {
	gorm.Model
	NutricionistaID uint `gorm:"index;not null"`
	PatientID       uint `gorm:"index;not null"`

	Description string  `gorm:"type:text"`
	Metric      string  `gorm:"size:20;not null"`
	TargetValue float64 `gorm:"not null"`
	Unit        string  `gorm:"size:16"` // display only

	Deadline   time.Time `gorm:"index;not null"`
	Status     string    `gorm:"size:12;index;default:active"`
	ResolvedAt *time.Time
}

func ValidMetric(m string) bool {
	switch m {
	case MetricWater, MetricProtein, MetricWeighInCount, MetricDiaryLogs, MetricOther:
		return true
	}
	return false
}
