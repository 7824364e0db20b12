package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RolePatient       = "patient"
	RoleNutricionista = "nutricionista"
)

type User struct {
	gorm.Model
	Email    string `gorm:"uniqueIndex;not null"`
	Password string `gorm:"not null"`
	FullName string
	Role     string `gorm:"size:16;index;default:patient"` // "patient" | "nutricionista"

	// Patient profile, filled during onboarding.
	Onboarded     bool
	Birthday      time.Time
	SurgeryDate   time.Time
	Height        float64 // cm
	InitialWeight float64 // kg, recorded at onboarding

	// Patients are linked to the professional coaching them.
	NutricionistaID uint `gorm:"index"`

	// Unlocked achievement ids. Append-only set, written as a whole.
	Achievements datatypes.JSONSlice[string]

	Disabled      bool
	MFAEnabled    bool
	MFACode       string
	ResetToken    string
	ResetTokenExp time.Time
}
