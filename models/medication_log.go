package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// MedicationHistory maps a YYYY-MM-DD date key to the medications taken that
// day: medication name -> doses taken. Sparse; absent keys mean nothing logged.
type MedicationHistory map[string]map[string]int

// MedicationLog holds a patient's whole medication history as one JSON column.
type MedicationLog struct {
	gorm.Model
	UserID  uint `gorm:"uniqueIndex;not null"`
	History datatypes.JSONType[MedicationHistory]
}
