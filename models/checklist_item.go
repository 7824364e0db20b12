package models

import "gorm.io/gorm"

// ChecklistItem is one pre-operative preparation task for a patient.
type ChecklistItem struct {
	gorm.Model
	UserID uint   `gorm:"index;not null"`
	Label  string `gorm:"not null"`
	Done   bool
}
