package utils

import (
	"math"
	"time"
)

// CalculateBMI expects weight in kg and height in cm. Returns 0 when either
// input is missing.
func CalculateBMI(weightKg, heightCm float64) float64 {
	if weightKg <= 0 || heightCm <= 0 {
		return 0
	}
	m := heightCm / 100
	bmi := weightKg / (m * m)
	return math.Round(bmi*10) / 10
}

func CalculateAge(birthday time.Time) int {
	now := time.Now()
	age := now.Year() - birthday.Year()
	if now.YearDay() < birthday.YearDay() {
		age--
	}
	return age
}
