package services

import (
	"errors"

	"github.com/hugodiana/BariPlus-sub001/config"
	"github.com/hugodiana/BariPlus-sub001/models"

	"gorm.io/gorm"
)

// UpsertDailyGoal stores the patient's own daily water/protein targets.
func UpsertDailyGoal(userID uint, water, protein float64) error {
	var goal models.DailyGoal
	err := config.DB.Where("user_id = ?", userID).First(&goal).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		goal = models.DailyGoal{UserID: userID, Water: water, Protein: protein}
		return config.DB.Create(&goal).Error
	}
	if err != nil {
		return err
	}

	goal.Water = water
	goal.Protein = protein
	return config.DB.Save(&goal).Error
}

// GetDailyGoalAndProgress returns the personal targets alongside today's
// aggregate, with a capped percent per metric for the progress ring.
func GetDailyGoalAndProgress(userID uint, date string) (*models.DailyGoal, map[string]interface{}, error) {
	var goal models.DailyGoal
	err := config.DB.Where("user_id = ?", userID).First(&goal).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			goal = models.DailyGoal{UserID: userID}
		} else {
			return nil, nil, err
		}
	}

	agg, err := NewAggregateService(config.DB).Get(userID, date)
	if err != nil {
		return &goal, nil, err
	}

	pct := func(consumed, target float64) float64 {
		if target <= 0 {
			return 0
		}
		p := consumed / target
		if p > 1 {
			return 1
		}
		return p
	}

	progress := map[string]interface{}{
		"water":   map[string]float64{"consumed": agg.Water, "goal": goal.Water, "percent": pct(agg.Water, goal.Water)},
		"protein": map[string]float64{"consumed": agg.Protein, "goal": goal.Protein, "percent": pct(agg.Protein, goal.Protein)},
	}
	return &goal, progress, nil
}
