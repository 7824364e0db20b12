package services

import (
	"errors"
	"fmt"

	"github.com/hugodiana/BariPlus-sub001/models"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// AggregateService owns the per-patient, per-day intake accumulators.
type AggregateService struct {
	db *gorm.DB
}

func NewAggregateService(db *gorm.DB) *AggregateService {
	return &AggregateService{db: db}
}

func aggregateColumn(metric string) (string, error) {
	switch metric {
	case models.MetricWater:
		return "water", nil
	case models.MetricProtein:
		return "protein", nil
	}
	return "", fmt.Errorf("metric %q has no aggregate column", metric)
}

// Increment adds amount to the named metric for (userID, date), creating the
// row if absent. The addition happens in SQL, so two quick water logs for the
// same day never overwrite each other.
func (s *AggregateService) Increment(userID uint, date string, metric string, amount float64) error {
	col, err := aggregateColumn(metric)
	if err != nil {
		return err
	}

	row := models.DailyAggregate{UserID: userID, Date: date}
	switch col {
	case "water":
		row.Water = amount
	case "protein":
		row.Protein = amount
	}

	return s.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}, {Name: "date"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			col: gorm.Expr(col+" + ?", amount),
		}),
	}).Create(&row).Error
}

// Get returns the accumulators for (userID, date), zero-valued when no row
// exists yet. Absence is not an error.
func (s *AggregateService) Get(userID uint, date string) (models.DailyAggregate, error) {
	var row models.DailyAggregate
	err := s.db.Where("user_id = ? AND date = ?", userID, date).First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DailyAggregate{UserID: userID, Date: date}, nil
		}
		return models.DailyAggregate{}, err
	}
	return row, nil
}

// Range returns every aggregate row for the patient with date <= through.
func (s *AggregateService) Range(userID uint, through string) ([]models.DailyAggregate, error) {
	var rows []models.DailyAggregate
	err := s.db.
		Where("user_id = ? AND date <= ?", userID, through).
		Order("date asc").
		Find(&rows).Error
	return rows, err
}

// Latest returns the most recent aggregate row for the patient, or a
// zero-valued aggregate when the patient has never logged anything.
func (s *AggregateService) Latest(userID uint) (models.DailyAggregate, error) {
	var row models.DailyAggregate
	err := s.db.
		Where("user_id = ?", userID).
		Order("date desc").
		First(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.DailyAggregate{UserID: userID}, nil
		}
		return models.DailyAggregate{}, err
	}
	return row, nil
}
