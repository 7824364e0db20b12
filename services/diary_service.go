package services

import (
	"errors"
	"time"

	"github.com/hugodiana/BariPlus-sub001/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// DiaryService records self-reported intake. Every log first persists its own
// entry, then folds the amounts into the daily aggregate, then emits an event
// so achievements can react.
type DiaryService struct {
	db         *gorm.DB
	aggregates *AggregateService
}

func NewDiaryService(db *gorm.DB, aggregates *AggregateService) *DiaryService {
	return &DiaryService{db: db, aggregates: aggregates}
}

var ErrInvalidAmount = errors.New("amount must be positive")

func (s *DiaryService) LogWater(userID uint, amountMl float64) ([]Achievement, error) {
	if amountMl <= 0 {
		return nil, ErrInvalidAmount
	}

	now := time.Now()
	date := models.AggregateDate(now)

	entry := models.DiaryEntry{
		UserID:   userID,
		Date:     date,
		Kind:     models.DiaryKindWater,
		WaterMl:  amountMl,
		LoggedAt: now,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	if err := s.aggregates.Increment(userID, date, models.MetricWater, amountMl); err != nil {
		return nil, err
	}

	return Emit(DomainEvent{Kind: EventDiaryLogged, UserID: userID}), nil
}

func (s *DiaryService) LogMeal(userID uint, description string, proteinG float64) ([]Achievement, error) {
	if proteinG < 0 {
		return nil, ErrInvalidAmount
	}

	now := time.Now()
	date := models.AggregateDate(now)

	entry := models.DiaryEntry{
		UserID:      userID,
		Date:        date,
		Kind:        models.DiaryKindMeal,
		Description: description,
		ProteinG:    proteinG,
		LoggedAt:    now,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, err
	}
	if proteinG > 0 {
		if err := s.aggregates.Increment(userID, date, models.MetricProtein, proteinG); err != nil {
			return nil, err
		}
	}

	return Emit(DomainEvent{Kind: EventDiaryLogged, UserID: userID}), nil
}

func (s *DiaryService) ListByDate(userID uint, date string) ([]models.DiaryEntry, error) {
	var entries []models.DiaryEntry
	err := s.db.
		Where("user_id = ? AND date = ?", userID, date).
		Order("logged_at asc").
		Find(&entries).Error
	return entries, err
}

// MarkMedication records doses taken for (date, medication) in the patient's
// keyed history map. The whole map is one JSON column, written as a unit.
func (s *DiaryService) MarkMedication(userID uint, date, medication string, doses int) error {
	if doses <= 0 {
		return ErrInvalidAmount
	}
	if _, err := time.Parse(models.AggregateDateLayout, date); err != nil {
		return errors.New("date must be YYYY-MM-DD")
	}

	var logRow models.MedicationLog
	err := s.db.Where("user_id = ?", userID).First(&logRow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		logRow = models.MedicationLog{UserID: userID}
	} else if err != nil {
		return err
	}

	history := logRow.History.Data()
	if history == nil {
		history = models.MedicationHistory{}
	}
	if history[date] == nil {
		history[date] = map[string]int{}
	}
	history[date][medication] = doses
	logRow.History = datatypes.NewJSONType(history)

	return s.db.Save(&logRow).Error
}

func (s *DiaryService) MedicationHistory(userID uint) (models.MedicationHistory, error) {
	var logRow models.MedicationLog
	err := s.db.Where("user_id = ?", userID).First(&logRow).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.MedicationHistory{}, nil
	}
	if err != nil {
		return nil, err
	}
	history := logRow.History.Data()
	if history == nil {
		history = models.MedicationHistory{}
	}
	return history, nil
}
