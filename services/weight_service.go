package services

import (
	"time"

	"github.com/hugodiana/BariPlus-sub001/models"
	"github.com/hugodiana/BariPlus-sub001/utils"

	"gorm.io/gorm"
)

type WeightService struct {
	db *gorm.DB
}

func NewWeightService(db *gorm.DB) *WeightService {
	return &WeightService{db: db}
}

// WeightSummary is what the patient sees after a weigh-in.
type WeightSummary struct {
	Entry     models.WeightEntry `json:"entry"`
	BMI       float64            `json:"bmi"`
	TotalLost float64            `json:"total_lost"`
}

func (s *WeightService) Log(userID uint, weight float64, notes string) (*WeightSummary, []Achievement, error) {
	if weight <= 0 {
		return nil, nil, ErrInvalidAmount
	}

	entry := models.WeightEntry{
		UserID:   userID,
		Weight:   weight,
		LoggedAt: time.Now(),
		Notes:    notes,
	}
	if err := s.db.Create(&entry).Error; err != nil {
		return nil, nil, err
	}

	var user models.User
	if err := s.db.First(&user, userID).Error; err != nil {
		return nil, nil, err
	}

	summary := &WeightSummary{Entry: entry}
	summary.BMI = utils.CalculateBMI(weight, user.Height)
	if user.InitialWeight > 0 {
		summary.TotalLost = user.InitialWeight - weight
	}

	newly := Emit(DomainEvent{Kind: EventWeightLogged, UserID: userID})
	return summary, newly, nil
}

func (s *WeightService) History(userID uint) ([]models.WeightEntry, error) {
	var entries []models.WeightEntry
	err := s.db.
		Where("user_id = ?", userID).
		Order("logged_at asc").
		Find(&entries).Error
	return entries, err
}
