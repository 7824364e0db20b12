package services

import (
	"github.com/hugodiana/BariPlus-sub001/models"

	"gorm.io/gorm"
)

type ChecklistService struct {
	db *gorm.DB
}

func NewChecklistService(db *gorm.DB) *ChecklistService {
	return &ChecklistService{db: db}
}

// defaultChecklist seeds every new patient's pre-operative task list.
var defaultChecklist = []string{
	"Consulta com a nutricionista",
	"Exames de sangue",
	"Endoscopia",
	"Avaliação cardiológica",
	"Avaliação psicológica",
}

// Seed creates the default items for a patient that has none yet.
func (s *ChecklistService) Seed(userID uint) error {
	var count int64
	if err := s.db.Model(&models.ChecklistItem{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := make([]models.ChecklistItem, len(defaultChecklist))
	for i, label := range defaultChecklist {
		items[i] = models.ChecklistItem{UserID: userID, Label: label}
	}
	return s.db.Create(&items).Error
}

func (s *ChecklistService) List(userID uint) ([]models.ChecklistItem, error) {
	var items []models.ChecklistItem
	err := s.db.
		Where("user_id = ?", userID).
		Order("id asc").
		Find(&items).Error
	return items, err
}

func (s *ChecklistService) Toggle(userID, itemID uint, done bool) ([]Achievement, error) {
	res := s.db.Model(&models.ChecklistItem{}).
		Where("id = ? AND user_id = ?", itemID, userID).
		Update("done", done)
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}

	return Emit(DomainEvent{Kind: EventChecklistUpdated, UserID: userID}), nil
}

func (s *ChecklistService) Add(userID uint, label string) (*models.ChecklistItem, error) {
	item := models.ChecklistItem{UserID: userID, Label: label}
	if err := s.db.Create(&item).Error; err != nil {
		return nil, err
	}
	return &item, nil
}
