package services

import (
	"errors"
	"time"

	"github.com/hugodiana/BariPlus-sub001/config"
	"github.com/hugodiana/BariPlus-sub001/models"
	"github.com/hugodiana/BariPlus-sub001/utils"
)

type OnboardingInput struct {
	Birthday      string  `json:"birthday"`     // YYYY-MM-DD
	SurgeryDate   string  `json:"surgery_date"` // YYYY-MM-DD
	Height        float64 `json:"height" binding:"required"`
	InitialWeight float64 `json:"initial_weight" binding:"required"`
	WaterGoal     float64 `json:"water_goal"`   // ml/day
	ProteinGoal   float64 `json:"protein_goal"` // g/day
}

func GetUserProfile(userID uint) (map[string]interface{}, error) {
	var user models.User
	if err := config.DB.Where("id = ? AND disabled = ?", userID, false).First(&user).Error; err != nil {
		return nil, errors.New("user not found or disabled")
	}

	age := 0
	if !user.Birthday.IsZero() {
		age = utils.CalculateAge(user.Birthday)
	}

	return map[string]interface{}{
		"id":             user.ID,
		"email":          user.Email,
		"full_name":      user.FullName,
		"role":           user.Role,
		"onboarded":      user.Onboarded,
		"birthday":       user.Birthday.Format("2006-01-02"),
		"age":            age,
		"surgery_date":   user.SurgeryDate.Format("2006-01-02"),
		"height":         user.Height,
		"initial_weight": user.InitialWeight,
		"achievements":   user.Achievements,
	}, nil
}

// CompleteOnboarding fills the patient profile, stores the personal daily
// targets, seeds the pre-op checklist and fires the onboarding event.
func CompleteOnboarding(userID uint, in OnboardingInput) ([]Achievement, error) {
	var user models.User
	if err := config.DB.Where("id = ? AND disabled = ?", userID, false).First(&user).Error; err != nil {
		return nil, errors.New("user not found or disabled")
	}

	if in.Birthday != "" {
		if birthday, err := time.Parse("2006-01-02", in.Birthday); err == nil {
			user.Birthday = birthday
		}
	}
	if in.SurgeryDate != "" {
		if surgery, err := time.Parse("2006-01-02", in.SurgeryDate); err == nil {
			user.SurgeryDate = surgery
		}
	}
	user.Height = in.Height
	user.InitialWeight = in.InitialWeight
	user.Onboarded = true

	if err := config.DB.Save(&user).Error; err != nil {
		return nil, err
	}

	if in.WaterGoal > 0 || in.ProteinGoal > 0 {
		if err := UpsertDailyGoal(userID, in.WaterGoal, in.ProteinGoal); err != nil {
			return nil, err
		}
	}

	if err := NewChecklistService(config.DB).Seed(userID); err != nil {
		return nil, err
	}

	return Emit(DomainEvent{Kind: EventOnboarded, UserID: userID}), nil
}

func FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := config.DB.First(&user, "email = ?", email).Error; err != nil {
		return nil, errors.New("user not found")
	}
	return &user, nil
}

// ListPatients returns the patients coached by a nutricionista.
func ListPatients(nutricionistaID uint) ([]models.User, error) {
	var patients []models.User
	err := config.DB.
		Where("nutricionista_id = ? AND role = ? AND disabled = ?",
			nutricionistaID, models.RolePatient, false).
		Order("full_name asc").
		Find(&patients).Error
	return patients, err
}

func RegisterUser(email, password, fullName, role string) error {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		return err
	}
	if role != models.RoleNutricionista {
		role = models.RolePatient
	}
	user := models.User{
		Email:    email,
		Password: hashed,
		FullName: fullName,
		Role:     role,
	}
	return config.DB.Create(&user).Error
}
