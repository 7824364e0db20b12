package services

import (
	"errors"
	"sync"

	"github.com/hugodiana/BariPlus-sub001/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Achievement is one catalog entry. The catalog is fixed at build time and
// iterated read-only; only the ids end up on the patient record.
type Achievement struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
}

// ruleSnapshot is everything a rule may look at, loaded once per Evaluate.
type ruleSnapshot struct {
	User      models.User
	Weights   []models.WeightEntry // ordered by logged_at asc
	Checklist []models.ChecklistItem
	Latest    models.DailyAggregate
	DailyGoal models.DailyGoal
}

type achievementRule struct {
	Achievement
	Satisfied func(snap *ruleSnapshot) bool
}

func weightLost(snap *ruleSnapshot) float64 {
	if len(snap.Weights) == 0 || snap.User.InitialWeight <= 0 {
		return 0
	}
	current := snap.Weights[len(snap.Weights)-1].Weight
	return snap.User.InitialWeight - current
}

// catalog is the fixed, ordered rule list. Order only affects the order new
// unlocks are returned in, never which ones unlock.
var catalog = []achievementRule{
	{
		Achievement: Achievement{
			ID:          "onboarding_complete",
			Name:        "Primeiro Passo",
			Description: "Completed onboarding and set up the profile.",
			Icon:        "flag",
		},
		Satisfied: func(snap *ruleSnapshot) bool { return snap.User.Onboarded },
	},
	{
		Achievement: Achievement{
			ID:          "first_weigh_in",
			Name:        "Na Balança",
			Description: "Logged the first weight entry.",
			Icon:        "scale",
		},
		Satisfied: func(snap *ruleSnapshot) bool { return len(snap.Weights) > 0 },
	},
	{
		Achievement: Achievement{
			ID:          "lost_5kg",
			Name:        "Menos 5kg",
			Description: "Lost 5 kg since the starting weight.",
			Icon:        "trending-down",
		},
		Satisfied: func(snap *ruleSnapshot) bool { return weightLost(snap) >= 5 },
	},
	{
		Achievement: Achievement{
			ID:          "lost_10kg",
			Name:        "Menos 10kg",
			Description: "Lost 10 kg since the starting weight.",
			Icon:        "award",
		},
		Satisfied: func(snap *ruleSnapshot) bool { return weightLost(snap) >= 10 },
	},
	{
		Achievement: Achievement{
			ID:          "checklist_complete",
			Name:        "Tudo Pronto",
			Description: "Finished every pre-operative checklist item.",
			Icon:        "check-circle",
		},
		Satisfied: func(snap *ruleSnapshot) bool {
			if len(snap.Checklist) == 0 {
				return false
			}
			for _, item := range snap.Checklist {
				if !item.Done {
					return false
				}
			}
			return true
		},
	},
	{
		Achievement: Achievement{
			ID:          "water_goal_met",
			Name:        "Hidratado",
			Description: "Reached the personal daily water goal.",
			Icon:        "droplet",
		},
		Satisfied: func(snap *ruleSnapshot) bool {
			return snap.DailyGoal.Water > 0 && snap.Latest.Water >= snap.DailyGoal.Water
		},
	},
	{
		Achievement: Achievement{
			ID:          "protein_goal_met",
			Name:        "Proteína em Dia",
			Description: "Reached the personal daily protein goal.",
			Icon:        "zap",
		},
		Satisfied: func(snap *ruleSnapshot) bool {
			return snap.DailyGoal.Protein > 0 && snap.Latest.Protein >= snap.DailyGoal.Protein
		},
	},
}

// AchievementService evaluates the rule catalog against a patient snapshot
// and unlocks whatever newly holds. Unlocks are permanent.
type AchievementService struct {
	db *gorm.DB

	mu       sync.Mutex
	patients map[uint]*sync.Mutex
}

func NewAchievementService(db *gorm.DB) *AchievementService {
	return &AchievementService{db: db}
}

// lockPatient serializes evaluations per patient within this process. Other
// replicas sharing the database serialize on the row lock taken by Evaluate.
func (s *AchievementService) lockPatient(patientID uint) func() {
	s.mu.Lock()
	if s.patients == nil {
		s.patients = make(map[uint]*sync.Mutex)
	}
	m := s.patients[patientID]
	if m == nil {
		m = &sync.Mutex{}
		s.patients[patientID] = m
	}
	s.mu.Unlock()
	m.Lock()
	return m.Unlock
}

// Catalog returns every achievement definition, in rule order.
func (s *AchievementService) Catalog() []Achievement {
	out := make([]Achievement, len(catalog))
	for i, r := range catalog {
		out[i] = r.Achievement
	}
	return out
}

// Evaluate runs every rule against a fresh snapshot of the patient and
// unlocks the ones newly satisfied. All new unlocks are persisted in a single
// update of the achievement set; on write failure nothing is granted.
// Already-unlocked achievements are never returned again.
//
// Two concurrent triggers for the same patient must not interleave between
// the snapshot read and the set write, or the later write erases the earlier
// unlock. Evaluations are serialized per patient, and the snapshot read holds
// the user row for update for the length of the transaction.
func (s *AchievementService) Evaluate(patientID uint) ([]Achievement, error) {
	unlock := s.lockPatient(patientID)
	defer unlock()

	var newly []Achievement
	err := s.db.Transaction(func(tx *gorm.DB) error {
		snap, err := s.loadSnapshot(tx, patientID)
		if err != nil {
			return err
		}

		unlocked := make(map[string]bool, len(snap.User.Achievements))
		for _, id := range snap.User.Achievements {
			unlocked[id] = true
		}

		for _, rule := range catalog {
			if unlocked[rule.ID] {
				continue
			}
			if rule.Satisfied(snap) {
				newly = append(newly, rule.Achievement)
			}
		}
		if len(newly) == 0 {
			return nil
		}

		updated := append(datatypes.JSONSlice[string]{}, snap.User.Achievements...)
		for _, a := range newly {
			updated = append(updated, a.ID)
		}
		return tx.Model(&models.User{}).
			Where("id = ?", patientID).
			Update("achievements", updated).Error
	})
	if err != nil {
		// Nothing is considered granted; the next trigger retries.
		return nil, err
	}
	return newly, nil
}

// Unlocked reports, for every catalog entry, whether the patient holds it.
// A projection only; rules are not re-run here.
func (s *AchievementService) Unlocked(patientID uint) ([]AchievementStatus, error) {
	var user models.User
	if err := s.db.First(&user, patientID).Error; err != nil {
		return nil, err
	}
	held := make(map[string]bool, len(user.Achievements))
	for _, id := range user.Achievements {
		held[id] = true
	}
	out := make([]AchievementStatus, len(catalog))
	for i, r := range catalog {
		out[i] = AchievementStatus{Achievement: r.Achievement, Unlocked: held[r.ID]}
	}
	return out, nil
}

type AchievementStatus struct {
	Achievement
	Unlocked bool `json:"unlocked"`
}

func (s *AchievementService) loadSnapshot(tx *gorm.DB, patientID uint) (*ruleSnapshot, error) {
	var snap ruleSnapshot

	// SQLite has no FOR UPDATE; its single writer gives the same guarantee.
	userQuery := tx
	if tx.Dialector.Name() == "postgres" {
		userQuery = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := userQuery.First(&snap.User, patientID).Error; err != nil {
		return nil, err
	}
	if err := tx.
		Where("user_id = ?", patientID).
		Order("logged_at asc").
		Find(&snap.Weights).Error; err != nil {
		return nil, err
	}
	if err := tx.
		Where("user_id = ?", patientID).
		Find(&snap.Checklist).Error; err != nil {
		return nil, err
	}

	latest, err := NewAggregateService(tx).Latest(patientID)
	if err != nil {
		return nil, err
	}
	snap.Latest = latest

	err = tx.Where("user_id = ?", patientID).First(&snap.DailyGoal).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	return &snap, nil
}
