package services

import (
	"errors"
	"log"
	"time"

	"github.com/hugodiana/BariPlus-sub001/models"

	"gorm.io/gorm"
)

// Notifier is what the sweep needs from the push layer. All outcomes of a
// send are non-fatal to the caller.
type Notifier interface {
	NotifyGoalCompleted(userID uint, description string) error
}

// CompletionBroadcaster fans a completed goal out to the patient's open
// realtime connections. The hub satisfies it.
type CompletionBroadcaster interface {
	Broadcast(userID uint, payload any)
}

// GoalService manages nutricionista-assigned goals and runs the deadline
// sweep that settles them.
type GoalService struct {
	db         *gorm.DB
	aggregates *AggregateService
	notifier   Notifier
	hub        CompletionBroadcaster
}

func NewGoalService(db *gorm.DB, aggregates *AggregateService, notifier Notifier, hub CompletionBroadcaster) *GoalService {
	return &GoalService{db: db, aggregates: aggregates, notifier: notifier, hub: hub}
}

var (
	ErrInvalidMetric   = errors.New("invalid metric kind")
	ErrInvalidTarget   = errors.New("target value must be positive")
	ErrDeadlinePassed  = errors.New("deadline must be in the future")
	ErrPatientNotFound = errors.New("patient not found")
)

type CreateGoalInput struct {
	PatientID   uint      `json:"patient_id" binding:"required"`
	Description string    `json:"description"`
	Metric      string    `json:"metric" binding:"required"`
	TargetValue float64   `json:"target_value" binding:"required"`
	Unit        string    `json:"unit"`
	Deadline    time.Time `json:"deadline" binding:"required"`
}

func (s *GoalService) Create(nutricionistaID uint, in CreateGoalInput) (*models.PatientGoal, error) {
	if !models.ValidMetric(in.Metric) {
		return nil, ErrInvalidMetric
	}
	if in.TargetValue <= 0 {
		return nil, ErrInvalidTarget
	}
	if !in.Deadline.After(time.Now()) {
		return nil, ErrDeadlinePassed
	}

	var patient models.User
	if err := s.db.Where("id = ? AND role = ?", in.PatientID, models.RolePatient).
		First(&patient).Error; err != nil {
		return nil, ErrPatientNotFound
	}

	goal := models.PatientGoal{
		NutricionistaID: nutricionistaID,
		PatientID:       in.PatientID,
		Description:     in.Description,
		Metric:          in.Metric,
		TargetValue:     in.TargetValue,
		Unit:            in.Unit,
		Deadline:        in.Deadline,
		Status:          models.GoalStatusActive,
	}
	if err := s.db.Create(&goal).Error; err != nil {
		return nil, err
	}
	return &goal, nil
}

// ListActive returns the patient's still-open goals for display.
func (s *GoalService) ListActive(patientID uint) ([]models.PatientGoal, error) {
	var goals []models.PatientGoal
	err := s.db.
		Where("patient_id = ? AND status = ?", patientID, models.GoalStatusActive).
		Order("deadline asc").
		Find(&goals).Error
	return goals, err
}

func (s *GoalService) ListByNutricionista(nutricionistaID uint) ([]models.PatientGoal, error) {
	var goals []models.PatientGoal
	err := s.db.
		Where("nutricionista_id = ?", nutricionistaID).
		Order("deadline asc").
		Find(&goals).Error
	return goals, err
}

func (s *GoalService) Delete(nutricionistaID, goalID uint) error {
	res := s.db.
		Where("id = ? AND nutricionista_id = ?", goalID, nutricionistaID).
		Delete(&models.PatientGoal{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Sweep settles every active goal whose deadline has passed. Each goal is
// handled independently; one bad record never aborts the rest. Returns the
// number of goals completed and failed.
func (s *GoalService) Sweep(now time.Time) (completed, failed int) {
	var due []models.PatientGoal
	if err := s.db.
		Where("status = ? AND deadline < ?", models.GoalStatusActive, now).
		Find(&due).Error; err != nil {
		log.Printf("goal sweep: query failed: %v", err)
		return 0, 0
	}

	for i := range due {
		goal := &due[i]
		status, err := s.settle(goal, now)
		if err != nil {
			// Leave the goal active; the next sweep picks it up again.
			log.Printf("goal sweep: goal %d: %v", goal.ID, err)
			continue
		}
		switch status {
		case models.GoalStatusCompleted:
			completed++
		case models.GoalStatusFailed:
			failed++
		}
	}
	return completed, failed
}

// settle resolves one expired goal and persists its terminal status with a
// compare-and-set on status=active, so a goal can never leave active twice.
// Returns the status this call persisted, or "" when another runner settled
// the goal first.
func (s *GoalService) settle(goal *models.PatientGoal, now time.Time) (string, error) {
	met, err := s.satisfied(goal)
	if err != nil {
		return "", err
	}

	status := models.GoalStatusFailed
	if met {
		status = models.GoalStatusCompleted
	}

	res := s.db.Model(&models.PatientGoal{}).
		Where("id = ? AND status = ?", goal.ID, models.GoalStatusActive).
		Updates(map[string]interface{}{"status": status, "resolved_at": now})
	if res.Error != nil {
		return "", res.Error
	}
	if res.RowsAffected == 0 {
		// Someone else already settled it; nothing more to do.
		return "", nil
	}
	goal.Status = status

	if met {
		if s.hub != nil {
			s.hub.Broadcast(goal.PatientID, map[string]any{
				"kind": "goal.completed",
				"goal": goal,
			})
		}
		if s.notifier != nil {
			if err := s.notifier.NotifyGoalCompleted(goal.PatientID, goal.Description); err != nil {
				// Best effort only. The goal stays completed.
				log.Printf("goal sweep: notify patient %d: %v", goal.PatientID, err)
			}
		}
	}
	return status, nil
}

// satisfied checks whether any single day inside the goal window reached the
// target. Metrics without a wired data source always resolve unsatisfied.
func (s *GoalService) satisfied(goal *models.PatientGoal) (bool, error) {
	switch goal.Metric {
	case models.MetricWater, models.MetricProtein:
		rows, err := s.aggregates.Range(goal.PatientID, models.AggregateDate(goal.Deadline))
		if err != nil {
			return false, err
		}
		for _, row := range rows {
			v := row.Water
			if goal.Metric == models.MetricProtein {
				v = row.Protein
			}
			if v >= goal.TargetValue {
				return true, nil
			}
		}
		return false, nil
	default:
		return false, nil
	}
}
