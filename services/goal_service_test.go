package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/hugodiana/BariPlus-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubNotifier struct {
	calls []string
	err   error
}

func (s *stubNotifier) NotifyGoalCompleted(userID uint, description string) error {
	s.calls = append(s.calls, fmt.Sprintf("%d:%s", userID, description))
	return s.err
}

func seedPatient(t *testing.T, db *gorm.DB) *models.User {
	t.Helper()
	user := &models.User{
		Email:    fmt.Sprintf("patient%d@test.dev", time.Now().UnixNano()),
		Password: "x",
		FullName: "Test Patient",
		Role:     models.RolePatient,
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func seedGoal(t *testing.T, db *gorm.DB, patientID uint, metric string, target float64, deadline time.Time) *models.PatientGoal {
	t.Helper()
	goal := &models.PatientGoal{
		NutricionistaID: 99,
		PatientID:       patientID,
		Description:     "test goal",
		Metric:          metric,
		TargetValue:     target,
		Deadline:        deadline,
		Status:          models.GoalStatusActive,
	}
	require.NoError(t, db.Create(goal).Error)
	return goal
}

func date(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func TestSweep_CompletesWhenAnySingleDayReachesTarget(t *testing.T) {
	db := newTestDB(t)
	aggs := NewAggregateService(db)
	notifier := &stubNotifier{}
	svc := NewGoalService(db, aggs, notifier, nil)

	patient := seedPatient(t, db)
	goal := seedGoal(t, db, patient.ID, models.MetricProtein, 60, date("2024-01-10"))

	require.NoError(t, aggs.Increment(patient.ID, "2024-01-08", models.MetricProtein, 55))
	require.NoError(t, aggs.Increment(patient.ID, "2024-01-09", models.MetricProtein, 62))

	completed, failed := svc.Sweep(date("2024-01-11"))
	assert.Equal(t, 1, completed)
	assert.Equal(t, 0, failed)

	var got models.PatientGoal
	require.NoError(t, db.First(&got, goal.ID).Error)
	assert.Equal(t, models.GoalStatusCompleted, got.Status)
	require.NotNil(t, got.ResolvedAt)
	require.Len(t, notifier.calls, 1)
	assert.Equal(t, fmt.Sprintf("%d:test goal", patient.ID), notifier.calls[0])
}

func TestSweep_FailsWhenNoDayReachesTarget(t *testing.T) {
	db := newTestDB(t)
	aggs := NewAggregateService(db)
	notifier := &stubNotifier{}
	svc := NewGoalService(db, aggs, notifier, nil)

	patient := seedPatient(t, db)
	goal := seedGoal(t, db, patient.ID, models.MetricProtein, 60, date("2024-01-10"))

	require.NoError(t, aggs.Increment(patient.ID, "2024-01-08", models.MetricProtein, 55))
	require.NoError(t, aggs.Increment(patient.ID, "2024-01-09", models.MetricProtein, 58))

	completed, failed := svc.Sweep(date("2024-01-11"))
	assert.Equal(t, 0, completed)
	assert.Equal(t, 1, failed)

	var got models.PatientGoal
	require.NoError(t, db.First(&got, goal.ID).Error)
	assert.Equal(t, models.GoalStatusFailed, got.Status)
	assert.Empty(t, notifier.calls, "failed goals must not notify")
}

func TestSweep_NoAggregateRowsResolvesToFailed(t *testing.T) {
	db := newTestDB(t)
	svc := NewGoalService(db, NewAggregateService(db), &stubNotifier{}, nil)

	patient := seedPatient(t, db)
	goal := seedGoal(t, db, patient.ID, models.MetricWater, 2000, date("2024-01-10"))

	completed, failed := svc.Sweep(date("2024-01-11"))
	assert.Equal(t, 0, completed)
	assert.Equal(t, 1, failed)

	var got models.PatientGoal
	require.NoError(t, db.First(&got, goal.ID).Error)
	assert.Equal(t, models.GoalStatusFailed, got.Status)
}

func TestSweep_IgnoresRowsAfterDeadline(t *testing.T) {
	db := newTestDB(t)
	aggs := NewAggregateService(db)
	svc := NewGoalService(db, aggs, &stubNotifier{}, nil)

	patient := seedPatient(t, db)
	goal := seedGoal(t, db, patient.ID, models.MetricWater, 2000, date("2024-01-10"))

	// Target reached only after the deadline.
	require.NoError(t, aggs.Increment(patient.ID, "2024-01-12", models.MetricWater, 2500))

	svc.Sweep(date("2024-01-14"))

	var got models.PatientGoal
	require.NoError(t, db.First(&got, goal.ID).Error)
	assert.Equal(t, models.GoalStatusFailed, got.Status)
}

func TestSweep_LeavesFutureGoalsUntouched(t *testing.T) {
	db := newTestDB(t)
	svc := NewGoalService(db, NewAggregateService(db), &stubNotifier{}, nil)

	patient := seedPatient(t, db)
	future := seedGoal(t, db, patient.ID, models.MetricWater, 2000, time.Now().Add(48*time.Hour))

	completed, failed := svc.Sweep(time.Now())
	assert.Equal(t, 0, completed)
	assert.Equal(t, 0, failed)

	var got models.PatientGoal
	require.NoError(t, db.First(&got, future.ID).Error)
	assert.Equal(t, models.GoalStatusActive, got.Status)
}

func TestSweep_TerminalGoalsAreNeverReevaluated(t *testing.T) {
	db := newTestDB(t)
	aggs := NewAggregateService(db)
	notifier := &stubNotifier{}
	svc := NewGoalService(db, aggs, notifier, nil)

	patient := seedPatient(t, db)
	goal := seedGoal(t, db, patient.ID, models.MetricWater, 2000, date("2024-01-10"))
	require.NoError(t, aggs.Increment(patient.ID, "2024-01-09", models.MetricWater, 2200))

	svc.Sweep(date("2024-01-11"))
	require.Len(t, notifier.calls, 1)

	// More data arriving later must not matter; repeated sweeps are no-ops.
	require.NoError(t, aggs.Increment(patient.ID, "2024-01-09", models.MetricWater, 5000))
	completed, failed := svc.Sweep(date("2024-01-12"))
	assert.Equal(t, 0, completed)
	assert.Equal(t, 0, failed)
	assert.Len(t, notifier.calls, 1, "terminal goal must not notify again")

	var got models.PatientGoal
	require.NoError(t, db.First(&got, goal.ID).Error)
	assert.Equal(t, models.GoalStatusCompleted, got.Status)
}

func TestSweep_UnwiredMetricKindsResolveToFailed(t *testing.T) {
	db := newTestDB(t)
	svc := NewGoalService(db, NewAggregateService(db), &stubNotifier{}, nil)

	patient := seedPatient(t, db)
	other := seedGoal(t, db, patient.ID, models.MetricOther, 1, date("2024-01-10"))
	weighIns := seedGoal(t, db, patient.ID, models.MetricWeighInCount, 3, date("2024-01-10"))

	completed, failed := svc.Sweep(date("2024-01-11"))
	assert.Equal(t, 0, completed)
	assert.Equal(t, 2, failed)

	for _, id := range []uint{other.ID, weighIns.ID} {
		var got models.PatientGoal
		require.NoError(t, db.First(&got, id).Error)
		assert.Equal(t, models.GoalStatusFailed, got.Status)
	}
}

func TestSweep_NotifierFailureDoesNotRollBackCompletion(t *testing.T) {
	db := newTestDB(t)
	aggs := NewAggregateService(db)
	notifier := &stubNotifier{err: errors.New("sns unavailable")}
	svc := NewGoalService(db, aggs, notifier, nil)

	patient := seedPatient(t, db)
	first := seedGoal(t, db, patient.ID, models.MetricWater, 2000, date("2024-01-10"))
	second := seedGoal(t, db, patient.ID, models.MetricProtein, 60, date("2024-01-10"))

	require.NoError(t, aggs.Increment(patient.ID, "2024-01-09", models.MetricWater, 2200))
	require.NoError(t, aggs.Increment(patient.ID, "2024-01-09", models.MetricProtein, 70))

	completed, failed := svc.Sweep(date("2024-01-11"))
	assert.Equal(t, 2, completed)
	assert.Equal(t, 0, failed)

	// Both goals settled despite every push failing.
	for _, id := range []uint{first.ID, second.ID} {
		var got models.PatientGoal
		require.NoError(t, db.First(&got, id).Error)
		assert.Equal(t, models.GoalStatusCompleted, got.Status)
	}
}

func TestSweep_PastDeadlineAtCreationIsPickedUp(t *testing.T) {
	db := newTestDB(t)
	svc := NewGoalService(db, NewAggregateService(db), &stubNotifier{}, nil)

	patient := seedPatient(t, db)
	// Created directly with an already-expired deadline (Create validates,
	// the engine does not care).
	goal := seedGoal(t, db, patient.ID, models.MetricWater, 2000, date("2020-01-01"))

	_, failed := svc.Sweep(time.Now())
	assert.Equal(t, 1, failed)

	var got models.PatientGoal
	require.NoError(t, db.First(&got, goal.ID).Error)
	assert.Equal(t, models.GoalStatusFailed, got.Status)
}

func TestCreateGoal_Validation(t *testing.T) {
	db := newTestDB(t)
	svc := NewGoalService(db, NewAggregateService(db), &stubNotifier{}, nil)

	patient := seedPatient(t, db)
	future := time.Now().Add(72 * time.Hour)

	_, err := svc.Create(99, CreateGoalInput{
		PatientID: patient.ID, Metric: "calories", TargetValue: 10, Deadline: future,
	})
	assert.ErrorIs(t, err, ErrInvalidMetric)

	_, err = svc.Create(99, CreateGoalInput{
		PatientID: patient.ID, Metric: models.MetricWater, TargetValue: 0, Deadline: future,
	})
	assert.ErrorIs(t, err, ErrInvalidTarget)

	_, err = svc.Create(99, CreateGoalInput{
		PatientID: patient.ID, Metric: models.MetricWater, TargetValue: 2000, Deadline: time.Now().Add(-time.Hour),
	})
	assert.ErrorIs(t, err, ErrDeadlinePassed)

	_, err = svc.Create(99, CreateGoalInput{
		PatientID: 12345, Metric: models.MetricWater, TargetValue: 2000, Deadline: future,
	})
	assert.ErrorIs(t, err, ErrPatientNotFound)

	goal, err := svc.Create(99, CreateGoalInput{
		PatientID: patient.ID, Metric: models.MetricWater, TargetValue: 2000, Unit: "ml", Deadline: future,
	})
	require.NoError(t, err)
	assert.Equal(t, models.GoalStatusActive, goal.Status)
}

func TestListActive_ExcludesTerminalGoals(t *testing.T) {
	db := newTestDB(t)
	aggs := NewAggregateService(db)
	svc := NewGoalService(db, aggs, &stubNotifier{}, nil)

	patient := seedPatient(t, db)
	seedGoal(t, db, patient.ID, models.MetricWater, 2000, date("2024-01-10"))
	open := seedGoal(t, db, patient.ID, models.MetricWater, 2000, time.Now().Add(48*time.Hour))

	svc.Sweep(time.Now())

	goals, err := svc.ListActive(patient.ID)
	require.NoError(t, err)
	require.Len(t, goals, 1)
	assert.Equal(t, open.ID, goals[0].ID)
}

type stubBroadcaster struct {
	events []uint
}

func (s *stubBroadcaster) Broadcast(userID uint, payload any) {
	s.events = append(s.events, userID)
}

func TestSweep_BroadcastsCompletionOnce(t *testing.T) {
	db := newTestDB(t)
	aggs := NewAggregateService(db)
	hub := &stubBroadcaster{}
	svc := NewGoalService(db, aggs, &stubNotifier{}, hub)

	patient := seedPatient(t, db)
	met := seedGoal(t, db, patient.ID, models.MetricWater, 2000, date("2024-01-10"))
	seedGoal(t, db, patient.ID, models.MetricProtein, 80, date("2024-01-10"))
	require.NoError(t, aggs.Increment(patient.ID, "2024-01-05", models.MetricWater, 2500))

	svc.Sweep(date("2024-02-01"))

	// Completion reaches the hub; the failed goal stays silent.
	require.Len(t, hub.events, 1)
	assert.Equal(t, patient.ID, hub.events[0])

	// Terminal goals never re-broadcast.
	svc.Sweep(date("2024-03-01"))
	assert.Len(t, hub.events, 1)

	var got models.PatientGoal
	require.NoError(t, db.First(&got, met.ID).Error)
	assert.Equal(t, models.GoalStatusCompleted, got.Status)
}

func TestSettle_AlreadySettledGoalCountsForNoOutcome(t *testing.T) {
	db := newTestDB(t)
	notifier := &stubNotifier{}
	hub := &stubBroadcaster{}
	svc := NewGoalService(db, NewAggregateService(db), notifier, hub)

	patient := seedPatient(t, db)
	goal := seedGoal(t, db, patient.ID, models.MetricWater, 2000, date("2024-01-10"))

	// Another runner settles the goal between the sweep's query and ours.
	require.NoError(t, db.Model(&models.PatientGoal{}).
		Where("id = ?", goal.ID).
		Update("status", models.GoalStatusCompleted).Error)

	stale := *goal // still believes the goal is active
	status, err := svc.settle(&stale, date("2024-02-01"))
	require.NoError(t, err)
	assert.Empty(t, status)
	assert.Empty(t, notifier.calls)
	assert.Empty(t, hub.events)
}
