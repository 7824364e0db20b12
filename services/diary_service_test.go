package services

import (
	"testing"
	"time"

	"github.com/hugodiana/BariPlus-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// initTestBus points the package event bus at this test's DB and detaches it
// again on cleanup so later tests never reach a closed handle.
func initTestBus(t *testing.T, db *gorm.DB) {
	t.Helper()
	InitEventBus(NewAchievementService(db), nil)
	t.Cleanup(func() { InitEventBus(nil, nil) })
}

func TestDiary_WaterLogFeedsAggregate(t *testing.T) {
	db := newTestDB(t)
	initTestBus(t, db)
	aggs := NewAggregateService(db)
	svc := NewDiaryService(db, aggs)

	patient := seedPatient(t, db)

	_, err := svc.LogWater(patient.ID, 500)
	require.NoError(t, err)
	_, err = svc.LogWater(patient.ID, 300)
	require.NoError(t, err)

	today := models.AggregateDate(time.Now())
	agg, err := aggs.Get(patient.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 800.0, agg.Water)

	entries, err := svc.ListByDate(patient.ID, today)
	require.NoError(t, err)
	assert.Len(t, entries, 2)
}

func TestDiary_MealLogFeedsProtein(t *testing.T) {
	db := newTestDB(t)
	initTestBus(t, db)
	aggs := NewAggregateService(db)
	svc := NewDiaryService(db, aggs)

	patient := seedPatient(t, db)

	_, err := svc.LogMeal(patient.ID, "frango grelhado", 35)
	require.NoError(t, err)
	_, err = svc.LogMeal(patient.ID, "chá", 0)
	require.NoError(t, err)

	today := models.AggregateDate(time.Now())
	agg, err := aggs.Get(patient.ID, today)
	require.NoError(t, err)
	assert.Equal(t, 35.0, agg.Protein)
}

func TestDiary_LoggingUnlocksIntakeAchievements(t *testing.T) {
	db := newTestDB(t)
	initTestBus(t, db)
	svc := NewDiaryService(db, NewAggregateService(db))

	patient := seedPatient(t, db)
	require.NoError(t, db.Create(&models.DailyGoal{
		UserID: patient.ID, Water: 1000,
	}).Error)

	unlocked, err := svc.LogWater(patient.ID, 600)
	require.NoError(t, err)
	assert.Empty(t, unlocked)

	unlocked, err = svc.LogWater(patient.ID, 600)
	require.NoError(t, err)
	assert.Equal(t, []string{"water_goal_met"}, ids(unlocked))
}

func TestDiary_RejectsNonPositiveAmounts(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiaryService(db, NewAggregateService(db))

	_, err := svc.LogWater(1, 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.LogMeal(1, "x", -1)
	assert.ErrorIs(t, err, ErrInvalidAmount)
}

func TestDiary_MedicationHistoryKeyedByDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiaryService(db, NewAggregateService(db))

	patient := seedPatient(t, db)

	require.NoError(t, svc.MarkMedication(patient.ID, "2024-02-01", "omeprazol", 1))
	require.NoError(t, svc.MarkMedication(patient.ID, "2024-02-01", "polivitamínico", 2))
	require.NoError(t, svc.MarkMedication(patient.ID, "2024-02-03", "omeprazol", 1))

	history, err := svc.MedicationHistory(patient.ID)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, 1, history["2024-02-01"]["omeprazol"])
	assert.Equal(t, 2, history["2024-02-01"]["polivitamínico"])
	assert.Equal(t, 1, history["2024-02-03"]["omeprazol"])

	// Re-marking overwrites the day's dose count, not the whole map.
	require.NoError(t, svc.MarkMedication(patient.ID, "2024-02-01", "omeprazol", 3))
	history, err = svc.MedicationHistory(patient.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, history["2024-02-01"]["omeprazol"])
	assert.Equal(t, 2, history["2024-02-01"]["polivitamínico"])
}

func TestDiary_MedicationValidation(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiaryService(db, NewAggregateService(db))

	assert.Error(t, svc.MarkMedication(1, "02/01/2024", "omeprazol", 1))
	assert.ErrorIs(t, svc.MarkMedication(1, "2024-02-01", "omeprazol", 0), ErrInvalidAmount)
}

func TestDiary_EmptyMedicationHistory(t *testing.T) {
	db := newTestDB(t)
	svc := NewDiaryService(db, NewAggregateService(db))

	history, err := svc.MedicationHistory(404)
	require.NoError(t, err)
	assert.Empty(t, history)
}
