package services

import (
	"sync"
	"testing"

	"github.com/hugodiana/BariPlus-sub001/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAggregate_IncrementCreatesRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewAggregateService(db)

	require.NoError(t, svc.Increment(1, "2024-01-08", models.MetricWater, 500))

	agg, err := svc.Get(1, "2024-01-08")
	require.NoError(t, err)
	assert.Equal(t, 500.0, agg.Water)
	assert.Equal(t, 0.0, agg.Protein)
}

func TestAggregate_IncrementAddsToExistingRow(t *testing.T) {
	db := newTestDB(t)
	svc := NewAggregateService(db)

	require.NoError(t, svc.Increment(1, "2024-01-08", models.MetricWater, 500))
	require.NoError(t, svc.Increment(1, "2024-01-08", models.MetricWater, 300))
	require.NoError(t, svc.Increment(1, "2024-01-08", models.MetricProtein, 25))

	agg, err := svc.Get(1, "2024-01-08")
	require.NoError(t, err)
	assert.Equal(t, 800.0, agg.Water)
	assert.Equal(t, 25.0, agg.Protein)

	// One row per (user, date) no matter how many increments.
	var count int64
	require.NoError(t, db.Model(&models.DailyAggregate{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestAggregate_GetMissingRowIsZeroNotError(t *testing.T) {
	db := newTestDB(t)
	svc := NewAggregateService(db)

	agg, err := svc.Get(42, "2024-06-01")
	require.NoError(t, err)
	assert.Equal(t, 0.0, agg.Water)
	assert.Equal(t, 0.0, agg.Protein)
}

func TestAggregate_UnknownMetricRejected(t *testing.T) {
	db := newTestDB(t)
	svc := NewAggregateService(db)

	err := svc.Increment(1, "2024-01-08", models.MetricOther, 10)
	assert.Error(t, err)
}

// Concurrent increments on the same (user, date) key must sum exactly; the
// addition happens in SQL, so no interleaving can drop an update.
func TestAggregate_ConcurrentIncrementsSum(t *testing.T) {
	db := newTestDB(t)
	svc := NewAggregateService(db)

	const goroutines = 3
	const perGoroutine = 5

	var wg sync.WaitGroup
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				if err := svc.Increment(7, "2024-03-01", models.MetricWater, 500); err != nil {
					t.Errorf("increment: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	agg, err := svc.Get(7, "2024-03-01")
	require.NoError(t, err)
	assert.Equal(t, float64(goroutines*perGoroutine*500), agg.Water)
}

func TestAggregate_RangeRespectsThroughDate(t *testing.T) {
	db := newTestDB(t)
	svc := NewAggregateService(db)

	require.NoError(t, svc.Increment(1, "2024-01-08", models.MetricProtein, 55))
	require.NoError(t, svc.Increment(1, "2024-01-09", models.MetricProtein, 62))
	require.NoError(t, svc.Increment(1, "2024-01-12", models.MetricProtein, 70))

	rows, err := svc.Range(1, "2024-01-10")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-01-08", rows[0].Date)
	assert.Equal(t, "2024-01-09", rows[1].Date)
}
