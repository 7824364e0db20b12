package models

import "time"

// DailyAggregate accumulates a patient's tracked intake for one calendar day.
// One row per (user, date); columns only ever grow by additive increments.
type DailyAggregate struct {
	ID     uint   `gorm:"primaryKey"`
	UserID uint   `gorm:"uniqueIndex:idx_aggregate_user_date;not null"`
	Date   string `gorm:"size:10;uniqueIndex:idx_aggregate_user_date;not null"` // YYYY-MM-DD

	Water   float64 // ml
	Protein float64 // g

	CreatedAt time.Time
	UpdatedAt time.Time
}

const AggregateDateLayout = "2006-01-02"

// AggregateDate formats t as the date key used by DailyAggregate rows.
func AggregateDate(t time.Time) string {
	return t.Format(AggregateDateLayout)
}
