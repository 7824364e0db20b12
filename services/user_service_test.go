package services

import (
	"testing"
	"time"

	"github.com/hugodiana/BariPlus-sub001/config"
	"github.com/hugodiana/BariPlus-sub001/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// The thin user service reads through the package-level handle.
func withConfigDB(t *testing.T) *gorm.DB {
	t.Helper()
	db := newTestDB(t)
	prev := config.DB
	config.DB = db
	t.Cleanup(func() { config.DB = prev })
	return db
}

func TestGetUserProfile_DerivesAgeFromBirthday(t *testing.T) {
	db := withConfigDB(t)

	patient := seedPatient(t, db)
	birthday := time.Date(1990, 5, 10, 0, 0, 0, 0, time.UTC)
	patient.Birthday = birthday
	require.NoError(t, db.Save(patient).Error)

	profile, err := GetUserProfile(patient.ID)
	require.NoError(t, err)
	assert.Equal(t, utils.CalculateAge(birthday), profile["age"])
	assert.Equal(t, "1990-05-10", profile["birthday"])
}

func TestGetUserProfile_NoBirthdayMeansNoAge(t *testing.T) {
	db := withConfigDB(t)

	patient := seedPatient(t, db)

	profile, err := GetUserProfile(patient.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, profile["age"])
}
