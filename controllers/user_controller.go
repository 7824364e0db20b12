package controllers

import (
	"net/http"

	"github.com/hugodiana/BariPlus-sub001/services"

	"github.com/gin-gonic/gin"
)

func GetProfile(c *gin.Context) {
	uid := c.GetUint("userID")

	profile, err := services.GetUserProfile(uid)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, profile)
}

func CompleteOnboarding(c *gin.Context) {
	uid := c.GetUint("userID")

	var input services.OnboardingInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unlocked, err := services.CompleteOnboarding(uid, input)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "onboarding complete",
		"new_unlocks": unlocked,
	})
}

func UpdateDailyGoal(c *gin.Context) {
	uid := c.GetUint("userID")

	var req struct {
		Water   float64 `json:"water"`
		Protein float64 `json:"protein"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := services.UpsertDailyGoal(uid, req.Water, req.Protein); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

func GetDailyProgress(c *gin.Context) {
	uid := c.GetUint("userID")

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'date' query param"})
		return
	}

	goal, progress, err := services.GetDailyGoalAndProgress(uid, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"date": date, "goals": goal, "progress": progress})
}

func ListPatients(c *gin.Context) {
	uid := c.GetUint("userID")

	patients, err := services.ListPatients(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, patients)
}
