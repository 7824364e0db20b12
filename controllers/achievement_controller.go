package controllers

import (
	"net/http"

	"github.com/hugodiana/BariPlus-sub001/services"

	"github.com/gin-gonic/gin"
)

type AchievementController struct {
	Achievements *services.AchievementService
}

func NewAchievementController(as *services.AchievementService) *AchievementController {
	return &AchievementController{Achievements: as}
}

// GET /user/achievements — every catalog entry with its unlocked flag.
// A projection over the stored set; rules are not re-evaluated here.
func (ac *AchievementController) List(c *gin.Context) {
	uid := c.GetUint("userID")

	statuses, err := ac.Achievements.Unlocked(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, statuses)
}
