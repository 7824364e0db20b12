package controllers

import (
	"net/http"

	"github.com/hugodiana/BariPlus-sub001/services"

	"github.com/gin-gonic/gin"
)

type WeightController struct {
	Weights *services.WeightService
}

func NewWeightController(ws *services.WeightService) *WeightController {
	return &WeightController{Weights: ws}
}

// POST /user/weights
func (wc *WeightController) Log(c *gin.Context) {
	uid := c.GetUint("userID")

	var req struct {
		Weight float64 `json:"weight" binding:"required"`
		Notes  string  `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	summary, unlocked, err := wc.Weights.Log(uid, req.Weight, req.Notes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"summary":     summary,
		"new_unlocks": unlocked,
	})
}

// GET /user/weights
func (wc *WeightController) History(c *gin.Context) {
	uid := c.GetUint("userID")

	entries, err := wc.Weights.History(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}
