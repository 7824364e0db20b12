package controllers

import (
	"net/http"

	"github.com/hugodiana/BariPlus-sub001/services"

	"github.com/gin-gonic/gin"
)

type DiaryController struct {
	Diary *services.DiaryService
}

func NewDiaryController(ds *services.DiaryService) *DiaryController {
	return &DiaryController{Diary: ds}
}

// POST /user/diary/water
func (dc *DiaryController) LogWater(c *gin.Context) {
	uid := c.GetUint("userID")

	var req struct {
		AmountMl float64 `json:"amount_ml" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unlocked, err := dc.Diary.LogWater(uid, req.AmountMl)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"new_unlocks": unlocked})
}

// POST /user/diary/meals
func (dc *DiaryController) LogMeal(c *gin.Context) {
	uid := c.GetUint("userID")

	var req struct {
		Description string  `json:"description"`
		ProteinG    float64 `json:"protein_g"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unlocked, err := dc.Diary.LogMeal(uid, req.Description, req.ProteinG)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"new_unlocks": unlocked})
}

// GET /user/diary?date=YYYY-MM-DD
func (dc *DiaryController) ListByDate(c *gin.Context) {
	uid := c.GetUint("userID")

	date := c.Query("date")
	if date == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing 'date' query param"})
		return
	}

	entries, err := dc.Diary.ListByDate(uid, date)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, entries)
}

// PUT /user/diary/medications
func (dc *DiaryController) MarkMedication(c *gin.Context) {
	uid := c.GetUint("userID")

	var req struct {
		Date       string `json:"date" binding:"required"`
		Medication string `json:"medication" binding:"required"`
		Doses      int    `json:"doses" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := dc.Diary.MarkMedication(uid, req.Date, req.Medication, req.Doses); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /user/diary/medications
func (dc *DiaryController) MedicationHistory(c *gin.Context) {
	uid := c.GetUint("userID")

	history, err := dc.Diary.MedicationHistory(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, history)
}
