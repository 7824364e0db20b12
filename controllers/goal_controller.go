package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hugodiana/BariPlus-sub001/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type GoalController struct {
	Goals *services.GoalService
}

func NewGoalController(gs *services.GoalService) *GoalController {
	return &GoalController{Goals: gs}
}

// POST /nutricionista/goals
func (gc *GoalController) Create(c *gin.Context) {
	uid := c.GetUint("userID")

	var input services.CreateGoalInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	goal, err := gc.Goals.Create(uid, input)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrInvalidMetric),
			errors.Is(err, services.ErrInvalidTarget),
			errors.Is(err, services.ErrDeadlinePassed),
			errors.Is(err, services.ErrPatientNotFound):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		}
		return
	}

	c.JSON(http.StatusCreated, goal)
}

// GET /nutricionista/goals
func (gc *GoalController) ListMine(c *gin.Context) {
	uid := c.GetUint("userID")

	goals, err := gc.Goals.ListByNutricionista(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, goals)
}

// DELETE /nutricionista/goals/:id
func (gc *GoalController) Delete(c *gin.Context) {
	uid := c.GetUint("userID")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid goal id"})
		return
	}

	if err := gc.Goals.Delete(uid, uint(id)); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "goal not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.Status(http.StatusNoContent)
}

// GET /user/goals — the patient's still-active goals.
func (gc *GoalController) ListActive(c *gin.Context) {
	uid := c.GetUint("userID")

	goals, err := gc.Goals.ListActive(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, goals)
}
