package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/hugodiana/BariPlus-sub001/services"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ChecklistController struct {
	Checklist *services.ChecklistService
}

func NewChecklistController(cs *services.ChecklistService) *ChecklistController {
	return &ChecklistController{Checklist: cs}
}

// GET /user/checklist
func (cc *ChecklistController) List(c *gin.Context) {
	uid := c.GetUint("userID")

	items, err := cc.Checklist.List(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, items)
}

// PUT /user/checklist/:id
func (cc *ChecklistController) Toggle(c *gin.Context) {
	uid := c.GetUint("userID")

	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}

	var req struct {
		Done *bool `json:"done" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	unlocked, err := cc.Checklist.Toggle(uid, uint(id), *req.Done)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "item not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"new_unlocks": unlocked})
}

// POST /user/checklist
func (cc *ChecklistController) Add(c *gin.Context) {
	uid := c.GetUint("userID")

	var req struct {
		Label string `json:"label" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	item, err := cc.Checklist.Add(uid, req.Label)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, item)
}
