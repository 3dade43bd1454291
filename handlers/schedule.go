package handlers

import (
	"errors"
	"net/http"

	scheduleRepo "fitgate/database/repository/schedule"
	"fitgate/services/schedule"
	"fitgate/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// ScheduleHandler serves the weekly class slot endpoints.
type ScheduleHandler struct {
	Schedules schedule.ScheduleService
}

// CreateScheduleHandler handles POST /schedules (admin).
func (h *ScheduleHandler) CreateScheduleHandler(c *gin.Context) {
	var in schedule.SlotInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	slot, err := h.Schedules.Create(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidTimes) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		utils.GetLogger().Error("create schedule failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create schedule"})
		return
	}
	c.JSON(http.StatusCreated, slot)
}

// ListSchedulesHandler handles GET /schedules.
func (h *ScheduleHandler) ListSchedulesHandler(c *gin.Context) {
	slots, err := h.Schedules.List(c.Request.Context())
	if err != nil {
		utils.GetLogger().Error("list schedules failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list schedules"})
		return
	}
	c.JSON(http.StatusOK, slots)
}

// GetScheduleHandler handles GET /schedules/:id.
func (h *ScheduleHandler) GetScheduleHandler(c *gin.Context) {
	slot, err := h.Schedules.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
			return
		}
		utils.GetLogger().Error("get schedule failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load schedule"})
		return
	}
	c.JSON(http.StatusOK, slot)
}

// UpdateScheduleHandler handles PUT /schedules/:id (admin).
func (h *ScheduleHandler) UpdateScheduleHandler(c *gin.Context) {
	var in schedule.SlotInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	slot, err := h.Schedules.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		if errors.Is(err, schedule.ErrInvalidTimes) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if errors.Is(err, scheduleRepo.ErrScheduleNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "schedule not found"})
			return
		}
		utils.GetLogger().Error("update schedule failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update schedule"})
		return
	}
	c.JSON(http.StatusOK, slot)
}

// DeleteScheduleHandler handles DELETE /schedules/:id (admin).
func (h *ScheduleHandler) DeleteScheduleHandler(c *gin.Context) {
	if err := h.Schedules.Remove(c.Request.Context(), c.Param("id")); err != nil {
		utils.GetLogger().Error("delete schedule failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete schedule"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "schedule deleted"})
}
