package handlers

import (
	"errors"
	"net/http"

	"fitgate/services/checkin"
	"fitgate/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// CheckInHandler serves the front-desk scan endpoints.
type CheckInHandler struct {
	CheckIns checkin.CheckInService
}

// ScanHandler handles POST /checkins/scan (admin). The desk scans a
// member's code; the service decides whether this opens or closes an
// attendance session.
func (h *CheckInHandler) ScanHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var in struct {
		UserID     string `json:"userId" binding:"required"`
		LocationID string `json:"locationId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	res, err := h.CheckIns.HandleScan(c.Request.Context(), in.UserID, in.LocationID)
	if err != nil {
		if errors.Is(err, checkin.ErrNoValidBookingWindow) {
			c.JSON(http.StatusForbidden, gin.H{"error": err.Error()})
			return
		}
		logger.Error("scan failed", zap.String("userId", in.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process scan"})
		return
	}
	c.JSON(http.StatusOK, res)
}

// HistoryHandler handles GET /checkins (admin).
func (h *CheckInHandler) HistoryHandler(c *gin.Context) {
	entries, err := h.CheckIns.History(c.Request.Context())
	if err != nil {
		utils.GetLogger().Error("checkin history failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load check-in history"})
		return
	}
	c.JSON(http.StatusOK, entries)
}
