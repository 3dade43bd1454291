package handlers

import (
	"errors"
	"net/http"

	"fitgate/services/booking"
	"fitgate/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// BookingHandler serves the reservation endpoints.
type BookingHandler struct {
	Bookings booking.BookingService
}

// CreateBookingHandler handles POST /bookings.
func (h *BookingHandler) CreateBookingHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID := c.GetString("userID")

	var in struct {
		ScheduleID  string `json:"scheduleId" binding:"required"`
		BookingDate string `json:"bookingDate" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	bk, err := h.Bookings.Create(c.Request.Context(), userID, in.ScheduleID, in.BookingDate)
	if err != nil {
		status := bookingErrorStatus(err)
		if status == http.StatusInternalServerError {
			logger.Error("booking failed",
				zap.String("userId", userID),
				zap.String("scheduleId", in.ScheduleID),
				zap.Error(err),
			)
			c.JSON(status, gin.H{"error": "failed to create booking"})
			return
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, bk)
}

// CancelBookingHandler handles PATCH /bookings/:id/cancel.
func (h *BookingHandler) CancelBookingHandler(c *gin.Context) {
	logger := utils.GetLogger()
	userID := c.GetString("userID")
	bookingID := c.Param("id")

	status, err := h.Bookings.Cancel(c.Request.Context(), bookingID, userID)
	if err != nil {
		code := bookingErrorStatus(err)
		if code == http.StatusInternalServerError {
			logger.Error("cancel failed", zap.String("bookingId", bookingID), zap.Error(err))
			c.JSON(code, gin.H{"error": "failed to cancel booking"})
			return
		}
		c.JSON(code, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": bookingID, "status": status})
}

// MyBookingsHandler handles GET /bookings/me.
func (h *BookingHandler) MyBookingsHandler(c *gin.Context) {
	userID := c.GetString("userID")
	list, err := h.Bookings.FindUserBookings(c.Request.Context(), userID)
	if err != nil {
		utils.GetLogger().Error("list bookings failed", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}
	c.JSON(http.StatusOK, list)
}

// bookingErrorStatus maps reservation-engine errors to HTTP statuses.
func bookingErrorStatus(err error) int {
	switch {
	case errors.Is(err, booking.ErrNoActiveMembership):
		return http.StatusUnauthorized
	case errors.Is(err, booking.ErrInvalidDate),
		errors.Is(err, booking.ErrNoCreditsRemaining),
		errors.Is(err, booking.ErrAlreadyCancelled):
		return http.StatusBadRequest
	case errors.Is(err, booking.ErrSlotNotFound),
		errors.Is(err, booking.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, booking.ErrSlotFull),
		errors.Is(err, booking.ErrDuplicateBooking),
		errors.Is(err, booking.ErrSlotBusy):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
