package handlers

import (
	"errors"
	"net/http"

	"fitgate/services/payment"
	"fitgate/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PaymentHandler serves the plan purchase flow.
type PaymentHandler struct {
	Payments payment.PaymentService
}

// CreateOrderHandler handles POST /payments/orders. It opens a payment
// intent for the requested plan and returns the client secret.
func (h *PaymentHandler) CreateOrderHandler(c *gin.Context) {
	var in struct {
		PlanID string `json:"planId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	order, err := h.Payments.CreateOrder(c.Request.Context(), in.PlanID)
	if err != nil {
		if errors.Is(err, payment.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		utils.GetLogger().Error("create order failed", zap.String("planId", in.PlanID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create order"})
		return
	}
	c.JSON(http.StatusCreated, order)
}

// CaptureOrderHandler handles POST /payments/orders/:id/capture. Once
// the gateway reports the intent as succeeded, the caller's membership
// is activated.
func (h *PaymentHandler) CaptureOrderHandler(c *gin.Context) {
	userID := c.GetString("userID")
	intentID := c.Param("id")

	sub, err := h.Payments.CaptureOrder(c.Request.Context(), intentID, userID)
	if err != nil {
		if errors.Is(err, payment.ErrPaymentNotCompleted) {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": err.Error()})
			return
		}
		utils.GetLogger().Error("capture order failed",
			zap.String("intentId", intentID),
			zap.String("userId", userID),
			zap.Error(err),
		)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to capture order"})
		return
	}
	c.JSON(http.StatusOK, sub)
}
