package handlers

import (
	"errors"
	"net/http"

	"fitgate/services/subscription"
	"fitgate/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// SubscriptionHandler serves the membership ledger endpoints.
type SubscriptionHandler struct {
	Subscriptions subscription.SubscriptionService
}

// AssignHandler handles POST /subscriptions (admin). It grants a plan
// to a user directly, bypassing payment.
func (h *SubscriptionHandler) AssignHandler(c *gin.Context) {
	logger := utils.GetLogger()

	var in struct {
		UserID string `json:"userId" binding:"required"`
		PlanID string `json:"planId" binding:"required"`
	}
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	sub, err := h.Subscriptions.Assign(c.Request.Context(), in.UserID, in.PlanID)
	if err != nil {
		if errors.Is(err, subscription.ErrPlanNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			return
		}
		logger.Error("assign membership failed", zap.String("userId", in.UserID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to assign membership"})
		return
	}
	c.JSON(http.StatusCreated, sub)
}

// MySubscriptionsHandler handles GET /subscriptions/me.
func (h *SubscriptionHandler) MySubscriptionsHandler(c *gin.Context) {
	userID := c.GetString("userID")
	subs, err := h.Subscriptions.FindMine(c.Request.Context(), userID)
	if err != nil {
		utils.GetLogger().Error("list memberships failed", zap.String("userId", userID), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list memberships"})
		return
	}
	c.JSON(http.StatusOK, subs)
}

// ListSubscriptionsHandler handles GET /subscriptions (admin).
func (h *SubscriptionHandler) ListSubscriptionsHandler(c *gin.Context) {
	subs, err := h.Subscriptions.FindAll(c.Request.Context())
	if err != nil {
		utils.GetLogger().Error("list all memberships failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list memberships"})
		return
	}
	c.JSON(http.StatusOK, subs)
}

// RevokeSubscriptionHandler handles PATCH /subscriptions/:id/revoke (admin).
func (h *SubscriptionHandler) RevokeSubscriptionHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Subscriptions.Revoke(c.Request.Context(), id); err != nil {
		utils.GetLogger().Error("revoke membership failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to revoke membership"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "membership revoked"})
}

// DeleteSubscriptionHandler handles DELETE /subscriptions/:id (admin).
func (h *SubscriptionHandler) DeleteSubscriptionHandler(c *gin.Context) {
	id := c.Param("id")
	if err := h.Subscriptions.Remove(c.Request.Context(), id); err != nil {
		utils.GetLogger().Error("delete membership failed", zap.String("id", id), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete membership"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "membership deleted"})
}
