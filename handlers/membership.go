package handlers

import (
	"net/http"

	"fitgate/services/membership"
	"fitgate/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// MembershipHandler serves the plan catalog endpoints.
type MembershipHandler struct {
	Plans membership.MembershipService
}

// CreatePlanHandler handles POST /plans (admin).
func (h *MembershipHandler) CreatePlanHandler(c *gin.Context) {
	var in membership.PlanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	plan, err := h.Plans.Create(c.Request.Context(), in)
	if err != nil {
		utils.GetLogger().Error("create plan failed", zap.String("name", in.Name), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create plan"})
		return
	}
	c.JSON(http.StatusCreated, plan)
}

// ListPlansHandler handles GET /plans.
func (h *MembershipHandler) ListPlansHandler(c *gin.Context) {
	plans, err := h.Plans.List(c.Request.Context())
	if err != nil {
		utils.GetLogger().Error("list plans failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list plans"})
		return
	}
	c.JSON(http.StatusOK, plans)
}

// GetPlanHandler handles GET /plans/:id.
func (h *MembershipHandler) GetPlanHandler(c *gin.Context) {
	plan, err := h.Plans.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "plan not found"})
		return
	}
	c.JSON(http.StatusOK, plan)
}

// UpdatePlanHandler handles PUT /plans/:id (admin).
func (h *MembershipHandler) UpdatePlanHandler(c *gin.Context) {
	var in membership.PlanInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	plan, err := h.Plans.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		utils.GetLogger().Error("update plan failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update plan"})
		return
	}
	c.JSON(http.StatusOK, plan)
}

// DeletePlanHandler handles DELETE /plans/:id (admin).
func (h *MembershipHandler) DeletePlanHandler(c *gin.Context) {
	if err := h.Plans.Remove(c.Request.Context(), c.Param("id")); err != nil {
		utils.GetLogger().Error("delete plan failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete plan"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "plan deleted"})
}
