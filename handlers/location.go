package handlers

import (
	"net/http"

	"fitgate/services/location"
	"fitgate/utils"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// LocationHandler serves the branch directory endpoints.
type LocationHandler struct {
	Locations location.LocationService
}

// CreateLocationHandler handles POST /locations (admin).
func (h *LocationHandler) CreateLocationHandler(c *gin.Context) {
	var in location.LocationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	loc, err := h.Locations.Create(c.Request.Context(), in)
	if err != nil {
		utils.GetLogger().Error("create location failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create location"})
		return
	}
	c.JSON(http.StatusCreated, loc)
}

// ListLocationsHandler handles GET /locations.
func (h *LocationHandler) ListLocationsHandler(c *gin.Context) {
	locs, err := h.Locations.List(c.Request.Context())
	if err != nil {
		utils.GetLogger().Error("list locations failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list locations"})
		return
	}
	c.JSON(http.StatusOK, locs)
}

// GetLocationHandler handles GET /locations/:id.
func (h *LocationHandler) GetLocationHandler(c *gin.Context) {
	loc, err := h.Locations.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "location not found"})
		return
	}
	c.JSON(http.StatusOK, loc)
}

// UpdateLocationHandler handles PUT /locations/:id (admin).
func (h *LocationHandler) UpdateLocationHandler(c *gin.Context) {
	var in location.LocationInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input", "details": err.Error()})
		return
	}

	loc, err := h.Locations.Update(c.Request.Context(), c.Param("id"), in)
	if err != nil {
		utils.GetLogger().Error("update location failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update location"})
		return
	}
	c.JSON(http.StatusOK, loc)
}

// DeleteLocationHandler handles DELETE /locations/:id (admin).
func (h *LocationHandler) DeleteLocationHandler(c *gin.Context) {
	if err := h.Locations.Remove(c.Request.Context(), c.Param("id")); err != nil {
		utils.GetLogger().Error("delete location failed", zap.String("id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete location"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "location deleted"})
}
