package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"qrbaker/internal/entities"
)

// GetProfile returns the authenticated profile together with its
// current quota decision.
func (h *Handler) GetProfile(c *gin.Context) {
	profile := h.loadProfile(c)
	if profile == nil {
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": profile,
		"quota":   h.quota.CheckQuota(profile),
	})
}

// UpdatePlan switches the billing tier. Payment handling lives outside
// this service; this endpoint only records the plan.
func (h *Handler) UpdatePlan(c *gin.Context) {
	profile := h.loadProfile(c)
	if profile == nil {
		return
	}

	var payload struct {
		Plan entities.Plan `json:"plan"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !entities.ValidPlan(payload.Plan) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown plan", "field": "plan"})
		return
	}

	if err := h.profiles.UpdatePlan(c.Request.Context(), profile.ID, payload.Plan); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated", "plan": payload.Plan})
}

// GetUserStats returns dashboard stats for the authenticated user
func (h *Handler) GetUserStats(c *gin.Context) {
	profile := h.loadProfile(c)
	if profile == nil {
		return
	}

	stats, err := h.lifecycle.Stats(c.Request.Context(), profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load stats"})
		return
	}
	c.JSON(http.StatusOK, stats)
}
