package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"qrbaker/internal/entities"
)

// loadProfile fetches the authenticated user's profile; writes the
// response itself on failure.
func (h *Handler) loadProfile(c *gin.Context) *entities.UserProfile {
	userID := getUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid user"})
		return nil
	}
	profile, err := h.profiles.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load profile"})
		return nil
	}
	if profile == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Profile not found"})
		return nil
	}
	return profile
}

// respondError maps the domain error taxonomy onto HTTP statuses.
// Validation and quota denials are structured so the client can render
// the specific message; everything else is a generic failure.
func respondError(c *gin.Context, err error) {
	var vErr *entities.ValidationError
	if errors.As(err, &vErr) {
		c.JSON(http.StatusBadRequest, gin.H{"error": vErr.Reason, "field": vErr.Field})
		return
	}
	var qErr *entities.QuotaError
	if errors.As(err, &qErr) {
		c.JSON(http.StatusForbidden, gin.H{"error": qErr.Error(), "limit": qErr.Limit, "used": qErr.Used})
		return
	}
	switch {
	case errors.Is(err, entities.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Not found"})
	case errors.Is(err, entities.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
	}
}

// CreateQRCode runs the full creation sequence for any of the five
// content types.
func (h *Handler) CreateQRCode(c *gin.Context) {
	profile := h.loadProfile(c)
	if profile == nil {
		return
	}

	var req entities.EncodeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !entities.ValidKind(req.Kind) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown QR type", "field": "type"})
		return
	}
	if !ValidateLength(req.Label, 0, MaxLabelLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Label too long", "field": "label"})
		return
	}
	if !ValidateLength(req.Text, 0, MaxTextLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Text too long", "field": "text"})
		return
	}
	req.Label = SanitizeString(req.Label)

	rec, err := h.lifecycle.Create(c.Request.Context(), profile, req)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, rec)
}

// ListQRCodes returns the owner's history inside the plan's retention
// window, newest first.
func (h *Handler) ListQRCodes(c *gin.Context) {
	profile := h.loadProfile(c)
	if profile == nil {
		return
	}

	records, err := h.lifecycle.List(c.Request.Context(), profile)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load history"})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *Handler) DeleteQRCode(c *gin.Context) {
	profile := h.loadProfile(c)
	if profile == nil {
		return
	}

	id := c.Param("id")
	if !ValidRecordID(id) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid record id"})
		return
	}

	if err := h.lifecycle.Delete(c.Request.Context(), profile, id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "deleted"})
}

// UpdateRedirect repoints a dynamic QR code at a new destination.
func (h *Handler) UpdateRedirect(c *gin.Context) {
	profile := h.loadProfile(c)
	if profile == nil {
		return
	}

	code := c.Param("code")
	if !ValidShortCode(code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid short code"})
		return
	}

	var payload struct {
		Destination string `json:"destination"`
	}
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}
	if !ValidateLength(payload.Destination, 1, MaxURLLength) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Destination URL cannot be empty", "field": "destination"})
		return
	}

	if err := h.registry.UpdateDestination(c.Request.Context(), code, payload.Destination, profile.ID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "updated"})
}
