package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"qrbaker/internal/entities"
)

// ResolveRedirect is the public, unauthenticated surface a printed
// dynamic QR code hits. It always consults the store so the visitor
// lands on the latest destination, and bumps the click counter on the
// way through.
func (h *Handler) ResolveRedirect(c *gin.Context) {
	code := c.Query("code")
	if !ValidShortCode(code) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid short code"})
		return
	}

	destination, err := h.registry.Resolve(c.Request.Context(), code)
	if err != nil {
		if errors.Is(err, entities.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "This link does not exist or has been removed"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Something went wrong. Please try again."})
		return
	}

	c.Redirect(http.StatusFound, destination)
}
