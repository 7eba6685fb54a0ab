package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nandozscx/acopiapp/internal/service/registry"
)

// ListProviders returns all providers.
func (h *Handler) ListProviders(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Providers())
}

// CreateProvider registers a new provider.
func (h *Handler) CreateProvider(c *gin.Context) {
	var in registry.ProviderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid provider payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.registry.CreateProvider(in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// UpdateProvider replaces a provider's editable fields.
func (h *Handler) UpdateProvider(c *gin.Context) {
	var in registry.ProviderInput
	if err := c.ShouldBindJSON(&in); err != nil {
		h.logger.Warn("invalid provider payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.registry.UpdateProvider(c.Param("id"), in)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// DeleteProvider removes a provider.
func (h *Handler) DeleteProvider(c *gin.Context) {
	if err := h.registry.DeleteProvider(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
