package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type clientRequest struct {
	Name string `json:"name" binding:"required"`
}

// ListClients returns all clients.
func (h *Handler) ListClients(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Clients())
}

// CreateClient registers a new client.
func (h *Handler) CreateClient(c *gin.Context) {
	var req clientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid client payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	client, err := h.registry.CreateClient(req.Name)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, client)
}

type saleRequest struct {
	ClientID string  `json:"clientId" binding:"required"`
	Date     string  `json:"date" binding:"required"`
	Total    float64 `json:"total" binding:"required,gt=0"`
}

// ListSales returns all sales.
func (h *Handler) ListSales(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Sales())
}

// RecordSale appends one sale.
func (h *Handler) RecordSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid sale payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sale, err := h.registry.RecordSale(req.ClientID, req.Date, req.Total)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, sale)
}

type paymentRequest struct {
	Amount float64 `json:"amount" binding:"required,gt=0"`
}

// AddPayment records one payment against a sale.
func (h *Handler) AddPayment(c *gin.Context) {
	var req paymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid payment payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	sale, err := h.registry.AddPayment(c.Param("id"), req.Amount)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, sale)
}

// DeleteSale removes one sale.
func (h *Handler) DeleteSale(c *gin.Context) {
	if err := h.registry.DeleteSale(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
