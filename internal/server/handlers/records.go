package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type deliveryRequest struct {
	ProviderID string  `json:"providerId" binding:"required"`
	Date       string  `json:"date" binding:"required"`
	Quantity   float64 `json:"quantity" binding:"required,gt=0"`
}

// ListDeliveries returns every recorded delivery.
func (h *Handler) ListDeliveries(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Deliveries())
}

// RecordDelivery appends one delivery.
func (h *Handler) RecordDelivery(c *gin.Context) {
	var req deliveryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid delivery payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	d, err := h.registry.RecordDelivery(req.ProviderID, req.Date, req.Quantity)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, d)
}

// DeleteDelivery removes one delivery.
func (h *Handler) DeleteDelivery(c *gin.Context) {
	if err := h.registry.DeleteDelivery(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type productionRequest struct {
	Date                string  `json:"date" binding:"required"`
	Units               int     `json:"units" binding:"required,gt=0"`
	WholeMilkKg         float64 `json:"wholeMilkKg" binding:"gte=0"`
	RawMaterialLiters   float64 `json:"rawMaterialLiters" binding:"gte=0"`
	TransformationIndex float64 `json:"transformationIndex"`
}

// ListProduction returns every production batch.
func (h *Handler) ListProduction(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Production())
}

// RecordProduction appends one production batch.
func (h *Handler) RecordProduction(c *gin.Context) {
	var req productionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid production payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	batch, err := h.registry.RecordProduction(req.Date, req.Units, req.WholeMilkKg, req.RawMaterialLiters, req.TransformationIndex)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, batch)
}

// DeleteProduction removes one production batch.
func (h *Handler) DeleteProduction(c *gin.Context) {
	if err := h.registry.DeleteProduction(c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type replenishmentRequest struct {
	Date  string  `json:"date"`
	Sacks float64 `json:"sacks" binding:"required,gt=0"`
}

// ListReplenishments returns every whole-milk replenishment.
func (h *Handler) ListReplenishments(c *gin.Context) {
	c.JSON(http.StatusOK, h.registry.Replenishments())
}

// AddReplenishment records sacks added to stock.
func (h *Handler) AddReplenishment(c *gin.Context) {
	var req replenishmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid replenishment payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	rep, err := h.registry.AddReplenishment(req.Date, req.Sacks)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusCreated, rep)
}

// Stock returns the recomputed stock position. The alert flag clears after
// acknowledgement and rearms only on restart.
func (h *Handler) Stock(c *gin.Context) {
	stock := h.summary.Stock()
	c.JSON(http.StatusOK, gin.H{
		"stock": stock,
		"alert": stock.Low && !h.lowStockAck.Load(),
	})
}

// AckStockAlert silences the low-stock warning for the rest of the session.
func (h *Handler) AckStockAlert(c *gin.Context) {
	h.lowStockAck.Store(true)
	c.Status(http.StatusNoContent)
}
