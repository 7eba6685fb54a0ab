package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nandozscx/acopiapp/internal/domain/models"
)

// refDate resolves the optional ?date= query parameter, defaulting to today.
func (h *Handler) refDate(c *gin.Context) (time.Time, bool) {
	raw := c.Query("date")
	if raw == "" {
		return time.Now(), true
	}
	d, err := models.ParseDate(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "date must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return d, true
}

// WeeklySummary returns the dashboard view for the week containing the
// reference date, including the session low-stock alert.
func (h *Handler) WeeklySummary(c *gin.Context) {
	today, ok := h.refDate(c)
	if !ok {
		return
	}

	sum := h.summary.Weekly(today)
	c.JSON(http.StatusOK, gin.H{
		"summary": sum,
		"alert":   sum.Stock.Low && !h.lowStockAck.Load(),
	})
}

// GenerateWeeklyReport runs the AI weekly report for the week containing the
// reference date.
func (h *Handler) GenerateWeeklyReport(c *gin.Context) {
	today, ok := h.refDate(c)
	if !ok {
		return
	}

	report, err := h.reporting.GenerateWeekly(c.Request.Context(), today)
	if err != nil {
		h.failAI(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

type textRequest struct {
	Text string `json:"text" binding:"required"`
}

// AssistDeliveries records deliveries parsed from a free-text command.
func (h *Handler) AssistDeliveries(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid assistant payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	result, err := h.assistant.RecordFromText(c.Request.Context(), req.Text)
	if err != nil {
		h.failAI(c, err)
		return
	}
	c.JSON(http.StatusOK, result)
}

// AssistProvider creates a provider parsed from a free-text description.
func (h *Handler) AssistProvider(c *gin.Context) {
	var req textRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid assistant payload", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	p, err := h.assistant.ProviderFromText(c.Request.Context(), req.Text)
	if err != nil {
		h.failAI(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}
