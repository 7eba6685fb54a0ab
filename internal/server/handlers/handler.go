package handlers

import (
	"errors"
	"net/http"
	"sync/atomic"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nandozscx/acopiapp/internal/service/assistant"
	"github.com/nandozscx/acopiapp/internal/service/registry"
	"github.com/nandozscx/acopiapp/internal/service/reporting"
	"github.com/nandozscx/acopiapp/internal/service/summary"
	"github.com/nandozscx/acopiapp/internal/storage"
)

// Handler exposes the application services over HTTP.
type Handler struct {
	registry  *registry.Service
	summary   *summary.Service
	assistant *assistant.Service
	reporting *reporting.Service
	store     *storage.Store
	logger    *zap.Logger

	// lowStockAck arms off the low-stock warning until process restart,
	// the server-side analogue of a once-per-session alert.
	lowStockAck atomic.Bool
}

// New constructs the HTTP handler adapter.
func New(reg *registry.Service, sum *summary.Service, ast *assistant.Service, rep *reporting.Service, store *storage.Store, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		registry:  reg,
		summary:   sum,
		assistant: ast,
		reporting: rep,
		store:     store,
		logger:    logger,
	}
}

// fail maps service errors onto HTTP statuses.
func (h *Handler) fail(c *gin.Context, err error) {
	switch {
	case errors.Is(err, registry.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, registry.ErrInvalidArguments):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, registry.ErrDuplicateName):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, assistant.ErrDisabled), errors.Is(err, reporting.ErrDisabled):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error()})
	case errors.Is(err, assistant.ErrEmptyParse):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, storage.ErrInvalidBackup):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	default:
		h.logger.Error("request failed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
	}
}

// failAI is fail with unexpected errors reported as an upstream failure,
// used on paths whose unknown errors come from the AI service.
func (h *Handler) failAI(c *gin.Context, err error) {
	if errors.Is(err, registry.ErrNotFound) ||
		errors.Is(err, registry.ErrInvalidArguments) ||
		errors.Is(err, registry.ErrDuplicateName) ||
		errors.Is(err, assistant.ErrDisabled) ||
		errors.Is(err, reporting.ErrDisabled) ||
		errors.Is(err, assistant.ErrEmptyParse) {
		h.fail(c, err)
		return
	}
	h.logger.Error("ai request failed", zap.Error(err))
	c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
}
