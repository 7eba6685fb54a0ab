package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/nandozscx/acopiapp/internal/export"
)

// ExportDeliveriesCSV streams the delivery list as CSV.
func (h *Handler) ExportDeliveriesCSV(c *gin.Context) {
	var buf bytes.Buffer
	if err := export.DeliveriesCSV(&buf, h.registry.Deliveries()); err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="entregas.csv"`)
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

// ExportDeliveriesXLSX streams the delivery list as a workbook.
func (h *Handler) ExportDeliveriesXLSX(c *gin.Context) {
	f, err := export.DeliveriesXLSX(h.registry.Deliveries())
	if err != nil {
		h.fail(c, err)
		return
	}
	defer func() { _ = f.Close() }()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		h.fail(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="entregas.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// Backup returns the full store snapshot as a single JSON document keyed by
// slot name.
func (h *Handler) Backup(c *gin.Context) {
	c.Header("Content-Disposition", `attachment; filename="acopiapp-backup.json"`)
	c.JSON(http.StatusOK, h.store.Snapshot())
}

// Restore replaces every slot from an uploaded backup document. The document
// must contain all slots or nothing changes.
func (h *Handler) Restore(c *gin.Context) {
	var doc map[string]json.RawMessage
	if err := c.ShouldBindJSON(&doc); err != nil {
		h.logger.Warn("unreadable backup document", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid backup document"})
		return
	}

	if err := h.store.Restore(doc); err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "restored"})
}
