package handlers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nandozscx/acopiapp/internal/domain/models"
	"github.com/nandozscx/acopiapp/internal/server/handlers"
	"github.com/nandozscx/acopiapp/internal/server/router"
	"github.com/nandozscx/acopiapp/internal/service/assistant"
	"github.com/nandozscx/acopiapp/internal/service/registry"
	"github.com/nandozscx/acopiapp/internal/service/reporting"
	"github.com/nandozscx/acopiapp/internal/service/summary"
	"github.com/nandozscx/acopiapp/internal/storage"
)

func newTestEngine(t *testing.T) (*gin.Engine, *storage.Store) {
	t.Helper()
	store, err := storage.Open(t.TempDir(), "", zap.NewNop())
	require.NoError(t, err)

	reg := registry.NewService(store, zap.NewNop())
	sum := summary.NewService(store, zap.NewNop())
	ast := assistant.NewService(nil, reg, zap.NewNop())
	rep := reporting.NewService(store, sum, nil, zap.NewNop())

	h := handlers.New(reg, sum, ast, rep, store, zap.NewNop())
	return router.New(h, false, zap.NewNop()), store
}

func do(t *testing.T, engine *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	engine, _ := newTestEngine(t)
	rec := do(t, engine, http.MethodGet, "/healthz", "")
	require.Equal(t, http.StatusOK, rec.Code)
}

func TestProviderAndDeliveryFlow(t *testing.T) {
	engine, _ := newTestEngine(t)

	rec := do(t, engine, http.MethodPost, "/api/v1/providers", `{"name":"Rosa","unitPrice":2.5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	var p models.Provider
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &p))
	require.NotEmpty(t, p.ID)

	rec = do(t, engine, http.MethodPost, "/api/v1/deliveries",
		`{"providerId":"`+p.ID+`","date":"2025-06-10","quantity":12.5}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = do(t, engine, http.MethodGet, "/api/v1/summary/weekly?date=2025-06-11", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Summary models.WeeklySummary `json:"summary"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Summary.Totals, 1)
	require.Equal(t, 12.5, body.Summary.Totals[0].Quantity)
}

func TestRecordDeliveryValidation(t *testing.T) {
	engine, _ := newTestEngine(t)

	rec := do(t, engine, http.MethodPost, "/api/v1/deliveries", `{"providerId":"x","date":"2025-06-10"}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, engine, http.MethodPost, "/api/v1/deliveries", `{"providerId":"x","date":"2025-06-10","quantity":5}`)
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportDeliveriesCSV(t *testing.T) {
	engine, store := newTestEngine(t)
	require.NoError(t, store.SaveDeliveries([]models.Delivery{
		{ID: "d1", Provider: "Rosa", Date: "2025-06-10", Quantity: 10},
	}))

	rec := do(t, engine, http.MethodGet, "/api/v1/export/deliveries.csv", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.Contains(t, rec.Body.String(), "\"Proveedor\",\"Fecha\",\"Cantidad\"")
	require.Contains(t, rec.Body.String(), "\"Rosa\",\"2025-06-10\",\"10\"")
}

func TestRestoreRejectsIncompleteBackup(t *testing.T) {
	engine, store := newTestEngine(t)
	require.NoError(t, store.SaveClients([]models.Client{{ID: "c1", Name: "Bodega Lucero"}}))

	rec := do(t, engine, http.MethodPost, "/api/v1/restore", `{"providers":[]}`)
	require.Equal(t, http.StatusBadRequest, rec.Code)
	// The store was not touched.
	require.Len(t, store.Clients(), 1)
}

func TestBackupRestoreRoundTrip(t *testing.T) {
	engine, store := newTestEngine(t)
	require.NoError(t, store.SaveProviders([]models.Provider{{ID: "p1", Name: "Rosa", UnitPrice: 2, CycleStart: models.CycleStartSunday}}))

	rec := do(t, engine, http.MethodGet, "/api/v1/backup", "")
	require.Equal(t, http.StatusOK, rec.Code)

	rec = do(t, engine, http.MethodPost, "/api/v1/restore", rec.Body.String())
	require.Equal(t, http.StatusOK, rec.Code)
	require.Len(t, store.Providers(), 1)
}

func TestAssistantDisabled(t *testing.T) {
	engine, _ := newTestEngine(t)

	rec := do(t, engine, http.MethodPost, "/api/v1/assistant/deliveries", `{"text":"rosa dejo 10"}`)
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStockAlertAcknowledge(t *testing.T) {
	engine, store := newTestEngine(t)
	require.NoError(t, store.SaveReplenishments([]models.Replenishment{{ID: "r1", Date: "2025-06-01", Sacks: 3}}))

	rec := do(t, engine, http.MethodGet, "/api/v1/stock", "")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Alert bool               `json:"alert"`
		Stock models.StockStatus `json:"stock"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.True(t, body.Alert)
	require.Equal(t, 3.0, body.Stock.CurrentSacks)

	rec = do(t, engine, http.MethodPost, "/api/v1/stock/ack", "")
	require.Equal(t, http.StatusNoContent, rec.Code)

	rec = do(t, engine, http.MethodGet, "/api/v1/stock", "")
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.False(t, body.Alert)
}
