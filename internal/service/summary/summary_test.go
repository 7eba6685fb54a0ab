package summary

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/nandozscx/acopiapp/internal/domain/models"
	"github.com/nandozscx/acopiapp/internal/storage"
)

// Wednesday 2025-06-11. Standard week: Sun 2025-06-08 .. Sat 2025-06-14.
// Saturday-start week: Sat 2025-06-07 .. Fri 2025-06-13.
var wednesday = time.Date(2025, 6, 11, 15, 30, 0, 0, time.UTC)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	store, err := storage.Open(t.TempDir(), "Vilcherrez", zap.NewNop())
	require.NoError(t, err)
	return store
}

func TestWeekWindow(t *testing.T) {
	start, end := WeekWindow(wednesday, time.Sunday)
	require.Equal(t, "2025-06-08", models.FormatDate(start))
	require.Equal(t, "2025-06-14", models.FormatDate(end))

	start, end = WeekWindow(wednesday, time.Saturday)
	require.Equal(t, "2025-06-07", models.FormatDate(start))
	require.Equal(t, "2025-06-13", models.FormatDate(end))

	// A reference date on the cycle start day begins its own week.
	saturday := time.Date(2025, 6, 7, 0, 0, 0, 0, time.UTC)
	start, end = WeekWindow(saturday, time.Saturday)
	require.Equal(t, "2025-06-07", models.FormatDate(start))
	require.Equal(t, "2025-06-13", models.FormatDate(end))
}

func seedProviders(t *testing.T, store *storage.Store) {
	t.Helper()
	require.NoError(t, store.SaveProviders([]models.Provider{
		{ID: "p1", Name: "Rosa", UnitPrice: 2, CycleStart: models.CycleStartSunday},
		{ID: "p2", Name: "Vilcherrez", UnitPrice: 3, CycleStart: models.CycleStartSaturday},
		{ID: "p3", Name: "Teodoro", UnitPrice: 5, CycleStart: models.CycleStartSunday},
	}))
}

func TestWeeklyDailyGridAndTotals(t *testing.T) {
	store := newTestStore(t)
	seedProviders(t, store)
	require.NoError(t, store.SaveDeliveries([]models.Delivery{
		{ID: "d1", ProviderID: "p1", Provider: "Rosa", Date: "2025-06-08", Quantity: 10},
		{ID: "d2", ProviderID: "p1", Provider: "Rosa", Date: "2025-06-10", Quantity: 5},
		{ID: "d3", ProviderID: "p1", Provider: "Rosa", Date: "2025-06-10", Quantity: 5},
		// Saturday before the standard window: counts for the special
		// cycle total, invisible to the daily grid.
		{ID: "d4", ProviderID: "p2", Provider: "Vilcherrez", Date: "2025-06-07", Quantity: 8},
		// Saturday closing the standard window: on the grid, outside the
		// special cycle window.
		{ID: "d5", ProviderID: "p2", Provider: "Vilcherrez", Date: "2025-06-14", Quantity: 4},
	}))

	svc := NewService(store, zap.NewNop())
	sum := svc.Weekly(wednesday)

	require.Equal(t, "2025-06-08", sum.WeekStart)
	require.Equal(t, "2025-06-14", sum.WeekEnd)
	require.Len(t, sum.Grid, 3)

	rosa := sum.Grid[0]
	require.Equal(t, "Rosa", rosa.Provider)
	require.NotNil(t, rosa.Cells[0])
	require.Equal(t, 10.0, *rosa.Cells[0])
	require.NotNil(t, rosa.Cells[2])
	require.Equal(t, 10.0, *rosa.Cells[2])
	// Days without deliveries stay nil, not zero.
	require.Nil(t, rosa.Cells[1])
	require.Nil(t, rosa.Cells[6])

	// The weekly total of a standard-cycle provider equals the sum of its
	// grid cells.
	var gridSum float64
	for _, cell := range rosa.Cells {
		if cell != nil {
			gridSum += *cell
		}
	}

	require.Len(t, sum.Totals, 2)
	require.Equal(t, "Rosa", sum.Totals[0].Provider)
	require.Equal(t, gridSum, sum.Totals[0].Quantity)
	require.Equal(t, 40.0, sum.Totals[0].AmountDue)

	special := sum.Totals[1]
	require.Equal(t, "Vilcherrez", special.Provider)
	require.Equal(t, "2025-06-07", special.WindowStart)
	require.Equal(t, "2025-06-13", special.WindowEnd)
	require.Equal(t, 8.0, special.Quantity)
	require.Equal(t, 24.0, special.AmountDue)

	require.Equal(t, 64.0, sum.GrandTotal)

	// A provider with no deliveries has an all-nil row and no totals entry.
	teodoro := sum.Grid[2]
	require.Equal(t, "Teodoro", teodoro.Provider)
	for _, cell := range teodoro.Cells {
		require.Nil(t, cell)
	}
}

func TestWeeklyLegacyNameKeyedDeliveries(t *testing.T) {
	store := newTestStore(t)
	seedProviders(t, store)
	// A record from before provider ids existed joins by exact name.
	require.NoError(t, store.SaveDeliveries([]models.Delivery{
		{ID: "d1", Provider: "Rosa", Date: "2025-06-09", Quantity: 7},
		{ID: "d2", Provider: "rosa", Date: "2025-06-09", Quantity: 9},
	}))

	svc := NewService(store, zap.NewNop())
	sum := svc.Weekly(wednesday)

	require.Len(t, sum.Totals, 1)
	require.Equal(t, 7.0, sum.Totals[0].Quantity)
}

func TestWeeklyClientSummary(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveClients([]models.Client{
		{ID: "c1", Name: "Bodega Lucero"},
		{ID: "c2", Name: "Mercado Sur"},
	}))
	require.NoError(t, store.SaveSales([]models.Sale{
		{ID: "s1", ClientID: "c1", Date: "2025-06-09", Total: 100, Payments: []models.Payment{{Amount: 40}, {Amount: 20}}},
		// Outside the standard window: the client is excluded entirely.
		{ID: "s2", ClientID: "c2", Date: "2025-06-01", Total: 999},
	}))

	svc := NewService(store, zap.NewNop())
	sum := svc.Weekly(wednesday)

	require.Len(t, sum.Clients, 1)
	cw := sum.Clients[0]
	require.Equal(t, "Bodega Lucero", cw.Client)
	require.Equal(t, 100.0, cw.Bought)
	require.Equal(t, 60.0, cw.Paid)
	require.Equal(t, 40.0, cw.Debt)
}

func TestStock(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveReplenishments([]models.Replenishment{
		{ID: "r1", Date: "2025-05-01", Sacks: 6},
		{ID: "r2", Date: "2025-06-01", Sacks: 4},
	}))
	require.NoError(t, store.SaveProduction([]models.Production{
		{ID: "b1", Date: "2025-05-10", Units: 200, WholeMilkKg: 75},
		{ID: "b2", Date: "2025-06-10", Units: 150, WholeMilkKg: 50},
	}))

	svc := NewService(store, zap.NewNop())
	stock := svc.Stock()

	require.Equal(t, 10.0, stock.AddedSacks)
	require.Equal(t, 5.0, stock.ConsumedSacks)
	require.Equal(t, 5.0, stock.CurrentSacks)
	require.Equal(t, 125.0, stock.CurrentKg)
	require.True(t, stock.Low)
}

func TestStockNotLowAboveThreshold(t *testing.T) {
	store := newTestStore(t)
	require.NoError(t, store.SaveReplenishments([]models.Replenishment{
		{ID: "r1", Date: "2025-05-01", Sacks: 20},
	}))

	svc := NewService(store, zap.NewNop())
	require.False(t, svc.Stock().Low)
}
