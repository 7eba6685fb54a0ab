package summary

import (
	"time"

	"go.uber.org/zap"

	"github.com/nandozscx/acopiapp/internal/domain/models"
	"github.com/nandozscx/acopiapp/internal/storage"
)

// Service computes week-scoped views over the stored collections. Every
// computation reads a fresh snapshot and is safe to re-run at any time.
type Service struct {
	store  *storage.Store
	logger *zap.Logger
}

// NewService wires a summary service instance.
func NewService(store *storage.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, logger: logger}
}

// WeekWindow returns the inclusive [start, end] day range of the week
// containing today, for a week beginning on the given weekday. Bounds are
// date-only UTC midnights, matching how record dates parse.
func WeekWindow(today time.Time, start time.Weekday) (time.Time, time.Time) {
	day := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, time.UTC)
	back := (int(day.Weekday()) - int(start) + 7) % 7
	ws := day.AddDate(0, 0, -back)
	return ws, ws.AddDate(0, 0, 6)
}

// inWindow reports whether a record date falls within [start, end].
func inWindow(date string, start, end time.Time) bool {
	d, err := models.ParseDate(date)
	if err != nil {
		return false
	}
	return !d.Before(start) && !d.After(end)
}

// Weekly produces the full dashboard summary for the week containing today.
func (s *Service) Weekly(today time.Time) models.WeeklySummary {
	providers := s.store.Providers()
	deliveries := s.store.Deliveries()
	sales := s.store.Sales()
	clients := s.store.Clients()

	weekStart, weekEnd := WeekWindow(today, time.Sunday)

	out := models.WeeklySummary{
		WeekStart: models.FormatDate(weekStart),
		WeekEnd:   models.FormatDate(weekEnd),
		Grid:      s.dailyGrid(providers, deliveries, weekStart),
		Clients:   clientWeekly(clients, sales, weekStart, weekEnd),
		Stock:     s.Stock(),
	}
	out.Totals, out.GrandTotal = s.providerTotals(today, providers, deliveries)
	return out
}

// dailyGrid builds the per-provider per-weekday quantity grid over the
// standard week. Cells stay nil when a day has no deliveries, so the display
// layer can distinguish "nothing recorded" from an actual zero.
func (s *Service) dailyGrid(providers []models.Provider, deliveries []models.Delivery, weekStart time.Time) []models.DailyGridRow {
	grid := make([]models.DailyGridRow, 0, len(providers))
	for _, p := range providers {
		row := models.DailyGridRow{ProviderID: p.ID, Provider: p.Name}
		for _, d := range deliveries {
			if !d.Matches(p) {
				continue
			}
			day, err := models.ParseDate(d.Date)
			if err != nil {
				continue
			}
			offset := int(day.Sub(weekStart).Hours() / 24)
			if offset < 0 || offset > 6 {
				continue
			}
			if row.Cells[offset] == nil {
				row.Cells[offset] = new(float64)
			}
			*row.Cells[offset] += d.Quantity
		}
		grid = append(grid, row)
	}
	return grid
}

// providerTotals sums each provider's deliveries over its own billing-cycle
// window anchored to today and prices them. Providers with no deliveries in
// the window are omitted.
func (s *Service) providerTotals(today time.Time, providers []models.Provider, deliveries []models.Delivery) ([]models.ProviderTotal, float64) {
	totals := make([]models.ProviderTotal, 0, len(providers))
	var grand float64

	for _, p := range providers {
		start, end := WeekWindow(today, p.CycleStart.Weekday())

		var qty float64
		for _, d := range deliveries {
			if d.Matches(p) && inWindow(d.Date, start, end) {
				qty += d.Quantity
			}
		}
		if qty == 0 {
			continue
		}

		due := qty * p.UnitPrice
		grand += due
		totals = append(totals, models.ProviderTotal{
			ProviderID:  p.ID,
			Provider:    p.Name,
			Quantity:    qty,
			AmountDue:   due,
			WindowStart: models.FormatDate(start),
			WindowEnd:   models.FormatDate(end),
		})
	}
	return totals, grand
}

// clientWeekly restricts sales to the standard week window and summarizes
// bought/paid/debt per client with at least one sale in scope.
func clientWeekly(clients []models.Client, sales []models.Sale, start, end time.Time) []models.ClientWeekly {
	names := make(map[string]string, len(clients))
	for _, c := range clients {
		names[c.ID] = c.Name
	}

	byClient := make(map[string]*models.ClientWeekly)
	order := make([]string, 0)

	for _, sale := range sales {
		if !inWindow(sale.Date, start, end) {
			continue
		}
		cw, ok := byClient[sale.ClientID]
		if !ok {
			cw = &models.ClientWeekly{ClientID: sale.ClientID, Client: names[sale.ClientID]}
			byClient[sale.ClientID] = cw
			order = append(order, sale.ClientID)
		}
		cw.Bought += sale.Total
		cw.Paid += sale.Paid()
	}

	out := make([]models.ClientWeekly, 0, len(order))
	for _, id := range order {
		cw := byClient[id]
		cw.Debt = cw.Bought - cw.Paid
		out = append(out, *cw)
	}
	return out
}

// Stock recomputes the whole-milk position over all-time history: sacks
// replenished minus production consumption converted at the fixed sack size.
func (s *Service) Stock() models.StockStatus {
	var added float64
	for _, r := range s.store.Replenishments() {
		added += r.Sacks
	}

	var consumedKg float64
	for _, p := range s.store.Production() {
		consumedKg += p.WholeMilkKg
	}
	consumed := consumedKg / models.KgPerSack

	current := added - consumed
	return models.StockStatus{
		AddedSacks:    added,
		ConsumedSacks: consumed,
		CurrentSacks:  current,
		CurrentKg:     current * models.KgPerSack,
		Low:           current <= models.LowStockThresholdSacks,
	}
}
