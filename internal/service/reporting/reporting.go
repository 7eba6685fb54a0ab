package reporting

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/nandozscx/acopiapp/internal/domain/models"
	"github.com/nandozscx/acopiapp/internal/service/summary"
	"github.com/nandozscx/acopiapp/internal/storage"
	"github.com/nandozscx/acopiapp/pkg/clients/anthropic"
)

// ErrDisabled indicates no AI client is configured for report generation.
var ErrDisabled = errors.New("ai reporting disabled")

// Service assembles weekly snapshots and drives the AI report generator.
type Service struct {
	store   *storage.Store
	summary *summary.Service
	ai      anthropic.Client
	logger  *zap.Logger
}

// NewService wires a reporting service instance.
func NewService(store *storage.Store, sum *summary.Service, ai anthropic.Client, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: store, summary: sum, ai: ai, logger: logger}
}

// SalesTrend computes the percentage change of current against previous.
// A zero previous-period baseline yields nil: no comparison is possible.
func SalesTrend(previous, current float64) *float64 {
	if previous == 0 {
		return nil
	}
	pct := (current - previous) / previous * 100
	return &pct
}

// GenerateWeekly builds the week snapshot for the week containing today and
// asks the AI generator for the report. One attempt, no retry.
func (s *Service) GenerateWeekly(ctx context.Context, today time.Time) (models.WeeklyReport, error) {
	if s.ai == nil {
		return models.WeeklyReport{}, ErrDisabled
	}

	input, weekStart, weekEnd := s.buildInput(today)

	result, err := s.ai.GenerateWeeklyReport(ctx, input)
	if err != nil {
		return models.WeeklyReport{}, fmt.Errorf("generate weekly report: %w", err)
	}

	report := models.WeeklyReport{
		WeekStart:     models.FormatDate(weekStart),
		WeekEnd:       models.FormatDate(weekEnd),
		Summary:       result.Summary,
		TopProvider:   result.TopProvider,
		TopClient:     result.TopClient,
		StockStatus:   result.StockStatus,
		SalesTrendPct: input.SalesTrendPct,
		GeneratedAt:   time.Now(),
	}

	s.logger.Info("weekly report generated",
		zap.String("week_start", report.WeekStart),
		zap.String("week_end", report.WeekEnd))
	return report, nil
}

// buildInput gathers the week's records, the previous week's sales total and
// the all-time stock position into the generator input.
func (s *Service) buildInput(today time.Time) (anthropic.ReportInput, time.Time, time.Time) {
	weekStart, weekEnd := summary.WeekWindow(today, time.Sunday)
	prevStart, prevEnd := weekStart.AddDate(0, 0, -7), weekEnd.AddDate(0, 0, -7)

	clients := make(map[string]string)
	for _, c := range s.store.Clients() {
		clients[c.ID] = c.Name
	}

	input := anthropic.ReportInput{
		WeekStart:      models.FormatDate(weekStart),
		WeekEnd:        models.FormatDate(weekEnd),
		ProviderPrices: make(map[string]float64),
	}

	for _, p := range s.store.Providers() {
		input.ProviderPrices[p.Name] = p.UnitPrice
	}

	for _, d := range s.store.Deliveries() {
		if !within(d.Date, weekStart, weekEnd) {
			continue
		}
		input.Deliveries = append(input.Deliveries, anthropic.ReportDelivery{
			Provider: d.Provider,
			Date:     d.Date,
			Quantity: d.Quantity,
		})
	}

	for _, p := range s.store.Production() {
		if !within(p.Date, weekStart, weekEnd) {
			continue
		}
		input.Production = append(input.Production, anthropic.ReportProduction{
			Date:        p.Date,
			Units:       p.Units,
			WholeMilkKg: p.WholeMilkKg,
		})
	}

	var currentTotal, previousTotal float64
	for _, sale := range s.store.Sales() {
		if within(sale.Date, prevStart, prevEnd) {
			previousTotal += sale.Total
		}
		if !within(sale.Date, weekStart, weekEnd) {
			continue
		}
		currentTotal += sale.Total
		input.Sales = append(input.Sales, anthropic.ReportSale{
			Client: clients[sale.ClientID],
			Date:   sale.Date,
			Total:  sale.Total,
			Paid:   sale.Paid(),
		})
	}

	stock := s.summary.Stock()
	input.ReplenishedSacks = stock.AddedSacks
	input.CurrentStockSacks = stock.CurrentSacks
	input.PreviousWeekSalesTotal = previousTotal
	input.SalesTrendPct = SalesTrend(previousTotal, currentTotal)

	return input, weekStart, weekEnd
}

func within(date string, start, end time.Time) bool {
	d, err := models.ParseDate(date)
	if err != nil {
		return false
	}
	return !d.Before(start) && !d.After(end)
}
