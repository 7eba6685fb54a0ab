package models

import "time"

// DailyGridRow is one provider's quantities across the standard week, indexed
// by weekday starting at Sunday. A nil cell means no deliveries that day,
// which the display layer renders as a placeholder rather than zero.
type DailyGridRow struct {
	ProviderID string      `json:"providerId"`
	Provider   string      `json:"provider"`
	Cells      [7]*float64 `json:"cells"`
}

// ProviderTotal is one provider's deliveries and amount due over its own
// billing-cycle window.
type ProviderTotal struct {
	ProviderID  string  `json:"providerId"`
	Provider    string  `json:"provider"`
	Quantity    float64 `json:"quantity"`
	AmountDue   float64 `json:"amountDue"`
	WindowStart string  `json:"windowStart"`
	WindowEnd   string  `json:"windowEnd"`
}

// ClientWeekly summarizes one client's activity within the standard week.
type ClientWeekly struct {
	ClientID string  `json:"clientId"`
	Client   string  `json:"client"`
	Bought   float64 `json:"bought"`
	Paid     float64 `json:"paid"`
	Debt     float64 `json:"debt"`
}

// WeeklySummary is the full dashboard view for the week containing the
// reference date.
type WeeklySummary struct {
	WeekStart  string          `json:"weekStart"`
	WeekEnd    string          `json:"weekEnd"`
	Grid       []DailyGridRow  `json:"grid"`
	Totals     []ProviderTotal `json:"totals"`
	GrandTotal float64         `json:"grandTotal"`
	Clients    []ClientWeekly  `json:"clients"`
	Stock      StockStatus     `json:"stock"`
}

// WeeklyReport is the AI-generated weekly report. SalesTrendPct is nil when
// the previous week had no sales, so no comparison is possible.
type WeeklyReport struct {
	WeekStart     string    `json:"weekStart"`
	WeekEnd       string    `json:"weekEnd"`
	Summary       string    `json:"summary"`
	TopProvider   string    `json:"topProvider"`
	TopClient     string    `json:"topClient"`
	StockStatus   string    `json:"stockStatus"`
	SalesTrendPct *float64  `json:"salesTrendPct"`
	GeneratedAt   time.Time `json:"generatedAt"`
}
