package models

import "time"

// DateLayout is the calendar-date format used across all persisted records.
// Dates carry no time component.
const DateLayout = "2006-01-02"

// ParseDate parses a record date in the canonical layout.
func ParseDate(s string) (time.Time, error) {
	return time.Parse(DateLayout, s)
}

// FormatDate renders a time as a record date, dropping the time component.
func FormatDate(t time.Time) string {
	return t.Format(DateLayout)
}

// Delivery is one recorded drop-off of raw material from a provider.
// Deliveries are append-only; derived figures are always recomputed from the
// full list rather than stored.
type Delivery struct {
	ID         string `json:"id"`
	ProviderID string `json:"providerId,omitempty"`
	// Provider keeps the display name denormalized for exports and for
	// records persisted before provider ids existed.
	Provider string  `json:"provider"`
	Date     string  `json:"date"`
	Quantity float64 `json:"quantity"`
}

// Matches reports whether the delivery belongs to the given provider.
// Id keying wins; legacy records without an id fall back to exact name match.
func (d Delivery) Matches(p Provider) bool {
	if d.ProviderID != "" {
		return d.ProviderID == p.ID
	}
	return d.Provider == p.Name
}
