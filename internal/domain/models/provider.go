package models

import "time"

// CycleStart identifies the weekday a provider's billing week begins on.
type CycleStart string

const (
	CycleStartSunday   CycleStart = "sunday"
	CycleStartSaturday CycleStart = "saturday"
)

// Weekday maps the cycle start onto a time.Weekday, defaulting to Sunday.
func (c CycleStart) Weekday() time.Weekday {
	if c == CycleStartSaturday {
		return time.Saturday
	}
	return time.Sunday
}

// Provider represents a raw-material supplier with commercial data.
type Provider struct {
	ID         string     `json:"id"`
	Name       string     `json:"name"`
	Address    string     `json:"address"`
	Phone      string     `json:"phone"`
	UnitPrice  float64    `json:"unitPrice"`
	CycleStart CycleStart `json:"cycleStart,omitempty"`
}
