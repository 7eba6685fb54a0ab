package models

// KgPerSack is the fixed whole-milk sack size.
const KgPerSack = 25.0

// LowStockThresholdSacks is the stock level at or below which the low-stock
// warning fires.
const LowStockThresholdSacks = 5.0

// Replenishment records whole-milk sacks added to stock.
type Replenishment struct {
	ID    string  `json:"id"`
	Date  string  `json:"date"`
	Sacks float64 `json:"sacks"`
}

// StockStatus is the computed whole-milk stock position. Stock is never
// persisted; it is always recomputed over all-time history.
type StockStatus struct {
	AddedSacks    float64 `json:"addedSacks"`
	ConsumedSacks float64 `json:"consumedSacks"`
	CurrentSacks  float64 `json:"currentSacks"`
	CurrentKg     float64 `json:"currentKg"`
	Low           bool    `json:"low"`
}
