package models

// Client is a buyer of finished product.
type Client struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Payment is one partial payment against a sale.
type Payment struct {
	Amount float64 `json:"amount"`
}

// Sale records one sale to a client, with its payments to date.
type Sale struct {
	ID       string    `json:"id"`
	ClientID string    `json:"clientId"`
	Date     string    `json:"date"`
	Total    float64   `json:"total"`
	Payments []Payment `json:"payments"`
}

// Paid sums the payments recorded against the sale.
func (s Sale) Paid() float64 {
	var paid float64
	for _, p := range s.Payments {
		paid += p.Amount
	}
	return paid
}
