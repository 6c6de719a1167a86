package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type CartItem struct {
	ID           string          `json:"id"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unit_price"`
	Quantity     int             `json:"quantity"`
	Observations string          `json:"observations,omitempty"`
}

// Subtotal is unit price times quantity for this line.
func (i CartItem) Subtotal() decimal.Decimal {
	return i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// CustomerProfile is what the site remembers about a visitor between orders.
type CustomerProfile struct {
	Name      string     `json:"name"`
	Phone     string     `json:"phone"` // digits only, e.g. "11999999999"
	Address   string     `json:"address"`
	LastOrder *time.Time `json:"last_order,omitempty"`
}

// Complete reports whether all required delivery fields are filled in
// after trimming whitespace. Incomplete profiles are never persisted.
func (p CustomerProfile) Complete() bool {
	return strings.TrimSpace(p.Name) != "" &&
		strings.TrimSpace(p.Phone) != "" &&
		strings.TrimSpace(p.Address) != ""
}

// returningWindow is how long a saved profile counts as "returning".
const returningWindow = 30 * 24 * time.Hour

// ReturningAt reports whether the profile's last order is within the
// 30-day returning-customer window of now.
func (p CustomerProfile) ReturningAt(now time.Time) bool {
	if p.LastOrder == nil {
		return false
	}
	return now.Sub(*p.LastOrder) <= returningWindow
}

// DeliverySlot is one 20-minute delivery window of the daily schedule.
type DeliverySlot struct {
	Start string `json:"start"` // "11:00"
	End   string `json:"end"`   // "11:20"
	Label string `json:"label"` // "11:00 às 11:20"
}

// Order is assembled only to build the outbound messages; it is never
// stored beyond the session that created it.
type Order struct {
	ID          string          `json:"id"`           // internal uuid
	OrderNumber string          `json:"order_number"` // human label, e.g. "LB-2102-481"
	Items       []CartItem      `json:"items"`
	Total       decimal.Decimal `json:"total"`
	Slot        string          `json:"slot"`
	Customer    CustomerProfile `json:"customer"`
	CreatedAt   time.Time       `json:"created_at"`
}
