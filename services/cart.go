package services

import (
	"github.com/shopspring/decimal"

	"food-whatsapp/models"
)

// Cart holds the order in progress. It is only ever touched from the
// goroutine driving the checkout, so there is no locking here.
type Cart struct {
	items []models.CartItem
}

func NewCart() *Cart {
	return &Cart{}
}

// NewCartFromItems restores a cart from a stored snapshot, dropping any
// lines with a non-positive quantity.
func NewCartFromItems(items []models.CartItem) *Cart {
	c := NewCart()
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		c.items = append(c.items, item)
	}
	return c
}

// Add puts one unit of the dish in the cart, or bumps the quantity when
// the dish is already there.
func (c *Cart) Add(d models.Dish) {
	for i := range c.items {
		if c.items[i].ID == d.ID {
			c.items[i].Quantity++
			return
		}
	}
	c.items = append(c.items, models.CartItem{
		ID:        d.ID,
		Name:      d.Name,
		UnitPrice: d.Price,
		Quantity:  1,
	})
}

// SetQuantity sets the quantity of a cart line. Zero or negative removes
// the line instead of keeping a zero-quantity row.
func (c *Cart) SetQuantity(dishID string, quantity int) {
	if quantity <= 0 {
		c.Remove(dishID)
		return
	}
	for i := range c.items {
		if c.items[i].ID == dishID {
			c.items[i].Quantity = quantity
			return
		}
	}
}

// SetObservations attaches a per-line note ("sem cebola" etc.).
func (c *Cart) SetObservations(dishID, note string) {
	for i := range c.items {
		if c.items[i].ID == dishID {
			c.items[i].Observations = note
			return
		}
	}
}

func (c *Cart) Remove(dishID string) {
	for i := range c.items {
		if c.items[i].ID == dishID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return
		}
	}
}

func (c *Cart) Clear() {
	c.items = nil
}

func (c *Cart) Empty() bool {
	return len(c.items) == 0
}

// Items returns a copy of the cart lines.
func (c *Cart) Items() []models.CartItem {
	out := make([]models.CartItem, len(c.items))
	copy(out, c.items)
	return out
}

// Total is the sum of unit price times quantity over all lines.
func (c *Cart) Total() decimal.Decimal {
	total := decimal.Zero
	for _, item := range c.items {
		total = total.Add(item.Subtotal())
	}
	return total
}

// ItemCount is the number of units across all lines.
func (c *Cart) ItemCount() int {
	n := 0
	for _, item := range c.items {
		n += item.Quantity
	}
	return n
}
