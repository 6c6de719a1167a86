package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"food-whatsapp/models"
)

func dish(id, name, price string) models.Dish {
	return models.Dish{ID: id, Name: name, Price: decimal.RequireFromString(price), Available: true}
}

func TestCartAddIncrementsExisting(t *testing.T) {
	c := NewCart()
	feijoada := dish("feijoada-001", "Feijoada Completa", "29.90")
	c.Add(feijoada)
	c.Add(feijoada)

	items := c.Items()
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if items[0].Quantity != 2 {
		t.Errorf("quantity = %d, want 2", items[0].Quantity)
	}
	if c.ItemCount() != 2 {
		t.Errorf("ItemCount = %d, want 2", c.ItemCount())
	}
}

func TestCartTotal(t *testing.T) {
	c := NewCart()
	c.Add(dish("feijoada-001", "Feijoada Completa", "35.00"))
	c.SetQuantity("feijoada-001", 2)
	c.Add(dish("agua-001", "Água Mineral", "6.00"))

	if got, want := c.Total().StringFixed(2), "76.00"; got != want {
		t.Errorf("Total = %s, want %s", got, want)
	}

	c.Remove("agua-001")
	if got, want := c.Total().StringFixed(2), "70.00"; got != want {
		t.Errorf("Total after remove = %s, want %s", got, want)
	}
}

func TestCartSetQuantityZeroRemoves(t *testing.T) {
	tests := []struct {
		name string
		qty  int
	}{
		{"zero", 0},
		{"negative", -3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := NewCart()
			c.Add(dish("salada-001", "Salada da Casa", "12.00"))
			c.SetQuantity("salada-001", tt.qty)
			if !c.Empty() {
				t.Errorf("cart not empty after SetQuantity(%d)", tt.qty)
			}
			if !c.Total().IsZero() {
				t.Errorf("Total = %s, want 0", c.Total())
			}
		})
	}
}

func TestCartSetObservations(t *testing.T) {
	c := NewCart()
	c.Add(dish("lasanha-001", "Lasanha à Bolonhesa", "32.90"))
	c.SetObservations("lasanha-001", "sem queijo")

	if got := c.Items()[0].Observations; got != "sem queijo" {
		t.Errorf("observations = %q, want %q", got, "sem queijo")
	}
}

func TestCartClear(t *testing.T) {
	c := NewCart()
	c.Add(dish("feijoada-001", "Feijoada Completa", "29.90"))
	c.Clear()
	if !c.Empty() {
		t.Error("cart not empty after Clear")
	}
}

func TestNewCartFromItemsDropsInvalidQuantities(t *testing.T) {
	c := NewCartFromItems([]models.CartItem{
		{ID: "a", Name: "A", UnitPrice: decimal.NewFromInt(10), Quantity: 2},
		{ID: "b", Name: "B", UnitPrice: decimal.NewFromInt(5), Quantity: 0},
		{ID: "c", Name: "C", UnitPrice: decimal.NewFromInt(8), Quantity: -1},
	})
	if len(c.Items()) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(c.Items()))
	}
	if got, want := c.Total().StringFixed(2), "20.00"; got != want {
		t.Errorf("Total = %s, want %s", got, want)
	}
}

func TestCartItemsReturnsCopy(t *testing.T) {
	c := NewCart()
	c.Add(dish("feijoada-001", "Feijoada Completa", "29.90"))
	items := c.Items()
	items[0].Quantity = 99
	if c.Items()[0].Quantity != 1 {
		t.Error("mutating the returned slice changed the cart")
	}
}
