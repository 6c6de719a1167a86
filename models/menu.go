package models

import "github.com/shopspring/decimal"

type Dish struct {
	ID          string          `json:"id"`
	Category    string          `json:"category"` // "main", "side", "dessert", "drink"
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image,omitempty"`
	Available   bool            `json:"available"`
}

const (
	CategoryMain    = "main"
	CategorySide    = "side"
	CategoryDessert = "dessert"
	CategoryDrink   = "drink"
)

// WeekMenu is the menu offered for one delivery Saturday.
type WeekMenu struct {
	WeekStart string   `json:"week_start"` // ISO date "2026-02-21"
	WeekEnd   string   `json:"week_end"`
	Dishes    []Dish   `json:"dishes"`
	Featured  []string `json:"featured,omitempty"` // dish IDs highlighted on the page
}
