package services

import (
	"time"

	"github.com/shopspring/decimal"

	"food-whatsapp/models"
)

func price(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// DefaultMenu is the current week's menu. Dishes are static data edited
// alongside the site; the ordering core only reads them.
func DefaultMenu() models.WeekMenu {
	return models.WeekMenu{
		Dishes: []models.Dish{
			{
				ID:          "feijoada-001",
				Category:    models.CategoryMain,
				Name:        "Feijoada Completa",
				Description: "Tradicional feijoada brasileira com carnes selecionadas, acompanhada de arroz, couve refogada, farofa crocante e laranja.",
				Price:       price("29.90"),
				Image:       "/feijoada.jpg",
				Available:   true,
			},
			{
				ID:          "lasanha-001",
				Category:    models.CategoryMain,
				Name:        "Lasanha à Bolonhesa",
				Description: "Massa fresca, molho de tomate caseiro, carne moída e queijo gratinado.",
				Price:       price("32.90"),
				Image:       "/lasanha.jpg",
				Available:   true,
			},
			{
				ID:          "frango-pardo-001",
				Category:    models.CategoryMain,
				Name:        "Frango ao Molho Pardo",
				Description: "Sobrecoxa desossada, molho escuro com ervas, acompanhado de arroz e farofa.",
				Price:       price("28.50"),
				Image:       "/frango-pardo.jpg",
				Available:   true,
			},
			{
				ID:          "arroz-001",
				Category:    models.CategorySide,
				Name:        "Porção de Arroz",
				Description: "Arroz branco soltinho, preparado na hora. Porção individual generosa.",
				Price:       price("9.90"),
				Image:       "/arroz.webp",
				Available:   true,
			},
			{
				ID:          "salada-001",
				Category:    models.CategorySide,
				Name:        "Salada da Casa",
				Description: "Mix de folhas, tomate cereja, cebola roxa e molho de mostarda e mel.",
				Price:       price("12.00"),
				Image:       "/salada.jpg",
				Available:   true,
			},
			{
				ID:          "tiramisu-001",
				Category:    models.CategoryDessert,
				Name:        "Tiramisù",
				Description: "Clássico italiano com café, mascarpone e cacau em pó.",
				Price:       price("15.90"),
				Image:       "/tiramisu.jpg",
				Available:   true,
			},
			{
				ID:          "biscoito-fe-001",
				Category:    models.CategoryDessert,
				Name:        "Biscoito da Fé",
				Description: "Cada biscoito contém uma mensagem bíblica. Uma doce surpresa.",
				Price:       price("4.00"),
				Image:       "/biscoito-fe.webp",
				Available:   false,
			},
			{
				ID:          "agua-001",
				Category:    models.CategoryDrink,
				Name:        "Água Mineral sem Gás",
				Description: "Garrafa de 500ml de água mineral natural, sem gás.",
				Price:       price("6.00"),
				Image:       "/agua.webp",
				Available:   true,
			},
		},
		Featured: []string{"feijoada-001", "lasanha-001"},
	}
}

// DishesByCategory filters the menu keeping order. Empty category means
// all dishes.
func DishesByCategory(menu models.WeekMenu, category string) []models.Dish {
	if category == "" {
		return menu.Dishes
	}
	var out []models.Dish
	for _, d := range menu.Dishes {
		if d.Category == category {
			out = append(out, d)
		}
	}
	return out
}

// FindDish looks a dish up by id.
func FindDish(menu models.WeekMenu, id string) (models.Dish, bool) {
	for _, d := range menu.Dishes {
		if d.ID == id {
			return d, true
		}
	}
	return models.Dish{}, false
}

// OrderingDeadline returns the cutoff for the upcoming delivery
// Saturday: the Friday before it at 20:00 local time.
func OrderingDeadline(now time.Time) time.Time {
	daysUntilSaturday := (int(time.Saturday) - int(now.Weekday()) + 7) % 7
	saturday := now.AddDate(0, 0, daysUntilSaturday)
	friday := saturday.AddDate(0, 0, -1)
	return time.Date(friday.Year(), friday.Month(), friday.Day(), 20, 0, 0, 0, now.Location())
}

// OrderingOpen reports whether orders are still accepted for the next
// delivery. Past the Friday 20:00 cutoff the kitchen is already buying
// ingredients.
func OrderingOpen(now time.Time) bool {
	return now.Before(OrderingDeadline(now))
}
