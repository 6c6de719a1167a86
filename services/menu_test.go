package services

import (
	"testing"
	"time"

	"food-whatsapp/models"
)

func TestDishesByCategory(t *testing.T) {
	menu := DefaultMenu()

	mains := DishesByCategory(menu, models.CategoryMain)
	if len(mains) == 0 {
		t.Fatal("no main dishes")
	}
	for _, d := range mains {
		if d.Category != models.CategoryMain {
			t.Errorf("dish %s has category %s", d.ID, d.Category)
		}
	}

	all := DishesByCategory(menu, "")
	if len(all) != len(menu.Dishes) {
		t.Errorf("empty category returned %d dishes, want %d", len(all), len(menu.Dishes))
	}
}

func TestFindDish(t *testing.T) {
	menu := DefaultMenu()
	d, ok := FindDish(menu, "feijoada-001")
	if !ok {
		t.Fatal("feijoada-001 not found")
	}
	if d.Name != "Feijoada Completa" {
		t.Errorf("name = %q", d.Name)
	}
	if _, ok := FindDish(menu, "nope"); ok {
		t.Error("found a dish that does not exist")
	}
}

func TestOrderingDeadline(t *testing.T) {
	// Wednesday 2026-02-18; delivery Saturday is the 21st, cutoff
	// Friday the 20th at 20:00.
	wed := time.Date(2026, 2, 18, 9, 0, 0, 0, time.UTC)
	deadline := OrderingDeadline(wed)
	want := time.Date(2026, 2, 20, 20, 0, 0, 0, time.UTC)
	if !deadline.Equal(want) {
		t.Errorf("deadline = %v, want %v", deadline, want)
	}
}

func TestOrderingOpen(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		want bool
	}{
		{"wednesday morning", time.Date(2026, 2, 18, 9, 0, 0, 0, time.UTC), true},
		{"friday before cutoff", time.Date(2026, 2, 20, 19, 59, 0, 0, time.UTC), true},
		{"friday at cutoff", time.Date(2026, 2, 20, 20, 0, 0, 0, time.UTC), false},
		{"friday after cutoff", time.Date(2026, 2, 20, 21, 0, 0, 0, time.UTC), false},
		{"delivery saturday", time.Date(2026, 2, 21, 10, 0, 0, 0, time.UTC), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := OrderingOpen(tt.now); got != tt.want {
				t.Errorf("OrderingOpen(%v) = %v, want %v", tt.now, got, tt.want)
			}
		})
	}
}
