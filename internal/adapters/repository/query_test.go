package repository

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pantrykeeper/core/internal/domain/entities"
	"github.com/pantrykeeper/core/internal/ports"
)

func testItem(name, category, location string, exp *time.Time) entities.FoodItem {
	return entities.FoodItem{
		ID:             uuid.NewString(),
		Name:           name,
		Quantity:       1,
		Unit:           "piece",
		Category:       category,
		Location:       location,
		ExpirationDate: exp,
	}
}

func names(items []entities.FoodItem) []string {
	out := make([]string, len(items))
	for i := range items {
		out[i] = items[i].Name
	}
	return out
}

func TestApplyFilter(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	in3 := now.AddDate(0, 0, 3)
	in10 := now.AddDate(0, 0, 10)
	past := now.Add(-time.Hour)

	fixture := func() []entities.FoodItem {
		return []entities.FoodItem{
			testItem("Yogurt", "Dairy", "Fridge", &in3),
			testItem("Bread", "Bakery", "Counter", &in10),
			testItem("Milk", "Dairy", "Fridge", &past),
			testItem("Rice", "", "Pantry", nil),
		}
	}

	t.Run("no filter sorts by name", func(t *testing.T) {
		got := applyFilter(fixture(), ports.ItemFilter{}, now)
		want := []string{"Bread", "Milk", "Rice", "Yogurt"}
		if len(got) != len(want) {
			t.Fatalf("got %v", names(got))
		}
		for i, n := range want {
			if got[i].Name != n {
				t.Fatalf("order = %v, want %v", names(got), want)
			}
		}
	})

	t.Run("category is case-insensitive substring", func(t *testing.T) {
		got := applyFilter(fixture(), ports.ItemFilter{Category: "dai"}, now)
		if len(got) != 2 || got[0].Name != "Milk" || got[1].Name != "Yogurt" {
			t.Fatalf("got %v", names(got))
		}
	})

	t.Run("empty category never matches", func(t *testing.T) {
		got := applyFilter(fixture(), ports.ItemFilter{Category: "pantry"}, now)
		if len(got) != 0 {
			t.Fatalf("got %v, want nothing", names(got))
		}
	})

	t.Run("location filter", func(t *testing.T) {
		got := applyFilter(fixture(), ports.ItemFilter{Location: "FRIDGE"}, now)
		if len(got) != 2 {
			t.Fatalf("got %v", names(got))
		}
	})

	t.Run("filters compose", func(t *testing.T) {
		got := applyFilter(fixture(), ports.ItemFilter{Category: "Dairy", Location: "Fridge", ExpiringSoon: true, ExpiringWindowDays: 7}, now)
		if len(got) != 1 || got[0].Name != "Yogurt" {
			t.Fatalf("got %v, want [Yogurt]", names(got))
		}
	})

	t.Run("expiring excludes expired and undated", func(t *testing.T) {
		got := applyFilter(fixture(), ports.ItemFilter{ExpiringSoon: true, ExpiringWindowDays: 30}, now)
		if len(got) != 2 || got[0].Name != "Bread" || got[1].Name != "Yogurt" {
			t.Fatalf("got %v, want [Bread Yogurt]", names(got))
		}
	})

	t.Run("window out of range falls back to default", func(t *testing.T) {
		got := applyFilter(fixture(), ports.ItemFilter{ExpiringSoon: true, ExpiringWindowDays: 90}, now)
		if len(got) != 1 || got[0].Name != "Yogurt" {
			t.Fatalf("got %v, want [Yogurt]", names(got))
		}

		got = applyFilter(fixture(), ports.ItemFilter{ExpiringSoon: true}, now)
		if len(got) != 1 || got[0].Name != "Yogurt" {
			t.Fatalf("got %v, want [Yogurt]", names(got))
		}
	})

	t.Run("window boundary is inclusive", func(t *testing.T) {
		edge := now.AddDate(0, 0, 7)
		items := []entities.FoodItem{testItem("Edge", "", "", &edge)}
		got := applyFilter(items, ports.ItemFilter{ExpiringSoon: true, ExpiringWindowDays: 7}, now)
		if len(got) != 1 {
			t.Fatal("item expiring exactly at the window edge should match")
		}

		past := edge.Add(time.Second)
		items = []entities.FoodItem{testItem("Past", "", "", &past)}
		got = applyFilter(items, ports.ItemFilter{ExpiringSoon: true, ExpiringWindowDays: 7}, now)
		if len(got) != 0 {
			t.Fatal("item past the window edge should not match")
		}
	})
}
