package entities_test

import (
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/pantrykeeper/core/internal/domain/entities"
)

func validItem() entities.FoodItem {
	now := time.Now().UTC()
	return entities.FoodItem{
		ID:           uuid.NewString(),
		Name:         "Milk",
		Quantity:     1,
		Unit:         "liter",
		AddedDate:    now,
		LastModified: now,
	}
}

func TestFoodItemValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		item := validItem()
		if err := item.Validate(); err != nil {
			t.Fatalf("expected valid item, got %v", err)
		}
	})

	t.Run("zero quantity is valid", func(t *testing.T) {
		item := validItem()
		item.Quantity = 0
		if err := item.Validate(); err != nil {
			t.Fatalf("expected valid item, got %v", err)
		}
	})

	t.Run("collects every violation", func(t *testing.T) {
		item := entities.FoodItem{ID: "not-a-uuid", Quantity: -1}
		err := item.Validate()
		if err == nil {
			t.Fatal("expected error")
		}
		verr, ok := err.(*entities.ValidationError)
		if !ok {
			t.Fatalf("expected ValidationError, got %T", err)
		}
		if len(verr.Violations) != 4 {
			t.Fatalf("expected 4 violations, got %d: %v", len(verr.Violations), verr.Violations)
		}
	})

	t.Run("whitespace name rejected", func(t *testing.T) {
		item := validItem()
		item.Name = "   "
		if err := item.Validate(); err == nil {
			t.Fatal("expected error for blank name")
		}
	})
}

func TestExpiresWithin(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	at := func(t time.Time) *time.Time { return &t }

	tests := []struct {
		name string
		exp  *time.Time
		days int
		want bool
	}{
		{"no date", nil, 7, false},
		{"already expired", at(now.Add(-time.Hour)), 7, false},
		{"inside window", at(now.AddDate(0, 0, 3)), 7, true},
		{"exactly at threshold", at(now.AddDate(0, 0, 7)), 7, true},
		{"just past threshold", at(now.AddDate(0, 0, 7).Add(time.Second)), 7, false},
		{"expires right now", at(now), 7, true},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			item := validItem()
			item.ExpirationDate = tc.exp
			if got := item.ExpiresWithin(now, tc.days); got != tc.want {
				t.Fatalf("ExpiresWithin = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestClone(t *testing.T) {
	exp := time.Date(2026, 4, 1, 0, 0, 0, 0, time.UTC)
	item := validItem()
	item.ExpirationDate = &exp

	clone := item.Clone()
	*clone.ExpirationDate = clone.ExpirationDate.AddDate(1, 0, 0)

	if !item.ExpirationDate.Equal(exp) {
		t.Fatal("mutating the clone changed the original expiration date")
	}
}

func TestSummarize(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	soon := now.AddDate(0, 0, 2)
	far := now.AddDate(0, 1, 0)

	a := validItem()
	a.Category = "Dairy"
	a.Location = "Fridge"
	a.ExpirationDate = &soon

	b := validItem()
	b.Category = "Bakery"
	b.Location = "Fridge"
	b.ExpirationDate = &far

	c := validItem()

	db := entities.Database{
		Items:   []entities.FoodItem{a, b, c},
		Version: entities.SchemaVersion,
	}
	stats := db.Summarize(now)

	if stats.TotalItems != 3 {
		t.Fatalf("TotalItems = %d, want 3", stats.TotalItems)
	}
	if len(stats.Categories) != 2 || stats.Categories[0] != "Bakery" || stats.Categories[1] != "Dairy" {
		t.Fatalf("Categories = %v, want sorted [Bakery Dairy]", stats.Categories)
	}
	if len(stats.Locations) != 1 || stats.Locations[0] != "Fridge" {
		t.Fatalf("Locations = %v, want [Fridge]", stats.Locations)
	}
	if stats.ExpiringCount != 1 {
		t.Fatalf("ExpiringCount = %d, want 1", stats.ExpiringCount)
	}
	if stats.Version != entities.SchemaVersion {
		t.Fatalf("Version = %q", stats.Version)
	}
}
