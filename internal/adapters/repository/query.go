package repository

import (
	"sort"
	"strings"
	"time"

	"github.com/pantrykeeper/core/internal/domain/entities"
	"github.com/pantrykeeper/core/internal/ports"
)

// applyFilter runs the query pipeline over an already-copied snapshot in
// fixed order: category, location, expiring window, then the unconditional
// name sort. Sorting the copy never reorders the envelope.
func applyFilter(items []entities.FoodItem, filter ports.ItemFilter, now time.Time) []entities.FoodItem {
	out := items

	if filter.Category != "" {
		out = keep(out, func(it *entities.FoodItem) bool {
			return containsFold(it.Category, filter.Category)
		})
	}

	if filter.Location != "" {
		out = keep(out, func(it *entities.FoodItem) bool {
			return containsFold(it.Location, filter.Location)
		})
	}

	if filter.ExpiringSoon {
		days := filter.ExpiringWindowDays
		if days < 1 || days > 30 {
			days = entities.DefaultExpiringWindowDays
		}
		out = keep(out, func(it *entities.FoodItem) bool {
			return it.ExpiresWithin(now, days)
		})
	}

	// Unconditional sort keeps output reproducible for identical inputs.
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

func keep(items []entities.FoodItem, pred func(*entities.FoodItem) bool) []entities.FoodItem {
	out := items[:0]
	for i := range items {
		if pred(&items[i]) {
			out = append(out, items[i])
		}
	}
	return out
}

// containsFold is a case-insensitive substring match. An absent value never
// matches a non-empty needle.
func containsFold(value, needle string) bool {
	if value == "" {
		return false
	}
	return strings.Contains(strings.ToLower(value), strings.ToLower(needle))
}
