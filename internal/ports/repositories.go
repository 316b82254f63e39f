package ports

import (
	"context"

	"github.com/pantrykeeper/core/internal/domain/entities"
)

// InventoryRepository defines the interface for food item persistence.
// Implementations own the envelope exclusively: every mutating call must be
// atomic with respect to other mutations, and must durably persist before
// returning. Read-only calls return snapshots decoupled from later writes.
type InventoryRepository interface {
	List(ctx context.Context, filter ItemFilter) ([]entities.FoodItem, error)
	GetByID(ctx context.Context, id string) (*entities.FoodItem, error)
	FindByName(ctx context.Context, name string) (*entities.FoodItem, error)
	Insert(ctx context.Context, item *entities.FoodItem) error
	// Mutate looks up id, applies the change to a copy of the record, and
	// swaps it in, all under one critical section. Concurrent mutations can
	// never interleave between the lookup and the commit. When apply returns
	// an error the stored record is left intact and nothing is persisted.
	Mutate(ctx context.Context, id string, apply func(*entities.FoodItem) error) (*entities.FoodItem, error)
	Delete(ctx context.Context, id string) (*entities.FoodItem, error)
	Stats(ctx context.Context) (*entities.InventoryStats, error)
}

// ItemFilter narrows a listing. Filters are applied in declaration order;
// the result is always sorted by name regardless of filters.
type ItemFilter struct {
	Category           string
	Location           string
	ExpiringSoon       bool
	ExpiringWindowDays int // 1..30, defaulted when zero
}
