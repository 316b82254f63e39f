package ports

import (
	"context"

	"github.com/pantrykeeper/core/internal/domain/entities"
)

// InventoryService is the single contract both adapters (REST bridge and
// tool-call server) consume. Plain data in, plain data or typed errors out;
// no transport-specific types leak through.
type InventoryService interface {
	AddItem(ctx context.Context, req AddItemRequest) (*entities.FoodItem, error)
	RemoveItem(ctx context.Context, req RemoveItemRequest) (*entities.FoodItem, error)
	UpdateItem(ctx context.Context, id string, req UpdateItemRequest) (*entities.FoodItem, error)
	GetItem(ctx context.Context, id string) (*entities.FoodItem, error)
	ListItems(ctx context.Context, req ListItemsRequest) ([]entities.FoodItem, error)
	Stats(ctx context.Context) (*entities.InventoryStats, error)
}

// Request/Response Types

// AddItemRequest creates a new item. The id is never client-supplied.
type AddItemRequest struct {
	Name           string `json:"name" validate:"required,min=1"`
	Quantity       int    `json:"quantity" validate:"required,min=1"`
	Unit           string `json:"unit" validate:"required,min=1"`
	ExpirationDate string `json:"expirationDate" validate:"omitempty"`
	Category       string `json:"category"`
	Location       string `json:"location"`
	Notes          string `json:"notes"`
}

// RemoveItemRequest selects one item: by id when given, otherwise by
// case-insensitive exact name. At least one selector is required.
type RemoveItemRequest struct {
	ID   string `json:"id" validate:"omitempty,uuid"`
	Name string `json:"name"`
}

// UpdateItemRequest carries a partial merge. Nil fields are left untouched.
// Quantity zero is accepted here; only creation enforces a positive minimum.
type UpdateItemRequest struct {
	Name           *string `json:"name" validate:"omitempty,min=1"`
	Quantity       *int    `json:"quantity" validate:"omitempty,min=0"`
	Unit           *string `json:"unit" validate:"omitempty,min=1"`
	ExpirationDate *string `json:"expirationDate"`
	Category       *string `json:"category"`
	Location       *string `json:"location"`
	Notes          *string `json:"notes"`
}

// ListItemsRequest filters and never mutates.
type ListItemsRequest struct {
	Category         string `json:"category" query:"category"`
	Location         string `json:"location" query:"location"`
	ExpiringSoon     bool   `json:"expiringSoon" query:"expiringSoon"`
	ExpiringSoonDays int    `json:"expiringSoonDays" query:"expiringSoonDays" validate:"omitempty,min=1,max=30"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string                    `json:"message"`
	Details []entities.FieldViolation `json:"details,omitempty"`
}
