package services

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/pantrykeeper/core/internal/domain/entities"
	"github.com/pantrykeeper/core/internal/infrastructure/logger"
	"github.com/pantrykeeper/core/internal/ports"
)

// InventoryService implements the six store operations over a repository.
// Validation, identity assignment, and timestamp stamping happen here; both
// adapters share this single instance rather than re-deriving the rules.
type InventoryService struct {
	repo     ports.InventoryRepository
	validate *validator.Validate
	logger   *logger.Logger
}

// NewInventoryService creates a new inventory service
func NewInventoryService(repo ports.InventoryRepository, log *logger.Logger) *InventoryService {
	return &InventoryService{
		repo:     repo,
		validate: validator.New(),
		logger:   log,
	}
}

// AddItem validates the request, assigns identity and timestamps, and
// persists the new record. The collection is untouched on validation failure.
func (s *InventoryService) AddItem(ctx context.Context, req ports.AddItemRequest) (*entities.FoodItem, error) {
	verr := s.checkStruct(req)
	expiration, dateErr := parseExpiration(req.ExpirationDate)
	if dateErr != nil {
		verr.Add("expirationDate", "Invalid expiration date")
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	item := entities.FoodItem{
		ID:             uuid.NewString(),
		Name:           req.Name,
		Quantity:       req.Quantity,
		Unit:           req.Unit,
		ExpirationDate: expiration,
		Category:       req.Category,
		Location:       req.Location,
		Notes:          req.Notes,
		AddedDate:      now,
		LastModified:   now,
	}

	if err := s.repo.Insert(ctx, &item); err != nil {
		return nil, err
	}

	s.logger.Info("Item added", "item_id", item.ID, "name", item.Name)
	return &item, nil
}

// RemoveItem deletes a single item. The id selector takes precedence; the
// name selector matches the first case-insensitive exact match.
func (s *InventoryService) RemoveItem(ctx context.Context, req ports.RemoveItemRequest) (*entities.FoodItem, error) {
	if req.ID == "" && strings.TrimSpace(req.Name) == "" {
		verr := &entities.ValidationError{}
		return nil, verr.Add("selector", "Either id or name must be provided")
	}
	if err := s.checkStruct(req).OrNil(); err != nil {
		return nil, err
	}

	id := req.ID
	if id == "" {
		found, err := s.repo.FindByName(ctx, req.Name)
		if err != nil {
			return nil, err
		}
		id = found.ID
	}

	removed, err := s.repo.Delete(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Item removed", "item_id", removed.ID, "name", removed.Name)
	return removed, nil
}

// UpdateItem merges the supplied fields over the stored record, preserving id
// and addedDate, and re-validates the merged result before anything changes.
// The merge runs inside the repository's critical section, so two concurrent
// updates to the same item can never overwrite each other's fields.
func (s *InventoryService) UpdateItem(ctx context.Context, id string, req ports.UpdateItemRequest) (*entities.FoodItem, error) {
	verr := s.checkStruct(req)
	var expiration *time.Time
	if req.ExpirationDate != nil && *req.ExpirationDate != "" {
		parsed, err := parseExpiration(*req.ExpirationDate)
		if err != nil {
			verr.Add("expirationDate", "Invalid expiration date")
		}
		expiration = parsed
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	merged, err := s.repo.Mutate(ctx, id, func(item *entities.FoodItem) error {
		if req.Name != nil {
			item.Name = *req.Name
		}
		if req.Quantity != nil {
			item.Quantity = *req.Quantity
		}
		if req.Unit != nil {
			item.Unit = *req.Unit
		}
		if req.ExpirationDate != nil {
			// An explicit empty string clears the date.
			item.ExpirationDate = expiration
		}
		if req.Category != nil {
			item.Category = *req.Category
		}
		if req.Location != nil {
			item.Location = *req.Location
		}
		if req.Notes != nil {
			item.Notes = *req.Notes
		}
		item.LastModified = time.Now().UTC()
		return item.Validate()
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("Item updated", "item_id", merged.ID, "name", merged.Name)
	return merged, nil
}

// GetItem retrieves a single record by id.
func (s *InventoryService) GetItem(ctx context.Context, id string) (*entities.FoodItem, error) {
	return s.repo.GetByID(ctx, id)
}

// ListItems returns a filtered, name-sorted snapshot.
func (s *InventoryService) ListItems(ctx context.Context, req ports.ListItemsRequest) ([]entities.FoodItem, error) {
	if err := s.checkStruct(req).OrNil(); err != nil {
		return nil, err
	}

	filter := ports.ItemFilter{
		Category:           req.Category,
		Location:           req.Location,
		ExpiringSoon:       req.ExpiringSoon,
		ExpiringWindowDays: req.ExpiringSoonDays,
	}
	return s.repo.List(ctx, filter)
}

// Stats summarizes the collection.
func (s *InventoryService) Stats(ctx context.Context) (*entities.InventoryStats, error) {
	return s.repo.Stats(ctx)
}
