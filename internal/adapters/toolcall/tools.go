package toolcall

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/pantrykeeper/core/internal/domain/entities"
	"github.com/pantrykeeper/core/internal/ports"
)

type toolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func toolDefinitions() []toolDefinition {
	return []toolDefinition{
		{
			Name:        "add_food_item",
			Description: "Add a food item to the inventory",
			InputSchema: objectSchema(map[string]interface{}{
				"name":           map[string]interface{}{"type": "string"},
				"quantity":       map[string]interface{}{"type": "integer", "minimum": 1},
				"unit":           map[string]interface{}{"type": "string"},
				"expirationDate": map[string]interface{}{"type": "string", "format": "date-time"},
				"category":       map[string]interface{}{"type": "string"},
				"location":       map[string]interface{}{"type": "string"},
				"notes":          map[string]interface{}{"type": "string"},
			}, "name", "quantity", "unit"),
		},
		{
			Name:        "remove_food_item",
			Description: "Remove a food item by id, or by exact name (case-insensitive)",
			InputSchema: objectSchema(map[string]interface{}{
				"id":   map[string]interface{}{"type": "string"},
				"name": map[string]interface{}{"type": "string"},
			}),
		},
		{
			Name:        "list_food_items",
			Description: "List food items, optionally filtered by category, location, or upcoming expiration",
			InputSchema: objectSchema(map[string]interface{}{
				"category":         map[string]interface{}{"type": "string"},
				"location":         map[string]interface{}{"type": "string"},
				"expiringSoon":     map[string]interface{}{"type": "boolean"},
				"expiringSoonDays": map[string]interface{}{"type": "integer", "minimum": 1, "maximum": 30},
			}),
		},
		{
			Name:        "update_food_item",
			Description: "Update fields of an existing food item by id",
			InputSchema: objectSchema(map[string]interface{}{
				"id":             map[string]interface{}{"type": "string"},
				"name":           map[string]interface{}{"type": "string"},
				"quantity":       map[string]interface{}{"type": "integer", "minimum": 0},
				"unit":           map[string]interface{}{"type": "string"},
				"expirationDate": map[string]interface{}{"type": "string", "format": "date-time"},
				"category":       map[string]interface{}{"type": "string"},
				"location":       map[string]interface{}{"type": "string"},
				"notes":          map[string]interface{}{"type": "string"},
			}, "id"),
		},
		{
			Name:        "get_food_item",
			Description: "Get a single food item by id",
			InputSchema: objectSchema(map[string]interface{}{
				"id": map[string]interface{}{"type": "string"},
			}, "id"),
		},
		{
			Name:        "get_inventory_stats",
			Description: "Summarize the inventory: totals, categories, locations, items expiring within 7 days",
			InputSchema: objectSchema(map[string]interface{}{}),
		},
	}
}

func objectSchema(properties map[string]interface{}, required ...string) map[string]interface{} {
	schema := map[string]interface{}{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}

func (s *Server) invoke(ctx context.Context, name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	case "add_food_item":
		var req ports.AddItemRequest
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, badArguments(err)
		}
		item, err := s.service.AddItem(ctx, req)
		if err != nil {
			return nil, err
		}
		return textResult(fmt.Sprintf("Added %s", formatItem(item))), nil

	case "remove_food_item":
		var req ports.RemoveItemRequest
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, badArguments(err)
		}
		item, err := s.service.RemoveItem(ctx, req)
		if err != nil {
			return nil, err
		}
		return textResult(fmt.Sprintf("Removed %s", formatItem(item))), nil

	case "list_food_items":
		var req ports.ListItemsRequest
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, badArguments(err)
		}
		items, err := s.service.ListItems(ctx, req)
		if err != nil {
			return nil, err
		}
		if len(items) == 0 {
			return textResult("No items found"), nil
		}
		lines := make([]string, len(items))
		for i := range items {
			lines[i] = "- " + formatItem(&items[i])
		}
		return textResult(fmt.Sprintf("%d item(s):\n%s", len(items), strings.Join(lines, "\n"))), nil

	case "update_food_item":
		var req struct {
			ID string `json:"id"`
			ports.UpdateItemRequest
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, badArguments(err)
		}
		item, err := s.service.UpdateItem(ctx, req.ID, req.UpdateItemRequest)
		if err != nil {
			return nil, err
		}
		return textResult(fmt.Sprintf("Updated %s", formatItem(item))), nil

	case "get_food_item":
		var req struct {
			ID string `json:"id"`
		}
		if err := json.Unmarshal(args, &req); err != nil {
			return nil, badArguments(err)
		}
		item, err := s.service.GetItem(ctx, req.ID)
		if err != nil {
			return nil, err
		}
		return textResult(formatItem(item)), nil

	case "get_inventory_stats":
		stats, err := s.service.Stats(ctx)
		if err != nil {
			return nil, err
		}
		return textResult(formatStats(stats)), nil

	default:
		verr := &entities.ValidationError{}
		return nil, verr.Add("name", fmt.Sprintf("Unknown tool %q", name))
	}
}

func badArguments(err error) error {
	verr := &entities.ValidationError{}
	return verr.Add("arguments", fmt.Sprintf("Malformed tool arguments: %v", err))
}

// textResult wraps a human-readable reply in the tool-call content shape.
func textResult(text string) map[string]interface{} {
	return map[string]interface{}{
		"content": []map[string]interface{}{
			{"type": "text", "text": text},
		},
	}
}

func formatItem(item *entities.FoodItem) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %d %s", item.Name, item.Quantity, item.Unit)
	if item.Category != "" {
		fmt.Fprintf(&b, " [%s]", item.Category)
	}
	if item.Location != "" {
		fmt.Fprintf(&b, " @ %s", item.Location)
	}
	if item.ExpirationDate != nil {
		fmt.Fprintf(&b, ", expires %s", item.ExpirationDate.Format("2006-01-02"))
	}
	if item.Notes != "" {
		fmt.Fprintf(&b, " (%s)", item.Notes)
	}
	fmt.Fprintf(&b, " (id %s)", item.ID)
	return b.String()
}

func formatStats(stats *entities.InventoryStats) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Total items: %d\n", stats.TotalItems)
	fmt.Fprintf(&b, "Categories: %s\n", joinOrNone(stats.Categories))
	fmt.Fprintf(&b, "Locations: %s\n", joinOrNone(stats.Locations))
	fmt.Fprintf(&b, "Expiring within %d days: %d\n", entities.DefaultExpiringWindowDays, stats.ExpiringCount)
	fmt.Fprintf(&b, "Last modified: %s, schema version %s", stats.LastModified.Format("2006-01-02 15:04:05"), stats.Version)
	return b.String()
}

func joinOrNone(values []string) string {
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}
