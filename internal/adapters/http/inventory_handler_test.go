package http_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	adapterhttp "github.com/pantrykeeper/core/internal/adapters/http"
	"github.com/pantrykeeper/core/internal/adapters/repository"
	"github.com/pantrykeeper/core/internal/application/services"
	"github.com/pantrykeeper/core/internal/domain/entities"
	"github.com/pantrykeeper/core/internal/infrastructure/logger"
	"github.com/pantrykeeper/core/internal/ports"
)

func newTestRouter(t *testing.T) *echo.Echo {
	t.Helper()
	dir := t.TempDir()
	repo, err := repository.NewFileRepository(
		filepath.Join(dir, "food-inventory.json"),
		filepath.Join(dir, "food-inventory.backup.json"),
		logger.NewNop(),
	)
	if err != nil {
		t.Fatal(err)
	}
	service := services.NewInventoryService(repo, logger.NewNop())
	handler := adapterhttp.NewInventoryHandler(service, logger.NewNop())

	e := echo.New()
	items := e.Group("/api/v1/items")
	items.GET("", handler.ListItems)
	items.POST("", handler.AddItem)
	items.POST("/remove", handler.RemoveItem)
	items.GET("/:id", handler.GetItem)
	items.PATCH("/:id", handler.UpdateItem)
	items.DELETE("/:id", handler.DeleteItem)
	e.GET("/api/v1/stats", handler.GetStats)
	return e
}

func doJSON(t *testing.T, e *echo.Echo, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func addItem(t *testing.T, e *echo.Echo, body string) entities.FoodItem {
	t.Helper()
	rec := doJSON(t, e, http.MethodPost, "/api/v1/items", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("add returned %d: %s", rec.Code, rec.Body.String())
	}
	var item entities.FoodItem
	if err := json.Unmarshal(rec.Body.Bytes(), &item); err != nil {
		t.Fatal(err)
	}
	return item
}

func TestAddItemEndpoint(t *testing.T) {
	e := newTestRouter(t)

	t.Run("created", func(t *testing.T) {
		item := addItem(t, e, `{"name":"Milk","quantity":2,"unit":"liter","expirationDate":"2026-09-15"}`)
		if item.ID == "" {
			t.Fatal("response has no id")
		}
		if item.ExpirationDate == nil {
			t.Fatal("expiration date was not parsed")
		}
	})

	t.Run("validation failure lists violations", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/items", `{"name":"Milk"}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
		var resp ports.ErrorResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
			t.Fatal(err)
		}
		if len(resp.Details) != 2 {
			t.Fatalf("details = %v, want quantity and unit", resp.Details)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/items", `{`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestListItemsEndpoint(t *testing.T) {
	e := newTestRouter(t)
	addItem(t, e, `{"name":"Yogurt","quantity":1,"unit":"cup","category":"Dairy","location":"Fridge"}`)
	addItem(t, e, `{"name":"Bread","quantity":1,"unit":"loaf","category":"Bakery","location":"Counter"}`)

	t.Run("all items sorted", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/api/v1/items", "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
		var items []entities.FoodItem
		if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
			t.Fatal(err)
		}
		if len(items) != 2 || items[0].Name != "Bread" || items[1].Name != "Yogurt" {
			t.Fatalf("items = %+v", items)
		}
	})

	t.Run("category filter", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/api/v1/items?category=dairy", "")
		var items []entities.FoodItem
		if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
			t.Fatal(err)
		}
		if len(items) != 1 || items[0].Name != "Yogurt" {
			t.Fatalf("items = %+v", items)
		}
	})

	t.Run("bad boolean", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/api/v1/items?expiringSoon=maybe", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("window out of range", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/api/v1/items?expiringSoon=true&expiringSoonDays=31", "")
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestGetItemEndpoint(t *testing.T) {
	e := newTestRouter(t)
	item := addItem(t, e, `{"name":"Milk","quantity":2,"unit":"liter"}`)

	t.Run("found", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/api/v1/items/"+item.ID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	})

	t.Run("missing", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodGet, "/api/v1/items/00000000-0000-0000-0000-000000000000", "")
		if rec.Code != http.StatusNotFound {
			t.Fatalf("status = %d, want 404", rec.Code)
		}
	})
}

func TestUpdateItemEndpoint(t *testing.T) {
	e := newTestRouter(t)
	item := addItem(t, e, `{"name":"Milk","quantity":2,"unit":"liter"}`)

	rec := doJSON(t, e, http.MethodPatch, "/api/v1/items/"+item.ID, `{"quantity":0,"notes":"finish soon"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	var updated entities.FoodItem
	if err := json.Unmarshal(rec.Body.Bytes(), &updated); err != nil {
		t.Fatal(err)
	}
	if updated.Quantity != 0 || updated.Notes != "finish soon" {
		t.Fatalf("updated = %+v", updated)
	}
	if updated.Name != "Milk" {
		t.Fatal("unset field changed")
	}
}

func TestRemoveEndpoints(t *testing.T) {
	e := newTestRouter(t)

	t.Run("delete by path id", func(t *testing.T) {
		item := addItem(t, e, `{"name":"Milk","quantity":2,"unit":"liter"}`)
		rec := doJSON(t, e, http.MethodDelete, "/api/v1/items/"+item.ID, "")
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("remove by name selector", func(t *testing.T) {
		addItem(t, e, `{"name":"Eggs","quantity":12,"unit":"piece"}`)
		rec := doJSON(t, e, http.MethodPost, "/api/v1/items/remove", `{"name":"eggs"}`)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
		}
	})

	t.Run("no selector", func(t *testing.T) {
		rec := doJSON(t, e, http.MethodPost, "/api/v1/items/remove", `{}`)
		if rec.Code != http.StatusBadRequest {
			t.Fatalf("status = %d, want 400", rec.Code)
		}
	})
}

func TestStatsEndpoint(t *testing.T) {
	e := newTestRouter(t)
	addItem(t, e, `{"name":"Milk","quantity":2,"unit":"liter","category":"Dairy"}`)

	rec := doJSON(t, e, http.MethodGet, "/api/v1/stats", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var stats entities.InventoryStats
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats.TotalItems != 1 || len(stats.Categories) != 1 {
		t.Fatalf("stats = %+v", stats)
	}
}
