package server

import (
	"context"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/pantrykeeper/core/internal/domain/entities"
	"github.com/pantrykeeper/core/internal/ports"
)

// instrumentedService counts every store operation by outcome. It wraps the
// real service so neither adapters nor the store know about metrics.
type instrumentedService struct {
	inner ports.InventoryService
	ops   *prometheus.CounterVec
}

func newInstrumentedService(inner ports.InventoryService, ops *prometheus.CounterVec) *instrumentedService {
	return &instrumentedService{inner: inner, ops: ops}
}

func (m *instrumentedService) count(operation string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	m.ops.WithLabelValues(operation, outcome).Inc()
}

func (m *instrumentedService) AddItem(ctx context.Context, req ports.AddItemRequest) (*entities.FoodItem, error) {
	item, err := m.inner.AddItem(ctx, req)
	m.count("add", err)
	return item, err
}

func (m *instrumentedService) RemoveItem(ctx context.Context, req ports.RemoveItemRequest) (*entities.FoodItem, error) {
	item, err := m.inner.RemoveItem(ctx, req)
	m.count("remove", err)
	return item, err
}

func (m *instrumentedService) UpdateItem(ctx context.Context, id string, req ports.UpdateItemRequest) (*entities.FoodItem, error) {
	item, err := m.inner.UpdateItem(ctx, id, req)
	m.count("update", err)
	return item, err
}

func (m *instrumentedService) GetItem(ctx context.Context, id string) (*entities.FoodItem, error) {
	item, err := m.inner.GetItem(ctx, id)
	m.count("get", err)
	return item, err
}

func (m *instrumentedService) ListItems(ctx context.Context, req ports.ListItemsRequest) ([]entities.FoodItem, error) {
	items, err := m.inner.ListItems(ctx, req)
	m.count("list", err)
	return items, err
}

func (m *instrumentedService) Stats(ctx context.Context) (*entities.InventoryStats, error) {
	stats, err := m.inner.Stats(ctx)
	m.count("stats", err)
	return stats, err
}
