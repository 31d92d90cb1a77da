// Package report computes read-only aggregate statistics over the inventory.
package report

import (
	"context"
	"fmt"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/avalenz/inventario/internal/model"
	"github.com/avalenz/inventario/internal/store"
)

// Summary holds the aggregate figures of one inventory snapshot.
type Summary struct {
	DistinctProducts    int
	TotalStockUnits     int64
	TotalInventoryValue decimal.Decimal
	TotalUnitsSold      int64
	TotalSoldValue      decimal.Decimal
}

// Service computes reports over an InventoryStore. It never mutates the
// inventory and never persists.
type Service struct {
	repository store.InventoryStore
}

// NewService creates a new report service with the provided store.
func NewService(repo store.InventoryStore) *Service {
	return &Service{repository: repo}
}

// Summary aggregates counts and monetary totals over the current snapshot.
func (s *Service) Summary(_ context.Context) (*Summary, error) {
	products, err := s.repository.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	sum := &Summary{DistinctProducts: len(products)}
	for _, p := range products {
		sum.TotalStockUnits += p.Stock
		sum.TotalUnitsSold += p.Sold
		sum.TotalInventoryValue = sum.TotalInventoryValue.Add(p.Price.Mul(decimal.NewFromInt(p.Stock)))
		sum.TotalSoldValue = sum.TotalSoldValue.Add(p.Price.Mul(decimal.NewFromInt(p.Sold)))
	}
	return sum, nil
}

// LowStock returns products with stock at or below threshold, in store order.
func (s *Service) LowStock(_ context.Context, threshold int64) ([]model.Product, error) {
	products, err := s.repository.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}

	var low []model.Product
	for _, p := range products {
		if p.Stock <= threshold {
			low = append(low, p)
		}
	}
	return low, nil
}

// TopSellers returns up to n products ordered by units sold, descending.
// Ties keep their original store order.
func (s *Service) TopSellers(_ context.Context, n int) ([]model.Product, error) {
	products, err := s.repository.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	if n <= 0 {
		return nil, nil
	}

	sort.SliceStable(products, func(i, j int) bool {
		return products[i].Sold > products[j].Sold
	})
	if n < len(products) {
		products = products[:n]
	}
	return products, nil
}
