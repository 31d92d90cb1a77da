// Package store provides the in-memory inventory collection and its
// file-backed persistence.
package store

import "github.com/avalenz/inventario/internal/model"

// InventoryStore is the interface for inventory storage operations.
// It abstracts the underlying data store, allowing for different
// implementations (e.g., file-backed, in-memory for tests).
type InventoryStore interface {
	// FindAll returns every product in store order.
	// Returns an empty slice if no products exist.
	FindAll() ([]model.Product, error)

	// FindByCode retrieves a single product by exact code match.
	// The first occurrence wins if duplicates exist.
	// Returns ErrProductNotFound if no product has the given code.
	FindByCode(code string) (*model.Product, error)

	// Search returns every product whose code equals the term
	// (case-insensitive) or whose name contains it (case-insensitive).
	// An empty result is a valid, non-error outcome.
	Search(term string) ([]model.Product, error)

	// Append adds a new product at the end of the store and persists.
	// Returns ErrDuplicateCode if the code already exists,
	// ErrPersistence if the backing file could not be written.
	Append(p model.Product) error

	// Replace swaps the first product matching code with p and persists.
	// Returns ErrProductNotFound or ErrPersistence.
	Replace(code string, p model.Product) error

	// Remove deletes the first product matching code and persists.
	// Returns ErrProductNotFound or ErrPersistence.
	Remove(code string) error
}
