// Package errors provides custom error types for inventory operations.
package errors

import "errors"

var (
	// ErrProductNotFound is returned when no product matches the given code.
	ErrProductNotFound = errors.New("product not found")
	// ErrDuplicateCode is returned when adding a product whose code already exists.
	ErrDuplicateCode = errors.New("product code already exists")
	// ErrInvalidInput is returned for unparseable or out-of-range field values.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInsufficientStock is returned when a sale exceeds the available stock.
	ErrInsufficientStock = errors.New("insufficient stock")
	// ErrPersistence is returned when the backing file could not be written.
	ErrPersistence = errors.New("failed to persist inventory")
)
