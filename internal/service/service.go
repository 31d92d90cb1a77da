// Package service provides the implementation of inventory business logic.
package service

import (
	"context"
	"fmt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/avalenz/inventario/internal/codec"
	ierrors "github.com/avalenz/inventario/internal/errors"
	"github.com/avalenz/inventario/internal/model"
	"github.com/avalenz/inventario/internal/store"
)

// EditField selects which product field an edit operation targets.
// Sold is deliberately absent: it only changes through Sell.
type EditField string

const (
	FieldName  EditField = "name"
	FieldPrice EditField = "price"
	FieldStock EditField = "stock"
)

// InventoryService defines the methods for managing the inventory.
// Every mutation persists the whole inventory before reporting success.
type InventoryService interface {
	// FindAll returns all products in store order.
	FindAll(ctx context.Context) ([]ProductDto, error)

	// FindByCode retrieves a single product by exact code.
	// Returns ErrProductNotFound if no product has the given code.
	FindByCode(ctx context.Context, code string) (*ProductDto, error)

	// Search returns products matching the term by code (case-insensitive
	// equality) or name (case-insensitive substring).
	Search(ctx context.Context, term string) ([]ProductDto, error)

	// Add creates a new product with zero units sold.
	// Returns ErrDuplicateCode, ErrInvalidInput or ErrPersistence.
	Add(ctx context.Context, product ProductCreateDto) (*ProductDto, error)

	// Edit changes a single field of an existing product.
	// Returns ErrProductNotFound, ErrInvalidInput or ErrPersistence;
	// on failure the record is left untouched.
	Edit(ctx context.Context, code string, field EditField, value string) (*ProductDto, error)

	// Delete removes a product by code.
	// Returns ErrProductNotFound or ErrPersistence.
	Delete(ctx context.Context, code string) error

	// Sell records a sale: stock decreases and sold increases by quantity.
	// Returns ErrProductNotFound, ErrInvalidInput, ErrInsufficientStock
	// or ErrPersistence.
	Sell(ctx context.Context, code string, quantity string) (*ProductDto, error)
}

// Service implements InventoryService over an InventoryStore.
type Service struct {
	repository store.InventoryStore
	validate   *validator.Validate
}

var _ InventoryService = (*Service)(nil)

// NewService creates a new inventory service with the provided store.
func NewService(repo store.InventoryStore) *Service {
	return &Service{
		repository: repo,
		validate:   validator.New(),
	}
}

// ProductCreateDto carries raw user input for creating a product.
// Price and Stock stay text until parsed so unparseable input maps to
// ErrInvalidInput instead of failing upstream.
type ProductCreateDto struct {
	Code  string `validate:"required,max=32"`
	Name  string `validate:"required,max=100"`
	Price string `validate:"required"`
	Stock string `validate:"required"`
}

// ProductDto represents one product as returned to callers.
type ProductDto struct {
	Code  string
	Name  string
	Price decimal.Decimal
	Stock int64
	Sold  int64
}

// FindAll returns all products in store order.
func (s *Service) FindAll(_ context.Context) ([]ProductDto, error) {
	products, err := s.repository.FindAll()
	if err != nil {
		return nil, fmt.Errorf("failed to fetch products: %w", err)
	}
	return toDtos(products), nil
}

// FindByCode retrieves a product by its code and returns it as a ProductDto.
func (s *Service) FindByCode(_ context.Context, code string) (*ProductDto, error) {
	product, err := s.repository.FindByCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", code, err)
	}
	return toDto(product), nil
}

// Search returns matching products. An empty result is not an error.
func (s *Service) Search(_ context.Context, term string) ([]ProductDto, error) {
	products, err := s.repository.Search(term)
	if err != nil {
		return nil, fmt.Errorf("failed to search products: %w", err)
	}
	return toDtos(products), nil
}

// Add validates the input, creates the product with Sold = 0 and persists.
func (s *Service) Add(_ context.Context, product ProductCreateDto) (*ProductDto, error) {
	if err := s.validate.Struct(product); err != nil {
		return nil, fmt.Errorf("%w: %v", ierrors.ErrInvalidInput, err)
	}
	price, err := codec.ParsePrice(product.Price)
	if err != nil || price.IsNegative() {
		return nil, fmt.Errorf("%w: price must be a non-negative number", ierrors.ErrInvalidInput)
	}
	stock, err := codec.ParseCount(product.Stock)
	if err != nil || stock < 0 {
		return nil, fmt.Errorf("%w: stock must be a non-negative integer", ierrors.ErrInvalidInput)
	}

	p := model.Product{
		Code:  product.Code,
		Name:  product.Name,
		Price: price,
		Stock: stock,
		Sold:  0,
	}
	if err := s.repository.Append(p); err != nil {
		return nil, fmt.Errorf("failed to add product %s: %w", p.Code, err)
	}
	return toDto(&p), nil
}

// Edit mutates only the targeted field and persists.
func (s *Service) Edit(_ context.Context, code string, field EditField, value string) (*ProductDto, error) {
	product, err := s.repository.FindByCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", code, err)
	}

	switch field {
	case FieldName:
		product.Name = value
	case FieldPrice:
		price, err := codec.ParsePrice(value)
		if err != nil || price.IsNegative() {
			return nil, fmt.Errorf("%w: price must be a non-negative number", ierrors.ErrInvalidInput)
		}
		product.Price = price
	case FieldStock:
		stock, err := codec.ParseCount(value)
		if err != nil || stock < 0 {
			return nil, fmt.Errorf("%w: stock must be a non-negative integer", ierrors.ErrInvalidInput)
		}
		product.Stock = stock
	default:
		return nil, fmt.Errorf("%w: unknown field %q", ierrors.ErrInvalidInput, field)
	}

	if err := s.repository.Replace(code, *product); err != nil {
		return nil, fmt.Errorf("failed to update product %s: %w", code, err)
	}
	return toDto(product), nil
}

// Delete removes a product by code and persists.
func (s *Service) Delete(_ context.Context, code string) error {
	if err := s.repository.Remove(code); err != nil {
		return fmt.Errorf("failed to delete product %s: %w", code, err)
	}
	return nil
}

// Sell moves quantity units from stock to sold and persists.
func (s *Service) Sell(_ context.Context, code string, quantity string) (*ProductDto, error) {
	qty, err := codec.ParseCount(quantity)
	if err != nil || qty <= 0 {
		return nil, fmt.Errorf("%w: quantity must be a positive integer", ierrors.ErrInvalidInput)
	}

	product, err := s.repository.FindByCode(code)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch product %s: %w", code, err)
	}
	if qty > product.Stock {
		return nil, fmt.Errorf("%w: %d requested, %d available", ierrors.ErrInsufficientStock, qty, product.Stock)
	}

	product.Stock -= qty
	product.Sold += qty
	if err := s.repository.Replace(code, *product); err != nil {
		return nil, fmt.Errorf("failed to record sale for product %s: %w", code, err)
	}
	return toDto(product), nil
}

// toDto converts a model.Product to a ProductDto.
func toDto(product *model.Product) *ProductDto {
	return &ProductDto{
		Code:  product.Code,
		Name:  product.Name,
		Price: product.Price,
		Stock: product.Stock,
		Sold:  product.Sold,
	}
}

func toDtos(products []model.Product) []ProductDto {
	dtos := make([]ProductDto, len(products))
	for i := range products {
		dtos[i] = *toDto(&products[i])
	}
	return dtos
}
