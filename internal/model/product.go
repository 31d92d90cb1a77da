// Package model defines the domain entities shared across layers.
package model

import "github.com/shopspring/decimal"

// Product represents one inventory line item identified by a unique code.
// Price is a decimal so values survive encode/decode exactly.
type Product struct {
	Code  string
	Name  string
	Price decimal.Decimal
	Stock int64
	Sold  int64
}

// Equal reports whether two products carry the same field values.
// Price is compared by decimal value, not representation.
func (p Product) Equal(other Product) bool {
	return p.Code == other.Code &&
		p.Name == other.Name &&
		p.Price.Equal(other.Price) &&
		p.Stock == other.Stock &&
		p.Sold == other.Sold
}
