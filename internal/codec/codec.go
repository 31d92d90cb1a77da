// Package codec translates between delimited text rows and Product values.
package codec

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/avalenz/inventario/internal/model"
	"github.com/shopspring/decimal"
)

// Column names of the backing format, in column order.
const (
	ColCode  = "code"
	ColName  = "name"
	ColPrice = "price"
	ColStock = "stock"
	ColSold  = "sold"
)

// Header returns the fixed column schema of the backing file.
func Header() []string {
	return []string{ColCode, ColName, ColPrice, ColStock, ColSold}
}

// ParsePrice parses a monetary amount from user or spreadsheet text.
// Currency symbols and spaces are stripped first. Separator ambiguity is
// resolved by locale convention: a comma with no period is a decimal point,
// and when both appear the periods are thousands separators.
func ParsePrice(raw string) (decimal.Decimal, error) {
	s := strings.TrimSpace(raw)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("empty price")
	}

	hasComma := strings.Contains(s, ",")
	hasPeriod := strings.Contains(s, ".")
	switch {
	case hasComma && hasPeriod:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case hasComma:
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid price %q: %w", raw, err)
	}
	return d, nil
}

// ParseCount parses an integer quantity such as stock or units sold.
func ParseCount(raw string) (int64, error) {
	n, err := strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid count %q: %w", raw, err)
	}
	return n, nil
}

// Decode builds a Product from a header-name to raw-text mapping.
// Header keys are normalized by trimming and lowercasing. Unparseable
// numeric cells fall back to their zero value instead of failing: a load
// must always succeed, even over rows a spreadsheet mangled.
func Decode(fields map[string]string) model.Product {
	row := make(map[string]string, len(fields))
	for k, v := range fields {
		key := strings.ToLower(strings.TrimSpace(k))
		if key == "" {
			continue
		}
		row[key] = v
	}

	var p model.Product
	p.Code = row[ColCode]
	p.Name = row[ColName]
	if price, err := ParsePrice(row[ColPrice]); err == nil {
		p.Price = price
	} else {
		p.Price = decimal.Zero
	}
	if stock, err := ParseCount(row[ColStock]); err == nil {
		p.Stock = stock
	}
	if sold, err := ParseCount(row[ColSold]); err == nil {
		p.Sold = sold
	}
	return p
}

// Encode renders a Product as a header-name to text mapping. Price is
// written as a plain decimal with no grouping or currency symbol so the
// value reads back exactly.
func Encode(p model.Product) map[string]string {
	return map[string]string{
		ColCode:  p.Code,
		ColName:  p.Name,
		ColPrice: p.Price.String(),
		ColStock: strconv.FormatInt(p.Stock, 10),
		ColSold:  strconv.FormatInt(p.Sold, 10),
	}
}
