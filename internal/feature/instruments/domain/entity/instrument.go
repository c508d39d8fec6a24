// Package entity defines the domain models for the instruments feature.
package entity

import "github.com/shopspring/decimal"

// Category distinguishes the kinds of tradable instrument.
type Category string

const (
	CategoryStock Category = "stock"
	CategoryFund  Category = "fund"
)

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	return c == CategoryStock || c == CategoryFund
}

// ParseCategory converts s into a Category. An empty string yields def.
func ParseCategory(s string, def Category) (Category, bool) {
	if s == "" {
		return def, def.Valid()
	}
	c := Category(s)
	return c, c.Valid()
}

// Record is a raw descriptive record as delivered by a data source.
// Fields keeps the source's own key names (e.g. "longName", "company name").
type Record struct {
	Category Category
	Fields   map[string]string
}

// Instrument is a resolved tradable instrument (stock or fund).
// Symbol is unique within a Category.
type Instrument struct {
	ID       uint
	Category Category
	Symbol   string

	Name      *string
	ShortName *string
	Sector    *string
	Industry  *string
	Exchange  *string
	Country   *string
	Currency  *string
	Website   *string
	MarketCap decimal.NullDecimal

	// fund only
	FundCategory   *string
	InvestmentType *string
	SizeType       *string
	NetAssets      decimal.NullDecimal
	NetAssetValue  decimal.NullDecimal
}
