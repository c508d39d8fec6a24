package usecase

import (
	"strings"

	"github.com/shopspring/decimal"

	"stock_ingest/internal/feature/instruments/domain/entity"
	"stock_ingest/internal/shared/apperr"
)

// FieldMapping maps source keys onto one instruments column.
// Aliases are tried in order; the first non-empty value wins.
type FieldMapping struct {
	Column  string
	Aliases []string
	Decimal bool
}

// symbolAliases are the source keys accepted for the business key, for every category.
var symbolAliases = []string{"symbol", "ticker", "ticker_symbol", "fund_symbol", "code"}

// FieldMappings is the declarative mapping table per category.
// The columns listed for a category are exactly the ones refreshed when the symbol already exists.
var FieldMappings = map[entity.Category][]FieldMapping{
	entity.CategoryStock: {
		{Column: "name", Aliases: []string{"longName", "company name", "name"}},
		{Column: "short_name", Aliases: []string{"shortName", "short name"}},
		{Column: "sector", Aliases: []string{"sector"}},
		{Column: "industry", Aliases: []string{"industry"}},
		{Column: "exchange", Aliases: []string{"exchange", "fullExchangeName", "exchangeName"}},
		{Column: "country", Aliases: []string{"country"}},
		{Column: "currency", Aliases: []string{"currency"}},
		{Column: "website", Aliases: []string{"website"}},
		{Column: "market_cap", Aliases: []string{"marketCap", "market cap"}, Decimal: true},
	},
	entity.CategoryFund: {
		{Column: "name", Aliases: []string{"longName", "fund name", "name"}},
		{Column: "exchange", Aliases: []string{"exchange", "fullExchangeName", "exchangeName"}},
		{Column: "country", Aliases: []string{"country"}},
		{Column: "currency", Aliases: []string{"currency"}},
		{Column: "fund_category", Aliases: []string{"fund_category", "fund_type"}},
		{Column: "investment_type", Aliases: []string{"investment_type", "investmentType", "fund_family"}},
		{Column: "size_type", Aliases: []string{"size_type", "sizeType", "share_class_size"}},
		{Column: "net_assets", Aliases: []string{"net_assets", "netAssets", "totalAssets"}, Decimal: true},
		{Column: "net_asset_value", Aliases: []string{"net_asset_value", "nav", "navPrice"}, Decimal: true},
	},
}

var textColumns = map[string]func(*entity.Instrument) **string{
	"name":            func(i *entity.Instrument) **string { return &i.Name },
	"short_name":      func(i *entity.Instrument) **string { return &i.ShortName },
	"sector":          func(i *entity.Instrument) **string { return &i.Sector },
	"industry":        func(i *entity.Instrument) **string { return &i.Industry },
	"exchange":        func(i *entity.Instrument) **string { return &i.Exchange },
	"country":         func(i *entity.Instrument) **string { return &i.Country },
	"currency":        func(i *entity.Instrument) **string { return &i.Currency },
	"website":         func(i *entity.Instrument) **string { return &i.Website },
	"fund_category":   func(i *entity.Instrument) **string { return &i.FundCategory },
	"investment_type": func(i *entity.Instrument) **string { return &i.InvestmentType },
	"size_type":       func(i *entity.Instrument) **string { return &i.SizeType },
}

var decimalColumns = map[string]func(*entity.Instrument) *decimal.NullDecimal{
	"market_cap":      func(i *entity.Instrument) *decimal.NullDecimal { return &i.MarketCap },
	"net_assets":      func(i *entity.Instrument) *decimal.NullDecimal { return &i.NetAssets },
	"net_asset_value": func(i *entity.Instrument) *decimal.NullDecimal { return &i.NetAssetValue },
}

// normalizeKey folds case and drops separators so "company name", "company_name" and "companyName" match.
func normalizeKey(k string) string {
	k = strings.ToLower(strings.TrimSpace(k))
	return strings.NewReplacer(" ", "", "_", "", "-", "").Replace(k)
}

// blank reports whether a raw source value means "absent".
func blank(v string) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "", "null", "none", "nan", "n/a":
		return true
	}
	return false
}

type fieldSet map[string]string

func newFieldSet(fields map[string]string) fieldSet {
	fs := make(fieldSet, len(fields))
	for k, v := range fields {
		if blank(v) {
			continue
		}
		nk := normalizeKey(k)
		if _, ok := fs[nk]; !ok {
			fs[nk] = strings.TrimSpace(v)
		}
	}
	return fs
}

func (fs fieldSet) lookup(aliases []string) (string, bool) {
	for _, a := range aliases {
		if v, ok := fs[normalizeKey(a)]; ok {
			return v, true
		}
	}
	return "", false
}

// apply fills inst from fs according to mappings and returns the columns to refresh on conflict.
func apply(inst *entity.Instrument, fs fieldSet, mappings []FieldMapping) ([]string, error) {
	cols := make([]string, 0, len(mappings))
	for _, m := range mappings {
		cols = append(cols, m.Column)
		v, ok := fs.lookup(m.Aliases)
		if !ok {
			continue
		}
		if m.Decimal {
			d, err := decimal.NewFromString(strings.ReplaceAll(v, ",", ""))
			if err != nil {
				return nil, apperr.NewValidation(m.Column, "not a number: "+v)
			}
			*decimalColumns[m.Column](inst) = decimal.NewNullDecimal(d)
			continue
		}
		s := v
		*textColumns[m.Column](inst) = &s
	}
	return cols, nil
}

// RecordSymbol returns the normalized business key of rec, or "" when it has none.
func RecordSymbol(rec entity.Record) string {
	symbol, _ := newFieldSet(rec.Fields).lookup(symbolAliases)
	return NormalizeSymbol(symbol)
}
