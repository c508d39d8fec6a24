// Package dto defines data transfer objects for the instruments HTTP API.
package dto

import "github.com/shopspring/decimal"

// InstrumentResponse は銘柄情報のレスポンスDTOです。未取得の項目はnullになります。
type InstrumentResponse struct {
	ID       uint   `json:"id"`
	Category string `json:"category"`
	Symbol   string `json:"symbol"`

	Name      *string          `json:"name"`
	ShortName *string          `json:"short_name,omitempty"`
	Sector    *string          `json:"sector,omitempty"`
	Industry  *string          `json:"industry,omitempty"`
	Exchange  *string          `json:"exchange"`
	Country   *string          `json:"country"`
	Currency  *string          `json:"currency"`
	Website   *string          `json:"website,omitempty"`
	MarketCap *decimal.Decimal `json:"market_cap,omitempty"`

	FundCategory   *string          `json:"fund_category,omitempty"`
	InvestmentType *string          `json:"investment_type,omitempty"`
	SizeType       *string          `json:"size_type,omitempty"`
	NetAssets      *decimal.Decimal `json:"net_assets,omitempty"`
	NetAssetValue  *decimal.Decimal `json:"net_asset_value,omitempty"`
}

// ErrorResponse はエラーレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}
