package dto

import "github.com/shopspring/decimal"

// ObservationResponse は日次観測値のレスポンスDTOです。欠損値はnullになります。
type ObservationResponse struct {
	Date        string           `json:"date"`   // 日付
	Open        *decimal.Decimal `json:"open"`   // 始値
	High        *decimal.Decimal `json:"high"`   // 高値
	Low         *decimal.Decimal `json:"low"`    // 安値
	Close       *decimal.Decimal `json:"close"`  // 終値
	Volume      int64            `json:"volume"` // 出来高
	Dividends   *decimal.Decimal `json:"dividends,omitempty"`
	StockSplits *decimal.Decimal `json:"stock_splits,omitempty"`
}

// ErrorResponse はエラーレスポンスDTOです。
type ErrorResponse struct {
	Error string `json:"error"`
}
