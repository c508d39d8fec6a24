// Package dto defines data transfer objects for the watchlist HTTP API.
package dto

// SymbolItem represents a watchlist entry in the API response.
// It contains only the public-facing fields needed by clients.
type SymbolItem struct {
	Code     string `json:"code"`
	Category string `json:"category"`
	Name     string `json:"name"`
}

// AddSymbolRequest is the body of POST /watchlist.
type AddSymbolRequest struct {
	Code     string `json:"code" binding:"required"`
	Category string `json:"category"`
	Name     string `json:"name"`
	SortKey  int    `json:"sort_key"`
}
