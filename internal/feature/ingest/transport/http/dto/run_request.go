// Package dto defines data transfer objects for the ingest HTTP API.
package dto

// RunRequest is the body of POST /runs.
type RunRequest struct {
	Symbols  []string `json:"symbols" binding:"required,min=1"`
	Category string   `json:"category"`
}
