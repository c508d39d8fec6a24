// Package entity defines the domain models for the ingest feature.
package entity

import (
	histentity "stock_ingest/internal/feature/history/domain/entity"
	instentity "stock_ingest/internal/feature/instruments/domain/entity"
)

// Target names one instrument to fetch from a source.
type Target struct {
	Symbol   string
	Category instentity.Category
}

// SourceRecord is everything a source delivers for one instrument:
// its descriptive record and its daily history.
type SourceRecord struct {
	Record       instentity.Record
	Observations []histentity.Observation
}
