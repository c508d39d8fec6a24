// Package entity defines the domain models for the history feature.
package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-date format used for observation dates.
const DateLayout = "2006-01-02"

// Observation is one daily price/volume bar of an instrument.
// At most one observation exists per (instrument, date); once stored it is never updated.
type Observation struct {
	InstrumentID uint      // owning instrument (set on reads)
	Date         time.Time // calendar date; zero means missing
	Open         decimal.NullDecimal
	High         decimal.NullDecimal
	Low          decimal.NullDecimal
	Close        decimal.NullDecimal
	Volume       *int64 // nil means unknown
	Dividends    decimal.NullDecimal
	StockSplits  decimal.NullDecimal

	// Invalid is set by a source for a row it could not parse. The loader
	// reports such a row as failed and never stores it.
	Invalid *Rejection `json:",omitempty"`
}

// Rejection names the column of a source row that failed to parse.
type Rejection struct {
	Field  string
	Reason string
}

// Reject marks o as unparsable in field.
func (o *Observation) Reject(field, reason string) {
	if o.Invalid == nil {
		o.Invalid = &Rejection{Field: field, Reason: reason}
	}
}

// Day truncates t to its calendar date at UTC midnight.
func Day(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
