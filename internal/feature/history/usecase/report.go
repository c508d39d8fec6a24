package usecase

import (
	"stock_ingest/internal/shared/apperr"
)

// RowError is a failure recorded for a single observation row.
type RowError struct {
	Date string // YYYY-MM-DD, empty when the row had no date
	Err  error
}

// LoadReport counts the outcome of one LoadHistory call.
type LoadReport struct {
	Inserted int
	Skipped  int // already present, or a repeated date within the same call
	Failed   int
	Errors   []RowError
}

func (r *LoadReport) fail(date string, err error) {
	r.Failed++
	r.Errors = append(r.Errors, RowError{Date: date, Err: err})
}

// Add merges o into r.
func (r *LoadReport) Add(o LoadReport) {
	r.Inserted += o.Inserted
	r.Skipped += o.Skipped
	r.Failed += o.Failed
	r.Errors = append(r.Errors, o.Errors...)
}

// Total is the number of rows the report accounts for.
func (r LoadReport) Total() int {
	return r.Inserted + r.Skipped + r.Failed
}

// FailuresByKind counts row errors per apperr kind.
func (r LoadReport) FailuresByKind() map[string]int {
	out := make(map[string]int)
	for _, e := range r.Errors {
		out[apperr.Kind(e.Err)]++
	}
	return out
}
