// Package usecase implements ingest-once loading of daily observations.
package usecase

import (
	"context"
	"errors"
	"iter"
	"log/slog"
	"slices"

	"stock_ingest/internal/feature/history/domain/entity"
	"stock_ingest/internal/shared/apperr"
)

// DefaultBatchSize は1回のINSERTで送る行数です。
const DefaultBatchSize = 500

// ObservationRepository abstracts the persistence layer for observations.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type ObservationRepository interface {
	// InsertIgnore inserts rows for instrumentID, silently skipping dates already stored.
	// It returns the number of rows actually inserted.
	InsertIgnore(ctx context.Context, instrumentID uint, rows []entity.Observation) (int, error)
	// Recent returns up to limit observations, newest first.
	Recent(ctx context.Context, instrumentID uint, limit int) ([]entity.Observation, error)
}

// Loader writes observations exactly once per (instrument, date).
type Loader struct {
	repo      ObservationRepository
	batchSize int
}

// NewLoader creates a Loader. A batchSize <= 0 uses DefaultBatchSize.
func NewLoader(repo ObservationRepository, batchSize int) *Loader {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Loader{repo: repo, batchSize: batchSize}
}

// LoadHistory loads a materialized slice of observations.
func (l *Loader) LoadHistory(ctx context.Context, instrumentID uint, rows []entity.Observation) LoadReport {
	return l.LoadSeq(ctx, instrumentID, slices.Values(rows))
}

// LoadSeq loads observations from a lazy sequence, flushing every batchSize valid rows.
// Rows are independent: a failing row is recorded in the report and the rest continue.
func (l *Loader) LoadSeq(ctx context.Context, instrumentID uint, rows iter.Seq[entity.Observation]) LoadReport {
	var rep LoadReport
	seen := make(map[string]struct{})
	batch := make([]entity.Observation, 0, l.batchSize)

	for o := range rows {
		if o.Invalid != nil {
			date := ""
			if !o.Date.IsZero() {
				date = entity.Day(o.Date).Format(entity.DateLayout)
			}
			rep.fail(date, apperr.NewValidation(o.Invalid.Field, o.Invalid.Reason))
			continue
		}
		if o.Date.IsZero() {
			rep.fail("", apperr.NewValidation("date", "missing"))
			continue
		}
		if instrumentID == 0 {
			rep.fail(o.Date.Format(entity.DateLayout), apperr.NewValidation("instrument_id", "must be resolved before loading history"))
			continue
		}
		o = normalize(o)
		key := o.Date.Format(entity.DateLayout)
		if _, dup := seen[key]; dup {
			rep.Skipped++
			continue
		}
		seen[key] = struct{}{}

		batch = append(batch, o)
		if len(batch) == l.batchSize {
			l.flush(ctx, instrumentID, batch, &rep)
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		l.flush(ctx, instrumentID, batch, &rep)
	}
	return rep
}

// flush inserts batch in one statement. If the statement fails, the batch is
// retried row by row so only the offending rows are reported as failed.
func (l *Loader) flush(ctx context.Context, instrumentID uint, batch []entity.Observation, rep *LoadReport) {
	n, err := l.repo.InsertIgnore(ctx, instrumentID, batch)
	if err == nil {
		rep.Inserted += n
		rep.Skipped += len(batch) - n
		return
	}
	if !errors.Is(err, apperr.ErrPersistence) {
		err = apperr.NewPersistence("insert observations", err)
	}
	if len(batch) == 1 {
		rep.fail(batch[0].Date.Format(entity.DateLayout), err)
		return
	}

	slog.Warn("batch insert failed, retrying row by row", "instrument_id", instrumentID, "rows", len(batch), "error", err)
	for i := range batch {
		l.flush(ctx, instrumentID, batch[i:i+1], rep)
	}
}

// normalize は日付をUTCの0時に揃え、出来高が不明な場合は0にします。
// 価格項目のNULLはそのまま保持します。
func normalize(o entity.Observation) entity.Observation {
	o.Date = entity.Day(o.Date)
	if o.Volume == nil {
		var zero int64
		o.Volume = &zero
	}
	return o
}
