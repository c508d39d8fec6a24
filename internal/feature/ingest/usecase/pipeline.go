// Package usecase orchestrates ingest runs: fetch a record per target, resolve
// its instrument, then load its history, aggregating everything into a Summary.
package usecase

import (
	"context"
	"errors"
	"log/slog"

	"golang.org/x/sync/errgroup"

	histentity "stock_ingest/internal/feature/history/domain/entity"
	histusecase "stock_ingest/internal/feature/history/usecase"
	"stock_ingest/internal/feature/ingest/domain/entity"
	instentity "stock_ingest/internal/feature/instruments/domain/entity"
	instusecase "stock_ingest/internal/feature/instruments/usecase"
	"stock_ingest/internal/shared/apperr"
	"stock_ingest/internal/shared/ratelimiter"
)

// Source delivers the descriptive record and history of one target.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type Source interface {
	Fetch(ctx context.Context, target entity.Target) (entity.SourceRecord, error)
}

// EntityResolver upserts an instrument and returns its id.
type EntityResolver interface {
	Resolve(ctx context.Context, rec instentity.Record) (uint, error)
}

// HistoryLoader inserts observations that are not stored yet.
type HistoryLoader interface {
	LoadHistory(ctx context.Context, instrumentID uint, rows []histentity.Observation) histusecase.LoadReport
}

// Options tunes a Pipeline.
type Options struct {
	// Concurrency は同時に処理するレコード数です。1以下なら逐次処理します。
	Concurrency int
	// RateLimiter はSource.Fetchの前に呼ばれます。nilなら制限しません。
	RateLimiter ratelimiter.RateLimiterInterface
}

// Pipeline runs resolve-then-load for every record.
// A failing record or row is recorded in the Summary and never stops the run.
type Pipeline struct {
	source   Source
	resolver EntityResolver
	loader   HistoryLoader
	opts     Options
}

// NewPipeline creates a Pipeline. source may be nil when only Process is used.
func NewPipeline(source Source, resolver EntityResolver, loader HistoryLoader, opts Options) *Pipeline {
	if opts.RateLimiter == nil {
		opts.RateLimiter = ratelimiter.Noop{}
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Pipeline{source: source, resolver: resolver, loader: loader, opts: opts}
}

// Run fetches every target from the source and processes it.
// The returned error is non-nil only when ctx is cancelled; the Summary then
// covers the targets processed so far.
func (p *Pipeline) Run(ctx context.Context, targets []entity.Target) (Summary, error) {
	c := &collector{s: newSummary()}
	if p.source == nil {
		return c.s, errors.New("pipeline has no source")
	}

	err := p.each(ctx, len(targets), func(ctx context.Context, i int) {
		t := targets[i]
		t.Symbol = instusecase.NormalizeSymbol(t.Symbol)

		p.opts.RateLimiter.WaitIfNeeded()
		rec, err := p.source.Fetch(ctx, t)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			if !errors.Is(err, apperr.ErrSource) && !errors.Is(err, apperr.ErrValidation) {
				err = apperr.NewSource(t.Symbol, err)
			}
			slog.Error("failed to fetch record", "symbol", t.Symbol, "category", t.Category, "error", err)
			c.failed(t.Symbol, t.Category, err)
			return
		}
		if rec.Record.Category == "" {
			rec.Record.Category = t.Category
		}
		p.processOne(ctx, rec, c)
	})
	return c.s, err
}

// Process resolves and loads already materialized records.
// Records left unprocessed because ctx was cancelled are not counted.
func (p *Pipeline) Process(ctx context.Context, records []entity.SourceRecord) Summary {
	c := &collector{s: newSummary()}
	_ = p.each(ctx, len(records), func(ctx context.Context, i int) {
		p.processOne(ctx, records[i], c)
	})
	return c.s
}

func (p *Pipeline) processOne(ctx context.Context, rec entity.SourceRecord, c *collector) {
	symbol := instusecase.RecordSymbol(rec.Record)
	cat := rec.Record.Category

	id, err := p.resolver.Resolve(ctx, rec.Record)
	if err != nil {
		// 1つの銘柄でエラーが発生しても処理を止めずにログに出力し、次のレコードへ進む
		slog.Error("failed to resolve instrument", "symbol", symbol, "category", cat, "error", err)
		c.failed(symbol, cat, err)
		return
	}

	rep := p.loader.LoadHistory(ctx, id, rec.Observations)
	if rep.Failed > 0 {
		slog.Warn("some observations failed to load", "symbol", symbol, "instrument_id", id, "failed", rep.Failed, "inserted", rep.Inserted)
	}
	slog.Debug("record processed", "symbol", symbol, "instrument_id", id, "inserted", rep.Inserted, "skipped", rep.Skipped)
	c.loaded(symbol, cat, rep)
}

// each calls fn for 0..n-1, sequentially or with at most Concurrency in flight.
// It stops starting new work once ctx is done and returns ctx.Err().
func (p *Pipeline) each(ctx context.Context, n int, fn func(ctx context.Context, i int)) error {
	if p.opts.Concurrency == 1 {
		for i := 0; i < n; i++ {
			if err := ctx.Err(); err != nil {
				return err
			}
			fn(ctx, i)
		}
		return nil
	}

	var g errgroup.Group
	g.SetLimit(p.opts.Concurrency)
	for i := 0; i < n; i++ {
		if ctx.Err() != nil {
			break
		}
		g.Go(func() error {
			fn(ctx, i)
			return nil
		})
	}
	_ = g.Wait()
	return ctx.Err()
}
