// Package usecase implements instrument resolution: mapping raw source records
// onto instruments and upserting them by business key.
package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"stock_ingest/internal/feature/instruments/domain"
	"stock_ingest/internal/feature/instruments/domain/entity"
	"stock_ingest/internal/shared/apperr"
)

// InstrumentRepository abstracts the persistence layer for instruments.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type InstrumentRepository interface {
	// Upsert inserts inst or, when (category, symbol) already exists, overwrites updateColumns.
	// It returns the instrument's stable id.
	Upsert(ctx context.Context, inst *entity.Instrument, updateColumns []string) (uint, error)
	// FindBySymbol looks an instrument up by business key.
	FindBySymbol(ctx context.Context, category entity.Category, symbol string) (*entity.Instrument, error)
}

// Resolver turns raw records into stable instrument ids.
type Resolver struct {
	repo     InstrumentRepository
	mappings map[entity.Category][]FieldMapping
}

// NewResolver creates a Resolver backed by repo using the default FieldMappings.
func NewResolver(repo InstrumentRepository) *Resolver {
	return &Resolver{repo: repo, mappings: FieldMappings}
}

// Resolve upserts the instrument described by rec and returns its id.
// Descriptive fields are last-write-wins; fields absent from rec are stored as NULL.
func (r *Resolver) Resolve(ctx context.Context, rec entity.Record) (uint, error) {
	inst, cols, err := r.Map(rec)
	if err != nil {
		return 0, err
	}

	id, err := r.repo.Upsert(ctx, inst, cols)
	if err != nil {
		if !errors.Is(err, apperr.ErrPersistence) {
			err = apperr.NewPersistence("upsert instrument", err)
		}
		return 0, fmt.Errorf("resolve %s %s: %w", inst.Category, inst.Symbol, err)
	}
	return id, nil
}

// Map converts rec into an Instrument and the list of columns refreshed on conflict.
func (r *Resolver) Map(rec entity.Record) (*entity.Instrument, []string, error) {
	mappings, ok := r.mappings[rec.Category]
	if !ok {
		return nil, nil, fmt.Errorf("%w: %w", apperr.NewValidation("category", fmt.Sprintf("%q has no field mapping", rec.Category)), domain.ErrUnknownCategory)
	}

	fs := newFieldSet(rec.Fields)
	symbol, _ := fs.lookup(symbolAliases)
	symbol = NormalizeSymbol(symbol)
	if symbol == "" {
		return nil, nil, apperr.NewValidation("symbol", "must not be empty")
	}

	inst := &entity.Instrument{Category: rec.Category, Symbol: symbol}
	cols, err := apply(inst, fs, mappings)
	if err != nil {
		return nil, nil, fmt.Errorf("map %s: %w", symbol, err)
	}
	// 名称が取得できない場合はシンボルで代用する
	if inst.Name == nil {
		name := symbol
		inst.Name = &name
	}
	return inst, cols, nil
}

// NormalizeSymbol trims and upper-cases a ticker symbol.
func NormalizeSymbol(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}
