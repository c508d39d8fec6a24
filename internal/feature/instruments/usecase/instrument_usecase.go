package usecase

import (
	"context"

	"stock_ingest/internal/feature/instruments/domain/entity"
)

// InstrumentUsecase provides read access to resolved instruments.
type InstrumentUsecase struct {
	repo InstrumentRepository
}

// NewInstrumentUsecase creates a new InstrumentUsecase with the given repository.
func NewInstrumentUsecase(repo InstrumentRepository) *InstrumentUsecase {
	return &InstrumentUsecase{repo: repo}
}

// Get returns the instrument identified by (category, symbol).
func (u *InstrumentUsecase) Get(ctx context.Context, category entity.Category, symbol string) (*entity.Instrument, error) {
	return u.repo.FindBySymbol(ctx, category, NormalizeSymbol(symbol))
}
