package di

import (
	"gorm.io/gorm"

	histadapters "stock_ingest/internal/feature/history/adapters"
	histusecase "stock_ingest/internal/feature/history/usecase"
	ingestusecase "stock_ingest/internal/feature/ingest/usecase"
	instadapters "stock_ingest/internal/feature/instruments/adapters"
	instusecase "stock_ingest/internal/feature/instruments/usecase"
	"stock_ingest/internal/platform/config"
)

// NewPipeline wires resolver and loader against db. src may be nil when only Process is used.
func NewPipeline(db *gorm.DB, src *Source, c config.IngestConfig) *ingestusecase.Pipeline {
	resolver := instusecase.NewResolver(instadapters.NewInstrumentRepository(db))
	loader := histusecase.NewLoader(histadapters.NewObservationRepository(db), c.BatchSize)

	opts := ingestusecase.Options{Concurrency: c.Concurrency}
	var source ingestusecase.Source
	if src != nil {
		source = src
		opts.RateLimiter = src.RateLimiter
	}
	return ingestusecase.NewPipeline(source, resolver, loader, opts)
}
