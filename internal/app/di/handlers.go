package di

import (
	"gorm.io/gorm"

	"stock_ingest/internal/app/router"
	histadapters "stock_ingest/internal/feature/history/adapters"
	histhandler "stock_ingest/internal/feature/history/transport/handler"
	histusecase "stock_ingest/internal/feature/history/usecase"
	ingesthandler "stock_ingest/internal/feature/ingest/transport/handler"
	instadapters "stock_ingest/internal/feature/instruments/adapters"
	instentity "stock_ingest/internal/feature/instruments/domain/entity"
	insthandler "stock_ingest/internal/feature/instruments/transport/handler"
	instusecase "stock_ingest/internal/feature/instruments/usecase"
	symbollistadapters "stock_ingest/internal/feature/symbollist/adapters"
	symbollisthandler "stock_ingest/internal/feature/symbollist/transport/handler"
	symbollistusecase "stock_ingest/internal/feature/symbollist/usecase"
	infrahandler "stock_ingest/internal/platform/http/handler"
)

// NewHandlers builds every ops API handler on top of db and runner.
func NewHandlers(db *gorm.DB, runner ingesthandler.Runner, defaultCategory instentity.Category) (router.Handlers, error) {
	// Usecase
	instUC := instusecase.NewInstrumentUsecase(instadapters.NewInstrumentRepository(db))
	histUC := histusecase.NewHistoryUsecase(histadapters.NewObservationRepository(db))
	symbolUC := symbollistusecase.NewSymbolUsecase(symbollistadapters.NewSymbolRepository(db))

	sqlDB, err := db.DB()
	if err != nil {
		return router.Handlers{}, err
	}

	// Handler
	return router.Handlers{
		Instruments: insthandler.NewInstrumentHandler(instUC),
		History:     histhandler.NewHistoryHandler(histUC, instUC),
		Watchlist:   symbollisthandler.NewSymbolHandler(symbolUC),
		Runs:        ingesthandler.NewRunHandler(runner, defaultCategory),
		Ready:       infrahandler.Ready(sqlDB),
	}, nil
}
