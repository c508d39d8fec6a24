// Package handler はhistoryフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strconv"

	"stock_ingest/internal/feature/history/domain/entity"
	"stock_ingest/internal/feature/history/transport/http/dto"
	instdomain "stock_ingest/internal/feature/instruments/domain"
	instentity "stock_ingest/internal/feature/instruments/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// HistoryUsecase は観測値参照のユースケースインターフェースです。
type HistoryUsecase interface {
	Recent(ctx context.Context, instrumentID uint, limit int) ([]entity.Observation, error)
}

// InstrumentLookup は(category, symbol)から銘柄を引くためのインターフェースです。
type InstrumentLookup interface {
	Get(ctx context.Context, category instentity.Category, symbol string) (*instentity.Instrument, error)
}

// HistoryHandler は観測値のHTTPリクエストを処理します。
type HistoryHandler struct {
	uc          HistoryUsecase
	instruments InstrumentLookup
}

// NewHistoryHandler は新しいHistoryHandlerを生成します。
func NewHistoryHandler(uc HistoryUsecase, instruments InstrumentLookup) *HistoryHandler {
	return &HistoryHandler{uc: uc, instruments: instruments}
}

// Recent は銘柄の直近の観測値を新しい順に返します。
//
// エンドポイント例:
// GET /instruments/stock/AAPL/history?limit=30
func (h *HistoryHandler) Recent(c *gin.Context) {
	category := instentity.Category(c.Param("category"))
	if !category.Valid() {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: instdomain.ErrUnknownCategory.Error()})
		return
	}
	// 不正な値はusecase側でデフォルトに丸められる
	limit, _ := strconv.Atoi(c.Query("limit"))

	inst, err := h.instruments.Get(c.Request.Context(), category, c.Param("symbol"))
	if err != nil {
		if errors.Is(err, instdomain.ErrInstrumentNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	rows, err := h.uc.Recent(c.Request.Context(), inst.ID, limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]dto.ObservationResponse, 0, len(rows))
	for _, o := range rows {
		var volume int64
		if o.Volume != nil {
			volume = *o.Volume
		}
		out = append(out, dto.ObservationResponse{
			Date:        o.Date.UTC().Format(entity.DateLayout),
			Open:        decimalPtr(o.Open),
			High:        decimalPtr(o.High),
			Low:         decimalPtr(o.Low),
			Close:       decimalPtr(o.Close),
			Volume:      volume,
			Dividends:   decimalPtr(o.Dividends),
			StockSplits: decimalPtr(o.StockSplits),
		})
	}
	c.JSON(http.StatusOK, out)
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	return &d.Decimal
}
