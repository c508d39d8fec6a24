// Package handler はinstrumentsフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"

	"stock_ingest/internal/feature/instruments/domain"
	"stock_ingest/internal/feature/instruments/domain/entity"
	"stock_ingest/internal/feature/instruments/transport/http/dto"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// InstrumentUsecase は銘柄参照のユースケースインターフェースを定義します。
// Goの慣例に従い、インターフェースは利用者（handler）側で定義します。
type InstrumentUsecase interface {
	Get(ctx context.Context, category entity.Category, symbol string) (*entity.Instrument, error)
}

// InstrumentHandler は銘柄情報のHTTPリクエストを処理します。
type InstrumentHandler struct {
	uc InstrumentUsecase
}

// NewInstrumentHandler は指定されたusecaseでInstrumentHandlerの新しいインスタンスを生成します。
func NewInstrumentHandler(uc InstrumentUsecase) *InstrumentHandler {
	return &InstrumentHandler{uc: uc}
}

// Get はカテゴリと銘柄コードで銘柄情報を返します。
//
// エンドポイント例:
// GET /instruments/stock/AAPL
func (h *InstrumentHandler) Get(c *gin.Context) {
	category := entity.Category(c.Param("category"))
	if !category.Valid() {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: domain.ErrUnknownCategory.Error()})
		return
	}

	inst, err := h.uc.Get(c.Request.Context(), category, c.Param("symbol"))
	if err != nil {
		if errors.Is(err, domain.ErrInstrumentNotFound) {
			c.JSON(http.StatusNotFound, dto.ErrorResponse{Error: err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, ToResponse(inst))
}

// ToResponse はエンティティをレスポンスDTOに変換します。
func ToResponse(inst *entity.Instrument) dto.InstrumentResponse {
	return dto.InstrumentResponse{
		ID:             inst.ID,
		Category:       string(inst.Category),
		Symbol:         inst.Symbol,
		Name:           inst.Name,
		ShortName:      inst.ShortName,
		Sector:         inst.Sector,
		Industry:       inst.Industry,
		Exchange:       inst.Exchange,
		Country:        inst.Country,
		Currency:       inst.Currency,
		Website:        inst.Website,
		MarketCap:      decimalPtr(inst.MarketCap),
		FundCategory:   inst.FundCategory,
		InvestmentType: inst.InvestmentType,
		SizeType:       inst.SizeType,
		NetAssets:      decimalPtr(inst.NetAssets),
		NetAssetValue:  decimalPtr(inst.NetAssetValue),
	}
}

func decimalPtr(d decimal.NullDecimal) *decimal.Decimal {
	if !d.Valid {
		return nil
	}
	return &d.Decimal
}
