package handler

import (
	"context"
	"errors"
	"net/http"

	"stock_ingest/internal/feature/symbollist/domain"
	"stock_ingest/internal/feature/symbollist/domain/entity"
	"stock_ingest/internal/feature/symbollist/transport/http/dto"

	"github.com/gin-gonic/gin"
)

// SymbolUsecase は監視銘柄に関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type SymbolUsecase interface {
	ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error)
	Add(ctx context.Context, code, category, name string, sortKey int) (*entity.Symbol, error)
}

// SymbolHandler は監視銘柄に関するHTTPリクエストを処理します。
type SymbolHandler struct {
	uc SymbolUsecase
}

// NewSymbolHandler は新しい SymbolHandler を作成します。
func NewSymbolHandler(uc SymbolUsecase) *SymbolHandler {
	return &SymbolHandler{uc: uc}
}

// List は有効な監視銘柄の一覧を取得するAPIです。
// Usecaseでエラーが発生した場合は500 Internal Server Errorを返します。
func (h *SymbolHandler) List(c *gin.Context) {
	symbols, err := h.uc.ListActiveSymbols(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	out := make([]dto.SymbolItem, 0, len(symbols))
	for _, s := range symbols {
		out = append(out, toItem(s))
	}
	c.JSON(http.StatusOK, out)
}

// Add は監視銘柄を登録するAPIです。
// 入力が不正な場合は400、保存に失敗した場合は500を返します。
func (h *SymbolHandler) Add(c *gin.Context) {
	var req dto.AddSymbolRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}

	s, err := h.uc.Add(c.Request.Context(), req.Code, req.Category, req.Name, req.SortKey)
	if err != nil {
		if errors.Is(err, domain.ErrEmptyCode) || errors.Is(err, domain.ErrInvalidCategory) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusCreated, toItem(*s))
}

func toItem(s entity.Symbol) dto.SymbolItem {
	return dto.SymbolItem{Code: s.Code, Category: s.Category, Name: s.Name}
}
