// Package handler はingestフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"net/http"

	"stock_ingest/internal/feature/ingest/domain/entity"
	"stock_ingest/internal/feature/ingest/transport/http/dto"
	"stock_ingest/internal/feature/ingest/usecase"
	instentity "stock_ingest/internal/feature/instruments/domain/entity"

	"github.com/gin-gonic/gin"
)

// Runner は取り込み処理を実行するインターフェースです。
type Runner interface {
	Run(ctx context.Context, targets []entity.Target) (usecase.Summary, error)
}

// RunHandler は取り込み実行のHTTPリクエストを処理します。
type RunHandler struct {
	runner          Runner
	defaultCategory instentity.Category
}

// NewRunHandler は新しいRunHandlerを生成します。
func NewRunHandler(runner Runner, defaultCategory instentity.Category) *RunHandler {
	return &RunHandler{runner: runner, defaultCategory: defaultCategory}
}

// Create は指定された銘柄の取り込みを同期的に実行し、集計結果を返します。
// 個々の銘柄の失敗はレスポンスのfailuresに含まれ、ステータスは200のままです。
//
// エンドポイント例:
// POST /runs {"symbols":["AAPL","MSFT"],"category":"stock"}
func (h *RunHandler) Create(c *gin.Context) {
	var req dto.RunRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
		return
	}
	category, ok := instentity.ParseCategory(req.Category, h.defaultCategory)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown instrument category"})
		return
	}

	targets := make([]entity.Target, 0, len(req.Symbols))
	for _, s := range req.Symbols {
		targets = append(targets, entity.Target{Symbol: s, Category: category})
	}

	summary, err := h.runner.Run(c.Request.Context(), targets)
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": err.Error(), "summary": summary})
		return
	}
	c.JSON(http.StatusOK, summary)
}
