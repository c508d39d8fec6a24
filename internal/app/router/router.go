// Package router wires the ops API routes.
package router

import (
	histhandler "stock_ingest/internal/feature/history/transport/handler"
	ingesthandler "stock_ingest/internal/feature/ingest/transport/handler"
	insthandler "stock_ingest/internal/feature/instruments/transport/handler"
	symbollisthandler "stock_ingest/internal/feature/symbollist/transport/handler"
	"stock_ingest/internal/platform/http/handler"
	jwtmw "stock_ingest/internal/platform/jwt"

	"github.com/gin-gonic/gin"
)

// Handlers groups the feature handlers served by the ops API.
type Handlers struct {
	Instruments *insthandler.InstrumentHandler
	History     *histhandler.HistoryHandler
	Watchlist   *symbollisthandler.SymbolHandler
	Runs        *ingesthandler.RunHandler
	Ready       gin.HandlerFunc
}

func NewRouter(h Handlers, jwtSecret string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// 認証不要
	// 導通確認用
	r.GET("/healthz", handler.Health)
	r.HEAD("/healthz", handler.Health)
	if h.Ready != nil {
		r.GET("/readyz", h.Ready)
	}
	// 参照系
	r.GET("/instruments/:category/:symbol", h.Instruments.Get)
	r.GET("/instruments/:category/:symbol/history", h.History.Recent)
	r.GET("/watchlist", h.Watchlist.List)

	// 認証必須のルート
	// jwtmw.AuthRequired() ミドルウェアを適用
	// → リクエストヘッダーに JWT が必要になる
	auth := r.Group("/")
	auth.Use(jwtmw.AuthRequired(jwtSecret))
	{
		auth.POST("/watchlist", h.Watchlist.Add)
		auth.POST("/runs", h.Runs.Create)
	}

	return r
}
