package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"stock_ingest/internal/feature/symbollist/domain"
	"stock_ingest/internal/feature/symbollist/domain/entity"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

// mockSymbolUsecase はSymbolUsecaseインターフェースのモック実装です。
type mockSymbolUsecase struct {
	ListActiveSymbolsFunc func(ctx context.Context) ([]entity.Symbol, error)
	AddFunc               func(ctx context.Context, code, category, name string, sortKey int) (*entity.Symbol, error)
}

// ListActiveSymbols はモックのListActiveSymbols関数を呼び出します。
func (m *mockSymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	if m.ListActiveSymbolsFunc != nil {
		return m.ListActiveSymbolsFunc(ctx)
	}
	return nil, nil
}

// Add はモックのAdd関数を呼び出します。
func (m *mockSymbolUsecase) Add(ctx context.Context, code, category, name string, sortKey int) (*entity.Symbol, error) {
	if m.AddFunc != nil {
		return m.AddFunc(ctx, code, category, name, sortKey)
	}
	return nil, errors.New("AddFunc is not implemented")
}

// TestNewSymbolHandler はNewSymbolHandlerコンストラクタが正しくインスタンスを生成することを検証します。
func TestNewSymbolHandler(t *testing.T) {
	t.Parallel()

	mockUC := &mockSymbolUsecase{}
	handler := NewSymbolHandler(mockUC)

	assert.NotNil(t, handler, "handler should not be nil")
	assert.NotNil(t, handler.uc, "usecase should not be nil")
}

// TestSymbolHandler_List はListハンドラーの各種シナリオをテーブル駆動テストで検証します。
func TestSymbolHandler_List(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name               string
		mockListActiveFunc func(ctx context.Context) ([]entity.Symbol, error)
		expectedStatus     int
		expectedBody       string
	}{
		{
			name: "success: returns list of symbols",
			mockListActiveFunc: func(ctx context.Context) ([]entity.Symbol, error) {
				return []entity.Symbol{
					{ID: 1, Code: "7203.T", Name: "Toyota Motor", Category: "stock", IsActive: true, SortKey: 1},
					{ID: 2, Code: "6758.T", Name: "Sony Group", Category: "stock", IsActive: true, SortKey: 2},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"code":"7203.T","category":"stock","name":"Toyota Motor"},{"code":"6758.T","category":"stock","name":"Sony Group"}]`,
		},
		{
			name: "success: returns empty list when no symbols",
			mockListActiveFunc: func(ctx context.Context) ([]entity.Symbol, error) {
				return []entity.Symbol{}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
		{
			name: "success: returns single symbol",
			mockListActiveFunc: func(ctx context.Context) ([]entity.Symbol, error) {
				return []entity.Symbol{
					{ID: 1, Code: "9984.T", Name: "SoftBank Group", Category: "stock", IsActive: true, SortKey: 1},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[{"code":"9984.T","category":"stock","name":"SoftBank Group"}]`,
		},
		{
			name: "failure: usecase returns error",
			mockListActiveFunc: func(ctx context.Context) ([]entity.Symbol, error) {
				return nil, errors.New("database connection failed")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"database connection failed"}`,
		},
		{
			name: "success: returns nil from usecase",
			mockListActiveFunc: func(ctx context.Context) ([]entity.Symbol, error) {
				return nil, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `[]`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			mockUC := &mockSymbolUsecase{
				ListActiveSymbolsFunc: tt.mockListActiveFunc,
			}
			handler := NewSymbolHandler(mockUC)

			router := gin.New()
			router.GET("/watchlist", handler.List)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, "/watchlist", nil)

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}

// TestSymbolHandler_List_DTOConversion はレスポンスにcodeとnameのみが含まれ、内部フィールドが公開されないことを検証します。
func TestSymbolHandler_List_DTOConversion(t *testing.T) {
	t.Parallel()
	gin.SetMode(gin.TestMode)

	// レスポンスにcode、category、nameのみが含まれることを検証（ID、IsActive、SortKeyは含まれない）
	mockUC := &mockSymbolUsecase{
		ListActiveSymbolsFunc: func(ctx context.Context) ([]entity.Symbol, error) {
			return []entity.Symbol{
				{
					ID:       999,
					Code:     "TEST.T",
					Name:     "Test Company",
					Category: "fund",
					IsActive: true,
					SortKey:  100,
				},
			}, nil
		},
	}
	handler := NewSymbolHandler(mockUC)

	router := gin.New()
	router.GET("/watchlist", handler.List)

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/watchlist", nil)

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `[{"code":"TEST.T","category":"fund","name":"Test Company"}]`, w.Body.String())
	// 内部フィールドが公開されていないことを検証
	assert.NotContains(t, w.Body.String(), "999")
	assert.NotContains(t, w.Body.String(), "is_active")
	assert.NotContains(t, w.Body.String(), "sort_key")
}

// TestSymbolHandler_Add はAddハンドラーの各種シナリオをテーブル駆動テストで検証します。
func TestSymbolHandler_Add(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		body           string
		mockAddFunc    func(ctx context.Context, code, category, name string, sortKey int) (*entity.Symbol, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: registers symbol",
			body: `{"code":"aapl","name":"Apple Inc.","sort_key":3}`,
			mockAddFunc: func(ctx context.Context, code, category, name string, sortKey int) (*entity.Symbol, error) {
				assert.Equal(t, "aapl", code)
				assert.Equal(t, 3, sortKey)
				return &entity.Symbol{Code: "AAPL", Category: "stock", Name: name}, nil
			},
			expectedStatus: http.StatusCreated,
			expectedBody:   `{"code":"AAPL","category":"stock","name":"Apple Inc."}`,
		},
		{
			name:           "failure: missing code",
			body:           `{"name":"Apple Inc."}`,
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"invalid request"}`,
		},
		{
			name: "failure: invalid category",
			body: `{"code":"BTC","category":"crypto"}`,
			mockAddFunc: func(ctx context.Context, code, category, name string, sortKey int) (*entity.Symbol, error) {
				return nil, domain.ErrInvalidCategory
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"category must be stock or fund"}`,
		},
		{
			name: "failure: store error",
			body: `{"code":"MSFT"}`,
			mockAddFunc: func(ctx context.Context, code, category, name string, sortKey int) (*entity.Symbol, error) {
				return nil, errors.New("database connection failed")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"database connection failed"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			handler := NewSymbolHandler(&mockSymbolUsecase{AddFunc: tt.mockAddFunc})
			router := gin.New()
			router.POST("/watchlist", handler.Add)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/watchlist", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")

			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			assert.JSONEq(t, tt.expectedBody, w.Body.String())
		})
	}
}
