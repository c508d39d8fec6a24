package twelvedata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	histentity "stock_ingest/internal/feature/history/domain/entity"
	"stock_ingest/internal/feature/ingest/domain/entity"
	"stock_ingest/internal/feature/ingest/usecase"
	instentity "stock_ingest/internal/feature/instruments/domain/entity"
	"stock_ingest/internal/platform/externalapi/twelvedata/dto"
)

// TwelveDataSource はTwelve Data外部APIから銘柄情報と日足を取得するSource実装です。
type TwelveDataSource struct {
	cfg    Config
	client *http.Client
}

// TwelveDataSourceがSourceを実装していることをコンパイル時に検証します。
var _ usecase.Source = (*TwelveDataSource)(nil)

// NewTwelveDataSource は指定された設定とHTTPクライアントでTwelveDataSourceの新しいインスタンスを生成します。
func NewTwelveDataSource(cfg Config, client *http.Client) *TwelveDataSource {
	if cfg.OutputSize <= 0 {
		cfg.OutputSize = defaultOutputSize
	}
	return &TwelveDataSource{cfg: cfg, client: client}
}

// Fetch は対象銘柄の記述情報と日足をまとめて取得します。
// 記述情報の取得に失敗した場合は time_series のメタ情報だけで続行します。
func (t *TwelveDataSource) Fetch(ctx context.Context, target entity.Target) (entity.SourceRecord, error) {
	var (
		fields map[string]string
		err    error
	)
	if target.Category == instentity.CategoryFund {
		fields, err = t.GetFundSummary(ctx, target.Symbol)
	} else {
		fields, err = t.GetProfile(ctx, target.Symbol)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return entity.SourceRecord{}, ctxErr
		}
		slog.Warn("failed to fetch descriptive fields, using time_series meta", "symbol", target.Symbol, "error", err)
		fields = map[string]string{"symbol": target.Symbol}
	}

	series, err := t.GetTimeSeries(ctx, target.Symbol, "1day", t.cfg.OutputSize)
	if err != nil {
		return entity.SourceRecord{}, err
	}
	// プロファイルにない通貨・取引所はメタ情報で補完します。
	for k, v := range series.meta {
		if fields[k] == "" && v != "" {
			fields[k] = v
		}
	}

	return entity.SourceRecord{
		Record:       instentity.Record{Category: target.Category, Fields: fields},
		Observations: series.Observations,
	}, nil
}

// GetProfile は株式の企業プロファイルを取得します。
func (t *TwelveDataSource) GetProfile(ctx context.Context, symbol string) (map[string]string, error) {
	var body dto.ProfileResponse
	if err := t.get(ctx, "profile", url.Values{"symbol": {symbol}}, &body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}
	return compact(map[string]string{
		"symbol":   firstNonEmpty(body.Symbol, symbol),
		"name":     body.Name,
		"exchange": body.Exchange,
		"sector":   body.Sector,
		"industry": body.Industry,
		"website":  body.Website,
		"country":  body.Country,
	}), nil
}

// GetFundSummary は投資信託のサマリーを取得します。
func (t *TwelveDataSource) GetFundSummary(ctx context.Context, symbol string) (map[string]string, error) {
	var body dto.FundSummaryResponse
	if err := t.get(ctx, "mutual_funds/world/summary", url.Values{"symbol": {symbol}}, &body); err != nil {
		return nil, err
	}
	if body.Status == "error" {
		return nil, fmt.Errorf("twelvedata: %s", body.Message)
	}
	s := body.MutualFund.Summary
	return compact(map[string]string{
		"symbol":           firstNonEmpty(s.Symbol, symbol),
		"name":             s.Name,
		"fund_family":      s.FundFamily,
		"fund_type":        s.FundType,
		"currency":         s.Currency,
		"share_class_size": s.ShareClassSize,
		"exchange":         s.Exchange,
		"net_assets":       s.NetAssets.String(),
		"nav":              s.NAV.String(),
	}), nil
}

// TimeSeries は time_series の結果です。
type TimeSeries struct {
	Observations []histentity.Observation
	meta         map[string]string
}

// GetTimeSeries はTwelve Data APIから時系列株価データを取得し、Observationのスライスとして返します。
// 空の数値はNULL、出来高の欠落はnilとして扱います。
// 不正な値を含むバーはRejectされた行として返し、他のバーには影響しません。
func (t *TwelveDataSource) GetTimeSeries(ctx context.Context, symbol, interval string, outputsize int) (TimeSeries, error) {
	q := url.Values{}
	// クエリパラメータを追加
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("outputsize", strconv.Itoa(outputsize))

	var body dto.TimeSeriesResponse
	if err := t.get(ctx, "time_series", q, &body); err != nil {
		return TimeSeries{}, err
	}
	if body.Status == "error" {
		return TimeSeries{}, fmt.Errorf("twelvedata: %s", body.Message)
	}

	rows := make([]histentity.Observation, 0, len(body.Values))
	for _, v := range body.Values {
		rows = append(rows, parseBar(v))
	}
	return TimeSeries{
		Observations: rows,
		meta: map[string]string{
			"symbol":   body.Meta.Symbol,
			"currency": body.Meta.Currency,
			"exchange": body.Meta.Exchange,
		},
	}, nil
}

// parseBar は1本のバーをObservationに変換します。
func parseBar(v dto.TimeSeriesValue) histentity.Observation {
	var row histentity.Observation
	// タイムスタンプをパース
	tm, err := time.Parse("2006-01-02 15:04:05", v.Datetime)
	if err != nil {
		tm, err = time.Parse(histentity.DateLayout, v.Datetime)
	}
	if err != nil {
		row.Reject("datetime", fmt.Sprintf("parse %q: not a date", v.Datetime))
	} else {
		row.Date = histentity.Day(tm)
	}

	for _, f := range []struct {
		name string
		raw  string
		dst  *decimal.NullDecimal
	}{
		{"open", v.Open, &row.Open},
		{"high", v.High, &row.High},
		{"low", v.Low, &row.Low},
		{"close", v.Close, &row.Close},
	} {
		d, err := parseDecimal(f.raw)
		if err != nil {
			row.Reject(f.name, fmt.Sprintf("parse %q: %v", f.raw, err))
			continue
		}
		*f.dst = d
	}

	// 出来高をパース
	if s := strings.TrimSpace(v.Volume); s != "" {
		vol64, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			row.Reject("volume", fmt.Sprintf("parse %q: not an integer", v.Volume))
		} else {
			row.Volume = &vol64
		}
	}
	return row
}

// get はエンドポイントを呼び出してJSONをoutにデコードします。
func (t *TwelveDataSource) get(ctx context.Context, path string, q url.Values, out any) error {
	q.Set("apikey", t.cfg.TwelveDataAPIKey)

	// URLを生成
	u := fmt.Sprintf("%s/%s?%s", strings.TrimRight(t.cfg.BaseURL, "/"), path, q.Encode())

	// リクエストオブジェクトを作成
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return err
	}

	// リクエストを実行
	res, err := t.client.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("twelvedata http %d", res.StatusCode)
	}

	// JSONレスポンスをDTOにデコード
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}

var errNotNumeric = errors.New("not a number")

func parseDecimal(raw string) (decimal.NullDecimal, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return decimal.NullDecimal{}, nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.NullDecimal{}, errNotNumeric
	}
	return decimal.NewNullDecimal(d), nil
}

func compact(m map[string]string) map[string]string {
	for k, v := range m {
		if v == "" {
			delete(m, k)
		}
	}
	return m
}

func firstNonEmpty(vs ...string) string {
	for _, v := range vs {
		if v != "" {
			return v
		}
	}
	return ""
}
