// Package csvsource reads instrument profiles and daily history from CSV exports.
//
// The profiles file has a header row whose column names are passed through as
// record fields (e.g. "ticker", "company name", "market cap"), so the field
// mapping of the instruments feature decides what they mean. The history file
// has the columns symbol,date,open,high,low,close,volume,dividends,stock_splits.
package csvsource

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	histentity "stock_ingest/internal/feature/history/domain/entity"
	"stock_ingest/internal/feature/ingest/domain/entity"
	"stock_ingest/internal/feature/ingest/usecase"
	instentity "stock_ingest/internal/feature/instruments/domain/entity"
	instusecase "stock_ingest/internal/feature/instruments/usecase"
)

var _ usecase.Source = (*Source)(nil)

// ErrUnknownSymbol is returned by Fetch for a symbol not present in either file.
var ErrUnknownSymbol = errors.New("csvsource: unknown symbol")

// Source serves records loaded from CSV files.
type Source struct {
	category instentity.Category
	records  []entity.SourceRecord
	index    map[string]int // normalized symbol -> records index
}

// Open reads both files into memory. historyPath may be empty.
// A history row with a malformed number is kept as a rejected observation and an
// empty or unparsable date becomes a missing date; the loader reports both per row.
func Open(profilesPath, historyPath string, category instentity.Category) (*Source, error) {
	s := &Source{category: category, index: map[string]int{}}

	if profilesPath != "" {
		f, err := os.Open(profilesPath)
		if err != nil {
			return nil, fmt.Errorf("open profiles: %w", err)
		}
		defer f.Close()
		if err := s.readProfiles(f); err != nil {
			return nil, fmt.Errorf("%s: %w", profilesPath, err)
		}
	}

	if historyPath != "" {
		f, err := os.Open(historyPath)
		if err != nil {
			return nil, fmt.Errorf("open history: %w", err)
		}
		defer f.Close()
		if err := s.readHistory(f); err != nil {
			return nil, fmt.Errorf("%s: %w", historyPath, err)
		}
	}
	return s, nil
}

// Records returns every record in file order, including rows without a symbol.
func (s *Source) Records() []entity.SourceRecord {
	return s.records
}

// Targets lists the symbols of the loaded records in file order.
func (s *Source) Targets() []entity.Target {
	targets := make([]entity.Target, 0, len(s.index))
	for _, rec := range s.records {
		if sym := instusecase.RecordSymbol(rec.Record); sym != "" {
			targets = append(targets, entity.Target{Symbol: sym, Category: rec.Record.Category})
		}
	}
	return targets
}

// Fetch returns the loaded record for target.
func (s *Source) Fetch(ctx context.Context, target entity.Target) (entity.SourceRecord, error) {
	if err := ctx.Err(); err != nil {
		return entity.SourceRecord{}, err
	}
	i, ok := s.index[instusecase.NormalizeSymbol(target.Symbol)]
	if !ok {
		return entity.SourceRecord{}, fmt.Errorf("%w: %q", ErrUnknownSymbol, target.Symbol)
	}
	return s.records[i], nil
}

func (s *Source) readProfiles(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	for i := range header {
		header[i] = strings.TrimSpace(strings.TrimPrefix(header[i], "\ufeff"))
	}

	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read csv: %w", err)
		}
		fields := make(map[string]string, len(header))
		for i, v := range row {
			if i < len(header) && header[i] != "" {
				fields[header[i]] = strings.TrimSpace(v)
			}
		}
		rec := instentity.Record{Category: s.category, Fields: fields}
		s.records = append(s.records, entity.SourceRecord{Record: rec})
		if sym := instusecase.RecordSymbol(rec); sym != "" {
			if _, dup := s.index[sym]; !dup {
				s.index[sym] = len(s.records) - 1
			}
		}
	}
}

// historyColumns are the accepted header names per history column.
var historyColumns = map[string][]string{
	"symbol":       {"symbol", "ticker"},
	"date":         {"date", "datetime"},
	"open":         {"open"},
	"high":         {"high"},
	"low":          {"low"},
	"close":        {"close"},
	"volume":       {"volume"},
	"dividends":    {"dividends"},
	"stock_splits": {"stock_splits", "stock splits"},
}

func (s *Source) readHistory(r io.Reader) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return fmt.Errorf("read header: %w", err)
	}
	pos := map[string]int{}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		for col, aliases := range historyColumns {
			for _, a := range aliases {
				if h == a {
					pos[col] = i
				}
			}
		}
	}
	if _, ok := pos["symbol"]; !ok {
		return errors.New("history header has no symbol column")
	}

	line := 1
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to read csv: %w", err)
		}
		line++

		get := func(col string) string {
			i, ok := pos[col]
			if !ok || i >= len(row) {
				return ""
			}
			return strings.TrimSpace(row[i])
		}

		sym := instusecase.NormalizeSymbol(get("symbol"))
		if sym == "" {
			continue
		}
		obs := parseObservation(get)
		if obs.Invalid != nil {
			obs.Invalid.Reason = fmt.Sprintf("line %d: %s", line, obs.Invalid.Reason)
		}

		i, ok := s.index[sym]
		if !ok {
			// プロファイルのない銘柄はシンボルだけのレコードとして扱う
			s.records = append(s.records, entity.SourceRecord{
				Record: instentity.Record{Category: s.category, Fields: map[string]string{"symbol": sym}},
			})
			i = len(s.records) - 1
			s.index[sym] = i
		}
		s.records[i].Observations = append(s.records[i].Observations, obs)
	}
}

var dateLayouts = []string{histentity.DateLayout, "2006-01-02 15:04:05", time.RFC3339, "2006/01/02"}

// parseObservation は1行を日足に変換します。
// 数値として解釈できない列があれば行をRejectし、残りの列はそのまま読みます。
func parseObservation(get func(string) string) histentity.Observation {
	var obs histentity.Observation
	if raw := get("date"); raw != "" {
		for _, layout := range dateLayouts {
			if t, err := time.Parse(layout, raw); err == nil {
				obs.Date = histentity.Day(t)
				break
			}
		}
	}

	for _, col := range []struct {
		name string
		dst  *decimal.NullDecimal
	}{
		{"open", &obs.Open},
		{"high", &obs.High},
		{"low", &obs.Low},
		{"close", &obs.Close},
		{"dividends", &obs.Dividends},
		{"stock_splits", &obs.StockSplits},
	} {
		raw := get(col.name)
		if raw == "" {
			continue
		}
		d, err := decimal.NewFromString(raw)
		if err != nil {
			obs.Reject(col.name, fmt.Sprintf("parse %q: not a number", raw))
			continue
		}
		*col.dst = decimal.NewNullDecimal(d)
	}

	if raw := get("volume"); raw != "" {
		d, err := decimal.NewFromString(raw)
		if err != nil || !d.IsInteger() {
			obs.Reject("volume", fmt.Sprintf("parse %q: not an integer", raw))
		} else {
			v := d.IntPart()
			obs.Volume = &v
		}
	}
	return obs
}
