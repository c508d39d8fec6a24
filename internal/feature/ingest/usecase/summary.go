package usecase

import (
	"sort"
	"sync"

	"github.com/google/uuid"

	histusecase "stock_ingest/internal/feature/history/usecase"
	instentity "stock_ingest/internal/feature/instruments/domain/entity"
	"stock_ingest/internal/shared/apperr"
)

// Failure is one per-record or per-row failure of a run.
type Failure struct {
	Symbol   string `json:"symbol"`
	Category string `json:"category"`
	Date     string `json:"date,omitempty"` // set for observation failures
	Kind     string `json:"kind"`
	Error    string `json:"error"`
}

// CategoryCounts is the per-category part of a Summary.
type CategoryCounts struct {
	EntitiesResolved     int `json:"entities_resolved"`
	EntitiesFailed       int `json:"entities_failed"`
	ObservationsInserted int `json:"observations_inserted"`
	ObservationsSkipped  int `json:"observations_skipped"`
	ObservationsFailed   int `json:"observations_failed"`
}

// Summary aggregates the outcome of a run.
type Summary struct {
	RunID string `json:"run_id"`
	CategoryCounts
	FailuresByKind map[string]int                         `json:"failures_by_kind"`
	ByCategory     map[instentity.Category]*CategoryCounts `json:"by_category"`
	Failures       []Failure                              `json:"failures"`
}

func newSummary() Summary {
	return Summary{
		RunID:          uuid.NewString(),
		FailuresByKind: map[string]int{},
		ByCategory:     map[instentity.Category]*CategoryCounts{},
		Failures:       []Failure{},
	}
}

// Succeeded reports whether the run recorded no failure at all.
func (s Summary) Succeeded() bool {
	return s.EntitiesFailed == 0 && s.ObservationsFailed == 0
}

func (s *Summary) category(c instentity.Category) *CategoryCounts {
	cc, ok := s.ByCategory[c]
	if !ok {
		cc = &CategoryCounts{}
		s.ByCategory[c] = cc
	}
	return cc
}

func (s *Summary) entityFailed(symbol string, c instentity.Category, err error) {
	s.EntitiesFailed++
	s.category(c).EntitiesFailed++
	kind := apperr.Kind(err)
	s.FailuresByKind[kind]++
	s.Failures = append(s.Failures, Failure{Symbol: symbol, Category: string(c), Kind: kind, Error: err.Error()})
}

func (s *Summary) entityLoaded(symbol string, c instentity.Category, rep histusecase.LoadReport) {
	s.EntitiesResolved++
	cc := s.category(c)
	cc.EntitiesResolved++

	s.ObservationsInserted += rep.Inserted
	s.ObservationsSkipped += rep.Skipped
	s.ObservationsFailed += rep.Failed
	cc.ObservationsInserted += rep.Inserted
	cc.ObservationsSkipped += rep.Skipped
	cc.ObservationsFailed += rep.Failed

	for _, re := range rep.Errors {
		kind := apperr.Kind(re.Err)
		s.FailuresByKind[kind]++
		s.Failures = append(s.Failures, Failure{Symbol: symbol, Category: string(c), Date: re.Date, Kind: kind, Error: re.Err.Error()})
	}
}

// Categories returns the categories present in the summary in stable order.
func (s Summary) Categories() []instentity.Category {
	out := make([]instentity.Category, 0, len(s.ByCategory))
	for c := range s.ByCategory {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// collector はgoroutineセーフにSummaryへ集計します。
type collector struct {
	mu sync.Mutex
	s  Summary
}

func (c *collector) failed(symbol string, cat instentity.Category, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.entityFailed(symbol, cat, err)
}

func (c *collector) loaded(symbol string, cat instentity.Category, rep histusecase.LoadReport) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.s.entityLoaded(symbol, cat, rep)
}
