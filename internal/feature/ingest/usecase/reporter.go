package usecase

import (
	"context"
	"log/slog"
)

// Reporter publishes the Summary of a finished run.
type Reporter interface {
	Report(ctx context.Context, s Summary)
}

// SlogReporter writes the Summary as structured log lines.
type SlogReporter struct {
	logger *slog.Logger
}

// NewSlogReporter creates a SlogReporter. A nil logger uses slog.Default().
func NewSlogReporter(logger *slog.Logger) *SlogReporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &SlogReporter{logger: logger}
}

// Report logs totals, then one line per category, then each failure.
func (r *SlogReporter) Report(ctx context.Context, s Summary) {
	level := slog.LevelInfo
	if !s.Succeeded() {
		level = slog.LevelWarn
	}
	r.logger.Log(ctx, level, "ingest run finished",
		"run_id", s.RunID,
		"entities_resolved", s.EntitiesResolved,
		"entities_failed", s.EntitiesFailed,
		"observations_inserted", s.ObservationsInserted,
		"observations_skipped", s.ObservationsSkipped,
		"observations_failed", s.ObservationsFailed,
	)
	for _, c := range s.Categories() {
		cc := s.ByCategory[c]
		r.logger.InfoContext(ctx, "category summary",
			"run_id", s.RunID,
			"category", c,
			"entities_resolved", cc.EntitiesResolved,
			"entities_failed", cc.EntitiesFailed,
			"observations_inserted", cc.ObservationsInserted,
			"observations_skipped", cc.ObservationsSkipped,
			"observations_failed", cc.ObservationsFailed,
		)
	}
	for _, f := range s.Failures {
		r.logger.WarnContext(ctx, "ingest failure",
			"run_id", s.RunID, "symbol", f.Symbol, "category", f.Category, "date", f.Date, "kind", f.Kind, "error", f.Error)
	}
}
