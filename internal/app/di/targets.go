package di

import (
	"context"
	"fmt"
	"strings"

	"stock_ingest/internal/feature/ingest/domain/entity"
	instentity "stock_ingest/internal/feature/instruments/domain/entity"
)

// WatchlistCodes lists the active watchlist codes of one category.
type WatchlistCodes interface {
	ListActiveCodes(ctx context.Context, category string) ([]string, error)
}

// ParseTargets converts configured symbols into targets.
// An entry may carry its category as a prefix ("fund:VFIAX"); otherwise def is used.
func ParseTargets(symbols []string, def instentity.Category) ([]entity.Target, error) {
	targets := make([]entity.Target, 0, len(symbols))
	for _, s := range symbols {
		cat := def
		if prefix, sym, ok := strings.Cut(s, ":"); ok {
			c, valid := instentity.ParseCategory(strings.ToLower(strings.TrimSpace(prefix)), def)
			if !valid {
				return nil, fmt.Errorf("symbol %q: unknown category %q", s, prefix)
			}
			cat, s = c, sym
		}
		if s = strings.TrimSpace(s); s != "" {
			targets = append(targets, entity.Target{Symbol: s, Category: cat})
		}
	}
	return targets, nil
}

// WatchlistTargets lists the active watchlist entries of every category.
func WatchlistTargets(ctx context.Context, wl WatchlistCodes) ([]entity.Target, error) {
	var targets []entity.Target
	for _, cat := range []instentity.Category{instentity.CategoryStock, instentity.CategoryFund} {
		codes, err := wl.ListActiveCodes(ctx, string(cat))
		if err != nil {
			return nil, fmt.Errorf("list %s watchlist: %w", cat, err)
		}
		for _, code := range codes {
			targets = append(targets, entity.Target{Symbol: code, Category: cat})
		}
	}
	return targets, nil
}
