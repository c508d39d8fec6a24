// Package usecase implements the business logic for the ingest watchlist.
package usecase

import (
	"context"
	"strings"

	"stock_ingest/internal/feature/symbollist/domain"
	"stock_ingest/internal/feature/symbollist/domain/entity"
)

// SymbolRepository abstracts the persistence layer for watchlist entries.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type SymbolRepository interface {
	ListActive(ctx context.Context) ([]entity.Symbol, error)
	ListActiveCodes(ctx context.Context, category string) ([]string, error)
	Upsert(ctx context.Context, s *entity.Symbol) error
}

// SymbolUsecase provides business logic for watchlist operations.
type SymbolUsecase struct {
	repo SymbolRepository
}

// NewSymbolUsecase creates a new SymbolUsecase with the given repository.
func NewSymbolUsecase(r SymbolRepository) *SymbolUsecase {
	return &SymbolUsecase{repo: r}
}

// ListActiveSymbols returns all active watchlist entries.
func (u *SymbolUsecase) ListActiveSymbols(ctx context.Context) ([]entity.Symbol, error) {
	return u.repo.ListActive(ctx)
}

// ListActiveCodes returns the active codes of one category in sort_key order.
func (u *SymbolUsecase) ListActiveCodes(ctx context.Context, category string) ([]string, error) {
	return u.repo.ListActiveCodes(ctx, category)
}

// Add registers code in the watchlist, or reactivates and renames an existing entry.
// An empty category means stock. An empty name defaults to the code.
func (u *SymbolUsecase) Add(ctx context.Context, code, category, name string, sortKey int) (*entity.Symbol, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.ErrEmptyCode
	}
	category = strings.ToLower(strings.TrimSpace(category))
	switch category {
	case "":
		category = "stock"
	case "stock", "fund":
	default:
		return nil, domain.ErrInvalidCategory
	}
	if strings.TrimSpace(name) == "" {
		name = code
	}

	s := &entity.Symbol{Code: code, Category: category, Name: name, IsActive: true, SortKey: sortKey}
	if err := u.repo.Upsert(ctx, s); err != nil {
		return nil, err
	}
	return s, nil
}
