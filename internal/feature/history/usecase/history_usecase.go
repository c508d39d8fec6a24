package usecase

import (
	"context"

	"stock_ingest/internal/feature/history/domain/entity"
)

const (
	// DefaultLimit はデフォルトの返却件数です。
	DefaultLimit = 200
	// MaxLimit は最大返却件数です。
	MaxLimit = 5000
)

// HistoryUsecase provides read access to stored observations.
type HistoryUsecase struct {
	repo ObservationRepository
}

// NewHistoryUsecase creates a new HistoryUsecase.
func NewHistoryUsecase(repo ObservationRepository) *HistoryUsecase {
	return &HistoryUsecase{repo: repo}
}

// Recent returns the newest observations of an instrument.
// limit outside (0, MaxLimit] falls back to DefaultLimit.
func (u *HistoryUsecase) Recent(ctx context.Context, instrumentID uint, limit int) ([]entity.Observation, error) {
	if limit <= 0 || limit > MaxLimit {
		limit = DefaultLimit
	}
	return u.repo.Recent(ctx, instrumentID, limit)
}
