// Package adapters はhistoryフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_ingest/internal/feature/history/domain/entity"
	"stock_ingest/internal/feature/history/usecase"
	"stock_ingest/internal/shared/apperr"
)

type observationGorm struct {
	db *gorm.DB
}

var _ usecase.ObservationRepository = (*observationGorm)(nil)

func NewObservationRepository(db *gorm.DB) *observationGorm {
	return &observationGorm{db: db}
}

// ObservationModel は observations テーブルの行です。(instrument_id, date) で一意です。
type ObservationModel struct {
	ID           uint      `gorm:"primaryKey"`
	InstrumentID uint      `gorm:"not null;uniqueIndex:observation_inst_date,priority:1"`
	Date         time.Time `gorm:"type:date;not null;uniqueIndex:observation_inst_date,priority:2"`

	Open        decimal.NullDecimal `gorm:"type:decimal(20,6)"`
	High        decimal.NullDecimal `gorm:"type:decimal(20,6)"`
	Low         decimal.NullDecimal `gorm:"type:decimal(20,6)"`
	Close       decimal.NullDecimal `gorm:"type:decimal(20,6)"`
	Volume      int64               `gorm:"not null;default:0"`
	Dividends   decimal.NullDecimal `gorm:"type:decimal(20,6)"`
	StockSplits decimal.NullDecimal `gorm:"type:decimal(20,6)"`

	CreatedAt time.Time
}

func (ObservationModel) TableName() string {
	return "observations"
}

func toModel(instrumentID uint, e entity.Observation) ObservationModel {
	var vol int64
	if e.Volume != nil {
		vol = *e.Volume
	}
	return ObservationModel{
		InstrumentID: instrumentID,
		Date:         entity.Day(e.Date),
		Open:         e.Open,
		High:         e.High,
		Low:          e.Low,
		Close:        e.Close,
		Volume:       vol,
		Dividends:    e.Dividends,
		StockSplits:  e.StockSplits,
	}
}

// InsertIgnore は ON CONFLICT DO NOTHING で一括挿入し、実際に挿入された行数を返します。
// 既存の日付の行は更新しません。
func (r *observationGorm) InsertIgnore(ctx context.Context, instrumentID uint, rows []entity.Observation) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	ms := make([]ObservationModel, 0, len(rows))
	for _, e := range rows {
		ms = append(ms, toModel(instrumentID, e))
	}

	res := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "instrument_id"}, {Name: "date"}},
		DoNothing: true,
	}).Create(&ms)
	if res.Error != nil {
		return 0, apperr.NewPersistence("insert observations", res.Error)
	}
	return int(res.RowsAffected), nil
}

// Recent は日付の降順で最大limit件の観測値を返します。
func (r *observationGorm) Recent(ctx context.Context, instrumentID uint, limit int) ([]entity.Observation, error) {
	var rows []ObservationModel
	q := r.db.WithContext(ctx).
		Where("instrument_id = ?", instrumentID).
		Order(clause.OrderByColumn{Column: clause.Column{Name: "date"}, Desc: true})
	if limit > 0 {
		q = q.Limit(limit)
	}
	if err := q.Find(&rows).Error; err != nil {
		return nil, apperr.NewPersistence("find observations", err)
	}
	out := make([]entity.Observation, 0, len(rows))
	for _, m := range rows {
		vol := m.Volume
		out = append(out, entity.Observation{
			InstrumentID: m.InstrumentID,
			Date:         m.Date,
			Open:         m.Open,
			High:         m.High,
			Low:          m.Low,
			Close:        m.Close,
			Volume:       &vol,
			Dividends:    m.Dividends,
			StockSplits:  m.StockSplits,
		})
	}
	return out, nil
}
