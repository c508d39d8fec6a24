// Package adapters はinstrumentsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"stock_ingest/internal/feature/instruments/domain"
	"stock_ingest/internal/feature/instruments/domain/entity"
	"stock_ingest/internal/feature/instruments/usecase"
	"stock_ingest/internal/shared/apperr"
)

// instrumentGorm はInstrumentRepositoryインターフェースのGORM実装です。
type instrumentGorm struct {
	db *gorm.DB
}

var _ usecase.InstrumentRepository = (*instrumentGorm)(nil)

// NewInstrumentRepository は指定されたDB接続でinstrumentGormリポジトリの新しいインスタンスを生成します。
func NewInstrumentRepository(db *gorm.DB) *instrumentGorm {
	return &instrumentGorm{db: db}
}

// InstrumentModel は instruments テーブルの行です。(category, symbol) が業務キーです。
type InstrumentModel struct {
	ID       uint   `gorm:"primaryKey"`
	Category string `gorm:"size:16;not null;uniqueIndex:instrument_cat_sym,priority:1"`
	Symbol   string `gorm:"size:32;not null;uniqueIndex:instrument_cat_sym,priority:2"`

	Name      *string             `gorm:"size:255"`
	ShortName *string             `gorm:"size:128"`
	Sector    *string             `gorm:"size:128"`
	Industry  *string             `gorm:"size:128"`
	Exchange  *string             `gorm:"size:64"`
	Country   *string             `gorm:"size:64"`
	Currency  *string             `gorm:"size:8"`
	Website   *string             `gorm:"size:255"`
	MarketCap decimal.NullDecimal `gorm:"type:decimal(24,2)"`

	FundCategory   *string             `gorm:"size:128"`
	InvestmentType *string             `gorm:"size:64"`
	SizeType       *string             `gorm:"size:64"`
	NetAssets      decimal.NullDecimal `gorm:"type:decimal(24,2)"`
	NetAssetValue  decimal.NullDecimal `gorm:"type:decimal(20,6)"`

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (InstrumentModel) TableName() string {
	return "instruments"
}

func toModel(e entity.Instrument) InstrumentModel {
	return InstrumentModel{
		Category:       string(e.Category),
		Symbol:         e.Symbol,
		Name:           e.Name,
		ShortName:      e.ShortName,
		Sector:         e.Sector,
		Industry:       e.Industry,
		Exchange:       e.Exchange,
		Country:        e.Country,
		Currency:       e.Currency,
		Website:        e.Website,
		MarketCap:      e.MarketCap,
		FundCategory:   e.FundCategory,
		InvestmentType: e.InvestmentType,
		SizeType:       e.SizeType,
		NetAssets:      e.NetAssets,
		NetAssetValue:  e.NetAssetValue,
	}
}

func toEntity(m InstrumentModel) *entity.Instrument {
	return &entity.Instrument{
		ID:             m.ID,
		Category:       entity.Category(m.Category),
		Symbol:         m.Symbol,
		Name:           m.Name,
		ShortName:      m.ShortName,
		Sector:         m.Sector,
		Industry:       m.Industry,
		Exchange:       m.Exchange,
		Country:        m.Country,
		Currency:       m.Currency,
		Website:        m.Website,
		MarketCap:      m.MarketCap,
		FundCategory:   m.FundCategory,
		InvestmentType: m.InvestmentType,
		SizeType:       m.SizeType,
		NetAssets:      m.NetAssets,
		NetAssetValue:  m.NetAssetValue,
	}
}

// Upsert は1文のINSERT ... ON CONFLICTで銘柄を登録し、既存の場合はupdateColumnsのみ上書きします。
// その後、業務キーでIDを引き直して返します。
func (r *instrumentGorm) Upsert(ctx context.Context, inst *entity.Instrument, updateColumns []string) (uint, error) {
	m := toModel(*inst)

	cols := make([]string, 0, len(updateColumns)+1)
	cols = append(cols, updateColumns...)
	cols = append(cols, "updated_at")

	if err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "category"}, {Name: "symbol"}},
		DoUpdates: clause.AssignmentColumns(cols),
	}).Create(&m).Error; err != nil {
		return 0, apperr.NewPersistence("upsert instrument", err)
	}

	var row InstrumentModel
	if err := r.db.WithContext(ctx).
		Select("id").
		Where("category = ? AND symbol = ?", m.Category, m.Symbol).
		Take(&row).Error; err != nil {
		return 0, apperr.NewPersistence("lookup instrument id", err)
	}
	inst.ID = row.ID
	return row.ID, nil
}

// FindBySymbol は業務キーで銘柄を検索します。見つからない場合は domain.ErrInstrumentNotFound を返します。
func (r *instrumentGorm) FindBySymbol(ctx context.Context, category entity.Category, symbol string) (*entity.Instrument, error) {
	var m InstrumentModel
	err := r.db.WithContext(ctx).
		Where("category = ? AND symbol = ?", string(category), symbol).
		Take(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, domain.ErrInstrumentNotFound
	}
	if err != nil {
		return nil, apperr.NewPersistence("find instrument", err)
	}
	return toEntity(m), nil
}
