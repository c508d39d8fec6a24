// Package adapters はsymbollistフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"

	"stock_ingest/internal/feature/symbollist/domain/entity"
	"stock_ingest/internal/feature/symbollist/usecase"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// symbolMySQL はSymbolRepositoryインターフェースのgorm実装です。
// MySQL/PostgreSQL/SQLiteのいずれでも動作します。
type symbolMySQL struct {
	db *gorm.DB
}

var _ usecase.SymbolRepository = (*symbolMySQL)(nil)

// NewSymbolRepository は指定されたDB接続でsymbolMySQLリポジトリの新しいインスタンスを生成します。
func NewSymbolRepository(db *gorm.DB) *symbolMySQL {
	return &symbolMySQL{db: db}
}

// ListActive はsort_key順にすべてのアクティブな銘柄を返します。
func (r *symbolMySQL) ListActive(ctx context.Context) ([]entity.Symbol, error) {
	var symbols []entity.Symbol
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Order("id ASC").
		Find(&symbols).Error; err != nil {
		return nil, err
	}
	return symbols, nil
}

// ListActiveCodes はsort_key順に指定カテゴリのアクティブな銘柄コードのみを返します。
func (r *symbolMySQL) ListActiveCodes(ctx context.Context, category string) ([]string, error) {
	var codes []string
	if err := r.db.WithContext(ctx).
		Model(&entity.Symbol{}).
		Where("is_active = ? AND category = ?", true, category).
		Order("sort_key ASC").
		Order("id ASC").
		Pluck("code", &codes).Error; err != nil {
		return nil, err
	}
	return codes, nil
}

// Upsert は(code, category)をキーに銘柄を登録します。既存の場合は名前・並び順・有効フラグを更新します。
func (r *symbolMySQL) Upsert(ctx context.Context, s *entity.Symbol) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "code"}, {Name: "category"}},
			DoUpdates: clause.AssignmentColumns([]string{"name", "is_active", "sort_key", "updated_at"}),
		}).
		Create(s).Error
}
