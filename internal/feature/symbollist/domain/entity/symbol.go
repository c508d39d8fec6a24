// Package entity defines the domain models for the symbollist feature.
package entity

import "time"

// Symbol is one entry of the ingest watchlist.
// When no symbols are configured, the ingest run loads every active entry
// in sort_key order.
type Symbol struct {
	ID        uint      `gorm:"primaryKey"`
	Code      string    `gorm:"size:32;not null;uniqueIndex:watchlist_code_cat,priority:1"`
	Category  string    `gorm:"size:16;not null;default:stock;uniqueIndex:watchlist_code_cat,priority:2"`
	Name      string    `gorm:"size:255;not null"`
	IsActive  bool      `gorm:"not null;default:true"`
	SortKey   int       `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// TableName は監視銘柄のテーブル名を返します。
func (Symbol) TableName() string { return "watchlist_symbols" }
