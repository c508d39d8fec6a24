package domain

import "errors"

var (
	// ErrEmptyCode は銘柄コードが空の場合のエラーです。
	ErrEmptyCode = errors.New("symbol code must not be empty")
	// ErrInvalidCategory はカテゴリがstock/fund以外の場合のエラーです。
	ErrInvalidCategory = errors.New("category must be stock or fund")
)
