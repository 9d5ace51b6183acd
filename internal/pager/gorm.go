package pager

import (
	"context"

	"gorm.io/gorm"
)

// Scope 是 GORM 后端的过滤条件，nil 表示匹配全部
type Scope = func(*gorm.DB) *gorm.DB

// GormSource 把一张表适配为 Source
type GormSource[T any] struct {
	DB    *gorm.DB
	Order string
}

func (s GormSource[T]) query(ctx context.Context, filter Scope) *gorm.DB {
	tx := s.DB.WithContext(ctx).Model(new(T))
	if filter != nil {
		tx = tx.Scopes(filter)
	}
	return tx
}

func (s GormSource[T]) Count(ctx context.Context, filter Scope) (int64, error) {
	var n int64
	err := s.query(ctx, filter).Count(&n).Error
	return n, err
}

func (s GormSource[T]) Find(ctx context.Context, filter Scope, skip, limit int64) ([]T, error) {
	tx := s.query(ctx, filter)
	if s.Order != "" {
		tx = tx.Order(s.Order)
	}
	var out []T
	if err := tx.Offset(int(skip)).Limit(int(limit)).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}
