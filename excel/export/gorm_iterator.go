package export

import (
	"context"

	"github.com/opdss/excelcol/iterator"
	"gorm.io/gorm"
)

// NewGormIterator 按offset/limit分页读取tx查询结果的迭代器，T 不能是指针。
// tx 需要带上稳定的排序，否则分页结果可能重复或遗漏。
func NewGormIterator[T any](tx *gorm.DB, opts ...iterator.PageQueryIteratorOption[T]) *iterator.PageQueryIterator[T] {
	return iterator.NewPageQueryIterator(func(ctx context.Context, offset, limit int) ([]T, error) {
		res := make([]T, 0, limit)
		err := tx.WithContext(ctx).Offset(offset).Limit(limit).Find(&res).Error
		return res, err
	}, opts...)
}

// NewSqlIterator 分页读取原生sql的查询结果
func NewSqlIterator[T any](db *gorm.DB, selectSql string, args ...any) *iterator.PageQueryIterator[T] {
	return iterator.NewPageQueryIterator(func(ctx context.Context, offset, limit int) ([]T, error) {
		res := make([]T, 0, limit)
		params := append(append(make([]any, 0, len(args)+2), args...), limit, offset)
		err := db.WithContext(ctx).Raw(selectSql+" LIMIT ? OFFSET ?", params...).Scan(&res).Error
		return res, err
	})
}
