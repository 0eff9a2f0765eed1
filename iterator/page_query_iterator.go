package iterator

import (
	"context"
	"time"

	"github.com/opdss/excelcol/contracts/iterator"
)

var _ iterator.Iterator[any] = (*PageQueryIterator[any])(nil)

const (
	DefaultPageLimit    = 2000
	DefaultQueryTimeout = 30 * time.Second
)

type PageQueryIteratorFn[T any] func(ctx context.Context, offset, limit int) ([]T, error)

type PageQueryIteratorOption[T any] func(it *PageQueryIterator[T])

// WithPageQueryIteratorLimit 数据批量查询数量
func WithPageQueryIteratorLimit[T any](n int) PageQueryIteratorOption[T] {
	return func(it *PageQueryIterator[T]) {
		if n > 0 {
			it.limit = n
		}
	}
}

// WithPageQueryIteratorQueryTimeout 单次查询超时控制
func WithPageQueryIteratorQueryTimeout[T any](t time.Duration) PageQueryIteratorOption[T] {
	return func(it *PageQueryIterator[T]) {
		if t > 0 {
			it.queryTimeout = t
		}
	}
}

// WithPageQueryIteratorContext 查询使用的父context
func WithPageQueryIteratorContext[T any](ctx context.Context) PageQueryIteratorOption[T] {
	return func(it *PageQueryIterator[T]) {
		if ctx != nil {
			it.ctx = ctx
		}
	}
}

// PageQueryIterator 按offset/limit分页查询的迭代器，查询出错时停止并通过Err返回
type PageQueryIterator[T any] struct {
	ctx          context.Context
	offset       int
	limit        int
	done         bool
	err          error
	queryTimeout time.Duration
	page         *SliceIterator[T]
	queryFn      PageQueryIteratorFn[T]
}

func NewPageQueryIterator[T any](queryFn PageQueryIteratorFn[T], opts ...PageQueryIteratorOption[T]) *PageQueryIterator[T] {
	it := &PageQueryIterator[T]{
		ctx:          context.Background(),
		limit:        DefaultPageLimit,
		queryTimeout: DefaultQueryTimeout,
		page:         NewSliceIterator(make([]T, 0)),
		queryFn:      queryFn,
	}
	for i := range opts {
		opts[i](it)
	}
	return it
}

func (it *PageQueryIterator[T]) Next() bool {
	if it.page.Next() {
		return true
	}
	if it.done {
		return false
	}
	ctx, cancel := context.WithTimeout(it.ctx, it.queryTimeout)
	defer cancel()
	list, err := it.queryFn(ctx, it.offset, it.limit)
	if err != nil {
		it.err = err
		it.done = true
		return false
	}
	if len(list) == 0 {
		it.done = true
		return false
	}
	// 不足一页说明已经是最后一页
	if len(list) < it.limit {
		it.done = true
	}
	it.offset += len(list)
	it.page = NewSliceIterator(list)
	return it.page.Next()
}

func (it *PageQueryIterator[T]) Value() T {
	return it.page.Value()
}

func (it *PageQueryIterator[T]) Err() error {
	return it.err
}
