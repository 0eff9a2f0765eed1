package iterator

import "github.com/opdss/excelcol/contracts/iterator"

var _ iterator.Iterator[any] = (*SliceIterator[any])(nil)

// SliceIterator 按顺序遍历内存中的数组
type SliceIterator[T any] struct {
	index int
	data  []T
}

func NewSliceIterator[T any](data []T) *SliceIterator[T] {
	return &SliceIterator[T]{data: data}
}

func (it *SliceIterator[T]) Next() bool {
	return it.index < len(it.data)
}

func (it *SliceIterator[T]) Value() T {
	if it.index >= len(it.data) {
		var zero T
		return zero
	}
	v := it.data[it.index]
	it.index++
	return v
}

func (it *SliceIterator[T]) Err() error {
	return nil
}

// Len 数据总量
func (it *SliceIterator[T]) Len() int {
	return len(it.data)
}
