package export

import (
	"fmt"
	"sort"
)

// Schema 一种记录类型的导出列定义，按列序号排序。
// 列序号重复时后声明的列生效。
type Schema[T any] struct {
	columns []Column[T]
}

// NewSchema 由显式声明的列创建导出定义
func NewSchema[T any](cols ...Column[T]) (*Schema[T], error) {
	byIndex := make(map[int]Column[T], len(cols))
	for i, c := range cols {
		if c.Name == "" {
			return nil, columnErr("column #%d has no name", i)
		}
		if c.Index < 0 {
			return nil, columnErr("column %q has negative index %d", c.Name, c.Index)
		}
		if c.cell == nil {
			if c.Kind == KindEnum {
				return nil, Error.Wrap(fmt.Errorf("%w: column %q", ErrEnumLabel, c.Name))
			}
			return nil, columnErr("column %q has no accessor", c.Name)
		}
		byIndex[c.Index] = c
	}
	s := &Schema[T]{columns: make([]Column[T], 0, len(byIndex))}
	for _, c := range byIndex {
		s.columns = append(s.columns, c)
	}
	sort.Slice(s.columns, func(i, j int) bool {
		return s.columns[i].Index < s.columns[j].Index
	})
	return s, nil
}

// MustSchema 同 NewSchema，出错时panic，用于包级变量初始化
func MustSchema[T any](cols ...Column[T]) *Schema[T] {
	s, err := NewSchema(cols...)
	if err != nil {
		panic(err)
	}
	return s
}

// Columns 按列序号排序的导出列
func (s *Schema[T]) Columns() []Column[T] {
	res := make([]Column[T], len(s.columns))
	copy(res, s.columns)
	return res
}

// Headers 列序号到表头名的映射
func (s *Schema[T]) Headers() map[int]string {
	res := make(map[int]string, len(s.columns))
	for _, c := range s.columns {
		res[c.Index] = c.Name
	}
	return res
}

// Len 声明的列数量，不含行号列
func (s *Schema[T]) Len() int {
	return len(s.columns)
}

// Width 表格占用的列数，含行号列
func (s *Schema[T]) Width() int {
	if len(s.columns) == 0 {
		return 1
	}
	return s.columns[len(s.columns)-1].Index + 2
}

// HeaderRow 表头行，第0列为行号标题
func (s *Schema[T]) HeaderRow(rowNumberTitle string) []ColumnCell {
	row := make([]ColumnCell, 0, len(s.columns)+1)
	row = append(row, ColumnCell{Col: 0, Cell: TextCell(rowNumberTitle)})
	for _, c := range s.columns {
		row = append(row, ColumnCell{Col: c.Index + 1, Cell: TextCell(c.Name)})
	}
	return row
}

// Materialize 生成一条记录的单元格，第0列为从1开始的行号
func (s *Schema[T]) Materialize(rowNum int, v T) []ColumnCell {
	row := make([]ColumnCell, 0, len(s.columns)+1)
	row = append(row, ColumnCell{Col: 0, Cell: NumberCell(float64(rowNum))})
	for _, c := range s.columns {
		row = append(row, ColumnCell{Col: c.Index + 1, Cell: c.Cell(v)})
	}
	return row
}

// dense 按列位置展开，未声明的列为nil
func dense(row []ColumnCell, width int) []*Cell {
	res := make([]*Cell, width)
	for i := range row {
		if row[i].Col < width {
			res[row[i].Col] = &row[i].Cell
		}
	}
	return res
}

func columnErr(format string, args ...any) error {
	return Error.Wrap(fmt.Errorf("%w: %s", ErrColumn, fmt.Sprintf(format, args...)))
}
