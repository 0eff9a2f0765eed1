package export

import (
	"time"

	"golang.org/x/exp/constraints"
	"google.golang.org/genproto/googleapis/type/date"
)

// Column 导出列：显示名、列序号，以及从记录中取值并生成单元格的方法。
// 单元格类型在构造列时确定。
type Column[T any] struct {
	Index int    // 列序号，从0开始，表格中位于 Index+1 列（第0列是行号）
	Name  string // 表头显示名
	Kind  Kind
	cell  func(T) Cell
}

// Cell 从记录v生成该列的单元格
func (c Column[T]) Cell(v T) Cell {
	return c.cell(v)
}

func Text[T any](index int, name string, get func(T) string) Column[T] {
	return newColumn(index, name, KindText, get, func(s string) Cell {
		return TextCell(s)
	})
}

func TextPtr[T any](index int, name string, get func(T) *string) Column[T] {
	return newColumn(index, name, KindText, get, func(s *string) Cell {
		if s == nil {
			return emptyCell()
		}
		return TextCell(*s)
	})
}

// Number 数字列，以float64写入，显示格式为 #,##0
func Number[T any, N constraints.Integer | constraints.Float](index int, name string, get func(T) N) Column[T] {
	return newColumn(index, name, KindNumber, get, func(n N) Cell {
		return NumberCell(float64(n))
	})
}

func NumberPtr[T any, N constraints.Integer | constraints.Float](index int, name string, get func(T) *N) Column[T] {
	return newColumn(index, name, KindNumber, get, func(n *N) Cell {
		if n == nil {
			return emptyCell()
		}
		return NumberCell(float64(*n))
	})
}

// DateTime 日期时间列，零值时间写为空
func DateTime[T any](index int, name string, get func(T) time.Time) Column[T] {
	return newColumn(index, name, KindDateTime, get, func(t time.Time) Cell {
		return timeCell(t, KindDateTime)
	})
}

func DateTimePtr[T any](index int, name string, get func(T) *time.Time) Column[T] {
	return newColumn(index, name, KindDateTime, get, func(t *time.Time) Cell {
		if t == nil {
			return emptyCell()
		}
		return timeCell(*t, KindDateTime)
	})
}

// Date 日期列，不含时间
func Date[T any](index int, name string, get func(T) *date.Date) Column[T] {
	return newColumn(index, name, KindDate, get, protoDateCell)
}

// DateOf 取time.Time的日期部分作为日期列
func DateOf[T any](index int, name string, get func(T) time.Time) Column[T] {
	return newColumn(index, name, KindDate, get, func(t time.Time) Cell {
		return timeCell(t, KindDate)
	})
}

// Enum 枚举列，写入 Label() 的返回值
func Enum[T any, E Labeler](index int, name string, get func(T) E) Column[T] {
	return newColumn(index, name, KindEnum, get, func(e E) Cell {
		if isNil(e) {
			return emptyCell()
		}
		return EnumCell(e.Label())
	})
}

// EnumFunc 枚举列，标签由label给出
func EnumFunc[T any, E any](index int, name string, get func(T) E, label func(E) string) Column[T] {
	if label == nil {
		return Column[T]{Index: index, Name: name, Kind: KindEnum}
	}
	return newColumn(index, name, KindEnum, get, func(e E) Cell {
		if isNil(e) {
			return emptyCell()
		}
		return EnumCell(label(e))
	})
}

// Value 动态列，写入时按值的实际类型判定单元格类型，见 Classify
func Value[T any](index int, name string, get func(T) any) Column[T] {
	return newColumn(index, name, KindValue, get, Classify)
}

func newColumn[T, V any](index int, name string, kind Kind, get func(T) V, toCell func(V) Cell) Column[T] {
	c := Column[T]{Index: index, Name: name, Kind: kind}
	if get != nil {
		c.cell = func(v T) Cell {
			return toCell(get(v))
		}
	}
	return c
}
