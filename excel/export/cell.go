package export

import (
	"fmt"
	"reflect"
	"time"

	"github.com/spf13/cast"
	"google.golang.org/genproto/googleapis/type/date"
)

// Labeler 枚举类型需要提供导出时显示的标签
type Labeler interface {
	Label() string
}

// Cell 已确定类型和格式的单元格
type Cell struct {
	Kind   Kind
	Value  any // string, float64 或 time.Time
	Format string
}

// ColumnCell 单元格及其所在列，第0列为行号
type ColumnCell struct {
	Col  int
	Cell Cell
}

func TextCell(s string) Cell {
	return Cell{Kind: KindText, Value: s}
}

func NumberCell(f float64) Cell {
	return Cell{Kind: KindNumber, Value: f, Format: NumberFormat}
}

func DateTimeCell(t time.Time) Cell {
	return Cell{Kind: KindDateTime, Value: t, Format: DateTimeFormat}
}

// DateCell 只取t的年月日
func DateCell(t time.Time) Cell {
	y, m, d := t.Date()
	return Cell{Kind: KindDate, Value: time.Date(y, m, d, 0, 0, 0, 0, time.UTC), Format: DateFormat}
}

func EnumCell(label string) Cell {
	return Cell{Kind: KindEnum, Value: label}
}

func FallbackCell(s string) Cell {
	return Cell{Kind: KindFallback, Value: s}
}

// emptyCell 空值占位，保证每个声明的列都有单元格
func emptyCell() Cell {
	return TextCell("")
}

// Text 单元格的文本形式，csv导出使用
func (c Cell) Text() string {
	switch v := c.Value.(type) {
	case time.Time:
		if c.Kind == KindDate {
			return v.Format(dateLayout)
		}
		return v.Format(dateTimeLayout)
	default:
		return cast.ToString(v)
	}
}

// IsEmpty 是否是空值占位
func (c Cell) IsEmpty() bool {
	return c.Kind == KindText && c.Value == ""
}

// Classify 按值的实际类型生成单元格，依次判断：
// 文本、数字、日期时间、日期、枚举，都不是则使用默认文本表示。
// 声明了 Label 的具名类型按枚举处理，不会被当作数字或文本。
func Classify(v any) Cell {
	if isNil(v) {
		return emptyCell()
	}
	switch val := v.(type) {
	case string:
		return TextCell(val)
	case []byte:
		return TextCell(string(val))
	case time.Time:
		return timeCell(val, KindDateTime)
	case *time.Time:
		return timeCell(*val, KindDateTime)
	case *date.Date:
		return protoDateCell(val)
	case date.Date:
		return protoDateCell(&val)
	case Labeler:
		return EnumCell(val.Label())
	}
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return emptyCell()
		}
		rv = rv.Elem()
	}
	if l, ok := rv.Interface().(Labeler); ok {
		return EnumCell(l.Label())
	}
	switch rv.Kind() {
	case reflect.String:
		return TextCell(rv.String())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return NumberCell(float64(rv.Int()))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return NumberCell(float64(rv.Uint()))
	case reflect.Float32, reflect.Float64:
		return NumberCell(rv.Float())
	}
	return FallbackCell(fmt.Sprint(rv.Interface()))
}

// timeCell 零值时间视为空
func timeCell(t time.Time, kind Kind) Cell {
	if t.IsZero() {
		return emptyCell()
	}
	if kind == KindDate {
		return DateCell(t)
	}
	return DateTimeCell(t)
}

func protoDateCell(d *date.Date) Cell {
	if d == nil || (d.GetYear() == 0 && d.GetMonth() == 0 && d.GetDay() == 0) {
		return emptyCell()
	}
	return DateCell(time.Date(int(d.GetYear()), time.Month(d.GetMonth()), int(d.GetDay()), 0, 0, 0, 0, time.UTC))
}

func isNil(v any) bool {
	if v == nil {
		return true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
