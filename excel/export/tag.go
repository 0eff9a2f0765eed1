package export

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
	"time"

	"google.golang.org/genproto/googleapis/type/date"
)

// TagName 导出字段的tag，格式为 `excel:"名称[,列序号][,date|enum]"`，
// 没有该tag的字段不导出。
const TagName = "excel"

var (
	labelerType   = reflect.TypeOf((*Labeler)(nil)).Elem()
	timeType      = reflect.TypeOf(time.Time{})
	protoDateType = reflect.TypeOf((*date.Date)(nil))
)

type fieldTag struct {
	name  string
	index int
	date  bool
	enum  bool
}

type fieldCellFn func(fv reflect.Value) Cell

// SchemaOf 根据结构体字段的tag生成导出定义，T 必须是结构体或结构体指针。
// 字段类型在这里一次性确定单元格类型，导出时不再判断。
func SchemaOf[T any]() (*Schema[T], error) {
	typ := reflect.TypeOf((*T)(nil)).Elem()
	isPtr := typ.Kind() == reflect.Pointer
	if isPtr {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, columnErr("%s is not a struct", typ)
	}
	cols := make([]Column[T], 0, typ.NumField())
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		tag, ok := field.Tag.Lookup(TagName)
		if !ok || tag == "-" {
			continue
		}
		if !field.IsExported() {
			return nil, columnErr("field %s.%s is not exported", typ.Name(), field.Name)
		}
		ft, err := parseFieldTag(field.Name, tag)
		if err != nil {
			return nil, err
		}
		kind, fn, err := fieldCell(field.Type, ft)
		if err != nil {
			return nil, Error.Wrap(fmt.Errorf("field %s.%s: %w", typ.Name(), field.Name, err))
		}
		fieldIdx := i
		cols = append(cols, Column[T]{
			Index: ft.index,
			Name:  ft.name,
			Kind:  kind,
			cell: func(v T) Cell {
				rv := reflect.ValueOf(v)
				if isPtr {
					if rv.IsNil() {
						return emptyCell()
					}
					rv = rv.Elem()
				}
				return fn(rv.Field(fieldIdx))
			},
		})
	}
	return NewSchema(cols...)
}

// HeadersOf 类型T的列序号到表头名的映射
func HeadersOf[T any]() (map[int]string, error) {
	s, err := SchemaOf[T]()
	if err != nil {
		return nil, err
	}
	return s.Headers(), nil
}

func parseFieldTag(fieldName, tag string) (fieldTag, error) {
	parts := strings.Split(tag, ",")
	ft := fieldTag{name: strings.TrimSpace(parts[0])}
	if ft.name == "" {
		ft.name = fieldName
	}
	for _, p := range parts[1:] {
		p = strings.TrimSpace(p)
		switch p {
		case "":
		case "date":
			ft.date = true
		case "enum":
			ft.enum = true
		default:
			n, err := strconv.Atoi(p)
			if err != nil || n < 0 {
				return ft, columnErr("field %s: invalid tag option %q", fieldName, p)
			}
			ft.index = n
		}
	}
	return ft, nil
}

func fieldCell(t reflect.Type, ft fieldTag) (Kind, fieldCellFn, error) {
	switch {
	case t == protoDateType:
		return KindDate, func(fv reflect.Value) Cell {
			return protoDateCell(fv.Interface().(*date.Date))
		}, nil
	case t.Implements(labelerType):
		return KindEnum, func(fv reflect.Value) Cell {
			if isNilValue(fv) {
				return emptyCell()
			}
			return EnumCell(fv.Interface().(Labeler).Label())
		}, nil
	case t.Kind() == reflect.Pointer:
		kind, fn, err := fieldCell(t.Elem(), ft)
		if err != nil {
			return 0, nil, err
		}
		return kind, func(fv reflect.Value) Cell {
			if fv.IsNil() {
				return emptyCell()
			}
			return fn(fv.Elem())
		}, nil
	case ft.enum:
		return 0, nil, fmt.Errorf("%w: %s does not implement Label() string", ErrEnumLabel, t)
	case t.Kind() == reflect.Interface:
		return KindValue, func(fv reflect.Value) Cell {
			if fv.IsNil() {
				return emptyCell()
			}
			return Classify(fv.Interface())
		}, nil
	case t == timeType:
		kind := KindDateTime
		if ft.date {
			kind = KindDate
		}
		return kind, func(fv reflect.Value) Cell {
			return timeCell(fv.Interface().(time.Time), kind)
		}, nil
	case ft.date:
		return 0, nil, fmt.Errorf("%w: date option on %s", ErrColumn, t)
	case t == protoDateType.Elem():
		return 0, nil, fmt.Errorf("%w: use *date.Date instead of date.Date", ErrColumn)
	}

	switch t.Kind() {
	case reflect.String:
		return KindText, func(fv reflect.Value) Cell {
			return TextCell(fv.String())
		}, nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return KindNumber, func(fv reflect.Value) Cell {
			return NumberCell(float64(fv.Int()))
		}, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return KindNumber, func(fv reflect.Value) Cell {
			return NumberCell(float64(fv.Uint()))
		}, nil
	case reflect.Float32, reflect.Float64:
		return KindNumber, func(fv reflect.Value) Cell {
			return NumberCell(fv.Float())
		}, nil
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return KindText, func(fv reflect.Value) Cell {
				return TextCell(string(fv.Bytes()))
			}, nil
		}
	}
	return KindFallback, func(fv reflect.Value) Cell {
		return FallbackCell(fmt.Sprint(fv.Interface()))
	}, nil
}

func isNilValue(fv reflect.Value) bool {
	switch fv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return fv.IsNil()
	}
	return false
}
