package export

import (
	"time"

	"github.com/xuri/excelize/v2"
)

// thinBorder 所有单元格统一使用细边框
var thinBorder = []excelize.Border{
	{Type: "left", Color: "000000", Style: 1},
	{Type: "top", Color: "000000", Style: 1},
	{Type: "bottom", Color: "000000", Style: 1},
	{Type: "right", Color: "000000", Style: 1},
}

// styles 每种单元格类型对应的样式id
type styles struct {
	base     int
	number   int
	dateTime int
	date     int
}

func newStyles(fp *excelize.File) (*styles, error) {
	var (
		s   styles
		err error
	)
	if s.base, err = fp.NewStyle(cellStyle("")); err != nil {
		return nil, err
	}
	if s.number, err = fp.NewStyle(cellStyle(NumberFormat)); err != nil {
		return nil, err
	}
	if s.dateTime, err = fp.NewStyle(cellStyle(DateTimeFormat)); err != nil {
		return nil, err
	}
	if s.date, err = fp.NewStyle(cellStyle(DateFormat)); err != nil {
		return nil, err
	}
	return &s, nil
}

func cellStyle(numFmt string) *excelize.Style {
	st := &excelize.Style{Border: thinBorder}
	if numFmt != "" {
		st.CustomNumFmt = &numFmt
	}
	return st
}

func (s *styles) of(k Kind) int {
	switch k {
	case KindNumber:
		return s.number
	case KindDateTime:
		return s.dateTime
	case KindDate:
		return s.date
	default:
		return s.base
	}
}

// excelValue 写入excel的值，时间按墙上时间写入，excel没有时区
func excelValue(c Cell) any {
	if t, ok := c.Value.(time.Time); ok {
		return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	}
	return c.Value
}
