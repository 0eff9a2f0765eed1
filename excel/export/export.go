package export

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/opdss/excelcol/contracts/excel"
	"github.com/opdss/excelcol/iterator"
	"github.com/zeebo/errs"
)

// Error 导出相关错误的类别
var Error = errs.Class("export")

var (
	ErrMaximumLimit = errors.New("export quantity exceeds maximum limit")
	ErrColumn       = errors.New("invalid column declaration")
	ErrEnumLabel    = errors.New("enum type has no label")
	ErrFilename     = errors.New("invalid export filename")
)

const MaxRows = 1000000 //最大导出数据,防止dataProvider出错无限数据导出

const (
	DefaultSheetName      = "Sheet1" // 默认操作表
	DefaultColWidth       = 20       // 声明列的默认宽度
	DefaultRowNumberTitle = "No"     // 行号列表头
	DefaultFilename       = "export"
)

// ExcelSuffix CsvSuffix 导出文件后缀
const ExcelSuffix = "xlsx"
const CsvSuffix = "csv"

const (
	ExcelContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	CsvContentType   = "text/csv; charset=utf-8"
)

// ToExcelResponse 把list导出为excel，以附件 filename.xlsx 写入http响应。
// list为空时只输出表头。
func ToExcelResponse[T any](ctx context.Context, w http.ResponseWriter, filename string, list []T, s *Schema[T], opt ...Option) error {
	opt = append(opt, WithFilename(filename))
	_, err := NewExcel(s, iterator.NewSliceIterator(list), opt...).ExportToResponse(ctx, w)
	return err
}

// ToExcelStream 导出excel的快捷方法
func ToExcelStream[T any](ctx context.Context, s *Schema[T], it Iterator[T], w io.Writer, opt ...Option) (int64, error) {
	return NewExcel(s, it, opt...).ExportTo(ctx, w)
}

// ToExcelFile 导出excel的快捷方法
func ToExcelFile[T any](ctx context.Context, s *Schema[T], it Iterator[T], opt ...Option) (string, error) {
	return NewExcel(s, it, opt...).Export(ctx)
}

// ToExcelStorage 导出excel到文件存储的快捷方法
func ToExcelStorage[T any](ctx context.Context, s *Schema[T], it Iterator[T], fs excel.FileStorage, opt ...Option) (string, error) {
	return NewExcel(s, it, opt...).ExportToStorage(ctx, fs)
}

// ToCsvResponse 把list导出为csv，以附件 filename.csv 写入http响应
func ToCsvResponse[T any](ctx context.Context, w http.ResponseWriter, filename string, list []T, s *Schema[T], opt ...Option) error {
	opt = append(opt, WithFilename(filename))
	_, err := NewCsv(s, iterator.NewSliceIterator(list), opt...).ExportToResponse(ctx, w)
	return err
}

// ToCsvStream 导出csv的快捷方法
func ToCsvStream[T any](ctx context.Context, s *Schema[T], it Iterator[T], w io.Writer, opt ...Option) (int64, error) {
	return NewCsv(s, it, opt...).ExportTo(ctx, w)
}
