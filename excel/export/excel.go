package export

import (
	"context"
	"io"
	"net/http"

	"github.com/opdss/excelcol/contracts/excel"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

var _ excel.Exporter = (*Excel[any])(nil)

// Excel 把记录导出为xlsx，每次导出使用独立的工作簿
type Excel[T any] struct {
	options *options
	schema  *Schema[T]
	it      Iterator[T]
	total   int
}

// NewExcel 迭代器只会被读取一次，再次导出只有表头
func NewExcel[T any](s *Schema[T], it Iterator[T], opts ...Option) *Excel[T] {
	return &Excel[T]{
		schema:  s,
		it:      it,
		options: newOptions(opts...),
	}
}

// Export 导出到本地文件，返回本地文件路径
func (e *Excel[T]) Export(ctx context.Context) (string, error) {
	fp, err := e.build(ctx)
	if err != nil {
		return "", err
	}
	defer e.close(fp)
	filename := getFilename(e.options.filename, ExcelSuffix)
	if err = fp.SaveAs(filename); err != nil {
		return "", Error.Wrap(err)
	}
	return filename, nil
}

// ExportTo 导出到io.Writer
func (e *Excel[T]) ExportTo(ctx context.Context, w io.Writer) (int64, error) {
	fp, err := e.build(ctx)
	if err != nil {
		return 0, err
	}
	defer e.close(fp)
	buf, err := fp.WriteToBuffer()
	if err != nil {
		return 0, Error.Wrap(err)
	}
	n, err := buf.WriteTo(w)
	return n, wrapErr(err)
}

// ExportToStorage 导出到文件存储，返回下载地址
func (e *Excel[T]) ExportToStorage(ctx context.Context, fs excel.FileStorage) (string, error) {
	fp, err := e.build(ctx)
	if err != nil {
		return "", err
	}
	defer e.close(fp)
	buf, err := fp.WriteToBuffer()
	if err != nil {
		return "", Error.Wrap(err)
	}
	return putStorage(ctx, fs, getFileKey(e.options.filename, ExcelSuffix), buf)
}

// ExportToResponse 以附件形式写入http响应。
// 工作簿完整生成后才写响应头，生成失败时响应保持不变。
func (e *Excel[T]) ExportToResponse(ctx context.Context, w http.ResponseWriter) (int64, error) {
	disposition, err := ContentDisposition(e.options.filename, ExcelSuffix)
	if err != nil {
		return 0, err
	}
	fp, err := e.build(ctx)
	if err != nil {
		return 0, err
	}
	defer e.close(fp)
	buf, err := fp.WriteToBuffer()
	if err != nil {
		return 0, Error.Wrap(err)
	}
	n, err := writeResponse(w, ExcelContentType, disposition, buf)
	return n, wrapErr(err)
}

// Total 最近一次导出的数据行数
func (e *Excel[T]) Total() int {
	return e.total
}

// build 生成工作簿，出错时工作簿已关闭
func (e *Excel[T]) build(ctx context.Context) (fp *excelize.File, err error) {
	e.total = 0
	fp = excelize.NewFile()
	defer func() {
		if err != nil {
			e.close(fp)
			fp = nil
			err = wrapErr(err)
		}
	}()
	if e.options.sheetName != DefaultSheetName {
		if err = fp.SetSheetName(DefaultSheetName, e.options.sheetName); err != nil {
			return
		}
	}
	st, err := newStyles(fp)
	if err != nil {
		return
	}
	sw, err := fp.NewStreamWriter(e.options.sheetName)
	if err != nil {
		return
	}
	//设置列宽度，需要在写入数据前
	for _, c := range e.schema.columns {
		col := c.Index + 2
		if err = sw.SetColWidth(col, col, e.options.colWidth); err != nil {
			return
		}
	}
	width := e.schema.Width()
	row := 1
	if err = e.writeRow(sw, st, row, e.schema.HeaderRow(e.options.rowNumberTitle), width); err != nil {
		return
	}
	for e.it.Next() {
		//收到取消导出信号
		if err = ctx.Err(); err != nil {
			return
		}
		//检查是否超过最大导出限制
		e.total++
		if e.total > e.options.maxRows {
			err = ErrMaximumLimit
			return
		}
		row++
		if err = e.writeRow(sw, st, row, e.schema.Materialize(e.total, e.it.Value()), width); err != nil {
			return
		}
	}
	if err = e.it.Err(); err != nil {
		return
	}
	err = sw.Flush()
	return
}

func (e *Excel[T]) writeRow(sw *excelize.StreamWriter, st *styles, row int, cells []ColumnCell, width int) error {
	values := make([]any, width)
	for col, c := range dense(cells, width) {
		if c == nil {
			continue
		}
		values[col] = excelize.Cell{StyleID: st.of(c.Kind), Value: excelValue(*c)}
	}
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	return sw.SetRow(cell, values)
}

func (e *Excel[T]) close(fp *excelize.File) {
	if err := fp.Close(); err != nil {
		e.options.logger.Warn("excel close failed", zap.Error(err))
	}
}

func wrapErr(err error) error {
	if err == nil || Error.Has(err) {
		return err
	}
	return Error.Wrap(err)
}
