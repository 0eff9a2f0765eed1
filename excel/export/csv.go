package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"net/http"
	"os"

	"github.com/opdss/excelcol/contracts/excel"
)

var _ excel.Exporter = (*Csv[any])(nil)

// Csv 以csv文本导出，单元格取 Cell.Text
type Csv[T any] struct {
	options *options
	schema  *Schema[T]
	it      Iterator[T]
	total   int
}

// NewCsv 迭代器只会被读取一次，再次导出只有表头
func NewCsv[T any](s *Schema[T], it Iterator[T], opts ...Option) *Csv[T] {
	return &Csv[T]{
		schema:  s,
		it:      it,
		options: newOptions(opts...),
	}
}

func (c *Csv[T]) Export(ctx context.Context) (string, error) {
	buf, err := c.build(ctx)
	if err != nil {
		return "", err
	}
	filename := getFilename(c.options.filename, CsvSuffix)
	if err = os.WriteFile(filename, buf.Bytes(), 0o644); err != nil {
		return "", Error.Wrap(err)
	}
	return filename, nil
}

func (c *Csv[T]) ExportTo(ctx context.Context, w io.Writer) (int64, error) {
	buf, err := c.build(ctx)
	if err != nil {
		return 0, err
	}
	n, err := buf.WriteTo(w)
	return n, wrapErr(err)
}

func (c *Csv[T]) ExportToStorage(ctx context.Context, fs excel.FileStorage) (string, error) {
	buf, err := c.build(ctx)
	if err != nil {
		return "", err
	}
	return putStorage(ctx, fs, getFileKey(c.options.filename, CsvSuffix), buf)
}

func (c *Csv[T]) ExportToResponse(ctx context.Context, w http.ResponseWriter) (int64, error) {
	disposition, err := ContentDisposition(c.options.filename, CsvSuffix)
	if err != nil {
		return 0, err
	}
	buf, err := c.build(ctx)
	if err != nil {
		return 0, err
	}
	n, err := writeResponse(w, CsvContentType, disposition, buf)
	return n, wrapErr(err)
}

// Total 最近一次导出的数据行数
func (c *Csv[T]) Total() int {
	return c.total
}

func (c *Csv[T]) build(ctx context.Context) (*bytes.Buffer, error) {
	c.total = 0
	buf := new(bytes.Buffer)
	fw := csv.NewWriter(buf)
	width := c.schema.Width()
	// 写入CSV头部
	if err := fw.Write(csvRecord(c.schema.HeaderRow(c.options.rowNumberTitle), width)); err != nil {
		return nil, Error.Wrap(err)
	}
	for c.it.Next() {
		//收到取消导出信号
		if err := ctx.Err(); err != nil {
			return nil, Error.Wrap(err)
		}
		c.total++
		if c.total > c.options.maxRows {
			return nil, Error.Wrap(ErrMaximumLimit)
		}
		if err := fw.Write(csvRecord(c.schema.Materialize(c.total, c.it.Value()), width)); err != nil {
			return nil, Error.Wrap(err)
		}
	}
	if err := c.it.Err(); err != nil {
		return nil, wrapErr(err)
	}
	fw.Flush()
	if err := fw.Error(); err != nil {
		return nil, Error.Wrap(err)
	}
	return buf, nil
}

func csvRecord(cells []ColumnCell, width int) []string {
	record := make([]string, width)
	for i, c := range dense(cells, width) {
		if c != nil {
			record[i] = c.Text()
		}
	}
	return record
}
