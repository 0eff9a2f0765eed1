package export

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"net/url"
	"os"
	"testing"

	"github.com/opdss/excelcol/iterator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func exportOrders(t *testing.T, list []order, opts ...Option) *excelize.File {
	t.Helper()
	var buf bytes.Buffer
	n, err := ToExcelStream(context.Background(), MustSchema(orderColumns()...), iterator.NewSliceIterator(list), &buf, opts...)
	require.NoError(t, err)
	require.Equal(t, int64(buf.Len()), n)
	fp, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	t.Cleanup(func() { _ = fp.Close() })
	return fp
}

func rawValue(t *testing.T, fp *excelize.File, cell string) string {
	t.Helper()
	v, err := fp.GetCellValue(DefaultSheetName, cell, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	return v
}

func cellStyleOf(t *testing.T, fp *excelize.File, cell string) *excelize.Style {
	t.Helper()
	id, err := fp.GetCellStyle(DefaultSheetName, cell)
	require.NoError(t, err)
	style, err := fp.GetStyle(id)
	require.NoError(t, err)
	return style
}

// formatCode 单元格的数字格式，#,##0 是内置格式3
func formatCode(style *excelize.Style) string {
	if style.CustomNumFmt != nil {
		return *style.CustomNumFmt
	}
	if style.NumFmt == 3 {
		return "#,##0"
	}
	return ""
}

func TestExcelRows(t *testing.T) {
	fp := exportOrders(t, testOrders(3))
	rows, err := fp.GetRows(DefaultSheetName, excelize.Options{RawCellValue: true})
	require.NoError(t, err)
	require.Len(t, rows, 4)

	assert.Equal(t, []string{"No", "ID", "Title", "Amount", "Note", "Created", "Birthday", "Status", "Shipped", "Extra", "Where"}, rows[0])
	for i, row := range rows[1:] {
		assert.Equal(t, []string{"1", "2", "3"}[i], row[0])
		assert.Equal(t, "1234.5", row[3])
		assert.Equal(t, "ACTIVE", row[7])
		assert.Equal(t, "{1 2}", row[10])
	}
	assert.Equal(t, "order-2", rawValue(t, fp, "C3"))
}

func TestExcelStyles(t *testing.T) {
	fp := exportOrders(t, testOrders(1))

	amount := cellStyleOf(t, fp, "D2")
	assert.Equal(t, "#,##0", formatCode(amount))
	assert.Len(t, amount.Border, 4)
	assert.Equal(t, "#,##0", formatCode(cellStyleOf(t, fp, "A2")))

	assert.Equal(t, "yyyy-MM-dd HH:mm:ss", formatCode(cellStyleOf(t, fp, "F2")))
	assert.Equal(t, "yyyy-MM-dd", formatCode(cellStyleOf(t, fp, "G2")))
	assert.Equal(t, "yyyy-MM-dd", formatCode(cellStyleOf(t, fp, "I2")))

	for _, cell := range []string{"A1", "B1", "C2", "H2"} {
		style := cellStyleOf(t, fp, cell)
		assert.Len(t, style.Border, 4, cell)
		assert.Empty(t, formatCode(style), cell)
	}

	for _, col := range []string{"B", "F", "K"} {
		w, err := fp.GetColWidth(DefaultSheetName, col)
		require.NoError(t, err)
		assert.Equal(t, float64(DefaultColWidth), w, col)
	}
}

func TestExcelEmptyListKeepsHeader(t *testing.T) {
	empty := exportOrders(t, nil)
	full := exportOrders(t, testOrders(1))

	emptyRows, err := empty.GetRows(DefaultSheetName)
	require.NoError(t, err)
	fullRows, err := full.GetRows(DefaultSheetName)
	require.NoError(t, err)

	require.Len(t, emptyRows, 1)
	assert.Equal(t, fullRows[0], emptyRows[0])
}

func TestExcelColumnGap(t *testing.T) {
	s := MustSchema(
		Text(0, "A", func(o order) string { return "a" }),
		Text(2, "C", func(o order) string { return "c" }),
	)
	var buf bytes.Buffer
	_, err := ToExcelStream(context.Background(), s, iterator.NewSliceIterator(testOrders(1)), &buf)
	require.NoError(t, err)
	fp, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = fp.Close() }()

	rows, err := fp.GetRows(DefaultSheetName)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"No", "A", "", "C"}, {"1", "a", "", "c"}}, rows)
}

func TestExcelOptions(t *testing.T) {
	fp := exportOrders(t, testOrders(1), WithSheetName("orders"), WithRowNumberTitle("#"), WithColWidth(30))
	assert.Equal(t, []string{"orders"}, fp.GetSheetList())
	v, err := fp.GetCellValue("orders", "A1")
	require.NoError(t, err)
	assert.Equal(t, "#", v)
	w, err := fp.GetColWidth("orders", "B")
	require.NoError(t, err)
	assert.Equal(t, float64(30), w)
}

func TestExcelMaxRows(t *testing.T) {
	var buf bytes.Buffer
	_, err := ToExcelStream(context.Background(), MustSchema(orderColumns()...), iterator.NewSliceIterator(testOrders(3)), &buf, WithMaxRows(2))
	assert.ErrorIs(t, err, ErrMaximumLimit)
	assert.Zero(t, buf.Len())
}

func TestExcelCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	var buf bytes.Buffer
	_, err := ToExcelStream(ctx, MustSchema(orderColumns()...), iterator.NewSliceIterator(testOrders(1)), &buf)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, buf.Len())
}

func TestExcelIteratorError(t *testing.T) {
	boom := errors.New("boom")
	it := iterator.NewPageQueryIterator(func(ctx context.Context, offset, limit int) ([]order, error) {
		if offset > 0 {
			return nil, boom
		}
		return testOrders(limit), nil
	}, iterator.WithPageQueryIteratorLimit[order](2))

	rec := httptest.NewRecorder()
	_, err := NewExcel(MustSchema(orderColumns()...), it, WithFilename("orders")).ExportToResponse(context.Background(), rec)
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, rec.Header().Get("Content-Type"))
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.Zero(t, rec.Body.Len())
}

func TestToExcelResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	err := ToExcelResponse(context.Background(), rec, "月报 2024", testOrders(2), MustSchema(orderColumns()...))
	require.NoError(t, err)

	assert.Equal(t, ExcelContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment;filename="+url.QueryEscape("月报 2024")+".xlsx", rec.Header().Get("Content-Disposition"))

	fp, err := excelize.OpenReader(rec.Body)
	require.NoError(t, err)
	defer func() { _ = fp.Close() }()
	rows, err := fp.GetRows(DefaultSheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}

func TestToExcelResponseInvalidFilename(t *testing.T) {
	rec := httptest.NewRecorder()
	err := ToExcelResponse(context.Background(), rec, "bad\xff", testOrders(1), MustSchema(orderColumns()...))
	assert.ErrorIs(t, err, ErrFilename)
	assert.Empty(t, rec.Header().Get("Content-Disposition"))
	assert.Zero(t, rec.Body.Len())
}

func TestContentDisposition(t *testing.T) {
	d, err := ContentDisposition("", ExcelSuffix)
	require.NoError(t, err)
	assert.Equal(t, "attachment;filename=export.xlsx", d)

	d, err = ContentDisposition("a&b c", CsvSuffix)
	require.NoError(t, err)
	assert.Equal(t, "attachment;filename=a%26b+c.csv", d)
}

type memStorage struct {
	files map[string][]byte
}

func (m *memStorage) PutStream(ctx context.Context, filename string, rs io.Reader) error {
	b, err := io.ReadAll(rs)
	if err != nil {
		return err
	}
	m.files[filename] = b
	return nil
}

func (m *memStorage) Url(fileKey string) string {
	return "https://files.example.com/" + fileKey
}

func TestExcelExportToStorage(t *testing.T) {
	fs := &memStorage{files: make(map[string][]byte)}
	u, err := ToExcelStorage(context.Background(), MustSchema(orderColumns()...), iterator.NewSliceIterator(testOrders(1)), fs, WithFilename("orders"))
	require.NoError(t, err)
	require.Len(t, fs.files, 1)
	for key, content := range fs.files {
		assert.Equal(t, "https://files.example.com/"+key, u)
		assert.Regexp(t, `^orders_.+\.xlsx$`, key)
		assert.NotEmpty(t, content)
	}
}

func TestExcelExportFile(t *testing.T) {
	path, err := ToExcelFile(context.Background(), MustSchema(orderColumns()...), iterator.NewSliceIterator(testOrders(2)), WithFilename(t.TempDir()+"/orders"))
	require.NoError(t, err)
	assert.FileExists(t, path)

	fp, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer func() { _ = fp.Close() }()
	rows, err := fp.GetRows(DefaultSheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
	_ = os.Remove(path)
}

func TestExcelExportToCountsBytes(t *testing.T) {
	e := NewExcel(MustSchema(orderColumns()...), iterator.NewSliceIterator(testOrders(2)))
	var buf bytes.Buffer
	n, err := e.ExportTo(context.Background(), &buf)
	require.NoError(t, err)
	assert.Positive(t, n)
	assert.Equal(t, int64(buf.Len()), n)
}

func TestExcelTotalResetsPerExport(t *testing.T) {
	e := NewExcel(MustSchema(orderColumns()...), iterator.NewSliceIterator(testOrders(3)))
	_, err := e.ExportTo(context.Background(), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 3, e.Total())

	var buf bytes.Buffer
	_, err = e.ExportTo(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, e.Total())

	fp, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer func() { _ = fp.Close() }()
	rows, err := fp.GetRows(DefaultSheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 1)
}
