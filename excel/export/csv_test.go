package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"io"
	"net/http/httptest"
	"testing"

	"github.com/opdss/excelcol/iterator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCsvExport(t *testing.T) {
	var buf bytes.Buffer
	n, err := ToCsvStream(context.Background(), MustSchema(orderColumns()...), iterator.NewSliceIterator(testOrders(2)), &buf)
	require.NoError(t, err)
	assert.Equal(t, int64(buf.Len()), n)

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, []string{"No", "ID", "Title", "Amount", "Note", "Created", "Birthday", "Status", "Shipped", "Extra", "Where"}, records[0])
	assert.Equal(t, []string{"2", "2", "order-2", "1234.5", "note", "2024-03-05 14:30:15", "1990-01-31", "ACTIVE", "2024-03-06", "42", "{1 2}"}, records[2])
}

func TestCsvEmpty(t *testing.T) {
	var buf bytes.Buffer
	_, err := ToCsvStream(context.Background(), MustSchema(orderColumns()...), iterator.NewSliceIterator[order](nil), &buf)
	require.NoError(t, err)
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestToCsvResponse(t *testing.T) {
	rec := httptest.NewRecorder()
	err := ToCsvResponse(context.Background(), rec, "orders", testOrders(1), MustSchema(orderColumns()...))
	require.NoError(t, err)
	assert.Equal(t, CsvContentType, rec.Header().Get("Content-Type"))
	assert.Equal(t, "attachment;filename=orders.csv", rec.Header().Get("Content-Disposition"))
	assert.Contains(t, rec.Body.String(), "order-1")
}

func TestCsvMaxRows(t *testing.T) {
	c := NewCsv(MustSchema(orderColumns()...), iterator.NewSliceIterator(testOrders(3)), WithMaxRows(1))
	var buf bytes.Buffer
	_, err := c.ExportTo(context.Background(), &buf)
	assert.ErrorIs(t, err, ErrMaximumLimit)
	assert.Zero(t, buf.Len())
}

func TestCsvTotalResetsPerExport(t *testing.T) {
	c := NewCsv(MustSchema(orderColumns()...), iterator.NewSliceIterator(testOrders(2)))
	_, err := c.ExportTo(context.Background(), io.Discard)
	require.NoError(t, err)
	assert.Equal(t, 2, c.Total())

	var buf bytes.Buffer
	_, err = c.ExportTo(context.Background(), &buf)
	require.NoError(t, err)
	assert.Equal(t, 0, c.Total())
	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	assert.Len(t, records, 1)
}
