package export

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSchemaSortsByIndex(t *testing.T) {
	s, err := NewSchema(
		Text(3, "C", func(o order) string { return o.Title }),
		Text(0, "A", func(o order) string { return o.Title }),
		Text(1, "B", func(o order) string { return o.Title }),
	)
	require.NoError(t, err)

	var names []string
	for _, c := range s.Columns() {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"A", "B", "C"}, names)
	assert.Equal(t, map[int]string{0: "A", 1: "B", 3: "C"}, s.Headers())
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 5, s.Width())
}

func TestNewSchemaDuplicateIndexLastWins(t *testing.T) {
	s, err := NewSchema(
		Text(2, "first", func(o order) string { return "1" }),
		Text(2, "second", func(o order) string { return "2" }),
	)
	require.NoError(t, err)

	assert.Equal(t, map[int]string{2: "second"}, s.Headers())
	row := s.Materialize(1, order{})
	require.Len(t, row, 2)
	assert.Equal(t, ColumnCell{Col: 3, Cell: TextCell("2")}, row[1])
}

func TestNewSchemaInvalid(t *testing.T) {
	_, err := NewSchema(Text(0, "", func(o order) string { return "" }))
	assert.True(t, errors.Is(err, ErrColumn))
	assert.True(t, Error.Has(err))

	_, err = NewSchema(Text(-1, "neg", func(o order) string { return "" }))
	assert.ErrorIs(t, err, ErrColumn)

	_, err = NewSchema(Text[order](0, "nil", nil))
	assert.ErrorIs(t, err, ErrColumn)

	_, err = NewSchema(EnumFunc[order, int](0, "enum", func(o order) int { return 1 }, nil))
	assert.ErrorIs(t, err, ErrEnumLabel)

	assert.Panics(t, func() {
		MustSchema(Text(0, "", func(o order) string { return "" }))
	})
}

func TestEmptySchema(t *testing.T) {
	s, err := NewSchema[order]()
	require.NoError(t, err)
	assert.Empty(t, s.Headers())
	assert.Equal(t, 1, s.Width())
	assert.Equal(t, []ColumnCell{{Col: 0, Cell: TextCell("No")}}, s.HeaderRow("No"))
	assert.Equal(t, []ColumnCell{{Col: 0, Cell: NumberCell(7)}}, s.Materialize(7, order{}))
}

func TestHeaderRow(t *testing.T) {
	s := MustSchema(orderColumns()...)
	row := s.HeaderRow("No")
	require.Len(t, row, 11)
	assert.Equal(t, ColumnCell{Col: 0, Cell: TextCell("No")}, row[0])
	assert.Equal(t, ColumnCell{Col: 1, Cell: TextCell("ID")}, row[1])
	assert.Equal(t, ColumnCell{Col: 10, Cell: TextCell("Where")}, row[10])
}

func TestMaterialize(t *testing.T) {
	s := MustSchema(orderColumns()...)
	o := testOrders(1)[0]
	row := s.Materialize(3, o)
	require.Len(t, row, 11)

	byCol := make(map[int]Cell)
	for _, c := range row {
		byCol[c.Col] = c.Cell
	}
	assert.Equal(t, NumberCell(3), byCol[0])
	assert.Equal(t, NumberCell(1), byCol[1])
	assert.Equal(t, TextCell("order-1"), byCol[2])

	amount := byCol[3]
	assert.Equal(t, KindNumber, amount.Kind)
	assert.Equal(t, "#,##0", amount.Format)
	assert.Equal(t, 1234.5, amount.Value)

	assert.Equal(t, TextCell("note"), byCol[4])

	created := byCol[5]
	assert.Equal(t, KindDateTime, created.Kind)
	assert.Equal(t, "yyyy-MM-dd HH:mm:ss", created.Format)
	assert.Equal(t, testCreated, created.Value)

	birthday := byCol[6]
	assert.Equal(t, KindDate, birthday.Kind)
	assert.Equal(t, "yyyy-MM-dd", birthday.Format)
	assert.Equal(t, time.Date(1990, 1, 31, 0, 0, 0, 0, time.UTC), birthday.Value)

	assert.Equal(t, EnumCell("ACTIVE"), byCol[7])
	assert.Equal(t, DateCell(time.Date(2024, 3, 6, 0, 0, 0, 0, time.UTC)), byCol[8])
	assert.Equal(t, NumberCell(42), byCol[9])
	assert.Equal(t, FallbackCell("{1 2}"), byCol[10])
}

func TestMaterializeAbsentValues(t *testing.T) {
	s := MustSchema(orderColumns()...)
	row := s.Materialize(1, order{})
	require.Len(t, row, 11)
	// 空值也会生成单元格
	for _, c := range row[1:] {
		switch c.Col {
		case 1, 3:
			assert.Equal(t, NumberCell(0), c.Cell)
		case 7:
			assert.Equal(t, EnumCell("status(0)"), c.Cell)
		case 10:
			assert.Equal(t, FallbackCell("{0 0}"), c.Cell)
		default:
			assert.True(t, c.Cell.IsEmpty(), "col %d: %#v", c.Col, c.Cell)
		}
	}
}

func TestMaterializeDoesNotMutate(t *testing.T) {
	s := MustSchema(orderColumns()...)
	o := testOrders(1)[0]
	before := o
	s.Materialize(1, o)
	assert.Equal(t, before, o)
}
