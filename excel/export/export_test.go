package export

import (
	"fmt"
	"time"

	"google.golang.org/genproto/googleapis/type/date"
)

type status int

const (
	statusActive status = iota + 1
	statusClosed
)

func (s status) Label() string {
	switch s {
	case statusActive:
		return "ACTIVE"
	case statusClosed:
		return "CLOSED"
	}
	return fmt.Sprintf("status(%d)", int(s))
}

type point struct{ X, Y int }

type order struct {
	ID       int64      `excel:"ID"`
	Title    string     `excel:"Title,1"`
	Amount   float64    `excel:"Amount,2"`
	Note     *string    `excel:"Note,3"`
	Created  time.Time  `excel:"Created,4"`
	Birthday time.Time  `excel:"Birthday,5,date"`
	Status   status     `excel:"Status,6"`
	Shipped  *date.Date `excel:"Shipped,7"`
	Extra    any        `excel:"Extra,8"`
	Where    point      `excel:"Where,9"`
	Skipped  string
	Ignored  string `excel:"-"`
}

func strPtr(s string) *string {
	return &s
}

var testCreated = time.Date(2024, 3, 5, 14, 30, 15, 0, time.UTC)

func testOrders(n int) []order {
	res := make([]order, n)
	for i := range res {
		res[i] = order{
			ID:       int64(i + 1),
			Title:    fmt.Sprintf("order-%d", i+1),
			Amount:   1234.5,
			Note:     strPtr("note"),
			Created:  testCreated,
			Birthday: time.Date(1990, 1, 31, 8, 0, 0, 0, time.UTC),
			Status:   statusActive,
			Shipped:  &date.Date{Year: 2024, Month: 3, Day: 6},
			Extra:    42,
			Where:    point{1, 2},
		}
	}
	return res
}

func orderColumns() []Column[order] {
	return []Column[order]{
		Number(0, "ID", func(o order) int64 { return o.ID }),
		Text(1, "Title", func(o order) string { return o.Title }),
		Number(2, "Amount", func(o order) float64 { return o.Amount }),
		TextPtr(3, "Note", func(o order) *string { return o.Note }),
		DateTime(4, "Created", func(o order) time.Time { return o.Created }),
		DateOf(5, "Birthday", func(o order) time.Time { return o.Birthday }),
		Enum(6, "Status", func(o order) status { return o.Status }),
		Date(7, "Shipped", func(o order) *date.Date { return o.Shipped }),
		Value(8, "Extra", func(o order) any { return o.Extra }),
		Value(9, "Where", func(o order) any { return o.Where }),
	}
}
