// Copyright 2022 Stock Parfait

// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at

//     http://www.apache.org/licenses/LICENSE-2.0

// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package table is the tabular view of Data Hub records: one row per record,
// one column per observed field.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/stockparfait/errors"
)

// Row interface that a table row representation must implement.
type Row interface {
	CSV() []string // an encoding/csv compatible row representation
}

// Table container. Rows are typically Cells, as created by FromRecords, but
// any Row implementation works for printing:
//
//   t := NewTable("Date", "Close")
//   t.AddRow(Cells{String("2019-01-02"), Number(157.92)})
type Table struct {
	Header []string // optional, may be nil
	Rows   []Row
}

// NewTable creates a new Table instance with optional column headers. When
// present, the number of headers must match the number of elements in each Row.
func NewTable(header ...string) *Table {
	return &Table{Header: header}
}

// AddRow adds one or more rows to the table.
func (t *Table) AddRow(rows ...Row) {
	t.Rows = append(t.Rows, rows...)
}

// Len is the number of rows.
func (t *Table) Len() int { return len(t.Rows) }

// ColumnIndex returns the index of the named column, or -1.
func (t *Table) ColumnIndex(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

func (t *Table) cells(i int) (Cells, error) {
	c, ok := t.Rows[i].(Cells)
	if !ok {
		return nil, errors.Reason("row %d is not Cells: %T", i, t.Rows[i])
	}
	return c, nil
}

// Cell returns the value in the given row and the named column.
func (t *Table) Cell(row int, column string) (Cell, error) {
	if row < 0 || row >= len(t.Rows) {
		return Cell{}, errors.Reason("row %d is out of range [0..%d)", row, len(t.Rows))
	}
	j := t.ColumnIndex(column)
	if j < 0 {
		return Cell{}, errors.Reason("no such column: '%s'", column)
	}
	c, err := t.cells(row)
	if err != nil {
		return Cell{}, err
	}
	if j >= len(c) {
		return Null(), nil
	}
	return c[j], nil
}

// Column returns all the values of the named column, in row order.
func (t *Table) Column(column string) ([]Cell, error) {
	res := make([]Cell, len(t.Rows))
	for i := range t.Rows {
		c, err := t.Cell(i, column)
		if err != nil {
			return nil, err
		}
		res[i] = c
	}
	return res, nil
}

// SortBy sorts the rows in ascending order of the named column, see
// Cell.Less. The sort is stable, so equal values keep their original order.
func (t *Table) SortBy(column string) error {
	j := t.ColumnIndex(column)
	if j < 0 {
		return errors.Reason("no such column: '%s'", column)
	}
	keys := make([]Cell, len(t.Rows))
	for i := range t.Rows {
		c, err := t.cells(i)
		if err != nil {
			return errors.Annotate(err, "cannot sort by '%s'", column)
		}
		if j < len(c) {
			keys[i] = c[j]
		}
	}
	idx := make([]int, len(t.Rows))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return keys[idx[a]].Less(keys[idx[b]]) })
	rows := make([]Row, len(t.Rows))
	for i, k := range idx {
		rows[i] = t.Rows[k]
	}
	t.Rows = rows
	return nil
}

// Params are parameters for pretty-printing or CSV export of Table data.
type Params struct {
	Rows        int  // max. number of rows to write; 0 = unlimited (default)
	NoHeader    bool // whether to print the header, default - yes
	MaxColWidth int  // for WriteText only; 0 = unlimited, otherwise must be >= 4
}

// visibleRows returns the rows to print according to p.
func (t *Table) visibleRows(p Params) []Row {
	if p.Rows > 0 && p.Rows < len(t.Rows) {
		return t.Rows[:p.Rows]
	}
	return t.Rows
}

// WriteCSV writes the table to w in CSV format.
func (t *Table) WriteCSV(w io.Writer, p Params) error {
	cw := csv.NewWriter(w)
	if !p.NoHeader && len(t.Header) > 0 {
		if err := cw.Write(t.Header); err != nil {
			return errors.Annotate(err, "failed to write header")
		}
	}
	for _, r := range t.visibleRows(p) {
		if err := cw.Write(r.CSV()); err != nil {
			return errors.Annotate(err, "failed to write row")
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		return errors.Annotate(err, "failed to flush written rows")
	}
	return nil
}

// columnWidths computes the width of each column over all the lines, capped
// at maxWidth when it's positive. All the lines must have the same size.
func columnWidths(lines [][]string, maxWidth int) ([]int, error) {
	var widths []int
	for i, line := range lines {
		if widths == nil {
			widths = make([]int, len(line))
		}
		if len(line) != len(widths) {
			return nil, errors.Reason("line %d size [%d] != expected size [%d]",
				i, len(line), len(widths))
		}
		for j, s := range line {
			l := len([]rune(s))
			if maxWidth > 0 && l > maxWidth {
				l = maxWidth
			}
			if widths[j] < l {
				widths[j] = l
			}
		}
	}
	return widths, nil
}

// WriteText writes the table as right-aligned text columns separated by " | ",
// with a dashed line under the header. Values wider than MaxColWidth are
// truncated with "..".
func (t *Table) WriteText(w io.Writer, p Params) error {
	if p.MaxColWidth != 0 && p.MaxColWidth < 4 {
		return errors.Reason("MaxColWidth [%d] must be 0 or >= 4", p.MaxColWidth)
	}
	var lines [][]string
	withHeader := !p.NoHeader && len(t.Header) > 0
	if withHeader {
		lines = append(lines, t.Header)
	}
	for _, r := range t.visibleRows(p) {
		lines = append(lines, r.CSV())
	}
	widths, err := columnWidths(lines, p.MaxColWidth)
	if err != nil {
		return errors.Annotate(err, "failed to compute column widths")
	}
	if len(widths) == 0 { // no columns, nothing to print
		return nil
	}
	write := func(line []string) error {
		cols := make([]string, len(line))
		for j, s := range line {
			if r := []rune(s); len(r) > widths[j] {
				s = string(r[:widths[j]-2]) + ".."
			}
			cols[j] = fmt.Sprintf("%*s", widths[j], s)
		}
		_, err := fmt.Fprintln(w, strings.Join(cols, " | "))
		return err
	}
	for i, line := range lines {
		if err := write(line); err != nil {
			return errors.Annotate(err, "failed to write line %d", i)
		}
		if i == 0 && withHeader {
			dashes := make([]string, len(widths))
			for j, n := range widths {
				dashes[j] = strings.Repeat("-", n)
			}
			if err := write(dashes); err != nil {
				return errors.Annotate(err, "failed to write header separator")
			}
		}
	}
	return nil
}
