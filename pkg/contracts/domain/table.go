package domain

import (
	"fmt"
	"slices"
)

// Row maps a column name to its cell value. A column absent from the map
// reads as missing.
type Row map[string]Value

// Get returns the value for column, or Missing when the row has none
func (r Row) Get(column string) Value {
	if v, ok := r[column]; ok {
		return v
	}
	return Missing()
}

// clone copies only the listed columns
func (r Row) clone(columns []string) Row {
	out := make(Row, len(columns))
	for _, c := range columns {
		if v, ok := r[c]; ok {
			out[c] = v
		}
	}
	return out
}

// Table is an ordered sequence of rows sharing one ordered column set.
// Tables are never mutated after construction; every transform returns a
// new Table.
type Table struct {
	columns []string
	index   map[string]int
	rows    []Row
}

// NewTable builds a table from a column list and rows. Column names must
// be non-empty and unique. Row entries for columns outside the list are
// discarded.
func NewTable(columns []string, rows []Row) (*Table, error) {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		if c == "" {
			return nil, fmt.Errorf("column %d has an empty name", i)
		}
		if _, dup := index[c]; dup {
			return nil, fmt.Errorf("duplicate column %q", c)
		}
		index[c] = i
	}

	cols := slices.Clone(columns)
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.clone(cols)
	}
	return &Table{columns: cols, index: index, rows: out}, nil
}

// MustNewTable is like NewTable but panics on invalid columns.
// Intended for fixtures and tests.
func MustNewTable(columns []string, rows []Row) *Table {
	t, err := NewTable(columns, rows)
	if err != nil {
		panic(err)
	}
	return t
}

// Columns returns a copy of the column names in order
func (t *Table) Columns() []string {
	return slices.Clone(t.columns)
}

// Len returns the number of rows
func (t *Table) Len() int {
	return len(t.rows)
}

// HasColumn reports whether the table has the named column
func (t *Table) HasColumn(name string) bool {
	_, ok := t.index[name]
	return ok
}

// Row returns a copy of row i
func (t *Table) Row(i int) Row {
	return t.rows[i].clone(t.columns)
}

// Rows returns copies of all rows in order
func (t *Table) Rows() []Row {
	out := make([]Row, len(t.rows))
	for i := range t.rows {
		out[i] = t.Row(i)
	}
	return out
}

// Value returns the cell at row i, column name
func (t *Table) Value(i int, column string) Value {
	return t.rows[i].Get(column)
}

// Select returns a table with exactly the given columns in the given
// order. Any requested column the table lacks is reported in missing, in
// request order, and the returned table is nil.
func (t *Table) Select(columns ...string) (*Table, []string) {
	var missing []string
	for _, c := range columns {
		if !t.HasColumn(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return nil, missing
	}

	cols := slices.Clone(columns)
	return &Table{columns: cols, index: indexOf(cols), rows: cloneRows(t.rows, cols)}, nil
}

// Drop returns a table without the named column. Dropping an absent
// column returns an equivalent copy.
func (t *Table) Drop(column string) *Table {
	cols := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		if c != column {
			cols = append(cols, c)
		}
	}
	return &Table{columns: cols, index: indexOf(cols), rows: cloneRows(t.rows, cols)}
}

// Filter returns a table with the rows keep accepts, in order
func (t *Table) Filter(keep func(Row) bool) *Table {
	var rows []Row
	for _, r := range t.rows {
		if keep(r) {
			rows = append(rows, r.clone(t.columns))
		}
	}
	return &Table{columns: slices.Clone(t.columns), index: indexOf(t.columns), rows: rows}
}

// Records renders the rows as positional value slices in column order
func (t *Table) Records() [][]Value {
	out := make([][]Value, len(t.rows))
	for i, r := range t.rows {
		rec := make([]Value, len(t.columns))
		for j, c := range t.columns {
			rec[j] = r.Get(c)
		}
		out[i] = rec
	}
	return out
}

func indexOf(columns []string) map[string]int {
	index := make(map[string]int, len(columns))
	for i, c := range columns {
		index[c] = i
	}
	return index
}

func cloneRows(rows []Row, columns []string) []Row {
	out := make([]Row, len(rows))
	for i, r := range rows {
		out[i] = r.clone(columns)
	}
	return out
}
