// Package cellmeta manages the master per-cell metadata table: one row per
// cell, one column per annotation or clustering run. The table is the single
// artifact that accumulates labels over the course of an analysis, so every
// operation here returns a new table rather than mutating its input.
package cellmeta

import (
	"fmt"
)

// Table is a rectangular per-cell metadata table. The first column holds the
// cell id; row identity persists across operations. Cells are never added or
// removed except by explicit filtering.
type Table struct {
	cols      []string
	colIndex  map[string]int
	cellIndex map[string]int
	rows      [][]string
}

// NewTable builds a table from a header and data rows. The first header
// field names the cell-id column. Cell ids must be unique and column names
// must be unique.
func NewTable(header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, fmt.Errorf("empty header")
	}

	t := &Table{
		cols:      append([]string{}, header...),
		colIndex:  make(map[string]int, len(header)),
		cellIndex: make(map[string]int, len(rows)),
		rows:      make([][]string, 0, len(rows)),
	}

	for i, col := range t.cols {
		if _, exists := t.colIndex[col]; exists {
			return nil, fmt.Errorf("duplicate column %q", col)
		}
		t.colIndex[col] = i
	}

	for i, row := range rows {
		if len(row) != len(t.cols) {
			return nil, fmt.Errorf("row %d has %d fields, expected %d", i+1, len(row), len(t.cols))
		}

		cell := row[0]
		if cell == "" {
			return nil, fmt.Errorf("row %d has an empty cell id", i+1)
		}
		if prior, exists := t.cellIndex[cell]; exists {
			return nil, fmt.Errorf("rows %d and %d both describe cell %q", prior+1, i+1, cell)
		}

		t.cellIndex[cell] = len(t.rows)
		t.rows = append(t.rows, append([]string{}, row...))
	}

	return t, nil
}

// Clone deep-copies the table.
func (t *Table) Clone() *Table {
	rows := make([][]string, 0, len(t.rows))
	for _, row := range t.rows {
		rows = append(rows, append([]string{}, row...))
	}

	out, err := NewTable(t.cols, rows)
	if err != nil {
		// The source table already satisfied every invariant.
		panic(err)
	}

	return out
}

// NCells reports the number of cell rows.
func (t *Table) NCells() int {
	return len(t.rows)
}

// Columns returns the column names, cell-id column first.
func (t *Table) Columns() []string {
	return append([]string{}, t.cols...)
}

// HasColumn reports whether the named column exists.
func (t *Table) HasColumn(name string) bool {
	_, exists := t.colIndex[name]
	return exists
}

// CellIDs returns the cell ids in row order.
func (t *Table) CellIDs() []string {
	out := make([]string, 0, len(t.rows))
	for _, row := range t.rows {
		out = append(out, row[0])
	}

	return out
}

// Value returns the named column's value for the given cell. Unknown cells
// or columns return an error rather than a silent empty selection.
func (t *Table) Value(cell, col string) (string, error) {
	ri, exists := t.cellIndex[cell]
	if !exists {
		return "", fmt.Errorf("unknown cell %q", cell)
	}
	ci, exists := t.colIndex[col]
	if !exists {
		return "", fmt.Errorf("unknown column %q", col)
	}

	return t.rows[ri][ci], nil
}

// Column returns the full column as a cell-id keyed map.
func (t *Table) Column(col string) (map[string]string, error) {
	ci, exists := t.colIndex[col]
	if !exists {
		return nil, fmt.Errorf("unknown column %q", col)
	}

	out := make(map[string]string, len(t.rows))
	for _, row := range t.rows {
		out[row[0]] = row[ci]
	}

	return out, nil
}

// EnsureColumn adds an empty column of the given name if it does not exist,
// and returns its index either way.
func (t *Table) EnsureColumn(name string) int {
	if ci, exists := t.colIndex[name]; exists {
		return ci
	}

	t.cols = append(t.cols, name)
	ci := len(t.cols) - 1
	t.colIndex[name] = ci
	for i := range t.rows {
		t.rows[i] = append(t.rows[i], "")
	}

	return ci
}

// Clear blanks the named column's value for the given cell.
func (t *Table) Clear(cell, col string) error {
	ri, exists := t.cellIndex[cell]
	if !exists {
		return fmt.Errorf("unknown cell %q", cell)
	}
	ci, exists := t.colIndex[col]
	if !exists {
		return fmt.Errorf("unknown column %q", col)
	}

	t.rows[ri][ci] = ""

	return nil
}

// clearColumn blanks every value in an existing column.
func (t *Table) clearColumn(ci int) {
	for i := range t.rows {
		t.rows[i][ci] = ""
	}
}

// set writes a value by row and column index.
func (t *Table) set(ri, ci int, value string) {
	t.rows[ri][ci] = value
}

// rowIndex returns the row index for a cell id.
func (t *Table) rowIndex(cell string) (int, bool) {
	ri, exists := t.cellIndex[cell]
	return ri, exists
}

// Equal reports whether two tables have identical headers and identical rows
// in identical order.
func (t *Table) Equal(other *Table) bool {
	if len(t.cols) != len(other.cols) || len(t.rows) != len(other.rows) {
		return false
	}

	for i := range t.cols {
		if t.cols[i] != other.cols[i] {
			return false
		}
	}

	for i := range t.rows {
		for j := range t.rows[i] {
			if t.rows[i][j] != other.rows[i][j] {
				return false
			}
		}
	}

	return true
}
