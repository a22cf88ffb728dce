// Package matchdata loads match rows into a column-addressable table.
package matchdata

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Required columns every match table must expose.
const (
	ColID      = "ID"
	ColName1   = "Name_1"
	ColName2   = "Name_2"
	ColResult1 = "Result_CUR_1"
	ColResult2 = "Result_CUR_2"
)

var RequiredColumns = []string{ColID, ColName1, ColName2, ColResult1, ColResult2}

var (
	ErrMissingColumn   = errors.New("required column missing")
	ErrDuplicateColumn = errors.New("duplicate column header")
	ErrEmptyTable      = errors.New("table has no header row")
	ErrUnsupportedFile = errors.New("unsupported file type")
	ErrMalformedNumber = errors.New("cell is not a number")
)

// Table is an in-memory, row-indexed view of a delimited match file.
type Table struct {
	columns []string
	index   map[string]int
	rows    [][]string
}

// NewTable builds a table from a header and data rows. Short rows are padded
// with empty cells.
func NewTable(header []string, rows [][]string) (*Table, error) {
	if len(header) == 0 {
		return nil, ErrEmptyTable
	}
	t := &Table{
		columns: make([]string, len(header)),
		index:   make(map[string]int, len(header)),
		rows:    make([][]string, 0, len(rows)),
	}
	for i, h := range header {
		h = strings.TrimSpace(h)
		if _, dup := t.index[h]; dup && h != "" {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateColumn, h)
		}
		t.columns[i] = h
		t.index[h] = i
	}
	for _, r := range rows {
		if len(r) < len(header) {
			padded := make([]string, len(header))
			copy(padded, r)
			r = padded
		}
		t.rows = append(t.rows, r)
	}
	return t, nil
}

// Columns returns the header in file order.
func (t *Table) Columns() []string {
	return append([]string(nil), t.columns...)
}

// Len returns the number of data rows.
func (t *Table) Len() int {
	return len(t.rows)
}

// Has reports whether the table has a column named col.
func (t *Table) Has(col string) bool {
	_, ok := t.index[col]
	return ok
}

// Validate checks that every required column is present.
func (t *Table) Validate() error {
	var missing []string
	for _, c := range RequiredColumns {
		if !t.Has(c) {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumn, strings.Join(missing, ", "))
	}
	return nil
}

// Value returns the trimmed cell at (col, row). ok is false when the column
// does not exist or row is out of range.
func (t *Table) Value(col string, row int) (string, bool) {
	i, ok := t.index[col]
	if !ok || row < 0 || row >= len(t.rows) {
		return "", false
	}
	return strings.TrimSpace(t.rows[row][i]), true
}

// Float parses the cell at (col, row). Empty cells, NaN markers, absent
// columns and unparsable text are all reported as missing.
func (t *Table) Float(col string, row int) (float64, bool) {
	v, ok, _ := t.FloatCell(col, row)
	return v, ok
}

// FloatCell is Float that also reports text which is neither a number nor a
// missing marker, such as "65%" or "0,65", as ErrMalformedNumber.
func (t *Table) FloatCell(col string, row int) (float64, bool, error) {
	s, ok := t.Value(col, row)
	if !ok || isMissing(s) {
		return 0, false, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false, fmt.Errorf("%w: column %s row %d: %q", ErrMalformedNumber, col, row, s)
	}
	if math.IsNaN(v) {
		return 0, false, nil
	}
	return v, true, nil
}

// Int parses the cell at (col, row) as an integer. Whole-valued floats such
// as "12.0" are accepted because spreadsheet exports often write them.
func (t *Table) Int(col string, row int) (int64, error) {
	s, ok := t.Value(col, row)
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrMissingColumn, col)
	}
	if v, err := strconv.ParseInt(s, 10, 64); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f != math.Trunc(f) {
		return 0, fmt.Errorf("column %s row %d: non-integer value %q", col, row, s)
	}
	return int64(f), nil
}

func isMissing(s string) bool {
	switch strings.ToLower(s) {
	case "", "nan", "na", "n/a", "null", "-":
		return true
	}
	return false
}
