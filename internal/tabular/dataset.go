package tabular

import (
	"fmt"
	"sort"
)

// Dataset is an ordered set of named columns with equal row counts.
// Column names are unique within a dataset.
type Dataset struct {
	names  []string
	cells  map[string][]Value
	byName map[string]int
}

// NewDataset creates an empty dataset with the given column names, in order.
func NewDataset(names []string) (*Dataset, error) {
	if len(names) == 0 {
		return nil, fmt.Errorf("dataset: at least one column is required")
	}
	byName := make(map[string]int, len(names))
	cells := make(map[string][]Value, len(names))
	for i, n := range names {
		if n == "" {
			return nil, fmt.Errorf("dataset: column %d has an empty name", i+1)
		}
		if _, dup := byName[n]; dup {
			return nil, fmt.Errorf("dataset: duplicate column name %q", n)
		}
		byName[n] = i
		cells[n] = nil
	}
	return &Dataset{
		names:  append([]string(nil), names...),
		cells:  cells,
		byName: byName,
	}, nil
}

// AppendRow adds one row. The number of values must match the column count;
// values are assigned to columns in declared order.
func (d *Dataset) AppendRow(values ...Value) error {
	if len(values) != len(d.names) {
		return fmt.Errorf("dataset: row has %d values, expected %d", len(values), len(d.names))
	}
	for i, n := range d.names {
		d.cells[n] = append(d.cells[n], values[i])
	}
	return nil
}

// ColumnNames returns the column names in declared order.
func (d *Dataset) ColumnNames() []string {
	return append([]string(nil), d.names...)
}

// HasColumn reports whether the dataset contains the named column.
func (d *Dataset) HasColumn(name string) bool {
	_, ok := d.byName[name]
	return ok
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int {
	if len(d.names) == 0 {
		return 0
	}
	return len(d.cells[d.names[0]])
}

// NumColumns returns the column count.
func (d *Dataset) NumColumns() int {
	return len(d.names)
}

// Cell returns the value at the given row in the named column.
func (d *Dataset) Cell(row int, column string) Value {
	col, ok := d.cells[column]
	if !ok || row < 0 || row >= len(col) {
		return Null()
	}
	return col[row]
}

// Row returns the values of one row in declared column order.
func (d *Dataset) Row(i int) []Value {
	out := make([]Value, len(d.names))
	for j, n := range d.names {
		out[j] = d.Cell(i, n)
	}
	return out
}

// ColumnKind returns the dominant kind of the named column: if every non-null
// cell shares one kind, that kind; a column with mixed kinds is a string
// column; an all-null column is null.
func (d *Dataset) ColumnKind(name string) Kind {
	col, ok := d.cells[name]
	if !ok {
		return KindNull
	}
	kind := KindNull
	for _, v := range col {
		if v.IsNull() {
			continue
		}
		if kind == KindNull {
			kind = v.Kind()
			continue
		}
		if kind != v.Kind() {
			return KindString
		}
	}
	return kind
}

// Schema returns the column kinds keyed by column name.
func (d *Dataset) Schema() map[string]Kind {
	out := make(map[string]Kind, len(d.names))
	for _, n := range d.names {
		out[n] = d.ColumnKind(n)
	}
	return out
}

// SortedByRowKey returns a row-permuted copy of the dataset, sorted by the
// canonical string tuple of each full row taken in the given column order.
// Columns absent from the dataset contribute the null canonical form to the
// key, so two datasets with equal column sets sort identically. The sort is
// stable, making the comparison order deterministic even with duplicate rows.
func (d *Dataset) SortedByRowKey(order []string) *Dataset {
	n := d.NumRows()
	perm := make([]int, n)
	for i := range perm {
		perm[i] = i
	}
	keys := make([][]string, n)
	for i := 0; i < n; i++ {
		key := make([]string, len(order))
		for j, col := range order {
			key[j] = d.Cell(i, col).Canonical()
		}
		keys[i] = key
	}
	sort.SliceStable(perm, func(a, b int) bool {
		ka, kb := keys[perm[a]], keys[perm[b]]
		for j := range ka {
			if ka[j] != kb[j] {
				return ka[j] < kb[j]
			}
		}
		return false
	})

	out, _ := NewDataset(d.names)
	for _, i := range perm {
		_ = out.AppendRow(d.Row(i)...)
	}
	return out
}
