package validate

import (
	"fmt"
	"strings"

	"github.com/statext/statext/internal/tabular"
)

// Verdict is the validator's result: pass/fail plus a structured diff on
// failure. It is never mutated after creation.
type Verdict struct {
	Pass bool  `json:"pass"`
	Diff *Diff `json:"diff,omitempty"`
}

// Diff enumerates every way a candidate dataset departed from the reference.
// Row samples are bounded by the validator's MaxDiffRows option.
type Diff struct {
	MissingColumns []string           `json:"missing_columns,omitempty"`
	ExtraColumns   []string           `json:"extra_columns,omitempty"`
	TypeMismatches []TypeMismatch     `json:"type_mismatches,omitempty"`
	RowCount       *RowCountMismatch  `json:"row_count,omitempty"`
	CellMismatches []CellMismatch     `json:"cell_mismatches,omitempty"`
	TruncatedRows  int                `json:"truncated_rows,omitempty"`
}

// TypeMismatch records a column whose dominant cell kind differs from the
// reference column's kind.
type TypeMismatch struct {
	Column   string       `json:"column"`
	Expected tabular.Kind `json:"expected"`
	Actual   tabular.Kind `json:"actual"`
}

// RowCountMismatch records differing row counts. When present no per-cell
// comparison was attempted.
type RowCountMismatch struct {
	Expected int `json:"expected"`
	Actual   int `json:"actual"`
}

// CellMismatch records one cell that differed, identified by the row's
// position in sorted comparison order.
type CellMismatch struct {
	Row      int    `json:"row"`
	Column   string `json:"column"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// MismatchedRows returns how many distinct rows had differing cells,
// including rows omitted from the bounded sample.
func (d *Diff) MismatchedRows() int {
	if d == nil {
		return 0
	}
	seen := make(map[int]struct{})
	for _, cm := range d.CellMismatches {
		seen[cm.Row] = struct{}{}
	}
	return len(seen) + d.TruncatedRows
}

// Format renders the diff as bounded, human-readable text suitable for
// inclusion in a critique.
func (d *Diff) Format() string {
	if d == nil {
		return ""
	}
	var b strings.Builder

	if len(d.MissingColumns) > 0 {
		fmt.Fprintf(&b, "missing columns: %s\n", strings.Join(d.MissingColumns, ", "))
	}
	if len(d.ExtraColumns) > 0 {
		fmt.Fprintf(&b, "unexpected columns: %s\n", strings.Join(d.ExtraColumns, ", "))
	}
	if d.RowCount != nil {
		fmt.Fprintf(&b, "row count mismatch: expected %d rows, got %d\n", d.RowCount.Expected, d.RowCount.Actual)
	}
	for _, tm := range d.TypeMismatches {
		fmt.Fprintf(&b, "column %q: expected %s values, got %s\n", tm.Column, tm.Expected, tm.Actual)
	}
	for _, cm := range d.CellMismatches {
		fmt.Fprintf(&b, "row %d, column %q: expected %s, got %s\n", cm.Row, cm.Column, cm.Expected, cm.Actual)
	}
	if d.TruncatedRows > 0 {
		fmt.Fprintf(&b, "(%d more mismatching rows omitted)\n", d.TruncatedRows)
	}

	return strings.TrimRight(b.String(), "\n")
}
