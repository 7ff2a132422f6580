package validate

import (
	"sort"

	"github.com/statext/statext/internal/tabular"
)

// Default bounds for the comparison policy.
const (
	DefaultNumericTolerance = 0.01
	DefaultMaxDiffRows      = 20
)

// Options configures the equality policy.
type Options struct {
	// NumericTolerance is the absolute tolerance for number cells.
	NumericTolerance float64
	// MaxDiffRows bounds the number of mismatching rows sampled in a diff.
	MaxDiffRows int
	// PositionalRows disables the sort-based row alignment and compares rows
	// strictly by position. The default (false) sorts both datasets by the
	// canonical tuple of the full row in reference column order, so row
	// ordering produced by the extraction routine does not affect the verdict.
	PositionalRows bool
}

// DefaultOptions returns the standard comparison policy.
func DefaultOptions() Options {
	return Options{
		NumericTolerance: DefaultNumericTolerance,
		MaxDiffRows:      DefaultMaxDiffRows,
	}
}

// Validator compares a candidate dataset against a reference dataset.
type Validator struct {
	opts Options
}

// New creates a validator. Zero or negative option values fall back to
// defaults.
func New(opts Options) *Validator {
	if opts.NumericTolerance <= 0 {
		opts.NumericTolerance = DefaultNumericTolerance
	}
	if opts.MaxDiffRows <= 0 {
		opts.MaxDiffRows = DefaultMaxDiffRows
	}
	return &Validator{opts: opts}
}

// Validate applies the equality policy in order: column-set equality, row
// count equality, then per-cell comparison over sort-aligned rows. A column
// set or row count mismatch short-circuits before any per-cell work.
func (v *Validator) Validate(candidate, reference *tabular.Dataset) *Verdict {
	diff := &Diff{}

	// 1. Column sets must match exactly (case-sensitive, order-independent).
	for _, name := range reference.ColumnNames() {
		if !candidate.HasColumn(name) {
			diff.MissingColumns = append(diff.MissingColumns, name)
		}
	}
	for _, name := range candidate.ColumnNames() {
		if !reference.HasColumn(name) {
			diff.ExtraColumns = append(diff.ExtraColumns, name)
		}
	}
	sort.Strings(diff.MissingColumns)
	sort.Strings(diff.ExtraColumns)
	if len(diff.MissingColumns) > 0 || len(diff.ExtraColumns) > 0 {
		return &Verdict{Pass: false, Diff: diff}
	}

	// 2. Row counts must match before any per-cell comparison.
	if candidate.NumRows() != reference.NumRows() {
		diff.RowCount = &RowCountMismatch{
			Expected: reference.NumRows(),
			Actual:   candidate.NumRows(),
		}
		return &Verdict{Pass: false, Diff: diff}
	}

	// 3. Column types, using the reference's declared column order.
	order := reference.ColumnNames()
	for _, name := range order {
		expected := reference.ColumnKind(name)
		actual := candidate.ColumnKind(name)
		if expected != actual {
			diff.TypeMismatches = append(diff.TypeMismatches, TypeMismatch{
				Column:   name,
				Expected: expected,
				Actual:   actual,
			})
		}
	}

	// 4. Cell comparison over sort-aligned rows.
	cmpCandidate, cmpReference := candidate, reference
	if !v.opts.PositionalRows {
		cmpCandidate = candidate.SortedByRowKey(order)
		cmpReference = reference.SortedByRowKey(order)
	}

	mismatchedRows := 0
	for i := 0; i < cmpReference.NumRows(); i++ {
		rowDiffers := false
		for _, name := range order {
			expected := cmpReference.Cell(i, name)
			actual := cmpCandidate.Cell(i, name)
			if expected.Equal(actual, v.opts.NumericTolerance) {
				continue
			}
			rowDiffers = true
			if mismatchedRows < v.opts.MaxDiffRows {
				diff.CellMismatches = append(diff.CellMismatches, CellMismatch{
					Row:      i + 1,
					Column:   name,
					Expected: expected.Canonical(),
					Actual:   actual.Canonical(),
				})
			}
		}
		if rowDiffers {
			mismatchedRows++
		}
	}
	if mismatchedRows > v.opts.MaxDiffRows {
		diff.TruncatedRows = mismatchedRows - v.opts.MaxDiffRows
	}

	if len(diff.TypeMismatches) > 0 || mismatchedRows > 0 {
		return &Verdict{Pass: false, Diff: diff}
	}
	return &Verdict{Pass: true}
}
