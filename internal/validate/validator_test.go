package validate

import (
	"fmt"
	"strings"
	"testing"

	"github.com/statext/statext/internal/tabular"
	"github.com/stretchr/testify/require"
)

func mustDataset(t *testing.T, csv string) *tabular.Dataset {
	t.Helper()
	ds, err := tabular.ReadCSV(strings.NewReader(csv))
	require.NoError(t, err)
	return ds
}

func TestValidate_Reflexivity(t *testing.T) {
	ds := mustDataset(t, "date,description,amount\n2024-01-02,Coffee,-4.50\n2024-01-03,Payroll,2500.00\n,,\n")

	verdict := New(DefaultOptions()).Validate(ds, ds)
	require.True(t, verdict.Pass)
	require.Nil(t, verdict.Diff)
}

func TestValidate_ColumnSetMismatch(t *testing.T) {
	reference := mustDataset(t, "date,amount\n2024-01-02,10.00\n")
	candidate := mustDataset(t, "date,value\n2024-01-02,10.00\n")

	verdict := New(DefaultOptions()).Validate(candidate, reference)
	require.False(t, verdict.Pass)
	require.Equal(t, []string{"amount"}, verdict.Diff.MissingColumns)
	require.Equal(t, []string{"value"}, verdict.Diff.ExtraColumns)
	// Column mismatch short-circuits before any row comparison.
	require.Empty(t, verdict.Diff.CellMismatches)
	require.Nil(t, verdict.Diff.RowCount)
}

func TestValidate_ColumnNamesAreCaseSensitive(t *testing.T) {
	reference := mustDataset(t, "Date\n2024-01-02\n")
	candidate := mustDataset(t, "date\n2024-01-02\n")

	verdict := New(DefaultOptions()).Validate(candidate, reference)
	require.False(t, verdict.Pass)
	require.Equal(t, []string{"Date"}, verdict.Diff.MissingColumns)
}

func TestValidate_RowCountMismatchShortCircuits(t *testing.T) {
	reference := mustDataset(t, "date,amount\n2024-01-01,1\n2024-01-02,2\n2024-01-03,3\n2024-01-04,4\n2024-01-05,5\n")
	candidate := mustDataset(t, "date,amount\n2024-01-01,9\n2024-01-02,9\n2024-01-03,9\n2024-01-04,9\n")

	verdict := New(DefaultOptions()).Validate(candidate, reference)
	require.False(t, verdict.Pass)
	require.NotNil(t, verdict.Diff.RowCount)
	require.Equal(t, 5, verdict.Diff.RowCount.Expected)
	require.Equal(t, 4, verdict.Diff.RowCount.Actual)
	require.Empty(t, verdict.Diff.CellMismatches)
}

func TestValidate_ToleranceAndWhitespace(t *testing.T) {
	reference := mustDataset(t, "description,amount\nCoffee,10.00\nPayroll,2500.00\n")
	candidate, err := tabular.NewDataset([]string{"description", "amount"})
	require.NoError(t, err)
	require.NoError(t, candidate.AppendRow(tabular.String("  Coffee "), tabular.Number(10.009)))
	require.NoError(t, candidate.AppendRow(tabular.String("Payroll"), tabular.Number(2499.995)))

	verdict := New(DefaultOptions()).Validate(candidate, reference)
	require.True(t, verdict.Pass)
}

func TestValidate_ToleranceExceeded(t *testing.T) {
	reference := mustDataset(t, "amount\n10.00\n")
	candidate := mustDataset(t, "amount\n10.02\n")

	verdict := New(DefaultOptions()).Validate(candidate, reference)
	require.False(t, verdict.Pass)
	require.Len(t, verdict.Diff.CellMismatches, 1)
	require.Equal(t, "amount", verdict.Diff.CellMismatches[0].Column)
}

func TestValidate_RowOrderIndependence(t *testing.T) {
	reference := mustDataset(t, "date,amount\n2024-01-01,1\n2024-01-02,2\n2024-01-03,3\n")
	permuted := mustDataset(t, "date,amount\n2024-01-03,3\n2024-01-01,1\n2024-01-02,2\n")

	v := New(DefaultOptions())
	require.True(t, v.Validate(permuted, reference).Pass)
	require.True(t, v.Validate(reference, permuted).Pass)
}

func TestValidate_PositionalRowsOption(t *testing.T) {
	reference := mustDataset(t, "date,amount\n2024-01-01,1\n2024-01-02,2\n")
	permuted := mustDataset(t, "date,amount\n2024-01-02,2\n2024-01-01,1\n")

	v := New(Options{NumericTolerance: 0.01, MaxDiffRows: 20, PositionalRows: true})
	require.False(t, v.Validate(permuted, reference).Pass)
}

func TestValidate_CurrencyStringsAreTypeMismatch(t *testing.T) {
	reference := mustDataset(t, "date,amount\n2024-01-02,10.00\n")
	candidate, err := tabular.NewDataset([]string{"date", "amount"})
	require.NoError(t, err)
	require.NoError(t, candidate.AppendRow(tabular.Infer("2024-01-02"), tabular.String("$10.00")))

	verdict := New(DefaultOptions()).Validate(candidate, reference)
	require.False(t, verdict.Pass)
	require.Len(t, verdict.Diff.TypeMismatches, 1)
	require.Equal(t, "amount", verdict.Diff.TypeMismatches[0].Column)
	require.Equal(t, tabular.KindNumber, verdict.Diff.TypeMismatches[0].Expected)
	require.Equal(t, tabular.KindString, verdict.Diff.TypeMismatches[0].Actual)
}

func TestValidate_DiffRowSampleIsBounded(t *testing.T) {
	var refRows, candRows strings.Builder
	refRows.WriteString("id,amount\n")
	candRows.WriteString("id,amount\n")
	for i := 0; i < 30; i++ {
		fmt.Fprintf(&refRows, "r%02d,%d\n", i, i)
		fmt.Fprintf(&candRows, "r%02d,%d\n", i, i+100)
	}
	reference := mustDataset(t, refRows.String())
	candidate := mustDataset(t, candRows.String())

	verdict := New(Options{NumericTolerance: 0.01, MaxDiffRows: 20}).Validate(candidate, reference)
	require.False(t, verdict.Pass)
	require.Len(t, verdict.Diff.CellMismatches, 20)
	require.Equal(t, 10, verdict.Diff.TruncatedRows)
}

func TestValidate_NullOnlyEqualsNull(t *testing.T) {
	reference := mustDataset(t, "id,memo\n1,\n")
	candidate, err := tabular.NewDataset([]string{"id", "memo"})
	require.NoError(t, err)
	require.NoError(t, candidate.AppendRow(tabular.Number(1), tabular.String("x")))

	verdict := New(DefaultOptions()).Validate(candidate, reference)
	require.False(t, verdict.Pass)
}

func TestDiffFormat(t *testing.T) {
	diff := &Diff{
		MissingColumns: []string{"amount"},
		TypeMismatches: []TypeMismatch{{Column: "date", Expected: tabular.KindDate, Actual: tabular.KindString}},
		CellMismatches: []CellMismatch{{Row: 3, Column: "amount", Expected: "10", Actual: "11"}},
		TruncatedRows:  5,
	}
	text := diff.Format()
	require.Contains(t, text, "missing columns: amount")
	require.Contains(t, text, `column "date": expected date values, got string`)
	require.Contains(t, text, `row 3, column "amount": expected 10, got 11`)
	require.Contains(t, text, "5 more mismatching rows omitted")
}
