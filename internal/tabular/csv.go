package tabular

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// LoadCSV reads a CSV file into a dataset. The first row is treated as the
// header naming the columns; every cell is typed via Infer.
func LoadCSV(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("csv: open %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	ds, err := ReadCSV(f)
	if err != nil {
		return nil, fmt.Errorf("csv: parse %s: %w", path, err)
	}
	return ds, nil
}

// ReadCSV reads CSV data with a header row into a dataset.
func ReadCSV(r io.Reader) (*Dataset, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("empty input (no header row)")
	}

	headers := records[0]
	ds, err := NewDataset(headers)
	if err != nil {
		return nil, err
	}

	for i, record := range records[1:] {
		if len(record) != len(headers) {
			return nil, fmt.Errorf("row %d has %d columns, expected %d", i+2, len(record), len(headers))
		}
		values := make([]Value, len(record))
		for j, raw := range record {
			values[j] = Infer(raw)
		}
		if err := ds.AppendRow(values...); err != nil {
			return nil, err
		}
	}

	return ds, nil
}
