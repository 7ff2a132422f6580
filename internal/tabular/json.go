package tabular

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// envelope is the JSON wire form a candidate routine emits: ordered columns,
// each with a name and an ordered list of cell values.
type envelope struct {
	Columns []envelopeColumn `json:"columns"`
}

type envelopeColumn struct {
	Name   string `json:"name"`
	Values []any  `json:"values"`
}

// DecodeEnvelope parses the JSON dataset envelope produced by an executed
// candidate routine. JSON numbers become number cells, JSON null becomes the
// null sentinel, and JSON strings are typed via Infer — the same inference
// the reference CSV loader applies, so both sides are normalized identically.
func DecodeEnvelope(data []byte) (*Dataset, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var env envelope
	if err := dec.Decode(&env); err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}
	if len(env.Columns) == 0 {
		return nil, fmt.Errorf("envelope: no columns")
	}

	names := make([]string, len(env.Columns))
	for i, c := range env.Columns {
		names[i] = c.Name
	}
	ds, err := NewDataset(names)
	if err != nil {
		return nil, fmt.Errorf("envelope: %w", err)
	}

	rows := len(env.Columns[0].Values)
	for _, c := range env.Columns {
		if len(c.Values) != rows {
			return nil, fmt.Errorf("envelope: column %q has %d values, expected %d", c.Name, len(c.Values), rows)
		}
	}

	for i := 0; i < rows; i++ {
		values := make([]Value, len(env.Columns))
		for j, c := range env.Columns {
			v, err := decodeCell(c.Values[i])
			if err != nil {
				return nil, fmt.Errorf("envelope: column %q row %d: %w", c.Name, i+1, err)
			}
			values[j] = v
		}
		if err := ds.AppendRow(values...); err != nil {
			return nil, fmt.Errorf("envelope: %w", err)
		}
	}

	return ds, nil
}

func decodeCell(raw any) (Value, error) {
	switch v := raw.(type) {
	case nil:
		return Null(), nil
	case string:
		return Infer(v), nil
	case json.Number:
		f, err := v.Float64()
		if err != nil {
			return Null(), fmt.Errorf("bad number %q: %w", v.String(), err)
		}
		return Number(f), nil
	default:
		return Null(), fmt.Errorf("unsupported cell type %T", raw)
	}
}
