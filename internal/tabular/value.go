package tabular

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the type of a cell value.
type Kind string

const (
	KindNull   Kind = "null"
	KindString Kind = "string"
	KindNumber Kind = "number"
	KindDate   Kind = "date"
)

// Value is a single typed cell. The zero value is the null sentinel.
type Value struct {
	kind Kind
	str  string
	num  float64
	date time.Time
}

// Null returns the null sentinel value. Null compares equal only to itself.
func Null() Value {
	return Value{kind: KindNull}
}

// String returns a string-typed value.
func String(s string) Value {
	return Value{kind: KindString, str: s}
}

// Number returns a number-typed value.
func Number(f float64) Value {
	return Value{kind: KindNumber, num: f}
}

// Date returns a date-typed value. Only the calendar date is significant;
// any time-of-day component is ignored on comparison.
func Date(t time.Time) Value {
	return Value{kind: KindDate, date: t}
}

// dateLayouts are the textual date forms recognized by Infer, tried in order.
var dateLayouts = []string{
	"2006-01-02",
	"01/02/2006",
	"02 Jan 2006",
	"Jan 2, 2006",
	"2 Jan 2006",
	"2006/01/02",
}

// Infer converts raw text to a typed value: empty text becomes null, numeric
// text a number, recognized date forms a date, and anything else a string.
// Surrounding whitespace never affects the inferred kind.
func Infer(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return Null()
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err == nil {
		return Number(f)
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, trimmed); err == nil {
			return Date(t)
		}
	}
	return String(raw)
}

// Kind returns the type of the value.
func (v Value) Kind() Kind {
	if v.kind == "" {
		return KindNull
	}
	return v.kind
}

// IsNull reports whether the value is the null sentinel.
func (v Value) IsNull() bool {
	return v.Kind() == KindNull
}

// Text returns the raw string for string values, and "" otherwise.
func (v Value) Text() string { return v.str }

// Float returns the numeric value for number values, and 0 otherwise.
func (v Value) Float() float64 { return v.num }

// Time returns the date for date values, and the zero time otherwise.
func (v Value) Time() time.Time { return v.date }

// Canonical renders the value as a deterministic string. It is used both for
// row sort keys and for diff output, so it must be stable across runs.
func (v Value) Canonical() string {
	switch v.Kind() {
	case KindNull:
		return "<null>"
	case KindString:
		return strings.TrimSpace(v.str)
	case KindNumber:
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	case KindDate:
		return v.date.Format("2006-01-02")
	default:
		return ""
	}
}

// Equal compares two cells under the dataset equality policy: strings are
// compared after trimming surrounding whitespace, numbers within the given
// absolute tolerance, dates by calendar value, and null equals only null.
// Values of different kinds are never equal.
func (v Value) Equal(other Value, tolerance float64) bool {
	if v.Kind() != other.Kind() {
		return false
	}
	switch v.Kind() {
	case KindNull:
		return true
	case KindString:
		return strings.TrimSpace(v.str) == strings.TrimSpace(other.str)
	case KindNumber:
		return math.Abs(v.num-other.num) <= tolerance
	case KindDate:
		y1, m1, d1 := v.date.Date()
		y2, m2, d2 := other.date.Date()
		return y1 == y2 && m1 == m2 && d1 == d2
	default:
		return false
	}
}

// GoString implements fmt.GoStringer for readable test failures.
func (v Value) GoString() string {
	return fmt.Sprintf("tabular.%s(%s)", v.Kind(), v.Canonical())
}
