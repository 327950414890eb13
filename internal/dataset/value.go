package dataset

import (
	"fmt"
	"strconv"
	"strings"
)

// Unit is the physical unit tag attached to a raw measurement string.
type Unit string

const (
	UnitPercent    Unit = "%"
	UnitMillimeter Unit = "mm"
	UnitDegree     Unit = "°"
)

// placeholder is the missing-value token emitted by the report converter,
// e.g. "--- mm" or "--- %".
const placeholder = "---"

// Value is a parsed measurement: either a numeric scalar in the column's
// physical unit or an explicit missing marker.
type Value struct {
	Num     float64
	Missing bool
}

// Num wraps a present numeric value.
func Num(x float64) Value { return Value{Num: x} }

// MissingValue returns the missing marker.
func MissingValue() Value { return Value{Missing: true} }

// ParseValue interprets a raw unit-tagged string as a numeric value in the
// implied unit. Empty strings, the "---" placeholder and anything that does
// not parse as a number all degrade to missing; malformed input never raises
// and never becomes a fabricated default.
func ParseValue(raw string, unit Unit) Value {
	s := strings.TrimSpace(raw)
	if s == "" || strings.HasPrefix(s, placeholder) {
		return Value{Missing: true}
	}
	// Strip a trailing unit symbol, with or without a separating space.
	s = strings.TrimSpace(strings.TrimSuffix(s, string(unit)))
	if s == "" || s == placeholder {
		return Value{Missing: true}
	}
	// Reports from German tooling occasionally carry comma decimals.
	if !strings.Contains(s, ".") {
		s = strings.Replace(s, ",", ".", 1)
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return Value{Missing: true}
	}
	return Value{Num: f}
}

// FormatValue renders a value back into the unit-tagged string form used by
// the long-format table. Missing values render as the placeholder token.
func FormatValue(v Value, unit Unit) string {
	if v.Missing {
		return placeholder + " " + string(unit)
	}
	switch unit {
	case UnitPercent:
		return strconv.FormatFloat(v.Num, 'f', -1, 64) + " %"
	default:
		return fmt.Sprintf("%.2f %s", v.Num, unit)
	}
}
