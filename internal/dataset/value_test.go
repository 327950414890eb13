package dataset

import (
	"math"
	"testing"
)

func TestParseValue(t *testing.T) {
	cases := []struct {
		raw     string
		unit    Unit
		want    float64
		missing bool
	}{
		{"45.2 %", UnitPercent, 45.2, false},
		{"45.2%", UnitPercent, 45.2, false},
		{"82.50 %", UnitPercent, 82.5, false},
		{"12.34 mm", UnitMillimeter, 12.34, false},
		{"12,34 mm", UnitMillimeter, 12.34, false},
		{"-3.5 mm", UnitMillimeter, -3.5, false},
		{"7", UnitMillimeter, 7, false},
		{"", UnitPercent, 0, true},
		{"   ", UnitMillimeter, 0, true},
		{"---", UnitMillimeter, 0, true},
		{"--- mm", UnitMillimeter, 0, true},
		{"--- %", UnitPercent, 0, true},
		{"n/a", UnitMillimeter, 0, true},
		{"12.3.4 mm", UnitMillimeter, 0, true},
	}
	for _, c := range cases {
		got := ParseValue(c.raw, c.unit)
		if got.Missing != c.missing {
			t.Fatalf("ParseValue(%q) missing = %v, want %v", c.raw, got.Missing, c.missing)
		}
		if !c.missing && !almostEqual(got.Num, c.want, 1e-9) {
			t.Fatalf("ParseValue(%q) = %f, want %f", c.raw, got.Num, c.want)
		}
	}
}

func TestParseValueNeverFabricatesDefaults(t *testing.T) {
	// Malformed input must degrade to missing, not zero.
	got := ParseValue("garbage mm", UnitMillimeter)
	if !got.Missing {
		t.Fatalf("malformed value produced %f instead of missing", got.Num)
	}
}

func TestValueRoundTrip(t *testing.T) {
	cases := []struct {
		v    Value
		unit Unit
	}{
		{Num(45.2), UnitPercent},
		{Num(0), UnitPercent},
		{Num(12.34), UnitMillimeter},
		{Num(-3.5), UnitMillimeter},
	}
	for _, c := range cases {
		s := FormatValue(c.v, c.unit)
		back := ParseValue(s, c.unit)
		if back.Missing {
			t.Fatalf("round trip of %f via %q lost the value", c.v.Num, s)
		}
		if !almostEqual(back.Num, c.v.Num, 1e-9) {
			t.Fatalf("round trip of %f via %q = %f", c.v.Num, s, back.Num)
		}
	}
}

func TestFormatMissing(t *testing.T) {
	if got := FormatValue(MissingValue(), UnitMillimeter); got != "--- mm" {
		t.Fatalf("missing mm = %q", got)
	}
	if got := FormatValue(MissingValue(), UnitPercent); got != "--- %" {
		t.Fatalf("missing percent = %q", got)
	}
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
