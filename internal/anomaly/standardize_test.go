package anomaly

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestStandardizeZeroMeanUnitVariance(t *testing.T) {
	m := [][]float64{{1, 10}, {2, 20}, {3, 30}, {4, 40}}
	s, err := Standardize(m, []string{"x", "y"})
	if err != nil {
		t.Fatalf("Standardize: %v", err)
	}
	for j := 0; j < 2; j++ {
		var sum, ss float64
		for i := range s.Z {
			sum += s.Z[i][j]
		}
		mean := sum / float64(len(s.Z))
		for i := range s.Z {
			d := s.Z[i][j] - mean
			ss += d * d
		}
		variance := ss / float64(len(s.Z))
		if !almostEqual(mean, 0, 1e-12) {
			t.Fatalf("column %d mean = %g", j, mean)
		}
		if !almostEqual(variance, 1, 1e-12) {
			t.Fatalf("column %d variance = %g", j, variance)
		}
	}
	if len(s.Warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", s.Warnings)
	}
}

func TestStandardizeZeroVarianceColumn(t *testing.T) {
	m := [][]float64{{1, 7}, {2, 7}, {3, 7}}
	s, err := Standardize(m, []string{"x", "const"})
	if err != nil {
		t.Fatalf("Standardize: %v", err)
	}
	if len(s.Warnings) != 1 || !strings.Contains(s.Warnings[0], "const") {
		t.Fatalf("warnings = %v", s.Warnings)
	}
	for i := range s.Z {
		if s.Z[i][1] != 0 {
			t.Fatalf("constant column row %d = %g, want 0", i, s.Z[i][1])
		}
		if math.IsNaN(s.Z[i][0]) || math.IsInf(s.Z[i][0], 0) {
			t.Fatalf("live column row %d = %g", i, s.Z[i][0])
		}
	}
}

func TestStandardizeAllConstant(t *testing.T) {
	m := [][]float64{{7, 7}, {7, 7}}
	_, err := Standardize(m, []string{"x", "y"})
	var de *DegenerateInputError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want DegenerateInputError", err)
	}
}

func TestStandardizeEmpty(t *testing.T) {
	_, err := Standardize(nil, nil)
	var de *DegenerateInputError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want DegenerateInputError", err)
	}
}

func almostEqual(a, b, eps float64) bool {
	return math.Abs(a-b) <= eps
}
