package anomaly

import (
	"fmt"
	"math"
)

// Standardized is a feature matrix rescaled to zero mean and unit variance
// per column. Distance computations are only meaningful in this space; raw
// mixed-unit values (percent vs millimeter) would let one axis dominate.
type Standardized struct {
	Z    [][]float64
	Mean []float64
	Std  []float64
	// Warnings lists data-quality findings, e.g. zero-variance columns whose
	// standardized contribution is forced to zero instead of dividing by it.
	Warnings []string
}

// Standardize rescales each column of m to zero mean and unit variance. A
// zero-variance column is kept as an all-zero column and noted as a warning.
// If every column is constant there is no signal left to cluster on, which is
// a DegenerateInputError.
func Standardize(m [][]float64, columns []string) (*Standardized, error) {
	if len(m) == 0 {
		return nil, &DegenerateInputError{Reason: "empty matrix"}
	}
	ncol := len(m[0])
	s := &Standardized{
		Z:    make([][]float64, len(m)),
		Mean: make([]float64, ncol),
		Std:  make([]float64, ncol),
	}
	n := float64(len(m))
	for j := 0; j < ncol; j++ {
		var sum float64
		for i := range m {
			sum += m[i][j]
		}
		s.Mean[j] = sum / n
		var ss float64
		for i := range m {
			d := m[i][j] - s.Mean[j]
			ss += d * d
		}
		s.Std[j] = math.Sqrt(ss / n)
	}
	live := 0
	for j := 0; j < ncol; j++ {
		if s.Std[j] > 0 {
			live++
			continue
		}
		name := fmt.Sprintf("column %d", j)
		if j < len(columns) {
			name = columns[j]
		}
		s.Warnings = append(s.Warnings, fmt.Sprintf("%s has zero variance; standardized to all zeros", name))
	}
	if live == 0 {
		return nil, &DegenerateInputError{Reason: "all columns have zero variance"}
	}
	for i := range m {
		row := make([]float64, ncol)
		for j := 0; j < ncol; j++ {
			if s.Std[j] > 0 {
				row[j] = (m[i][j] - s.Mean[j]) / s.Std[j]
			}
		}
		s.Z[i] = row
	}
	return s, nil
}
