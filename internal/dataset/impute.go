package dataset

// ColumnStats records what the imputer did to one feature column.
type ColumnStats struct {
	Column   string
	Observed int
	Imputed  int
	Mean     float64
}

// MissingFraction is the share of values that had to be imputed.
func (s ColumnStats) MissingFraction() float64 {
	total := s.Observed + s.Imputed
	if total == 0 {
		return 0
	}
	return float64(s.Imputed) / float64(total)
}

// Impute fills missing entries per column with the column mean computed over
// observed values only. The input table is left untouched; a new table is
// returned together with per-column imputation stats. A column with no
// observed values at all yields an ImputationError. Same input, same output:
// the fill is fully deterministic.
func Impute(t *Table) (*Table, []ColumnStats, error) {
	stats := make([]ColumnStats, len(FeatureColumns))
	for j, col := range FeatureColumns {
		var sum float64
		var n int
		for _, row := range t.Rows {
			if v := row.Feature(col); !v.Missing {
				sum += v.Num
				n++
			}
		}
		if n == 0 && len(t.Rows) > 0 {
			return nil, nil, &ImputationError{Column: col}
		}
		mean := 0.0
		if n > 0 {
			mean = sum / float64(n)
		}
		stats[j] = ColumnStats{Column: col, Observed: n, Mean: mean}
	}

	out := &Table{Rows: make([]Indication, len(t.Rows))}
	for i, row := range t.Rows {
		filled := row
		for j, col := range FeatureColumns {
			if row.Feature(col).Missing {
				filled.setFeature(col, Value{Num: stats[j].Mean})
				stats[j].Imputed++
			}
		}
		out.Rows[i] = filled
	}
	return out, stats, nil
}
