package dataset

import "fmt"

// Feature columns consumed by the detection pipeline, in matrix order:
// amplitude, distance, sound path and scan position.
var FeatureColumns = []string{"A", "DA", "SA", "Scan"}

// FeatureUnits maps each feature column to its physical unit.
var FeatureUnits = map[string]Unit{
	"A":    UnitPercent,
	"DA":   UnitMillimeter,
	"SA":   UnitMillimeter,
	"Scan": UnitMillimeter,
}

// Indication is one recorded ultrasonic defect/signal reading. Index is the
// stable row identity assigned by the upstream long-format transformation.
type Indication struct {
	Index      int
	Indikation int
	A          Value
	DA         Value
	SA         Value
	Scan       Value
}

// Feature returns the value for the named feature column.
func (ind Indication) Feature(name string) Value {
	switch name {
	case "A":
		return ind.A
	case "DA":
		return ind.DA
	case "SA":
		return ind.SA
	case "Scan":
		return ind.Scan
	}
	return Value{Missing: true}
}

func (ind *Indication) setFeature(name string, v Value) {
	switch name {
	case "A":
		ind.A = v
	case "DA":
		ind.DA = v
	case "SA":
		ind.SA = v
	case "Scan":
		ind.Scan = v
	}
}

// Table holds the ingested long-format indication table. Rows are treated as
// immutable once created; pipeline stages derive new data instead of mutating.
type Table struct {
	Rows []Indication
	// Findings records values that degraded to missing on ingest because they
	// were present but unparseable. Observability only, never fatal.
	Findings []*ParseError
}

// Matrix converts the table into a row-major feature matrix. It fails if any
// value is still missing; callers are expected to impute first.
func (t *Table) Matrix() ([][]float64, error) {
	m := make([][]float64, len(t.Rows))
	for i, row := range t.Rows {
		vec := make([]float64, len(FeatureColumns))
		for j, col := range FeatureColumns {
			v := row.Feature(col)
			if v.Missing {
				return nil, fmt.Errorf("row %d: column %s is missing; impute before building the matrix", row.Index, col)
			}
			vec[j] = v.Num
		}
		m[i] = vec
	}
	return m, nil
}
