package anomaly

import (
	"errors"
	"testing"

	"github.com/fzorr369/KI-Use-Case-Demo/internal/dataset"
)

func row(idx int, a, da, sa, scan float64) dataset.Indication {
	return dataset.Indication{
		Index:      idx,
		Indikation: idx,
		A:          dataset.Num(a),
		DA:         dataset.Num(da),
		SA:         dataset.Num(sa),
		Scan:       dataset.Num(scan),
	}
}

// outlierTable is two tight groups of regular readings plus one reading far
// away from everything else.
func outlierTable() *dataset.Table {
	t := &dataset.Table{}
	for i := 0; i < 5; i++ {
		j := float64(i) * 0.2
		t.Rows = append(t.Rows, row(i, 80+j, 10+j, 45+j, 100+j))
		t.Rows = append(t.Rows, row(5+i, 60+j, 20+j, 55+j, 300+j))
	}
	t.Rows = append(t.Rows, row(10, 5, 90, 200, 900))
	return t
}

func TestDetectFlagsExtremeReading(t *testing.T) {
	res, err := Detect(outlierTable(), DefaultParams())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if res.RunID == "" {
		t.Fatalf("missing run id")
	}
	if res.Rows != 11 {
		t.Fatalf("rows = %d, want 11", res.Rows)
	}
	if len(res.ImputeStats) != len(dataset.FeatureColumns) {
		t.Fatalf("imputation stats for %d columns, want %d", len(res.ImputeStats), len(dataset.FeatureColumns))
	}
	var extreme *Warning
	for i := range res.Warnings {
		if res.Warnings[i].Row == 10 {
			extreme = &res.Warnings[i]
		}
	}
	if extreme == nil {
		t.Fatalf("extreme reading not in warnings: %+v", res.Warnings)
	}
	if !extreme.DensityNoise {
		t.Fatalf("extreme reading = %+v, want density noise", extreme)
	}
	if res.Density.NoiseCount < 1 {
		t.Fatalf("density noise count = %d, want at least the extreme reading", res.Density.NoiseCount)
	}
}

func TestDetectImputesBeforeClustering(t *testing.T) {
	tbl := outlierTable()
	// Knock one regular value out; the column mean keeps it near its group.
	tbl.Rows[0].DA = dataset.MissingValue()
	res, err := Detect(tbl, DefaultParams())
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	for _, s := range res.ImputeStats {
		if s.Column != "DA" {
			continue
		}
		if s.Imputed != 1 || s.Observed != 10 {
			t.Fatalf("DA stats = %+v, want 1 imputed of 11", s)
		}
	}
}

func TestDetectReproducible(t *testing.T) {
	p := DefaultParams()
	a, err := Detect(outlierTable(), p)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	b, err := Detect(outlierTable(), p)
	if err != nil {
		t.Fatalf("Detect: %v", err)
	}
	if a.Threshold != b.Threshold || len(a.Warnings) != len(b.Warnings) {
		t.Fatalf("identical inputs diverged: threshold %g/%g, %d/%d warnings",
			a.Threshold, b.Threshold, len(a.Warnings), len(b.Warnings))
	}
	for i := range a.Warnings {
		if a.Warnings[i] != b.Warnings[i] {
			t.Fatalf("warning %d diverged: %+v vs %+v", i, a.Warnings[i], b.Warnings[i])
		}
	}
	if a.RunID == b.RunID {
		t.Fatalf("run ids must be unique per run")
	}
}

func TestDetectRejectsBadParams(t *testing.T) {
	cases := []func(*Params){
		func(p *Params) { p.Components = 0 },
		func(p *Params) { p.Components = len(dataset.FeatureColumns) + 1 },
		func(p *Params) { p.KMin = 1 },
		func(p *Params) { p.KMax = p.KMin - 1 },
		func(p *Params) { p.Eps = 0 },
		func(p *Params) { p.MinPts = 0 },
		func(p *Params) { p.Percentile = 0 },
		func(p *Params) { p.Percentile = 100 },
	}
	for i, mutate := range cases {
		p := DefaultParams()
		mutate(&p)
		_, err := Detect(&dataset.Table{}, p)
		var ce *ConfigurationError
		if !errors.As(err, &ce) {
			t.Fatalf("case %d: error = %v, want ConfigurationError", i, err)
		}
	}
}

func TestDetectConstantInput(t *testing.T) {
	tbl := &dataset.Table{}
	for i := 0; i < 6; i++ {
		tbl.Rows = append(tbl.Rows, row(i, 80, 10, 45, 100))
	}
	_, err := Detect(tbl, DefaultParams())
	var de *DegenerateInputError
	if !errors.As(err, &de) {
		t.Fatalf("error = %v, want DegenerateInputError", err)
	}
}
