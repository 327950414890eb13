package anomaly

import (
	"fmt"

	"github.com/google/uuid"

	"github.com/fzorr369/KI-Use-Case-Demo/internal/dataset"
)

// Params are the externally supplied detection parameters. The percentile
// threshold and the density radius/population were discovered empirically on
// one dataset in the source system; here they are explicit configuration with
// defaults, not constants baked into the engine.
type Params struct {
	Components int
	KMin       int
	KMax       int
	Seed       int64
	Eps        float64
	MinPts     int
	Percentile float64
}

// DefaultParams mirrors the source system's empirical settings.
func DefaultParams() Params {
	return Params{
		Components: 2,
		KMin:       2,
		KMax:       10,
		Seed:       42,
		Eps:        1.5,
		MinPts:     3,
		Percentile: 99.5,
	}
}

// Validate reports configuration problems before any computation starts.
func (p Params) Validate() error {
	if p.Components <= 0 || p.Components > len(dataset.FeatureColumns) {
		return &ConfigurationError{Reason: fmt.Sprintf("component count %d outside 1..%d", p.Components, len(dataset.FeatureColumns))}
	}
	if p.KMin < 2 || p.KMax < p.KMin {
		return &ConfigurationError{Reason: fmt.Sprintf("cluster count range %d..%d is invalid", p.KMin, p.KMax)}
	}
	if p.Eps <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("density radius %g must be positive", p.Eps)}
	}
	if p.MinPts <= 0 {
		return &ConfigurationError{Reason: fmt.Sprintf("minimum neighborhood population %d must be positive", p.MinPts)}
	}
	if p.Percentile <= 0 || p.Percentile >= 100 {
		return &ConfigurationError{Reason: fmt.Sprintf("percentile %g outside (0, 100)", p.Percentile)}
	}
	return nil
}

// Result is one complete detection run over an indication table.
type Result struct {
	RunID       string
	Rows        int
	ImputeStats []dataset.ColumnStats
	Projection  *Projection
	Partition   *PartitionResult
	Density     *DensityResult
	Threshold   float64
	Warnings    []Warning
	// DataWarnings carries quality findings (zero-variance columns and the
	// like) that did not abort the run.
	DataWarnings []string
}

// Detect runs the full pipeline: normalize is assumed done at load time, so
// this imputes, standardizes, projects, clusters twice over the same
// standardized matrix and fuses the two views into the warning set. It either
// returns a complete result or fails with a typed error; it never returns a
// silently partial result.
func Detect(t *dataset.Table, p Params) (*Result, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	imputed, stats, err := dataset.Impute(t)
	if err != nil {
		return nil, err
	}
	m, err := imputed.Matrix()
	if err != nil {
		return nil, err
	}
	std, err := Standardize(m, dataset.FeatureColumns)
	if err != nil {
		return nil, err
	}
	proj, err := Project(std, p.Components)
	if err != nil {
		return nil, err
	}
	part, err := FitPartition(std.Z, p.KMin, p.KMax, p.Seed)
	if err != nil {
		return nil, err
	}
	dens, err := FitDensity(std.Z, p.Eps, p.MinPts)
	if err != nil {
		return nil, err
	}
	rowIDs := make([]int, len(imputed.Rows))
	for i, row := range imputed.Rows {
		rowIDs[i] = row.Index
	}
	warnings, threshold := Fuse(rowIDs, part, dens, p.Percentile)

	return &Result{
		RunID:        uuid.NewString(),
		Rows:         len(imputed.Rows),
		ImputeStats:  stats,
		Projection:   proj,
		Partition:    part,
		Density:      dens,
		Threshold:    threshold,
		Warnings:     warnings,
		DataWarnings: std.Warnings,
	}, nil
}
