package anomaly

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// WriteWarningsCSV emits the warning table: row identity, both trigger flags,
// the centroid distance and the density label (noise renders as -1).
func (r *Result) WriteWarningsCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"Index", "DensityNoise", "PartitionOutlier", "CentroidDistance", "DensityLabel"}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, wr := range r.Warnings {
		rec := []string{
			strconv.Itoa(wr.Row),
			strconv.FormatBool(wr.DensityNoise),
			strconv.FormatBool(wr.PartitionOutlier),
			strconv.FormatFloat(wr.Distance, 'f', 6, 64),
			strconv.Itoa(wr.DensityLabel),
		}
		if err := cw.Write(rec); err != nil {
			return fmt.Errorf("write warning row %d: %w", wr.Row, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Markdown renders a compact run summary suitable for logs or review notes.
func (r *Result) Markdown() string {
	var b strings.Builder
	b.WriteString("[DETECTION SUMMARY]\n")
	b.WriteString(fmt.Sprintf("Run: %s\n", r.RunID))
	b.WriteString(fmt.Sprintf("Rows: %d\n\n", r.Rows))

	b.WriteString("[IMPUTATION]\n")
	for _, s := range r.ImputeStats {
		b.WriteString(fmt.Sprintf("- %s: %d observed, %d imputed (%.1f%% missing, fill mean %.4g)\n",
			s.Column, s.Observed, s.Imputed, s.MissingFraction()*100, s.Mean))
	}

	b.WriteString("\n[PROJECTION]\n")
	for c, ev := range r.Projection.Explained {
		b.WriteString(fmt.Sprintf("- PC%d explains %.1f%% of variance; loadings:", c+1, ev*100))
		for _, l := range r.Projection.Loadings[c] {
			b.WriteString(fmt.Sprintf(" %.3f", l))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n[CLUSTERING]\n")
	b.WriteString(fmt.Sprintf("- partition: k=%d (silhouette %.3f), populations %v\n", r.Partition.K, r.Partition.Score, r.Partition.Counts))
	b.WriteString(fmt.Sprintf("- density: %d clusters, %d noise rows\n", r.Density.Clusters, r.Density.NoiseCount))
	b.WriteString(fmt.Sprintf("- distance threshold: %.4g\n", r.Threshold))

	b.WriteString(fmt.Sprintf("\n[WARNINGS] (%d)\n", len(r.Warnings)))
	for _, w := range r.Warnings {
		var reasons []string
		if w.DensityNoise {
			reasons = append(reasons, "density-noise")
		}
		if w.PartitionOutlier {
			reasons = append(reasons, "partition-outlier")
		}
		b.WriteString(fmt.Sprintf("- row %d: %s (distance %.4g, density label %d)\n",
			w.Row, strings.Join(reasons, "+"), w.Distance, w.DensityLabel))
	}
	if len(r.DataWarnings) > 0 {
		b.WriteString("\n[NOTES]\n")
		for _, w := range r.DataWarnings {
			b.WriteString("- " + w + "\n")
		}
	}
	return b.String()
}
