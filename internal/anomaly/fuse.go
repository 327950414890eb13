package anomaly

import (
	"math"
	"sort"
)

// Warning flags one indication for manual review, with the criterion (or
// criteria) that triggered it.
type Warning struct {
	Row              int     `json:"row"`
	DensityNoise     bool    `json:"density_noise"`
	PartitionOutlier bool    `json:"partition_outlier"`
	Distance         float64 `json:"distance"`
	DensityLabel     int     `json:"density_label"`
}

// Fuse combines the two clustering views into a single warning set: a row is
// flagged if its density label is noise, or if its centroid distance exceeds
// the given percentile of the current run's distance distribution, or both.
// The threshold is recomputed per invocation over the full distribution; it is
// relative to the data at hand, never an absolute distance. rowIDs maps matrix
// positions to stable row identities; the result is the exact union of the two
// criteria, sorted by row identity.
func Fuse(rowIDs []int, part *PartitionResult, dens *DensityResult, percentile float64) ([]Warning, float64) {
	threshold := quantile(part.Distances, percentile/100)
	var out []Warning
	for i, id := range rowIDs {
		w := Warning{
			Row:          id,
			Distance:     part.Distances[i],
			DensityLabel: dens.Labels[i],
		}
		w.DensityNoise = dens.Labels[i] == NoiseLabel
		w.PartitionOutlier = part.Distances[i] > threshold
		if w.DensityNoise || w.PartitionOutlier {
			out = append(out, w)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Row < out[j].Row })
	return out, threshold
}

// quantile interpolates linearly between order statistics.
func quantile(vals []float64, q float64) float64 {
	if len(vals) == 0 {
		return 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	if q <= 0 {
		return cp[0]
	}
	if q >= 1 {
		return cp[len(cp)-1]
	}
	pos := q * float64(len(cp)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return cp[lo]
	}
	w := pos - float64(lo)
	return cp[lo]*(1-w) + cp[hi]*w
}
