package anomaly

import "fmt"

// NoiseLabel marks a row not density-reachable from any core point. Such a
// row belongs to no cluster at all; density clustering makes no claim that
// every row needs one.
const NoiseLabel = -1

// DensityResult is the density-based clustering view: per-row cluster id or
// NoiseLabel. There is no distance-to-centroid here since density clusters
// have no centroids and may be non-convex.
type DensityResult struct {
	Labels     []int
	Clusters   int
	NoiseCount int
}

// FitDensity runs DBSCAN on the standardized matrix. eps is the neighborhood
// radius and minPts the minimum neighborhood population (the point itself
// counts) for a core point; both are externally supplied configuration, not
// tuned here. Rows reachable from no core point end up labeled NoiseLabel.
func FitDensity(z [][]float64, eps float64, minPts int) (*DensityResult, error) {
	if eps <= 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("density radius %g must be positive", eps)}
	}
	if minPts <= 0 {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("minimum neighborhood population %d must be positive", minPts)}
	}

	const unvisited = -2
	labels := make([]int, len(z))
	for i := range labels {
		labels[i] = unvisited
	}
	eps2 := eps * eps

	neighbors := func(i int) []int {
		var out []int
		for j := range z {
			if sqDist(z[i], z[j]) <= eps2 {
				out = append(out, j)
			}
		}
		return out
	}

	cluster := 0
	for i := range z {
		if labels[i] != unvisited {
			continue
		}
		nb := neighbors(i)
		if len(nb) < minPts {
			labels[i] = NoiseLabel
			continue
		}
		labels[i] = cluster
		// Expand the cluster over everything density-reachable from i.
		queue := append([]int(nil), nb...)
		for len(queue) > 0 {
			j := queue[0]
			queue = queue[1:]
			if labels[j] == NoiseLabel {
				// Border point: reachable but not core.
				labels[j] = cluster
			}
			if labels[j] != unvisited {
				continue
			}
			labels[j] = cluster
			jn := neighbors(j)
			if len(jn) >= minPts {
				queue = append(queue, jn...)
			}
		}
		cluster++
	}

	res := &DensityResult{Labels: labels, Clusters: cluster}
	for _, l := range labels {
		if l == NoiseLabel {
			res.NoiseCount++
		}
	}
	return res, nil
}
