package anomaly

import (
	"fmt"
	"math"
	"math/rand"
)

// PartitionResult is the centroid-based clustering view: every row gets a
// cluster id in 0..K-1 and its Euclidean distance, in standardized space, to
// the assigned centroid.
type PartitionResult struct {
	K         int
	Score     float64
	Labels    []int
	Distances []float64
	Counts    []int
	Centroids [][]float64
}

const kmeansMaxIterations = 100

// FitPartition fits a k-means partition for every candidate k in [kmin,kmax],
// scores each fit with the mean silhouette and keeps the best one (ties go to
// the smaller k). Each candidate derives its own sub-seed from the injected
// seed, so the per-candidate fits are independent of one another and of fit
// order. Candidates larger than the row count are skipped; a row count below
// the smallest candidate is an error rather than a silent degradation.
func FitPartition(z [][]float64, kmin, kmax int, seed int64) (*PartitionResult, error) {
	if kmin < 2 || kmax < kmin {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("cluster count range %d..%d is invalid", kmin, kmax)}
	}
	if len(z) < kmin {
		return nil, &DegenerateInputError{Reason: fmt.Sprintf("%d rows is fewer than the minimum candidate cluster count %d", len(z), kmin)}
	}

	var best *PartitionResult
	for k := kmin; k <= kmax; k++ {
		if k > len(z) {
			break
		}
		res := fitK(z, k, seed+int64(k))
		res.Score = silhouette(z, res.Labels, res.Counts)
		if best == nil || res.Score > best.Score {
			best = res
		}
	}
	return best, nil
}

// fitK runs seeded k-means++ initialization followed by Lloyd iterations.
func fitK(z [][]float64, k int, seed int64) *PartitionResult {
	rng := rand.New(rand.NewSource(seed))
	centroids := seedCentroids(z, k, rng)
	labels := make([]int, len(z))
	for iter := 0; iter < kmeansMaxIterations; iter++ {
		changed := false
		for i, row := range z {
			c, _ := nearest(row, centroids)
			if labels[i] != c {
				labels[i] = c
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}
		recompute(z, labels, centroids)
	}

	res := &PartitionResult{
		K:         k,
		Labels:    labels,
		Distances: make([]float64, len(z)),
		Counts:    make([]int, k),
		Centroids: centroids,
	}
	for i, row := range z {
		res.Distances[i] = math.Sqrt(sqDist(row, centroids[labels[i]]))
		res.Counts[labels[i]]++
	}
	return res
}

// seedCentroids picks initial centroids k-means++ style: first uniformly,
// the rest proportional to squared distance from the nearest chosen one.
func seedCentroids(z [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, clone(z[rng.Intn(len(z))]))
	d2 := make([]float64, len(z))
	for len(centroids) < k {
		total := 0.0
		for i, row := range z {
			_, d := nearest(row, centroids)
			d2[i] = d
			total += d
		}
		if total == 0 {
			// All remaining points coincide with a centroid; duplicate one.
			centroids = append(centroids, clone(z[rng.Intn(len(z))]))
			continue
		}
		target := rng.Float64() * total
		pick := len(z) - 1
		acc := 0.0
		for i, d := range d2 {
			acc += d
			if acc >= target {
				pick = i
				break
			}
		}
		centroids = append(centroids, clone(z[pick]))
	}
	return centroids
}

func recompute(z [][]float64, labels []int, centroids [][]float64) {
	nfeat := len(z[0])
	sums := make([][]float64, len(centroids))
	counts := make([]int, len(centroids))
	for c := range sums {
		sums[c] = make([]float64, nfeat)
	}
	for i, row := range z {
		c := labels[i]
		counts[c]++
		for j, v := range row {
			sums[c][j] += v
		}
	}
	for c := range centroids {
		if counts[c] == 0 {
			// Empty cluster keeps its previous centroid.
			continue
		}
		for j := range centroids[c] {
			centroids[c][j] = sums[c][j] / float64(counts[c])
		}
	}
}

func nearest(row []float64, centroids [][]float64) (int, float64) {
	bestC, bestD := 0, math.Inf(1)
	for c, cen := range centroids {
		if d := sqDist(row, cen); d < bestD {
			bestC, bestD = c, d
		}
	}
	return bestC, bestD
}

// silhouette is the mean silhouette coefficient over all rows. A row alone in
// its cluster contributes 0, which keeps degenerate single-point clusters
// from inflating the score.
func silhouette(z [][]float64, labels []int, counts []int) float64 {
	n := len(z)
	k := len(counts)
	if n == 0 || k < 2 {
		return 0
	}
	var total float64
	meanTo := make([]float64, k)
	for i, row := range z {
		own := labels[i]
		if counts[own] <= 1 {
			continue
		}
		for c := range meanTo {
			meanTo[c] = 0
		}
		for j, other := range z {
			if j == i {
				continue
			}
			meanTo[labels[j]] += math.Sqrt(sqDist(row, other))
		}
		a := meanTo[own] / float64(counts[own]-1)
		b := math.Inf(1)
		for c := 0; c < k; c++ {
			if c == own || counts[c] == 0 {
				continue
			}
			if m := meanTo[c] / float64(counts[c]); m < b {
				b = m
			}
		}
		if math.IsInf(b, 1) {
			continue
		}
		if m := math.Max(a, b); m > 0 {
			total += (b - a) / m
		}
	}
	return total / float64(n)
}

func sqDist(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

func clone(v []float64) []float64 {
	out := make([]float64, len(v))
	copy(out, v)
	return out
}
