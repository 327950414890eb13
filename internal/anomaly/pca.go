package anomaly

import (
	"fmt"
	"math"
)

// Projection holds the principal-component reduction of a standardized
// matrix: one coordinate pair (or triple, ...) per row, the fraction of total
// variance each retained axis explains, and the per-feature loading of each
// axis. Components are ordered by descending explained variance. The sign of
// a component is implementation-defined; only magnitudes and distances carry
// meaning.
type Projection struct {
	Coords    [][]float64
	Explained []float64
	Loadings  [][]float64
}

const (
	powerIterations = 500
	powerTolerance  = 1e-12
)

// Project computes the first components principal axes of the standardized
// matrix via power iteration with deflation on the covariance matrix.
func Project(s *Standardized, components int) (*Projection, error) {
	if len(s.Z) == 0 {
		return nil, &DegenerateInputError{Reason: "empty matrix"}
	}
	nfeat := len(s.Z[0])
	if components <= 0 || components > nfeat {
		return nil, &ConfigurationError{Reason: fmt.Sprintf("component count %d outside 1..%d", components, nfeat)}
	}

	cov := covariance(s.Z)
	total := 0.0
	for j := 0; j < nfeat; j++ {
		total += cov[j][j]
	}
	if total == 0 {
		return nil, &DegenerateInputError{Reason: "covariance has zero trace"}
	}

	p := &Projection{
		Coords:    make([][]float64, len(s.Z)),
		Explained: make([]float64, components),
		Loadings:  make([][]float64, components),
	}
	for c := 0; c < components; c++ {
		vec, val := dominantEigen(cov)
		p.Loadings[c] = vec
		p.Explained[c] = val / total
		deflate(cov, vec, val)
	}
	for i, row := range s.Z {
		coord := make([]float64, components)
		for c := 0; c < components; c++ {
			coord[c] = dot(row, p.Loadings[c])
		}
		p.Coords[i] = coord
	}
	return p, nil
}

func covariance(z [][]float64) [][]float64 {
	n := float64(len(z))
	nfeat := len(z[0])
	cov := make([][]float64, nfeat)
	for j := range cov {
		cov[j] = make([]float64, nfeat)
	}
	for _, row := range z {
		for j := 0; j < nfeat; j++ {
			for k := j; k < nfeat; k++ {
				cov[j][k] += row[j] * row[k]
			}
		}
	}
	for j := 0; j < nfeat; j++ {
		for k := j; k < nfeat; k++ {
			cov[j][k] /= n
			cov[k][j] = cov[j][k]
		}
	}
	return cov
}

// dominantEigen runs power iteration from a fixed start vector so repeated
// runs agree. The start is nudged off any exact eigen-orthogonal direction by
// using unequal entries.
func dominantEigen(a [][]float64) (vec []float64, val float64) {
	n := len(a)
	v := make([]float64, n)
	for i := range v {
		v[i] = 1 + float64(i)/float64(n)
	}
	normalize(v)
	for iter := 0; iter < powerIterations; iter++ {
		w := matVec(a, v)
		nw := norm(w)
		if nw == 0 {
			// a is (numerically) zero after deflation; any unit vector will do.
			return v, 0
		}
		for i := range w {
			w[i] /= nw
		}
		diff := 0.0
		for i := range w {
			d := w[i] - v[i]
			diff += d * d
		}
		v = w
		if diff < powerTolerance {
			break
		}
	}
	return v, dot(v, matVec(a, v))
}

func deflate(a [][]float64, vec []float64, val float64) {
	for j := range a {
		for k := range a[j] {
			a[j][k] -= val * vec[j] * vec[k]
		}
	}
}

func matVec(a [][]float64, v []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = dot(a[i], v)
	}
	return out
}

func dot(a, b []float64) float64 {
	var s float64
	for i := range a {
		s += a[i] * b[i]
	}
	return s
}

func norm(a []float64) float64 { return math.Sqrt(dot(a, a)) }

func normalize(a []float64) {
	n := norm(a)
	if n == 0 {
		return
	}
	for i := range a {
		a[i] /= n
	}
}
