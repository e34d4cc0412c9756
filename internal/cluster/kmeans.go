// Package cluster partitions feature vectors with seeded multi-start k-means.
package cluster

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Standardize returns a z-scored copy of the row-major matrix x along with the column means
// and population standard deviations. Constant columns standardize to zero.
func Standardize(x [][]float64) (z [][]float64, means, stdDevs []float64) {
	if len(x) == 0 {
		return nil, nil, nil
	}
	nCols := len(x[0])
	n := float64(len(x))
	means = make([]float64, nCols)
	stdDevs = make([]float64, nCols)

	col := make([]float64, len(x))
	for j := 0; j < nCols; j++ {
		for i, row := range x {
			col[i] = row[j]
		}
		mean, variance := stat.MeanVariance(col, nil)
		if len(x) > 1 {
			// MeanVariance is unbiased; z-scores use the population variance.
			variance *= (n - 1) / n
		} else {
			variance = 0
		}
		means[j] = mean
		stdDevs[j] = math.Sqrt(variance)
	}

	z = make([][]float64, len(x))
	for i, row := range x {
		z[i] = make([]float64, nCols)
		for j, v := range row {
			if stdDevs[j] > 0 {
				z[i][j] = (v - means[j]) / stdDevs[j]
			}
		}
	}
	return z, means, stdDevs
}

// KMeans configures a k-means run. Each restart seeds its centroids with k-means++
// drawn from a single source seeded by Seed, and the restart with the lowest inertia wins.
type KMeans struct {
	K        int
	Restarts int
	MaxIter  int
	Tol      float64
	Seed     int64
}

// Result is the outcome of the best k-means restart.
type Result struct {
	Labels     []int
	Centroids  [][]float64
	Inertia    float64
	Iterations int
	Converged  bool
}

// Fit partitions the rows of x into K clusters.
func (km KMeans) Fit(x [][]float64) (*Result, error) {
	if km.K < 1 {
		return nil, fmt.Errorf("cluster count must be positive, got %d", km.K)
	}
	if len(x) < km.K {
		return nil, fmt.Errorf("cannot form %d clusters from %d rows", km.K, len(x))
	}
	for i, row := range x {
		if len(row) != len(x[0]) {
			return nil, fmt.Errorf("row %d has %d features, expected %d", i, len(row), len(x[0]))
		}
	}
	restarts := km.Restarts
	if restarts < 1 {
		restarts = 1
	}
	maxIter := km.MaxIter
	if maxIter < 1 {
		maxIter = 300
	}

	rng := rand.New(rand.NewSource(km.Seed))
	var best *Result
	for r := 0; r < restarts; r++ {
		res := km.lloyd(x, seedPlusPlus(x, km.K, rng), maxIter)
		if best == nil || res.Inertia < best.Inertia {
			best = res
		}
	}
	return best, nil
}

// lloyd iterates assignment and update steps until no label changes, centroids
// move less than Tol in total, or maxIter is reached.
func (km KMeans) lloyd(x [][]float64, centroids [][]float64, maxIter int) *Result {
	labels := make([]int, len(x))
	for i := range labels {
		labels[i] = -1
	}
	res := &Result{Labels: labels, Centroids: centroids}

	for iter := 1; iter <= maxIter; iter++ {
		res.Iterations = iter
		changed := assign(x, centroids, labels)

		next := update(x, labels, km.K, len(x[0]))
		fillEmpty(x, labels, next)

		shift := 0.
		for k := range centroids {
			shift += sqDist(centroids[k], next[k])
		}
		centroids = next
		res.Centroids = centroids

		if !changed || shift <= km.Tol {
			res.Converged = true
			break
		}
	}
	assign(x, centroids, labels)
	res.Inertia = inertia(x, centroids, labels)
	return res
}

func assign(x, centroids [][]float64, labels []int) bool {
	changed := false
	for i, row := range x {
		bestK, bestD := 0, math.Inf(1)
		for k, c := range centroids {
			if d := sqDist(row, c); d < bestD {
				bestK, bestD = k, d
			}
		}
		if labels[i] != bestK {
			labels[i] = bestK
			changed = true
		}
	}
	return changed
}

func update(x [][]float64, labels []int, k, dim int) [][]float64 {
	sums := make([][]float64, k)
	counts := make([]int, k)
	for c := range sums {
		sums[c] = make([]float64, dim)
	}
	for i, row := range x {
		floats.Add(sums[labels[i]], row)
		counts[labels[i]]++
	}
	for c := range sums {
		if counts[c] > 0 {
			floats.Scale(1/float64(counts[c]), sums[c])
		} else {
			sums[c] = nil
		}
	}
	return sums
}

// fillEmpty moves the point farthest from its centroid into each empty cluster.
func fillEmpty(x [][]float64, labels []int, centroids [][]float64) {
	for c := range centroids {
		if centroids[c] != nil {
			continue
		}
		far, farD := -1, -1.
		for i, row := range x {
			owner := centroids[labels[i]]
			if owner == nil {
				continue
			}
			if d := sqDist(row, owner); d > farD {
				far, farD = i, d
			}
		}
		if far < 0 {
			far = 0
		}
		centroids[c] = append([]float64(nil), x[far]...)
		labels[far] = c
	}
}

// seedPlusPlus chooses k initial centroids with D² weighting.
func seedPlusPlus(x [][]float64, k int, rng *rand.Rand) [][]float64 {
	centroids := make([][]float64, 0, k)
	centroids = append(centroids, append([]float64(nil), x[rng.Intn(len(x))]...))

	dists := make([]float64, len(x))
	for len(centroids) < k {
		total := 0.
		for i, row := range x {
			d := math.Inf(1)
			for _, c := range centroids {
				d = math.Min(d, sqDist(row, c))
			}
			dists[i] = d
			total += d
		}
		pick := 0
		if total > 0 {
			target := rng.Float64() * total
			for i, d := range dists {
				target -= d
				if target < 0 {
					pick = i
					break
				}
				pick = i
			}
		} else {
			pick = rng.Intn(len(x))
		}
		centroids = append(centroids, append([]float64(nil), x[pick]...))
	}
	return centroids
}

func inertia(x, centroids [][]float64, labels []int) float64 {
	s := 0.
	for i, row := range x {
		s += sqDist(row, centroids[labels[i]])
	}
	return s
}

func sqDist(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}
