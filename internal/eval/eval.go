// Package eval scores fitted probabilities against observed outcomes.
package eval

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/stat"
)

// Score summarizes binary predictions.
type Score struct {
	N        int
	Brier    float64
	Accuracy float64
}

// Brier is the mean squared difference between probability and outcome.
func Brier(p, y []float64) float64 {
	sq := make([]float64, len(p))
	for i := range p {
		d := p[i] - y[i]
		sq[i] = d * d
	}
	return stat.Mean(sq, nil)
}

// Accuracy is the share of rows where p > 0.5 agrees with y == 1.
func Accuracy(p, y []float64) float64 {
	hits := 0
	for i := range p {
		if (p[i] > 0.5) == (y[i] == 1) {
			hits++
		}
	}
	return float64(hits) / float64(len(p))
}

// Scores computes Brier score and accuracy. Both slices must be the same non-zero length.
func Scores(p, y []float64) (Score, error) {
	if len(p) != len(y) {
		return Score{}, fmt.Errorf("%d predictions for %d outcomes", len(p), len(y))
	}
	if len(p) == 0 {
		return Score{}, fmt.Errorf("no predictions to score")
	}
	return Score{N: len(p), Brier: Brier(p, y), Accuracy: Accuracy(p, y)}, nil
}

// Mean averages scores with equal weight.
func Mean(scores ...Score) Score {
	var out Score
	for _, s := range scores {
		out.N += s.N
		out.Brier += s.Brier
		out.Accuracy += s.Accuracy
	}
	out.Brier /= float64(len(scores))
	out.Accuracy /= float64(len(scores))
	return out
}

// Bin is one equal-width calibration bin over [Lo, Hi).
type Bin struct {
	Lo, Hi        float64
	Count         int
	MeanPredicted float64
	MeanObserved  float64
}

// Calibration groups predictions into n equal-width bins on [0, 1]. A prediction of exactly 1
// falls in the last bin. Empty bins report NaN means.
func Calibration(p, y []float64, n int) []Bin {
	bins := make([]Bin, n)
	for b := range bins {
		bins[b].Lo = float64(b) / float64(n)
		bins[b].Hi = float64(b+1) / float64(n)
	}
	for i, x := range p {
		b := int(x * float64(n))
		if b >= n {
			b = n - 1
		}
		if b < 0 {
			b = 0
		}
		bins[b].Count++
		bins[b].MeanPredicted += x
		bins[b].MeanObserved += y[i]
	}
	for b := range bins {
		if bins[b].Count == 0 {
			bins[b].MeanPredicted = math.NaN()
			bins[b].MeanObserved = math.NaN()
			continue
		}
		bins[b].MeanPredicted /= float64(bins[b].Count)
		bins[b].MeanObserved /= float64(bins[b].Count)
	}
	return bins
}

// RSquared is the coefficient of determination of the least-squares line of y on x.
func RSquared(x, y []float64) float64 {
	alpha, beta := stat.LinearRegression(x, y, nil, false)
	return stat.RSquared(x, y, nil, alpha, beta)
}
