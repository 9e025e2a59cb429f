package metrics

import (
	"math"

	"github.com/montanaflynn/stats"
	"gonum.org/v1/gonum/floats"
)

// MinMax rescales xs to [0, 1] across the batch. When every value is equal
// (including a batch of one) all outputs are 0.
func MinMax(xs []float64) []float64 {
	out := make([]float64, len(xs))
	if len(xs) == 0 {
		return out
	}
	lo, hi := floats.Min(xs), floats.Max(xs)
	span := hi - lo
	if span == 0 {
		return out
	}
	for i, x := range xs {
		out[i] = (x - lo) / span
	}
	return out
}

// ZScores standardizes xs with the population mean and standard deviation.
// A zero standard deviation yields all-zero scores. It also returns the mean
// and standard deviation used.
func ZScores(xs []float64) (z []float64, mu, sigma float64) {
	z = make([]float64, len(xs))
	if len(xs) == 0 {
		return z, 0, 0
	}
	mu, _ = stats.Mean(xs)
	sigma, _ = stats.StandardDeviationPopulation(xs)
	if sigma == 0 || math.IsNaN(sigma) {
		return z, mu, 0
	}
	for i, x := range xs {
		z[i] = (x - mu) / sigma
	}
	return z, mu, sigma
}
