package stats

import (
	"math"
)

// epsilon below which a standard deviation is treated as zero.
const zScoreEpsilon = 1e-9

// Mean calculates the arithmetic mean of a slice of float64 values
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}

	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance calculates the sample variance
func Variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}

	mean := Mean(values)
	var sumSquaredDiff float64
	for _, v := range values {
		diff := v - mean
		sumSquaredDiff += diff * diff
	}

	return sumSquaredDiff / float64(len(values)-1)
}

// StdDev calculates the sample standard deviation
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// ZScore calculates the z-score for each value. All scores are zero when the
// standard deviation is below epsilon.
func ZScore(values []float64) []float64 {
	mean := Mean(values)
	stddev := StdDev(values)

	result := make([]float64, len(values))
	if stddev < zScoreEpsilon {
		return result
	}

	for i, v := range values {
		result[i] = (v - mean) / stddev
	}

	return result
}
