package telemetry

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary describes one population series.
type Summary struct {
	Mean float64
	Std  float64
	Min  float64
	Max  float64
	CV   float64 // Std / Mean, 0 when the mean is 0
	// Final is the last value; Zeroed is the index of the first zero, or -1.
	Final  float64
	Zeroed int
}

// Summarize computes descriptive statistics for a series.
func Summarize(series []float64) Summary {
	if len(series) == 0 {
		return Summary{Zeroed: -1}
	}
	s := Summary{
		Min:    floats.Min(series),
		Max:    floats.Max(series),
		Final:  series[len(series)-1],
		Zeroed: -1,
	}
	if len(series) == 1 {
		s.Mean = series[0]
	} else {
		s.Mean, s.Std = stat.MeanStdDev(series, nil)
	}
	if s.Mean != 0 {
		s.CV = s.Std / math.Abs(s.Mean)
	}
	for i, v := range series {
		if v == 0 {
			s.Zeroed = i
			break
		}
	}
	return s
}

// Coexistence returns how many leading samples have both series above zero.
func Coexistence(a, b []float64) int {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] <= 0 || b[i] <= 0 {
			return i
		}
	}
	return n
}
