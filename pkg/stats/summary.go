package stats

import (
	"errors"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
)

var ErrNoObservations = errors.New("no observations to summarize")

// Summary holds the seven per-series statistics every result table reports.
type Summary struct {
	Mean   float64
	Median float64
	Std    float64
	Min    float64
	Max    float64
	P90    float64
	P10    float64
}

// Row returns the statistics in result-table column order.
func (s Summary) Row() []float64 {
	return []float64{s.Mean, s.Median, s.Std, s.Min, s.Max, s.P90, s.P10}
}

// Summarize computes mean, median, population standard deviation, min, max
// and the 90th / 10th percentiles of a series.
func Summarize(values []float64) (Summary, error) {
	if len(values) == 0 {
		return Summary{}, ErrNoObservations
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	return Summary{
		Mean:   stat.Mean(values, nil),
		Median: percentile(sorted, 50),
		Std:    stat.PopStdDev(values, nil),
		Min:    sorted[0],
		Max:    sorted[len(sorted)-1],
		P90:    percentile(sorted, 90),
		P10:    percentile(sorted, 10),
	}, nil
}

// percentile interpolates linearly at rank p/100 * (n-1). Input must be
// sorted. This is the definition the historical result tables use, which is
// not one of the cumulant kinds stat.Quantile implements.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 1 {
		return sorted[0]
	}
	rank := p / 100 * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}
