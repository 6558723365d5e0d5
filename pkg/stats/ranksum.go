package stats

import (
	"fmt"
	"math"
	"sort"

	"gonum.org/v1/gonum/stat/distuv"
)

// TestResult is the outcome of one two-sample rank-sum test.
type TestResult struct {
	U float64 // smaller of the two U statistics
	P float64 // two-sided p-value from the normal approximation
}

// PairResult names the two groups a TestResult belongs to.
type PairResult struct {
	GroupA string
	GroupB string
	TestResult
}

// MannWhitneyU compares two samples with the rank-sum test: ties get average
// ranks, the variance is tie-corrected and the z-score carries a continuity
// correction. When every pooled value is identical there is no separation to
// test, so the result is p = 1 rather than an error.
func MannWhitneyU(x, y []float64) (TestResult, error) {
	if len(x) == 0 || len(y) == 0 {
		return TestResult{}, fmt.Errorf("rank-sum test needs observations in both groups, got %d and %d", len(x), len(y))
	}

	n1 := float64(len(x))
	n2 := float64(len(y))
	n := n1 + n2

	pooled := make([]float64, 0, len(x)+len(y))
	pooled = append(pooled, x...)
	pooled = append(pooled, y...)
	ranks, tieTerm := rankWithTies(pooled)

	var r1 float64
	for i := range x {
		r1 += ranks[i]
	}

	u1 := n1*n2 + n1*(n1+1)/2 - r1
	u2 := n1*n2 - u1

	result := TestResult{U: math.Min(u1, u2)}

	tieCorrection := 1 - tieTerm/(n*n*n-n)
	sd := math.Sqrt(tieCorrection * n1 * n2 * (n + 1) / 12)
	if sd == 0 {
		result.P = 1
		return result, nil
	}

	meanU := n1*n2/2 + 0.5 // continuity correction
	z := (math.Max(u1, u2) - meanU) / sd
	result.P = 2 * distuv.UnitNormal.Survival(math.Abs(z))
	return result, nil
}

// PairwiseMannWhitney tests every unordered pair of labels, pairs ordered as
// the labels are given.
func PairwiseMannWhitney(groups map[string][]float64, order []string) ([]PairResult, error) {
	results := make([]PairResult, 0, len(order)*(len(order)-1)/2)
	for i := 0; i < len(order); i++ {
		for j := i + 1; j < len(order); j++ {
			a, b := order[i], order[j]
			res, err := MannWhitneyU(groups[a], groups[b])
			if err != nil {
				return nil, fmt.Errorf("groups %q vs %q: %w", a, b, err)
			}
			results = append(results, PairResult{GroupA: a, GroupB: b, TestResult: res})
		}
	}
	return results, nil
}

// rankWithTies assigns 1-based average ranks to values and reports the tie
// term sum(t^3 - t) over tie groups, which the variance correction needs.
func rankWithTies(values []float64) ([]float64, float64) {
	idx := make([]int, len(values))
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return values[idx[a]] < values[idx[b]] })

	ranks := make([]float64, len(values))
	var tieTerm float64
	for i := 0; i < len(idx); {
		j := i
		for j < len(idx) && values[idx[j]] == values[idx[i]] {
			j++
		}
		avg := float64(i+j+1) / 2 // mean of 1-based ranks i+1 .. j
		for k := i; k < j; k++ {
			ranks[idx[k]] = avg
		}
		if t := float64(j - i); t > 1 {
			tieTerm += t*t*t - t
		}
		i = j
	}
	return ranks, tieTerm
}
