package model

import (
	"fmt"

	"pancompare/pkg/stats"
)

// Labels for the genome-level scalar comparisons.
const (
	FeatureGC     = "GC content"
	FeatureLength = "Genome length"
)

// FeatureGroup is one group's summary for a feature.
type FeatureGroup struct {
	Label string
	Stats stats.Summary
}

// FeatureComparison collects the per-group summaries and pairwise rank-sum
// tests for one feature.
type FeatureComparison struct {
	Feature string
	Groups  []FeatureGroup
	Tests   []stats.PairResult
}

// CompareFeatures summarizes gc content and genome length per group and
// tests every group pair. All genomes must come from a store that records
// the feature columns.
func CompareFeatures(groups map[string][]*Genome, order []string) ([]FeatureComparison, error) {
	gc := make(map[string][]float64, len(order))
	length := make(map[string][]float64, len(order))
	for _, label := range order {
		for _, g := range groups[label] {
			if !g.HasFeatures {
				return nil, fmt.Errorf("genome %s has no gc/length features recorded", g.Name)
			}
			gc[label] = append(gc[label], g.GC)
			length[label] = append(length[label], float64(g.Length))
		}
	}

	features := []struct {
		name   string
		series map[string][]float64
	}{
		{FeatureGC, gc},
		{FeatureLength, length},
	}

	comparisons := make([]FeatureComparison, 0, len(features))
	for _, feature := range features {
		cmp := FeatureComparison{Feature: feature.name}
		for _, label := range order {
			summary, err := stats.Summarize(feature.series[label])
			if err != nil {
				return nil, fmt.Errorf("%s for group %s: %w", feature.name, label, err)
			}
			cmp.Groups = append(cmp.Groups, FeatureGroup{Label: label, Stats: summary})
		}

		tests, err := stats.PairwiseMannWhitney(feature.series, order)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", feature.name, err)
		}
		cmp.Tests = tests

		comparisons = append(comparisons, cmp)
	}
	return comparisons, nil
}
