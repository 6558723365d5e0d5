package model

import (
	"errors"
	"fmt"
	"sync"

	"gonum.org/v1/gonum/stat/combin"
	"pancompare/pkg/stats"
)

// SizeSummary aggregates the core and accessory counts over every genome
// subset of one size.
type SizeSummary struct {
	Size      int
	Core      stats.Summary
	Accessory stats.Summary
}

// Saturation enumerates, for every subset size k = 1..n, all k-subsets of
// the group. For each subset every universe ortholog counts as core when all
// subset members carry it and as accessory otherwise, and the per-subset
// counts are reduced to summary statistics. Subsets are spread over workers
// goroutines; the summaries do not depend on aggregation order.
func Saturation(genomes []*Genome, universe []string, workers int) ([]SizeSummary, error) {
	if len(genomes) == 0 {
		return nil, errors.New("saturation needs at least one genome")
	}
	if workers < 1 {
		workers = 1
	}

	curve := make([]SizeSummary, 0, len(genomes))
	for k := 1; k <= len(genomes); k++ {
		coreCounts, accessoryCounts := countSubsets(genomes, universe, k, workers)

		core, err := stats.Summarize(coreCounts)
		if err != nil {
			return nil, fmt.Errorf("subset size %d: %w", k, err)
		}
		accessory, err := stats.Summarize(accessoryCounts)
		if err != nil {
			return nil, fmt.Errorf("subset size %d: %w", k, err)
		}

		curve = append(curve, SizeSummary{Size: k, Core: core, Accessory: accessory})
	}
	return curve, nil
}

// countSubsets fans the k-subsets of genomes out to workers and collects one
// core / accessory count pair per subset. Subsets are generated lazily, the
// full combination list is never materialized.
func countSubsets(genomes []*Genome, universe []string, k, workers int) (core, accessory []float64) {
	jobs := make(chan []int, workers)
	go func() {
		gen := combin.NewCombinationGenerator(len(genomes), k)
		for gen.Next() {
			jobs <- gen.Combination(nil)
		}
		close(jobs)
	}()

	type counts struct {
		core      float64
		accessory float64
	}
	results := make(chan counts, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for subset := range jobs {
				var c counts
				for _, ortholog := range universe {
					inAll := true
					for _, gi := range subset {
						if !genomes[gi].Orthologs.Has(ortholog) {
							inAll = false
							break
						}
					}
					if inAll {
						c.core++
					} else {
						c.accessory++
					}
				}
				results <- c
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	for c := range results {
		core = append(core, c.core)
		accessory = append(accessory, c.accessory)
	}
	return core, accessory
}
