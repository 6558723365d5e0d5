package model

import (
	"fmt"
	"sort"

	"pancompare/pkg/stats"
)

// ScoreFunc turns a conserved-neighbor count into a synteny sub-score in
// [0, 1], given the number of genomes in the comparison.
type ScoreFunc func(totalGenomes, hits int) float64

// RatioScore is the default policy: the fraction of the other genomes the
// neighbor is conserved in. A single-genome comparison scores 1.
func RatioScore(totalGenomes, hits int) float64 {
	if totalGenomes <= 1 {
		return 1
	}
	score := float64(hits) / float64(totalGenomes-1)
	if score > 1 {
		return 1
	}
	return score
}

// SyntenyEstimator scores neighbor conservation against a best-hit table.
type SyntenyEstimator struct {
	Table        *BestHitTable
	TotalGenomes int
	Score        ScoreFunc // nil means RatioScore
}

// PositionScores walks the genome's protein order and scores every occupied
// position as the mean of its upstream and downstream sub-scores. A missing
// neighbor position, or a neighbor with no recorded best hit, contributes
// the neutral sub-score 1.
func (e *SyntenyEstimator) PositionScores(g *Genome) []float64 {
	score := e.Score
	if score == nil {
		score = RatioScore
	}

	positions := make([]int, 0, len(g.ProteinOrder))
	for p := range g.ProteinOrder {
		positions = append(positions, p)
	}
	sort.Ints(positions)

	scores := make([]float64, 0, len(positions))
	for _, p := range positions {
		upstream := e.neighborScore(g, p-1, score)
		downstream := e.neighborScore(g, p+1, score)
		scores = append(scores, (upstream+downstream)/2)
	}
	return scores
}

// neighborScore looks up the protein at position and scores its own
// conservation. The same lookup serves both directions.
func (e *SyntenyEstimator) neighborScore(g *Genome, position int, score ScoreFunc) float64 {
	id, ok := g.ProteinOrder[position]
	if !ok {
		return 1
	}
	if !e.Table.HasHits(g.Name, id) {
		return 1
	}
	return score(e.TotalGenomes, e.Table.ConservedGenomes(g.Name, id))
}

// GenomeSynteny pairs a genome with the summary of its position scores.
type GenomeSynteny struct {
	Genome string
	Stats  stats.Summary
}

// EstimateSynteny scores every genome against the table and summarizes its
// position scores, rows sorted by genome name.
func EstimateSynteny(genomes map[string]*Genome, table *BestHitTable, score ScoreFunc) ([]GenomeSynteny, error) {
	names := make([]string, 0, len(genomes))
	for name := range genomes {
		names = append(names, name)
	}
	sort.Strings(names)

	est := &SyntenyEstimator{Table: table, TotalGenomes: len(genomes), Score: score}

	rows := make([]GenomeSynteny, 0, len(names))
	for _, name := range names {
		scores := est.PositionScores(genomes[name])
		summary, err := stats.Summarize(scores)
		if err != nil {
			return nil, fmt.Errorf("synteny for genome %s: %w", name, err)
		}
		rows = append(rows, GenomeSynteny{Genome: name, Stats: summary})
	}
	return rows, nil
}
