package model

import (
	"fmt"

	"pancompare/pkg/align"
)

// BestHit is the single retained alignment for one (query genome, query
// sequence, hit genome) triple.
type BestHit struct {
	Genome     string // hit genome
	SequenceID string // hit sequence
	EValue     float64
}

// BestHitTable keeps, per query genome and query sequence, the best hit seen
// against every genome. Only a strictly lower e-value replaces an entry, so
// on a tie the first record wins.
type BestHitTable struct {
	hits map[string]map[string]map[string]BestHit
}

func NewBestHitTable() *BestHitTable {
	return &BestHitTable{hits: make(map[string]map[string]map[string]BestHit)}
}

// Insert records hit for queryGenome / querySequence unless a better one is
// already present.
func (t *BestHitTable) Insert(queryGenome, querySequence string, hit BestHit) {
	seqs, ok := t.hits[queryGenome]
	if !ok {
		seqs = make(map[string]map[string]BestHit)
		t.hits[queryGenome] = seqs
	}
	perGenome, ok := seqs[querySequence]
	if !ok {
		perGenome = make(map[string]BestHit)
		seqs[querySequence] = perGenome
	}
	prev, ok := perGenome[hit.Genome]
	if !ok || hit.EValue < prev.EValue {
		perGenome[hit.Genome] = hit
	}
}

// Hits returns the per-genome best hits recorded for one query sequence.
func (t *BestHitTable) Hits(queryGenome, querySequence string) map[string]BestHit {
	return t.hits[queryGenome][querySequence]
}

// HasHits reports whether any best hit is recorded for the query sequence.
func (t *BestHitTable) HasHits(queryGenome, querySequence string) bool {
	return len(t.hits[queryGenome][querySequence]) > 0
}

// ConservedGenomes counts the distinct genomes a query sequence has a best
// hit in, not counting the query genome itself.
func (t *BestHitTable) ConservedGenomes(queryGenome, querySequence string) int {
	n := 0
	for hitGenome := range t.hits[queryGenome][querySequence] {
		if hitGenome != queryGenome {
			n++
		}
	}
	return n
}

// BuildBestHitTable reduces raw alignment records into the best-hit table.
// Both ids of every record must be composite genome~sequence ids.
func BuildBestHitTable(records []align.Record) (*BestHitTable, error) {
	table := NewBestHitTable()
	for _, rec := range records {
		queryGenome, querySequence, err := align.SplitID(rec.QueryID)
		if err != nil {
			return nil, fmt.Errorf("alignment query id: %w", err)
		}
		hitGenome, hitSequence, err := align.SplitID(rec.SubjectID)
		if err != nil {
			return nil, fmt.Errorf("alignment subject id: %w", err)
		}
		table.Insert(queryGenome, querySequence, BestHit{
			Genome:     hitGenome,
			SequenceID: hitSequence,
			EValue:     rec.EValue,
		})
	}
	return table, nil
}
