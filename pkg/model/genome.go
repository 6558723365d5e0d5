package model

import "sort"

// Set is a collection of ortholog cluster ids.
type Set map[string]struct{}

func NewSet(ids ...string) Set {
	s := make(Set, len(ids))
	for _, id := range ids {
		s.Add(id)
	}
	return s
}

func (s Set) Add(id string) {
	s[id] = struct{}{}
}

func (s Set) Has(id string) bool {
	_, ok := s[id]
	return ok
}

func (s Set) Len() int {
	return len(s)
}

func (s Set) Clone() Set {
	out := make(Set, len(s))
	for id := range s {
		out[id] = struct{}{}
	}
	return out
}

// Intersect returns the ids present in both sets.
func (s Set) Intersect(other Set) Set {
	small, large := s, other
	if len(large) < len(small) {
		small, large = large, small
	}
	out := make(Set)
	for id := range small {
		if large.Has(id) {
			out.Add(id)
		}
	}
	return out
}

// Sorted returns the ids in lexical order.
func (s Set) Sorted() []string {
	ids := make([]string, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Sequence is one named protein sequence of a genome.
type Sequence struct {
	Name string
	Seq  string
}

// Genome is one genome loaded from the annotate store. ProteinOrder maps a
// protein's position on the genome to its id; positions are not necessarily
// contiguous. GC and Length are only meaningful when HasFeatures is set,
// older stores do not record them.
type Genome struct {
	Name         string
	Sequences    map[string]Sequence
	ProteinOrder map[int]string
	Orthologs    Set
	GC           float64
	Length       int
	HasFeatures  bool
}

// Size is the number of sequences the genome carries.
func (g *Genome) Size() int {
	return len(g.Sequences)
}

// OrthologUniverse unions every genome's cluster ids into the sorted
// denominator list the saturation analysis counts against.
func OrthologUniverse(genomes map[string]*Genome) []string {
	universe := NewSet()
	for _, g := range genomes {
		for id := range g.Orthologs {
			universe.Add(id)
		}
	}
	return universe.Sorted()
}
