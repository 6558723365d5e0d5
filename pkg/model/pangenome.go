package model

import (
	"fmt"
	"math"
)

// GroupCore is one row of the pan-genome table.
type GroupCore struct {
	Group    string
	CoreSize int
	Percent  float64 // core size as percent of the mean genome size
}

// PanGenome intersects each group's ortholog sets and scales the core count
// by the group's mean genome size, rounded to two decimals. For a group of
// one the core is simply that genome's ortholog count.
func PanGenome(groups map[string][]*Genome, order []string) ([]GroupCore, error) {
	rows := make([]GroupCore, 0, len(order))
	for _, label := range order {
		members := groups[label]
		if len(members) == 0 {
			return nil, fmt.Errorf("group %s has no genomes", label)
		}

		core := members[0].Orthologs.Clone()
		for _, g := range members[1:] {
			core = core.Intersect(g.Orthologs)
		}

		var sizes float64
		for _, g := range members {
			sizes += float64(g.Size())
		}
		mean := sizes / float64(len(members))
		if mean == 0 {
			return nil, fmt.Errorf("group %s has a mean genome size of 0", label)
		}

		percent := math.Round(float64(core.Len())/mean*100*100) / 100
		rows = append(rows, GroupCore{Group: label, CoreSize: core.Len(), Percent: percent})
	}
	return rows, nil
}
