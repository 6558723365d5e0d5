package model

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Metadata maps group labels to genome names. Groups keep the order they
// first appear in the file, so the output tables are stable across runs.
type Metadata struct {
	groups map[string]Set
	order  []string
}

// Groups returns the labels in first-seen order.
func (m *Metadata) Groups() []string {
	out := make([]string, len(m.order))
	copy(out, m.order)
	return out
}

// Members returns the genome names of one group, sorted.
func (m *Metadata) Members(group string) []string {
	return m.groups[group].Sorted()
}

// Resolve maps every group to its member genomes, sorted by name. Every
// genome named in the metadata must exist in the store.
func (m *Metadata) Resolve(genomes map[string]*Genome) (map[string][]*Genome, error) {
	out := make(map[string][]*Genome, len(m.groups))
	for group, names := range m.groups {
		members := make([]*Genome, 0, names.Len())
		for _, name := range names.Sorted() {
			g, ok := genomes[name]
			if !ok {
				return nil, fmt.Errorf("metadata group %s references genome %s, which is not in the store", group, name)
			}
			members = append(members, g)
		}
		out[group] = members
	}
	return out, nil
}

// ParseMetadata reads genome<TAB>group lines. A genome may appear only once
// across the whole file.
func ParseMetadata(r io.Reader) (*Metadata, error) {
	meta := &Metadata{groups: make(map[string]Set)}
	seen := make(map[string]string) // genome -> group, for the duplicate report

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		fields := strings.Split(strings.TrimSpace(scanner.Text()), "\t")
		if len(fields) != 2 {
			return nil, fmt.Errorf("metadata line %d: expected genome<TAB>group, got %d fields", lineno, len(fields))
		}
		genome, group := fields[0], fields[1]

		if prev, dup := seen[genome]; dup {
			return nil, fmt.Errorf("duplicate entry in metadata file: %s (already in group %s)", genome, prev)
		}
		seen[genome] = group

		if _, ok := meta.groups[group]; !ok {
			meta.groups[group] = NewSet()
			meta.order = append(meta.order, group)
		}
		meta.groups[group].Add(genome)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading metadata: %w", err)
	}
	if len(meta.order) == 0 {
		return nil, errors.New("metadata file has no entries")
	}
	return meta, nil
}

// ParseMetadataFile opens path and parses it.
func ParseMetadataFile(path string) (*Metadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open metadata: %w", err)
	}
	defer f.Close()

	meta, err := ParseMetadata(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return meta, nil
}
