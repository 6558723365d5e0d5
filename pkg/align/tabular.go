// Package align runs the external all-vs-all protein alignment and parses
// its 12-column tabular output.
package align

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// IDSeparator joins genome and sequence names in the FASTA headers handed to
// the aligner, so every hit can be attributed back to its genome.
const IDSeparator = "~"

// Record is one row of tabular alignment output (outfmt 6).
type Record struct {
	QueryID         string
	SubjectID       string
	PercentIdentity float64
	Length          int
	Mismatches      int
	GapOpens        int
	QueryStart      int
	QueryEnd        int
	SubjectStart    int
	SubjectEnd      int
	EValue          float64
	BitScore        float64
}

// JoinID builds the composite id written into aligner FASTA headers.
func JoinID(genome, sequence string) string {
	return genome + IDSeparator + sequence
}

// SplitID breaks a composite <genome>~<sequence> id apart.
func SplitID(id string) (genome, sequence string, err error) {
	genome, sequence, ok := strings.Cut(id, IDSeparator)
	if !ok {
		return "", "", fmt.Errorf("id %q is not of the form genome%ssequence", id, IDSeparator)
	}
	return genome, sequence, nil
}

// ParseTabular reads alignment rows. A malformed row aborts the parse with an
// error naming its line.
func ParseTabular(r io.Reader) ([]Record, error) {
	var records []Record

	scanner := bufio.NewScanner(r)
	lineno := 0
	for scanner.Scan() {
		lineno++
		fields := strings.Split(strings.TrimSpace(scanner.Text()), "\t")
		if len(fields) != 12 {
			return nil, fmt.Errorf("alignment line %d: expected 12 fields, got %d", lineno, len(fields))
		}

		rec := Record{QueryID: fields[0], SubjectID: fields[1]}

		var err error
		if rec.PercentIdentity, err = strconv.ParseFloat(fields[2], 64); err != nil {
			return nil, parseError(lineno, "percent identity", fields[2])
		}

		intFields := []struct {
			name string
			dst  *int
		}{
			{"alignment length", &rec.Length},
			{"mismatches", &rec.Mismatches},
			{"gap opens", &rec.GapOpens},
			{"query start", &rec.QueryStart},
			{"query end", &rec.QueryEnd},
			{"subject start", &rec.SubjectStart},
			{"subject end", &rec.SubjectEnd},
		}
		for i, f := range intFields {
			v, convErr := strconv.Atoi(fields[3+i])
			if convErr != nil {
				return nil, parseError(lineno, f.name, fields[3+i])
			}
			*f.dst = v
		}

		if rec.EValue, err = strconv.ParseFloat(fields[10], 64); err != nil {
			return nil, parseError(lineno, "e-value", fields[10])
		}
		if rec.BitScore, err = strconv.ParseFloat(fields[11], 64); err != nil {
			return nil, parseError(lineno, "bit score", fields[11])
		}

		records = append(records, rec)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading alignment output: %w", err)
	}
	return records, nil
}

func parseError(line int, field, value string) error {
	return fmt.Errorf("alignment line %d: bad %s %q", line, field, value)
}
