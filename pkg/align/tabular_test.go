package align

import (
	"strings"
	"testing"
)

func TestParseTabular(t *testing.T) {
	input := "g1~p1\tg2~p9\t88.5\t100\t10\t1\t1\t100\t1\t100\t1e-50\t180\n" +
		"g2~p9\tg1~p1\t88.5\t100\t10\t1\t1\t100\t1\t100\t2e-50\t179.5\n"

	records, err := ParseTabular(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseTabular failed: %v", err)
	}

	if len(records) != 2 {
		t.Fatalf("got %d records, want 2", len(records))
	}

	first := records[0]
	if first.QueryID != "g1~p1" || first.SubjectID != "g2~p9" {
		t.Errorf("ids: got %q -> %q", first.QueryID, first.SubjectID)
	}
	if first.PercentIdentity != 88.5 {
		t.Errorf("percent identity: got %v, want 88.5", first.PercentIdentity)
	}
	if first.Length != 100 || first.Mismatches != 10 || first.GapOpens != 1 {
		t.Errorf("alignment counts: got %d/%d/%d", first.Length, first.Mismatches, first.GapOpens)
	}
	if first.QueryStart != 1 || first.QueryEnd != 100 || first.SubjectStart != 1 || first.SubjectEnd != 100 {
		t.Errorf("coordinates: got %d-%d / %d-%d", first.QueryStart, first.QueryEnd, first.SubjectStart, first.SubjectEnd)
	}
	if first.EValue != 1e-50 {
		t.Errorf("e-value: got %v, want 1e-50", first.EValue)
	}
	if first.BitScore != 180 {
		t.Errorf("bit score: got %v, want 180", first.BitScore)
	}
}

func TestParseTabularWrongFieldCount(t *testing.T) {
	input := "g1~p1\tg2~p9\t88.5\t100\n"

	_, err := ParseTabular(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected an error for a truncated row")
	}
	if !strings.Contains(err.Error(), "line 1") {
		t.Errorf("error should name the line: %v", err)
	}
}

func TestParseTabularBadNumber(t *testing.T) {
	input := "g1~p1\tg2~p9\t88.5\t100\t10\t1\t1\t100\t1\t100\tnot-a-number\t180\n"

	_, err := ParseTabular(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected an error for a bad e-value")
	}
	if !strings.Contains(err.Error(), "not-a-number") {
		t.Errorf("error should quote the bad value: %v", err)
	}
}

func TestParseTabularEmpty(t *testing.T) {
	records, err := ParseTabular(strings.NewReader(""))
	if err != nil {
		t.Fatalf("ParseTabular failed: %v", err)
	}
	if len(records) != 0 {
		t.Fatalf("got %d records, want 0", len(records))
	}
}

func TestSplitID(t *testing.T) {
	genome, sequence, err := SplitID("genome_1~prot_00042")
	if err != nil {
		t.Fatalf("SplitID failed: %v", err)
	}
	if genome != "genome_1" || sequence != "prot_00042" {
		t.Errorf("got %q / %q", genome, sequence)
	}

	if _, _, err := SplitID("no-separator-here"); err == nil {
		t.Fatal("expected an error for an id without the separator")
	}
}

func TestJoinIDRoundTrip(t *testing.T) {
	id := JoinID("gen", "seq")
	genome, sequence, err := SplitID(id)
	if err != nil {
		t.Fatalf("SplitID failed: %v", err)
	}
	if genome != "gen" || sequence != "seq" {
		t.Errorf("round trip gave %q / %q", genome, sequence)
	}
}
