package model

import (
	"reflect"
	"strings"
	"testing"
)

func TestParseMetadata(t *testing.T) {
	input := "genome_1\tpathogenic\n" +
		"genome_3\tenvironmental\n" +
		"genome_2\tpathogenic\n"

	meta, err := ParseMetadata(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ParseMetadata failed: %v", err)
	}

	// Groups keep first-seen order, not alphabetical.
	if got := meta.Groups(); !reflect.DeepEqual(got, []string{"pathogenic", "environmental"}) {
		t.Errorf("groups: got %v", got)
	}
	if got := meta.Members("pathogenic"); !reflect.DeepEqual(got, []string{"genome_1", "genome_2"}) {
		t.Errorf("pathogenic members: got %v", got)
	}
	if got := meta.Members("environmental"); !reflect.DeepEqual(got, []string{"genome_3"}) {
		t.Errorf("environmental members: got %v", got)
	}
}

func TestParseMetadataDuplicateGenome(t *testing.T) {
	input := "genome_1\ta\ngenome_1\tb\n"

	_, err := ParseMetadata(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected an error for a duplicated genome")
	}
	if !strings.Contains(err.Error(), "duplicate entry") || !strings.Contains(err.Error(), "genome_1") {
		t.Errorf("error should name the duplicate: %v", err)
	}
}

func TestParseMetadataBadLine(t *testing.T) {
	input := "genome_1\ta\njust-one-field\n"

	_, err := ParseMetadata(strings.NewReader(input))
	if err == nil {
		t.Fatal("expected an error for a malformed line")
	}
	if !strings.Contains(err.Error(), "line 2") {
		t.Errorf("error should name the line: %v", err)
	}
}

func TestParseMetadataEmpty(t *testing.T) {
	if _, err := ParseMetadata(strings.NewReader("")); err == nil {
		t.Fatal("expected an error for an empty metadata file")
	}
}

func TestMetadataResolve(t *testing.T) {
	meta, err := ParseMetadata(strings.NewReader("g1\ta\ng2\ta\n"))
	if err != nil {
		t.Fatalf("ParseMetadata failed: %v", err)
	}

	genomes := map[string]*Genome{
		"g1": testGenome("g1", "x"),
		"g2": testGenome("g2", "y"),
	}

	groups, err := meta.Resolve(genomes)
	if err != nil {
		t.Fatalf("Resolve failed: %v", err)
	}
	if len(groups["a"]) != 2 {
		t.Fatalf("group a: got %d members, want 2", len(groups["a"]))
	}
	if groups["a"][0].Name != "g1" || groups["a"][1].Name != "g2" {
		t.Errorf("members out of order: %s, %s", groups["a"][0].Name, groups["a"][1].Name)
	}
}

func TestMetadataResolveUnknownGenome(t *testing.T) {
	meta, err := ParseMetadata(strings.NewReader("g1\ta\nmissing\ta\n"))
	if err != nil {
		t.Fatalf("ParseMetadata failed: %v", err)
	}

	_, err = meta.Resolve(map[string]*Genome{"g1": testGenome("g1")})
	if err == nil {
		t.Fatal("expected an error for a genome missing from the store")
	}
	if !strings.Contains(err.Error(), "missing") {
		t.Errorf("error should name the genome: %v", err)
	}
}
