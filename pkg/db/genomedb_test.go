package db

import (
	"context"
	"database/sql"
	"path/filepath"
	"strings"
	"testing"
)

const testSchema = `
CREATE TABLE genomes (name TEXT PRIMARY KEY, gc REAL, length INTEGER);
CREATE TABLE sequences (genome TEXT, name TEXT, seq TEXT);
CREATE TABLE proteins (genome TEXT, position INTEGER, protein_id TEXT);
CREATE TABLE orthologs (genome TEXT, cluster_id TEXT);
`

// Stores from before the feature columns existed.
const testSchemaOld = `
CREATE TABLE genomes (name TEXT PRIMARY KEY);
CREATE TABLE sequences (genome TEXT, name TEXT, seq TEXT);
CREATE TABLE proteins (genome TEXT, position INTEGER, protein_id TEXT);
CREATE TABLE orthologs (genome TEXT, cluster_id TEXT);
`

func createTestStore(t *testing.T, schema string, statements []string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "annotate.db")
	raw, err := sql.Open("sqlite", path)
	if err != nil {
		t.Fatalf("open test store: %v", err)
	}
	defer raw.Close()

	if _, err := raw.Exec(schema); err != nil {
		t.Fatalf("create schema: %v", err)
	}
	for _, stmt := range statements {
		if _, err := raw.Exec(stmt); err != nil {
			t.Fatalf("populate store: %v", err)
		}
	}
	return path
}

func TestLoadGenomes(t *testing.T) {
	path := createTestStore(t, testSchema, []string{
		`INSERT INTO genomes VALUES ('g1', 0.42, 4200000), ('g2', 0.61, 6100000)`,
		`INSERT INTO sequences VALUES ('g1', 'p1', 'MKLVA'), ('g1', 'p2', 'MTTRE'), ('g2', 'q1', 'MAAAL')`,
		`INSERT INTO proteins VALUES ('g1', 1, 'p1'), ('g1', 2, 'p2'), ('g2', 1, 'q1')`,
		`INSERT INTO orthologs VALUES ('g1', 'K00001'), ('g1', 'K00002'), ('g2', 'K00001')`,
	})

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	genomes, err := store.LoadGenomes(context.Background())
	if err != nil {
		t.Fatalf("LoadGenomes failed: %v", err)
	}

	if len(genomes) != 2 {
		t.Fatalf("got %d genomes, want 2", len(genomes))
	}

	g1 := genomes["g1"]
	if g1 == nil {
		t.Fatal("g1 missing")
	}
	if !g1.HasFeatures || g1.GC != 0.42 || g1.Length != 4200000 {
		t.Errorf("g1 features: %+v", g1)
	}
	if g1.Size() != 2 {
		t.Errorf("g1 sequences: got %d, want 2", g1.Size())
	}
	if g1.Sequences["p1"].Seq != "MKLVA" {
		t.Errorf("g1 p1 seq: got %q", g1.Sequences["p1"].Seq)
	}
	if g1.ProteinOrder[1] != "p1" || g1.ProteinOrder[2] != "p2" {
		t.Errorf("g1 protein order: %v", g1.ProteinOrder)
	}
	if !g1.Orthologs.Has("K00001") || !g1.Orthologs.Has("K00002") || g1.Orthologs.Len() != 2 {
		t.Errorf("g1 orthologs: %v", g1.Orthologs.Sorted())
	}

	g2 := genomes["g2"]
	if g2.Orthologs.Len() != 1 || !g2.Orthologs.Has("K00001") {
		t.Errorf("g2 orthologs: %v", g2.Orthologs.Sorted())
	}
}

func TestLoadGenomesOldSchema(t *testing.T) {
	path := createTestStore(t, testSchemaOld, []string{
		`INSERT INTO genomes VALUES ('g1')`,
		`INSERT INTO sequences VALUES ('g1', 'p1', 'MKLVA')`,
		`INSERT INTO proteins VALUES ('g1', 1, 'p1')`,
		`INSERT INTO orthologs VALUES ('g1', 'K00001')`,
	})

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	genomes, err := store.LoadGenomes(context.Background())
	if err != nil {
		t.Fatalf("LoadGenomes failed: %v", err)
	}

	g1 := genomes["g1"]
	if g1.HasFeatures {
		t.Error("old schema should not report features")
	}
	if g1.Orthologs.Len() != 1 {
		t.Errorf("g1 orthologs: %v", g1.Orthologs.Sorted())
	}
}

func TestHasFeatureColumns(t *testing.T) {
	withPath := createTestStore(t, testSchema, nil)
	withoutPath := createTestStore(t, testSchemaOld, nil)

	for _, c := range []struct {
		path string
		want bool
	}{
		{withPath, true},
		{withoutPath, false},
	} {
		store, err := Open(c.path)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		got, err := store.HasFeatureColumns(context.Background())
		store.Close()
		if err != nil {
			t.Fatalf("HasFeatureColumns failed: %v", err)
		}
		if got != c.want {
			t.Errorf("%s: got %v, want %v", c.path, got, c.want)
		}
	}
}

func TestLoadGenomesUnknownGenomeReference(t *testing.T) {
	path := createTestStore(t, testSchema, []string{
		`INSERT INTO genomes VALUES ('g1', 0.42, 4200000)`,
		`INSERT INTO sequences VALUES ('ghost', 'p1', 'MKLVA')`,
	})

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	_, err = store.LoadGenomes(context.Background())
	if err == nil {
		t.Fatal("expected an error for a dangling genome reference")
	}
	if !strings.Contains(err.Error(), "ghost") {
		t.Errorf("error should name the genome: %v", err)
	}
}

func TestLoadGenomesNullFeature(t *testing.T) {
	path := createTestStore(t, testSchema, []string{
		`INSERT INTO genomes (name, gc) VALUES ('g1', 0.42)`,
	})

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	if _, err := store.LoadGenomes(context.Background()); err == nil {
		t.Fatal("expected an error for a NULL feature value")
	}
}

func TestLoadGenomesNotAStore(t *testing.T) {
	// A fresh sqlite file with no tables at all.
	path := filepath.Join(t.TempDir(), "empty.db")

	store, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer store.Close()

	_, err = store.LoadGenomes(context.Background())
	if err == nil {
		t.Fatal("expected an error for a store without tables")
	}
	if !strings.Contains(err.Error(), "genomes") {
		t.Errorf("error should mention the missing table: %v", err)
	}
}
