// Package db reads the sqlite genome store the annotate step writes. The
// store is opened read-only in spirit: nothing here ever writes to it.
package db

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"
	"pancompare/logger"
	"pancompare/pkg/model"

	_ "modernc.org/sqlite"
)

// GenomeDB wraps the annotate-stage sqlite store.
type GenomeDB struct {
	db *sql.DB
}

// Open connects to the store and checks it is reachable.
func Open(path string) (*GenomeDB, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open genome store %s: %w", path, err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("open genome store %s: %w", path, err)
	}
	return &GenomeDB{db: db}, nil
}

func (g *GenomeDB) Close() error {
	return g.db.Close()
}

// HasFeatureColumns reports whether the genomes table carries the gc and
// length columns. Stores written by older annotate versions omit them.
func (g *GenomeDB) HasFeatureColumns(ctx context.Context) (bool, error) {
	rows, err := g.db.QueryContext(ctx, `PRAGMA table_info(genomes)`)
	if err != nil {
		return false, fmt.Errorf("inspect genomes table: %w", err)
	}
	defer rows.Close()

	var hasGC, hasLength bool
	for rows.Next() {
		var (
			cid     int
			name    string
			ctype   string
			notnull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &ctype, &notnull, &dflt, &pk); err != nil {
			return false, fmt.Errorf("inspect genomes table: %w", err)
		}
		switch name {
		case "gc":
			hasGC = true
		case "length":
			hasLength = true
		}
	}
	return hasGC && hasLength, rows.Err()
}

// LoadGenomes reads every genome with its sequences, protein order and
// ortholog clusters into memory.
func (g *GenomeDB) LoadGenomes(ctx context.Context) (map[string]*model.Genome, error) {
	withFeatures, err := g.HasFeatureColumns(ctx)
	if err != nil {
		return nil, fmt.Errorf("inspect genome store schema: %w", err)
	}

	genomes := make(map[string]*model.Genome)

	query := `SELECT name FROM genomes ORDER BY name`
	if withFeatures {
		query = `SELECT name, gc, length FROM genomes ORDER BY name`
	}
	rows, err := g.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query genomes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		genome := &model.Genome{
			Sequences:    make(map[string]model.Sequence),
			ProteinOrder: make(map[int]string),
			Orthologs:    model.NewSet(),
			HasFeatures:  withFeatures,
		}
		if withFeatures {
			var gc sql.NullFloat64
			var length sql.NullInt64
			if err := rows.Scan(&genome.Name, &gc, &length); err != nil {
				return nil, fmt.Errorf("scan genome row: %w", err)
			}
			if !gc.Valid || !length.Valid {
				return nil, fmt.Errorf("genome %s has no gc/length recorded", genome.Name)
			}
			genome.GC = gc.Float64
			genome.Length = int(length.Int64)
		} else {
			if err := rows.Scan(&genome.Name); err != nil {
				return nil, fmt.Errorf("scan genome row: %w", err)
			}
		}
		genomes[genome.Name] = genome
		logger.Debug("Loaded genome", zap.String("name", genome.Name))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("query genomes: %w", err)
	}

	if err := g.loadSequences(ctx, genomes); err != nil {
		return nil, err
	}
	if err := g.loadProteinOrder(ctx, genomes); err != nil {
		return nil, err
	}
	if err := g.loadOrthologs(ctx, genomes); err != nil {
		return nil, err
	}
	return genomes, nil
}

func (g *GenomeDB) loadSequences(ctx context.Context, genomes map[string]*model.Genome) error {
	rows, err := g.db.QueryContext(ctx, `SELECT genome, name, seq FROM sequences`)
	if err != nil {
		return fmt.Errorf("query sequences: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var genome, name, seq string
		if err := rows.Scan(&genome, &name, &seq); err != nil {
			return fmt.Errorf("scan sequence row: %w", err)
		}
		owner, ok := genomes[genome]
		if !ok {
			return fmt.Errorf("sequences table references unknown genome %s", genome)
		}
		owner.Sequences[name] = model.Sequence{Name: name, Seq: seq}
	}
	return rows.Err()
}

func (g *GenomeDB) loadProteinOrder(ctx context.Context, genomes map[string]*model.Genome) error {
	rows, err := g.db.QueryContext(ctx, `SELECT genome, position, protein_id FROM proteins`)
	if err != nil {
		return fmt.Errorf("query proteins: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var genome, proteinID string
		var position int
		if err := rows.Scan(&genome, &position, &proteinID); err != nil {
			return fmt.Errorf("scan protein row: %w", err)
		}
		owner, ok := genomes[genome]
		if !ok {
			return fmt.Errorf("proteins table references unknown genome %s", genome)
		}
		owner.ProteinOrder[position] = proteinID
	}
	return rows.Err()
}

func (g *GenomeDB) loadOrthologs(ctx context.Context, genomes map[string]*model.Genome) error {
	rows, err := g.db.QueryContext(ctx, `SELECT genome, cluster_id FROM orthologs`)
	if err != nil {
		return fmt.Errorf("query orthologs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var genome, clusterID string
		if err := rows.Scan(&genome, &clusterID); err != nil {
			return fmt.Errorf("scan ortholog row: %w", err)
		}
		owner, ok := genomes[genome]
		if !ok {
			return fmt.Errorf("orthologs table references unknown genome %s", genome)
		}
		owner.Orthologs.Add(clusterID)
	}
	return rows.Err()
}
