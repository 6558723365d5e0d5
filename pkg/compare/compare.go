// Package compare wires the whole pipeline together: metadata, the genome
// store, the per-group statistics and the result tables.
package compare

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
	"pancompare/internal/util"
	"pancompare/logger"
	"pancompare/pkg/align"
	"pancompare/pkg/db"
	"pancompare/pkg/model"
	"pancompare/pkg/render"
)

// Options configure one pipeline run.
type Options struct {
	MetadataPath string
	StorePath    string
	OutputDir    string
	Threads      int
	Synteny      bool
	Plot         bool
	Diamond      string
}

// Runner executes the comparison pipeline.
type Runner struct {
	opts Options
}

func NewRunner(opts Options) *Runner {
	return &Runner{opts: opts}
}

// Subset enumeration is exponential in the group size; past this many
// genomes a run can take a very long time.
const saturationWarnSize = 20

// Run loads everything, computes the saturation curves, the pan-genome
// table, the feature comparison and (when asked for) the synteny scores,
// and writes one file per result into the output directory.
func (r *Runner) Run(ctx context.Context) error {
	meta, err := model.ParseMetadataFile(r.opts.MetadataPath)
	if err != nil {
		return err
	}

	if !util.FileExists(r.opts.StorePath) {
		return fmt.Errorf("genome store not found: %s", r.opts.StorePath)
	}
	store, err := db.Open(r.opts.StorePath)
	if err != nil {
		return err
	}
	defer store.Close()

	genomes, err := store.LoadGenomes(ctx)
	if err != nil {
		return err
	}
	logger.Info("Loaded genome store",
		zap.Int("genomes", len(genomes)), zap.String("path", r.opts.StorePath))

	groups, err := meta.Resolve(genomes)
	if err != nil {
		return err
	}

	if !util.DirExists(r.opts.OutputDir) {
		if err := util.EnsureDir(r.opts.OutputDir); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	universe := model.OrthologUniverse(genomes)
	logger.Info("Built ortholog universe", zap.Int("orthologs", len(universe)))

	for _, group := range meta.Groups() {
		if err := r.runSaturation(group, groups[group], universe); err != nil {
			return err
		}
	}

	panRows, err := model.PanGenome(groups, meta.Groups())
	if err != nil {
		return err
	}
	if err := r.writeTable("core_genome_size.tsv", func(w io.Writer) error {
		return render.RenderPanGenomeTable(w, panRows)
	}); err != nil {
		return err
	}

	if featuresLoaded(genomes) {
		comparisons, err := model.CompareFeatures(groups, meta.Groups())
		if err != nil {
			return err
		}
		if err := r.writeTable("feature_summary.tsv", func(w io.Writer) error {
			return render.RenderFeatureSummary(w, comparisons)
		}); err != nil {
			return err
		}
		if err := r.writeTable("feature_tests.tsv", func(w io.Writer) error {
			return render.RenderFeatureTests(w, comparisons)
		}); err != nil {
			return err
		}
	} else {
		logger.Warn("Genome store predates the gc/length columns, skipping feature comparison")
	}

	if r.opts.Synteny {
		if err := r.runSynteny(ctx, genomes); err != nil {
			return err
		}
	}

	return nil
}

func (r *Runner) runSaturation(group string, members []*model.Genome, universe []string) error {
	if len(members) > saturationWarnSize {
		logger.Warn("Large group, subset enumeration may take a very long time",
			zap.String("group", group), zap.Int("genomes", len(members)))
	}
	logger.Info("Generating saturation curve", zap.String("group", group))

	curve, err := model.Saturation(members, universe, r.opts.Threads)
	if err != nil {
		return fmt.Errorf("saturation for group %s: %w", group, err)
	}

	if err := r.writeTable(group+"_saturation.tsv", func(w io.Writer) error {
		return render.RenderSaturationTable(w, curve)
	}); err != nil {
		return err
	}

	if r.opts.Plot {
		svg, err := render.RenderSaturationPlot(group, curve)
		if err != nil {
			return fmt.Errorf("plot saturation for group %s: %w", group, err)
		}
		path := filepath.Join(r.opts.OutputDir, group+"_saturation.svg")
		if err := os.WriteFile(path, svg, 0o644); err != nil {
			return fmt.Errorf("write %s: %w", path, err)
		}
		logger.Info("Wrote plot", zap.String("file", path))
	}
	return nil
}

func (r *Runner) runSynteny(ctx context.Context, genomes map[string]*model.Genome) error {
	entries := proteomeEntries(genomes)

	aligner := &align.Runner{Diamond: r.opts.Diamond, Threads: r.opts.Threads}
	logger.Info("Running all-vs-all alignment", zap.Int("sequences", len(entries)))

	records, err := aligner.AllVsAll(ctx, entries)
	if err != nil {
		return err
	}
	logger.Info("Alignment finished", zap.Int("hits", len(records)))

	table, err := model.BuildBestHitTable(records)
	if err != nil {
		return err
	}

	rows, err := model.EstimateSynteny(genomes, table, nil)
	if err != nil {
		return err
	}
	return r.writeTable("synteny.tsv", func(w io.Writer) error {
		return render.RenderSyntenyTable(w, rows)
	})
}

// proteomeEntries flattens every genome's sequences in a stable order, so
// repeated runs hand the aligner identical input.
func proteomeEntries(genomes map[string]*model.Genome) []align.ProteomeEntry {
	names := make([]string, 0, len(genomes))
	for name := range genomes {
		names = append(names, name)
	}
	sort.Strings(names)

	var entries []align.ProteomeEntry
	for _, name := range names {
		g := genomes[name]
		seqNames := make([]string, 0, len(g.Sequences))
		for s := range g.Sequences {
			seqNames = append(seqNames, s)
		}
		sort.Strings(seqNames)
		for _, s := range seqNames {
			entries = append(entries, align.ProteomeEntry{
				Genome:   name,
				Sequence: s,
				Seq:      g.Sequences[s].Seq,
			})
		}
	}
	return entries
}

func featuresLoaded(genomes map[string]*model.Genome) bool {
	if len(genomes) == 0 {
		return false
	}
	for _, g := range genomes {
		if !g.HasFeatures {
			return false
		}
	}
	return true
}

func (r *Runner) writeTable(name string, renderTo func(io.Writer) error) error {
	path := filepath.Join(r.opts.OutputDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", name, err)
	}

	w := bufio.NewWriter(f)
	if err := renderTo(w); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}

	logger.Info("Wrote table", zap.String("file", path))
	return nil
}
