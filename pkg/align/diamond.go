package align

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"pancompare/logger"
)

// Cutoffs for the self-vs-self run. Hits failing them never reach the
// output, so absence from a result means "no hit below threshold".
const (
	EValueCutoff       = "1e-05"
	QueryCoverCutoff   = "70"
	SubjectCoverCutoff = "70"
	IdentityCutoff     = "0.3"
)

// ProteomeEntry is one protein sequence staged for the all-vs-all run.
type ProteomeEntry struct {
	Genome   string
	Sequence string
	Seq      string
}

// Runner drives the external diamond aligner.
type Runner struct {
	Diamond string // executable name or path, empty means "diamond"
	Threads int
	WorkDir string // parent for scratch dirs, empty means os.TempDir()
}

// AllVsAll writes the entries to a FASTA with composite genome~sequence
// headers, builds a diamond database from it and aligns the same FASTA back
// against that database. Scratch files live in a uuid-named directory that
// is removed when the run finishes.
func (r *Runner) AllVsAll(ctx context.Context, entries []ProteomeEntry) ([]Record, error) {
	if len(entries) == 0 {
		return nil, errors.New("no protein sequences to align")
	}

	exe := r.Diamond
	if exe == "" {
		exe = "diamond"
	}
	threads := r.Threads
	if threads <= 0 {
		threads = 1
	}

	parent := r.WorkDir
	if parent == "" {
		parent = os.TempDir()
	}
	scratch := filepath.Join(parent, "pancompare-run-"+uuid.New().String())
	if err := os.MkdirAll(scratch, 0o755); err != nil {
		return nil, fmt.Errorf("create scratch dir: %w", err)
	}
	defer os.RemoveAll(scratch)

	fastaFile := filepath.Join(scratch, "proteome.faa")
	dbFile := filepath.Join(scratch, "proteome.dmnd")
	hitsFile := filepath.Join(scratch, "hits.tsv")

	if err := writeFasta(fastaFile, entries); err != nil {
		return nil, err
	}

	makedb := exec.CommandContext(ctx, exe, "makedb", "--quiet", "--in", fastaFile, "--db", dbFile)
	logger.Debug("Running command", zap.String("cmd", strings.Join(makedb.Args, " ")))
	if output, err := makedb.CombinedOutput(); err != nil {
		// Will be print to output (due to stderr.)
		return nil, fmt.Errorf("diamond makedb: %s - %s", err, output)
	}

	blastp := exec.CommandContext(ctx, exe, "blastp", "--quiet",
		"-q", fastaFile, "--db", dbFile,
		"-e", EValueCutoff,
		"--query-cover", QueryCoverCutoff,
		"--subject-cover", SubjectCoverCutoff,
		"--id", IdentityCutoff,
		"-f", "6", "-o", hitsFile,
		"--threads", strconv.Itoa(threads))
	logger.Debug("Running command", zap.String("cmd", strings.Join(blastp.Args, " ")))
	if output, err := blastp.CombinedOutput(); err != nil {
		return nil, fmt.Errorf("diamond blastp: %s - %s", err, output)
	}

	f, err := os.Open(hitsFile)
	if err != nil {
		return nil, fmt.Errorf("open alignment output: %w", err)
	}
	defer f.Close()

	return ParseTabular(f)
}

func writeFasta(path string, entries []ProteomeEntry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("write aligner input: %w", err)
	}

	w := bufio.NewWriter(f)
	for _, e := range entries {
		fmt.Fprintf(w, ">%s\n%s\n", JoinID(e.Genome, e.Sequence), e.Seq)
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return fmt.Errorf("write aligner input: %w", err)
	}
	return f.Close()
}
