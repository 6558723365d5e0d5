package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"runtime"
	"strconv"

	"github.com/joho/godotenv"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"pancompare/logger"
	"pancompare/pkg/compare"
)

func main() {

	VERSION := "0.1.0"

	metadataPath := flag.String("metadata", "", "tab-separated file mapping genome names to group labels (required)")
	storePath := flag.String("db", "", "sqlite genome store written by the annotate step (required)")
	outputDir := flag.String("output", "", "directory for the result tables (required)")
	threads := flag.Int("threads", 0, "worker threads for subset counting and the aligner, 0 means all CPUs")
	synteny := flag.Bool("synteny", false, "run the all-vs-all alignment and score per-genome synteny")
	plot := flag.Bool("plot", false, "write an SVG curve next to each saturation table")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn or error")
	showVersion := flag.Bool("version", false, "print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println("pancompare", VERSION)
		return
	}

	// Establish logger
	level, err := zapcore.ParseLevel(*logLevel)
	if err != nil {
		level = zapcore.InfoLevel
	}

	if err := logger.InitLogger(level); err != nil {
		panic(err)
	}

	// Try load env
	dotenvErr := godotenv.Load()

	if dotenvErr != nil {
		logger.Warn("No .env found, using local environment")
	}

	defer logger.Sync() // Make sure that the buffered is flushed.

	if *metadataPath == "" || *storePath == "" || *outputDir == "" {
		flag.Usage()
		logger.Fatal("-metadata, -db and -output are all required")
	}

	diamond := os.Getenv("PANCOMPARE_DIAMOND")

	if diamond == "" {
		logger.Warn("No local environment (PANCOMPARE_DIAMOND), using default value (diamond)")
		diamond = "diamond"
	}

	nthreads := *threads
	if nthreads == 0 {
		if fromEnv := os.Getenv("PANCOMPARE_THREADS"); fromEnv != "" {
			n, convErr := strconv.Atoi(fromEnv)
			if convErr != nil {
				logger.Warn("PANCOMPARE_THREADS is not a number, ignoring", zap.String("value", fromEnv))
			} else {
				nthreads = n
			}
		}
	}
	if nthreads <= 0 {
		nthreads = runtime.NumCPU()
	}

	logger.Info("Start:", zap.String("Version", VERSION))
	logger.Info("Using genome store", zap.String("DB_LOC", *storePath))

	runner := compare.NewRunner(compare.Options{
		MetadataPath: *metadataPath,
		StorePath:    *storePath,
		OutputDir:    *outputDir,
		Threads:      nthreads,
		Synteny:      *synteny,
		Plot:         *plot,
		Diamond:      diamond,
	})

	if err := runner.Run(context.Background()); err != nil {
		logger.Fatal("Comparison failed:", zap.String("error message", err.Error()))
	}
}
