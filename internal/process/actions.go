// Package process implements the econpulse process command: fan the input
// files out over the worker pool and persist the processed-record table.
package process

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/dnovoa/econpulse/models"
	"github.com/dnovoa/econpulse/pkg/db"
	"github.com/dnovoa/econpulse/pkg/keywords"
	"github.com/dnovoa/econpulse/pkg/pipeline"
	"github.com/dnovoa/econpulse/pkg/table"
	"github.com/urfave/cli/v2"
)

// Result summarizes one process run for the CLI layer.
type Result struct {
	Summary    pipeline.Summary
	OutputPath string
	RunID      int64
}

// Action handles `econpulse process`.
func Action(c *cli.Context) error {
	logLevel := slog.LevelInfo
	if c.Bool("quiet") {
		logLevel = slog.LevelError
	}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: logLevel}))

	cfg, err := models.LoadConfig(c.String("config"))
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}
	applyFlags(c, cfg)
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(2)
	}

	database, err := db.OpenAt(c.String("db"))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	result, err := Run(c.Context, logger, cfg, database)
	if err != nil {
		logger.Error("processing failed", "error", err)
		os.Exit(2)
	}

	if result.Summary.Files == 0 {
		fmt.Printf("No input files found in %s\n", cfg.InputDir)
		return nil
	}

	fmt.Printf("Processed %d documents from %d files (%d skipped, %d files failed)\nResults: %s\n",
		len(result.Summary.Records), result.Summary.Files, result.Summary.Skipped,
		result.Summary.FailedFiles, result.OutputPath)

	if result.Summary.FailedFiles == result.Summary.Files {
		os.Exit(2)
	}
	if result.Summary.FailedFiles > 0 {
		os.Exit(1)
	}
	return nil
}

// Run executes the processing stage: list input files, dispatch, write the
// results table, record the run. database may be nil to skip persistence.
// The returned error is reserved for hard failures; per-file and per-document
// problems are logged and counted instead.
func Run(ctx context.Context, logger *slog.Logger, cfg *models.PipelineConfig, database *db.DB) (*Result, error) {
	set, err := keywordSet(cfg)
	if err != nil {
		return nil, err
	}
	logger.Info("Keyword set loaded", "terms", set.Len())

	paths, err := listInputFiles(cfg.InputDir)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		logger.Warn("No .jsonl files to process", "input_dir", cfg.InputDir)
		return &Result{}, nil
	}
	logger.Info("Input files found", "count", len(paths), "input_dir", cfg.InputDir)

	startedAt := time.Now()
	summary := pipeline.Dispatch(ctx, paths, set, pipeline.Options{
		Workers:   cfg.Workers,
		ChunkSize: cfg.ChunkSize,
	}, logger)

	result := &Result{Summary: summary}
	if len(summary.Records) == 0 {
		logger.Warn("Processing produced no records")
		return result, nil
	}

	if err := os.MkdirAll(cfg.ProcessedDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}
	result.OutputPath = filepath.Join(cfg.ProcessedDir, table.ProcessedFileName)
	if err := table.WriteProcessedRecords(result.OutputPath, summary.Records); err != nil {
		return nil, err
	}
	logger.Info("Results written", "path", result.OutputPath, "records", len(summary.Records))

	if database != nil {
		result.RunID = recordRun(logger, database, summary, startedAt)
	}
	return result, nil
}

// recordRun stores run bookkeeping and the record table. Persistence failures
// are warnings: the CSV artifact is already on disk.
func recordRun(logger *slog.Logger, database *db.DB, summary pipeline.Summary, startedAt time.Time) int64 {
	throughput := 0.0
	if secs := summary.Elapsed.Seconds(); secs > 0 {
		throughput = float64(len(summary.Records)) / secs
	}

	runID, err := database.InsertRun(db.Run{
		Command:        "process",
		StartedAt:      startedAt,
		Files:          summary.Files,
		FailedFiles:    summary.FailedFiles,
		Records:        len(summary.Records),
		Skipped:        summary.Skipped,
		ElapsedSeconds: summary.Elapsed.Seconds(),
		DocsPerSecond:  throughput,
	})
	if err != nil {
		logger.Warn("Failed to record run in DB", "error", err)
		return 0
	}

	if err := database.InsertProcessedRecords(runID, summary.Records); err != nil {
		logger.Warn("Failed to persist records in DB", "run_id", runID, "error", err)
		return runID
	}

	stored, err := database.CountProcessedRecords(runID)
	if err != nil {
		logger.Warn("Failed to count persisted records", "run_id", runID, "error", err)
		return runID
	}
	logger.Info("Records persisted", "run_id", runID, "records", stored)
	return runID
}

func keywordSet(cfg *models.PipelineConfig) (*keywords.Set, error) {
	if len(cfg.Keywords) == 0 {
		return keywords.DefaultSet(), nil
	}
	return keywords.NewSet(cfg.Keywords)
}

// listInputFiles returns the .jsonl files in dir, sorted for stable worker
// assignment in logs.
func listInputFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list input directory: %w", err)
	}

	var paths []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		paths = append(paths, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(paths)
	return paths, nil
}

func applyFlags(c *cli.Context, cfg *models.PipelineConfig) {
	if c.IsSet("input-dir") {
		cfg.InputDir = c.String("input-dir")
	}
	if c.IsSet("output-dir") {
		cfg.ProcessedDir = c.String("output-dir")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("chunk-size") {
		cfg.ChunkSize = c.Int("chunk-size")
	}
}
