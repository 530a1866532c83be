package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dnovoa/econpulse/internal/analyze"
	"github.com/dnovoa/econpulse/internal/process"
	"github.com/dnovoa/econpulse/internal/runs"
	"github.com/dnovoa/econpulse/models"
	"github.com/dnovoa/econpulse/pkg/db"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

var (
	configFlag = &cli.StringFlag{
		Name:  "config",
		Value: "config.yaml",
		Usage: "YAML config file (missing file falls back to defaults)",
	}
	dbFlag = &cli.StringFlag{
		Name:  "db",
		Usage: "SQLite database path (default: econpulse.db next to the binary)",
	}
	quietFlag = &cli.BoolFlag{
		Name:  "quiet",
		Usage: "only log errors",
	}

	processFlags = []cli.Flag{
		configFlag, dbFlag, quietFlag,
		&cli.StringFlag{Name: "input-dir", Usage: "directory with .jsonl document files"},
		&cli.StringFlag{Name: "output-dir", Usage: "directory for the processed-record table"},
		&cli.IntFlag{Name: "workers", Usage: "worker count (default: host parallelism)"},
		&cli.IntFlag{Name: "chunk-size", Usage: "documents per processing chunk"},
	}
	analyzeFlags = []cli.Flag{
		configFlag, dbFlag, quietFlag,
		&cli.StringFlag{Name: "processed-dir", Usage: "directory with the processed-record table"},
		&cli.StringFlag{Name: "indicators-dir", Usage: "directory with the external series table"},
		&cli.StringFlag{Name: "output-dir", Usage: "directory for merged table and metrics"},
		&cli.StringFlag{Name: "join", Usage: "series join mode: left or inner"},
	}
	runFlags = []cli.Flag{
		configFlag, dbFlag, quietFlag,
		&cli.StringFlag{Name: "input-dir", Usage: "directory with .jsonl document files"},
		&cli.StringFlag{Name: "processed-dir", Usage: "directory for the processed-record table"},
		&cli.StringFlag{Name: "indicators-dir", Usage: "directory with the external series table"},
		&cli.StringFlag{Name: "output-dir", Usage: "directory for merged table and metrics"},
		&cli.IntFlag{Name: "workers", Usage: "worker count (default: host parallelism)"},
		&cli.IntFlag{Name: "chunk-size", Usage: "documents per processing chunk"},
		&cli.StringFlag{Name: "join", Usage: "series join mode: left or inner"},
	}
)

func main() {
	// Optional .env in the working directory; the container setup uses one.
	_ = godotenv.Load()

	app := &cli.App{
		Name:  "econpulse",
		Usage: "score news documents for economic keywords and correlate daily hits with the COLCAP index",
		Commands: []*cli.Command{
			{
				Name:   "process",
				Usage:  "process .jsonl document files into the per-document record table",
				Flags:  processFlags,
				Action: process.Action,
			},
			{
				Name:   "analyze",
				Usage:  "aggregate processed records by date, join the index series, compute metrics",
				Flags:  analyzeFlags,
				Action: analyze.Action,
			},
			{
				Name:   "run",
				Usage:  "process then analyze in one invocation",
				Flags:  runFlags,
				Action: runAction,
			},
			{
				Name:  "runs",
				Usage: "list recorded pipeline runs",
				Flags: []cli.Flag{
					dbFlag,
					&cli.IntFlag{Name: "limit", Value: 20, Usage: "maximum runs to list"},
				},
				Action: runs.Action,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
}

// runAction chains the processing and analysis stages, sharing one config and
// database handle.
func runAction(c *cli.Context) error {
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
	applyRunFlags(c, cfg)
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

	procResult, err := process.Run(c.Context, logger, cfg, database)
	if err != nil {
		logger.Error("processing failed", "error", err)
		os.Exit(2)
	}
	if len(procResult.Summary.Records) == 0 {
		fmt.Printf("No documents processed from %s, nothing to analyze\n", cfg.InputDir)
		return nil
	}

	anaResult, err := analyze.Run(logger, cfg, database)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(2)
	}

	fmt.Printf("Pipeline complete: %d documents over %d days\nMerged table: %s\nMetrics: %s\n",
		anaResult.Report.TotalDocuments, anaResult.Report.DaysAnalyzed,
		anaResult.MergedPath, anaResult.MetricsPath)

	if procResult.Summary.FailedFiles > 0 {
		os.Exit(1)
	}
	return nil
}

func applyRunFlags(c *cli.Context, cfg *models.PipelineConfig) {
	if c.IsSet("input-dir") {
		cfg.InputDir = c.String("input-dir")
	}
	if c.IsSet("processed-dir") {
		cfg.ProcessedDir = c.String("processed-dir")
	}
	if c.IsSet("indicators-dir") {
		cfg.IndicatorsDir = c.String("indicators-dir")
	}
	if c.IsSet("output-dir") {
		cfg.AggregatedDir = c.String("output-dir")
	}
	if c.IsSet("workers") {
		cfg.Workers = c.Int("workers")
	}
	if c.IsSet("chunk-size") {
		cfg.ChunkSize = c.Int("chunk-size")
	}
	if c.IsSet("join") {
		cfg.JoinMode = c.String("join")
	}
}
