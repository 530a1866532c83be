// Package analyze implements the econpulse analyze command: aggregate the
// processed-record table by date, join it with the external index series, and
// write the merged table and metrics report.
package analyze

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/dnovoa/econpulse/models"
	"github.com/dnovoa/econpulse/pkg/analysis"
	"github.com/dnovoa/econpulse/pkg/db"
	"github.com/dnovoa/econpulse/pkg/table"
	"github.com/urfave/cli/v2"
)

// Result summarizes one analyze run for the CLI layer.
type Result struct {
	Report      models.MetricsReport
	MergedPath  string
	MetricsPath string
	HasSeries   bool
}

// Action handles `econpulse analyze`.
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

	result, err := Run(logger, cfg, database)
	if err != nil {
		logger.Error("analysis failed", "error", err)
		os.Exit(2)
	}

	fmt.Printf("Analyzed %d days (%d documents, %d keyword hits)\n",
		result.Report.DaysAnalyzed, result.Report.TotalDocuments, result.Report.TotalKeywords)
	if result.HasSeries {
		if result.Report.KeywordCorrelation.Defined {
			fmt.Printf("Correlation keywords vs index: %.4f over %d days\n",
				result.Report.KeywordCorrelation.Value, result.Report.DaysWithSeries)
		} else {
			fmt.Printf("Correlation keywords vs index: undefined (%d paired days)\n",
				result.Report.DaysWithSeries)
		}
	}
	fmt.Printf("Merged table: %s\nMetrics: %s\n", result.MergedPath, result.MetricsPath)
	return nil
}

// Run executes the analysis stage against the artifacts on disk. A missing
// series table degrades to aggregate-only output; a missing processed table
// is a hard error because the processor must run first. database may be nil
// to skip persistence.
func Run(logger *slog.Logger, cfg *models.PipelineConfig, database *db.DB) (*Result, error) {
	processedPath := filepath.Join(cfg.ProcessedDir, table.ProcessedFileName)
	records, err := table.ReadProcessedRecords(processedPath, logger)
	if err != nil {
		return nil, fmt.Errorf("no processed data (run process first): %w", err)
	}
	logger.Info("Processed records loaded", "path", processedPath, "records", len(records))

	seriesPath := filepath.Join(cfg.IndicatorsDir, table.SeriesFileName)
	series, seriesErr := table.ReadSeries(seriesPath, logger)
	if seriesErr != nil {
		logger.Warn("External series unavailable, continuing without it", "path", seriesPath, "error", seriesErr)
	} else {
		logger.Info("External series loaded", "path", seriesPath, "points", len(series))
	}

	mode, err := analysis.ParseJoinMode(cfg.JoinMode)
	if err != nil {
		return nil, err
	}

	aggregate := analysis.Aggregate(records)
	if len(aggregate) == 0 {
		logger.Warn("Nothing to aggregate")
	}

	var merged []models.MergedRow
	if seriesErr != nil {
		// No series at all is a valid state: keep every aggregate row and skip
		// the join mode entirely, so aggregate-only output survives inner mode.
		merged = analysis.Merge(aggregate, nil, analysis.JoinLeft)
	} else {
		merged = analysis.Merge(aggregate, series, mode)
		if mode == analysis.JoinInner && len(aggregate) > 0 && len(merged) == 0 {
			logger.Warn("Inner join produced no rows, no dates overlap the series")
		}
	}

	report := analysis.ComputeMetrics(merged)
	if report.DaysWithSeries > 0 && !report.KeywordCorrelation.Defined {
		logger.Warn("Correlation undefined", "paired_days", report.DaysWithSeries)
	}

	if err := os.MkdirAll(cfg.AggregatedDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create output directory: %w", err)
	}

	result := &Result{
		Report:      report,
		MergedPath:  filepath.Join(cfg.AggregatedDir, table.MergedFileName),
		MetricsPath: filepath.Join(cfg.AggregatedDir, table.MetricsFileName),
		HasSeries:   seriesErr == nil,
	}
	if err := table.WriteMergedRows(result.MergedPath, merged); err != nil {
		return nil, err
	}
	if err := table.WriteMetricsReport(result.MetricsPath, report); err != nil {
		return nil, err
	}
	logger.Info("Analysis artifacts written", "merged", result.MergedPath, "metrics", result.MetricsPath)

	if database != nil {
		if err := database.ReplaceDailyRows(merged); err != nil {
			logger.Warn("Failed to persist daily rows in DB", "error", err)
		}
	}
	return result, nil
}

func applyFlags(c *cli.Context, cfg *models.PipelineConfig) {
	if c.IsSet("processed-dir") {
		cfg.ProcessedDir = c.String("processed-dir")
	}
	if c.IsSet("indicators-dir") {
		cfg.IndicatorsDir = c.String("indicators-dir")
	}
	if c.IsSet("output-dir") {
		cfg.AggregatedDir = c.String("output-dir")
	}
	if c.IsSet("join") {
		cfg.JoinMode = c.String("join")
	}
}
