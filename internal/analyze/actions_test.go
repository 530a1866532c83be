package analyze

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dnovoa/econpulse/models"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// testConfig lays out a processed-record table in a temp tree and returns a
// config pointing at it. The indicators directory exists but holds no series.
func testConfig(t *testing.T) *models.PipelineConfig {
	t.Helper()
	dir := t.TempDir()

	cfg := models.DefaultConfig()
	cfg.ProcessedDir = filepath.Join(dir, "processed")
	cfg.IndicatorsDir = filepath.Join(dir, "indicators")
	cfg.AggregatedDir = filepath.Join(dir, "aggregated")

	if err := os.MkdirAll(cfg.ProcessedDir, 0755); err != nil {
		t.Fatal(err)
	}
	records := "date,doc_id,keyword_hits,text_length,word_count\n" +
		"2024-01-01,a1,2,40,8\n" +
		"2024-01-02,b1,0,25,5\n"
	if err := os.WriteFile(filepath.Join(cfg.ProcessedDir, "results.csv"), []byte(records), 0644); err != nil {
		t.Fatal(err)
	}
	return cfg
}

func TestRun_MissingSeriesKeepsAggregateRows(t *testing.T) {
	for _, mode := range []string{"left", "inner"} {
		t.Run(mode, func(t *testing.T) {
			cfg := testConfig(t)
			cfg.JoinMode = mode

			result, err := Run(discardLogger(), cfg, nil)
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if result.HasSeries {
				t.Error("HasSeries = true, want false without a series file")
			}
			if result.Report.DaysAnalyzed != 2 {
				t.Errorf("DaysAnalyzed = %d, want 2", result.Report.DaysAnalyzed)
			}
			if result.Report.TotalDocuments != 2 {
				t.Errorf("TotalDocuments = %d, want 2", result.Report.TotalDocuments)
			}
			if result.Report.DaysWithSeries != 0 {
				t.Errorf("DaysWithSeries = %d, want 0", result.Report.DaysWithSeries)
			}
			if result.Report.KeywordCorrelation.Defined {
				t.Errorf("KeywordCorrelation = %+v, want undefined", result.Report.KeywordCorrelation)
			}

			data, err := os.ReadFile(result.MergedPath)
			if err != nil {
				t.Fatalf("failed to read merged table: %v", err)
			}
			lines := strings.Split(strings.TrimSpace(string(data)), "\n")
			if len(lines) != 3 {
				t.Errorf("merged table has %d lines, want header + 2 aggregate rows", len(lines))
			}
		})
	}
}

func TestRun_InnerJoinWithSeries(t *testing.T) {
	cfg := testConfig(t)
	cfg.JoinMode = "inner"

	if err := os.MkdirAll(cfg.IndicatorsDir, 0755); err != nil {
		t.Fatal(err)
	}
	series := "date,colcap_close\n2024-01-01,1300\n"
	if err := os.WriteFile(filepath.Join(cfg.IndicatorsDir, "COLCAP.csv"), []byte(series), 0644); err != nil {
		t.Fatal(err)
	}

	result, err := Run(discardLogger(), cfg, nil)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if !result.HasSeries {
		t.Error("HasSeries = false, want true")
	}
	// Inner mode still drops the unmatched date when the series is present.
	if result.Report.DaysAnalyzed != 1 {
		t.Errorf("DaysAnalyzed = %d, want 1", result.Report.DaysAnalyzed)
	}
	if result.Report.DaysWithSeries != 1 {
		t.Errorf("DaysWithSeries = %d, want 1", result.Report.DaysWithSeries)
	}
}

func TestRun_MissingProcessedTable(t *testing.T) {
	cfg := models.DefaultConfig()
	dir := t.TempDir()
	cfg.ProcessedDir = filepath.Join(dir, "processed")
	cfg.IndicatorsDir = filepath.Join(dir, "indicators")
	cfg.AggregatedDir = filepath.Join(dir, "aggregated")

	if _, err := Run(discardLogger(), cfg, nil); err == nil {
		t.Error("Run() error = nil, want hard error without a processed table")
	}
}
