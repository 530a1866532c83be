// Package table reads and writes the flat-file artifacts the pipeline
// exchanges with its collaborators: the processed-record table, the external
// series table, the merged daily table, and the metrics report.
package table

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/dnovoa/econpulse/models"
)

// Artifact file names, matching what the downstream reporting facade expects.
const (
	ProcessedFileName = "results.csv"
	MergedFileName    = "merged_daily.csv"
	MetricsFileName   = "metrics.txt"
	SeriesFileName    = "COLCAP.csv"
)

var processedHeader = []string{"date", "doc_id", "keyword_hits", "text_length", "word_count"}

var mergedHeader = []string{
	"date", "docs_count", "total_keyword_hits",
	"colcap_open", "colcap_high", "colcap_low", "colcap_close", "colcap_volume",
}

// WriteProcessedRecords persists records as CSV, sorted by date so reruns
// produce identical files regardless of worker scheduling.
func WriteProcessedRecords(path string, records []models.ProcessedRecord) error {
	sorted := make([]models.ProcessedRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Date < sorted[j].Date })

	rows := make([][]string, 0, len(sorted)+1)
	rows = append(rows, processedHeader)
	for _, r := range sorted {
		rows = append(rows, []string{
			r.Date,
			r.DocID,
			strconv.Itoa(r.KeywordHits),
			strconv.Itoa(r.TextLength),
			strconv.Itoa(r.WordCount),
		})
	}
	return writeCSV(path, rows)
}

// ReadProcessedRecords loads a processed-record table. Columns are resolved by
// header name; text_length and word_count are optional so older three-column
// tables still load. Rows with a bad hit count are skipped with a warning.
func ReadProcessedRecords(path string, logger *slog.Logger) ([]models.ProcessedRecord, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	cols := indexColumns(rows[0])
	for _, required := range []string{"date", "doc_id", "keyword_hits"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%s is missing column %q", path, required)
		}
	}

	records := make([]models.ProcessedRecord, 0, len(rows)-1)
	for i, row := range rows[1:] {
		hits, err := strconv.Atoi(cell(row, cols, "keyword_hits"))
		if err != nil {
			logger.Warn("Skipping processed row", "file", path, "row", i+2, "error", err)
			continue
		}
		record := models.ProcessedRecord{
			Date:        cell(row, cols, "date"),
			DocID:       cell(row, cols, "doc_id"),
			KeywordHits: hits,
		}
		record.TextLength, _ = strconv.Atoi(cell(row, cols, "text_length"))
		record.WordCount, _ = strconv.Atoi(cell(row, cols, "word_count"))
		records = append(records, record)
	}
	return records, nil
}

// ReadSeries loads the external daily series table produced by the acquirer.
// Only date and colcap_close are required; rows with an unparsable close are
// skipped with a warning, not fatal.
func ReadSeries(path string, logger *slog.Logger) ([]models.SeriesPoint, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("%s is empty", path)
	}

	cols := indexColumns(rows[0])
	for _, required := range []string{"date", "colcap_close"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("%s is missing column %q", path, required)
		}
	}

	points := make([]models.SeriesPoint, 0, len(rows)-1)
	for i, row := range rows[1:] {
		date := cell(row, cols, "date")
		closeVal, err := strconv.ParseFloat(cell(row, cols, "colcap_close"), 64)
		if date == "" || err != nil {
			logger.Warn("Skipping series row", "file", path, "row", i+2, "date", date)
			continue
		}
		point := models.SeriesPoint{Date: date, Close: closeVal}
		point.Open, _ = strconv.ParseFloat(cell(row, cols, "colcap_open"), 64)
		point.High, _ = strconv.ParseFloat(cell(row, cols, "colcap_high"), 64)
		point.Low, _ = strconv.ParseFloat(cell(row, cols, "colcap_low"), 64)
		point.Volume, _ = strconv.ParseFloat(cell(row, cols, "colcap_volume"), 64)
		points = append(points, point)
	}
	return points, nil
}

// WriteMergedRows persists the merged daily table. Series columns are blank
// on rows without a series point.
func WriteMergedRows(path string, merged []models.MergedRow) error {
	rows := make([][]string, 0, len(merged)+1)
	rows = append(rows, mergedHeader)
	for _, m := range merged {
		row := []string{
			m.Date,
			strconv.Itoa(m.DocsCount),
			strconv.Itoa(m.TotalKeywordHits),
			"", "", "", "", "",
		}
		if m.Series != nil {
			row[3] = formatFloat(m.Series.Open)
			row[4] = formatFloat(m.Series.High)
			row[5] = formatFloat(m.Series.Low)
			row[6] = formatFloat(m.Series.Close)
			row[7] = formatFloat(m.Series.Volume)
		}
		rows = append(rows, row)
	}
	return writeCSV(path, rows)
}

// WriteMetricsReport writes the key: value report consumed by the serving
// facade. An undefined correlation is written as the literal "undefined" so
// readers can tell it apart from a computed zero. Series lines only appear
// when at least one merged row had a series point.
func WriteMetricsReport(path string, report models.MetricsReport) error {
	var sb strings.Builder
	writeLine := func(key, value string) {
		sb.WriteString(key)
		sb.WriteString(": ")
		sb.WriteString(value)
		sb.WriteByte('\n')
	}

	writeLine("total_documents", strconv.Itoa(report.TotalDocuments))
	writeLine("total_keywords", strconv.Itoa(report.TotalKeywords))
	writeLine("date_range", report.DateRange)
	writeLine("days_analyzed", strconv.Itoa(report.DaysAnalyzed))
	writeLine("average_docs_per_day", formatFloat(report.AverageDocsPerDay))
	writeLine("average_keywords_per_day", formatFloat(report.AverageKeysPerDay))

	if report.DaysWithSeries > 0 {
		if report.KeywordCorrelation.Defined {
			writeLine("correlation_keywords_colcap", formatFloat(report.KeywordCorrelation.Value))
		} else {
			writeLine("correlation_keywords_colcap", "undefined")
		}
		writeLine("average_colcap", formatFloat(report.SeriesMean))
		writeLine("colcap_min", formatFloat(report.SeriesMin))
		writeLine("colcap_max", formatFloat(report.SeriesMax))
		writeLine("days_with_colcap", strconv.Itoa(report.DaysWithSeries))
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return fmt.Errorf("failed to write metrics report: %w", err)
	}
	return nil
}

func writeCSV(path string, rows [][]string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}

	w := csv.NewWriter(f)
	if err := w.WriteAll(rows); err != nil {
		_ = f.Close()
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return rows, nil
}

func indexColumns(header []string) map[string]int {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.TrimSpace(strings.ToLower(name))] = i
	}
	return cols
}

func cell(row []string, cols map[string]int, name string) string {
	i, ok := cols[name]
	if !ok || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
