package analysis

import (
	"math"
	"testing"

	"github.com/dnovoa/econpulse/models"
)

func point(date string, close float64) *models.SeriesPoint {
	return &models.SeriesPoint{Date: date, Close: close}
}

func TestPearson_PerfectCorrelation(t *testing.T) {
	xs := []float64{1, 2, 3, 4}
	ys := []float64{10, 20, 30, 40}

	got := Pearson(xs, ys)
	if !got.Defined {
		t.Fatal("Pearson() undefined, want defined")
	}
	if math.Abs(got.Value-1.0) > 1e-9 {
		t.Errorf("Pearson() = %v, want 1.0", got.Value)
	}

	inverted := Pearson(xs, []float64{40, 30, 20, 10})
	if !inverted.Defined || math.Abs(inverted.Value+1.0) > 1e-9 {
		t.Errorf("Pearson() inverted = %+v, want -1.0 defined", inverted)
	}
}

func TestPearson_KnownValue(t *testing.T) {
	xs := []float64{1, 2, 3}
	ys := []float64{1, 2, 4}

	got := Pearson(xs, ys)
	if !got.Defined {
		t.Fatal("Pearson() undefined, want defined")
	}
	// cov = 1, sd product = sqrt(2/3)*sqrt(14/9)
	want := 1.0 / (math.Sqrt(2.0/3.0) * math.Sqrt(14.0/9.0))
	if math.Abs(got.Value-want) > 1e-9 {
		t.Errorf("Pearson() = %v, want %v", got.Value, want)
	}
}

func TestPearson_Undefined(t *testing.T) {
	tests := []struct {
		name string
		xs   []float64
		ys   []float64
	}{
		{"empty", nil, nil},
		{"single point", []float64{1}, []float64{2}},
		{"zero variance x", []float64{5, 5, 5}, []float64{1, 2, 3}},
		{"zero variance y", []float64{1, 2, 3}, []float64{7, 7, 7}},
		{"length mismatch", []float64{1, 2}, []float64{1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Pearson(tt.xs, tt.ys)
			if got.Defined {
				t.Errorf("Pearson() = %+v, want undefined", got)
			}
			if got.Value != 0 {
				t.Errorf("undefined correlation carries value %v, want 0", got.Value)
			}
		})
	}
}

func TestComputeMetrics(t *testing.T) {
	merged := []models.MergedRow{
		{DailyAggregate: models.DailyAggregate{Date: "2024-01-01", DocsCount: 2, TotalKeywordHits: 2}, Series: point("2024-01-01", 1300)},
		{DailyAggregate: models.DailyAggregate{Date: "2024-01-02", DocsCount: 1, TotalKeywordHits: 0}},
		{DailyAggregate: models.DailyAggregate{Date: "2024-01-03", DocsCount: 3, TotalKeywordHits: 6}, Series: point("2024-01-03", 1360)},
		{DailyAggregate: models.DailyAggregate{Date: "2024-01-04", DocsCount: 2, TotalKeywordHits: 4}, Series: point("2024-01-04", 1340)},
	}

	report := ComputeMetrics(merged)

	if report.TotalDocuments != 8 {
		t.Errorf("TotalDocuments = %d, want 8", report.TotalDocuments)
	}
	if report.TotalKeywords != 12 {
		t.Errorf("TotalKeywords = %d, want 12", report.TotalKeywords)
	}
	if report.DaysAnalyzed != 4 {
		t.Errorf("DaysAnalyzed = %d, want 4", report.DaysAnalyzed)
	}
	if report.DateRange != "2024-01-01 to 2024-01-04" {
		t.Errorf("DateRange = %q, want 2024-01-01 to 2024-01-04", report.DateRange)
	}
	if report.AverageDocsPerDay != 2.0 {
		t.Errorf("AverageDocsPerDay = %v, want 2.0", report.AverageDocsPerDay)
	}
	if report.DaysWithSeries != 3 {
		t.Errorf("DaysWithSeries = %d, want 3 (gap day excluded)", report.DaysWithSeries)
	}
	if report.SeriesMin != 1300 || report.SeriesMax != 1360 {
		t.Errorf("series min/max = %v/%v, want 1300/1360", report.SeriesMin, report.SeriesMax)
	}
	if math.Abs(report.SeriesMean-4000.0/3.0) > 1e-9 {
		t.Errorf("SeriesMean = %v, want %v", report.SeriesMean, 4000.0/3.0)
	}
	if !report.KeywordCorrelation.Defined {
		t.Error("KeywordCorrelation undefined, want defined for 3 varied points")
	}
}

func TestComputeMetrics_SinglePairedPoint(t *testing.T) {
	merged := []models.MergedRow{
		{DailyAggregate: models.DailyAggregate{Date: "2024-01-01", DocsCount: 1, TotalKeywordHits: 2}, Series: point("2024-01-01", 1300)},
		{DailyAggregate: models.DailyAggregate{Date: "2024-01-02", DocsCount: 1, TotalKeywordHits: 3}},
	}

	report := ComputeMetrics(merged)
	if report.KeywordCorrelation.Defined {
		t.Errorf("KeywordCorrelation = %+v, want undefined with one paired point", report.KeywordCorrelation)
	}
	if report.DaysWithSeries != 1 {
		t.Errorf("DaysWithSeries = %d, want 1", report.DaysWithSeries)
	}
}

func TestComputeMetrics_ZeroVarianceHits(t *testing.T) {
	merged := []models.MergedRow{
		{DailyAggregate: models.DailyAggregate{Date: "2024-01-01", DocsCount: 1, TotalKeywordHits: 5}, Series: point("2024-01-01", 1300)},
		{DailyAggregate: models.DailyAggregate{Date: "2024-01-02", DocsCount: 1, TotalKeywordHits: 5}, Series: point("2024-01-02", 1320)},
		{DailyAggregate: models.DailyAggregate{Date: "2024-01-03", DocsCount: 1, TotalKeywordHits: 5}, Series: point("2024-01-03", 1340)},
	}

	report := ComputeMetrics(merged)
	if report.KeywordCorrelation.Defined {
		t.Errorf("KeywordCorrelation = %+v, want undefined for zero-variance hits", report.KeywordCorrelation)
	}
}

func TestComputeMetrics_Empty(t *testing.T) {
	report := ComputeMetrics(nil)
	if report.DaysAnalyzed != 0 || report.TotalDocuments != 0 {
		t.Errorf("ComputeMetrics(nil) = %+v, want zero report", report)
	}
	if report.KeywordCorrelation.Defined {
		t.Error("empty report has a defined correlation")
	}
}
