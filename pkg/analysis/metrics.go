package analysis

import (
	"fmt"
	"math"

	"github.com/dnovoa/econpulse/models"
)

// ComputeMetrics derives the scalar summary from the merged daily table.
// Series statistics and the correlation only consider rows that actually have
// a series point; the correlation stays undefined with fewer than two such
// rows or when either side has zero variance. An empty input yields a zero
// report.
func ComputeMetrics(merged []models.MergedRow) models.MetricsReport {
	report := models.MetricsReport{DaysAnalyzed: len(merged)}
	if len(merged) == 0 {
		return report
	}

	minDate, maxDate := merged[0].Date, merged[0].Date
	var hits, closes []float64
	for _, row := range merged {
		report.TotalDocuments += row.DocsCount
		report.TotalKeywords += row.TotalKeywordHits
		if row.Date < minDate {
			minDate = row.Date
		}
		if row.Date > maxDate {
			maxDate = row.Date
		}
		if row.Series != nil {
			hits = append(hits, float64(row.TotalKeywordHits))
			closes = append(closes, row.Series.Close)
		}
	}

	report.DateRange = fmt.Sprintf("%s to %s", minDate, maxDate)
	report.AverageDocsPerDay = float64(report.TotalDocuments) / float64(len(merged))
	report.AverageKeysPerDay = float64(report.TotalKeywords) / float64(len(merged))

	report.DaysWithSeries = len(closes)
	if len(closes) > 0 {
		report.SeriesMin, report.SeriesMax = closes[0], closes[0]
		sum := 0.0
		for _, v := range closes {
			if v < report.SeriesMin {
				report.SeriesMin = v
			}
			if v > report.SeriesMax {
				report.SeriesMax = v
			}
			sum += v
		}
		report.SeriesMean = sum / float64(len(closes))
	}

	report.KeywordCorrelation = Pearson(hits, closes)
	return report
}

// Pearson computes the correlation coefficient between two equal-length
// samples using the covariance over the product of standard deviations.
// The result is tagged undefined rather than NaN when fewer than two pairs
// exist or when either sample has zero variance.
func Pearson(xs, ys []float64) models.Correlation {
	n := len(xs)
	if n != len(ys) || n < 2 {
		return models.Correlation{}
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX, meanY := sumX/float64(n), sumY/float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx, dy := xs[i]-meanX, ys[i]-meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}
	if varX == 0 || varY == 0 {
		return models.Correlation{}
	}

	return models.Correlation{
		Value:   cov / math.Sqrt(varX*varY),
		Defined: true,
	}
}
