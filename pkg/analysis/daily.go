// Package analysis folds processed records into daily aggregates, joins them
// with an external daily series, and computes the summary metrics report.
package analysis

import (
	"sort"

	"github.com/dnovoa/econpulse/models"
)

// Aggregate groups processed records by date. Each distinct date yields one
// row with the document count and summed keyword hits for that day. Input
// order is irrelevant; output is sorted ascending by date so downstream
// artifacts are deterministic. An empty input yields an empty output.
func Aggregate(records []models.ProcessedRecord) []models.DailyAggregate {
	byDate := make(map[string]*models.DailyAggregate)
	for _, r := range records {
		agg, ok := byDate[r.Date]
		if !ok {
			agg = &models.DailyAggregate{Date: r.Date}
			byDate[r.Date] = agg
		}
		agg.DocsCount++
		agg.TotalKeywordHits += r.KeywordHits
	}

	out := make([]models.DailyAggregate, 0, len(byDate))
	for _, agg := range byDate {
		out = append(out, *agg)
	}
	// ISO dates sort correctly as strings.
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}
