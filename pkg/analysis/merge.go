package analysis

import (
	"fmt"

	"github.com/dnovoa/econpulse/models"
)

// JoinMode selects how aggregate dates without a series point are treated.
type JoinMode string

const (
	// JoinLeft keeps every aggregate date; rows without a series point carry
	// a nil Series.
	JoinLeft JoinMode = "left"
	// JoinInner keeps only dates present in both inputs.
	JoinInner JoinMode = "inner"
)

// ParseJoinMode validates a join mode string from config or flags.
func ParseJoinMode(raw string) (JoinMode, error) {
	switch JoinMode(raw) {
	case JoinLeft, JoinInner:
		return JoinMode(raw), nil
	}
	return "", fmt.Errorf("invalid join mode %q (want left or inner)", raw)
}

// Merge joins daily aggregates with the external series on the exact date
// string. No interpolation or nearest-neighbor matching happens: a non-trading
// day is either dropped (inner) or kept with a nil series point (left).
// Aggregate row order is preserved.
func Merge(aggregate []models.DailyAggregate, series []models.SeriesPoint, mode JoinMode) []models.MergedRow {
	byDate := make(map[string]*models.SeriesPoint, len(series))
	for i := range series {
		byDate[series[i].Date] = &series[i]
	}

	out := make([]models.MergedRow, 0, len(aggregate))
	for _, agg := range aggregate {
		point := byDate[agg.Date]
		if point == nil && mode == JoinInner {
			continue
		}
		out = append(out, models.MergedRow{DailyAggregate: agg, Series: point})
	}
	return out
}
