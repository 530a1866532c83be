package models

// DailyAggregate is the per-calendar-date rollup of processed records.
type DailyAggregate struct {
	Date             string `json:"date"`
	DocsCount        int    `json:"docs_count"`
	TotalKeywordHits int    `json:"total_keyword_hits"`
}

// SeriesPoint is one day of the external financial index. Only Date and
// Close are required in the source table; the rest may be zero.
type SeriesPoint struct {
	Date   string  `json:"date"`
	Open   float64 `json:"colcap_open,omitempty"`
	High   float64 `json:"colcap_high,omitempty"`
	Low    float64 `json:"colcap_low,omitempty"`
	Close  float64 `json:"colcap_close"`
	Volume float64 `json:"colcap_volume,omitempty"`
}

// MergedRow joins a daily aggregate with the external series on date.
// Series is nil when no point exists for that date (left join gap).
type MergedRow struct {
	DailyAggregate
	Series *SeriesPoint `json:"series,omitempty"`
}
