package models

// Correlation is a Pearson coefficient that may be undefined. Fewer than two
// paired points, or zero variance in either series, leaves Defined false;
// that state is distinct from a computed coefficient of 0.
type Correlation struct {
	Value   float64 `json:"value"`
	Defined bool    `json:"defined"`
}

// MetricsReport is the scalar summary computed from the merged daily table.
// The series fields are only meaningful when DaysWithSeries > 0.
type MetricsReport struct {
	TotalDocuments     int         `json:"total_documents"`
	TotalKeywords      int         `json:"total_keywords"`
	DateRange          string      `json:"date_range"`
	DaysAnalyzed       int         `json:"days_analyzed"`
	AverageDocsPerDay  float64     `json:"average_docs_per_day"`
	AverageKeysPerDay  float64     `json:"average_keywords_per_day"`
	DaysWithSeries     int         `json:"days_with_colcap"`
	SeriesMin          float64     `json:"colcap_min"`
	SeriesMax          float64     `json:"colcap_max"`
	SeriesMean         float64     `json:"average_colcap"`
	KeywordCorrelation Correlation `json:"correlation_keywords_colcap"`
}
