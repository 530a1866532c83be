// Package models defines the record types shared across the pipeline.
package models

const DateLayout = "2006-01-02"

// RawDocument is one news item as read from a document-container file.
// One JSONL line per document; extra fields in the line are ignored.
type RawDocument struct {
	ID   string `json:"id"`
	Date string `json:"date"`
	Text string `json:"text"`
}

// ProcessedRecord is the per-document output of the processing stage.
type ProcessedRecord struct {
	Date        string `json:"date"`
	DocID       string `json:"doc_id"`
	KeywordHits int    `json:"keyword_hits"`
	TextLength  int    `json:"text_length"`
	WordCount   int    `json:"word_count"`
}
