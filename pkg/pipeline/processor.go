// Package pipeline implements the concurrent document-processing stage:
// per-document scoring, chunked file reading, and the worker pool that fans
// input files out across the host's cores.
package pipeline

import (
	"time"

	"github.com/dnovoa/econpulse/models"
	"github.com/dnovoa/econpulse/pkg/keywords"
	"github.com/dnovoa/econpulse/pkg/textnorm"
)

// Skip reasons attached to documents that produce no record.
const (
	SkipBadLine     = "bad_line"
	SkipMissingText = "missing_text"
	SkipMissingDate = "missing_date"
	SkipInvalidDate = "invalid_date"
)

// ProcessDocument scores one document against the keyword set. The returned
// reason is empty on success; otherwise the document is skipped and the reason
// says why. A skip never propagates as an error: one bad document must not
// take down its file or batch.
func ProcessDocument(doc models.RawDocument, set *keywords.Set) (models.ProcessedRecord, string) {
	if doc.Text == "" {
		return models.ProcessedRecord{}, SkipMissingText
	}
	if doc.Date == "" {
		return models.ProcessedRecord{}, SkipMissingDate
	}
	if _, err := time.Parse(models.DateLayout, doc.Date); err != nil {
		return models.ProcessedRecord{}, SkipInvalidDate
	}

	normalized := textnorm.Normalize(doc.Text)

	return models.ProcessedRecord{
		Date:        doc.Date,
		DocID:       doc.ID,
		KeywordHits: set.Score(normalized),
		TextLength:  len([]rune(doc.Text)),
		WordCount:   textnorm.WordCount(normalized),
	}, ""
}
