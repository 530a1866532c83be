package pipeline

import (
	"bufio"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"

	"github.com/dnovoa/econpulse/models"
	"github.com/dnovoa/econpulse/pkg/keywords"
)

// maxLineBytes bounds a single JSONL line. News bodies are short; 1 MiB is
// generous headroom over the bufio default.
const maxLineBytes = 1 << 20

// ReadAndProcess streams one JSONL document-container file, processing
// documents in chunks of chunkSize. Chunking bounds memory only; the output
// is identical for any chunk size. Malformed lines and skipped documents are
// logged and counted, never fatal. The returned error is reserved for the
// file itself being unreadable.
func ReadAndProcess(path string, set *keywords.Set, chunkSize int, logger *slog.Logger) ([]models.ProcessedRecord, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var (
		records []models.ProcessedRecord
		chunk   []models.RawDocument
		skipped int
		lineNo  int
	)

	flush := func() {
		for _, doc := range chunk {
			record, reason := ProcessDocument(doc, set)
			if reason != "" {
				skipped++
				logger.Warn("Skipping document", "file", path, "doc_id", doc.ID, "reason", reason)
				continue
			}
			records = append(records, record)
		}
		chunk = chunk[:0]
	}

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), maxLineBytes)
	for scanner.Scan() {
		lineNo++
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var doc models.RawDocument
		if err := json.Unmarshal(line, &doc); err != nil {
			skipped++
			logger.Warn("Skipping malformed line", "file", path, "line", lineNo, "reason", SkipBadLine, "error", err)
			continue
		}

		chunk = append(chunk, doc)
		if len(chunk) >= chunkSize {
			flush()
		}
	}
	if err := scanner.Err(); err != nil {
		// Partial results from a truncated read are still valid records.
		flush()
		return records, skipped, fmt.Errorf("failed to read %s: %w", path, err)
	}

	flush()
	logger.Info("Processed file", "file", path, "records", len(records), "skipped", skipped)
	return records, skipped, nil
}
