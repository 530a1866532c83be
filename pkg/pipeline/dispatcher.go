package pipeline

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/dnovoa/econpulse/models"
	"github.com/dnovoa/econpulse/pkg/keywords"
)

// Options configures a dispatch. Zero values fall back to host parallelism
// and the default chunk size.
type Options struct {
	Workers   int
	ChunkSize int
}

// FileResult is the outcome of one worker running one file end to end.
type FileResult struct {
	Path    string
	Records []models.ProcessedRecord
	Skipped int
	Err     error
}

// Summary is the flattened result of a dispatch over a batch of files.
// Skipped counts documents skipped inside files that completed; a failed file
// is accounted for only in FailedFiles.
type Summary struct {
	Records     []models.ProcessedRecord
	Files       int
	FailedFiles int
	Skipped     int
	Elapsed     time.Duration
}

// Dispatch fans the input files out across a bounded worker pool. Each file is
// assigned to exactly one worker; a file that cannot be read contributes zero
// records and is counted as failed without disturbing its siblings. Record
// order is preserved within a file but unspecified across files. Cancelling
// the context is soft: in-flight files finish, queued files are abandoned.
func Dispatch(ctx context.Context, paths []string, set *keywords.Set, opts Options, logger *slog.Logger) Summary {
	workers := opts.Workers
	if workers < 1 {
		workers = runtime.NumCPU()
	}
	if workers > len(paths) && len(paths) > 0 {
		workers = len(paths)
	}
	chunkSize := opts.ChunkSize
	if chunkSize < 1 {
		chunkSize = 500
	}

	start := time.Now()
	logger.Info("Starting parallel processing", "files", len(paths), "workers", workers, "chunk_size", chunkSize)

	jobs := make(chan string, len(paths))
	results := make(chan FileResult, len(paths))

	var wg sync.WaitGroup
	for w := 1; w <= workers; w++ {
		wg.Add(1)
		go worker(ctx, w, set, chunkSize, &wg, jobs, results, logger)
	}

	for _, path := range paths {
		jobs <- path
	}
	close(jobs)

	wg.Wait()
	close(results)

	summary := Summary{}
	for result := range results {
		summary.Files++
		if result.Err != nil {
			summary.FailedFiles++
			continue
		}
		summary.Records = append(summary.Records, result.Records...)
		summary.Skipped += result.Skipped
	}
	summary.Elapsed = time.Since(start)

	throughput := 0.0
	if secs := summary.Elapsed.Seconds(); secs > 0 {
		throughput = float64(len(summary.Records)) / secs
	}
	logger.Info("Parallel processing finished",
		"files", summary.Files,
		"failed_files", summary.FailedFiles,
		"records", len(summary.Records),
		"skipped", summary.Skipped,
		"elapsed_seconds", summary.Elapsed.Seconds(),
		"docs_per_second", throughput)

	return summary
}

// worker drains the jobs channel, running the chunked reader on each file.
// It stops picking up new files once the context is cancelled.
func worker(ctx context.Context, id int, set *keywords.Set, chunkSize int, wg *sync.WaitGroup, jobs <-chan string, results chan<- FileResult, logger *slog.Logger) {
	defer wg.Done()
	for path := range jobs {
		select {
		case <-ctx.Done():
			logger.Warn("Worker stopping, dispatch cancelled", "worker_id", id)
			return
		default:
		}

		logger.Info("Worker started file", "worker_id", id, "file", path)
		records, skipped, err := ReadAndProcess(path, set, chunkSize, logger)
		if err != nil {
			logger.Error("Worker failed file", "worker_id", id, "file", path, "error", err)
			results <- FileResult{Path: path, Skipped: skipped, Err: err}
			continue
		}
		results <- FileResult{Path: path, Records: records, Skipped: skipped}
	}
}
