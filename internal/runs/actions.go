// Package runs implements the econpulse runs command: list recorded pipeline
// runs from the local database.
package runs

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dnovoa/econpulse/pkg/db"
	"github.com/urfave/cli/v2"
)

// Action handles `econpulse runs`.
func Action(c *cli.Context) error {
	logger := slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))

	database, err := db.OpenAt(c.String("db"))
	if err != nil {
		logger.Error("failed to open database", "error", err)
		os.Exit(2)
	}
	defer database.Close()

	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		logger.Error("failed to list runs", "error", err)
		os.Exit(2)
	}

	if len(runs) == 0 {
		fmt.Println("No runs recorded yet")
		return nil
	}

	fmt.Printf("%-6s %-9s %-20s %6s %7s %9s %8s %9s %10s\n",
		"RUN", "COMMAND", "STARTED", "FILES", "FAILED", "RECORDS", "SKIPPED", "SECONDS", "DOCS/SEC")
	for _, r := range runs {
		fmt.Printf("%-6d %-9s %-20s %6d %7d %9d %8d %9.2f %10.2f\n",
			r.RunID, r.Command, r.StartedAt.Format("2006-01-02 15:04:05"),
			r.Files, r.FailedFiles, r.Records, r.Skipped, r.ElapsedSeconds, r.DocsPerSecond)
	}
	return nil
}
