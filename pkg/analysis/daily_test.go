package analysis

import (
	"testing"

	"github.com/dnovoa/econpulse/models"
)

func TestAggregate(t *testing.T) {
	records := []models.ProcessedRecord{
		{Date: "2024-01-01", DocID: "1", KeywordHits: 1},
		{Date: "2024-01-01", DocID: "2", KeywordHits: 1},
		{Date: "2024-01-02", DocID: "3", KeywordHits: 0},
	}

	got := Aggregate(records)
	want := []models.DailyAggregate{
		{Date: "2024-01-01", DocsCount: 2, TotalKeywordHits: 2},
		{Date: "2024-01-02", DocsCount: 1, TotalKeywordHits: 0},
	}

	if len(got) != len(want) {
		t.Fatalf("len(Aggregate()) = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Aggregate()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestAggregate_OrderIndependent(t *testing.T) {
	forward := []models.ProcessedRecord{
		{Date: "2024-01-02", DocID: "a", KeywordHits: 3},
		{Date: "2024-01-01", DocID: "b", KeywordHits: 1},
		{Date: "2024-01-01", DocID: "c", KeywordHits: 2},
	}
	reversed := []models.ProcessedRecord{forward[2], forward[1], forward[0]}

	got1 := Aggregate(forward)
	got2 := Aggregate(reversed)
	if len(got1) != len(got2) {
		t.Fatalf("row counts differ: %d vs %d", len(got1), len(got2))
	}
	for i := range got1 {
		if got1[i] != got2[i] {
			t.Errorf("row %d differs by input order: %+v vs %+v", i, got1[i], got2[i])
		}
	}

	// Rows come out sorted ascending by date.
	for i := 1; i < len(got1); i++ {
		if got1[i-1].Date >= got1[i].Date {
			t.Errorf("rows not sorted: %q before %q", got1[i-1].Date, got1[i].Date)
		}
	}
}

func TestAggregate_DocsCountMatchesInput(t *testing.T) {
	records := []models.ProcessedRecord{
		{Date: "2024-01-01", DocID: "1"},
		{Date: "2024-01-02", DocID: "2"},
		{Date: "2024-01-02", DocID: "2"}, // colliding doc_id still counts
		{Date: "2024-01-03", DocID: "3"},
	}

	total := 0
	for _, row := range Aggregate(records) {
		total += row.DocsCount
	}
	if total != len(records) {
		t.Errorf("sum of DocsCount = %d, want %d", total, len(records))
	}
}

func TestAggregate_Empty(t *testing.T) {
	if got := Aggregate(nil); len(got) != 0 {
		t.Errorf("Aggregate(nil) = %v, want empty", got)
	}
}
