package query

import (
	"testing"
	"time"

	"github.com/shuu880/slack-log-viewer/pkg/models"
)

func TestComputeSummary(t *testing.T) {
	archive := []models.Message{
		msg(t, "general", "1714608000.0", "alice", "one"),
		msg(t, "general", "1714694400.0", "alice", "two"),
		msg(t, "random", "1714694500.0", "bob", "three"),
	}

	stats := Compute(archive, time.Time{}, time.Time{})

	if stats.Summary.Messages != 3 {
		t.Errorf("Expected 3 messages, got %d", stats.Summary.Messages)
	}
	if stats.Summary.UniqueUsers != 2 {
		t.Errorf("Expected 2 unique users, got %d", stats.Summary.UniqueUsers)
	}
	if stats.Summary.Channels != 2 {
		t.Errorf("Expected 2 channels, got %d", stats.Summary.Channels)
	}
	if !stats.Summary.First.Equal(time.Unix(1714608000, 0).UTC()) {
		t.Errorf("Wrong first time: %v", stats.Summary.First)
	}
	if !stats.Summary.Last.Equal(time.Unix(1714694500, 0).UTC()) {
		t.Errorf("Wrong last time: %v", stats.Summary.Last)
	}
}

func TestComputePerDayZeroFill(t *testing.T) {
	// 2024-05-02 and 2024-05-05, nothing in between
	archive := []models.Message{
		msg(t, "general", "1714608000.0", "alice", "day one"),
		msg(t, "general", "1714867200.0", "alice", "day four"),
	}

	stats := Compute(archive, time.Time{}, time.Time{})

	if len(stats.PerDay) != 4 {
		t.Fatalf("Expected 4 days in series, got %d: %v", len(stats.PerDay), stats.PerDay)
	}
	wantDays := []DayCount{
		{Date: "2024-05-02", Count: 1},
		{Date: "2024-05-03", Count: 0},
		{Date: "2024-05-04", Count: 0},
		{Date: "2024-05-05", Count: 1},
	}
	for i, want := range wantDays {
		if stats.PerDay[i] != want {
			t.Errorf("Day %d = %+v, want %+v", i, stats.PerDay[i], want)
		}
	}
}

func TestComputePerDayUsesBounds(t *testing.T) {
	archive := []models.Message{
		msg(t, "general", "1714694400.0", "alice", "midweek"),
	}

	from := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 5, 5, 23, 59, 59, 0, time.UTC)
	stats := Compute(archive, from, to)

	if len(stats.PerDay) != 5 {
		t.Fatalf("Expected series over 5 bounded days, got %d", len(stats.PerDay))
	}
	if stats.PerDay[0].Date != "2024-05-01" || stats.PerDay[4].Date != "2024-05-05" {
		t.Errorf("Series does not span the bounds: %v", stats.PerDay)
	}
	total := 0
	for _, day := range stats.PerDay {
		total += day.Count
	}
	if total != 1 {
		t.Errorf("Expected 1 message in the series, got %d", total)
	}
}

func TestComputeEmptyInput(t *testing.T) {
	stats := Compute(nil, time.Time{}, time.Time{})

	if stats.Summary.Messages != 0 {
		t.Errorf("Expected 0 messages, got %d", stats.Summary.Messages)
	}
	if len(stats.PerDay) != 0 {
		t.Errorf("Expected empty per-day series, got %v", stats.PerDay)
	}
	if len(stats.PerChannel) != 0 || len(stats.PerUser) != 0 {
		t.Error("Expected empty groupings for empty input")
	}
}

func TestComputeGroupings(t *testing.T) {
	archive := []models.Message{
		msg(t, "general", "100.0", "alice", "one"),
		msg(t, "general", "200.0", "alice", "two"),
		msg(t, "general", "300.0", "bob", "three"),
		msg(t, "random", "400.0", "bob", "four"),
	}

	stats := Compute(archive, time.Time{}, time.Time{})

	if len(stats.PerChannel) != 2 {
		t.Fatalf("Expected 2 channels, got %d", len(stats.PerChannel))
	}
	if stats.PerChannel[0].Name != "general" || stats.PerChannel[0].Count != 3 {
		t.Errorf("Expected general first with 3, got %+v", stats.PerChannel[0])
	}

	if len(stats.PerUser) != 2 {
		t.Fatalf("Expected 2 users, got %d", len(stats.PerUser))
	}
	// busiest user first; alice and bob are tied at 2, name breaks the tie
	if stats.PerUser[0].Name != "alice" || stats.PerUser[0].Count != 2 {
		t.Errorf("Expected alice first with 2, got %+v", stats.PerUser[0])
	}
}
