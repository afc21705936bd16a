package query

import (
	"sort"
	"time"

	"github.com/shuu880/slack-log-viewer/pkg/models"
)

// Summary holds the headline numbers for a filtered result set
type Summary struct {
	Messages    int       `json:"messages"`
	UniqueUsers int       `json:"unique_users"`
	Channels    int       `json:"channels"`
	First       time.Time `json:"first"`
	Last        time.Time `json:"last"`
}

// DayCount is one day of the posts-per-day series
type DayCount struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

// NameCount pairs a grouping key with its message count
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// Stats bundles the aggregate views the dashboard charts are built from
type Stats struct {
	Summary    Summary     `json:"summary"`
	PerDay     []DayCount  `json:"per_day"`
	PerChannel []NameCount `json:"per_channel"`
	PerUser    []NameCount `json:"per_user"`
}

// Compute aggregates a filtered result set. The per-day series is
// zero-filled over [from, to] when both bounds are set, otherwise over
// the data's own extent, so chart gaps show as explicit zero days. Days
// are UTC calendar days.
func Compute(msgs []models.Message, from, to time.Time) Stats {
	var stats Stats

	users := make(map[string]struct{})
	channels := make(map[string]int)
	perUser := make(map[string]int)
	perDay := make(map[string]int)

	var first, last time.Time
	for _, m := range msgs {
		users[m.User] = struct{}{}
		channels[m.Channel]++
		perUser[m.User]++
		perDay[m.Time.UTC().Format("2006-01-02")]++
		if first.IsZero() || m.Time.Before(first) {
			first = m.Time
		}
		if last.IsZero() || m.Time.After(last) {
			last = m.Time
		}
	}

	stats.Summary = Summary{
		Messages:    len(msgs),
		UniqueUsers: len(users),
		Channels:    len(channels),
		First:       first,
		Last:        last,
	}

	stats.PerDay = fillDays(perDay, boundOr(from, first), boundOr(to, last))

	stats.PerChannel = make([]NameCount, 0, len(channels))
	for name, count := range channels {
		stats.PerChannel = append(stats.PerChannel, NameCount{Name: name, Count: count})
	}
	sort.Slice(stats.PerChannel, func(i, j int) bool {
		return stats.PerChannel[i].Name < stats.PerChannel[j].Name
	})

	stats.PerUser = make([]NameCount, 0, len(perUser))
	for name, count := range perUser {
		stats.PerUser = append(stats.PerUser, NameCount{Name: name, Count: count})
	}
	// busiest first, name breaks ties so the order is reproducible
	sort.Slice(stats.PerUser, func(i, j int) bool {
		if stats.PerUser[i].Count != stats.PerUser[j].Count {
			return stats.PerUser[i].Count > stats.PerUser[j].Count
		}
		return stats.PerUser[i].Name < stats.PerUser[j].Name
	})

	return stats
}

// boundOr prefers the explicit filter bound over the data's own extent
func boundOr(bound, fallback time.Time) time.Time {
	if !bound.IsZero() {
		return bound
	}
	return fallback
}

// fillDays expands the sparse per-day counts into a dense series over
// [start, end], one entry per UTC day
func fillDays(counts map[string]int, start, end time.Time) []DayCount {
	if start.IsZero() || end.IsZero() || end.Before(start) {
		return []DayCount{}
	}

	day := time.Date(start.UTC().Year(), start.UTC().Month(), start.UTC().Day(), 0, 0, 0, 0, time.UTC)
	endDay := time.Date(end.UTC().Year(), end.UTC().Month(), end.UTC().Day(), 0, 0, 0, 0, time.UTC)

	series := make([]DayCount, 0)
	for !day.After(endDay) {
		date := day.Format("2006-01-02")
		series = append(series, DayCount{Date: date, Count: counts[date]})
		day = day.AddDate(0, 0, 1)
	}
	return series
}
