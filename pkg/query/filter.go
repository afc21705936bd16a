// Package query filters archive snapshots and derives threads and
// statistics from the filtered results. All operations are pure: they
// never modify their input and always allocate fresh result slices.
package query

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/shuu880/slack-log-viewer/pkg/models"
)

// Order controls result ordering on timestamps
type Order string

const (
	OrderAsc  Order = "asc"
	OrderDesc Order = "desc"
)

// ErrInvalidRange reports a date range whose lower bound is after the
// upper bound
var ErrInvalidRange = errors.New("from must not be after to")

// Filter selects a subset of an archive snapshot. The zero value
// matches every regular message.
type Filter struct {
	// Channel restricts results to one channel; empty means all channels
	Channel string
	// From and To bound the message time inclusively; a zero time leaves
	// that side unbounded
	From time.Time
	To   time.Time
	// Query is matched case-insensitively as a substring of the message
	// text, and literally as a substring of the raw timestamp
	Query string
	// Timestamp matches messages whose raw ts or thread_ts equals the
	// given value; datetime or epoch input matches by the surrounding
	// second instead of exact equality
	Timestamp string
	// IncludeJoins keeps channel-join notices, which are hidden by default
	IncludeJoins bool
	// Order is the timestamp ordering of the result, ascending by default
	Order Order
}

// Validate normalizes the filter and rejects impossible combinations
func (f *Filter) Validate() error {
	switch f.Order {
	case "":
		f.Order = OrderAsc
	case OrderAsc, OrderDesc:
	default:
		return fmt.Errorf("invalid order %q: must be asc or desc", f.Order)
	}
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return ErrInvalidRange
	}
	return nil
}

// Apply returns the matching subset of msgs as a fresh slice. Matching
// is stable on the input order; OrderDesc reverses the result.
func (f Filter) Apply(msgs []models.Message) []models.Message {
	query := strings.ToLower(f.Query)

	var tsSecond int64
	tsParsed := false
	if f.Timestamp != "" {
		if t, err := ParseTimeBound(f.Timestamp, false); err == nil && !t.IsZero() {
			tsSecond = t.Unix()
			tsParsed = true
		}
	}

	out := make([]models.Message, 0)
	for _, m := range msgs {
		if f.matches(m, query, tsSecond, tsParsed) {
			out = append(out, m)
		}
	}
	if f.Order == OrderDesc {
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	}
	return out
}

func (f Filter) matches(m models.Message, query string, tsSecond int64, tsParsed bool) bool {
	if f.Channel != "" && m.Channel != f.Channel {
		return false
	}
	if !f.IncludeJoins && m.IsJoin() {
		return false
	}
	if !f.From.IsZero() && m.Time.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && m.Time.After(f.To) {
		return false
	}
	if query != "" &&
		!strings.Contains(strings.ToLower(m.Text), query) &&
		!strings.Contains(m.TS, query) {
		return false
	}
	if f.Timestamp != "" && !f.matchesTimestamp(m, tsSecond, tsParsed) {
		return false
	}
	return true
}

// matchesTimestamp checks the ts search term against a message. Exact
// raw matches find a specific message or thread; parsed input widens
// the match to the surrounding second, so users can paste either a raw
// Slack ts or a human-readable datetime.
func (f Filter) matchesTimestamp(m models.Message, tsSecond int64, tsParsed bool) bool {
	if m.TS == f.Timestamp || (m.ThreadTS != "" && m.ThreadTS == f.Timestamp) {
		return true
	}
	if !tsParsed {
		return false
	}
	if m.Time.Unix() == tsSecond {
		return true
	}
	if m.ThreadTS != "" {
		if rt, err := models.ParseTimestamp(m.ThreadTS); err == nil && rt.Unix() == tsSecond {
			return true
		}
	}
	return false
}

var epochRE = regexp.MustCompile(`^\d+(\.\d+)?$`)

// timeLayouts are the accepted non-epoch bound formats, tried in order
var timeLayouts = []string{
	"2006-01-02",
	"2006-01-02 15:04:05",
	time.RFC3339,
}

// ParseTimeBound parses a range bound. Accepted forms are epoch seconds
// ("1714649600", "1.5"), a bare date ("2024-01-01"), a datetime
// ("2024-01-01 15:04:05") or RFC 3339. A bare date used as the upper
// bound expands to the end of that day so date ranges stay inclusive.
// Empty input yields the zero time, meaning unbounded.
func ParseTimeBound(s string, upper bool) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, nil
	}
	if epochRE.MatchString(s) {
		return models.ParseTimestamp(s)
	}
	for _, layout := range timeLayouts {
		t, err := time.Parse(layout, s)
		if err != nil {
			continue
		}
		t = t.UTC()
		if upper && layout == "2006-01-02" {
			t = t.Add(24*time.Hour - time.Nanosecond)
		}
		return t, nil
	}
	return time.Time{}, fmt.Errorf("unrecognized time %q", s)
}
