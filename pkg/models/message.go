package models

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Message represents a message from a Slack export file
type Message struct {
	// Channel is derived from the export file name at load time
	Channel string `json:"channel"`

	// Folder is the date-range subfolder the file came from, empty for
	// files directly under the export root
	Folder string `json:"folder,omitempty"`

	// TS is the raw Slack timestamp: epoch seconds with an optional
	// fractional part (e.g. "1599934232.150700"). Thread linkage and the
	// (channel, ts) uniqueness key compare the raw string.
	TS string `json:"ts"`

	// Time is TS parsed to UTC
	Time time.Time `json:"time"`

	// User is the sender identifier
	User string `json:"user"`

	// Text is the free-text body, possibly empty
	Text string `json:"text"`

	// ThreadTS links a reply to its root message; on the root itself it
	// equals TS
	ThreadTS string `json:"thread_ts,omitempty"`

	// Subtype carries the Slack message subtype (e.g. "channel_join")
	Subtype string `json:"subtype,omitempty"`
}

// MessageKey is the archive uniqueness key for a message
type MessageKey struct {
	Channel string
	TS      string
}

// Key returns the message's uniqueness key
func (m Message) Key() MessageKey {
	return MessageKey{Channel: m.Channel, TS: m.TS}
}

// IsThreadReply reports whether the message is a reply inside a thread
func (m Message) IsThreadReply() bool {
	return m.ThreadTS != "" && m.ThreadTS != m.TS
}

// RootTS returns the timestamp the message groups under: its thread-parent
// timestamp when set, otherwise its own
func (m Message) RootTS() string {
	if m.ThreadTS != "" {
		return m.ThreadTS
	}
	return m.TS
}

// joinMessageRE matches Slack's channel-join notices
var joinMessageRE = regexp.MustCompile(`^<@U\w+> has joined the channel`)

// IsJoin reports whether the message is a channel-join notice
func (m Message) IsJoin() bool {
	return m.Subtype == "channel_join" || joinMessageRE.MatchString(m.Text)
}

// ChannelInfo summarizes one channel in the archive
type ChannelInfo struct {
	Name     string    `json:"name"`
	Messages int       `json:"messages"`
	First    time.Time `json:"first"`
	Last     time.Time `json:"last"`
	Folders  []string  `json:"folders,omitempty"`
}

// ParseTimestamp parses a Slack timestamp into a UTC time.
// Slack timestamps are epoch seconds with an optional fractional part of
// any precision: "1.0" is one second, "1599934232.150700" carries
// microseconds. The fraction is scaled by its digit count.
func ParseTimestamp(ts string) (time.Time, error) {
	s := strings.TrimSpace(ts)
	if s == "" {
		return time.Time{}, fmt.Errorf("empty timestamp")
	}

	sec := s
	var frac string
	if i := strings.IndexByte(s, '.'); i >= 0 {
		sec, frac = s[:i], s[i+1:]
	}

	seconds, err := strconv.ParseInt(sec, 10, 64)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", ts, err)
	}

	var nanos int64
	if frac != "" {
		if len(frac) > 9 {
			frac = frac[:9]
		}
		nanos, err = strconv.ParseInt(frac, 10, 64)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid timestamp %q: %w", ts, err)
		}
		for i := len(frac); i < 9; i++ {
			nanos *= 10
		}
	}

	return time.Unix(seconds, nanos).UTC(), nil
}
