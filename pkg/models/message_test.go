package models

import (
	"testing"
	"time"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name      string
		timestamp string
		want      time.Time
		wantErr   bool
	}{
		{
			name:      "Slack timestamp with microseconds",
			timestamp: "1599934232.150700",
			want:      time.Unix(1599934232, 150700000).UTC(),
		},
		{
			name:      "Unix timestamp without fraction",
			timestamp: "1599934232",
			want:      time.Unix(1599934232, 0).UTC(),
		},
		{
			name:      "Short fraction scales by digit count",
			timestamp: "1.5",
			want:      time.Unix(1, 500000000).UTC(),
		},
		{
			name:      "Whole second",
			timestamp: "1.0",
			want:      time.Unix(1, 0).UTC(),
		},
		{
			name:      "Nanosecond precision",
			timestamp: "1599934232.123456789",
			want:      time.Unix(1599934232, 123456789).UTC(),
		},
		{
			name:      "Not numeric",
			timestamp: "abc.def",
			wantErr:   true,
		},
		{
			name:      "Empty string",
			timestamp: "",
			wantErr:   true,
		},
		{
			name:      "Trailing garbage",
			timestamp: "1599934232.15x",
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.timestamp)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTimestamp() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp() = %v, want %v", got, tt.want)
			}
			if got.Location() != time.UTC {
				t.Errorf("ParseTimestamp() location = %v, want UTC", got.Location())
			}
		})
	}
}

func TestMessageThreadPredicates(t *testing.T) {
	tests := []struct {
		name       string
		msg        Message
		wantReply  bool
		wantRootTS string
	}{
		{
			name:       "Plain message is its own root",
			msg:        Message{TS: "100.1"},
			wantReply:  false,
			wantRootTS: "100.1",
		},
		{
			name:       "Thread parent references itself",
			msg:        Message{TS: "100.1", ThreadTS: "100.1"},
			wantReply:  false,
			wantRootTS: "100.1",
		},
		{
			name:       "Reply references its parent",
			msg:        Message{TS: "105.2", ThreadTS: "100.1"},
			wantReply:  true,
			wantRootTS: "100.1",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.IsThreadReply(); got != tt.wantReply {
				t.Errorf("IsThreadReply() = %v, want %v", got, tt.wantReply)
			}
			if got := tt.msg.RootTS(); got != tt.wantRootTS {
				t.Errorf("RootTS() = %q, want %q", got, tt.wantRootTS)
			}
		})
	}
}

func TestMessageIsJoin(t *testing.T) {
	tests := []struct {
		name string
		msg  Message
		want bool
	}{
		{
			name: "Join notice by text",
			msg:  Message{Text: "<@U02ABCDEF> has joined the channel"},
			want: true,
		},
		{
			name: "Join notice by subtype",
			msg:  Message{Subtype: "channel_join", Text: "irrelevant"},
			want: true,
		},
		{
			name: "Join phrase quoted mid-message",
			msg:  Message{Text: "he wrote <@U02ABCDEF> has joined the channel"},
			want: false,
		},
		{
			name: "Regular message",
			msg:  Message{Text: "hello world"},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.msg.IsJoin(); got != tt.want {
				t.Errorf("IsJoin() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMessageKey(t *testing.T) {
	a := Message{Channel: "general", TS: "1.0"}
	b := Message{Channel: "general", TS: "1.0", User: "someone else"}
	c := Message{Channel: "random", TS: "1.0"}

	if a.Key() != b.Key() {
		t.Error("Expected identical keys for same channel and ts")
	}
	if a.Key() == c.Key() {
		t.Error("Expected different keys for different channels")
	}
}
