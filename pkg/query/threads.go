package query

import (
	"sort"
	"time"

	"github.com/shuu880/slack-log-viewer/pkg/models"
)

// Thread is a reconstructed reply chain: one root message and its
// replies in ascending time order. A thread is orphaned when replies
// reference a root that is missing from the input, either because the
// root fell outside the filter or was never exported.
type Thread struct {
	Channel  string           `json:"channel"`
	RootTS   string           `json:"root_ts"`
	Root     *models.Message  `json:"root,omitempty"`
	Replies  []models.Message `json:"replies,omitempty"`
	Orphaned bool             `json:"orphaned,omitempty"`
}

// Time returns the thread's ordering timestamp: the root's time, or the
// earliest reply's for orphaned threads
func (t Thread) Time() time.Time {
	if t.Root != nil {
		return t.Root.Time
	}
	if len(t.Replies) > 0 {
		return t.Replies[0].Time
	}
	return time.Time{}
}

// Size returns the total number of messages in the thread
func (t Thread) Size() int {
	n := len(t.Replies)
	if t.Root != nil {
		n++
	}
	return n
}

// Threads groups messages into reply chains keyed by channel and thread
// parent timestamp. A message is a root when it carries no thread_ts or
// its thread_ts equals its own ts; every other message is a reply to
// the chain its thread_ts names. Replies sort ascending regardless of
// order; order only arranges the threads themselves. Grouping is
// deterministic: the same input always yields the same output.
func Threads(msgs []models.Message, order Order) []Thread {
	type key struct {
		channel string
		rootTS  string
	}

	index := make(map[key]int)
	threads := make([]Thread, 0)
	for _, m := range msgs {
		k := key{channel: m.Channel, rootTS: m.RootTS()}
		i, ok := index[k]
		if !ok {
			i = len(threads)
			index[k] = i
			threads = append(threads, Thread{Channel: m.Channel, RootTS: m.RootTS()})
		}
		if m.IsThreadReply() {
			threads[i].Replies = append(threads[i].Replies, m)
		} else {
			root := m
			threads[i].Root = &root
		}
	}

	for i := range threads {
		threads[i].Orphaned = threads[i].Root == nil
		sort.SliceStable(threads[i].Replies, func(a, b int) bool {
			return threads[i].Replies[a].Time.Before(threads[i].Replies[b].Time)
		})
	}

	if order == OrderDesc {
		sort.SliceStable(threads, func(i, j int) bool {
			return threads[i].Time().After(threads[j].Time())
		})
	} else {
		sort.SliceStable(threads, func(i, j int) bool {
			return threads[i].Time().Before(threads[j].Time())
		})
	}
	return threads
}
