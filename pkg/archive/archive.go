// Package archive loads Slack export files from a directory tree into an
// immutable in-memory snapshot and keeps that snapshot fresh.
package archive

import (
	"sort"

	"github.com/shuu880/slack-log-viewer/pkg/models"
)

// Archive is an immutable snapshot of every message loaded from the
// export root, ordered by timestamp. Queries share the underlying
// slices; callers must treat them as read-only.
type Archive struct {
	messages  []models.Message
	byChannel map[string][]models.Message
	channels  []models.ChannelInfo
	report    Report
}

// newArchive sorts the loaded messages and builds the channel index.
// The sort is stable so messages in the same second keep load order.
func newArchive(msgs []models.Message, report Report) *Archive {
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].Time.Before(msgs[j].Time)
	})

	byChannel := make(map[string][]models.Message)
	folders := make(map[string]map[string]struct{})
	for _, m := range msgs {
		byChannel[m.Channel] = append(byChannel[m.Channel], m)
		if m.Folder != "" {
			if folders[m.Channel] == nil {
				folders[m.Channel] = make(map[string]struct{})
			}
			folders[m.Channel][m.Folder] = struct{}{}
		}
	}

	channels := make([]models.ChannelInfo, 0, len(byChannel))
	for name, chMsgs := range byChannel {
		info := models.ChannelInfo{
			Name:     name,
			Messages: len(chMsgs),
			First:    chMsgs[0].Time,
			Last:     chMsgs[len(chMsgs)-1].Time,
		}
		for folder := range folders[name] {
			info.Folders = append(info.Folders, folder)
		}
		sort.Strings(info.Folders)
		channels = append(channels, info)
	}
	sort.Slice(channels, func(i, j int) bool {
		return channels[i].Name < channels[j].Name
	})

	return &Archive{
		messages:  msgs,
		byChannel: byChannel,
		channels:  channels,
		report:    report,
	}
}

// Messages returns every message in timestamp order
func (a *Archive) Messages() []models.Message {
	return a.messages
}

// Channel returns one channel's messages in timestamp order,
// or nil when the channel is unknown
func (a *Archive) Channel(name string) []models.Message {
	return a.byChannel[name]
}

// Channels returns per-channel summaries sorted by name
func (a *Archive) Channels() []models.ChannelInfo {
	return a.channels
}

// Len returns the number of messages in the snapshot
func (a *Archive) Len() int {
	return len(a.messages)
}

// Empty reports whether the snapshot holds no messages
func (a *Archive) Empty() bool {
	return len(a.messages) == 0
}

// Report returns the load report for this snapshot
func (a *Archive) Report() Report {
	return a.report
}
