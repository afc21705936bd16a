package archive

import (
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/shuu880/slack-log-viewer/pkg/models"
)

// rawMessage mirrors one message object in an export file
type rawMessage struct {
	TS       string `json:"ts"`
	User     string `json:"user"`
	Text     string `json:"text"`
	ThreadTS string `json:"thread_ts"`
	Subtype  string `json:"subtype"`
}

// exportFile is the wrapped form some export tools write
type exportFile struct {
	Messages []rawMessage `json:"messages"`
}

// parseExport decodes an export payload. Files hold either a bare JSON
// array of messages or an object with a "messages" array; both forms
// appear in the wild.
func parseExport(data []byte) ([]rawMessage, error) {
	var records []rawMessage
	if err := json.Unmarshal(data, &records); err == nil {
		return records, nil
	}

	var wrapped exportFile
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return nil, fmt.Errorf("not a message array or export object: %w", err)
	}
	return wrapped.Messages, nil
}

// convertRecord validates a raw record and builds the archive message.
// A record needs at least a parseable ts and a user; the text may be
// empty (file shares and similar events have no body).
func convertRecord(raw rawMessage, channel, folder string) (models.Message, error) {
	ts := strings.TrimSpace(raw.TS)
	if ts == "" {
		return models.Message{}, fmt.Errorf("missing ts")
	}
	t, err := models.ParseTimestamp(ts)
	if err != nil {
		return models.Message{}, fmt.Errorf("invalid ts %q: %w", ts, err)
	}
	if raw.User == "" {
		return models.Message{}, fmt.Errorf("missing user")
	}

	return models.Message{
		Channel:  channel,
		Folder:   folder,
		TS:       ts,
		Time:     t,
		User:     raw.User,
		Text:     raw.Text,
		ThreadTS: strings.TrimSpace(raw.ThreadTS),
		Subtype:  raw.Subtype,
	}, nil
}

// channelName derives the channel from an export file name: everything
// before the first underscore, or the bare name when there is none.
// "general_2024-01-01.json" and "general.json" both map to "general".
func channelName(file string) string {
	base := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	if i := strings.IndexByte(base, '_'); i > 0 {
		return base[:i]
	}
	return base
}

// isExportFile reports whether a directory entry looks like an export file
func isExportFile(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ".json")
}
