package archive

import (
	"os"
	"path/filepath"
	"time"

	"github.com/shuu880/slack-log-viewer/pkg/models"
)

// loader accumulates messages and the report for one directory scan
type loader struct {
	report Report
	seen   map[models.MessageKey]struct{}
	msgs   []models.Message
}

// LoadDirectory scans the export root and builds an archive snapshot.
// Export files are *.json placed directly under the root or inside
// first-level subfolders (exports are usually grouped into folders named
// after the date range they cover). A missing or empty root yields an
// empty archive with a warning, never an error.
func LoadDirectory(path string) *Archive {
	l := &loader{
		report: Report{Path: path, LoadedAt: time.Now().UTC()},
		seen:   make(map[models.MessageKey]struct{}),
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		l.report.warnf("", "cannot read export root: %v", err)
		return newArchive(l.msgs, l.report)
	}

	// os.ReadDir sorts by name, so folders and files load in a
	// deterministic order and duplicate resolution is stable
	for _, entry := range entries {
		if entry.IsDir() {
			l.loadFolder(filepath.Join(path, entry.Name()), entry.Name())
			continue
		}
		if isExportFile(entry.Name()) {
			l.loadFile(filepath.Join(path, entry.Name()), "")
		}
	}

	if l.report.Files == 0 {
		l.report.warnf("", "no export files found under %s", path)
	}
	return newArchive(l.msgs, l.report)
}

func (l *loader) loadFolder(dir, folder string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		l.report.warnf(folder, "cannot read folder: %v", err)
		return
	}
	for _, entry := range entries {
		if entry.IsDir() || !isExportFile(entry.Name()) {
			continue
		}
		l.loadFile(filepath.Join(dir, entry.Name()), folder)
	}
}

func (l *loader) loadFile(file, folder string) {
	l.report.Files++

	name := filepath.Base(file)
	if folder != "" {
		name = folder + "/" + name
	}

	data, err := os.ReadFile(file)
	if err != nil {
		l.report.SkippedFiles++
		l.report.warnf(name, "cannot read file: %v", err)
		return
	}

	records, err := parseExport(data)
	if err != nil {
		l.report.SkippedFiles++
		l.report.warnf(name, "malformed JSON: %v", err)
		return
	}

	channel := channelName(file)
	for i, raw := range records {
		msg, err := convertRecord(raw, channel, folder)
		if err != nil {
			l.report.SkippedRecords++
			l.report.warnf(name, "record %d skipped: %v", i, err)
			continue
		}
		// the same message can appear in overlapping exports; the
		// first occurrence wins
		if _, dup := l.seen[msg.Key()]; dup {
			l.report.Duplicates++
			continue
		}
		l.seen[msg.Key()] = struct{}{}
		l.msgs = append(l.msgs, msg)
		l.report.Records++
	}
}
