package archive

import (
	"fmt"
	"time"
)

// Warning describes a load-time problem with one file or record
type Warning struct {
	File   string `json:"file"`
	Detail string `json:"detail"`
}

// Report summarizes one load of the export directory.
// Load problems never abort the load; they are counted and recorded here
// so the UI can surface them as warnings.
type Report struct {
	Path           string    `json:"path"`
	LoadedAt       time.Time `json:"loaded_at"`
	Files          int       `json:"files"`
	SkippedFiles   int       `json:"skipped_files"`
	Records        int       `json:"records"`
	SkippedRecords int       `json:"skipped_records"`
	Duplicates     int       `json:"duplicates"`
	Warnings       []Warning `json:"warnings,omitempty"`
}

// warnf records a warning for the given file ("" for the export root)
func (r *Report) warnf(file, format string, args ...interface{}) {
	r.Warnings = append(r.Warnings, Warning{
		File:   file,
		Detail: fmt.Sprintf(format, args...),
	})
}
