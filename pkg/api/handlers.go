package api

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/shuu880/slack-log-viewer/internal/log"
	"github.com/shuu880/slack-log-viewer/pkg/archive"
	"github.com/shuu880/slack-log-viewer/pkg/models"
	"github.com/shuu880/slack-log-viewer/pkg/query"
)

// Pagination limits
const (
	DefaultLimit = 100
	MaxLimit     = 1000
)

// MessagesResponse is the paginated result of a message query
type MessagesResponse struct {
	Messages []models.Message `json:"messages"`

	// Total is the number of matches before pagination
	Total int `json:"total"`

	// Count is the number of messages in this page
	Count int `json:"count"`

	// Offset used for this query
	Offset int `json:"offset"`

	// Query processing time in milliseconds
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

// ThreadsResponse is the paginated result of a thread query
type ThreadsResponse struct {
	Threads          []query.Thread `json:"threads"`
	Total            int            `json:"total"`
	Count            int            `json:"count"`
	Offset           int            `json:"offset"`
	ProcessingTimeMs int64          `json:"processing_time_ms"`
}

// StatsResponse wraps the aggregates with timing information
type StatsResponse struct {
	query.Stats
	ProcessingTimeMs int64 `json:"processing_time_ms"`
}

// ChannelsResponse lists the channels present in the archive
type ChannelsResponse struct {
	Channels []models.ChannelInfo `json:"channels"`
	Total    int                  `json:"total"`
}

// ArchiveResponse describes the loaded snapshot
type ArchiveResponse struct {
	Report   archive.Report `json:"report"`
	Messages int            `json:"messages"`
	Channels int            `json:"channels"`
}

// ReloadResponse reports the outcome of a manual reload
type ReloadResponse struct {
	Messages int `json:"messages"`
	Channels int `json:"channels"`
	Warnings int `json:"warnings"`
}

// parseFilter builds a query filter from request parameters
func parseFilter(r *http.Request) (query.Filter, error) {
	params := r.URL.Query()
	f := query.Filter{
		Channel:   params.Get("channel"),
		Query:     params.Get("q"),
		Timestamp: params.Get("ts"),
		Order:     query.Order(params.Get("order")),
	}

	var err error
	if f.From, err = query.ParseTimeBound(params.Get("from"), false); err != nil {
		return f, fmt.Errorf("invalid from: %w", err)
	}
	if f.To, err = query.ParseTimeBound(params.Get("to"), true); err != nil {
		return f, fmt.Errorf("invalid to: %w", err)
	}
	if v := params.Get("include_joins"); v != "" {
		if f.IncludeJoins, err = strconv.ParseBool(v); err != nil {
			return f, fmt.Errorf("invalid include_joins: %w", err)
		}
	}
	if err := f.Validate(); err != nil {
		return f, err
	}
	return f, nil
}

// parsePage reads limit and offset, clamping them to sane bounds
func parsePage(r *http.Request) (limit, offset int, err error) {
	limit = DefaultLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		if limit, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("invalid limit: %w", err)
		}
	}
	if v := r.URL.Query().Get("offset"); v != "" {
		if offset, err = strconv.Atoi(v); err != nil {
			return 0, 0, fmt.Errorf("invalid offset: %w", err)
		}
	}

	if limit <= 0 {
		limit = DefaultLimit
	} else if limit > MaxLimit {
		limit = MaxLimit
	}
	if offset < 0 {
		offset = 0
	}
	return limit, offset, nil
}

// paginate slices one page out of items
func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}

// handleMessages returns the filtered messages, paginated
func (s *Server) handleMessages(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	f, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	limit, offset, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	matched := f.Apply(s.store.Current().Messages())
	page := paginate(matched, limit, offset)

	writeJSON(w, http.StatusOK, MessagesResponse{
		Messages:         page,
		Total:            len(matched),
		Count:            len(page),
		Offset:           offset,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	})
}

// handleThreads returns the filtered messages grouped into threads
func (s *Server) handleThreads(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	f, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	limit, offset, err := parsePage(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	matched := f.Apply(s.store.Current().Messages())
	threads := query.Threads(matched, f.Order)
	page := paginate(threads, limit, offset)

	writeJSON(w, http.StatusOK, ThreadsResponse{
		Threads:          page,
		Total:            len(threads),
		Count:            len(page),
		Offset:           offset,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	})
}

// handleStats returns aggregates for the filtered result set
func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	f, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	matched := f.Apply(s.store.Current().Messages())
	stats := query.Compute(matched, f.From, f.To)

	writeJSON(w, http.StatusOK, StatsResponse{
		Stats:            stats,
		ProcessingTimeMs: time.Since(start).Milliseconds(),
	})
}

// handleChannels lists the channels in the current snapshot
func (s *Server) handleChannels(w http.ResponseWriter, r *http.Request) {
	channels := s.store.Current().Channels()
	writeJSON(w, http.StatusOK, ChannelsResponse{
		Channels: channels,
		Total:    len(channels),
	})
}

// handleArchive describes the current snapshot and its load report
func (s *Server) handleArchive(w http.ResponseWriter, r *http.Request) {
	arch := s.store.Current()
	writeJSON(w, http.StatusOK, ArchiveResponse{
		Report:   arch.Report(),
		Messages: arch.Len(),
		Channels: len(arch.Channels()),
	})
}

// handleReload rescans the export root and swaps in the new snapshot
func (s *Server) handleReload(w http.ResponseWriter, r *http.Request) {
	arch := s.store.Reload()
	report := arch.Report()
	log.Info().
		Int("messages", arch.Len()).
		Int("skipped_files", report.SkippedFiles).
		Int("skipped_records", report.SkippedRecords).
		Msg("archive reloaded via API")

	writeJSON(w, http.StatusOK, ReloadResponse{
		Messages: arch.Len(),
		Channels: len(arch.Channels()),
		Warnings: len(report.Warnings),
	})
}
