package api

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/shuu880/slack-log-viewer/internal/log"
	"github.com/shuu880/slack-log-viewer/pkg/models"
)

// Export formats
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// MaxXLSXRows caps spreadsheet exports. Workbooks are assembled in
// memory before writing, unlike CSV which streams straight to the
// response.
const MaxXLSXRows = 100000

var exportHeader = []string{"channel", "folder", "ts", "time", "user", "text", "thread_ts", "subtype"}

// handleExport downloads the filtered messages as CSV or XLSX
func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	f, err := parseFilter(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	format := r.URL.Query().Get("format")
	if format == "" {
		format = FormatCSV
	}

	matched := f.Apply(s.store.Current().Messages())
	name := fmt.Sprintf("slack-messages-%s", time.Now().UTC().Format("20060102-150405"))

	switch format {
	case FormatCSV:
		s.exportCSV(w, name, matched)
	case FormatXLSX:
		s.exportXLSX(w, name, matched)
	default:
		writeError(w, http.StatusBadRequest, fmt.Errorf("unsupported format %q", format))
	}
}

func (s *Server) exportCSV(w http.ResponseWriter, name string, msgs []models.Message) {
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))

	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		log.Warn().Err(err).Msg("csv export aborted")
		return
	}
	for _, m := range msgs {
		row := []string{
			m.Channel,
			m.Folder,
			m.TS,
			m.Time.UTC().Format("2006-01-02 15:04:05"),
			m.User,
			m.Text,
			m.ThreadTS,
			m.Subtype,
		}
		if err := cw.Write(row); err != nil {
			log.Warn().Err(err).Msg("csv export aborted")
			return
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		log.Warn().Err(err).Msg("csv export flush failed")
	}
}

func (s *Server) exportXLSX(w http.ResponseWriter, name string, msgs []models.Message) {
	if len(msgs) > MaxXLSXRows {
		log.Warn().Int("total", len(msgs)).Int("max", MaxXLSXRows).Msg("xlsx export truncated")
		msgs = msgs[:MaxXLSXRows]
	}

	file := excelize.NewFile()
	defer file.Close()

	const sheet = "Messages"
	if err := file.SetSheetName("Sheet1", sheet); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	headerStyle, err := file.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	sw, err := file.NewStreamWriter(sheet)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	if err := sw.SetColWidth(1, len(exportHeader), 22); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	header := make([]interface{}, len(exportHeader))
	for i, col := range exportHeader {
		header[i] = excelize.Cell{StyleID: headerStyle, Value: col}
	}
	if err := sw.SetRow("A1", header); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	for i, m := range msgs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
		row := []interface{}{
			m.Channel,
			m.Folder,
			m.TS,
			m.Time.UTC().Format("2006-01-02 15:04:05"),
			m.User,
			m.Text,
			m.ThreadTS,
			m.Subtype,
		}
		if err := sw.SetRow(cell, row); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}
	if err := sw.Flush(); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
	if err := file.Write(w); err != nil {
		log.Warn().Err(err).Msg("xlsx export write failed")
	}
}
