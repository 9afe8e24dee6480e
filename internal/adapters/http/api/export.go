package api

import (
	"bytes"
	"net/http"
	"strconv"

	"github.com/okian/salesboard/internal/adapters/export"
	"github.com/okian/salesboard/pkg/logger"
)

// ExportHandler serves leaderboards as XLSX workbooks.
type ExportHandler struct {
	deps   Dependencies
	logger logger.Logger
}

// NewExportHandler creates a new export handler.
func NewExportHandler(deps Dependencies, log logger.Logger) *ExportHandler {
	return &ExportHandler{deps: deps, logger: log}
}

// HandleExport handles GET /api/leaderboard.xlsx?startDate=...&endDate=...
func (h *ExportHandler) HandleExport(w http.ResponseWriter, r *http.Request) {
	const op = "api.export"
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", "GET")
		fail(r.Context(), w, h.logger, NewKind(op, ErrMethodNotAllowed))
		return
	}
	q := r.URL.Query()
	start, end, err := parseRange(q.Get("startDate"), q.Get("endDate"))
	if err != nil {
		fail(r.Context(), w, h.logger, WrapKind(op, ErrBadRequest, err))
		return
	}
	report, err := h.deps.Leaderboard(r.Context(), start, end)
	if err != nil {
		fail(r.Context(), w, h.logger, Wrap(op, err))
		return
	}

	// Render fully before writing headers so a failure can still be a 500.
	var buf bytes.Buffer
	if err := export.WriteXLSX(&buf, report); err != nil {
		fail(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	w.Header().Set("Content-Type", export.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+export.Filename(report.Window)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.WriteHeader(http.StatusOK)
	_, _ = buf.WriteTo(w)
}
