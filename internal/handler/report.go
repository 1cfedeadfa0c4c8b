package handler

import (
	"log/slog"
	"net/http"

	"github.com/sakif/itemgraph/internal/service"
)

// ReportHandler serves the derived views as JSON.
type ReportHandler struct {
	reports *service.ReportService
	logger  *slog.Logger
}

func NewReportHandler(reports *service.ReportService, logger *slog.Logger) *ReportHandler {
	return &ReportHandler{reports: reports, logger: logger}
}

// HandleReport returns [{"relationId":..., "source":"Customer", "target":"Project"}, ...].
//
// HTTP: GET /api/report
func (h *ReportHandler) HandleReport(w http.ResponseWriter, r *http.Request) {
	rows, err := h.reports.Report(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, rows)
}

// HandleGraph returns {"nodes": [...], "edges": [...]} for any renderer.
//
// HTTP: GET /api/graph
func (h *ReportHandler) HandleGraph(w http.ResponseWriter, r *http.Request) {
	g, err := h.reports.Graph(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
