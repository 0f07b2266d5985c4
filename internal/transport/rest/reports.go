package rest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/lumenjournal/lumen-backend/internal/domain"
	"github.com/lumenjournal/lumen-backend/internal/service/export"
)

type reportsService interface {
	List(ctx context.Context, cadence *domain.Cadence) ([]*domain.Report, error)
	Get(ctx context.Context, reportID string) (*domain.Report, error)
}

type exportService interface {
	ExportReport(ctx context.Context, reportID string) (*export.Result, error)
}

// ReportsHandler serves the report read and export endpoints.
type ReportsHandler struct {
	reports reportsService
	exports exportService
	log     *slog.Logger
}

// NewReportsHandler creates a ReportsHandler.
func NewReportsHandler(reports reportsService, exports exportService, log *slog.Logger) *ReportsHandler {
	return &ReportsHandler{
		reports: reports,
		exports: exports,
		log:     log.With("handler", "reports"),
	}
}

// statusNotReady is what the API says about any report the user cannot open
// yet. Generating and failed are deliberately indistinguishable here.
const statusNotReady = "not_ready"

type reportSummary struct {
	ID          string         `json:"id"`
	Cadence     string         `json:"cadence"`
	PeriodStart time.Time      `json:"periodStart"`
	PeriodEnd   time.Time      `json:"periodEnd"`
	Status      string         `json:"status"`
	GeneratedAt time.Time      `json:"generatedAt"`
	Metadata    reportMetadata `json:"metadata"`
}

type reportMetadata struct {
	EntryCount  int      `json:"entryCount"`
	MoodAverage float64  `json:"moodAverage"`
	Highlights  []string `json:"highlights,omitempty"`
}

type reportResponse struct {
	reportSummary
	Sections []domain.Section `json:"sections,omitempty"`
}

type exportResponse struct {
	URL       string    `json:"url"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// List handles GET /v1/reports. The cadence query parameter optionally
// narrows the result.
func (h *ReportsHandler) List(w http.ResponseWriter, r *http.Request) {
	var cadence *domain.Cadence
	if raw := r.URL.Query().Get("cadence"); raw != "" {
		c, err := domain.ParseCadence(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "unknown cadence")
			return
		}
		cadence = &c
	}

	reports, err := h.reports.List(r.Context(), cadence)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	items := make([]reportSummary, 0, len(reports))
	for _, rep := range reports {
		items = append(items, toSummary(rep))
	}

	writeJSON(w, http.StatusOK, map[string]any{"reports": items})
}

// Get handles GET /v1/reports/{id}. Ready reports come back in full; a
// generating or failed report yields its summary with status "not_ready"
// and no sections.
func (h *ReportsHandler) Get(w http.ResponseWriter, r *http.Request) {
	rep, err := h.reports.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	resp := reportResponse{reportSummary: toSummary(rep)}
	if rep.Status == domain.ReportStatusReady {
		resp.Sections = rep.Sections
	}

	writeJSON(w, http.StatusOK, resp)
}

// Export handles POST /v1/reports/{id}/export.
func (h *ReportsHandler) Export(w http.ResponseWriter, r *http.Request) {
	result, err := h.exports.ExportReport(r.Context(), r.PathValue("id"))
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, exportResponse{
		URL:       result.URL,
		ExpiresAt: result.ExpiresAt,
	})
}

func toSummary(rep *domain.Report) reportSummary {
	status := statusNotReady
	if rep.Status == domain.ReportStatusReady {
		status = string(domain.ReportStatusReady)
	}

	return reportSummary{
		ID:          rep.ID,
		Cadence:     rep.Cadence.String(),
		PeriodStart: rep.PeriodStart,
		PeriodEnd:   rep.PeriodEnd,
		Status:      status,
		GeneratedAt: rep.GeneratedAt,
		Metadata: reportMetadata{
			EntryCount:  rep.Metadata.EntryCount,
			MoodAverage: rep.Metadata.MoodAverage,
			Highlights:  rep.Metadata.Highlights,
		},
	}
}

func (h *ReportsHandler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrUnauthorized):
		writeError(w, http.StatusUnauthorized, "unauthorized")
	case errors.Is(err, domain.ErrNotFound):
		writeError(w, http.StatusNotFound, "report not found")
	case errors.Is(err, domain.ErrNotReady):
		writeError(w, http.StatusConflict, "report is not ready yet")
	default:
		h.log.ErrorContext(r.Context(), "internal error", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
