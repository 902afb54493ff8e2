package httphandler

import (
	"log/slog"
	"net/http"

	"github.com/niksmo/shopsphere/internal/core/domain"
	"github.com/niksmo/shopsphere/internal/core/port"
)

// GET v1/analytics/summary (200 OK, 503 Service unavailable)
// GET v1/analytics/counts/{name} (200 OK, 503 Service unavailable)

type AnalyticsHandler struct {
	ar port.AnalyticsReader
}

func RegisterAnalytics(mux *http.ServeMux, ar port.AnalyticsReader) {
	h := AnalyticsHandler{ar}
	mux.HandleFunc("GET /v1/analytics/summary", h.GetSummary)
	mux.HandleFunc("GET /v1/analytics/counts/{name}", h.GetCount)
}

func (h AnalyticsHandler) GetSummary(w http.ResponseWriter, r *http.Request) {
	const op = "AnalyticsHandler.GetSummary"
	log := slog.With("op", op)

	s, err := h.ar.EventsSummary(r.Context())
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, eventsSummaryFromDomain(s))
}

func (h AnalyticsHandler) GetCount(w http.ResponseWriter, r *http.Request) {
	const op = "AnalyticsHandler.GetCount"
	log := slog.With("op", op)

	name := r.PathValue("name")
	n, err := h.ar.EventCount(r.Context(), domain.EventName(name))
	if err != nil {
		writeError(w, log, err)
		return
	}
	writeJSON(w, http.StatusOK, EventCount{Name: name, Count: n})
}
