package http

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/example/booking-screen/internal/application"
)

type diagnosticsService interface {
	ListDiagnostics(ctx context.Context, query application.DiagnosticQuery) ([]application.DiagnosticEntry, error)
}

type DiagnosticsHandler struct {
	service   diagnosticsService
	responder responder
	logger    *slog.Logger
}

func NewDiagnosticsHandler(service diagnosticsService, logger *slog.Logger) *DiagnosticsHandler {
	base := defaultLogger(logger)
	return &DiagnosticsHandler{service: service, responder: newResponder(base), logger: base}
}

// List serves GET /diagnostics?screen=&level=&since=&limit=.
func (h *DiagnosticsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	values := r.URL.Query()
	query := application.DiagnosticQuery{
		Screen: values.Get("screen"),
		Level:  values.Get("level"),
	}
	if since := strings.TrimSpace(values.Get("since")); since != "" {
		parsed, err := time.Parse(time.RFC3339, since)
		if err != nil {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidSince)
			return
		}
		query.Since = &parsed
	}
	if limit := strings.TrimSpace(values.Get("limit")); limit != "" {
		parsed, err := strconv.Atoi(limit)
		if err != nil || parsed < 0 {
			h.responder.writeError(r.Context(), w, http.StatusBadRequest, errInvalidLimit)
			return
		}
		query.Limit = parsed
	}

	logger := handlerLogger(r.Context(), h.logger, "DiagnosticsHandler", "List")
	entries, err := h.service.ListDiagnostics(r.Context(), query)
	if err != nil {
		logger.ErrorContext(r.Context(), "diagnostics listing failed", "error", err, "error_kind", application.ErrorKind(err))
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	resp := diagnosticsResponse{Entries: make([]diagnosticEntryDTO, 0, len(entries))}
	for _, entry := range entries {
		resp.Entries = append(resp.Entries, diagnosticEntryDTO{
			ID:         entry.ID,
			Level:      entry.Level,
			Screen:     entry.Screen,
			Message:    entry.Message,
			Payload:    entry.Payload,
			RecordedAt: entry.RecordedAt.UTC().Format(time.RFC3339Nano),
		})
	}
	h.responder.writeJSON(r.Context(), w, http.StatusOK, resp)
}

type diagnosticsResponse struct {
	Entries []diagnosticEntryDTO `json:"entries"`
}

type diagnosticEntryDTO struct {
	ID         int64  `json:"id"`
	Level      string `json:"level"`
	Screen     string `json:"screen"`
	Message    string `json:"message"`
	Payload    string `json:"payload,omitempty"`
	RecordedAt string `json:"recorded_at"`
}
