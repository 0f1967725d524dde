// Package handlers contains admin HTTP handlers.
package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/bluepeak/home-services-platform/internal/audit"
	"github.com/bluepeak/home-services-platform/pkg/logging"
)

// AdminAuditHandler serves the audit trail to the admin dashboard.
type AdminAuditHandler struct {
	recorder *audit.Recorder
	logger   *logging.Logger
}

// NewAdminAuditHandler creates an admin audit handler.
func NewAdminAuditHandler(recorder *audit.Recorder, logger *logging.Logger) *AdminAuditHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &AdminAuditHandler{recorder: recorder, logger: logger}
}

// ListEventsResponse is the response for listing audit events.
type ListEventsResponse struct {
	Events []audit.Event `json:"events"`
	Count  int           `json:"count"`
	Offset int           `json:"offset"`
	Limit  int           `json:"limit"`
}

// ListEvents handles GET /admin/audit requests.
func (h *AdminAuditHandler) ListEvents(w http.ResponseWriter, r *http.Request) {
	filter := audit.Filter{
		Limit:  50,
		Offset: 0,
	}

	if limitStr := r.URL.Query().Get("limit"); limitStr != "" {
		if limit, err := strconv.Atoi(limitStr); err == nil && limit > 0 && limit <= 200 {
			filter.Limit = limit
		}
	}
	if offsetStr := r.URL.Query().Get("offset"); offsetStr != "" {
		if offset, err := strconv.Atoi(offsetStr); err == nil && offset >= 0 {
			filter.Offset = offset
		}
	}
	if action := r.URL.Query().Get("action"); action != "" {
		filter.Action = action
	}
	if status := r.URL.Query().Get("status"); status != "" {
		filter.Status = audit.Status(status)
	}
	if corrID := r.URL.Query().Get("correlation_id"); corrID != "" {
		filter.CorrelationID = corrID
	}

	events, err := h.recorder.Query(r.Context(), filter)
	if err != nil {
		h.logger.Error("failed to query audit events", "error", err)
		http.Error(w, "failed to query audit events", http.StatusInternalServerError)
		return
	}
	if events == nil {
		events = []audit.Event{}
	}

	response := ListEventsResponse{
		Events: events,
		Count:  len(events),
		Offset: filter.Offset,
		Limit:  filter.Limit,
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(response)
}
