package actions

import (
	"encoding/json"
	"net/http"

	"github.com/bluepeak/home-services-platform/pkg/logging"
)

// Handler exposes the dispatcher over HTTP.
type Handler struct {
	dispatcher *Dispatcher
	logger     *logging.Logger
}

// NewHandler creates the HTTP handler for the actions endpoint.
func NewHandler(dispatcher *Dispatcher, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}
	return &Handler{dispatcher: dispatcher, logger: logger}
}

// Dispatch handles POST /actions/dispatch.
//
// Status codes: 400 only for malformed request bodies and payload schema
// failures; recoverable external failures and unknown actions return 200
// with ok:false so the chat UI renders the error message inline; 500 is
// reserved for unexpected handler errors.
func (h *Handler) Dispatch(w http.ResponseWriter, r *http.Request) {
	var req ActionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("actions: failed to decode request", "error", err)
		writeJSON(w, http.StatusBadRequest, ActionResult{
			OK:    false,
			Error: &ErrorBody{Code: CodeValidationError, Details: "invalid request body"},
		})
		return
	}

	result := h.dispatcher.Dispatch(r.Context(), req)

	status := http.StatusOK
	if result.Error != nil {
		switch result.Error.Code {
		case CodeValidationError:
			status = http.StatusBadRequest
		case CodeInternalError:
			status = http.StatusInternalServerError
		}
	}
	writeJSON(w, status, result)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
