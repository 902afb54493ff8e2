package httphandler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/niksmo/shopsphere/internal/core/domain"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	const op = "writeJSON"

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("failed to write response body", "op", op, "err", err)
	}
}

// readJSON decodes the request body into v. It writes the 400 response
// itself and reports false when the body is malformed.
func readJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	const op = "readJSON"

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		slog.Warn("failed to parse JSON", "op", op, "err", err)
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: "invalid JSON data",
		})
		return false
	}
	return true
}

func writeInvalidID(w http.ResponseWriter) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid id"})
}

// writeError maps a service error onto the response. Unexpected errors
// are logged and answered with the generic failure.
func writeError(w http.ResponseWriter, log *slog.Logger, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  domain.ErrValidation.Error(),
			Fields: verr.Fields,
		})
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrSessionRequired):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: rootMessage(err)})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{
			Error:   "Not found",
			Actions: []action{backToProducts},
		})
	case errors.Is(err, domain.ErrEmptyCart):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error:   "Your cart is empty",
			Actions: []action{backToProducts},
		})
	case errors.Is(err, domain.ErrOrderPlaced):
		writeJSON(w, http.StatusConflict, errorResponse{
			Error: "Order already placed",
		})
	case errors.Is(err, domain.ErrUnavailable):
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{
			Error: "Service temporarily unavailable",
		})
	default:
		log.Error("unexpected error", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   failureMessage,
			Actions: []action{tryAgain, goToHome},
		})
	}
}

func rootMessage(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
