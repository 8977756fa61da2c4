package handler

import (
	"encoding/json"
	"net/http"

	apperrors "amora-be/pkg/errors"
	"amora-be/pkg/logger"
)

// writeJSON writes v as the JSON response body
func writeJSON(w http.ResponseWriter, statusCode int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

// writeError maps err to the standard {"error": "..."} body. Typed
// application errors keep their status code and message; anything else is
// reported as a generic internal failure without leaking detail.
func writeError(w http.ResponseWriter, log *logger.Logger, err error) {
	if appErr, ok := err.(*apperrors.AppError); ok {
		if appErr.Internal != nil {
			log.WithError(appErr.Internal).Error("Request failed")
		}
		writeJSON(w, appErr.StatusCode, map[string]string{"error": appErr.Message})
		return
	}

	log.WithError(err).Error("Request failed")
	writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal server error"})
}

// decodeBody decodes the request body into v
func decodeBody(r *http.Request, v interface{}) *apperrors.AppError {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return apperrors.NewValidationError("invalid request body", nil)
	}
	return nil
}
