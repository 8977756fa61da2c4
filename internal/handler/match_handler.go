package handler

import (
	"net/http"

	"amora-be/internal/middleware"
	"amora-be/internal/service"
	apperrors "amora-be/pkg/errors"
	"amora-be/pkg/logger"
)

// MatchHandler serves compatibility match listings
type MatchHandler struct {
	matches service.MatchService
	log     *logger.Logger
}

// NewMatchHandler creates a new match handler
func NewMatchHandler(matches service.MatchService, log *logger.Logger) *MatchHandler {
	return &MatchHandler{matches: matches, log: log}
}

// GetMatches returns the caller's matches, best compatibility first
func (h *MatchHandler) GetMatches(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, h.log, apperrors.NewMissingCredentialError("not authenticated"))
		return
	}

	matches, err := h.matches.GetMatches(r.Context(), user.ID)
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	writeJSON(w, http.StatusOK, matches)
}
