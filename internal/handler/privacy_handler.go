package handler

import (
	"net/http"
	"time"

	"amora-be/internal/domain"
	"amora-be/internal/middleware"
	"amora-be/internal/repository"
	apperrors "amora-be/pkg/errors"
	"amora-be/pkg/logger"
)

// PrivacyHandler serves the privacy request ledger
type PrivacyHandler struct {
	privacy repository.PrivacyRepository
	log     *logger.Logger
	now     func() time.Time
}

// NewPrivacyHandler creates a new privacy handler
func NewPrivacyHandler(privacy repository.PrivacyRepository, log *logger.Logger) *PrivacyHandler {
	return &PrivacyHandler{privacy: privacy, log: log, now: time.Now}
}

// RequestConsent records a consent-update request
func (h *PrivacyHandler) RequestConsent(w http.ResponseWriter, r *http.Request) {
	h.createRequest(w, r, domain.PrivacyRequestConsent)
}

// RequestExport records a data export request
func (h *PrivacyHandler) RequestExport(w http.ResponseWriter, r *http.Request) {
	h.createRequest(w, r, domain.PrivacyRequestExport)
}

// RequestDeletion records an account deletion request
func (h *PrivacyHandler) RequestDeletion(w http.ResponseWriter, r *http.Request) {
	h.createRequest(w, r, domain.PrivacyRequestDeletion)
}

func (h *PrivacyHandler) createRequest(w http.ResponseWriter, r *http.Request, kind domain.PrivacyRequestKind) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, h.log, apperrors.NewMissingCredentialError("not authenticated"))
		return
	}

	request := domain.PrivacyRequest{
		UserID:    user.ID,
		Kind:      kind,
		Status:    "pending",
		CreatedAt: h.now().UTC(),
	}
	if err := h.privacy.Create(r.Context(), &request); err != nil {
		writeError(w, h.log, apperrors.NewInternalError("failed to record privacy request", err))
		return
	}

	h.log.WithFields(map[string]interface{}{
		"user_id": user.ID,
		"kind":    string(kind),
	}).Info("Privacy request recorded")
	writeJSON(w, http.StatusAccepted, request)
}

// ListRequests returns the caller's privacy ledger, newest first
func (h *PrivacyHandler) ListRequests(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, h.log, apperrors.NewMissingCredentialError("not authenticated"))
		return
	}

	requests, err := h.privacy.ListByUser(r.Context(), user.ID)
	if err != nil {
		writeError(w, h.log, apperrors.NewInternalError("failed to list privacy requests", err))
		return
	}

	writeJSON(w, http.StatusOK, requests)
}
