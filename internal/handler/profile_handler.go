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

// ProfileHandler serves profile and personality assessment endpoints
type ProfileHandler struct {
	profiles    repository.ProfileRepository
	personality repository.PersonalityRepository
	log         *logger.Logger
	now         func() time.Time
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles repository.ProfileRepository, personality repository.PersonalityRepository, log *logger.Logger) *ProfileHandler {
	return &ProfileHandler{
		profiles:    profiles,
		personality: personality,
		log:         log,
		now:         time.Now,
	}
}

// SaveProfile creates or replaces the caller's profile
func (h *ProfileHandler) SaveProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, h.log, apperrors.NewMissingCredentialError("not authenticated"))
		return
	}

	var profile domain.Profile
	if appErr := decodeBody(r, &profile); appErr != nil {
		writeError(w, h.log, appErr)
		return
	}
	if profile.DisplayName == "" {
		writeError(w, h.log, apperrors.NewValidationError("display_name is required", nil))
		return
	}

	now := h.now().UTC()
	profile.UserID = user.ID
	profile.UpdatedAt = now
	if existing, err := h.profiles.Get(r.Context(), user.ID); err == nil && existing != nil {
		profile.CreatedAt = existing.CreatedAt
	} else {
		profile.CreatedAt = now
	}

	if err := h.profiles.Save(r.Context(), &profile); err != nil {
		writeError(w, h.log, apperrors.NewInternalError("failed to save profile", err))
		return
	}

	writeJSON(w, http.StatusCreated, profile)
}

// GetProfile returns the caller's profile
func (h *ProfileHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, h.log, apperrors.NewMissingCredentialError("not authenticated"))
		return
	}

	profile, err := h.profiles.Get(r.Context(), user.ID)
	if err != nil {
		writeError(w, h.log, apperrors.NewInternalError("failed to load profile", err))
		return
	}
	if profile == nil {
		writeError(w, h.log, apperrors.NewNotFoundError("profile not found"))
		return
	}

	writeJSON(w, http.StatusOK, profile)
}

// DeleteProfile removes the caller's profile
func (h *ProfileHandler) DeleteProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, h.log, apperrors.NewMissingCredentialError("not authenticated"))
		return
	}

	if err := h.profiles.Delete(r.Context(), user.ID); err != nil {
		writeError(w, h.log, apperrors.NewInternalError("failed to delete profile", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SavePersonality stores the caller's personality assessment outcome
func (h *ProfileHandler) SavePersonality(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, h.log, apperrors.NewMissingCredentialError("not authenticated"))
		return
	}

	var result domain.PersonalityResult
	if appErr := decodeBody(r, &result); appErr != nil {
		writeError(w, h.log, appErr)
		return
	}
	if result.Type == "" {
		writeError(w, h.log, apperrors.NewValidationError("type is required", nil))
		return
	}

	result.UserID = user.ID
	result.CompletedAt = h.now().UTC()

	if err := h.personality.Save(r.Context(), &result); err != nil {
		writeError(w, h.log, apperrors.NewInternalError("failed to save personality result", err))
		return
	}

	writeJSON(w, http.StatusCreated, result)
}

// GetPersonality returns the caller's personality assessment outcome
func (h *ProfileHandler) GetPersonality(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, h.log, apperrors.NewMissingCredentialError("not authenticated"))
		return
	}

	result, err := h.personality.Get(r.Context(), user.ID)
	if err != nil {
		writeError(w, h.log, apperrors.NewInternalError("failed to load personality result", err))
		return
	}
	if result == nil {
		writeError(w, h.log, apperrors.NewNotFoundError("personality result not found"))
		return
	}

	writeJSON(w, http.StatusOK, result)
}
