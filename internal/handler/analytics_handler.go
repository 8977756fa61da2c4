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

// AnalyticsHandler ingests client-reported analytics events
type AnalyticsHandler struct {
	analytics repository.AnalyticsRepository
	log       *logger.Logger
	now       func() time.Time
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(analytics repository.AnalyticsRepository, log *logger.Logger) *AnalyticsHandler {
	return &AnalyticsHandler{analytics: analytics, log: log, now: time.Now}
}

// EventRequest carries one analytics event
type EventRequest struct {
	Name       string                 `json:"name"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// LogEvent records a single analytics event
func (h *AnalyticsHandler) LogEvent(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		writeError(w, h.log, apperrors.NewMissingCredentialError("not authenticated"))
		return
	}

	var req EventRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, h.log, appErr)
		return
	}
	if req.Name == "" {
		writeError(w, h.log, apperrors.NewValidationError("name is required", nil))
		return
	}

	event := domain.AnalyticsEvent{
		UserID:     user.ID,
		Name:       req.Name,
		Properties: req.Properties,
		CreatedAt:  h.now().UTC(),
	}
	if err := h.analytics.InsertEvent(r.Context(), &event); err != nil {
		writeError(w, h.log, apperrors.NewInternalError("failed to record event", err))
		return
	}

	w.WriteHeader(http.StatusAccepted)
}
