package handler

import (
	"net/http"
	"time"

	"amora-be/internal/auth"
	"amora-be/internal/domain"
	"amora-be/internal/service"
	apperrors "amora-be/pkg/errors"
	"amora-be/pkg/logger"
)

// AuthHandler serves account creation, demo session minting, and the
// OAuth sign-in passthrough
type AuthHandler struct {
	identity    service.IdentityService
	emailDomain string
	log         *logger.Logger
	now         func() time.Time
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(identity service.IdentityService, emailDomain string, log *logger.Logger) *AuthHandler {
	return &AuthHandler{
		identity:    identity,
		emailDomain: emailDomain,
		log:         log,
		now:         time.Now,
	}
}

// SignupRequest carries the fields for account creation
type SignupRequest struct {
	Email    string `json:"email"`
	Phone    string `json:"phone,omitempty"`
	Password string `json:"password"`
}

// Signup provisions a real account through the identity provider
func (h *AuthHandler) Signup(w http.ResponseWriter, r *http.Request) {
	var req SignupRequest
	if appErr := decodeBody(r, &req); appErr != nil {
		writeError(w, h.log, appErr)
		return
	}
	if req.Email == "" {
		writeError(w, h.log, apperrors.NewValidationError("email is required", nil))
		return
	}
	if req.Password == "" {
		writeError(w, h.log, apperrors.NewValidationError("password is required", nil))
		return
	}

	user, err := h.identity.CreateUser(r.Context(), service.CreateUserRequest{
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
	})
	if err != nil {
		writeError(w, h.log, err)
		return
	}

	h.log.WithField("user_id", user.ID).Info("User signed up")
	writeJSON(w, http.StatusCreated, user)
}

// DemoSession mints a fresh demo session. The token embeds its creation
// instant; no server-side state is written.
func (h *AuthHandler) DemoSession(w http.ResponseWriter, r *http.Request) {
	now := h.now()
	token := domain.DemoToken(now.UnixMilli())

	user, appErr := auth.SynthesizeFromDemoToken(token, now, h.emailDomain)
	if appErr != nil {
		writeError(w, h.log, appErr)
		return
	}

	session := domain.StoredSession{
		AccessToken: token,
		ExpiresIn:   domain.DemoSessionLifetimeSeconds,
		ExpiresAt:   now.Unix() + domain.DemoSessionLifetimeSeconds,
		TokenType:   "bearer",
		User:        *user,
	}

	h.log.WithField("user_id", user.ID).Info("Demo session minted")
	writeJSON(w, http.StatusCreated, session)
}

// OAuthURL returns the provider's social sign-in URL for the given state
func (h *AuthHandler) OAuthURL(w http.ResponseWriter, r *http.Request) {
	state := r.URL.Query().Get("state")
	if state == "" {
		writeError(w, h.log, apperrors.NewValidationError("state is required", nil))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"url": h.identity.OAuthURL(state)})
}

// OAuthCallback trades an OAuth authorization code for a provider token
func (h *AuthHandler) OAuthCallback(w http.ResponseWriter, r *http.Request) {
	code := r.URL.Query().Get("code")
	if code == "" {
		writeError(w, h.log, apperrors.NewValidationError("code is required", nil))
		return
	}

	token, err := h.identity.ExchangeOAuth(r.Context(), code)
	if err != nil {
		writeError(w, h.log, apperrors.NewExternalError("oauth exchange failed", err))
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"access_token": token.AccessToken,
		"token_type":   token.TokenType,
		"expiry":       token.Expiry,
	})
}
