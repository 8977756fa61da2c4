package identity

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/oauth2"

	"amora-be/internal/config"
	"amora-be/internal/domain"
	"amora-be/internal/service"
	"amora-be/pkg/errors"
	"amora-be/pkg/logger"
)

// Service talks to a Supabase-style GoTrue identity API. Provider-issued
// JWTs are verified locally when the shared secret is configured, with the
// remote /auth/v1/user endpoint as the fallback path.
type Service struct {
	baseURL    string
	anonKey    string
	serviceKey string
	jwtSecret  string
	oauth      *oauth2.Config
	httpClient *http.Client
	log        *logger.Logger
}

// NewService creates a new identity service
func NewService(cfg *config.Config, log *logger.Logger) service.IdentityService {
	var oauthCfg *oauth2.Config
	if cfg.OAuthClientID != "" {
		oauthCfg = &oauth2.Config{
			ClientID:     cfg.OAuthClientID,
			ClientSecret: cfg.OAuthClientSecret,
			RedirectURL:  cfg.OAuthRedirectURL,
			Scopes:       []string{"email", "profile"},
			Endpoint: oauth2.Endpoint{
				AuthURL:  cfg.IdentityURL + "/auth/v1/authorize",
				TokenURL: cfg.IdentityURL + "/auth/v1/token",
			},
		}
	}

	return &Service{
		baseURL:    cfg.IdentityURL,
		anonKey:    cfg.IdentityAnonKey,
		serviceKey: cfg.IdentityServiceKey,
		jwtSecret:  cfg.IdentityJWTSecret,
		oauth:      oauthCfg,
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
		log: log,
	}
}

// userPayload mirrors the provider's user record shape on the wire
type userPayload struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Phone        string                 `json:"phone"`
	CreatedAt    time.Time              `json:"created_at"`
	AppMetadata  map[string]interface{} `json:"app_metadata"`
	UserMetadata map[string]interface{} `json:"user_metadata"`
	Aud          string                 `json:"aud"`
}

func (p *userPayload) toDomain() *domain.User {
	return &domain.User{
		ID:           p.ID,
		Email:        p.Email,
		Phone:        p.Phone,
		CreatedAt:    p.CreatedAt,
		AppMetadata:  p.AppMetadata,
		UserMetadata: p.UserMetadata,
		Audience:     p.Aud,
	}
}

// VerifyToken validates a provider-issued access token. When the JWT
// secret is configured the signature is checked locally first; any local
// failure falls through to the remote user endpoint, which is the
// authority on revocation.
func (s *Service) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	if s.jwtSecret != "" {
		if user, err := s.verifyLocalJWT(token); err == nil {
			s.log.WithField("user_id", user.ID).Debug("Token verified locally")
			return user, nil
		} else {
			s.log.WithError(err).Debug("Local JWT verification failed, trying provider")
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/auth/v1/user", nil)
	if err != nil {
		return nil, errors.NewInternalError("failed to create verification request", err)
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("apikey", s.anonKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewExternalError("identity provider unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return nil, errors.NewExpiredCredentialError("invalid or expired access token")
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.NewExternalError(
			fmt.Sprintf("identity provider returned status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var payload userPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.NewExternalError("failed to decode user response", err)
	}
	if payload.ID == "" {
		return nil, errors.NewUnknownUserError("token resolved to no user")
	}
	return payload.toDomain(), nil
}

// verifyLocalJWT parses and validates an HS256 provider JWT against the
// shared secret and builds the user from its claims.
func (s *Service) verifyLocalJWT(tokenString string) (*domain.User, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return []byte(s.jwtSecret), nil
	})
	if err != nil {
		return nil, errors.NewMalformedCredentialError("invalid JWT token")
	}
	if !token.Valid {
		return nil, errors.NewMalformedCredentialError("invalid JWT token")
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, errors.NewMalformedCredentialError("invalid JWT claims")
	}
	if exp, ok := claims["exp"].(float64); ok {
		if time.Now().Unix() > int64(exp) {
			return nil, errors.NewExpiredCredentialError("token has expired")
		}
	}

	sub, _ := claims["sub"].(string)
	if sub == "" {
		return nil, errors.NewMalformedCredentialError("token carries no user identifier")
	}

	user := &domain.User{ID: sub}
	user.Email, _ = claims["email"].(string)
	user.Phone, _ = claims["phone"].(string)
	user.Audience, _ = claims["aud"].(string)
	if meta, ok := claims["user_metadata"].(map[string]interface{}); ok {
		user.UserMetadata = meta
	}
	if meta, ok := claims["app_metadata"].(map[string]interface{}); ok {
		user.AppMetadata = meta
	}
	return user, nil
}

// GetUserByID looks up a user via the admin API using the service key
func (s *Service) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"/auth/v1/admin/users/"+id, nil)
	if err != nil {
		return nil, errors.NewInternalError("failed to create lookup request", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewExternalError("identity provider unreachable", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return nil, errors.NewUnknownUserError("user not found")
	case resp.StatusCode != http.StatusOK:
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.NewExternalError(
			fmt.Sprintf("identity provider returned status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var payload userPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, errors.NewExternalError("failed to decode user response", err)
	}
	if payload.ID == "" {
		return nil, errors.NewUnknownUserError("user not found")
	}
	return payload.toDomain(), nil
}

// CreateUser provisions a new real user via the admin API
func (s *Service) CreateUser(ctx context.Context, createReq service.CreateUserRequest) (*domain.User, error) {
	body := map[string]interface{}{
		"email":         createReq.Email,
		"password":      createReq.Password,
		"email_confirm": true,
	}
	if createReq.Phone != "" {
		body["phone"] = createReq.Phone
	}
	if createReq.UserMetadata != nil {
		body["user_metadata"] = createReq.UserMetadata
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, errors.NewInternalError("failed to marshal create user request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.baseURL+"/auth/v1/admin/users", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, errors.NewInternalError("failed to create signup request", err)
	}
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewExternalError("identity provider unreachable", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, errors.NewExternalError("failed to read provider response", err)
	}

	switch {
	case resp.StatusCode == http.StatusBadRequest || resp.StatusCode == http.StatusUnprocessableEntity:
		return nil, errors.NewValidationError("signup rejected by identity provider",
			map[string]interface{}{"provider_response": string(respBody)})
	case resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated:
		return nil, errors.NewExternalError(
			fmt.Sprintf("identity provider returned status %d: %s", resp.StatusCode, string(respBody)), nil)
	}

	var payload userPayload
	if err := json.Unmarshal(respBody, &payload); err != nil {
		return nil, errors.NewExternalError("failed to decode created user", err)
	}

	s.log.WithField("user_id", payload.ID).Info("User created")
	return payload.toDomain(), nil
}

// GetSession exchanges a refresh token for a fresh session
func (s *Service) GetSession(ctx context.Context, refreshToken string) (*domain.StoredSession, error) {
	jsonBody, err := json.Marshal(map[string]string{"refresh_token": refreshToken})
	if err != nil {
		return nil, errors.NewInternalError("failed to marshal session request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		s.baseURL+"/auth/v1/token?grant_type=refresh_token", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, errors.NewInternalError("failed to create session request", err)
	}
	req.Header.Set("apikey", s.anonKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, errors.NewExternalError("identity provider unreachable", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusBadRequest {
		return nil, errors.NewExpiredCredentialError("refresh token rejected")
	}
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, errors.NewExternalError(
			fmt.Sprintf("identity provider returned status %d: %s", resp.StatusCode, string(body)), nil)
	}

	var session domain.StoredSession
	if err := json.NewDecoder(resp.Body).Decode(&session); err != nil {
		return nil, errors.NewExternalError("failed to decode session response", err)
	}
	return &session, nil
}

// OAuthURL returns the provider's social sign-in URL for the given state
func (s *Service) OAuthURL(state string) string {
	if s.oauth == nil {
		return ""
	}
	return s.oauth.AuthCodeURL(state, oauth2.AccessTypeOffline)
}

// ExchangeOAuth trades an OAuth authorization code for a token
func (s *Service) ExchangeOAuth(ctx context.Context, code string) (*oauth2.Token, error) {
	if s.oauth == nil {
		return nil, errors.NewInternalError("oauth sign-in not configured", nil)
	}
	token, err := s.oauth.Exchange(ctx, code)
	if err != nil {
		return nil, errors.NewExternalError("oauth code exchange failed", err)
	}
	return token, nil
}
