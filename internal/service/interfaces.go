package service

import (
	"context"

	"golang.org/x/oauth2"

	"amora-be/internal/domain"
)

// CreateUserRequest carries the fields for provisioning a real user
type CreateUserRequest struct {
	Email        string                 `json:"email"`
	Phone        string                 `json:"phone,omitempty"`
	Password     string                 `json:"password"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
}

// IdentityService defines the interface to the external identity provider
type IdentityService interface {
	// VerifyToken validates a provider-issued access token and returns its user
	VerifyToken(ctx context.Context, token string) (*domain.User, error)

	// GetUserByID looks up a user record by id
	GetUserByID(ctx context.Context, id string) (*domain.User, error)

	// CreateUser provisions a new real user
	CreateUser(ctx context.Context, req CreateUserRequest) (*domain.User, error)

	// GetSession exchanges a refresh token for a fresh session
	GetSession(ctx context.Context, refreshToken string) (*domain.StoredSession, error)

	// OAuthURL returns the provider's social sign-in URL for the given state
	OAuthURL(state string) string

	// ExchangeOAuth trades an OAuth authorization code for a token
	ExchangeOAuth(ctx context.Context, code string) (*oauth2.Token, error)
}

// MatchService defines the interface for compatibility matching
type MatchService interface {
	// GetMatches scores every other stored profile against the caller's,
	// best matches first
	GetMatches(ctx context.Context, userID string) ([]domain.Match, error)
}

// Services aggregates all service interfaces
type Services struct {
	Identity IdentityService
	Match    MatchService
}
