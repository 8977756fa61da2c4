package domain

import "time"

// User represents an authenticated identity, either a real user returned
// by the identity provider or a synthesized demo user. Real users are
// opaque records; this system only ever reads their ID.
type User struct {
	ID           string                 `json:"id"`
	Email        string                 `json:"email"`
	Phone        string                 `json:"phone,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
	AppMetadata  map[string]interface{} `json:"app_metadata,omitempty"`
	UserMetadata map[string]interface{} `json:"user_metadata,omitempty"`
	Audience     string                 `json:"aud,omitempty"`
}

// IsDemo reports whether the user record was synthesized for a demo identity
func (u *User) IsDemo() bool {
	if u == nil || u.UserMetadata == nil {
		return false
	}
	demo, _ := u.UserMetadata["demo"].(bool)
	return demo
}

// StoredSession is the durable client-side session backup. It is created
// only for demo flows and lives for exactly DemoSessionLifetimeSeconds
// from creation.
type StoredSession struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	ExpiresIn    int64  `json:"expires_in"`
	ExpiresAt    int64  `json:"expires_at"`
	TokenType    string `json:"token_type"`
	User         User   `json:"user"`
}

// DemoSessionLifetimeSeconds is the lifetime of a minted demo session
const DemoSessionLifetimeSeconds = 86400
