package apiclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amora-be/internal/domain"
	"amora-be/pkg/logger"
)

type fakeProvider struct {
	session *domain.StoredSession
	err     error
	calls   int
}

func (p *fakeProvider) CurrentSession(ctx context.Context) (*domain.StoredSession, error) {
	p.calls++
	if p.err != nil {
		return nil, p.err
	}
	return p.session, nil
}

func newTestClient(t *testing.T, handler http.Handler, store SessionStore, provider SessionProvider, now time.Time) (*Client, *httptest.Server) {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(server.URL, "anon-key", store, provider, logger.NewNop(),
		WithClock(func() time.Time { return now }),
	)
	return client, server
}

func TestClient_AttachesBearerToken(t *testing.T) {
	var gotAuth, gotAPIKey string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotAPIKey = r.Header.Get("apikey")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"user_id":"user-1"}`))
	})
	client, _ := newTestClient(t, handler, NewMemorySessionStore(), nil, time.Now())
	client.SetAccessToken("provider-token-abc")

	_, err := client.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer provider-token-abc", gotAuth)
	assert.Equal(t, "anon-key", gotAPIKey)
}

func TestClient_PublicEndpointUsesAnonKey(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"id":"user-1","email":"sam@example.com"}`))
	})
	client, _ := newTestClient(t, handler, NewMemorySessionStore(), nil, time.Now())

	_, err := client.Signup(context.Background(), SignupRequest{Email: "sam@example.com", Password: "secret"})
	require.NoError(t, err)
	assert.Equal(t, "Bearer anon-key", gotAuth)
}

func TestClient_NoTokenNoBackupFailsWithoutRequest(t *testing.T) {
	var requests atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
	})
	client, _ := newTestClient(t, handler, NewMemorySessionStore(), nil, time.Now())

	_, err := client.GetProfile(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	assert.Equal(t, int64(0), requests.Load(), "no HTTP request should be made without a token")
}

func TestClient_MissingTokenRestoredFromBackup(t *testing.T) {
	now := time.Now()
	token := domain.DemoToken(now.Add(-2 * time.Hour).UnixMilli())

	store := NewMemorySessionStore()
	require.NoError(t, store.Save(context.Background(), &domain.StoredSession{AccessToken: token, TokenType: "bearer"}))

	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		_, _ = w.Write([]byte(`{"user_id":"user-1"}`))
	})
	client, _ := newTestClient(t, handler, store, nil, now)

	_, err := client.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "Bearer "+token, gotAuth)
	assert.Equal(t, token, client.AccessToken())
}

func TestClient_UnauthorizedRetriesAreCapped(t *testing.T) {
	var requests atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":"token rejected"}`))
	})

	provider := &fakeProvider{session: &domain.StoredSession{AccessToken: "fresh-token"}}
	client, _ := newTestClient(t, handler, NewMemorySessionStore(), provider, time.Now())
	client.SetAccessToken("stale-token")

	_, err := client.GetProfile(context.Background())
	require.Error(t, err)
	assert.True(t, IsAuthError(err))
	// one original attempt plus maxRetries recovered attempts
	assert.Equal(t, int64(maxRetries+1), requests.Load())
}

func TestClient_UnauthorizedThenRecoveredSucceeds(t *testing.T) {
	var requests atomic.Int64
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests.Add(1)
		if r.Header.Get("Authorization") != "Bearer fresh-token" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error":"token rejected"}`))
			return
		}
		_, _ = w.Write([]byte(`{"user_id":"user-1"}`))
	})

	provider := &fakeProvider{session: &domain.StoredSession{AccessToken: "fresh-token"}}
	client, _ := newTestClient(t, handler, NewMemorySessionStore(), provider, time.Now())
	client.SetAccessToken("stale-token")

	profile, err := client.GetProfile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "user-1", profile.UserID)
	assert.Equal(t, int64(2), requests.Load())
	assert.Equal(t, "fresh-token", client.AccessToken())
}

func TestClient_ErrorKindMapping(t *testing.T) {
	tests := []struct {
		name       string
		statusCode int
		body       string
		wantKind   ErrorKind
		wantMsg    string
	}{
		{"not found", http.StatusNotFound, `{"error":"profile not found"}`, ErrorKindNotFound, "profile not found"},
		{"validation", http.StatusBadRequest, `{"error":"email is required"}`, ErrorKindValidation, "email is required"},
		{"server", http.StatusInternalServerError, `{"error":"boom"}`, ErrorKindServer, "boom"},
		{"unparseable body", http.StatusBadGateway, `<html>`, ErrorKindServer, "Bad Gateway"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.statusCode)
				_, _ = w.Write([]byte(tt.body))
			})
			client, _ := newTestClient(t, handler, NewMemorySessionStore(), nil, time.Now())
			client.SetAccessToken("some-token")

			_, err := client.GetProfile(context.Background())
			require.Error(t, err)
			apiErr, ok := err.(*APIError)
			require.True(t, ok)
			assert.Equal(t, tt.wantKind, apiErr.Kind)
			assert.Equal(t, tt.statusCode, apiErr.StatusCode)
			assert.Equal(t, tt.wantMsg, apiErr.Message)
		})
	}
}

func TestClient_TimeoutMapsToTimeoutKind(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-r.Context().Done()
	})
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := New(server.URL, "anon-key", NewMemorySessionStore(), nil, logger.NewNop(),
		WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}),
	)
	client.SetAccessToken("some-token")

	_, err := client.GetProfile(context.Background())
	require.Error(t, err)
	apiErr, ok := err.(*APIError)
	require.True(t, ok)
	assert.Equal(t, ErrorKindTimeout, apiErr.Kind)
}

func TestClient_CreateDemoSessionInstallsAndBacksUp(t *testing.T) {
	now := time.Now()
	token := domain.DemoToken(now.UnixMilli())
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"access_token":"` + token + `","token_type":"bearer","expires_in":86400}`))
	})

	store := NewMemorySessionStore()
	client, _ := newTestClient(t, handler, store, nil, now)

	session, err := client.CreateDemoSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, token, session.AccessToken)
	assert.Equal(t, token, client.AccessToken())

	backup, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, token, backup.AccessToken)
}

func TestClient_HealthCheckIgnoresTokenSlot(t *testing.T) {
	var gotAuth string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.WriteHeader(http.StatusOK)
	})
	client, _ := newTestClient(t, handler, NewMemorySessionStore(), nil, time.Now())
	client.SetAccessToken("provider-token-abc")

	require.NoError(t, client.HealthCheck(context.Background()))
	assert.Equal(t, "Bearer anon-key", gotAuth)
}

func TestClient_TokenStatus(t *testing.T) {
	client := New("http://localhost", "anon-key", NewMemorySessionStore(), nil, logger.NewNop())

	status := client.TokenStatus()
	assert.False(t, status.Present)

	client.SetAccessToken(domain.DemoToken(1700000000000))
	status = client.TokenStatus()
	assert.True(t, status.Present)
	assert.True(t, status.Demo)
	assert.Equal(t, "demo-token-1...", status.Preview)

	client.SetAccessToken("provider-token-abc")
	status = client.TokenStatus()
	assert.True(t, status.Present)
	assert.False(t, status.Demo)
	assert.NotContains(t, status.Preview, "abc")
}
