package apiclient

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"amora-be/internal/domain"
	"amora-be/pkg/logger"
)

const (
	// requestTimeout bounds every individual HTTP attempt
	requestTimeout = 10 * time.Second

	// maxRetries caps how many times a request is re-sent after a 401.
	// One original attempt plus maxRetries recovered attempts.
	maxRetries = 2

	tokenPreviewLength = 12
)

// publicEndpoints may be called with the anonymous project key when no
// session token is held yet
var publicEndpoints = map[string]bool{
	"/health":                true,
	"/api/auth/signup":       true,
	"/api/auth/demo-session": true,
}

// SessionProvider exposes the identity provider's current session, used as
// the last recovery source when both the in-memory slot and the durable
// backup come up empty
type SessionProvider interface {
	CurrentSession(ctx context.Context) (*domain.StoredSession, error)
}

// TokenStatus is a redacted view of the in-memory token slot
type TokenStatus struct {
	Present bool   `json:"present"`
	Demo    bool   `json:"demo"`
	Preview string `json:"preview"`
}

// Client talks to the amora backend. It keeps a single access token in
// memory and transparently recovers it from the durable backup or the
// identity provider when a request is rejected.
type Client struct {
	baseURL    string
	anonKey    string
	httpClient *http.Client
	store      SessionStore
	provider   SessionProvider
	log        *logger.Logger
	now        func() time.Time

	mu          sync.Mutex
	accessToken string
}

// Option customizes a Client
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP client
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithClock overrides the time source, for tests
func WithClock(now func() time.Time) Option {
	return func(c *Client) {
		c.now = now
	}
}

// New creates a backend client. store holds the durable session backup and
// provider is the identity fallback; either may be a no-op in tools that
// only call public endpoints.
func New(baseURL, anonKey string, store SessionStore, provider SessionProvider, log *logger.Logger, opts ...Option) *Client {
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		anonKey:    anonKey,
		httpClient: &http.Client{Timeout: requestTimeout},
		store:      store,
		provider:   provider,
		log:        log.Named("apiclient"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// SetAccessToken replaces the in-memory token slot. An empty token clears it.
func (c *Client) SetAccessToken(token string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = token
}

// AccessToken returns the current in-memory token, empty when none is held
func (c *Client) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accessToken
}

// TokenStatus reports on the token slot without exposing the full token
func (c *Client) TokenStatus() TokenStatus {
	token := c.AccessToken()
	status := TokenStatus{
		Present: token != "",
		Demo:    domain.IsDemoToken(token),
	}
	if len(token) > tokenPreviewLength {
		status.Preview = token[:tokenPreviewLength] + "..."
	} else {
		status.Preview = token
	}
	return status
}

// do runs one logical request: resolve a token, send, and on a 401 run
// recovery and re-send up to maxRetries times. Every failure surfaces as
// an *APIError.
func (c *Client) do(ctx context.Context, method, endpoint string, body, out interface{}) error {
	var payload []byte
	if body != nil {
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return &APIError{Kind: ErrorKindValidation, Message: "failed to encode request body", Err: err}
		}
	}

	token := c.AccessToken()
	if token == "" && !publicEndpoints[endpoint] {
		// Synchronous restore from the durable backup before giving up
		if c.recoverFromStore(ctx) {
			token = c.AccessToken()
		} else {
			return &APIError{Kind: ErrorKindAuth, Message: "no access token available"}
		}
	}

	retries := 0
	for {
		statusCode, respBody, err := c.send(ctx, method, endpoint, payload, token)
		if err != nil {
			return err
		}

		if statusCode >= 200 && statusCode < 300 {
			if out != nil && len(respBody) > 0 {
				if err := json.Unmarshal(respBody, out); err != nil {
					return &APIError{Kind: ErrorKindServer, StatusCode: statusCode, Message: "failed to decode response body", Err: err}
				}
			}
			return nil
		}

		apiErr := errorFromResponse(statusCode, respBody)
		if statusCode != http.StatusUnauthorized || retries >= maxRetries {
			return apiErr
		}
		if !c.recoverAfterRejection(ctx, token) {
			return apiErr
		}
		retries++
		token = c.AccessToken()
		c.log.WithFields(map[string]interface{}{
			"endpoint": endpoint,
			"attempt":  retries + 1,
		}).Debug("retrying request with recovered token")
	}
}

// send performs one HTTP attempt under the per-request timeout
func (c *Client) send(ctx context.Context, method, endpoint string, payload []byte, token string) (int, []byte, error) {
	reqCtx, cancel := context.WithTimeout(ctx, requestTimeout)
	defer cancel()

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(reqCtx, method, c.baseURL+endpoint, reader)
	if err != nil {
		return 0, nil, &APIError{Kind: ErrorKindValidation, Message: "failed to build request", Err: err}
	}

	req.Header.Set("apikey", c.anonKey)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	} else {
		req.Header.Set("Authorization", "Bearer "+c.anonKey)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, errorFromTransport(err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, errorFromTransport(err)
	}
	return resp.StatusCode, respBody, nil
}

// recoverAfterRejection reacts to a 401 on an in-flight request. Demo
// tokens are restored from the durable backup; provider tokens go back to
// the identity provider for a fresh session.
func (c *Client) recoverAfterRejection(ctx context.Context, rejectedToken string) bool {
	if domain.IsDemoToken(rejectedToken) {
		if c.recoverFromStore(ctx) && c.AccessToken() != rejectedToken {
			return true
		}
		// Durable copy was the same rejected token or absent; a fresh
		// provider session is the only way forward
	}
	return c.recoverFromProvider(ctx)
}
