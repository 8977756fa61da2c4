package auth

import (
	"context"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"amora-be/internal/domain"
	"amora-be/pkg/errors"
	"amora-be/pkg/logger"
)

// fakeIdentity stubs the identity provider for cascade tests
type fakeIdentity struct {
	users       map[string]*domain.User
	tokens      map[string]*domain.User
	lookupCalls int
	verifyCalls int
}

func (f *fakeIdentity) GetUserByID(ctx context.Context, id string) (*domain.User, error) {
	f.lookupCalls++
	if u, ok := f.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, errors.NewUnknownUserError("user not found")
}

func (f *fakeIdentity) VerifyToken(ctx context.Context, token string) (*domain.User, error) {
	f.verifyCalls++
	if u, ok := f.tokens[token]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, errors.NewExpiredCredentialError("invalid or expired access token")
}

func newTestCascade(identity *fakeIdentity) *Cascade {
	return NewCascade(identity, "amora.app", logger.NewNop())
}

func headersWith(pairs map[string]string) http.Header {
	h := http.Header{}
	for k, v := range pairs {
		h.Set(k, v)
	}
	return h
}

func TestCascade_TokenFreeDemo(t *testing.T) {
	now := time.Now()
	cascade := newTestCascade(&fakeIdentity{})

	tests := []struct {
		name        string
		ageHours    int
		wantErrType errors.ErrorType
	}{
		{name: "fresh session", ageHours: 0},
		{name: "30h old session still accepted", ageHours: 30},
		{name: "47h old session still accepted", ageHours: 47},
		{name: "49h old session expired", ageHours: 49, wantErrType: errors.ErrorTypeExpiredCredential},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			userID := domain.DemoUserID(now.Add(-time.Duration(tt.ageHours) * time.Hour).UnixMilli())
			h := headersWith(map[string]string{
				HeaderSessionID: "abc",
				HeaderUserID:    userID,
				HeaderIsDemo:    "true",
			})

			res := cascade.Verify(context.Background(), h)

			if tt.wantErrType != "" {
				require.Nil(t, res.User)
				require.NotNil(t, res.Err)
				assert.Equal(t, tt.wantErrType, res.Err.Type)
				return
			}
			require.NotNil(t, res.User)
			assert.Equal(t, userID, res.User.ID)
			assert.True(t, res.User.IsDemo())
		})
	}
}

func TestCascade_TokenFreeRealUser(t *testing.T) {
	identity := &fakeIdentity{users: map[string]*domain.User{
		"real-user-1": {ID: "real-user-1", Email: "real@example.com"},
	}}
	cascade := newTestCascade(identity)

	h := headersWith(map[string]string{
		HeaderSessionID: "sess-1",
		HeaderUserID:    "real-user-1",
	})

	res := cascade.Verify(context.Background(), h)
	require.NotNil(t, res.User)
	assert.Equal(t, "real-user-1", res.User.ID)
	assert.Equal(t, true, res.User.AppMetadata["token_free"])
	assert.Equal(t, 1, identity.lookupCalls)
}

func TestCascade_TokenFreeUnknownUser(t *testing.T) {
	cascade := newTestCascade(&fakeIdentity{})

	h := headersWith(map[string]string{
		HeaderSessionID: "sess-1",
		HeaderUserID:    "real-user-missing",
	})

	res := cascade.Verify(context.Background(), h)
	require.Nil(t, res.User)
	assert.Equal(t, errors.ErrorTypeUnknownUser, res.Err.Type)
}

func TestCascade_LegacySession(t *testing.T) {
	now := time.Now()
	identity := &fakeIdentity{users: map[string]*domain.User{
		"real-user-2": {ID: "real-user-2"},
	}}
	cascade := newTestCascade(identity)

	t.Run("demo sub-path uses 48h window", func(t *testing.T) {
		userID := domain.DemoUserID(now.Add(-30 * time.Hour).UnixMilli())
		h := headersWith(map[string]string{
			HeaderAuthorization: "Session legacy-sess-1",
			HeaderUserID:        userID,
			HeaderIsDemo:        "true",
		})
		res := cascade.Verify(context.Background(), h)
		require.NotNil(t, res.User)
		assert.Equal(t, string(domain.CredentialLegacySession), res.User.UserMetadata["auth_type"])
	})

	t.Run("real sub-path looks up user without token-free tag", func(t *testing.T) {
		h := headersWith(map[string]string{
			HeaderAuthorization: "Session legacy-sess-2",
			HeaderUserID:        "real-user-2",
		})
		res := cascade.Verify(context.Background(), h)
		require.NotNil(t, res.User)
		assert.Equal(t, "real-user-2", res.User.ID)
		_, tagged := res.User.AppMetadata["token_free"]
		assert.False(t, tagged)
	})
}

func TestCascade_BearerToken(t *testing.T) {
	now := time.Now()
	identity := &fakeIdentity{tokens: map[string]*domain.User{
		"provider-token-1": {ID: "real-user-3"},
	}}
	cascade := newTestCascade(identity)

	t.Run("demo token within 24h", func(t *testing.T) {
		token := domain.DemoToken(now.Add(-10 * time.Hour).UnixMilli())
		h := headersWith(map[string]string{HeaderAuthorization: "Bearer " + token})
		res := cascade.Verify(context.Background(), h)
		require.NotNil(t, res.User)
		assert.True(t, res.User.IsDemo())
	})

	t.Run("provider token delegates to identity", func(t *testing.T) {
		h := headersWith(map[string]string{HeaderAuthorization: "Bearer provider-token-1"})
		res := cascade.Verify(context.Background(), h)
		require.NotNil(t, res.User)
		assert.Equal(t, "real-user-3", res.User.ID)
		assert.Equal(t, 1, identity.verifyCalls)
	})
}

// A 30h old demo timestamp must pass under token-free headers (48h window)
// but fail as a bearer token (24h window).
func TestCascade_WindowAsymmetry(t *testing.T) {
	now := time.Now()
	cascade := newTestCascade(&fakeIdentity{})
	ts := now.Add(-30 * time.Hour).UnixMilli()

	sessionHeaders := headersWith(map[string]string{
		HeaderSessionID: "abc",
		HeaderUserID:    domain.DemoUserID(ts),
		HeaderIsDemo:    "true",
	})
	res := cascade.Verify(context.Background(), sessionHeaders)
	require.NotNil(t, res.User, "token-free demo headers should accept a 30h old timestamp")

	bearerHeaders := headersWith(map[string]string{
		HeaderAuthorization: "Bearer " + domain.DemoToken(ts),
	})
	res = cascade.Verify(context.Background(), bearerHeaders)
	require.Nil(t, res.User, "bearer demo token should reject a 30h old timestamp")
	assert.Equal(t, errors.ErrorTypeExpiredCredential, res.Err.Type)
}

func TestCascade_DemoMarkerFallback(t *testing.T) {
	now := time.Now()
	cascade := newTestCascade(&fakeIdentity{})

	userID := domain.DemoUserID(now.Add(-2 * time.Hour).UnixMilli())
	h := headersWith(map[string]string{
		HeaderIsDemo: "true",
		HeaderUserID: userID,
	})

	res := cascade.Verify(context.Background(), h)
	require.NotNil(t, res.User)
	assert.Equal(t, userID, res.User.ID)
	assert.Equal(t, string(domain.CredentialDemoMarker), res.User.UserMetadata["auth_type"])
}

func TestCascade_DiagnosticErrors(t *testing.T) {
	cascade := newTestCascade(&fakeIdentity{})

	tests := []struct {
		name        string
		headers     map[string]string
		wantErrType errors.ErrorType
	}{
		{
			name:        "no headers at all",
			headers:     map[string]string{},
			wantErrType: errors.ErrorTypeMissingCredential,
		},
		{
			name:        "unrecognized authorization scheme",
			headers:     map[string]string{HeaderAuthorization: "Token abc"},
			wantErrType: errors.ErrorTypeMalformedCredential,
		},
		{
			name:        "user id alone is not a credential",
			headers:     map[string]string{HeaderUserID: "real-user-9"},
			wantErrType: errors.ErrorTypeMalformedCredential,
		},
		{
			name: "demo flag with non-demo user id",
			headers: map[string]string{
				HeaderIsDemo: "true",
				HeaderUserID: "real-user-9",
			},
			wantErrType: errors.ErrorTypeMalformedCredential,
		},
		{
			name: "api key alone does not authenticate",
			headers: map[string]string{
				HeaderAPIKey: "anon-key",
			},
			wantErrType: errors.ErrorTypeMissingCredential,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := cascade.Verify(context.Background(), headersWith(tt.headers))
			require.Nil(t, res.User)
			require.NotNil(t, res.Err)
			assert.Equal(t, tt.wantErrType, res.Err.Type)
		})
	}
}

func TestCascade_StrategyOrder(t *testing.T) {
	// Token-free headers and a bearer token present together: the
	// token-free strategy wins because it runs first.
	now := time.Now()
	identity := &fakeIdentity{tokens: map[string]*domain.User{
		"provider-token-1": {ID: "real-user-bearer"},
	}}
	cascade := newTestCascade(identity)

	demoID := domain.DemoUserID(now.UnixMilli())
	h := headersWith(map[string]string{
		HeaderSessionID:     "abc",
		HeaderUserID:        demoID,
		HeaderIsDemo:        "true",
		HeaderAuthorization: "Bearer provider-token-1",
	})

	res := cascade.Verify(context.Background(), h)
	require.NotNil(t, res.User)
	assert.Equal(t, demoID, res.User.ID)
	assert.Equal(t, 0, identity.verifyCalls)
}

func TestCascade_EndToEndScenario(t *testing.T) {
	now := time.Now()
	cascade := newTestCascade(&fakeIdentity{})

	ts := now.UnixMilli() - 1000
	h := headersWith(map[string]string{
		HeaderSessionID: "abc",
		HeaderUserID:    fmt.Sprintf("demo-user-%d", ts),
		HeaderIsDemo:    "true",
	})

	res := cascade.Verify(context.Background(), h)
	require.NotNil(t, res.User)
	assert.Equal(t, fmt.Sprintf("demo%d@amora.app", ts), res.User.Email)
}
