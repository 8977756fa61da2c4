package apiclient

import (
	"context"
	"errors"
	"time"

	"amora-be/internal/domain"
)

// RecoverySource names where a usable token was found
type RecoverySource string

const (
	RecoverySourceNone     RecoverySource = "none"
	RecoverySourceMemory   RecoverySource = "memory"
	RecoverySourceDurable  RecoverySource = "durable_storage"
	RecoverySourceProvider RecoverySource = "provider"
)

// The durable backup is accepted within a window slightly wider than the
// server's 24h demo token check, tolerating clock skew on both ends. A
// backup that falls outside the window is deleted on sight.
const (
	durableSkewTolerance = time.Hour
	durableMaxAge        = 25 * time.Hour
)

type recoveryStep int

const (
	stepCheckMemory recoveryStep = iota
	stepCheckDurable
	stepCheckProvider
	stepFailed
)

// EnsureTokenAvailable walks the recovery chain until a usable token sits
// in the memory slot: the slot itself, then the durable backup, then the
// identity provider. It reports which source produced the token, or an
// auth error when every source came up empty.
func (c *Client) EnsureTokenAvailable(ctx context.Context) (RecoverySource, error) {
	for step := stepCheckMemory; step != stepFailed; step++ {
		switch step {
		case stepCheckMemory:
			if token := c.AccessToken(); token != "" && c.tokenUsable(token) {
				return RecoverySourceMemory, nil
			}
		case stepCheckDurable:
			if c.recoverFromStore(ctx) {
				c.log.Info("session recovered from durable storage")
				return RecoverySourceDurable, nil
			}
		case stepCheckProvider:
			if c.recoverFromProvider(ctx) {
				c.log.Info("session recovered from identity provider")
				return RecoverySourceProvider, nil
			}
		}
	}
	return RecoverySourceNone, &APIError{Kind: ErrorKindAuth, Message: "re-authentication required"}
}

// WithRecovery runs op and, if it fails with an auth error, performs one
// token recovery and one retry. Non-auth failures pass through untouched,
// as does the original error when recovery itself fails.
func (c *Client) WithRecovery(ctx context.Context, op func(ctx context.Context) error) error {
	err := op(ctx)
	if err == nil || !IsAuthError(err) {
		return err
	}

	if _, recoveryErr := c.EnsureTokenAvailable(ctx); recoveryErr != nil {
		return err
	}
	return op(ctx)
}

// tokenUsable judges a token's validity locally. Demo tokens carry their
// age; provider tokens are opaque here and left for the server to judge.
func (c *Client) tokenUsable(token string) bool {
	if !domain.IsDemoToken(token) {
		return true
	}
	ts, ok := domain.ParseDemoTokenTimestamp(token)
	if !ok {
		return false
	}
	return c.demoAgeWithinWindow(ts)
}

func (c *Client) demoAgeWithinWindow(timestampMillis int64) bool {
	age := c.now().Sub(time.UnixMilli(timestampMillis))
	return age > -durableSkewTolerance && age < durableMaxAge
}

// recoverFromStore installs the durable backup into the memory slot when
// it holds a demo session still inside the acceptance window. A backup
// that is malformed or out of window is deleted before reporting failure.
func (c *Client) recoverFromStore(ctx context.Context) bool {
	if c.store == nil {
		return false
	}

	session, err := c.store.Load(ctx)
	if err != nil {
		if !errors.Is(err, ErrNoStoredSession) {
			c.log.WithError(err).Warn("discarding unreadable session backup")
			_ = c.store.Clear(ctx)
		}
		return false
	}

	ts, ok := domain.ParseDemoTokenTimestamp(session.AccessToken)
	if !ok || !c.demoAgeWithinWindow(ts) {
		c.log.Info("discarding stale session backup")
		_ = c.store.Clear(ctx)
		return false
	}

	c.SetAccessToken(session.AccessToken)
	return true
}

// recoverFromProvider asks the identity provider for its current session
func (c *Client) recoverFromProvider(ctx context.Context) bool {
	if c.provider == nil {
		return false
	}

	session, err := c.provider.CurrentSession(ctx)
	if err != nil || session == nil || session.AccessToken == "" {
		return false
	}

	c.SetAccessToken(session.AccessToken)
	return true
}
