package auth

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"amora-be/internal/domain"
	"amora-be/pkg/errors"
)

// Demo credential age windows. Session-style demo headers (token-free,
// legacy, marker) get a 48 hour window; demo bearer tokens get 24 hours.
// The asymmetry is deliberate grace for the header styles and both bounds
// are load-bearing: clients size their recovery windows against them.
const (
	DemoSessionWindow = 48 * time.Hour
	DemoTokenWindow   = 24 * time.Hour
)

// SynthesizeDemoUser builds a demo user record purely from the timestamp
// embedded in its id. No store is consulted. authType, when non-empty, is
// recorded in the user metadata so downstream handlers can tell which wire
// encoding authenticated the request.
//
// Only the upper age bound is enforced: a negative age (clock skew, a
// client minting ids slightly in the future) is accepted.
func SynthesizeDemoUser(userID string, window time.Duration, now time.Time, emailDomain, authType string) (*domain.User, *errors.AppError) {
	if !strings.HasPrefix(userID, domain.DemoUserPrefix) {
		return nil, errors.NewMalformedCredentialError("invalid demo user id")
	}

	raw := strings.TrimPrefix(userID, domain.DemoUserPrefix)
	ts, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || ts <= 0 {
		return nil, errors.NewMalformedCredentialError("invalid demo user timestamp")
	}

	age := now.Sub(time.UnixMilli(ts))
	if age > window {
		return nil, errors.NewExpiredCredentialError(
			fmt.Sprintf("demo session expired (age %.1fh, limit %.0fh)", age.Hours(), window.Hours()))
	}

	userMeta := map[string]interface{}{"demo": true}
	if authType != "" {
		userMeta["auth_type"] = authType
	}

	return &domain.User{
		ID:           userID,
		Email:        domain.DemoEmail(ts, emailDomain),
		CreatedAt:    time.UnixMilli(ts).UTC(),
		AppMetadata:  map[string]interface{}{"provider": "demo"},
		UserMetadata: userMeta,
		Audience:     "authenticated",
	}, nil
}

// SynthesizeFromDemoToken builds a demo user from a demo bearer token by
// translating it to the matching demo user id. Token flavor uses the
// tighter 24 hour window.
func SynthesizeFromDemoToken(token string, now time.Time, emailDomain string) (*domain.User, *errors.AppError) {
	ts, ok := domain.ParseDemoTokenTimestamp(token)
	if !ok {
		return nil, errors.NewMalformedCredentialError("invalid demo token")
	}
	return SynthesizeDemoUser(domain.DemoUserID(ts), DemoTokenWindow, now, emailDomain, "bearer")
}
