package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// Demo identifiers embed their creation instant as a unix-millisecond
// timestamp: demo-user-<ms> and demo-token-<ms>. Both sides of the wire
// derive identity and age from that suffix alone; there is no server-side
// record of a demo user.
const (
	DemoUserPrefix  = "demo-user-"
	DemoTokenPrefix = "demo-token-"
)

// CredentialKind tags the wire encoding a credential arrived in
type CredentialKind string

const (
	CredentialTokenFree     CredentialKind = "token_free"
	CredentialLegacySession CredentialKind = "legacy_session"
	CredentialBearerToken   CredentialKind = "bearer_token"
	CredentialDemoMarker    CredentialKind = "demo_marker"
)

// Credential is the decoded form of an inbound authentication attempt
type Credential struct {
	Kind      CredentialKind `json:"kind"`
	SessionID string         `json:"session_id,omitempty"`
	UserID    string         `json:"user_id,omitempty"`
	Token     string         `json:"token,omitempty"`
	IsDemo    bool           `json:"is_demo"`
}

// IsDemoUserID reports whether id carries the demo user prefix
func IsDemoUserID(id string) bool {
	return strings.HasPrefix(id, DemoUserPrefix)
}

// IsDemoToken reports whether token carries the demo token prefix
func IsDemoToken(token string) bool {
	return strings.HasPrefix(token, DemoTokenPrefix)
}

// ParseDemoUserTimestamp extracts the unix-millisecond timestamp embedded
// in a demo user id. The second return is false when the id does not carry
// the demo prefix or the suffix is not a positive integer.
func ParseDemoUserTimestamp(id string) (int64, bool) {
	return parseDemoSuffix(id, DemoUserPrefix)
}

// ParseDemoTokenTimestamp extracts the unix-millisecond timestamp embedded
// in a demo token.
func ParseDemoTokenTimestamp(token string) (int64, bool) {
	return parseDemoSuffix(token, DemoTokenPrefix)
}

func parseDemoSuffix(s, prefix string) (int64, bool) {
	if !strings.HasPrefix(s, prefix) {
		return 0, false
	}
	ts, err := strconv.ParseInt(strings.TrimPrefix(s, prefix), 10, 64)
	if err != nil || ts <= 0 {
		return 0, false
	}
	return ts, true
}

// DemoUserID builds the demo user id for a creation timestamp
func DemoUserID(timestampMillis int64) string {
	return fmt.Sprintf("%s%d", DemoUserPrefix, timestampMillis)
}

// DemoToken builds the demo bearer token for a creation timestamp
func DemoToken(timestampMillis int64) string {
	return fmt.Sprintf("%s%d", DemoTokenPrefix, timestampMillis)
}

// DemoEmail derives the deterministic demo email for a creation timestamp
func DemoEmail(timestampMillis int64, domain string) string {
	return fmt.Sprintf("demo%d@%s", timestampMillis, domain)
}
