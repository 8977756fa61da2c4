package auth

import (
	"context"
	"net/http"
	"strings"
	"time"

	"amora-be/internal/domain"
	"amora-be/pkg/errors"
	"amora-be/pkg/logger"
)

// Header names consumed by the cascade
const (
	HeaderAuthorization = "Authorization"
	HeaderSessionID     = "X-Session-Id"
	HeaderUserID        = "X-User-ID"
	HeaderIsDemo        = "X-Is-Demo"
	HeaderAPIKey        = "X-API-Key"

	bearerPrefix  = "Bearer "
	sessionPrefix = "Session "
)

// IdentityLookup is the slice of the identity provider the cascade needs:
// read-only user lookup and token verification.
type IdentityLookup interface {
	GetUserByID(ctx context.Context, id string) (*domain.User, error)
	VerifyToken(ctx context.Context, token string) (*domain.User, error)
}

// Result is the uniform outcome every strategy and the cascade itself
// honor: exactly one of User or Err is non-nil.
type Result struct {
	User *domain.User
	Err  *errors.AppError
}

type strategyFunc func(ctx context.Context, h http.Header) *Result

// Cascade decodes inbound request headers into a verified user by trying
// authentication strategies in a fixed priority order, short-circuiting on
// the first success. Strategies run sequentially; order is the tie-break.
type Cascade struct {
	identity    IdentityLookup
	emailDomain string
	log         *logger.Logger
	now         func() time.Time
}

// NewCascade creates a verification cascade backed by the given identity provider
func NewCascade(identity IdentityLookup, emailDomain string, log *logger.Logger) *Cascade {
	return &Cascade{
		identity:    identity,
		emailDomain: emailDomain,
		log:         log,
		now:         time.Now,
	}
}

// Verify runs the strategy chain and returns the first success. When every
// strategy fails, the returned error distinguishes "no headers at all",
// "headers present but malformed", and "all methods exhausted"; an expiry
// or unknown-user rejection seen along the way takes precedence since it
// describes what actually went wrong.
func (c *Cascade) Verify(ctx context.Context, h http.Header) *Result {
	strategies := []struct {
		name string
		fn   strategyFunc
	}{
		{string(domain.CredentialTokenFree), c.verifyTokenFree},
		{string(domain.CredentialLegacySession), c.verifyLegacySession},
		{string(domain.CredentialBearerToken), c.verifyBearerToken},
		{string(domain.CredentialDemoMarker), c.verifyDemoMarker},
	}

	var firstRejection *errors.AppError
	for _, s := range strategies {
		res := c.runStrategy(ctx, s.name, s.fn, h)
		if res.User != nil {
			c.log.WithFields(map[string]interface{}{
				"strategy": s.name,
				"user_id":  res.User.ID,
			}).Debug("Authentication strategy succeeded")
			return res
		}
		if firstRejection == nil && isRejection(res.Err) {
			firstRejection = res.Err
		}
		c.log.WithField("strategy", s.name).WithError(res.Err).Debug("Authentication strategy failed")
	}

	if firstRejection != nil {
		return &Result{Err: firstRejection}
	}
	return &Result{Err: c.diagnose(h)}
}

// runStrategy executes one strategy, converting a panic into a
// methods-exhausted result so a single broken strategy can never take the
// cascade down.
func (c *Cascade) runStrategy(ctx context.Context, name string, fn strategyFunc, h http.Header) (res *Result) {
	defer func() {
		if r := recover(); r != nil {
			c.log.WithFields(map[string]interface{}{
				"strategy": name,
				"panic":    r,
			}).Error("Authentication strategy panicked")
			res = &Result{Err: errors.NewMethodsExhaustedError("authentication method failed unexpectedly")}
		}
	}()
	return fn(ctx, h)
}

// verifyTokenFree handles the paired X-Session-Id / X-User-ID headers.
// Demo users get the 48 hour window; real users are looked up by the
// client-asserted id and tagged as token-free sessions.
func (c *Cascade) verifyTokenFree(ctx context.Context, h http.Header) *Result {
	sessionID := h.Get(HeaderSessionID)
	userID := h.Get(HeaderUserID)
	if sessionID == "" || userID == "" {
		return &Result{Err: errors.NewMissingCredentialError("token-free session headers not present")}
	}

	if isDemoFlag(h) {
		user, appErr := SynthesizeDemoUser(userID, DemoSessionWindow, c.now(), c.emailDomain, string(domain.CredentialTokenFree))
		if appErr != nil {
			return &Result{Err: appErr}
		}
		return &Result{User: user}
	}

	user, err := c.identity.GetUserByID(ctx, userID)
	if err != nil {
		return &Result{Err: asVerificationError(err, "token-free session user not found")}
	}
	if user.AppMetadata == nil {
		user.AppMetadata = map[string]interface{}{}
	}
	user.AppMetadata["token_free"] = true
	return &Result{User: user}
}

// verifyLegacySession handles the combined "Session <id>" Authorization
// header. Same demo window as token-free; non-demo lookups are not tagged.
func (c *Cascade) verifyLegacySession(ctx context.Context, h http.Header) *Result {
	authz := h.Get(HeaderAuthorization)
	if !strings.HasPrefix(authz, sessionPrefix) {
		return &Result{Err: errors.NewMissingCredentialError("legacy session header not present")}
	}
	sessionID := strings.TrimPrefix(authz, sessionPrefix)
	if sessionID == "" {
		return &Result{Err: errors.NewMalformedCredentialError("empty legacy session id")}
	}

	userID := h.Get(HeaderUserID)
	if userID == "" {
		return &Result{Err: errors.NewMalformedCredentialError("legacy session missing user id")}
	}

	if isDemoFlag(h) {
		user, appErr := SynthesizeDemoUser(userID, DemoSessionWindow, c.now(), c.emailDomain, string(domain.CredentialLegacySession))
		if appErr != nil {
			return &Result{Err: appErr}
		}
		return &Result{User: user}
	}

	user, err := c.identity.GetUserByID(ctx, userID)
	if err != nil {
		return &Result{Err: asVerificationError(err, "legacy session user not found")}
	}
	return &Result{User: user}
}

// verifyBearerToken handles "Bearer <token>". Demo-pattern tokens use the
// tighter 24 hour window; anything else is delegated to the provider.
func (c *Cascade) verifyBearerToken(ctx context.Context, h http.Header) *Result {
	authz := h.Get(HeaderAuthorization)
	if !strings.HasPrefix(authz, bearerPrefix) {
		return &Result{Err: errors.NewMissingCredentialError("bearer token not present")}
	}
	token := strings.TrimPrefix(authz, bearerPrefix)
	if token == "" {
		return &Result{Err: errors.NewMalformedCredentialError("empty bearer token")}
	}

	if domain.IsDemoToken(token) {
		user, appErr := SynthesizeFromDemoToken(token, c.now(), c.emailDomain)
		if appErr != nil {
			return &Result{Err: appErr}
		}
		return &Result{User: user}
	}

	user, err := c.identity.VerifyToken(ctx, token)
	if err != nil {
		return &Result{Err: asVerificationError(err, "bearer token rejected")}
	}
	return &Result{User: user}
}

// verifyDemoMarker is the last-resort fallback: an explicit demo flag plus
// a demo-patterned user id.
func (c *Cascade) verifyDemoMarker(ctx context.Context, h http.Header) *Result {
	if !isDemoFlag(h) {
		return &Result{Err: errors.NewMissingCredentialError("demo marker not present")}
	}
	userID := h.Get(HeaderUserID)
	if !domain.IsDemoUserID(userID) {
		return &Result{Err: errors.NewMalformedCredentialError("demo marker without demo user id")}
	}
	user, appErr := SynthesizeDemoUser(userID, DemoSessionWindow, c.now(), c.emailDomain, string(domain.CredentialDemoMarker))
	if appErr != nil {
		return &Result{Err: appErr}
	}
	return &Result{User: user}
}

// diagnose synthesizes the terminal error from which headers were present
// so callers can tell "nothing sent" from "sent but unrecognizable" from
// "recognized but every method failed".
func (c *Cascade) diagnose(h http.Header) *errors.AppError {
	authz := h.Get(HeaderAuthorization)
	sessionID := h.Get(HeaderSessionID)
	userID := h.Get(HeaderUserID)
	demoFlag := h.Get(HeaderIsDemo)

	if authz == "" && sessionID == "" && userID == "" && demoFlag == "" {
		return errors.NewMissingCredentialError("no authentication credentials provided")
	}

	recognizable := strings.HasPrefix(authz, bearerPrefix) ||
		strings.HasPrefix(authz, sessionPrefix) ||
		(sessionID != "" && userID != "") ||
		(isDemoFlag(h) && domain.IsDemoUserID(userID))
	if !recognizable {
		return errors.NewMalformedCredentialError("unrecognized authentication headers")
	}

	return errors.NewMethodsExhaustedError("all authentication methods failed")
}

func isDemoFlag(h http.Header) bool {
	return strings.EqualFold(h.Get(HeaderIsDemo), "true")
}

// isRejection reports whether the strategy understood a credential and
// rejected it for a reason worth surfacing over the generic diagnosis
func isRejection(err *errors.AppError) bool {
	if err == nil {
		return false
	}
	return err.Type == errors.ErrorTypeExpiredCredential || err.Type == errors.ErrorTypeUnknownUser
}

// asVerificationError coerces identity-provider errors into the uniform
// result contract; anything untyped becomes an unknown-user rejection.
func asVerificationError(err error, fallback string) *errors.AppError {
	if appErr, ok := err.(*errors.AppError); ok {
		return appErr
	}
	return errors.NewUnknownUserError(fallback)
}
