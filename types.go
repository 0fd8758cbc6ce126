package cookiecache

import (
	"context"
	"time"
)

// Store is the TTL-aware key/value cache collaborator that owns all session
// state. Implementations must keep the three result cases of Get distinct:
// a hit, a clean miss (absent or TTL-expired), and a backend failure. The
// engine never retries; a backend error surfaces immediately as
// [OutcomeErrored] or [ErrStoreUnavailable].
//
// All operations must be individually atomic from the caller's perspective.
// Cross-operation ordering is not coordinated: a Drop racing a Get for the
// same key may observe either order.
type Store interface {
	// Set writes value under key with the given TTL. ttl is always positive;
	// the engine resolves the "0 means policy default" convention before the
	// store is reached.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Get returns the stored value and found=true on a hit, found=false on a
	// clean miss, and a non-nil error only when the backend failed to answer.
	Get(ctx context.Context, key string) (value []byte, found bool, err error)

	// Drop removes key. Dropping an absent key is not an error.
	Drop(ctx context.Context, key string) error
}

// CookieWriter is the per-request cookie transport collaborator. It is
// responsible for signing and wire transmission; the engine only tells it
// which token to carry, never any session content.
type CookieWriter interface {
	SetToken(token string) error
	Clear()
}

// Credentials is the submitted login payload handed to the
// [CredentialChecker] unmodified.
type Credentials struct {
	Username string
	Password string
}

// CheckResult is returned by [CredentialChecker.Check] on acceptance.
// SessionData is the application-defined payload the engine caches verbatim;
// RedirectTo is the post-login target ("" falls back to the configured
// default). TTL of 0 means "use the configured default".
type CheckResult struct {
	SessionData []byte
	RedirectTo  string
	TTL         time.Duration
}

// Rejection is the error value a [CredentialChecker] returns for an expected
// credential failure. RedirectTo optionally names a failure-specific target;
// when empty the engine falls back to the configured login surface (or an
// unauthorized signal, per [RedirectConfig.RejectWithRedirect]).
type Rejection struct {
	Reason     FailureReason
	RedirectTo string
}

// Error implements the error interface so checkers can return a *Rejection
// directly.
func (r *Rejection) Error() string {
	return "login rejected: " + r.Reason.Code()
}

// CredentialChecker validates submitted credentials. It is supplied by the
// embedding application and may perform its own I/O; the engine passes the
// request context through. Expected failures are reported as *[Rejection];
// any other error is treated as checker infrastructure failure.
type CredentialChecker interface {
	Check(ctx context.Context, creds Credentials) (*CheckResult, error)
}

// OutcomeKind defines a public type used by cookiecache APIs.
//
// OutcomeKind instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type OutcomeKind uint8

const (
	// OutcomeUnauthenticated is an exported constant or variable used by the session engine.
	OutcomeUnauthenticated OutcomeKind = iota
	// OutcomeInvalid is an exported constant or variable used by the session engine.
	OutcomeInvalid
	// OutcomeErrored is an exported constant or variable used by the session engine.
	OutcomeErrored
	// OutcomeAuthenticated is an exported constant or variable used by the session engine.
	OutcomeAuthenticated
)

// Outcome is the four-way result of validating a request token.
//
//   - OutcomeUnauthenticated: no token or a structurally malformed one; the
//     store was not contacted.
//   - OutcomeInvalid: a well-formed token with no matching session (expired,
//     dropped, or forged).
//   - OutcomeErrored: the store failed to answer; Err carries the cause.
//   - OutcomeAuthenticated: Session holds exactly the bytes stored at login,
//     unmodified. TTL is not renewed on read.
//
// ClearCookie tells the transport whether the client token should be removed.
// It is set only for OutcomeInvalid: on a store error the cookie is
// preserved so the client can retry once the store recovers, rather than
// being forced through a needless re-login by flapping infrastructure.
type Outcome struct {
	Kind        OutcomeKind
	Session     []byte
	Err         error
	ClearCookie bool
}

// Authenticated reports whether the outcome grants access.
func (o Outcome) Authenticated() bool {
	return o.Kind == OutcomeAuthenticated
}

// LoginStatus defines a public type used by cookiecache APIs.
//
// LoginStatus instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type LoginStatus uint8

const (
	// LoginAccepted is an exported constant or variable used by the session engine.
	LoginAccepted LoginStatus = iota
	// LoginRejected is an exported constant or variable used by the session engine.
	LoginRejected
	// LoginAlreadyAuthenticated is an exported constant or variable used by the session engine.
	LoginAlreadyAuthenticated
)

// LoginRequest is the input for [Engine.Login]. AlreadyAuthenticated must
// reflect the current request's validation outcome; when true the engine
// short-circuits without rotating the existing token. Cookies may be nil, in
// which case the caller is responsible for transporting LoginResult.Token.
type LoginRequest struct {
	Credentials          Credentials
	AlreadyAuthenticated bool
	Cookies              CookieWriter
}

// LoginResult is returned by [Engine.Login]. Token is populated only for
// LoginAccepted; Reason only for LoginRejected. RedirectTo is never empty for
// LoginAccepted and LoginAlreadyAuthenticated; for LoginRejected an empty
// RedirectTo means "signal unauthorized instead of redirecting".
type LoginResult struct {
	Status     LoginStatus
	Token      string
	Reason     FailureReason
	RedirectTo string
}

// LogoutRequest is the input for [Engine.Logout]. Token may be empty or
// malformed (the client is always allowed to log out locally); Cookies may be
// nil when the caller clears the cookie itself.
type LogoutRequest struct {
	Token            string
	RedirectOverride string
	Cookies          CookieWriter
}

// LogoutResult is returned by [Engine.Logout]. DropErr records a best-effort
// store drop failure; the orphaned entry self-expires via its TTL and the
// logout still completes.
type LogoutResult struct {
	RedirectTo string
	DropErr    error
}
