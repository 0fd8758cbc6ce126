package cookiecache

import "errors"

var (
	// ErrStoreUnavailable is an exported constant or variable used by the session engine.
	ErrStoreUnavailable = errors.New("session store unavailable")
	// ErrCheckerUnavailable is an exported constant or variable used by the session engine.
	ErrCheckerUnavailable = errors.New("credential checker unavailable")
	// ErrLoginRateLimited is an exported constant or variable used by the session engine.
	ErrLoginRateLimited = errors.New("login rate limited")
	// ErrEmptyRedirect is an exported constant or variable used by the session engine.
	ErrEmptyRedirect = errors.New("redirect target cannot be an empty string")
	// ErrCookieWriteFailed is an exported constant or variable used by the session engine.
	ErrCookieWriteFailed = errors.New("cookie write failed")
	// ErrTokenGeneration is an exported constant or variable used by the session engine.
	ErrTokenGeneration = errors.New("token generation failed")
	// ErrEngineNotReady is an exported constant or variable used by the session engine.
	ErrEngineNotReady = errors.New("engine not initialized")
	// ErrBuilderUsed is an exported constant or variable used by the session engine.
	ErrBuilderUsed = errors.New("builder already used")
)
