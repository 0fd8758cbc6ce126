package cookiecache

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// Logout runs the logout flow. The client-side token is cleared before the
// store is consulted, so a client can always log out locally even when the
// store is unreachable. The session drop is best-effort: a failure is
// recorded in [LogoutResult.DropErr] and the orphaned entry self-expires via
// its TTL instead of blocking the redirect.
//
// Logout is idempotent: running it again with the same token leaves the same
// observable state (no session, no cookie) and does not error.
//
// Logout may return an error when input validation, dependency calls, or security checks fail.
// Logout does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Logout(ctx context.Context, req LogoutRequest) (LogoutResult, error) {
	if e == nil || e.store == nil {
		return LogoutResult{}, ErrEngineNotReady
	}

	// A blank per-request override is ignored, not an error; the configured
	// default is the error case (it is validated at Build, so an empty
	// resolution here is an implementation fault).
	target := strings.TrimSpace(e.config.Redirect.LogoutRedirectDefault)
	if override := strings.TrimSpace(req.RedirectOverride); override != "" {
		target = override
	}
	if target == "" {
		return LogoutResult{}, ErrEmptyRedirect
	}

	if req.Cookies != nil {
		req.Cookies.Clear()
	}

	result := LogoutResult{RedirectTo: target}

	// Only tokens that could name a cache entry are worth a Drop round-trip.
	if e.issuer.WellFormed(req.Token) {
		if err := e.store.Drop(ctx, e.sessionKey(req.Token)); err != nil {
			result.DropErr = fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
			e.metricInc(MetricLogoutDropFailed)
			log.Print("cookiecache: session drop failed during logout")
		} else {
			e.metricInc(MetricSessionInvalidated)
		}
	}

	e.metricInc(MetricLogout)
	e.emitAudit(ctx, auditEventLogout, result.DropErr == nil, req.Token, result.DropErr, nil)

	return result, nil
}
