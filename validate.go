package cookiecache

import (
	"context"
	"fmt"
	"log"
)

// Validate is the per-request authentication decision. It maps the inbound
// token to one of the four [Outcome] kinds.
//
// Absent or structurally malformed tokens short-circuit to
// [OutcomeUnauthenticated] without touching the store, keeping obviously
// invalid input off the cache. A store failure is reported as
// [OutcomeErrored] and is never downgraded to a false-negative
// [OutcomeInvalid]; the access-control layer must treat it as
// unauthenticated but keep the client's cookie (Outcome.ClearCookie stays
// false).
//
// The returned session bytes are exactly what login stored. The TTL is not
// renewed on read.
//
// Validate does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Validate(ctx context.Context, token string) Outcome {
	if e == nil || e.store == nil {
		return Outcome{Kind: OutcomeErrored, Err: ErrEngineNotReady}
	}

	if !e.issuer.WellFormed(token) {
		e.metricInc(MetricValidateUnauthenticated)
		return Outcome{Kind: OutcomeUnauthenticated}
	}

	value, found, err := e.store.Get(ctx, e.sessionKey(token))
	if err != nil {
		wrapped := fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		e.metricInc(MetricValidateErrored)
		e.emitAudit(ctx, auditEventValidateError, false, token, wrapped, nil)
		log.Print("cookiecache: session store read failed during validation")
		return Outcome{Kind: OutcomeErrored, Err: wrapped}
	}

	if !found {
		// Absent and TTL-expired are indistinguishable at the store; both
		// mean the token no longer names a session.
		e.metricInc(MetricValidateInvalid)
		return Outcome{Kind: OutcomeInvalid, ClearCookie: true}
	}

	e.metricInc(MetricValidateAuthenticated)
	return Outcome{Kind: OutcomeAuthenticated, Session: value}
}
