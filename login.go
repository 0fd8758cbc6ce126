package cookiecache

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"github.com/valeles/cookiecache/internal/rate"
)

// Login runs the login flow: credential validation via the external
// [CredentialChecker], token minting, session creation, and the redirect
// decision.
//
// An already-authenticated request short-circuits without re-validating or
// rotating the existing token, so repeated login attempts can never fixate
// or mutate a live session. A rejected login mutates nothing. On acceptance
// a fresh token is minted — never reused from any cookie on the request —
// and the cookie is updated only after the session write succeeds; a write
// failure surfaces [ErrStoreUnavailable] and leaves the client without a
// token pointing nowhere.
//
// Login may return an error when input validation, dependency calls, or security checks fail.
// Login does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func (e *Engine) Login(ctx context.Context, req LoginRequest) (LoginResult, error) {
	if e == nil || e.checker == nil || e.store == nil {
		return LoginResult{}, ErrEngineNotReady
	}

	if req.AlreadyAuthenticated {
		e.metricInc(MetricLoginAlreadyAuthenticated)
		return LoginResult{
			Status:     LoginAlreadyAuthenticated,
			RedirectTo: e.config.Redirect.LoginRedirectDefault,
		}, nil
	}

	identifier := req.Credentials.Username
	ip := clientIPFromContext(ctx)

	if e.limiter != nil {
		if err := e.limiter.Check(ctx, identifier, ip); err != nil {
			e.metricInc(MetricLoginRateLimited)
			e.emitAudit(ctx, auditEventLoginRateLimited, false, "", ErrLoginRateLimited, func() map[string]string {
				return map[string]string{
					"identifier": identifier,
				}
			})
			return LoginResult{}, ErrLoginRateLimited
		}
	}

	result, err := e.checker.Check(ctx, req.Credentials)
	if err != nil {
		var rejection *Rejection
		if errors.As(err, &rejection) {
			return e.rejectLogin(ctx, identifier, ip, rejection)
		}
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", err, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
				"reason":     "checker_error",
			}
		})
		return LoginResult{}, fmt.Errorf("%w: %v", ErrCheckerUnavailable, err)
	}
	if result == nil {
		e.metricInc(MetricLoginFailure)
		return LoginResult{}, fmt.Errorf("%w: checker returned no result", ErrCheckerUnavailable)
	}

	target, err := resolveTarget(result.RedirectTo, e.config.Redirect.LoginRedirectDefault)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		return LoginResult{}, err
	}

	token, err := e.issuer.Issue()
	if err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, "", err, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
				"reason":     "token_generation",
			}
		})
		return LoginResult{}, fmt.Errorf("%w: %v", ErrTokenGeneration, err)
	}

	if err := e.store.Set(ctx, e.sessionKey(token), result.SessionData, e.resolveTTL(result.TTL)); err != nil {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, auditEventLoginFailure, false, token, err, func() map[string]string {
			return map[string]string{
				"identifier": identifier,
				"reason":     "session_save_failed",
			}
		})
		return LoginResult{}, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if req.Cookies != nil {
		if err := req.Cookies.SetToken(token); err != nil {
			// The client never received the token, so the fresh session is
			// unreachable; remove it rather than leave it to expire.
			if dropErr := e.store.Drop(ctx, e.sessionKey(token)); dropErr != nil {
				log.Print("cookiecache: session cleanup failed after cookie write error")
			}
			e.metricInc(MetricLoginFailure)
			e.emitAudit(ctx, auditEventLoginFailure, false, token, err, func() map[string]string {
				return map[string]string{
					"identifier": identifier,
					"reason":     "cookie_write_failed",
				}
			})
			return LoginResult{}, fmt.Errorf("%w: %v", ErrCookieWriteFailed, err)
		}
	}

	if e.limiter != nil {
		// Limiter reset is best-effort and must not block a successful login.
		if err := e.limiter.Reset(ctx, identifier, ip); err != nil {
			log.Print("cookiecache: login limiter reset failed")
		}
	}

	e.metricInc(MetricSessionCreated)
	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, auditEventLoginSuccess, true, token, nil, func() map[string]string {
		return map[string]string{
			"identifier": identifier,
		}
	})

	return LoginResult{
		Status:     LoginAccepted,
		Token:      token,
		RedirectTo: target,
	}, nil
}

func (e *Engine) rejectLogin(ctx context.Context, identifier, ip string, rejection *Rejection) (LoginResult, error) {
	if e.limiter != nil {
		if err := e.limiter.Increment(ctx, identifier, ip); err != nil {
			if errors.Is(err, rate.ErrRateLimited) {
				e.metricInc(MetricLoginRateLimited)
				e.emitAudit(ctx, auditEventLoginRateLimited, false, "", ErrLoginRateLimited, func() map[string]string {
					return map[string]string{
						"identifier": identifier,
					}
				})
				return LoginResult{}, ErrLoginRateLimited
			}
			log.Print("cookiecache: login limiter increment failed")
		}
	}

	target, err := rejectionTarget(rejection.RedirectTo, e.config.Redirect)
	if err != nil {
		e.metricInc(MetricLoginFailure)
		return LoginResult{}, err
	}

	e.metricInc(MetricLoginRejected)
	e.emitAudit(ctx, auditEventLoginRejected, false, "", nil, func() map[string]string {
		return map[string]string{
			"identifier": identifier,
			"reason":     rejection.Reason.Code(),
		}
	})

	return LoginResult{
		Status:     LoginRejected,
		Reason:     rejection.Reason,
		RedirectTo: target,
	}, nil
}

// resolveTarget applies the redirect resolution order: explicit value beats
// the configured fallback. A value that is present but blank is an
// implementation fault, not a redirect.
func resolveTarget(explicit, fallback string) (string, error) {
	if explicit != "" {
		if strings.TrimSpace(explicit) == "" {
			return "", ErrEmptyRedirect
		}
		return strings.TrimSpace(explicit), nil
	}
	fallback = strings.TrimSpace(fallback)
	if fallback == "" {
		return "", ErrEmptyRedirect
	}
	return fallback, nil
}

// rejectionTarget resolves where a rejected login should send the client:
// the checker's failure-specific target if any, else the login surface when
// RejectWithRedirect is set, else "" meaning "signal unauthorized".
func rejectionTarget(explicit string, cfg RedirectConfig) (string, error) {
	if explicit != "" {
		if strings.TrimSpace(explicit) == "" {
			return "", ErrEmptyRedirect
		}
		return strings.TrimSpace(explicit), nil
	}
	if cfg.RejectWithRedirect {
		return cfg.LoginPath, nil
	}
	return "", nil
}
