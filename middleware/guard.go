// Package middleware wires the session engine and the cookie transport into
// net/http handlers: a route guard plus ready-made login and logout
// endpoints. Applications that need different HTTP behavior can call the
// engine directly; nothing here is required.
package middleware

import (
	"context"
	"net"
	"net/http"

	"github.com/valeles/cookiecache"
	"github.com/valeles/cookiecache/transport"
)

type sessionContextKey struct{}
type tokenContextKey struct{}

// SessionFromContext returns the session payload injected by [Guard] for an
// authenticated request.
func SessionFromContext(ctx context.Context) ([]byte, bool) {
	session, ok := ctx.Value(sessionContextKey{}).([]byte)
	return session, ok
}

// TokenFromContext returns the validated session token injected by [Guard].
func TokenFromContext(ctx context.Context) (string, bool) {
	token, ok := ctx.Value(tokenContextKey{}).(string)
	return token, ok
}

// cookieWriter adapts a response writer and codec pair to the engine's
// per-request cookie collaborator.
type cookieWriter struct {
	codec *transport.Codec
	w     http.ResponseWriter
}

func (c cookieWriter) SetToken(token string) error {
	return c.codec.SetToken(c.w, token)
}

func (c cookieWriter) Clear() {
	c.codec.Clear(c.w)
}

// Guard protects routes behind an authenticated session. Requests whose
// token validates are forwarded with the session payload and token on the
// request context; everything else is redirected to the configured login
// surface.
//
// An invalid token (expired or dropped session) also clears the client
// cookie and annotates the redirect with a session-expired reason. A store
// failure denies access but keeps the cookie, so the client recovers without
// re-login once the store does.
func Guard(engine *cookiecache.Engine, codec *transport.Codec) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, present := codec.ReadToken(r)

			outcome := engine.Validate(requestContext(r), token)
			if outcome.Authenticated() {
				ctx := context.WithValue(r.Context(), sessionContextKey{}, outcome.Session)
				ctx = context.WithValue(ctx, tokenContextKey{}, token)
				next.ServeHTTP(w, r.WithContext(ctx))
				return
			}

			if outcome.ClearCookie {
				codec.Clear(w)
			}

			target := engine.Config().Redirect.LoginPath
			if outcome.Kind == cookiecache.OutcomeInvalid && present {
				target += "?reason=" + cookiecache.ReasonSessionExpired.Code()
			}
			http.Redirect(w, r, target, http.StatusSeeOther)
		})
	}
}

// requestContext enriches the request context with the client IP and
// User-Agent for throttling and audit.
func requestContext(r *http.Request) context.Context {
	ctx := r.Context()

	ip := r.RemoteAddr
	if host, _, err := net.SplitHostPort(ip); err == nil {
		ip = host
	}
	ctx = cookiecache.WithClientIP(ctx, ip)

	if ua := r.UserAgent(); ua != "" {
		ctx = cookiecache.WithUserAgent(ctx, ua)
	}
	return ctx
}
