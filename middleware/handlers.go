package middleware

import (
	"errors"
	"net/http"

	"github.com/valeles/cookiecache"
	"github.com/valeles/cookiecache/transport"
)

// LoginHandler serves POST login submissions from a standard HTML form with
// "username" and "password" fields. Accepted logins receive the session
// cookie and a redirect; rejected ones are redirected back to the login
// surface with a reason code, or answered 401 when the engine resolves no
// redirect target.
//
// A request that already carries a valid session short-circuits to the
// post-login redirect without rotating its token.
func LoginHandler(engine *cookiecache.Engine, codec *transport.Codec) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		if err := r.ParseForm(); err != nil {
			http.Error(w, "malformed form", http.StatusBadRequest)
			return
		}

		ctx := requestContext(r)

		already := false
		if token, ok := codec.ReadToken(r); ok {
			already = engine.Validate(ctx, token).Authenticated()
		}

		result, err := engine.Login(ctx, cookiecache.LoginRequest{
			Credentials: cookiecache.Credentials{
				Username: r.PostFormValue("username"),
				Password: r.PostFormValue("password"),
			},
			AlreadyAuthenticated: already,
			Cookies:              cookieWriter{codec: codec, w: w},
		})
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, cookiecache.ErrLoginRateLimited):
				status = http.StatusTooManyRequests
			case errors.Is(err, cookiecache.ErrStoreUnavailable),
				errors.Is(err, cookiecache.ErrCheckerUnavailable):
				status = http.StatusServiceUnavailable
			}
			http.Error(w, "login failed", status)
			return
		}

		if result.Status == cookiecache.LoginRejected {
			if result.RedirectTo == "" {
				http.Error(w, cookiecache.ReasonMessage(result.Reason), http.StatusUnauthorized)
				return
			}
			http.Redirect(w, r, result.RedirectTo+"?reason="+result.Reason.Code(), http.StatusSeeOther)
			return
		}

		http.Redirect(w, r, result.RedirectTo, http.StatusSeeOther)
	})
}

// LogoutHandler serves GET logout requests. The cookie is cleared even when
// the backing store cannot drop the session; an optional "redirect_to" query
// parameter overrides the configured post-logout target.
func LogoutHandler(engine *cookiecache.Engine, codec *transport.Codec) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.Header().Set("Allow", http.MethodGet)
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}

		token, _ := codec.ReadToken(r)

		result, err := engine.Logout(requestContext(r), cookiecache.LogoutRequest{
			Token:            token,
			RedirectOverride: r.URL.Query().Get("redirect_to"),
			Cookies:          cookieWriter{codec: codec, w: w},
		})
		if err != nil {
			http.Error(w, "logout failed", http.StatusInternalServerError)
			return
		}

		http.Redirect(w, r, result.RedirectTo, http.StatusSeeOther)
	})
}
