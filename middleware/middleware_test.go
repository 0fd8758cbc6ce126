package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/valeles/cookiecache"
	"github.com/valeles/cookiecache/memstore"
	"github.com/valeles/cookiecache/transport"
)

type testChecker struct{}

func (testChecker) Check(_ context.Context, creds cookiecache.Credentials) (*cookiecache.CheckResult, error) {
	if creds.Username == "" || creds.Password == "" {
		return nil, &cookiecache.Rejection{Reason: cookiecache.ReasonMissingCredentials}
	}
	if creds.Username != "john" || creds.Password != "secret" {
		return nil, &cookiecache.Rejection{Reason: cookiecache.ReasonWrongCredential}
	}
	return &cookiecache.CheckResult{SessionData: []byte("john-session")}, nil
}

func newTestStack(t *testing.T, store cookiecache.Store) (*cookiecache.Engine, *transport.Codec) {
	t.Helper()
	if store == nil {
		store = memstore.New()
	}
	engine, err := cookiecache.New().
		WithStore(store).
		WithCredentialChecker(testChecker{}).
		Build()
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	t.Cleanup(engine.Close)

	codec, err := transport.NewCodec(transport.Config{
		Secret: []byte("0123456789abcdef0123456789abcdef"),
	})
	if err != nil {
		t.Fatalf("NewCodec: %v", err)
	}
	return engine, codec
}

func postLogin(t *testing.T, handler http.Handler, username, password string) *httptest.ResponseRecorder {
	t.Helper()
	form := url.Values{"username": {username}, "password": {password}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func sessionCookie(t *testing.T, rec *httptest.ResponseRecorder) *http.Cookie {
	t.Helper()
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			return c
		}
	}
	t.Fatal("no session cookie in response")
	return nil
}

func TestLoginGuardLogoutFlow(t *testing.T) {
	engine, codec := newTestStack(t, nil)

	// Login.
	rec := postLogin(t, LoginHandler(engine, codec), "john", "secret")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("login status = %d, want 303", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/" {
		t.Fatalf("login redirect = %q, want /", got)
	}
	cookie := sessionCookie(t, rec)

	// Guarded request with the cookie.
	var gotSession []byte
	var gotToken string
	guarded := Guard(engine, codec)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSession, _ = SessionFromContext(r.Context())
		gotToken, _ = TokenFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("guarded status = %d, want 200", rec.Code)
	}
	if string(gotSession) != "john-session" {
		t.Fatalf("session payload = %q", gotSession)
	}
	if gotToken == "" {
		t.Fatal("token missing from request context")
	}

	// Logout.
	req = httptest.NewRequest(http.MethodGet, "/logout", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	LogoutHandler(engine, codec).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("logout status = %d, want 303", rec.Code)
	}
	cleared := false
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" && c.MaxAge < 0 {
			cleared = true
		}
	}
	if !cleared {
		t.Fatal("logout did not clear the session cookie")
	}

	// The old cookie no longer authenticates.
	req = httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(cookie)
	rec = httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("post-logout guarded status = %d, want redirect", rec.Code)
	}
	if got := rec.Header().Get("Location"); !strings.Contains(got, "reason=session-expired") {
		t.Fatalf("post-logout redirect = %q, want session-expired reason", got)
	}
}

func TestGuardWithoutCookieRedirects(t *testing.T) {
	engine, codec := newTestStack(t, nil)

	guarded := Guard(engine, codec)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler reached without a session")
	}))

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/login" {
		t.Fatalf("redirect = %q, want /login (no reason annotation)", got)
	}
	if len(rec.Result().Cookies()) != 0 {
		t.Fatal("no cookie was presented, none should be cleared")
	}
}

type failingStore struct{}

func (failingStore) Set(context.Context, string, []byte, time.Duration) error {
	return errors.New("connection refused")
}

func (failingStore) Get(context.Context, string) ([]byte, bool, error) {
	return nil, false, errors.New("connection refused")
}

func (failingStore) Drop(context.Context, string) error {
	return errors.New("connection refused")
}

func TestGuardStoreFailureKeepsCookie(t *testing.T) {
	engine, codec := newTestStack(t, failingStore{})

	guarded := Guard(engine, codec)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		t.Fatal("handler reached during store outage")
	}))

	// A structurally valid token whose lookup will fail.
	healthy, healthyCodec := newTestStack(t, nil)
	login := postLogin(t, LoginHandler(healthy, healthyCodec), "john", "secret")
	cookie := sessionCookie(t, login)

	req := httptest.NewRequest(http.MethodGet, "/private", nil)
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	guarded.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" && c.MaxAge < 0 {
			t.Fatal("store outage must not clear the client cookie")
		}
	}
}

func TestLoginHandlerRejectedRedirectsWithReason(t *testing.T) {
	engine, codec := newTestStack(t, nil)

	rec := postLogin(t, LoginHandler(engine, codec), "john", "wrong")
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	want := "/login?reason=" + cookiecache.ReasonWrongCredential.Code()
	if got := rec.Header().Get("Location"); got != want {
		t.Fatalf("redirect = %q, want %q", got, want)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			t.Fatal("rejected login must not set a session cookie")
		}
	}
}

func TestLoginHandlerRejectsWrongMethod(t *testing.T) {
	engine, codec := newTestStack(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/login", nil)
	rec := httptest.NewRecorder()
	LoginHandler(engine, codec).ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}

func TestLoginHandlerStoreOutageIs503(t *testing.T) {
	engine, codec := newTestStack(t, failingStore{})

	rec := postLogin(t, LoginHandler(engine, codec), "john", "secret")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
}

func TestLoginHandlerAlreadyAuthenticated(t *testing.T) {
	engine, codec := newTestStack(t, nil)
	handler := LoginHandler(engine, codec)

	first := postLogin(t, handler, "john", "secret")
	cookie := sessionCookie(t, first)

	form := url.Values{"username": {"john"}, "password": {"secret"}}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	for _, c := range rec.Result().Cookies() {
		if c.Name == "session" && c.Value != "" {
			t.Fatal("already-authenticated login must not rotate the cookie")
		}
	}
}

func TestLogoutHandlerRedirectOverride(t *testing.T) {
	engine, codec := newTestStack(t, nil)

	req := httptest.NewRequest(http.MethodGet, "/logout?redirect_to=%2Fgoodbye", nil)
	rec := httptest.NewRecorder()
	LogoutHandler(engine, codec).ServeHTTP(rec, req)

	if rec.Code != http.StatusSeeOther {
		t.Fatalf("status = %d, want 303", rec.Code)
	}
	if got := rec.Header().Get("Location"); got != "/goodbye" {
		t.Fatalf("redirect = %q, want /goodbye", got)
	}
}

func TestLogoutHandlerRejectsWrongMethod(t *testing.T) {
	engine, codec := newTestStack(t, nil)

	req := httptest.NewRequest(http.MethodPost, "/logout", nil)
	rec := httptest.NewRecorder()
	LogoutHandler(engine, codec).ServeHTTP(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d, want 405", rec.Code)
	}
}
