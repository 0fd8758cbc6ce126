// Package transport implements the reference cookie transport: a signed
// envelope that carries the session token — and only the token — between
// server and client. The envelope is an HS256-signed claim set; tampering
// with it yields "no token presented", never a forged identifier reaching
// the store.
package transport

import (
	"errors"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const minSecretLen = 32

// Config holds cookie transport settings. CookieName and TokenField default
// to "session" and "token"; Secret is required and must carry at least 32
// bytes.
type Config struct {
	CookieName string
	TokenField string
	Secret     []byte

	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

func (c Config) normalize() Config {
	if c.CookieName == "" {
		c.CookieName = "session"
	}
	if c.TokenField == "" {
		c.TokenField = "token"
	}
	if c.Path == "" {
		c.Path = "/"
	}
	if c.SameSite == 0 {
		c.SameSite = http.SameSiteLaxMode
	}
	return c
}

// Codec signs and verifies the cookie envelope and issues/clears the cookie
// on HTTP responses.
//
// Codec instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Codec struct {
	cfg Config
}

// NewCodec creates a [Codec] from cfg.
func NewCodec(cfg Config) (*Codec, error) {
	cfg = cfg.normalize()
	if len(cfg.Secret) < minSecretLen {
		return nil, errors.New("cookie secret must be at least 32 bytes")
	}
	return &Codec{cfg: cfg}, nil
}

// Encode signs an envelope carrying only the token field.
func (c *Codec) Encode(token string) (string, error) {
	claims := jwt.MapClaims{
		c.cfg.TokenField: token,
		"iat":            jwt.NewNumericDate(time.Now()),
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.cfg.Secret)
}

// Decode verifies an envelope and extracts the token. Any signature,
// structure, or field problem is reported as an error; callers treat that
// as "no token presented".
func (c *Codec) Decode(value string) (string, error) {
	parsed, err := jwt.Parse(value, func(*jwt.Token) (any, error) {
		return c.cfg.Secret, nil
	}, jwt.WithValidMethods([]string{"HS256"}))
	if err != nil {
		return "", err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return "", errors.New("unexpected claims type")
	}
	token, ok := claims[c.cfg.TokenField].(string)
	if !ok || token == "" {
		return "", errors.New("token field missing")
	}
	return token, nil
}

// SetToken issues the session cookie carrying the signed envelope. The
// cookie itself has no Max-Age: session lifetime is governed server-side by
// the store TTL, and a stale cookie simply validates as invalid.
func (c *Codec) SetToken(w http.ResponseWriter, token string) error {
	value, err := c.Encode(token)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     c.cfg.CookieName,
		Value:    value,
		Path:     c.cfg.Path,
		Domain:   c.cfg.Domain,
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: c.cfg.SameSite,
	})
	return nil
}

// Clear removes the session cookie from the client.
func (c *Codec) Clear(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     c.cfg.CookieName,
		Value:    "",
		Path:     c.cfg.Path,
		Domain:   c.cfg.Domain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.cfg.Secure,
		SameSite: c.cfg.SameSite,
	})
}

// ReadToken extracts and verifies the token from the request cookie.
// ok is false when the cookie is absent or the envelope fails verification.
func (c *Codec) ReadToken(r *http.Request) (token string, ok bool) {
	cookie, err := r.Cookie(c.cfg.CookieName)
	if err != nil || cookie.Value == "" {
		return "", false
	}

	token, err = c.Decode(cookie.Value)
	if err != nil {
		return "", false
	}
	return token, true
}
