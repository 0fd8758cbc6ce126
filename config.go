package cookiecache

import (
	"errors"
	"strings"
	"time"
)

// Config defines a public type used by cookiecache APIs.
//
// Config instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type Config struct {
	Cookie   CookieConfig
	Session  SessionConfig
	Redirect RedirectConfig
	Security SecurityConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
COOKIE CONFIG
====================================
*/

// CookieConfig names the cookie and the payload field that carries the token.
// The transport layer consumes these values; the engine itself never reads or
// writes cookies.
type CookieConfig struct {
	Name       string
	TokenField string
}

/*
====================================
SESSION CONFIG
====================================
*/

// TokenStrategy defines a public type used by cookiecache APIs.
//
// TokenStrategy instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type TokenStrategy int

const (
	// TokenRandom issues 24 bytes from crypto/rand, base64url-encoded
	// (192 bits of entropy). Default.
	TokenRandom TokenStrategy = iota
	// TokenUUID issues UUID v4 identifiers. Retained for caches keyed by v4
	// IDs from earlier deployments; note v4 carries 122 random bits, below
	// the 128-bit floor TokenRandom guarantees.
	TokenUUID
)

// SessionConfig defines a public type used by cookiecache APIs.
//
// SessionConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SessionConfig struct {
	// CacheSegment namespaces this engine's keys inside the shared store.
	CacheSegment string
	// DefaultTTL applies when a login's CheckResult carries TTL 0. Fixed at
	// creation; validation never renews it (no sliding expiration).
	DefaultTTL    time.Duration
	TokenStrategy TokenStrategy
}

/*
====================================
REDIRECT CONFIG
====================================
*/

// RedirectConfig enumerates the redirect surface. Per-request overrides beat
// these defaults; a resolved empty target is a configuration error, never a
// redirect.
type RedirectConfig struct {
	LoginPath             string
	LogoutPath            string
	LoginRedirectDefault  string
	LogoutRedirectDefault string
	// RejectWithRedirect sends rejected logins back to LoginPath with a
	// reason code; when false the engine signals unauthorized instead.
	RejectWithRedirect bool
}

/*
====================================
SECURITY CONFIG
====================================
*/

// SecurityConfig defines a public type used by cookiecache APIs.
//
// SecurityConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type SecurityConfig struct {
	EnableLoginThrottle bool
	EnableIPThrottle    bool
	MaxLoginAttempts    int
	LoginCooldown       time.Duration
}

// AuditConfig defines a public type used by cookiecache APIs.
//
// AuditConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig defines a public type used by cookiecache APIs.
//
// MetricsConfig instances are intended to be configured during initialization and then treated as immutable unless documented otherwise.
type MetricsConfig struct {
	Enabled bool
}

func defaultConfig() Config {
	return Config{
		Cookie: CookieConfig{
			Name:       "session",
			TokenField: "token",
		},
		Session: SessionConfig{
			CacheSegment:  "cookiecache",
			DefaultTTL:    30 * time.Minute,
			TokenStrategy: TokenRandom,
		},
		Redirect: RedirectConfig{
			LoginPath:             "/login",
			LogoutPath:            "/logout",
			LoginRedirectDefault:  "/",
			LogoutRedirectDefault: "/",
			RejectWithRedirect:    true,
		},
		Security: SecurityConfig{
			EnableLoginThrottle: false,
			EnableIPThrottle:    false,
			MaxLoginAttempts:    10,
			LoginCooldown:       15 * time.Minute,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}

func cloneConfig(cfg Config) Config {
	// All fields are value types; a shallow copy is a full copy.
	return cfg
}

// Validate checks the configuration for fatal startup errors. Every failure
// here is a ConfigurationError: it is reported once at Build and never
// recovered at request time.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Cookie.Name) == "" {
		return errors.New("Cookie.Name must not be empty")
	}
	if strings.TrimSpace(c.Cookie.TokenField) == "" {
		return errors.New("Cookie.TokenField must not be empty")
	}
	if strings.TrimSpace(c.Session.CacheSegment) == "" {
		return errors.New("Session.CacheSegment must not be empty")
	}
	if c.Session.DefaultTTL <= 0 {
		return errors.New("Session.DefaultTTL must be positive")
	}
	switch c.Session.TokenStrategy {
	case TokenRandom, TokenUUID:
	default:
		return errors.New("Session.TokenStrategy is not a known strategy")
	}
	if !strings.HasPrefix(c.Redirect.LoginPath, "/") {
		return errors.New("Redirect.LoginPath must start with /")
	}
	if !strings.HasPrefix(c.Redirect.LogoutPath, "/") {
		return errors.New("Redirect.LogoutPath must start with /")
	}
	if strings.TrimSpace(c.Redirect.LoginRedirectDefault) == "" {
		return errors.New("Redirect.LoginRedirectDefault must not be empty")
	}
	if strings.TrimSpace(c.Redirect.LogoutRedirectDefault) == "" {
		return errors.New("Redirect.LogoutRedirectDefault must not be empty")
	}
	if c.Security.EnableLoginThrottle {
		if c.Security.MaxLoginAttempts <= 0 {
			return errors.New("Security.MaxLoginAttempts must be positive when throttling is enabled")
		}
		if c.Security.LoginCooldown <= 0 {
			return errors.New("Security.LoginCooldown must be positive when throttling is enabled")
		}
	}
	return nil
}
