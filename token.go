package cookiecache

import (
	"github.com/google/uuid"

	"github.com/valeles/cookiecache/internal"
)

// TokenIssuer mints the opaque identifiers that name sessions. Tokens are
// drawn from crypto/rand (or UUID v4, per strategy) and are never derived
// from session content, timestamps alone, or counters. Issue has no
// observable side effect beyond randomness consumption.
type TokenIssuer struct {
	strategy TokenStrategy
}

// NewTokenIssuer creates a [TokenIssuer] for the given strategy.
func NewTokenIssuer(strategy TokenStrategy) TokenIssuer {
	return TokenIssuer{strategy: strategy}
}

// Issue returns a fresh token.
func (t TokenIssuer) Issue() (string, error) {
	switch t.strategy {
	case TokenUUID:
		id, err := uuid.NewRandom()
		if err != nil {
			return "", err
		}
		return id.String(), nil
	default:
		return internal.NewToken()
	}
}

// WellFormed reports whether token is structurally a value this issuer could
// have produced. The validator uses it to short-circuit before any store
// access; it proves nothing about whether a session exists.
func (t TokenIssuer) WellFormed(token string) bool {
	if token == "" {
		return false
	}
	switch t.strategy {
	case TokenUUID:
		id, err := uuid.Parse(token)
		return err == nil && id.Version() == 4
	default:
		return internal.CheckToken(token) == nil
	}
}
