package internal

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
)

const tokenRawSize = 24

// NewToken returns a fresh random token: 24 bytes from crypto/rand,
// base64url without padding. 192 bits of entropy keeps guessing infeasible
// within any practical TTL window.
func NewToken() (string, error) {
	var raw [tokenRawSize]byte
	if _, err := rand.Read(raw[:]); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(raw[:]), nil
}

// CheckToken reports whether token has the exact shape NewToken produces.
// It never touches any backend; callers use it as the fast-path filter for
// obviously invalid inputs.
func CheckToken(token string) error {
	raw, err := base64.RawURLEncoding.DecodeString(token)
	if err != nil {
		return err
	}
	if len(raw) != tokenRawSize {
		return errors.New("invalid token size")
	}
	return nil
}
