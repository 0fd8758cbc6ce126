// Package cookiecache provides server-side session authentication backed by
// an opaque cookie token and a TTL-aware key/value cache. The client holds
// only a random identifier; the session payload (identity, claims, display
// attributes) lives exclusively in the server-managed cache keyed by that
// identifier.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// cookiecache is the public surface. It exposes [Engine], [Builder], [Config],
// the collaborator interfaces ([Store], [CredentialChecker], [CookieWriter]),
// and value types (Outcome, LoginResult, FailureReason). Store adapters live
// in redistore and memstore; the signed cookie envelope lives in transport;
// the HTTP handler contracts live in middleware.
//
// # What this package must NOT do
//
//   - Place session content inside the cookie. The cookie carries the token
//     and nothing else.
//   - Check credentials. Credential validation is delegated to the
//     [CredentialChecker] supplied by the embedding application.
//   - Collapse "session absent" and "store unavailable" into one case. The
//     four-way [Outcome] preserves the distinction on every validation.
//
// # Security contract
//
// Tokens are minted fresh on every accepted login (session fixation defense),
// are never derived from session content or counters, and carry at least 128
// bits of entropy under the default [TokenRandom] strategy. A failed login
// never touches the store. The cookie is only updated after the session write
// succeeds (fail closed, no orphaned client-side token).
package cookiecache
