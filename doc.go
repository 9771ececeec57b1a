// Package credlock provides a credential lifecycle engine: JWT access
// tokens, opaque refresh tokens, a Redis-backed revocation ledger, and
// brute-force lockout on the identity record.
//
// The package is designed for concurrent server workloads: Engine methods
// are safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// credlock is the public surface. It exposes [Engine], [Builder], [Config],
// the collaborator interfaces ([UserStore], [PasswordVerifier]), and value
// types (TokenPair, AuthResult, MetricsSnapshot). Token signing lives in
// jwt/, ledger access in revocation/, hashing in password/; lockout state
// transitions live under internal/ and are never exported.
//
// # What this package must NOT do
//
//   - Expose Redis clients or ledger key formats in its public API.
//   - Store identity records; the caller owns persistence behind [UserStore].
//   - Perform I/O outside of Engine methods (construction via Builder is
//     allocation-only until Build).
//
// # Performance contract
//
// Authenticate is the hot path. It performs exactly one Redis round-trip
// (the ledger check) plus a local signature verification. Login, Refresh,
// and Logout are allowed store writes and additional ledger writes.
package credlock
