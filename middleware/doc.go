// Package middleware exposes HTTP adapters built on top of
// credlock.Engine.Authenticate.
//
// # Guards
//
//   - [Guard] — bearer-credential verification on every request.
//   - [RequireRole] — role check on claims injected by [Guard].
//
// Each guard reads the Authorization header, calls Engine.Authenticate, and
// injects the verified claims into the request context.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into Engine calls. It does NOT
// implement verification logic itself — all decisions are delegated to
// Engine.Authenticate.
package middleware
