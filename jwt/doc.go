// Package jwt wraps github.com/golang-jwt/jwt/v5 behind a small manager
// that pins the signing algorithm, enforces issuer/audience/expiry claims,
// and supports verification-key rotation via kid lookup.
package jwt
