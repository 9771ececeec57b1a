// Package password provides the default argon2id password verifier used by
// the engine when the host does not supply its own capability.
package password
