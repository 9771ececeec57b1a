// Package lockout implements the brute-force lockout state machine as a
// pure function of (attempts, lock deadline, now). It holds no storage and
// takes no locks; the engine persists transitions through the user store.
package lockout
