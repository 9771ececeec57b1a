// Package revocation implements the revocation ledger on Redis TTL keys.
// Logout writes both surrendered credentials here at their true expiries;
// every access-credential verification consults it.
package revocation
