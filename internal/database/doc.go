// Package database provides SQLite-based storage for SmartPass.
//
// The Store keeps two tables:
//   - passwords__list: generated credentials (plaintext, ciphertext, key, IV, digest)
//   - attack_results: every attack run with its outcome, for history and auditing
//
// SQLite is accessed through modernc.org/sqlite, a CGO-free driver, so the
// whole store is a single file under the data directory.
package database
