// Package hasher provides the pinned one-way digest used on both sides of
// SmartPass: credential generation and the attack engines.
//
// A Hasher is created once at start-up from configuration and shared
// read-only afterwards. Every digest crossing a package boundary is a
// 64-character lowercase hexadecimal string. Attack correctness depends on
// generation and attack using the same Hasher, so callers must never build a
// second one with a different algorithm inside the same process.
package hasher
