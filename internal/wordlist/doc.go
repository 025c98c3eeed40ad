// Package wordlist opens dictionary wordlists from a single allowed directory.
//
// Identifiers supplied by callers are untrusted. A Resolver only accepts
// local, relative names and opens them through an os.Root, so traversal
// ("../"), absolute paths and symlinks that leave the directory are all
// rejected before a single byte is read. Files ending in ".gz" are
// decompressed on the fly.
package wordlist
