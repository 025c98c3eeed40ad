// Package log provides secure logging functionality with automatic sanitization
// of sensitive information, built on top of the standard slog package.
//
// The SecureHandler masks, at every level:
//   - passwords, recovered plaintexts and brute-force candidates
//   - AES keys, IVs and encrypted passwords of generated credentials
//   - long hexadecimal values such as keys and ciphertexts
//   - HTTP authentication headers and tokens
//
// Attributes named digest or target_digest are shortened to their first
// DigestPrefixLength characters instead.
//
// # Usage
//
//	logger := log.New(os.Stderr, cfg.LogFormat, cfg.Verbose)
//	logger.Warn("attack failed", "password", pw) // password=***REDACTED***
//	slog.SetDefault(logger)
package log
