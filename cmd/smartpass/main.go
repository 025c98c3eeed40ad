// Package main provides the entry point for the SmartPass CLI.
//
// SmartPass evaluates password strength and simulates brute-force and
// dictionary attacks against password digests.
//
// Usage:
//
//	smartpass serve
//	smartpass verify <password>
//	smartpass attack brute <digest>
//	smartpass audit <digest-file>
//
// See --help for all available options.
package main

// main is the entry point for SmartPass.
func main() {
	Execute()
}
