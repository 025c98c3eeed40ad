// Package feature turns a password into the numeric summary consumed by the
// strength classifier.
//
// Extract is a pure, total function: it is defined for every string,
// including the empty string and non-ASCII input, it performs no I/O and it
// reads no mutable package state. The same password always yields the same
// Vector, in this process and in any other process built from the same
// extractor version.
package feature
