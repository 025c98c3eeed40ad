// Package attack implements the two simulated credential-cracking engines.
//
//   - BruteForce enumerates a charset/length space in deterministic order.
//   - Dictionary replays a line-oriented wordlist as a stream.
//
// Both engines hash each candidate with the shared *hasher.Hasher, compare it
// to the target digest and return a model.AttackResult. Finding nothing is a
// normal outcome, reported through the result's termination reason; errors
// are reserved for malformed input (validation) and unusable resources.
//
// Engines are long-running and CPU or I/O bound. They check the context and
// the time budget every CheckInterval candidates and stop promptly with
// model.ReasonCancelled when the context ends. A BruteForce or Dictionary
// value holds no per-run state and may be shared by concurrent callers.
package attack
