package model

import "time"

// TerminationReason is the condition that ended an attack engine invocation.
type TerminationReason string

const (
	// ReasonMatch means a candidate hashed to the target digest.
	ReasonMatch TerminationReason = "match"

	// ReasonAttemptsExhausted means the attempt ceiling was reached without a match.
	ReasonAttemptsExhausted TerminationReason = "attempts_exhausted"

	// ReasonTimeExhausted means the time budget elapsed without a match.
	ReasonTimeExhausted TerminationReason = "time_exhausted"

	// ReasonSpaceExhausted means every candidate of the search space was tried.
	ReasonSpaceExhausted TerminationReason = "space_exhausted"

	// ReasonInputExhausted means the wordlist ended without a match.
	ReasonInputExhausted TerminationReason = "input_exhausted"

	// ReasonCancelled means the caller cancelled the invocation.
	// It is not a negative result: the search simply did not finish.
	ReasonCancelled TerminationReason = "cancelled"
)

// Valid reports whether r is one of the defined termination reasons.
func (r TerminationReason) Valid() bool {
	switch r {
	case ReasonMatch, ReasonAttemptsExhausted, ReasonTimeExhausted,
		ReasonSpaceExhausted, ReasonInputExhausted, ReasonCancelled:
		return true
	default:
		return false
	}
}

// String returns the wire representation of the reason.
func (r TerminationReason) String() string {
	return string(r)
}

// Engine names the search strategy that produced an AttackResult.
type Engine string

const (
	// EngineBruteForce enumerates a charset/length space.
	EngineBruteForce Engine = "brute_force"

	// EngineDictionary replays a wordlist.
	EngineDictionary Engine = "dictionary"
)

// AttackResult is the outcome of one attack engine invocation.
// Values are built with NewMatch or NewMiss and are not modified afterwards.
type AttackResult struct {
	// Engine is the strategy that produced this result.
	Engine Engine `json:"engine"`

	// Found is true when a candidate matched the target digest.
	Found bool `json:"found"`

	// Plaintext is the recovered password. It is empty unless Found is true.
	Plaintext string `json:"plaintext,omitempty"`

	// Attempts is the number of candidates hashed and compared.
	Attempts uint64 `json:"attempts"`

	// ElapsedMillis is the wall time spent in the engine.
	ElapsedMillis int64 `json:"elapsed_ms"`

	// TerminationReason is the condition that ended the search.
	TerminationReason TerminationReason `json:"termination_reason"`

	// NextPosition is the enumeration position a follow-up brute-force run
	// should start from. Always zero for dictionary results.
	NextPosition uint64 `json:"next_position,omitempty"`
}

// NewMatch builds the result of a successful search.
func NewMatch(engine Engine, plaintext string, attempts uint64, elapsed time.Duration) AttackResult {
	return AttackResult{
		Engine:            engine,
		Found:             true,
		Plaintext:         plaintext,
		Attempts:          attempts,
		ElapsedMillis:     elapsedMillis(elapsed),
		TerminationReason: ReasonMatch,
	}
}

// NewMiss builds the result of a search that ended without a match.
// Callers pass one of the non-match reasons.
func NewMiss(engine Engine, reason TerminationReason, attempts uint64, elapsed time.Duration) AttackResult {
	return AttackResult{
		Engine:            engine,
		Attempts:          attempts,
		ElapsedMillis:     elapsedMillis(elapsed),
		TerminationReason: reason,
	}
}

// WithNextPosition returns a copy of r carrying the resume position.
func (r AttackResult) WithNextPosition(pos uint64) AttackResult {
	r.NextPosition = pos
	return r
}

// Cancelled reports whether the search was cut short by the caller.
func (r AttackResult) Cancelled() bool {
	return r.TerminationReason == ReasonCancelled
}

// Elapsed returns ElapsedMillis as a time.Duration.
func (r AttackResult) Elapsed() time.Duration {
	return time.Duration(r.ElapsedMillis) * time.Millisecond
}

// elapsedMillis converts d to non-negative milliseconds.
func elapsedMillis(d time.Duration) int64 {
	if d < 0 {
		return 0
	}
	return d.Milliseconds()
}
