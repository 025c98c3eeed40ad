package attack

import (
	"context"
	"fmt"
	"time"

	"github.com/nao1215/smartpass/internal/candidate"
	"github.com/nao1215/smartpass/internal/hasher"
	"github.com/nao1215/smartpass/internal/model"
)

// Params bounds one brute-force run.
type Params struct {
	// Charset is the ordered set of characters candidates are built from.
	Charset string

	// MinLen and MaxLen bound the candidate length, inclusive.
	MinLen int
	MaxLen int

	// MaxAttempts is the attempt ceiling. It must be positive.
	MaxAttempts uint64

	// TimeBudget is the wall-time ceiling. It must be positive.
	TimeBudget time.Duration

	// StartPosition skips that many candidates, resuming an earlier run
	// from its result's NextPosition.
	StartPosition uint64
}

// Validate reports whether p describes a finite, well-formed search.
func (p Params) Validate() error {
	if p.MaxAttempts == 0 || p.TimeBudget <= 0 {
		return ErrUnboundedSearch
	}
	if _, err := candidate.ParseCharset(p.Charset); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidSearchSpace, err)
	}
	if p.MinLen < 1 || p.MaxLen < p.MinLen || p.MaxLen > candidate.MaxLength {
		return fmt.Errorf("%w: %w", ErrInvalidSearchSpace, candidate.ErrInvalidLength)
	}
	return nil
}

// BruteForce enumerates candidates until one hashes to the target.
type BruteForce struct {
	hasher *hasher.Hasher
	opts   options
}

// NewBruteForce returns a brute-force engine hashing with h.
func NewBruteForce(h *hasher.Hasher, opts ...Option) *BruteForce {
	return &BruteForce{hasher: h, opts: newOptions(opts)}
}

// Attack searches p's space for a candidate whose digest equals target.
//
// It stops at the first of: a match, MaxAttempts candidates tried, TimeBudget
// elapsed, the space exhausted, or ctx done. Only a malformed target or
// invalid params produce an error; every search outcome, cancellation
// included, is reported through the result.
func (b *BruteForce) Attack(ctx context.Context, target string, p Params) (model.AttackResult, error) {
	digest, err := hasher.ParseDigest(target)
	if err != nil {
		return model.AttackResult{}, err
	}
	if err := p.Validate(); err != nil {
		return model.AttackResult{}, err
	}
	gen, err := candidate.NewGeneratorAt(p.Charset, p.MinLen, p.MaxLen, p.StartPosition)
	if err != nil {
		return model.AttackResult{}, fmt.Errorf("%w: %w", ErrInvalidSearchSpace, err)
	}

	logger := b.opts.logger.With("engine", model.EngineBruteForce)
	logger.Debug("brute-force attack started",
		"charset_size", len([]rune(p.Charset)),
		"min_len", p.MinLen,
		"max_len", p.MaxLen,
		"max_attempts", p.MaxAttempts,
		"time_budget", p.TimeBudget,
		"start_position", p.StartPosition,
	)

	result := b.run(ctx, gen, digest, p)

	logger.Debug("brute-force attack finished",
		"found", result.Found,
		"attempts", result.Attempts,
		"elapsed_ms", result.ElapsedMillis,
		"reason", result.TerminationReason,
	)
	return result, nil
}

func (b *BruteForce) run(ctx context.Context, gen *candidate.Generator, digest hasher.Digest, p Params) model.AttackResult {
	start := b.opts.now()
	deadline := start.Add(p.TimeBudget)
	elapsed := func() time.Duration { return b.opts.now().Sub(start) }

	miss := func(reason model.TerminationReason, attempts uint64) model.AttackResult {
		return model.NewMiss(model.EngineBruteForce, reason, attempts, elapsed()).
			WithNextPosition(gen.Position())
	}

	var attempts uint64
	for {
		if gen.Done() {
			return miss(model.ReasonSpaceExhausted, attempts)
		}
		if attempts >= p.MaxAttempts {
			return miss(model.ReasonAttemptsExhausted, attempts)
		}
		if attempts%b.opts.checkInterval == 0 {
			if ctx.Err() != nil {
				return miss(model.ReasonCancelled, attempts)
			}
			if !b.opts.now().Before(deadline) {
				return miss(model.ReasonTimeExhausted, attempts)
			}
		}

		c, ok := gen.Next()
		if !ok {
			return miss(model.ReasonSpaceExhausted, attempts)
		}
		attempts++

		if b.hasher.Matches(c, digest) {
			return model.NewMatch(model.EngineBruteForce, c, attempts, elapsed()).
				WithNextPosition(gen.Position())
		}
	}
}

// Describe returns a stable text form of the search space, such as
// "ab/1-3". It identifies runs that can resume one another.
func (p Params) Describe() string {
	return fmt.Sprintf("%s/%d-%d", p.Charset, p.MinLen, p.MaxLen)
}
