package attack

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/nao1215/smartpass/internal/hasher"
	"github.com/nao1215/smartpass/internal/model"
)

// MaxLineLength is the longest wordlist line the dictionary engine tries.
// Longer lines are skipped.
const MaxLineLength = 1 << 20

// readBufferSize is the size of the buffered reader over a wordlist.
const readBufferSize = 64 * 1024

// Limits are optional ceilings for a dictionary run. Zero values disable
// the corresponding ceiling.
type Limits struct {
	MaxAttempts uint64
	TimeBudget  time.Duration
}

// Dictionary replays a wordlist until one word hashes to the target.
type Dictionary struct {
	hasher *hasher.Hasher
	opts   options
}

// NewDictionary returns a dictionary engine hashing with h.
func NewDictionary(h *hasher.Hasher, opts ...Option) *Dictionary {
	return &Dictionary{hasher: h, opts: newOptions(opts)}
}

// Attack streams words from source and compares their digests to target.
//
// Lines are read one at a time; the source is never held in memory. Line
// terminators ("\n", "\r\n") are removed and lines containing only
// whitespace are skipped without counting as attempts. Lines longer than
// MaxLineLength cannot be a password anyone types; they are logged at warn
// level with their line number and skipped without counting as attempts,
// so one corrupt line does not end the run. A read failure returns an
// error wrapping ErrWordlistRead, never a negative result.
func (d *Dictionary) Attack(ctx context.Context, target string, source io.Reader, limits Limits) (model.AttackResult, error) {
	digest, err := hasher.ParseDigest(target)
	if err != nil {
		return model.AttackResult{}, err
	}
	if source == nil {
		return model.AttackResult{}, ErrNoSource
	}

	logger := d.opts.logger.With("engine", model.EngineDictionary)
	logger.Debug("dictionary attack started",
		"max_attempts", limits.MaxAttempts,
		"time_budget", limits.TimeBudget,
	)

	result, err := d.run(ctx, logger, digest, source, limits)
	if err != nil {
		logger.Warn("dictionary attack aborted", "error", err)
		return model.AttackResult{}, err
	}

	logger.Debug("dictionary attack finished",
		"found", result.Found,
		"attempts", result.Attempts,
		"elapsed_ms", result.ElapsedMillis,
		"reason", result.TerminationReason,
	)
	return result, nil
}

func (d *Dictionary) run(ctx context.Context, logger *slog.Logger, digest hasher.Digest, source io.Reader, limits Limits) (model.AttackResult, error) {
	start := d.opts.now()
	elapsed := func() time.Duration { return d.opts.now().Sub(start) }
	miss := func(reason model.TerminationReason, attempts uint64) model.AttackResult {
		return model.NewMiss(model.EngineDictionary, reason, attempts, elapsed())
	}

	lr := &lineReader{r: bufio.NewReaderSize(source, readBufferSize)}

	var (
		attempts uint64
		lines    uint64
	)
	for {
		if lines%d.opts.checkInterval == 0 {
			if ctx.Err() != nil {
				return miss(model.ReasonCancelled, attempts), nil
			}
			if limits.TimeBudget > 0 && elapsed() >= limits.TimeBudget {
				return miss(model.ReasonTimeExhausted, attempts), nil
			}
		}
		if limits.MaxAttempts > 0 && attempts >= limits.MaxAttempts {
			return miss(model.ReasonAttemptsExhausted, attempts), nil
		}

		line, oversized, err := lr.next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			if ctx.Err() != nil {
				return miss(model.ReasonCancelled, attempts), nil
			}
			return model.AttackResult{}, fmt.Errorf("%w: after %d lines: %w", ErrWordlistRead, lines, err)
		}
		lines++

		if oversized {
			logger.Warn("skipping oversized wordlist line",
				"line", lines,
				"max_length", MaxLineLength,
			)
			continue
		}
		word := string(line)
		if strings.TrimSpace(word) == "" {
			continue
		}
		attempts++

		if d.hasher.Matches(word, digest) {
			return model.NewMatch(model.EngineDictionary, word, attempts, elapsed()), nil
		}
	}
	return miss(model.ReasonInputExhausted, attempts), nil
}

// lineReader splits a stream into lines without holding more than
// MaxLineLength bytes of any single line.
type lineReader struct {
	r   *bufio.Reader
	buf []byte
}

// next returns the next line without its "\n" or "\r\n" terminator. When
// the line is longer than MaxLineLength its content is discarded and
// oversized is true. next returns io.EOF once the stream is exhausted.
// The returned slice is only valid until the following call.
func (lr *lineReader) next() (line []byte, oversized bool, err error) {
	lr.buf = lr.buf[:0]
	read := false
	for {
		chunk, err := lr.r.ReadSlice('\n')
		if len(chunk) > 0 {
			read = true
		}
		if !oversized {
			lr.buf = append(lr.buf, chunk...)
			if len(lr.buf) > MaxLineLength+len("\r\n") {
				oversized = true
				lr.buf = lr.buf[:0]
			}
		}
		switch {
		case err == nil:
			return lr.finish(oversized)
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case errors.Is(err, io.EOF):
			if !read {
				return nil, false, io.EOF
			}
			return lr.finish(oversized)
		default:
			return nil, false, err
		}
	}
}

func (lr *lineReader) finish(oversized bool) ([]byte, bool, error) {
	if oversized {
		return nil, true, nil
	}
	line := bytes.TrimSuffix(lr.buf, []byte("\n"))
	line = bytes.TrimSuffix(line, []byte("\r"))
	if len(line) > MaxLineLength {
		return nil, true, nil
	}
	return line, false, nil
}
