package candidate

import (
	"fmt"
	"math"
	"math/bits"

	"github.com/nao1215/smartpass/internal/model"
)

// MaxLength is the longest candidate length accepted by NewGenerator.
const MaxLength = 64

var (
	// ErrEmptyCharset is returned when the charset has no characters.
	ErrEmptyCharset = model.NewError(model.ErrValidation, "charset must not be empty")

	// ErrDuplicateCharset is returned when a character appears twice in the
	// charset; duplicates would make the generator yield repeated candidates.
	ErrDuplicateCharset = model.NewError(model.ErrValidation, "charset must not contain duplicate characters")

	// ErrInvalidLength is returned for a length range outside [1, MaxLength]
	// or with min greater than max.
	ErrInvalidLength = model.NewError(model.ErrValidation, "invalid candidate length range")
)

// Generator yields candidates in deterministic order.
// A Generator is not safe for concurrent use; each search owns one.
type Generator struct {
	charset []rune
	minLen  int
	maxLen  int

	// digits holds the charset index of each position of the next candidate.
	digits   []int
	position uint64
	done     bool
	buf      []rune
}

// NewGenerator returns a Generator positioned at the first candidate.
func NewGenerator(charset string, minLen, maxLen int) (*Generator, error) {
	return NewGeneratorAt(charset, minLen, maxLen, 0)
}

// NewGeneratorAt returns a Generator that skips the first position candidates.
// A position at or past the end of the space yields an exhausted Generator.
func NewGeneratorAt(charset string, minLen, maxLen int, position uint64) (*Generator, error) {
	runes, err := ParseCharset(charset)
	if err != nil {
		return nil, err
	}
	if err := validateLengths(minLen, maxLen); err != nil {
		return nil, err
	}

	g := &Generator{
		charset:  runes,
		minLen:   minLen,
		maxLen:   maxLen,
		position: position,
	}
	g.seek(position)
	return g, nil
}

// ParseCharset splits charset into runes and rejects empty or duplicated sets.
func ParseCharset(charset string) ([]rune, error) {
	runes := []rune(charset)
	if len(runes) == 0 {
		return nil, ErrEmptyCharset
	}
	seen := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		if _, ok := seen[r]; ok {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateCharset, r)
		}
		seen[r] = struct{}{}
	}
	return runes, nil
}

func validateLengths(minLen, maxLen int) error {
	if minLen < 1 || maxLen < minLen || maxLen > MaxLength {
		return fmt.Errorf("%w: min=%d max=%d (must satisfy 1 <= min <= max <= %d)",
			ErrInvalidLength, minLen, maxLen, MaxLength)
	}
	return nil
}

// seek positions the generator on the candidate with the given index.
func (g *Generator) seek(position uint64) {
	base := uint64(len(g.charset))
	length := g.minLen
	for {
		if length > g.maxLen {
			g.done = true
			return
		}
		count, overflow := pow(base, length)
		if overflow || position < count {
			break
		}
		position -= count
		length++
	}

	g.digits = make([]int, length)
	for i := length - 1; i >= 0 && position > 0; i-- {
		g.digits[i] = int(position % base)
		position /= base
	}
}

// Next returns the next candidate, or false when the space is exhausted.
func (g *Generator) Next() (string, bool) {
	if g.done {
		return "", false
	}

	g.buf = g.buf[:0]
	for _, d := range g.digits {
		g.buf = append(g.buf, g.charset[d])
	}
	candidate := string(g.buf)

	g.advance()
	g.position++
	return candidate, true
}

// advance moves digits to the following candidate like an odometer.
func (g *Generator) advance() {
	for i := len(g.digits) - 1; i >= 0; i-- {
		g.digits[i]++
		if g.digits[i] < len(g.charset) {
			return
		}
		g.digits[i] = 0
	}

	// every position wrapped: move on to the next length
	if len(g.digits) >= g.maxLen {
		g.done = true
		return
	}
	g.digits = make([]int, len(g.digits)+1)
}

// Position returns the number of candidates yielded so far, counting the
// skipped prefix of NewGeneratorAt.
func (g *Generator) Position() uint64 {
	return g.position
}

// Done reports whether the space is exhausted.
func (g *Generator) Done() bool {
	return g.done
}

// SpaceSize returns the total number of candidates of the generator's space.
// The second result is false when the size does not fit in a uint64; the
// returned size is then math.MaxUint64.
func (g *Generator) SpaceSize() (uint64, bool) {
	return SpaceSize(len(g.charset), g.minLen, g.maxLen)
}

// SpaceSize returns sum over L in [minLen, maxLen] of charsetSize^L.
// The second result is false on uint64 overflow, in which case the size is
// saturated to math.MaxUint64.
func SpaceSize(charsetSize, minLen, maxLen int) (uint64, bool) {
	if charsetSize <= 0 || minLen > maxLen {
		return 0, true
	}
	var total uint64
	for l := minLen; l <= maxLen; l++ {
		count, overflow := pow(uint64(charsetSize), l)
		if overflow {
			return math.MaxUint64, false
		}
		sum, carry := bits.Add64(total, count, 0)
		if carry != 0 {
			return math.MaxUint64, false
		}
		total = sum
	}
	return total, true
}

// pow returns base^exp and whether the result overflowed uint64.
func pow(base uint64, exp int) (uint64, bool) {
	result := uint64(1)
	for range exp {
		hi, lo := bits.Mul64(result, base)
		if hi != 0 {
			return math.MaxUint64, true
		}
		result = lo
	}
	return result, false
}
