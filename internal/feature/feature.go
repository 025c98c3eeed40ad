package feature

import (
	"math"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

// Version identifies the extractor. A model artifact records the version it
// was trained against and the classifier refuses artifacts built for another.
const Version = 1

// Dimensions is the number of values returned by Vector.Values.
const Dimensions = 10

// Character pool sizes used by the entropy estimate.
const (
	poolLower  = 26
	poolUpper  = 26
	poolDigit  = 10
	poolSymbol = 33
	poolOther  = 100
)

// patternRun is the number of consecutive characters that counts as a
// sequential or keyboard pattern.
const patternRun = 3

// keyboardRows are the US keyboard rows searched for walks such as "qwe" or "lkj".
var keyboardRows = [...]string{
	"`1234567890-=",
	"qwertyuiop[]",
	"asdfghjkl;'",
	"zxcvbnm,./",
	"~!@#$%^&*()_+",
}

// Class is the category a single code point is counted under.
type Class int

const (
	// ClassLower is a lowercase letter.
	ClassLower Class = iota
	// ClassUpper is an uppercase letter.
	ClassUpper
	// ClassDigit is an ASCII digit.
	ClassDigit
	// ClassSymbol is any other ASCII character, including space and controls.
	ClassSymbol
	// ClassOther is a non-ASCII code point that is not a cased letter.
	ClassOther
)

// Classify returns the class of r. Every rune belongs to exactly one class.
func Classify(r rune) Class {
	switch {
	case r >= 'a' && r <= 'z':
		return ClassLower
	case r >= 'A' && r <= 'Z':
		return ClassUpper
	case r >= '0' && r <= '9':
		return ClassDigit
	case r < utf8.RuneSelf:
		return ClassSymbol
	case unicode.IsLower(r):
		return ClassLower
	case unicode.IsUpper(r):
		return ClassUpper
	default:
		return ClassOther
	}
}

// Vector is the feature summary of one password.
type Vector struct {
	// Length is the number of code points after NFC normalisation.
	Length int `json:"length"`

	// Lower, Upper, Digit, Symbol and Other count code points per class.
	// They always sum to Length.
	Lower  int `json:"lower"`
	Upper  int `json:"upper"`
	Digit  int `json:"digit"`
	Symbol int `json:"symbol"`
	Other  int `json:"other"`

	// UniqueRatio is distinct code points divided by Length, or 0 when empty.
	UniqueRatio float64 `json:"unique_ratio"`

	// HasSequence is true when three consecutive letters or digits step by
	// one in either direction ("abc", "CBA", "789").
	HasSequence bool `json:"has_sequence"`

	// HasKeyboardPattern is true when three consecutive characters walk a
	// keyboard row in either direction ("qwe", "lkj", "#$%").
	HasKeyboardPattern bool `json:"has_keyboard_pattern"`

	// EntropyBits is Length * log2(pool), where pool is the sum of the
	// sizes of every character class present.
	EntropyBits float64 `json:"entropy_bits"`
}

// Extract computes the feature vector of password.
func Extract(password string) Vector {
	s := norm.NFC.String(password)
	runes := []rune(s)

	v := Vector{Length: len(runes)}
	if v.Length == 0 {
		return v
	}

	seen := make(map[rune]struct{}, len(runes))
	for _, r := range runes {
		seen[r] = struct{}{}
		switch Classify(r) {
		case ClassLower:
			v.Lower++
		case ClassUpper:
			v.Upper++
		case ClassDigit:
			v.Digit++
		case ClassSymbol:
			v.Symbol++
		case ClassOther:
			v.Other++
		}
	}

	v.UniqueRatio = float64(len(seen)) / float64(v.Length)
	v.HasSequence = hasSequence(runes)
	v.HasKeyboardPattern = hasKeyboardPattern(s)
	v.EntropyBits = float64(v.Length) * math.Log2(float64(v.poolSize()))

	return v
}

// poolSize returns the combined size of the character classes present in v.
func (v Vector) poolSize() int {
	pool := 0
	if v.Lower > 0 {
		pool += poolLower
	}
	if v.Upper > 0 {
		pool += poolUpper
	}
	if v.Digit > 0 {
		pool += poolDigit
	}
	if v.Symbol > 0 {
		pool += poolSymbol
	}
	if v.Other > 0 {
		pool += poolOther
	}
	return pool
}

// Values returns the vector as an ordered slice of Dimensions floats.
// Booleans are encoded as 0 or 1.
func (v Vector) Values() []float64 {
	return []float64{
		float64(v.Length),
		float64(v.Lower),
		float64(v.Upper),
		float64(v.Digit),
		float64(v.Symbol),
		float64(v.Other),
		v.UniqueRatio,
		boolToFloat(v.HasSequence),
		boolToFloat(v.HasKeyboardPattern),
		v.EntropyBits,
	}
}

// Names returns the name of each value returned by Values, in order.
func Names() []string {
	return []string{
		"length", "lower", "upper", "digit", "symbol", "other",
		"unique_ratio", "has_sequence", "has_keyboard_pattern", "entropy_bits",
	}
}

func boolToFloat(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// hasSequence reports whether runes contains an ascending or descending run
// of patternRun ASCII letters (case-insensitive) or digits.
func hasSequence(runes []rune) bool {
	for i := 0; i+patternRun <= len(runes); i++ {
		a, b, c := foldASCII(runes[i]), foldASCII(runes[i+1]), foldASCII(runes[i+2])
		if !sameSequenceClass(a, b, c) {
			continue
		}
		step := b - a
		if (step == 1 || step == -1) && c-b == step {
			return true
		}
	}
	return false
}

// foldASCII lowercases ASCII letters and leaves other runes untouched.
func foldASCII(r rune) rune {
	if r >= 'A' && r <= 'Z' {
		return r + ('a' - 'A')
	}
	return r
}

func sameSequenceClass(a, b, c rune) bool {
	isLetter := func(r rune) bool { return r >= 'a' && r <= 'z' }
	isDigit := func(r rune) bool { return r >= '0' && r <= '9' }
	return (isLetter(a) && isLetter(b) && isLetter(c)) ||
		(isDigit(a) && isDigit(b) && isDigit(c))
}

// hasKeyboardPattern reports whether s contains a forward or reverse walk
// of patternRun keys along one keyboard row.
func hasKeyboardPattern(s string) bool {
	lower := []rune(strings.ToLower(s))
	for i := 0; i+patternRun <= len(lower); i++ {
		window := string(lower[i : i+patternRun])
		for _, row := range keyboardRows {
			if strings.Contains(row, window) || strings.Contains(row, reverse(window)) {
				return true
			}
		}
	}
	return false
}

func reverse(s string) string {
	r := []rune(s)
	for i, j := 0, len(r)-1; i < j; i, j = i+1, j-1 {
		r[i], r[j] = r[j], r[i]
	}
	return string(r)
}
