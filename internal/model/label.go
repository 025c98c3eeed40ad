package model

import (
	"fmt"
	"strings"
)

// Label is a password strength class. Labels are ordered: weak < medium < strong.
//
// The ordinal is part of the classifier contract: vote ties that cannot be
// broken by distance resolve to the lowest ordinal.
type Label int

const (
	// LabelWeak is a password that falls quickly to common attacks.
	LabelWeak Label = iota

	// LabelMedium is a password with some resistance but known weaknesses.
	LabelMedium

	// LabelStrong is a password with no obvious weakness.
	LabelStrong
)

// Labels lists every label in ordinal order.
var Labels = []Label{LabelWeak, LabelMedium, LabelStrong}

// String returns the lowercase label name.
func (l Label) String() string {
	switch l {
	case LabelWeak:
		return "weak"
	case LabelMedium:
		return "medium"
	case LabelStrong:
		return "strong"
	default:
		return "unknown"
	}
}

// Valid reports whether l is one of the defined labels.
func (l Label) Valid() bool {
	return l >= LabelWeak && l <= LabelStrong
}

// ParseLabel converts a label name to a Label. Matching is case-insensitive.
func ParseLabel(s string) (Label, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "weak":
		return LabelWeak, nil
	case "medium":
		return LabelMedium, nil
	case "strong":
		return LabelStrong, nil
	default:
		return 0, fmt.Errorf("unknown label %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (l Label) MarshalText() ([]byte, error) {
	if !l.Valid() {
		return nil, fmt.Errorf("invalid label %d", int(l))
	}
	return []byte(l.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (l *Label) UnmarshalText(text []byte) error {
	parsed, err := ParseLabel(string(text))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}
