package candidate

import (
	"errors"
	"math"
	"slices"
	"testing"

	"github.com/nao1215/smartpass/internal/model"
)

// drain collects every remaining candidate of g.
func drain(g *Generator) []string {
	var out []string
	for {
		c, ok := g.Next()
		if !ok {
			return out
		}
		out = append(out, c)
	}
}

func TestGenerator_Order(t *testing.T) {
	t.Parallel()

	g, err := NewGenerator("ab", 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	want := []string{
		"a", "b",
		"aa", "ab", "ba", "bb",
		"aaa", "aab", "aba", "abb", "baa", "bab", "bba", "bbb",
	}
	got := drain(g)
	if !slices.Equal(got, want) {
		t.Errorf("unexpected order:\n got  %v\n want %v", got, want)
	}
	if !g.Done() {
		t.Error("expected generator to be done")
	}
	if g.Position() != uint64(len(want)) {
		t.Errorf("expected position %d, got %d", len(want), g.Position())
	}
}

func TestGenerator_CharsetOrderIsRespected(t *testing.T) {
	t.Parallel()

	g, err := NewGenerator("ba", 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"bb", "ba", "ab", "aa"}
	if got := drain(g); !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestGenerator_MinLength(t *testing.T) {
	t.Parallel()

	g, err := NewGenerator("xyz", 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	got := drain(g)
	if len(got) != 9 {
		t.Fatalf("expected 9 candidates, got %d", len(got))
	}
	if got[0] != "xx" || got[8] != "zz" {
		t.Errorf("unexpected bounds: first=%q last=%q", got[0], got[8])
	}
}

func TestGenerator_NoDuplicates(t *testing.T) {
	t.Parallel()

	g, err := NewGenerator("abc1", 1, 4)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := make(map[string]struct{})
	for _, c := range drain(g) {
		if _, dup := seen[c]; dup {
			t.Fatalf("candidate %q yielded twice", c)
		}
		seen[c] = struct{}{}
	}
	size, ok := g.SpaceSize()
	if !ok {
		t.Fatal("unexpected overflow")
	}
	if uint64(len(seen)) != size {
		t.Errorf("expected %d candidates, got %d", size, len(seen))
	}
}

func TestGenerator_Unicode(t *testing.T) {
	t.Parallel()

	g, err := NewGenerator("éß", 1, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []string{"é", "ß", "éé", "éß", "ßé", "ßß"}
	if got := drain(g); !slices.Equal(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestNewGeneratorAt_Resume(t *testing.T) {
	t.Parallel()

	full, err := NewGenerator("abc", 1, 3)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	all := drain(full)

	for _, pos := range []uint64{0, 1, 2, 3, 5, 11, 12, 20, 38, 39} {
		g, err := NewGeneratorAt("abc", 1, 3, pos)
		if err != nil {
			t.Fatalf("unexpected error at position %d: %v", pos, err)
		}
		got := drain(g)
		if !slices.Equal(got, all[pos:]) {
			t.Errorf("resume at %d: got %v, want %v", pos, got, all[pos:])
		}
	}

	t.Run("position past the end is exhausted", func(t *testing.T) {
		t.Parallel()

		g, err := NewGeneratorAt("abc", 1, 3, 1000)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, ok := g.Next(); ok {
			t.Error("expected no candidates")
		}
	})
}

func TestNewGenerator_Invalid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		charset string
		minLen  int
		maxLen  int
		wantErr error
	}{
		{name: "empty charset", charset: "", minLen: 1, maxLen: 2, wantErr: ErrEmptyCharset},
		{name: "duplicate character", charset: "aba", minLen: 1, maxLen: 2, wantErr: ErrDuplicateCharset},
		{name: "zero min length", charset: "ab", minLen: 0, maxLen: 2, wantErr: ErrInvalidLength},
		{name: "min greater than max", charset: "ab", minLen: 3, maxLen: 2, wantErr: ErrInvalidLength},
		{name: "max too large", charset: "ab", minLen: 1, maxLen: MaxLength + 1, wantErr: ErrInvalidLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := NewGenerator(tt.charset, tt.minLen, tt.maxLen)
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if !errors.Is(err, model.ErrValidation) {
				t.Errorf("expected a validation error, got %v", err)
			}
		})
	}
}

func TestSpaceSize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		size     int
		minLen   int
		maxLen   int
		want     uint64
		wantFits bool
	}{
		{name: "two symbols up to three", size: 2, minLen: 1, maxLen: 3, want: 14, wantFits: true},
		{name: "single length", size: 10, minLen: 4, maxLen: 4, want: 10000, wantFits: true},
		{name: "lowercase up to six", size: 26, minLen: 1, maxLen: 6, want: 26 + 676 + 17576 + 456976 + 11881376 + 308915776, wantFits: true},
		{name: "overflow saturates", size: 95, minLen: 1, maxLen: 20, want: math.MaxUint64, wantFits: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, fits := SpaceSize(tt.size, tt.minLen, tt.maxLen)
			if got != tt.want || fits != tt.wantFits {
				t.Errorf("SpaceSize(%d, %d, %d) = (%d, %v), want (%d, %v)",
					tt.size, tt.minLen, tt.maxLen, got, fits, tt.want, tt.wantFits)
			}
		})
	}
}

func TestNewGeneratorAt_HugeSpace(t *testing.T) {
	t.Parallel()

	// 95^20 overflows uint64; seeking must still land on a sane candidate
	g, err := NewGeneratorAt(printableASCII, 1, 20, 95)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	c, ok := g.Next()
	if !ok {
		t.Fatal("expected a candidate")
	}
	if c != "  " {
		t.Errorf("expected the first two-character candidate, got %q", c)
	}
}

// printableASCII is every printable ASCII character from space to tilde.
const printableASCII = " !\"#$%&'()*+,-./0123456789:;<=>?@ABCDEFGHIJKLMNOPQRSTUVWXYZ[\\]^_`abcdefghijklmnopqrstuvwxyz{|}~"
