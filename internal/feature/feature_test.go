package feature

import (
	"math"
	"reflect"
	"testing"
)

func TestExtract(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		password string
		want     Vector
	}{
		{
			name:     "empty password is the zero vector",
			password: "",
			want:     Vector{},
		},
		{
			name:     "lowercase sequence",
			password: "abc",
			want: Vector{
				Length: 3, Lower: 3, UniqueRatio: 1, HasSequence: true,
				EntropyBits: 3 * math.Log2(26),
			},
		},
		{
			name:     "keyboard walk",
			password: "qwerty",
			want: Vector{
				Length: 6, Lower: 6, UniqueRatio: 1, HasKeyboardPattern: true,
				EntropyBits: 6 * math.Log2(26),
			},
		},
		{
			name:     "all four ASCII classes",
			password: "Password1!",
			want: Vector{
				Length: 10, Lower: 7, Upper: 1, Digit: 1, Symbol: 1, UniqueRatio: 0.9,
				EntropyBits: 10 * math.Log2(26+26+10+33),
			},
		},
		{
			name:     "descending sequence across letters and digits",
			password: "zyx9",
			want: Vector{
				Length: 4, Lower: 3, Digit: 1, UniqueRatio: 1, HasSequence: true,
				EntropyBits: 4 * math.Log2(36),
			},
		},
		{
			name:     "interleaved classes are not a sequence",
			password: "a1b2c3",
			want: Vector{
				Length: 6, Lower: 3, Digit: 3, UniqueRatio: 1,
				EntropyBits: 6 * math.Log2(36),
			},
		},
		{
			name:     "repeated characters lower the unique ratio",
			password: "AAAA",
			want: Vector{
				Length: 4, Upper: 4, UniqueRatio: 0.25,
				EntropyBits: 4 * math.Log2(26),
			},
		},
		{
			name:     "accented letters count by case",
			password: "Ünïcödé",
			want: Vector{
				Length: 7, Lower: 6, Upper: 1, UniqueRatio: 1,
				EntropyBits: 7 * math.Log2(52),
			},
		},
		{
			name:     "uncased scripts count as other",
			password: "日本",
			want: Vector{
				Length: 2, Other: 2, UniqueRatio: 1,
				EntropyBits: 2 * math.Log2(100),
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got := Extract(tt.password)
			if !vectorsEqual(got, tt.want) {
				t.Errorf("Extract(%q) = %+v, want %+v", tt.password, got, tt.want)
			}
		})
	}
}

func TestExtract_ClassCountsSumToLength(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "a", "Aa1!", "日本語 pass", "\x00\x7f", "🔐x", "ÀÉÎÕÜ", "ß", "İ"}
	for _, in := range inputs {
		v := Extract(in)
		sum := v.Lower + v.Upper + v.Digit + v.Symbol + v.Other
		if sum != v.Length {
			t.Errorf("Extract(%q): class counts sum to %d, length is %d", in, sum, v.Length)
		}
	}
}

func TestExtract_Deterministic(t *testing.T) {
	t.Parallel()

	inputs := []string{"", "hunter2", "Tr0ub4dor&3", "日本語のパスワード"}
	for _, in := range inputs {
		first := Extract(in)
		// interleave other calls to make sure no state leaks between them
		_ = Extract("something else entirely")
		second := Extract(in)
		if !reflect.DeepEqual(first, second) {
			t.Errorf("Extract(%q) is not deterministic: %+v vs %+v", in, first, second)
		}
	}
}

func TestExtract_NormalizesComposition(t *testing.T) {
	t.Parallel()

	composed := Extract("\u00e9cole")
	decomposed := Extract("e\u0301cole")
	if !reflect.DeepEqual(composed, decomposed) {
		t.Errorf("composed and decomposed forms differ: %+v vs %+v", composed, decomposed)
	}
	if composed.Length != 5 {
		t.Errorf("expected length 5, got %d", composed.Length)
	}
}

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		r    rune
		want Class
	}{
		{r: 'a', want: ClassLower},
		{r: 'Z', want: ClassUpper},
		{r: '7', want: ClassDigit},
		{r: ' ', want: ClassSymbol},
		{r: '~', want: ClassSymbol},
		{r: 0x00, want: ClassSymbol},
		{r: 'é', want: ClassLower},
		{r: 'Ö', want: ClassUpper},
		{r: '٣', want: ClassOther},
		{r: '€', want: ClassOther},
		{r: '語', want: ClassOther},
	}

	for _, tt := range tests {
		if got := Classify(tt.r); got != tt.want {
			t.Errorf("Classify(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestVector_Values(t *testing.T) {
	t.Parallel()

	v := Extract("qwe123")
	values := v.Values()
	if len(values) != Dimensions {
		t.Fatalf("expected %d values, got %d", Dimensions, len(values))
	}
	if len(Names()) != Dimensions {
		t.Fatalf("expected %d names, got %d", Dimensions, len(Names()))
	}
	if values[7] != 1 {
		t.Errorf("expected has_sequence=1 for %q, got %v", "qwe123", values[7])
	}
	if values[8] != 1 {
		t.Errorf("expected has_keyboard_pattern=1 for %q, got %v", "qwe123", values[8])
	}
}

func vectorsEqual(a, b Vector) bool {
	const eps = 1e-9
	return a.Length == b.Length &&
		a.Lower == b.Lower && a.Upper == b.Upper && a.Digit == b.Digit &&
		a.Symbol == b.Symbol && a.Other == b.Other &&
		math.Abs(a.UniqueRatio-b.UniqueRatio) < eps &&
		a.HasSequence == b.HasSequence &&
		a.HasKeyboardPattern == b.HasKeyboardPattern &&
		math.Abs(a.EntropyBits-b.EntropyBits) < eps
}
