package hasher

import (
	"errors"
	"strings"
	"testing"

	"github.com/nao1215/smartpass/internal/model"
)

func TestNew(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		input   Algorithm
		want    Algorithm
		wantErr bool
	}{
		{name: "empty selects default", input: "", want: SHA256},
		{name: "sha256", input: SHA256, want: SHA256},
		{name: "sha3-256", input: SHA3_256, want: SHA3_256},
		{name: "upper case is accepted", input: "SHA256", want: SHA256},
		{name: "md5 is rejected", input: "md5", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h, err := New(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrUnsupportedAlgorithm) {
					t.Fatalf("expected ErrUnsupportedAlgorithm, got %v", err)
				}
				if !errors.Is(err, model.ErrPrecondition) {
					t.Errorf("expected error to be a precondition error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if h.Algorithm() != tt.want {
				t.Errorf("expected algorithm %q, got %q", tt.want, h.Algorithm())
			}
		})
	}
}

func TestHasher_Hash(t *testing.T) {
	t.Parallel()

	t.Run("sha256 known vectors", func(t *testing.T) {
		t.Parallel()

		h := Default()
		vectors := map[string]string{
			"":    "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855",
			"abc": "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad",
		}
		for in, want := range vectors {
			if got := h.Hash(in); got != want {
				t.Errorf("Hash(%q) = %s, want %s", in, got, want)
			}
		}
	})

	t.Run("sha3-256 known vectors", func(t *testing.T) {
		t.Parallel()

		h, err := New(SHA3_256)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		vectors := map[string]string{
			"":    "a7ffc6f8bf1ed76651c14756a061d662f580ff4de43b49fa82d80a4b80f8434a",
			"abc": "3a985da74fe225b2045c172d6bd390bd855f086e3e9d525b46bfe24511431532",
		}
		for in, want := range vectors {
			if got := h.Hash(in); got != want {
				t.Errorf("Hash(%q) = %s, want %s", in, got, want)
			}
		}
	})

	t.Run("output is fixed-length lowercase hex", func(t *testing.T) {
		t.Parallel()

		h := Default()
		for _, in := range []string{"", "a", "Pässwörd!", strings.Repeat("x", 1000)} {
			got := h.Hash(in)
			if len(got) != DigestHexLength {
				t.Errorf("Hash(%q) has length %d, want %d", in, len(got), DigestHexLength)
			}
			if got != strings.ToLower(got) {
				t.Errorf("Hash(%q) is not lowercase: %s", in, got)
			}
		}
	})

	t.Run("hash is deterministic", func(t *testing.T) {
		t.Parallel()

		h := Default()
		if h.Hash("correct horse") != h.Hash("correct horse") {
			t.Error("two calls produced different digests")
		}
	})
}

func TestParseDigest(t *testing.T) {
	t.Parallel()

	valid := Default().Hash("secret")

	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "lowercase digest", input: valid},
		{name: "uppercase digest", input: strings.ToUpper(valid)},
		{name: "empty", input: "", wantErr: true},
		{name: "too short", input: valid[:63], wantErr: true},
		{name: "too long", input: valid + "0", wantErr: true},
		{name: "md5 length", input: "5ebe2294ecd0e0f08eab7690d2a6ee69", wantErr: true},
		{name: "non hex", input: strings.Repeat("z", 64), wantErr: true},
		{name: "surrounding space", input: " " + valid[1:], wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			d, err := ParseDigest(tt.input)
			if tt.wantErr {
				if !errors.Is(err, ErrMalformedDigest) {
					t.Fatalf("expected ErrMalformedDigest, got %v", err)
				}
				if !errors.Is(err, model.ErrResource) {
					t.Errorf("expected error to be a resource error, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if d.String() != valid {
				t.Errorf("expected normalised digest %s, got %s", valid, d.String())
			}
		})
	}
}

func TestHasher_Matches(t *testing.T) {
	t.Parallel()

	h := Default()
	target, err := ParseDigest(h.Hash("hunter2"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !h.Matches("hunter2", target) {
		t.Error("expected hunter2 to match its own digest")
	}
	if h.Matches("hunter3", target) {
		t.Error("expected hunter3 not to match")
	}

	other, err := New(SHA3_256)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if other.Matches("hunter2", target) {
		t.Error("a digest from another algorithm must never match")
	}
}
