package hasher

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"github.com/nao1215/smartpass/internal/model"
	"golang.org/x/crypto/sha3"
)

// Algorithm names a supported digest algorithm.
type Algorithm string

const (
	// SHA256 is SHA-256 (FIPS 180-4). It is the default algorithm.
	SHA256 Algorithm = "sha256"

	// SHA3_256 is SHA3-256 (FIPS 202).
	SHA3_256 Algorithm = "sha3-256" //nolint:revive,stylecheck // Mirrors the algorithm name
)

// DigestSize is the raw digest length in bytes for every supported algorithm.
const DigestSize = 32

// DigestHexLength is the length of a hex-encoded digest.
const DigestHexLength = DigestSize * 2

// DefaultAlgorithm is used when configuration does not name one.
const DefaultAlgorithm = SHA256

var (
	// ErrUnsupportedAlgorithm is returned by New for unknown algorithm names.
	ErrUnsupportedAlgorithm = model.NewError(model.ErrPrecondition, "unsupported hash algorithm")

	// ErrMalformedDigest is returned when a digest is not 64 hex characters.
	// Digests produced by another algorithm or length fall here as well and
	// are never searched.
	ErrMalformedDigest = model.NewError(model.ErrResource, "malformed digest: expected 64 hexadecimal characters")
)

// Hasher computes digests with one pinned algorithm.
// The zero value is not usable; create instances with New.
type Hasher struct {
	algorithm Algorithm
	sum       func([]byte) [DigestSize]byte
}

// New returns a Hasher for the named algorithm.
// An empty name selects DefaultAlgorithm.
func New(algorithm Algorithm) (*Hasher, error) {
	switch Algorithm(strings.ToLower(string(algorithm))) {
	case "", SHA256:
		return &Hasher{algorithm: SHA256, sum: sha256.Sum256}, nil
	case SHA3_256:
		return &Hasher{algorithm: SHA3_256, sum: sha3.Sum256}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedAlgorithm, algorithm)
	}
}

// Default returns a Hasher using DefaultAlgorithm.
func Default() *Hasher {
	h, _ := New(DefaultAlgorithm) //nolint:errcheck // DefaultAlgorithm is always supported
	return h
}

// Algorithm returns the pinned algorithm.
func (h *Hasher) Algorithm() Algorithm {
	return h.algorithm
}

// Hash returns the lowercase hex digest of password.
func (h *Hasher) Hash(password string) string {
	sum := h.sum([]byte(password))
	return hex.EncodeToString(sum[:])
}

// Sum returns the raw digest of password.
func (h *Hasher) Sum(password string) [DigestSize]byte {
	return h.sum([]byte(password))
}

// Matches reports whether password hashes to target.
// The comparison runs in constant time.
func (h *Hasher) Matches(password string, target Digest) bool {
	sum := h.sum([]byte(password))
	return subtle.ConstantTimeCompare(sum[:], target[:]) == 1
}

// Digest is a decoded, validated digest.
type Digest [DigestSize]byte

// String returns the lowercase hex form of d.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// ParseDigest validates a hex digest and decodes it.
// Upper-case hex is accepted and normalised; surrounding whitespace is not.
func ParseDigest(s string) (Digest, error) {
	var d Digest
	if len(s) != DigestHexLength {
		return d, fmt.Errorf("%w: got %d characters", ErrMalformedDigest, len(s))
	}
	if _, err := hex.Decode(d[:], []byte(s)); err != nil {
		return Digest{}, fmt.Errorf("%w: %v", ErrMalformedDigest, err)
	}
	return d, nil
}

// ValidateDigest reports whether s is a well-formed digest.
func ValidateDigest(s string) error {
	_, err := ParseDigest(s)
	return err
}

// NormalizeDigest validates s and returns its lowercase form.
func NormalizeDigest(s string) (string, error) {
	d, err := ParseDigest(s)
	if err != nil {
		return "", err
	}
	return d.String(), nil
}
