package credential

import (
	"crypto/aes"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"math/big"
	"strings"

	"github.com/nao1215/smartpass/internal/hasher"
)

const (
	// DefaultLength is the length of generated passwords.
	DefaultLength = 16

	// MinLength fits one character of every class.
	MinLength = 4

	// MaxLength is the longest password Generate produces.
	MaxLength = 128
)

// Character classes a generated password always draws from.
var classes = []string{
	"abcdefghijklmnopqrstuvwxyz",
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ",
	"0123456789",
	"!@#$%^&*()-_=+[]{}<>?",
}

// Credential is a generated password with its encrypted and hashed forms.
// Key, IV and EncryptedPassword are hex encoded.
type Credential struct {
	Password          string `json:"password"`
	EncryptedPassword string `json:"encrypted_password"`
	Key               string `json:"key"`
	IV                string `json:"iv"`
	HashedPassword    string `json:"hashed_password"`
}

// Reveal decrypts EncryptedPassword with the stored key and IV.
func (c Credential) Reveal() (string, error) {
	key, err := hex.DecodeString(c.Key)
	if err != nil {
		return "", fmt.Errorf("%w: key: %w", ErrInvalidKey, err)
	}
	iv, err := hex.DecodeString(c.IV)
	if err != nil {
		return "", fmt.Errorf("%w: iv: %w", ErrInvalidKey, err)
	}
	ciphertext, err := hex.DecodeString(c.EncryptedPassword)
	if err != nil {
		return "", fmt.Errorf("%w: ciphertext: %w", ErrDecryptionFailed, err)
	}
	plaintext, err := Decrypt(ciphertext, key, iv)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

// Generator produces random credentials.
type Generator struct {
	hasher *hasher.Hasher
	length int
	random io.Reader
}

// Option configures a Generator.
type Option func(*Generator)

// WithLength sets the generated password length.
func WithLength(n int) Option {
	return func(g *Generator) {
		g.length = n
	}
}

// WithRandom replaces crypto/rand.Reader.
func WithRandom(r io.Reader) Option {
	return func(g *Generator) {
		if r != nil {
			g.random = r
		}
	}
}

// NewGenerator returns a Generator that hashes with h.
func NewGenerator(h *hasher.Hasher, opts ...Option) (*Generator, error) {
	g := &Generator{
		hasher: h,
		length: DefaultLength,
		random: rand.Reader,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.length < MinLength || g.length > MaxLength {
		return nil, fmt.Errorf("%w: %d (must be between %d and %d)", ErrInvalidLength, g.length, MinLength, MaxLength)
	}
	return g, nil
}

// Generate returns a fresh credential with a new key and IV.
func (g *Generator) Generate() (Credential, error) {
	password, err := g.Password()
	if err != nil {
		return Credential{}, err
	}

	key := make([]byte, KeySize)
	if _, err := io.ReadFull(g.random, key); err != nil {
		return Credential{}, fmt.Errorf("%w: key: %w", ErrRandomSource, err)
	}
	iv := make([]byte, aes.BlockSize)
	if _, err := io.ReadFull(g.random, iv); err != nil {
		return Credential{}, fmt.Errorf("%w: iv: %w", ErrRandomSource, err)
	}

	ciphertext, err := Encrypt([]byte(password), key, iv)
	if err != nil {
		return Credential{}, err
	}

	return Credential{
		Password:          password,
		EncryptedPassword: hex.EncodeToString(ciphertext),
		Key:               hex.EncodeToString(key),
		IV:                hex.EncodeToString(iv),
		HashedPassword:    g.hasher.Hash(password),
	}, nil
}

// Password returns a random password containing at least one lowercase
// letter, uppercase letter, digit and symbol.
func (g *Generator) Password() (string, error) {
	all := strings.Join(classes, "")

	out := make([]byte, 0, g.length)
	for _, c := range classes {
		ch, err := g.pick(c)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}
	for len(out) < g.length {
		ch, err := g.pick(all)
		if err != nil {
			return "", err
		}
		out = append(out, ch)
	}

	// Fisher-Yates so the guaranteed characters are not always first
	for i := len(out) - 1; i > 0; i-- {
		j, err := g.intn(i + 1)
		if err != nil {
			return "", err
		}
		out[i], out[j] = out[j], out[i]
	}
	return string(out), nil
}

func (g *Generator) pick(set string) (byte, error) {
	i, err := g.intn(len(set))
	if err != nil {
		return 0, err
	}
	return set[i], nil
}

func (g *Generator) intn(n int) (int, error) {
	v, err := rand.Int(g.random, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrRandomSource, err)
	}
	return int(v.Int64()), nil
}
