package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"

	"github.com/nao1215/smartpass/internal/candidate"
	"github.com/nao1215/smartpass/internal/hasher"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "smartpass"

	// DefaultAddr is the listen address of the HTTP service.
	DefaultAddr = "0.0.0.0:5000"

	// DefaultCORSOrigin is the only origin allowed by default.
	DefaultCORSOrigin = "https://smartpass.lowewilliam.com"

	// DefaultWordlist is the wordlist used when a request names none.
	DefaultWordlist = "dictionnaire.txt"

	// DefaultCharset is the brute-force alphabet: lowercase letters then digits.
	DefaultCharset = "abcdefghijklmnopqrstuvwxyz0123456789"

	// DefaultMinLength and DefaultMaxLength bound brute-force candidates.
	DefaultMinLength = 1
	DefaultMaxLength = 4

	// DefaultMaxAttempts is the brute-force attempt budget.
	// 36^1 + ... + 36^4 candidates fit in it.
	DefaultMaxAttempts = 2_000_000

	// DefaultTimeBudget is the brute-force wall-clock budget.
	DefaultTimeBudget = 10 * time.Second

	// MaxLengthCeiling, MaxAttemptsCeiling and TimeBudgetCeiling cap what an
	// HTTP client may ask for.
	MaxLengthCeiling   = 8
	MaxAttemptsCeiling = 100_000_000
	TimeBudgetCeiling  = 60 * time.Second

	// DefaultDictionaryMaxAttempts caps dictionary runs of the service.
	DefaultDictionaryMaxAttempts = 50_000_000

	// DefaultDictionaryTimeBudget caps dictionary runs of the service.
	DefaultDictionaryTimeBudget = 30 * time.Second

	// DefaultMaxConcurrentAttacks is the number of attacks the service runs at once.
	DefaultMaxConcurrentAttacks = 4

	// DefaultRequestTimeout bounds a whole HTTP request, including the wait
	// for an attack slot. It exceeds TimeBudgetCeiling so a full-budget
	// attack can still answer.
	DefaultRequestTimeout = 90 * time.Second

	// DefaultMaxConnections caps simultaneous connections to the listener.
	DefaultMaxConnections = 256

	// DefaultAuditConcurrency is the number of digests audited in parallel.
	DefaultAuditConcurrency = 4

	// LogFormatText and LogFormatJSON select the slog handler.
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultCORSOrigins returns the default allowed origins.
func DefaultCORSOrigins() []string {
	return []string{DefaultCORSOrigin}
}

// Config holds all configuration options for SmartPass.
// It is populated from defaults, the configuration file, the environment
// and CLI flags, then passed down explicitly.
type Config struct {
	// Addr is the HTTP listen address in "host:port" format.
	Addr string

	// CORSOrigins are the origins allowed to call the service.
	CORSOrigins []string

	// WordlistDir is the only directory wordlists are read from.
	WordlistDir string

	// Wordlist is the default wordlist name inside WordlistDir.
	Wordlist string

	// DataDir holds the SQLite database.
	DataDir string

	// NoStore disables persistence of credentials and attack results.
	NoStore bool

	// HashAlgorithm is the digest algorithm of this deployment.
	HashAlgorithm hasher.Algorithm

	// ModelPath is an optional classifier artifact replacing the embedded one.
	ModelPath string

	// Charset, MinLength, MaxLength, MaxAttempts and TimeBudget are the
	// brute-force defaults.
	Charset     string
	MinLength   int
	MaxLength   int
	MaxAttempts uint64
	TimeBudget  time.Duration

	// MaxLengthLimit, MaxAttemptsLimit and TimeBudgetLimit are the ceilings
	// applied to brute-force overrides sent by clients.
	MaxLengthLimit   int
	MaxAttemptsLimit uint64
	TimeBudgetLimit  time.Duration

	// DictionaryMaxAttempts and DictionaryTimeBudget bound dictionary runs.
	// Zero means no ceiling.
	DictionaryMaxAttempts uint64
	DictionaryTimeBudget  time.Duration

	// MaxConcurrentAttacks is the size of the attack semaphore.
	MaxConcurrentAttacks int

	// RequestTimeout bounds each HTTP request.
	RequestTimeout time.Duration

	// MaxConnections caps open connections. Zero means unlimited.
	MaxConnections int

	// AuditConcurrency is the number of digests audited in parallel.
	AuditConcurrency int

	// LogFormat is "text" or "json".
	LogFormat string

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the configuration file that was loaded, if any.
	ConfigFilePath string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Addr:                  DefaultAddr,
		CORSOrigins:           DefaultCORSOrigins(),
		WordlistDir:           filepath.Join(XDGDataDir(), "wordlists"),
		Wordlist:              DefaultWordlist,
		DataDir:               XDGDataDir(),
		HashAlgorithm:         hasher.DefaultAlgorithm,
		Charset:               DefaultCharset,
		MinLength:             DefaultMinLength,
		MaxLength:             DefaultMaxLength,
		MaxAttempts:           DefaultMaxAttempts,
		TimeBudget:            DefaultTimeBudget,
		MaxLengthLimit:        MaxLengthCeiling,
		MaxAttemptsLimit:      MaxAttemptsCeiling,
		TimeBudgetLimit:       TimeBudgetCeiling,
		DictionaryMaxAttempts: DefaultDictionaryMaxAttempts,
		DictionaryTimeBudget:  DefaultDictionaryTimeBudget,
		MaxConcurrentAttacks:  DefaultMaxConcurrentAttacks,
		RequestTimeout:        DefaultRequestTimeout,
		MaxConnections:        DefaultMaxConnections,
		AuditConcurrency:      DefaultAuditConcurrency,
		LogFormat:             LogFormatText,
	}
}

// XDGDataDir returns the XDG data directory for SmartPass.
// On Linux: ~/.local/share/smartpass
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for SmartPass.
// On Linux: ~/.config/smartpass
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.Addr == "" {
		return ErrInvalidAddr
	}
	if _, err := hasher.New(c.HashAlgorithm); err != nil {
		return err
	}
	if _, err := candidate.ParseCharset(c.Charset); err != nil {
		return ErrInvalidCharset
	}
	if c.MaxLengthLimit < 1 || c.MaxLengthLimit > candidate.MaxLength {
		return ErrInvalidLength
	}
	if c.MinLength < 1 || c.MinLength > c.MaxLength || c.MaxLength > c.MaxLengthLimit {
		return ErrInvalidLength
	}
	if c.MaxAttempts == 0 || c.MaxAttempts > c.MaxAttemptsLimit {
		return ErrInvalidAttempts
	}
	if c.TimeBudget <= 0 || c.TimeBudget > c.TimeBudgetLimit {
		return ErrInvalidTimeBudget
	}
	if c.DictionaryTimeBudget < 0 {
		return ErrInvalidTimeBudget
	}
	if c.MaxConcurrentAttacks <= 0 {
		return ErrInvalidConcurrency
	}
	if c.AuditConcurrency <= 0 {
		return ErrInvalidConcurrency
	}
	if c.RequestTimeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.MaxConnections < 0 {
		return ErrInvalidMaxConnections
	}
	if c.LogFormat != LogFormatText && c.LogFormat != LogFormatJSON {
		return ErrInvalidLogFormat
	}
	return nil
}
