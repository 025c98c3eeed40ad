package config

import (
	"time"

	"github.com/nao1215/smartpass/internal/hasher"
)

// File represents the structure of the .smartpass configuration file.
// Zero values leave the corresponding Config field untouched.
type File struct {
	Server     ServerSection     `yaml:"server,omitempty"`
	Wordlists  WordlistSection   `yaml:"wordlists,omitempty"`
	BruteForce BruteForceSection `yaml:"brute_force,omitempty"`
	Dictionary DictionarySection `yaml:"dictionary,omitempty"`
	Storage    StorageSection    `yaml:"storage,omitempty"`
	Audit      AuditSection      `yaml:"audit,omitempty"`
	Log        LogSection        `yaml:"log,omitempty"`

	// HashAlgorithm is "sha256" or "sha3-256".
	HashAlgorithm string `yaml:"hash_algorithm,omitempty"`

	// Model is the path of a classifier artifact.
	Model string `yaml:"model,omitempty"`
}

// ServerSection configures the HTTP service.
type ServerSection struct {
	Addr                 string        `yaml:"addr,omitempty"`
	CORSOrigins          []string      `yaml:"cors_origins,omitempty"`
	MaxConcurrentAttacks int           `yaml:"max_concurrent_attacks,omitempty"`
	RequestTimeout       time.Duration `yaml:"request_timeout,omitempty"`
	MaxConnections       int           `yaml:"max_connections,omitempty"`
}

// WordlistSection configures wordlist resolution.
type WordlistSection struct {
	Dir     string `yaml:"dir,omitempty"`
	Default string `yaml:"default,omitempty"`
}

// BruteForceSection holds brute-force defaults and ceilings.
type BruteForceSection struct {
	Charset          string        `yaml:"charset,omitempty"`
	MinLength        int           `yaml:"min_length,omitempty"`
	MaxLength        int           `yaml:"max_length,omitempty"`
	MaxAttempts      uint64        `yaml:"max_attempts,omitempty"`
	TimeBudget       time.Duration `yaml:"time_budget,omitempty"`
	MaxLengthLimit   int           `yaml:"max_length_limit,omitempty"`
	MaxAttemptsLimit uint64        `yaml:"max_attempts_limit,omitempty"`
	TimeBudgetLimit  time.Duration `yaml:"time_budget_limit,omitempty"`
}

// DictionarySection holds dictionary ceilings.
type DictionarySection struct {
	MaxAttempts uint64        `yaml:"max_attempts,omitempty"`
	TimeBudget  time.Duration `yaml:"time_budget,omitempty"`
}

// StorageSection configures persistence.
type StorageSection struct {
	DataDir string `yaml:"data_dir,omitempty"`

	// Disabled turns persistence off when true.
	Disabled *bool `yaml:"disabled,omitempty"`
}

// AuditSection configures batch audits.
type AuditSection struct {
	Concurrency int `yaml:"concurrency,omitempty"`
}

// LogSection configures logging.
type LogSection struct {
	Format  string `yaml:"format,omitempty"`
	Verbose bool   `yaml:"verbose,omitempty"`
}

// Apply overlays the non-zero values of f onto c.
func (f *File) Apply(c *Config) {
	setString(&c.Addr, f.Server.Addr)
	if len(f.Server.CORSOrigins) > 0 {
		c.CORSOrigins = append([]string(nil), f.Server.CORSOrigins...)
	}
	setInt(&c.MaxConcurrentAttacks, f.Server.MaxConcurrentAttacks)
	setDuration(&c.RequestTimeout, f.Server.RequestTimeout)
	setInt(&c.MaxConnections, f.Server.MaxConnections)

	setString(&c.WordlistDir, f.Wordlists.Dir)
	setString(&c.Wordlist, f.Wordlists.Default)

	setString(&c.Charset, f.BruteForce.Charset)
	setInt(&c.MinLength, f.BruteForce.MinLength)
	setInt(&c.MaxLength, f.BruteForce.MaxLength)
	setUint(&c.MaxAttempts, f.BruteForce.MaxAttempts)
	setDuration(&c.TimeBudget, f.BruteForce.TimeBudget)
	setInt(&c.MaxLengthLimit, f.BruteForce.MaxLengthLimit)
	setUint(&c.MaxAttemptsLimit, f.BruteForce.MaxAttemptsLimit)
	setDuration(&c.TimeBudgetLimit, f.BruteForce.TimeBudgetLimit)

	setUint(&c.DictionaryMaxAttempts, f.Dictionary.MaxAttempts)
	setDuration(&c.DictionaryTimeBudget, f.Dictionary.TimeBudget)

	setString(&c.DataDir, f.Storage.DataDir)
	if f.Storage.Disabled != nil {
		c.NoStore = *f.Storage.Disabled
	}

	setInt(&c.AuditConcurrency, f.Audit.Concurrency)

	setString(&c.LogFormat, f.Log.Format)
	if f.Log.Verbose {
		c.Verbose = true
	}

	if f.HashAlgorithm != "" {
		c.HashAlgorithm = hasher.Algorithm(f.HashAlgorithm)
	}
	setString(&c.ModelPath, f.Model)
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

func setInt(dst *int, v int) {
	if v != 0 {
		*dst = v
	}
}

func setUint(dst *uint64, v uint64) {
	if v != 0 {
		*dst = v
	}
}

func setDuration(dst *time.Duration, v time.Duration) {
	if v != 0 {
		*dst = v
	}
}
