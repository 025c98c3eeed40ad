package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/nao1215/smartpass/internal/hasher"
)

// DefaultConfigFile is the default configuration file name.
const DefaultConfigFile = ".smartpass"

// XDGConfigFile is the configuration file name inside XDGConfigDir.
const XDGConfigFile = "config.yaml"

// LoadConfigFile loads a YAML configuration file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}

	var cf File
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return &cf, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .smartpass in the current directory
// 3. Look for .smartpass in the user's home directory
// 4. Look for config.yaml in the XDG config directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	candidates := make([]string, 0, 3)
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), XDGConfigFile))

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// LookupFunc reads an environment variable. os.LookupEnv satisfies it.
type LookupFunc func(key string) (string, bool)

// Load builds a Config from defaults, the configuration file and the
// environment. An explicit configPath that does not exist is an error; a
// missing file found by searching is not.
func Load(configPath string, lookup LookupFunc) (*Config, error) {
	cfg := NewConfig()

	path := FindConfigFile(configPath)
	if configPath != "" && path == "" {
		return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, configPath)
	}
	if path != "" {
		cf, err := LoadConfigFile(path)
		if err != nil {
			return nil, err
		}
		cf.Apply(cfg)
		cfg.ConfigFilePath = path
	}

	if lookup != nil {
		if err := ApplyEnv(cfg, lookup); err != nil {
			return nil, err
		}
	}
	return cfg, nil
}

// Environment variables read by ApplyEnv. CORS_ORIGINS and DEBUG are also
// accepted without the prefix.
const (
	EnvAddr                 = "SMARTPASS_ADDR"
	EnvCORSOrigins          = "SMARTPASS_CORS_ORIGINS"
	EnvDebug                = "SMARTPASS_DEBUG"
	EnvWordlistDir          = "SMARTPASS_WORDLIST_DIR"
	EnvWordlist             = "SMARTPASS_WORDLIST"
	EnvDataDir              = "SMARTPASS_DATA_DIR"
	EnvNoStore              = "SMARTPASS_NO_STORE"
	EnvHashAlgorithm        = "SMARTPASS_HASH_ALGORITHM"
	EnvModel                = "SMARTPASS_MODEL"
	EnvMaxConcurrentAttacks = "SMARTPASS_MAX_CONCURRENT_ATTACKS"
	EnvRequestTimeout       = "SMARTPASS_REQUEST_TIMEOUT"
	EnvMaxConnections       = "SMARTPASS_MAX_CONNECTIONS"
	EnvLogFormat            = "SMARTPASS_LOG_FORMAT"

	envLegacyCORSOrigins = "CORS_ORIGINS"
	envLegacyDebug       = "DEBUG"
)

// ApplyEnv overlays environment variables onto c. Prefixed variables win
// over their unprefixed forms.
func ApplyEnv(c *Config, lookup LookupFunc) error {
	get := func(keys ...string) (string, bool) {
		for _, k := range keys {
			if v, ok := lookup(k); ok && strings.TrimSpace(v) != "" {
				return strings.TrimSpace(v), true
			}
		}
		return "", false
	}

	if v, ok := get(EnvAddr); ok {
		c.Addr = v
	}
	if v, ok := get(EnvCORSOrigins, envLegacyCORSOrigins); ok {
		c.CORSOrigins = splitList(v)
	}
	if v, ok := get(EnvDebug, envLegacyDebug); ok {
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("%w: DEBUG=%q", ErrInvalidEnv, v)
		}
		c.Verbose = b
	}
	if v, ok := get(EnvWordlistDir); ok {
		c.WordlistDir = v
	}
	if v, ok := get(EnvWordlist); ok {
		c.Wordlist = v
	}
	if v, ok := get(EnvDataDir); ok {
		c.DataDir = v
	}
	if v, ok := get(EnvNoStore); ok {
		b, err := parseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvNoStore, v)
		}
		c.NoStore = b
	}
	if v, ok := get(EnvHashAlgorithm); ok {
		c.HashAlgorithm = hasher.Algorithm(v)
	}
	if v, ok := get(EnvModel); ok {
		c.ModelPath = v
	}
	if v, ok := get(EnvMaxConcurrentAttacks); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvMaxConcurrentAttacks, v)
		}
		c.MaxConcurrentAttacks = n
	}
	if v, ok := get(EnvRequestTimeout); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvRequestTimeout, v)
		}
		c.RequestTimeout = d
	}
	if v, ok := get(EnvMaxConnections); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrInvalidEnv, EnvMaxConnections, v)
		}
		c.MaxConnections = n
	}
	if v, ok := get(EnvLogFormat); ok {
		c.LogFormat = strings.ToLower(v)
	}
	return nil
}

// parseBool accepts strconv.ParseBool values in any case, so the "True"
// written for the Flask-era DEBUG variable keeps working.
func parseBool(v string) (bool, error) {
	return strconv.ParseBool(strings.ToLower(v))
}

// splitList splits a comma separated list and drops empty items.
func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
