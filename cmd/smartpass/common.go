package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/nao1215/smartpass/internal/classifier"
	"github.com/nao1215/smartpass/internal/config"
	"github.com/nao1215/smartpass/internal/database"
	"github.com/nao1215/smartpass/internal/hasher"
	"github.com/nao1215/smartpass/internal/log"
	"github.com/nao1215/smartpass/internal/wordlist"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// getConfigFlag retrieves the config flag from the command or its parent.
func getConfigFlag(cmd *cobra.Command) string {
	path, err := cmd.Flags().GetString("config")
	if err != nil {
		path, err = cmd.Root().PersistentFlags().GetString("config")
		if err != nil {
			return ""
		}
	}
	return path
}

// loadConfig builds the configuration from the config file, the
// environment and the global flags. Commands apply their own flags on top
// and call Validate.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load(getConfigFlag(cmd), os.LookupEnv)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	if getVerboseFlag(cmd) {
		cfg.Verbose = true
	}
	return cfg, nil
}

// setupLogger creates the secure logger described by cfg and makes it the default.
func setupLogger(cfg *config.Config) *slog.Logger {
	logger := log.New(os.Stderr, cfg.LogFormat, cfg.Verbose)
	slog.SetDefault(logger)
	return logger
}

// newHasher returns the hasher of the configured algorithm.
func newHasher(cfg *config.Config) (*hasher.Hasher, error) {
	h, err := hasher.New(cfg.HashAlgorithm)
	if err != nil {
		return nil, fmt.Errorf("configuration error: %w", err)
	}
	return h, nil
}

// loadClassifier loads the configured model, or the embedded one.
func loadClassifier(cfg *config.Config) (*classifier.Classifier, error) {
	if cfg.ModelPath != "" {
		return classifier.Load(cfg.ModelPath)
	}
	return classifier.LoadDefault()
}

// newResolver returns the wordlist resolver of cfg.
func newResolver(cfg *config.Config) *wordlist.Resolver {
	return wordlist.NewResolver(cfg.WordlistDir, cfg.Wordlist)
}

// openStore opens the database unless persistence is disabled, in which
// case it returns nil.
func openStore(cfg *config.Config, logger *slog.Logger) (*database.Store, error) {
	if cfg.NoStore {
		return nil, nil
	}
	store, err := database.Open(cfg.DataDir, database.DefaultOptions())
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	logger.Debug("database opened", "path", store.Path())
	return store, nil
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
