package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/smartpass/internal/server"
)

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the SmartPass HTTP service",
		Long: `Serve starts the HTTP API used by the SmartPass web client.

Routes:
  POST /verifier                 classify the strength of a password
  GET  /generer                  generate and store a random credential
  POST /attacker/brute_force     brute-force a digest
  POST /attacker/dictionary      run a dictionary attack against a digest
  GET  /healthz                  liveness and storage check

Attacks are bounded by the configured budgets and run at most
--max-concurrent at a time. The server shuts down gracefully on SIGINT or
SIGTERM.

Examples:
  # Listen on the default address (0.0.0.0:5000)
  smartpass serve

  # Listen on localhost only, without persistence
  smartpass serve --addr 127.0.0.1:8080 --no-store

  # Use wordlists from a custom directory
  smartpass serve --wordlist-dir /srv/wordlists`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}

	cmd.Flags().String("addr", "", "Listen address (default: 0.0.0.0:5000)")
	cmd.Flags().String("wordlist-dir", "", "Directory wordlists are read from")
	cmd.Flags().Bool("no-store", false, "Do not persist credentials or attack results")
	cmd.Flags().Int("max-concurrent", 0, "Maximum number of attacks running at once")

	return cmd
}

// runServe executes the serve command.
func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
		cfg.Addr = addr
	}
	if dir, _ := cmd.Flags().GetString("wordlist-dir"); dir != "" {
		cfg.WordlistDir = dir
	}
	if noStore, _ := cmd.Flags().GetBool("no-store"); noStore {
		cfg.NoStore = true
	}
	if n, _ := cmd.Flags().GetInt("max-concurrent"); n > 0 {
		cfg.MaxConcurrentAttacks = n
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg)

	h, err := newHasher(cfg)
	if err != nil {
		return err
	}
	clf, err := loadClassifier(cfg)
	if err != nil {
		return fmt.Errorf("failed to load classifier: %w", err)
	}

	deps := server.Dependencies{
		Hasher:     h,
		Classifier: clf,
		Resolver:   newResolver(cfg),
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer func() {
			if cerr := store.Close(); cerr != nil {
				logger.Warn("failed to close database", "error", cerr)
			}
		}()
		deps.Store = store
	}

	srv, err := server.New(cfg, deps, server.WithLogger(logger))
	if err != nil {
		return err
	}

	ctx, stop := signalContext(context.Background())
	defer stop()

	fmt.Fprintf(cmd.ErrOrStderr(), "SmartPass listening on %s\n", cfg.Addr)
	return srv.ListenAndServe(ctx)
}
