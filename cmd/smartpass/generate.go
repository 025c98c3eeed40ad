package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/nao1215/smartpass/internal/credential"
)

// NewGenerateCmd creates the generate command.
func NewGenerateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate random credentials",
		Long: `Generate creates random passwords containing lowercase and uppercase
letters, digits and symbols, encrypts each with a fresh AES key and IV and
hashes it with the configured algorithm, exactly as GET /generer does.

Generated credentials are stored in the database unless storage is
disabled (--no-store or storage.disabled in the configuration file).

Examples:
  # One 16 character password
  smartpass generate

  # Five 24 character credentials as JSON
  smartpass generate --length 24 --count 5 --json`,
		Args: cobra.NoArgs,
		RunE: runGenerate,
	}

	cmd.Flags().IntP("length", "l", credential.DefaultLength,
		fmt.Sprintf("Password length (%d-%d)", credential.MinLength, credential.MaxLength))
	cmd.Flags().IntP("count", "n", 1, "Number of credentials to generate")
	cmd.Flags().BoolP("json", "j", false, "Output the full credentials as JSON")
	cmd.Flags().Bool("no-store", false, "Do not persist the generated credentials")

	return cmd
}

// runGenerate executes the generate command.
func runGenerate(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if noStore, _ := cmd.Flags().GetBool("no-store"); noStore {
		cfg.NoStore = true
	}
	logger := setupLogger(cfg)

	length, _ := cmd.Flags().GetInt("length")
	count, _ := cmd.Flags().GetInt("count")
	jsonOutput, _ := cmd.Flags().GetBool("json")
	if count < 1 {
		return fmt.Errorf("count must be at least 1, got %d", count)
	}

	h, err := newHasher(cfg)
	if err != nil {
		return err
	}
	gen, err := credential.NewGenerator(h, credential.WithLength(length))
	if err != nil {
		return err
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	if store != nil {
		defer store.Close()
	}

	creds := make([]credential.Credential, 0, count)
	for range count {
		c, err := gen.Generate()
		if err != nil {
			return fmt.Errorf("failed to generate credential: %w", err)
		}
		if store != nil {
			if _, err := store.InsertCredential(cmd.Context(), c); err != nil {
				return fmt.Errorf("failed to store credential: %w", err)
			}
		}
		creds = append(creds, c)
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(creds)
	}
	for _, c := range creds {
		fmt.Fprintln(w, c.Password)
	}
	return nil
}
