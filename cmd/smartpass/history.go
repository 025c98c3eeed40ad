package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nao1215/smartpass/internal/database"
	"github.com/nao1215/smartpass/internal/hasher"
	"github.com/nao1215/smartpass/internal/model"
)

// defaultHistoryLimit bounds history listings.
const defaultHistoryLimit = 20

// credentialRow is the JSON form of a stored credential.
type credentialRow struct {
	ID             int64     `json:"id"`
	HashedPassword string    `json:"hashed_password"`
	Password       string    `json:"password,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

// NewHistoryCmd creates the history command.
// This command lists attack results and generated credentials stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [digest]",
		Short: "Show stored attack results and credentials",
		Long: `History lists the attack results stored by "smartpass serve", "smartpass
attack" and "smartpass audit", newest first.

Give a digest to see only the runs against it, which also shows whether an
unfinished brute-force run can be resumed.

Examples:
  # Latest attack results
  smartpass history

  # Brute-force runs against one digest
  smartpass history --engine brute_force 5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8

  # Generated credentials, with their decrypted passwords
  smartpass history --credentials --reveal`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().StringP("engine", "e", "", "Only show results of this engine (brute_force, dictionary)")
	cmd.Flags().IntP("limit", "n", defaultHistoryLimit, "Maximum number of rows")
	cmd.Flags().Bool("credentials", false, "List generated credentials instead of attack results")
	cmd.Flags().Bool("reveal", false, "Show plaintext passwords")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	engine, _ := flags.GetString("engine")
	limit, _ := flags.GetInt("limit")
	listCredentials, _ := flags.GetBool("credentials")
	reveal, _ := flags.GetBool("reveal")
	jsonOutput, _ := flags.GetBool("json")

	// Validate arguments before opening the database.
	if limit < 1 {
		return fmt.Errorf("limit must be at least 1, got %d", limit)
	}
	if engine != "" && engine != string(model.EngineBruteForce) && engine != string(model.EngineDictionary) {
		return fmt.Errorf("unknown engine %q (use brute_force or dictionary)", engine)
	}
	var digest string
	if len(args) > 0 {
		d, err := hasher.NormalizeDigest(args[0])
		if err != nil {
			return err
		}
		digest = d
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if cfg.NoStore {
		return fmt.Errorf("storage is disabled in the configuration")
	}
	logger := setupLogger(cfg)

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	w := cmd.OutOrStdout()

	if listCredentials {
		return listStoredCredentials(ctx, w, store, limit, reveal, jsonOutput)
	}

	records, err := store.ListAttackResults(ctx, database.AttackFilter{
		TargetDigest: digest,
		Engine:       model.Engine(engine),
		Limit:        limit,
	})
	if err != nil {
		return fmt.Errorf("failed to list attack results: %w", err)
	}
	if !reveal {
		for i := range records {
			if records[i].Result.Found {
				records[i].Result.Plaintext = maskedPassword
			}
		}
	}

	if jsonOutput {
		return encodeJSON(w, records)
	}
	printAttackHistory(w, records)
	return nil
}

// maskedPassword replaces plaintext unless --reveal is given.
const maskedPassword = "********"

// printAttackHistory writes records as a table.
func printAttackHistory(w io.Writer, records []database.AttackRecord) {
	if len(records) == 0 {
		fmt.Fprintln(w, "No attack results found in the database.")
		fmt.Fprintln(w, "\nUse 'smartpass attack' or 'smartpass audit' to run attacks.")
		return
	}

	fmt.Fprintf(w, "Attack results (%d):\n\n", len(records))
	fmt.Fprintf(w, "  %-6s  %-19s  %-11s  %-14s  %-20s  %12s  %s\n",
		"ID", "Date", "Engine", "Digest", "Reason", "Attempts", "Plaintext")
	fmt.Fprintln(w, "  "+strings.Repeat("-", 100))
	for _, rec := range records {
		fmt.Fprintf(w, "  %-6d  %-19s  %-11s  %-14s  %-20s  %12d  %s\n",
			rec.ID,
			rec.CreatedAt.Local().Format(time.DateTime),
			rec.Result.Engine,
			shortDigest(rec.TargetDigest),
			rec.Result.TerminationReason,
			rec.Result.Attempts,
			rec.Result.Plaintext,
		)
	}
}

// listStoredCredentials prints the newest generated credentials.
func listStoredCredentials(ctx context.Context, w io.Writer, store *database.Store, limit int, reveal, jsonOutput bool) error {
	records, err := store.ListCredentials(ctx, limit)
	if err != nil {
		return fmt.Errorf("failed to list credentials: %w", err)
	}

	rows := make([]credentialRow, 0, len(records))
	for _, rec := range records {
		row := credentialRow{ID: rec.ID, HashedPassword: rec.HashedPassword, CreatedAt: rec.CreatedAt}
		if reveal {
			password, err := rec.Reveal()
			if err != nil {
				return fmt.Errorf("failed to decrypt credential %d: %w", rec.ID, err)
			}
			row.Password = password
		}
		rows = append(rows, row)
	}

	if jsonOutput {
		return encodeJSON(w, rows)
	}

	if len(rows) == 0 {
		fmt.Fprintln(w, "No credentials found in the database.")
		fmt.Fprintln(w, "\nUse 'smartpass generate' to create one.")
		return nil
	}

	fmt.Fprintf(w, "Credentials (%d):\n\n", len(rows))
	for _, row := range rows {
		password := maskedPassword
		if reveal {
			password = row.Password
		}
		fmt.Fprintf(w, "  %-6d  %-19s  %s  %s\n",
			row.ID, row.CreatedAt.Local().Format(time.DateTime), row.HashedPassword, password)
	}
	return nil
}

// shortDigest returns the first twelve characters of a digest.
func shortDigest(d string) string {
	if len(d) > 12 {
		return d[:12]
	}
	return d
}

// encodeJSON writes v as indented JSON.
func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
