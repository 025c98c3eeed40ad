package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// NewWordlistsCmd creates the wordlists command.
func NewWordlistsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wordlists",
		Short: "List the wordlists available to dictionary attacks",
		Long: `Wordlists lists the files of the wordlist directory. Only these files can
be named by dictionary attacks, through the API or the command line.

Examples:
  smartpass wordlists
  smartpass wordlists --json`,
		Args: cobra.NoArgs,
		RunE: runWordlists,
	}

	cmd.Flags().String("wordlist-dir", "", "Directory wordlists are read from")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")

	return cmd
}

// runWordlists executes the wordlists command.
func runWordlists(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	if dir, _ := cmd.Flags().GetString("wordlist-dir"); dir != "" {
		cfg.WordlistDir = dir
	}
	setupLogger(cfg)

	resolver := newResolver(cfg)
	entries, err := resolver.List()
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
		return encodeJSON(w, entries)
	}

	if len(entries) == 0 {
		fmt.Fprintf(w, "No wordlists in %s\n", resolver.Dir())
		return nil
	}

	fmt.Fprintf(w, "Wordlists in %s:\n\n", resolver.Dir())
	for _, e := range entries {
		marker := ""
		if e.Name == resolver.DefaultName() {
			marker = " (default)"
		}
		kind := "plain"
		if e.Compressed {
			kind = "gzip"
		}
		fmt.Fprintf(w, "  %-30s  %10s  %-5s%s\n", e.Name, humanize.Bytes(uint64(e.Size)), kind, marker) //nolint:gosec // sizes are never negative
	}
	return nil
}
