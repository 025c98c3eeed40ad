package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"github.com/nao1215/smartpass/internal/attack"
	"github.com/nao1215/smartpass/internal/audit"
	"github.com/nao1215/smartpass/internal/model"
	"github.com/nao1215/smartpass/internal/report"
)

// NewAuditCmd creates the audit command.
func NewAuditCmd() *cobra.Command {
	formats := make([]string, 0, len(report.Formats()))
	for _, f := range report.Formats() {
		formats = append(formats, string(f))
	}

	cmd := &cobra.Command{
		Use:   "audit [file]",
		Short: "Audit a list of password digests",
		Long: `Audit runs the dictionary attack, then the brute-force attack, against
every digest of a file and classifies the strength of each recovered
password.

The file holds one digest per line, optionally prefixed by a label
("alice:5e8848..."). Blank lines and lines starting with # are ignored.
Read standard input with "-" or no argument.

Recovered passwords are masked in the report unless --reveal is given.

Examples:
  # Text report on the terminal
  smartpass audit hashes.txt

  # Markdown report file, dictionary attack only
  smartpass audit --no-brute --format markdown --output audit.md hashes.txt

  # JSON report from stdin
  cat hashes.txt | smartpass audit --format json -`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAudit,
	}

	cmd.Flags().String("format", string(report.FormatText),
		"Report format ("+strings.Join(formats, ", ")+")")
	cmd.Flags().StringP("output", "o", "", "Write the report to this file instead of stdout")
	cmd.Flags().Bool("reveal", false, "Show recovered passwords in the report")
	cmd.Flags().Int("concurrency", 0, "Digests audited in parallel")
	cmd.Flags().StringP("wordlist", "w", "", "Wordlist name in the wordlist directory")
	cmd.Flags().Bool("no-brute", false, "Skip the brute-force attack")
	cmd.Flags().Bool("no-dict", false, "Skip the dictionary attack")
	cmd.Flags().Bool("no-store", false, "Do not persist attack results")

	return cmd
}

// runAudit executes the audit command.
func runAudit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	if noStore, _ := flags.GetBool("no-store"); noStore {
		cfg.NoStore = true
	}
	if n, _ := flags.GetInt("concurrency"); n > 0 {
		cfg.AuditConcurrency = n
	}
	if name, _ := flags.GetString("wordlist"); name != "" {
		cfg.Wordlist = name
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	logger := setupLogger(cfg)

	format, _ := flags.GetString("format")
	reveal, _ := flags.GetBool("reveal")
	noBrute, _ := flags.GetBool("no-brute")
	noDict, _ := flags.GetBool("no-dict")
	outputPath, _ := flags.GetString("output")

	// Reject the format before any attack runs.
	if _, err := report.NewWriter(report.Format(format), io.Discard, reveal); err != nil {
		return err
	}

	targets, err := readTargets(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("no digests to audit")
	}

	h, err := newHasher(cfg)
	if err != nil {
		return err
	}
	clf, err := loadClassifier(cfg)
	if err != nil {
		return fmt.Errorf("failed to load classifier: %w", err)
	}
	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	setup := audit.Setup{
		Classifier: clf,
		Logger:     logger,
	}
	if store != nil {
		defer store.Close()
		setup.Recorder = store
	}
	if !noDict {
		setup.Dictionary = attack.NewDictionary(h, attack.WithLogger(logger))
		setup.Resolver = newResolver(cfg)
		setup.Wordlist = cfg.Wordlist
		setup.Limits = attack.Limits{
			MaxAttempts: cfg.DictionaryMaxAttempts,
			TimeBudget:  cfg.DictionaryTimeBudget,
		}
	}
	if !noBrute {
		setup.BruteForce = attack.NewBruteForce(h, attack.WithLogger(logger))
		setup.Params = attack.Params{
			Charset:     cfg.Charset,
			MinLen:      cfg.MinLength,
			MaxLen:      cfg.MaxLength,
			MaxAttempts: cfg.MaxAttempts,
			TimeBudget:  cfg.TimeBudget,
		}
	}

	processor := audit.NewBatchProcessor(
		func() *audit.Pipeline { return audit.StandardPipeline(setup) },
		audit.WithConcurrency(cfg.AuditConcurrency),
		audit.WithBatchLogger(logger),
	)

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	progress := cmd.ErrOrStderr()
	reports := make([]*model.AuditReport, len(targets))
	var mu sync.Mutex
	finished := 0
	err = processor.ProcessBatchWithCallback(ctx, targets, func(r *model.AuditReport, i int) {
		mu.Lock()
		defer mu.Unlock()
		reports[i] = r
		finished++
		fmt.Fprintf(progress, "[%d/%d] %s: %s\n", finished, len(targets), displayName(r), outcome(r))
	})
	if err != nil {
		return fmt.Errorf("audit failed: %w", err)
	}

	out := cmd.OutOrStdout()
	if outputPath != "" {
		f, err := os.Create(outputPath) //nolint:gosec // path is given by the operator
		if err != nil {
			return fmt.Errorf("failed to create report file: %w", err)
		}
		defer f.Close()
		out = f
	}

	writer, err := report.NewWriter(report.Format(format), out, reveal)
	if err != nil {
		return err
	}
	if _, err := writer.Write(report.NewAudit(reports)); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	if outputPath != "" {
		fmt.Fprintf(progress, "Report written to %s\n", outputPath)
	}
	return nil
}

// readTargets parses the file named by args, or r when args is empty or "-".
func readTargets(r io.Reader, args []string) ([]audit.Target, error) {
	if len(args) == 0 || args[0] == "-" {
		return audit.ParseTargets(r)
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, fmt.Errorf("failed to open digest list: %w", err)
	}
	defer f.Close()
	return audit.ParseTargets(f)
}

// displayName returns the label of r, or its digest prefix.
func displayName(r *model.AuditReport) string {
	if r.Label != "" {
		return r.Label
	}
	if len(r.Digest) > 12 {
		return r.Digest[:12]
	}
	return r.Digest
}

// outcome is the one-word progress status of r.
func outcome(r *model.AuditReport) string {
	switch {
	case r.Error != nil || r.ErrorMessage != "":
		return "failed"
	case r.Cracked:
		return "cracked by " + string(r.CrackedBy())
	default:
		return "not cracked"
	}
}
