package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/nao1215/smartpass/internal/attack"
	"github.com/nao1215/smartpass/internal/config"
	"github.com/nao1215/smartpass/internal/database"
	"github.com/nao1215/smartpass/internal/hasher"
	"github.com/nao1215/smartpass/internal/model"
	"github.com/nao1215/smartpass/internal/wordlist"
)

// attackOutput is the JSON form of an attack command.
type attackOutput struct {
	Digest string             `json:"digest"`
	Source string             `json:"source"`
	Result model.AttackResult `json:"result"`
}

// NewAttackCmd creates the attack command and its engine subcommands.
func NewAttackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attack",
		Short: "Run a brute-force or dictionary attack against a digest",
		Long: `Attack measures how a hashed password resists cracking.

Each run is bounded by an attempt ceiling and a time budget and reports the
number of candidates tried, the elapsed time and why it stopped. Results are
stored in the database unless storage is disabled, so an unfinished
brute-force run can be resumed later with --resume.`,
	}

	cmd.PersistentFlags().StringP("password", "p", "",
		"Attack the digest of this password instead of a digest argument")
	cmd.PersistentFlags().BoolP("json", "j", false, "Output JSON")
	cmd.PersistentFlags().Bool("no-store", false, "Do not persist the attack result")

	cmd.AddCommand(newAttackBruteCmd())
	cmd.AddCommand(newAttackDictCmd())

	return cmd
}

func newAttackBruteCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "brute [digest]",
		Short: "Enumerate every candidate of a charset and length range",
		Long: `Brute enumerates candidates in shortlex order (shorter first, then by
charset order) and hashes each one until it matches the digest.

Defaults come from the brute_force section of the configuration file.

Examples:
  # Digest of "abc" with the default charset
  smartpass attack brute ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad

  # Hash a password and attack it with a small search space
  smartpass attack brute -p 42 --charset 0123456789 --max-length 2

  # Continue the previous unfinished run of the same search space
  smartpass attack brute --resume <digest>`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAttackBrute,
	}

	cmd.Flags().String("charset", "", "Ordered candidate characters")
	cmd.Flags().Int("min-length", 0, "Shortest candidate length")
	cmd.Flags().Int("max-length", 0, "Longest candidate length")
	cmd.Flags().Uint64("max-attempts", 0, "Attempt ceiling")
	cmd.Flags().Duration("time-budget", 0, "Wall time ceiling (e.g. 30s)")
	cmd.Flags().Uint64("start", 0, "Skip this many candidates")
	cmd.Flags().Bool("resume", false, "Start where the last unfinished run of this search space stopped")

	return cmd
}

func newAttackDictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dict [digest]",
		Short: "Replay a wordlist against a digest",
		Long: `Dict streams a wordlist line by line and hashes every word until one
matches the digest. Wordlists are looked up by name in the wordlist
directory; --file reads any file instead. Files ending in .gz are
decompressed on the fly.

Examples:
  # Use the default wordlist
  smartpass attack dict 5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8

  # Use a named wordlist from the wordlist directory
  smartpass attack dict --wordlist rockyou.txt.gz <digest>

  # Use a wordlist outside the wordlist directory
  smartpass attack dict --file ./words.txt -p hello`,
		Args: cobra.MaximumNArgs(1),
		RunE: runAttackDict,
	}

	cmd.Flags().StringP("wordlist", "w", "", "Wordlist name in the wordlist directory")
	cmd.Flags().StringP("file", "f", "", "Wordlist file path")
	cmd.Flags().Uint64("max-attempts", 0, "Attempt ceiling")
	cmd.Flags().Duration("time-budget", 0, "Wall time ceiling (e.g. 30s)")

	return cmd
}

// attackEnv holds what both attack subcommands need.
type attackEnv struct {
	cfg    *config.Config
	logger *slog.Logger
	hasher *hasher.Hasher
	digest string
	store  *database.Store
}

// close releases the store, if any.
func (e *attackEnv) close() {
	if e.store == nil {
		return
	}
	if err := e.store.Close(); err != nil {
		e.logger.Warn("failed to close database", "error", err)
	}
}

// newAttackEnv loads the configuration and resolves the target digest.
func newAttackEnv(cmd *cobra.Command, args []string) (*attackEnv, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if noStore, _ := cmd.Flags().GetBool("no-store"); noStore {
		cfg.NoStore = true
	}
	logger := setupLogger(cfg)

	h, err := newHasher(cfg)
	if err != nil {
		return nil, err
	}

	digest, err := targetDigest(cmd, h, args)
	if err != nil {
		return nil, err
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return nil, err
	}

	return &attackEnv{cfg: cfg, logger: logger, hasher: h, digest: digest, store: store}, nil
}

// targetDigest returns the normalized digest argument, or the digest of --password.
func targetDigest(cmd *cobra.Command, h *hasher.Hasher, args []string) (string, error) {
	password, _ := cmd.Flags().GetString("password")
	switch {
	case password != "" && len(args) > 0:
		return "", fmt.Errorf("give either a digest or --password, not both")
	case password != "":
		return h.Hash(password), nil
	case len(args) == 0:
		return "", fmt.Errorf("a digest or --password is required")
	default:
		return hasher.NormalizeDigest(args[0])
	}
}

// finish stores and prints result.
func (e *attackEnv) finish(ctx context.Context, cmd *cobra.Command, source string, result model.AttackResult) error {
	if e.store != nil {
		rec := &database.AttackRecord{TargetDigest: e.digest, Source: source, Result: result}
		if _, err := e.store.InsertAttackResult(context.WithoutCancel(ctx), rec); err != nil {
			e.logger.Warn("failed to store attack result", "error", err)
		}
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return printAttackResult(cmd.OutOrStdout(), attackOutput{Digest: e.digest, Source: source, Result: result}, jsonOutput)
}

// printAttackResult writes out as JSON or as text.
func printAttackResult(w io.Writer, out attackOutput, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	r := out.Result
	fmt.Fprintf(w, "Engine:   %s (%s)\n", r.Engine, out.Source)
	if r.Found {
		fmt.Fprintf(w, "Result:   FOUND %q\n", r.Plaintext)
	} else {
		fmt.Fprintln(w, "Result:   not found")
	}
	fmt.Fprintf(w, "Attempts: %d\n", r.Attempts)
	fmt.Fprintf(w, "Elapsed:  %s\n", r.Elapsed())
	fmt.Fprintf(w, "Reason:   %s\n", r.TerminationReason)
	if !r.Found && r.NextPosition > 0 && r.TerminationReason != model.ReasonSpaceExhausted {
		fmt.Fprintf(w, "Resume:   --start %d\n", r.NextPosition)
	}
	return nil
}

// runAttackBrute executes the attack brute command.
func runAttackBrute(cmd *cobra.Command, args []string) error {
	env, err := newAttackEnv(cmd, args)
	if err != nil {
		return err
	}
	defer env.close()

	params, err := bruteParams(cmd, env.cfg)
	if err != nil {
		return err
	}

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	if resume, _ := cmd.Flags().GetBool("resume"); resume {
		if env.store == nil {
			return fmt.Errorf("--resume needs storage enabled")
		}
		pos, err := env.store.LatestResumePosition(ctx, env.digest, params.Describe())
		if err != nil {
			return fmt.Errorf("failed to look up resume position: %w", err)
		}
		params.StartPosition = pos
		env.logger.Debug("resuming brute-force run", "position", pos)
	}

	engine := attack.NewBruteForce(env.hasher, attack.WithLogger(env.logger))
	result, err := engine.Attack(ctx, env.digest, params)
	if err != nil {
		return err
	}
	return env.finish(ctx, cmd, params.Describe(), result)
}

// bruteParams builds the search parameters from the configuration and flags.
func bruteParams(cmd *cobra.Command, cfg *config.Config) (attack.Params, error) {
	p := attack.Params{
		Charset:     cfg.Charset,
		MinLen:      cfg.MinLength,
		MaxLen:      cfg.MaxLength,
		MaxAttempts: cfg.MaxAttempts,
		TimeBudget:  cfg.TimeBudget,
	}

	flags := cmd.Flags()
	if flags.Changed("charset") {
		p.Charset, _ = flags.GetString("charset")
	}
	if flags.Changed("min-length") {
		p.MinLen, _ = flags.GetInt("min-length")
	}
	if flags.Changed("max-length") {
		p.MaxLen, _ = flags.GetInt("max-length")
	}
	if flags.Changed("max-attempts") {
		p.MaxAttempts, _ = flags.GetUint64("max-attempts")
	}
	if flags.Changed("time-budget") {
		p.TimeBudget, _ = flags.GetDuration("time-budget")
	}
	p.StartPosition, _ = flags.GetUint64("start")

	if err := p.Validate(); err != nil {
		return attack.Params{}, err
	}
	return p, nil
}

// runAttackDict executes the attack dict command.
func runAttackDict(cmd *cobra.Command, args []string) error {
	env, err := newAttackEnv(cmd, args)
	if err != nil {
		return err
	}
	defer env.close()

	limits := attack.Limits{
		MaxAttempts: env.cfg.DictionaryMaxAttempts,
		TimeBudget:  env.cfg.DictionaryTimeBudget,
	}
	if cmd.Flags().Changed("max-attempts") {
		limits.MaxAttempts, _ = cmd.Flags().GetUint64("max-attempts")
	}
	if cmd.Flags().Changed("time-budget") {
		limits.TimeBudget, _ = cmd.Flags().GetDuration("time-budget")
	}

	source, rc, err := openWordlist(cmd, env.cfg)
	if err != nil {
		return err
	}
	defer rc.Close()

	ctx, stop := signalContext(cmd.Context())
	defer stop()

	engine := attack.NewDictionary(env.hasher, attack.WithLogger(env.logger))
	result, err := engine.Attack(ctx, env.digest, rc, limits)
	if err != nil {
		return err
	}
	return env.finish(ctx, cmd, source, result)
}

// openWordlist opens --file, or the --wordlist name (default wordlist when
// empty) through the resolver. It returns the source name recorded with
// the result.
func openWordlist(cmd *cobra.Command, cfg *config.Config) (string, io.ReadCloser, error) {
	if path, _ := cmd.Flags().GetString("file"); path != "" {
		rc, err := wordlist.OpenFile(path)
		if err != nil {
			return "", nil, err
		}
		return path, rc, nil
	}

	resolver := newResolver(cfg)
	name, _ := cmd.Flags().GetString("wordlist")
	if name == "" {
		name = resolver.DefaultName()
	}
	rc, err := resolver.Open(name)
	if err != nil {
		return "", nil, err
	}
	return name, rc, nil
}
