package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/nbutton23/zxcvbn-go"
	"github.com/spf13/cobra"

	"github.com/nao1215/smartpass/internal/classifier"
	"github.com/nao1215/smartpass/internal/feature"
	"github.com/nao1215/smartpass/internal/model"
)

// errNoPassword is returned when neither an argument nor stdin provide a password.
var errNoPassword = model.NewError(model.ErrValidation, "no password given")

// estimate is the independent zxcvbn estimate shown next to the classifier.
type estimate struct {
	Score            int     `json:"score"`
	EntropyBits      float64 `json:"entropy_bits"`
	CrackTimeSeconds float64 `json:"crack_time_seconds"`
	CrackTimeDisplay string  `json:"crack_time_display"`
}

// verifyOutput is the JSON form of the verify command.
type verifyOutput struct {
	Label       model.Label             `json:"label"`
	Features    *feature.Vector         `json:"features,omitempty"`
	Explanation *classifier.Explanation `json:"explanation,omitempty"`
	Estimate    *estimate               `json:"zxcvbn,omitempty"`
}

// NewVerifyCmd creates the verify command.
func NewVerifyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "verify [password]",
		Short: "Classify the strength of a password",
		Long: `Verify classifies a password as weak, medium or strong with the
k-nearest-neighbour model, exactly as POST /verifier does.

When no argument is given the password is read from the first line of
standard input, which keeps it out of the shell history.

Examples:
  # Classify a password
  smartpass verify 'correct horse'

  # Read the password from stdin and show the neighbours behind the label
  echo 'Tr0ub4dor&3' | smartpass verify --explain`,
		Args: cobra.MaximumNArgs(1),
		RunE: runVerify,
	}

	cmd.Flags().BoolP("explain", "e", false,
		"Show the features, the nearest neighbours and a zxcvbn estimate")
	cmd.Flags().BoolP("json", "j", false, "Output JSON")

	return cmd
}

// runVerify executes the verify command.
func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	setupLogger(cfg)

	explain, _ := cmd.Flags().GetBool("explain")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	password, err := readPassword(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	clf, err := loadClassifier(cfg)
	if err != nil {
		return fmt.Errorf("failed to load classifier: %w", err)
	}

	out := verifyOutput{Label: clf.ClassifyPassword(password)}
	if explain {
		vector := feature.Extract(password)
		explanation := clf.Explain(vector)
		out.Features = &vector
		out.Explanation = &explanation
		out.Estimate = estimateStrength(password)
	}

	w := cmd.OutOrStdout()
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	fmt.Fprintf(w, "Strength: %s\n", out.Label)
	if !explain {
		return nil
	}

	fmt.Fprintln(w, "\nFeatures:")
	values := out.Features.Values()
	for i, name := range feature.Names() {
		fmt.Fprintf(w, "  %-22s %.2f\n", name, values[i])
	}

	fmt.Fprintf(w, "\nVotes (k=%d):", clf.K())
	for _, l := range model.Labels {
		fmt.Fprintf(w, " %s=%d", l, out.Explanation.Votes[l])
	}
	fmt.Fprintln(w)
	for _, n := range out.Explanation.Neighbors {
		fmt.Fprintf(w, "  #%-6d %-7s distance %.4f\n", n.Index, n.Label, n.Distance)
	}

	fmt.Fprintln(w, "\nzxcvbn estimate:")
	fmt.Fprintf(w, "  score %d/4, %.1f bits, cracked in %s\n",
		out.Estimate.Score, out.Estimate.EntropyBits, out.Estimate.CrackTimeDisplay)

	return nil
}

// readPassword returns args[0], or the first line of r without its line ending.
func readPassword(r io.Reader, args []string) (string, error) {
	if len(args) > 0 {
		if args[0] == "" {
			return "", errNoPassword
		}
		return args[0], nil
	}

	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	line = strings.TrimRight(line, "\r\n")
	if line == "" {
		return "", errNoPassword
	}
	return line, nil
}

// estimateStrength scores password with zxcvbn.
func estimateStrength(password string) *estimate {
	match := zxcvbn.PasswordStrength(password, nil)
	return &estimate{
		Score:            match.Score,
		EntropyBits:      match.Entropy,
		CrackTimeSeconds: match.CrackTime,
		CrackTimeDisplay: match.CrackTimeDisplay,
	}
}
