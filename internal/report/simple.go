package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/nao1215/smartpass/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
type SimpleWriter struct {
	baseWriter

	// verbose adds every engine run under each digest.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// WithReveal prints recovered passwords instead of masking them.
func WithReveal(reveal bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.reveal = reveal
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the audit in human-readable format.
func (w *SimpleWriter) Write(audit *Audit) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, audit)
	w.writeSummary(&sb, audit.Summary)
	w.writeDigests(&sb, audit.Reports)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

func rule(sb *strings.Builder, ch string) {
	sb.WriteString(strings.Repeat(ch, 70))
	sb.WriteString("\n")
}

// writeHeader writes the report header.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, audit *Audit) {
	sb.WriteString("\n")
	rule(sb, "=")
	sb.WriteString("                      SMARTPASS AUDIT REPORT\n")
	rule(sb, "=")
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Generated: %s\n", audit.GeneratedAt.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(sb, "Digests:   %d\n\n", audit.Summary.Total)
}

// writeSummary writes the batch summary.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, s model.AuditSummary) {
	rule(sb, "-")
	sb.WriteString("SUMMARY\n")
	rule(sb, "-")
	sb.WriteString("\n")

	fmt.Fprintf(sb, "  CRACKED:     %d (%.1f%%)\n", s.Cracked, s.CrackRate()*100)
	fmt.Fprintf(sb, "  NOT CRACKED: %d\n", s.Total-s.Cracked-s.Failed)
	fmt.Fprintf(sb, "  FAILED:      %d\n", s.Failed)
	sb.WriteString("\n")

	if s.Cracked > 0 {
		fmt.Fprintf(sb, "  by dictionary:  %d\n", s.ByEngine[model.EngineDictionary])
		fmt.Fprintf(sb, "  by brute force: %d\n", s.ByEngine[model.EngineBruteForce])
		sb.WriteString("\n")
	}
	if len(s.ByLabel) > 0 {
		for _, l := range model.Labels {
			fmt.Fprintf(sb, "  %-7s passwords: %d\n", l, s.ByLabel[l])
		}
		sb.WriteString("\n")
	}
}

// writeDigests writes one block per audited digest.
func (w *SimpleWriter) writeDigests(sb *strings.Builder, reports []*model.AuditReport) {
	if len(reports) == 0 {
		return
	}

	rule(sb, "-")
	sb.WriteString("DIGESTS\n")
	rule(sb, "-")
	sb.WriteString("\n")

	for _, r := range reports {
		if r == nil {
			sb.WriteString("  [?] not audited\n\n")
			continue
		}

		indicator := "-"
		if r.Cracked {
			indicator = "!!"
		}
		fmt.Fprintf(sb, "  [%s] %s\n", indicator, displayName(r))
		fmt.Fprintf(sb, "    Digest:   %s\n", r.Digest)
		fmt.Fprintf(sb, "    Status:   %s\n", status(r))
		if r.Cracked {
			fmt.Fprintf(sb, "    Password: %s (%s)\n", w.plaintext(r.Plaintext), r.CrackedBy())
			if r.Strength != nil {
				fmt.Fprintf(sb, "    Strength: %s\n", *r.Strength)
			}
		}
		fmt.Fprintf(sb, "    Attempts: %d\n", r.TotalAttempts())

		if w.verbose {
			for _, res := range r.Results {
				fmt.Fprintf(sb, "    - %s: %s after %d attempts in %dms\n",
					res.Engine, res.TerminationReason, res.Attempts, res.ElapsedMillis)
			}
		}
		sb.WriteString("\n")
	}
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	rule(sb, "=")
	sb.WriteString("Report generated by SmartPass\n")
	sb.WriteString("https://github.com/nao1215/smartpass\n")
	rule(sb, "=")
}
