package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/nao1215/smartpass/internal/model"
)

// Format names an output format.
type Format string

const (
	// FormatText is the human-readable terminal format.
	FormatText Format = "text"
	// FormatJSON is the machine-readable format.
	FormatJSON Format = "json"
	// FormatMarkdown is the shareable document format.
	FormatMarkdown Format = "markdown"
)

// ErrUnknownFormat is returned by NewWriter for an unsupported format.
var ErrUnknownFormat = model.NewError(model.ErrValidation, "unknown report format")

// Formats lists the supported output formats.
func Formats() []Format {
	return []Format{FormatText, FormatJSON, FormatMarkdown}
}

// mask replaces a recovered password in unrevealed output.
const mask = "********"

// Audit is a batch of audit reports with its summary.
type Audit struct {
	// GeneratedAt is when the audit finished.
	GeneratedAt time.Time `json:"generated_at"`

	// Summary aggregates Reports.
	Summary model.AuditSummary `json:"summary"`

	// Reports holds one entry per audited digest, in input order.
	Reports []*model.AuditReport `json:"reports"`
}

// NewAudit wraps reports and computes their summary.
func NewAudit(reports []*model.AuditReport) *Audit {
	return &Audit{
		GeneratedAt: time.Now(),
		Summary:     model.Summarize(reports),
		Reports:     reports,
	}
}

// Writer defines the interface for report output.
type Writer interface {
	// Write outputs the audit and returns the number of bytes written.
	Write(audit *Audit) (int, error)
}

// NewWriter returns the writer for format. reveal disables plaintext masking.
func NewWriter(format Format, output io.Writer, reveal bool) (Writer, error) {
	switch Format(strings.ToLower(string(format))) {
	case FormatText, "":
		return NewSimpleWriter(output, WithReveal(reveal)), nil
	case FormatJSON:
		return NewJSONWriter(output, WithPrettyPrint(), WithJSONReveal(reveal)), nil
	case FormatMarkdown, "md":
		return NewMarkdownWriter(output, WithMarkdownReveal(reveal)), nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: text, json, markdown)", ErrUnknownFormat, format)
	}
}

// MultiWriter writes to multiple Writers in turn.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the audit to all configured Writers.
// Returns the total bytes written. Stops on first error encountered.
func (m *MultiWriter) Write(audit *Audit) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(audit)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
	reveal bool
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// plaintext returns p, or the mask when revealing is off.
func (b baseWriter) plaintext(p string) string {
	if p == "" || b.reveal {
		return p
	}
	return mask
}

// redacted returns a copy of audit with every plaintext masked, or audit
// itself when revealing is on.
func (b baseWriter) redacted(audit *Audit) *Audit {
	if b.reveal {
		return audit
	}
	out := *audit
	out.Reports = make([]*model.AuditReport, len(audit.Reports))
	for i, r := range audit.Reports {
		if r == nil {
			continue
		}
		cp := *r
		cp.Plaintext = b.plaintext(r.Plaintext)
		cp.Results = make([]model.AttackResult, len(r.Results))
		for j, res := range r.Results {
			res.Plaintext = b.plaintext(res.Plaintext)
			cp.Results[j] = res
		}
		out.Reports[i] = &cp
	}
	return &out
}

// status describes how an audit of one digest ended.
func status(r *model.AuditReport) string {
	switch {
	case r.ErrorMessage != "":
		return "ERROR - " + r.ErrorMessage
	case r.TimedOut:
		return "TIMED OUT"
	case r.Cracked:
		return "CRACKED"
	default:
		return "NOT CRACKED"
	}
}

// displayName returns the label of r, or a shortened digest.
func displayName(r *model.AuditReport) string {
	if r.Label != "" {
		return r.Label
	}
	return truncateString(r.Digest, 19)
}

// truncateString truncates a string to maxLen bytes with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
