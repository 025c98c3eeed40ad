package report

import (
	"io"
	"strconv"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/nao1215/smartpass/internal/model"
)

// MarkdownWriter outputs reports in Markdown format for documentation and sharing.
type MarkdownWriter struct {
	baseWriter
}

// MarkdownWriterOption configures a MarkdownWriter.
type MarkdownWriterOption func(*MarkdownWriter)

// WithMarkdownReveal prints recovered passwords instead of masking them.
func WithMarkdownReveal(reveal bool) MarkdownWriterOption {
	return func(w *MarkdownWriter) {
		w.reveal = reveal
	}
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer, opts ...MarkdownWriterOption) *MarkdownWriter {
	w := &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Write outputs the audit in Markdown format.
func (w *MarkdownWriter) Write(audit *Audit) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, audit)
	w.writeSummary(md, audit.Summary)
	w.writeDigests(md, audit.Reports)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, audit *Audit) {
	md.H1("SmartPass Audit Report")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows: [][]string{
			{"Generated", audit.GeneratedAt.Format("2006-01-02 15:04:05 MST")},
			{"Digests", strconv.Itoa(audit.Summary.Total)},
		},
	})
	md.PlainText("")
}

// writeSummary writes the summary table, chart and alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, s model.AuditSummary) {
	md.H2("Summary")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Outcome", "Count"},
		Rows: [][]string{
			{"🔴 Cracked by dictionary", strconv.Itoa(s.ByEngine[model.EngineDictionary])},
			{"🟠 Cracked by brute force", strconv.Itoa(s.ByEngine[model.EngineBruteForce])},
			{"🟢 Not cracked", strconv.Itoa(s.Total - s.Cracked - s.Failed)},
			{"⚪ Failed", strconv.Itoa(s.Failed)},
			{"**Total**", "**" + strconv.Itoa(s.Total) + "**"},
		},
	})
	md.PlainText("")

	if s.Total > 0 {
		w.writePieChart(md, s)
	}
	w.writeAlert(md, s)
}

// writePieChart writes a mermaid pie chart of audit outcomes.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, s model.AuditSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Audit Outcomes"),
		piechart.WithShowData(true),
	)

	if n := s.ByEngine[model.EngineDictionary]; n > 0 {
		chart.LabelAndIntValue("Dictionary", uint64(n))
	}
	if n := s.ByEngine[model.EngineBruteForce]; n > 0 {
		chart.LabelAndIntValue("Brute force", uint64(n))
	}
	if n := s.Total - s.Cracked - s.Failed; n > 0 {
		chart.LabelAndIntValue("Not cracked", uint64(n))
	}
	if s.Failed > 0 {
		chart.LabelAndIntValue("Failed", uint64(s.Failed))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert matching the crack rate.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, s model.AuditSummary) {
	switch {
	case s.Cracked > 0 && s.ByEngine[model.EngineDictionary] > 0:
		md.Cautionf(
			"%d password(s) were found in a wordlist and should be changed immediately.",
			s.ByEngine[model.EngineDictionary],
		)
	case s.Cracked > 0:
		md.Warningf(
			"%d password(s) fell to brute force within the configured budget.",
			s.Cracked,
		)
	case s.Failed > 0:
		md.Importantf("%d digest(s) could not be audited.", s.Failed)
	default:
		md.Tip("No password was recovered within the configured budgets.")
	}
	md.PlainText("")
}

// writeDigests writes a table with one row per digest and per-digest details.
func (w *MarkdownWriter) writeDigests(md *markdown.Markdown, reports []*model.AuditReport) {
	md.H2("Digests")
	md.PlainText("")

	if len(reports) == 0 {
		md.PlainText("No digests audited.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(reports))
	for _, r := range reports {
		if r == nil {
			rows = append(rows, []string{"-", "-", "not audited", "-", "-", "-"})
			continue
		}
		password, engine, strength := "-", "-", "-"
		if r.Cracked {
			password = "`" + w.plaintext(r.Plaintext) + "`"
			engine = string(r.CrackedBy())
			if r.Strength != nil {
				strength = r.Strength.String()
			}
		}
		rows = append(rows, []string{
			displayName(r),
			"`" + truncateString(r.Digest, 19) + "`",
			status(r),
			password,
			engine,
			strength,
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Name", "Digest", "Status", "Password", "Engine", "Strength"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, r := range reports {
		if r == nil || len(r.Results) == 0 {
			continue
		}
		md.Details(displayName(r), w.runsText(r.Results))
	}
	md.PlainText("")
}

// runsText lists every engine run of one digest.
func (w *MarkdownWriter) runsText(results []model.AttackResult) string {
	text := ""
	for _, res := range results {
		text += string(res.Engine) + ": " + res.TerminationReason.String() +
			" after " + strconv.FormatUint(res.Attempts, 10) + " attempts in " +
			strconv.FormatInt(res.ElapsedMillis, 10) + "ms\n"
	}
	return text
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [SmartPass](https://github.com/nao1215/smartpass)*")
}
