package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/smartpass/internal/model"
)

// createTestAudit creates an audit with sample data for testing.
func createTestAudit() *Audit {
	weak := model.LabelWeak

	cracked := model.NewAuditReport("5e884898da28047151d0e56f8dc6292773603d0d6aabbdd62a11ef721d1542d8")
	cracked.Label = "alice"
	cracked.AddResult(model.NewMatch(model.EngineDictionary, "password", 2, 3*time.Millisecond))
	cracked.Strength = &weak
	cracked.PerformedSteps = []string{"normalize", "dictionary", "strength"}

	missed := model.NewAuditReport("ca978112ca1bbdcafac231b39a23dc4da786eff8147c4e72b9807785afee48bb")
	missed.AddResult(model.NewMiss(model.EngineDictionary, model.ReasonInputExhausted, 3, 0))
	missed.AddResult(model.NewMiss(model.EngineBruteForce, model.ReasonAttemptsExhausted, 1000, 12*time.Millisecond))

	failed := model.NewAuditReport("nothex")
	failed.Error = errors.New("malformed digest")
	failed.ErrorMessage = "malformed digest"

	return NewAudit([]*model.AuditReport{cracked, missed, failed})
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes header, summary and digests", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(createTestAudit())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("reported %d bytes, wrote %d", n, buf.Len())
		}

		output := buf.String()
		for _, want := range []string{
			"SMARTPASS AUDIT REPORT",
			"CRACKED:     1 (33.3%)",
			"FAILED:      1",
			"alice",
			"Status:   CRACKED",
			"Status:   NOT CRACKED",
			"ERROR - malformed digest",
			"Strength: weak",
			"(dictionary)",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q\n%s", want, output)
			}
		}
	})

	t.Run("masks plaintext by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(createTestAudit()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.Contains(buf.String(), "Password: password") {
			t.Error("plaintext must be masked")
		}
		if !strings.Contains(buf.String(), mask) {
			t.Error("expected the mask in the output")
		}
	})

	t.Run("reveals plaintext when asked", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithReveal(true)).Write(createTestAudit()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "Password: password") {
			t.Error("expected the plaintext in the output")
		}
	})

	t.Run("verbose lists engine runs", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf, WithVerbose(true)).Write(createTestAudit()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "brute_force: attempts_exhausted after 1000 attempts in 12ms") {
			t.Errorf("expected engine run details\n%s", buf.String())
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes valid masked JSON", func(t *testing.T) {
		t.Parallel()

		audit := createTestAudit()
		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(audit); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded struct {
			Summary struct {
				Total   int `json:"total"`
				Cracked int `json:"cracked"`
			} `json:"summary"`
			Reports []struct {
				Plaintext string `json:"plaintext"`
				Strength  string `json:"strength"`
				Results   []struct {
					Plaintext string `json:"plaintext"`
				} `json:"results"`
			} `json:"reports"`
		}
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v\n%s", err, buf.String())
		}
		if decoded.Summary.Total != 3 || decoded.Summary.Cracked != 1 {
			t.Errorf("unexpected summary %+v", decoded.Summary)
		}
		if decoded.Reports[0].Plaintext != mask || decoded.Reports[0].Results[0].Plaintext != mask {
			t.Errorf("expected masked plaintext, got %+v", decoded.Reports[0])
		}
		if decoded.Reports[0].Strength != "weak" {
			t.Errorf("expected strength weak, got %q", decoded.Reports[0].Strength)
		}

		// masking must not touch the caller's data
		if audit.Reports[0].Plaintext != "password" {
			t.Error("writer modified the audit")
		}
	})

	t.Run("reveal and version", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		w := NewJSONWriter(&buf, WithPrettyPrint(), WithJSONReveal(true), WithVersion("v1.2.3"))
		if _, err := w.Write(createTestAudit()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		out := buf.String()
		if !strings.Contains(out, `"version": "v1.2.3"`) {
			t.Errorf("expected version in output\n%s", out)
		}
		if !strings.Contains(out, `"plaintext": "password"`) {
			t.Errorf("expected revealed plaintext\n%s", out)
		}
		if !strings.HasSuffix(out, "\n") {
			t.Error("expected trailing newline")
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(createTestAudit()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	output := buf.String()
	for _, want := range []string{
		"# SmartPass Audit Report",
		"## Summary",
		"## Digests",
		"mermaid",
		"Audit Outcomes",
		"alice",
		"weak",
		"[!CAUTION]",
	} {
		if !strings.Contains(output, want) {
			t.Errorf("expected output to contain %q\n%s", want, output)
		}
	}
	if strings.Contains(output, "`password`") {
		t.Error("plaintext must be masked")
	}
}

// TestMarkdownWriter_Empty tests an empty audit.
func TestMarkdownWriter_Empty(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	if _, err := NewMarkdownWriter(&buf).Write(NewAudit(nil)); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "No digests audited.") {
		t.Errorf("expected empty notice\n%s", buf.String())
	}
}

// TestNewWriter tests format selection.
func TestNewWriter(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format  Format
		wantErr bool
	}{
		{FormatText, false},
		{FormatJSON, false},
		{FormatMarkdown, false},
		{"MD", false},
		{"", false},
		{"xml", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			t.Parallel()

			var buf bytes.Buffer
			w, err := NewWriter(tt.format, &buf, false)
			if tt.wantErr {
				if !errors.Is(err, ErrUnknownFormat) {
					t.Errorf("expected ErrUnknownFormat, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if _, err := w.Write(createTestAudit()); err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if buf.Len() == 0 {
				t.Error("expected output")
			}
		})
	}
}

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	var text, js bytes.Buffer
	mw := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))
	n, err := mw.Write(createTestAudit())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != text.Len()+js.Len() {
		t.Errorf("expected %d bytes, got %d", text.Len()+js.Len(), n)
	}
}

func TestTruncateString(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		max  int
		want string
	}{
		{"short", 10, "short"},
		{"exactly10!", 10, "exactly10!"},
		{"this is too long", 10, "this is..."},
		{"abcdef", 3, "abc"},
	}
	for _, tt := range tests {
		if got := truncateString(tt.in, tt.max); got != tt.want {
			t.Errorf("truncateString(%q, %d) = %q, expected %q", tt.in, tt.max, got, tt.want)
		}
	}
}
