// Package report renders audit results.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - JSONWriter: Structured JSON output for tool integration
//   - MarkdownWriter: Markdown output for sharing, with a mermaid chart
//
// Recovered passwords are masked unless a writer is created with
// plaintext revealing enabled.
package report
