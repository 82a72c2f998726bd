// Package report provides report generation and output functionality.
//
// This package contains writers for different output formats:
//   - SimpleWriter: Human-readable text output for terminal display
//   - MarkdownWriter: GitHub-flavored Markdown with tables and alerts
//   - JSONWriter and FullJSONWriter: Structured JSON for tool integration
//
// Writers implement the Writer interface, report a model.Session or a list
// of stored snapshots, and can be composed with MultiWriter.
package report
