package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

// SimpleWriter outputs human-readable text reports for terminal display.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors so that output can be piped to files or other tools.
type SimpleWriter struct {
	baseWriter

	// showEmpty controls whether sections with nothing to report are shown.
	showEmpty bool

	// verbose lists every cycle and diagnostic instead of a bounded number.
	verbose bool
}

// simpleListLimit bounds the cycles and diagnostics listed without verbose.
const simpleListLimit = 20

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithShowEmpty configures the writer to show empty sections.
func WithShowEmpty(show bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.showEmpty = show
	}
}

// WithVerbose enables verbose output with additional details.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
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

// Write outputs the session report in human-readable format.
func (w *SimpleWriter) Write(session *model.Session) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, session)
	w.writeSummary(&sb, session)
	w.writeDiagnostics(&sb, session)
	w.writeAudit(&sb, session)
	w.writeCycles(&sb, session)
	w.writeValidations(&sb, session)
	w.writeFooter(&sb)

	return io.WriteString(w.output, sb.String())
}

// WriteHistory outputs the snapshot list as aligned text.
func (w *SimpleWriter) WriteHistory(snapshots []model.Snapshot) (int, error) {
	var sb strings.Builder

	if len(snapshots) == 0 {
		sb.WriteString("No snapshots stored.\n")
		return io.WriteString(w.output, sb.String())
	}

	fmt.Fprintf(&sb, "%-6s %-24s %-28s %8s %8s %8s %7s\n", "ID", "CREATED", "ROOT", "NODES", "EDGES", "PAGES", "CYCLES")
	for _, s := range snapshots {
		fmt.Fprintf(&sb, "%-6d %-24s %-28s %8d %8d %8d %7d\n",
			s.ID, s.CreatedAt.Format(timeLayout), truncateString(s.RootNode, 28),
			s.Nodes, s.Edges, s.Pages, s.Cycles)
	}
	return io.WriteString(w.output, sb.String())
}

func (w *SimpleWriter) section(sb *strings.Builder, title string) {
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n")
	sb.WriteString(title)
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("-", 70))
	sb.WriteString("\n\n")
}

// writeHeader writes the report header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, session *model.Session) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	sb.WriteString("                      CATEGORY GRAPH REPORT\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Root Node:      %s\n", rootOf(session))
	if session.GraphPath != "" {
		fmt.Fprintf(sb, "Graph File:     %s\n", session.GraphPath)
	}
	fmt.Fprintf(sb, "Started:        %s\n", session.StartedAt.Format(timeLayout))
	if len(session.Steps) > 0 {
		fmt.Fprintf(sb, "Steps:          %s\n", strings.Join(session.Steps, ", "))
	}
	if session.SnapshotID != 0 {
		fmt.Fprintf(sb, "Snapshot:       %d\n", session.SnapshotID)
	}

	switch {
	case session.Interrupted:
		fmt.Fprintf(sb, "Status:         INTERRUPTED (%d categories pending)\n", pendingCount(session))
	case session.Error != "":
		fmt.Fprintf(sb, "Status:         ERROR - %s\n", session.Error)
	default:
		sb.WriteString("Status:         Complete\n")
	}

	sb.WriteString("\n")
}

// writeSummary writes the headline counts and crawl statistics.
func (w *SimpleWriter) writeSummary(sb *strings.Builder, session *model.Session) {
	sum := session.Summary()

	w.section(sb, "SUMMARY")
	fmt.Fprintf(sb, "  CATEGORIES:  %d\n", sum.Nodes)
	fmt.Fprintf(sb, "  EDGES:       %d\n", sum.Edges)
	fmt.Fprintf(sb, "  PAGES:       %d\n", sum.Pages)
	fmt.Fprintf(sb, "  CYCLES:      %d\n", sum.Cycles)
	fmt.Fprintf(sb, "  DIAGNOSTICS: %d\n", sum.Diagnostics)
	sb.WriteString("\n")

	stats := session.Stats
	if stats.Fetches == 0 && !w.showEmpty {
		return
	}
	fmt.Fprintf(sb, "  Categories visited: %d, revisits: %d, skipped: %d\n",
		stats.CategoriesVisited, stats.Revisits, stats.Skipped)
	fmt.Fprintf(sb, "  Fetches: %d, continuations: %d, pages added: %d\n",
		stats.Fetches, stats.Continuations+stats.ListingPages, stats.PagesAdded)
	sb.WriteString("\n")
}

// writeDiagnostics lists crawl diagnostics.
func (w *SimpleWriter) writeDiagnostics(sb *strings.Builder, session *model.Session) {
	diags := session.Stats.Diagnostics
	if len(diags) == 0 && !w.showEmpty {
		return
	}

	w.section(sb, "DIAGNOSTICS")
	if len(diags) == 0 {
		sb.WriteString("  No diagnostics\n\n")
		return
	}

	shown := diags
	if !w.verbose && len(shown) > simpleListLimit {
		shown = shown[:simpleListLimit]
	}
	for _, d := range shown {
		fmt.Fprintf(sb, "  [!] %s\n", d)
	}
	if len(shown) < len(diags) {
		fmt.Fprintf(sb, "  ... %d more (use --verbose)\n", len(diags)-len(shown))
	}
	sb.WriteString("\n")
}

// writeAudit writes the outcome of edge removal.
func (w *SimpleWriter) writeAudit(sb *strings.Builder, session *model.Session) {
	result := session.Audit
	if result == nil {
		return
	}

	w.section(sb, "EDGE REMOVAL")
	for _, e := range result.Removed {
		fmt.Fprintf(sb, "  [-] %s\n", e)
	}
	for _, e := range result.Missing {
		fmt.Fprintf(sb, "  [?] %s (not found)\n", e)
	}
	fmt.Fprintf(sb, "\n  Cycles before: %d, after: %d\n\n", result.CyclesBefore, result.RemainingCycles)
}

// writeCycles lists cycles.
func (w *SimpleWriter) writeCycles(sb *strings.Builder, session *model.Session) {
	if len(session.Cycles) == 0 {
		if w.showEmpty {
			w.section(sb, "CYCLES")
			sb.WriteString("  No cycles\n\n")
		}
		return
	}

	w.section(sb, "CYCLES")
	shown := session.Cycles
	if !w.verbose && len(shown) > simpleListLimit {
		shown = shown[:simpleListLimit]
	}
	for _, c := range shown {
		fmt.Fprintf(sb, "  * %s\n", formatCycle(c))
	}
	if session.CycleCount > len(shown) {
		fmt.Fprintf(sb, "  ... %d more\n", session.CycleCount-len(shown))
	}
	sb.WriteString("\n")
}

// writeValidations writes page category cross-checks.
func (w *SimpleWriter) writeValidations(sb *strings.Builder, session *model.Session) {
	if len(session.Validations) == 0 {
		return
	}

	w.section(sb, "PAGE VALIDATION")
	bad := session.InconsistentPages()
	fmt.Fprintf(sb, "  %d of %d page(s) agree with the graph\n\n",
		len(session.Validations)-len(bad), len(session.Validations))

	for _, v := range bad {
		fmt.Fprintf(sb, "  * %s\n", v.URL)
		if v.Error != "" {
			fmt.Fprintf(sb, "    Error: %s\n", v.Error)
			continue
		}
		if len(v.MissingFromGraph) > 0 {
			fmt.Fprintf(sb, "    Missing from graph: %s\n", strings.Join(v.MissingFromGraph, ", "))
		}
		if len(v.MissingFromPage) > 0 {
			fmt.Fprintf(sb, "    Missing from page:  %s\n", strings.Join(v.MissingFromPage, ", "))
		}
		if w.verbose {
			fmt.Fprintf(sb, "    Declared: %s\n", strings.Join(v.DeclaredCategories, ", "))
		}
	}
	sb.WriteString("\n")
}

// writeFooter writes the report footer.
func (w *SimpleWriter) writeFooter(sb *strings.Builder) {
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
}
