package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"

	"github.com/thomas-dorrington/Runescape2Vec/internal/crawler"
	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

// maxMarkdownCycles caps the cycles listed in a Markdown report.
const maxMarkdownCycles = 50

// MarkdownWriter outputs reports in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation, which gives us tables, alerts and mermaid charts without
// hand-escaping.
type MarkdownWriter struct {
	baseWriter
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
	}
}

// Write outputs the session report in Markdown format.
func (w *MarkdownWriter) Write(session *model.Session) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, session)
	w.writeSummary(md, session)
	w.writeCrawl(md, session)
	w.writeAudit(md, session)
	w.writeCycles(md, session)
	w.writeValidations(md, session)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// WriteHistory outputs the snapshot list as a Markdown table.
func (w *MarkdownWriter) WriteHistory(snapshots []model.Snapshot) (int, error) {
	md := markdown.NewMarkdown(w.output)
	md.H1("Graph History")
	md.PlainText("")

	if len(snapshots) == 0 {
		md.PlainText("No snapshots stored.")
		return len(md.String()), md.Build()
	}

	rows := make([][]string, len(snapshots))
	for i, s := range snapshots {
		rows[i] = []string{
			strconv.FormatInt(s.ID, 10),
			s.CreatedAt.Format(timeLayout),
			"`" + s.RootNode + "`",
			strconv.Itoa(s.Nodes),
			strconv.Itoa(s.Edges),
			strconv.Itoa(s.Pages),
			strconv.Itoa(s.Cycles),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"ID", "Created", "Root", "Nodes", "Edges", "Pages", "Cycles"},
		Rows:   rows,
	})

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, session *model.Session) {
	md.H1("Category Graph Report")
	md.PlainText("")

	rows := [][]string{
		{"Root Node", "`" + rootOf(session) + "`"},
	}
	if session.Graph != nil {
		rows = append(rows, []string{"Root Category", orDash(session.Graph.RootCategoryURL())})
	}
	rows = append(rows,
		[]string{"Graph File", orDash(session.GraphPath)},
		[]string{"Started", session.StartedAt.Format(timeLayout)},
		[]string{"Steps", orDash(strings.Join(session.Steps, ", "))},
		[]string{"Status", w.getStatusText(session)},
	)
	if session.SnapshotID != 0 {
		rows = append(rows, []string{"Snapshot", strconv.FormatInt(session.SnapshotID, 10)})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// getStatusText returns the status text based on session state.
func (w *MarkdownWriter) getStatusText(session *model.Session) string {
	if session.Interrupted {
		return "⚠️ Interrupted (resume to complete)"
	}
	if session.Error != "" {
		return "❌ Error - " + session.Error
	}
	return "✅ Complete"
}

// writeSummary writes the headline counts and an alert.
func (w *MarkdownWriter) writeSummary(md *markdown.Markdown, session *model.Session) {
	sum := session.Summary()

	md.H2("Summary")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Measure", "Count"},
		Rows: [][]string{
			{"Categories", strconv.Itoa(sum.Nodes)},
			{"Edges", strconv.Itoa(sum.Edges)},
			{"Pages", strconv.Itoa(sum.Pages)},
			{"Cycles", strconv.Itoa(sum.Cycles)},
			{"Diagnostics", strconv.Itoa(sum.Diagnostics)},
		},
	})
	md.PlainText("")

	switch {
	case session.Interrupted:
		md.Cautionf(
			"The crawl was interrupted. Run the crawl again with --resume to expand the %d pending categories.",
			pendingCount(session),
		)
	case sum.Cycles > 0:
		md.Warningf(
			"The graph has %d cycle(s). List edges to remove under remove_edges in the config file.",
			sum.Cycles,
		)
	case sum.Diagnostics > 0:
		md.Importantf(
			"%d branch(es) of the hierarchy could not be crawled. See the diagnostics below.",
			sum.Diagnostics,
		)
	default:
		md.Tip("The graph is acyclic and every branch was crawled.")
	}
	md.PlainText("")
}

// writeCrawl writes crawl statistics and diagnostics.
func (w *MarkdownWriter) writeCrawl(md *markdown.Markdown, session *model.Session) {
	stats := session.Stats
	if stats.Fetches == 0 && len(stats.Diagnostics) == 0 {
		return
	}

	md.H2("Crawl")
	md.PlainText("")
	md.Table(markdown.TableSet{
		Header: []string{"Measure", "Count"},
		Rows: [][]string{
			{"Categories visited", strconv.Itoa(stats.CategoriesVisited)},
			{"Listing continuations", strconv.Itoa(stats.Continuations + stats.ListingPages)},
			{"Revisits", strconv.Itoa(stats.Revisits)},
			{"Skipped", strconv.Itoa(stats.Skipped)},
			{"Fetches", strconv.Itoa(stats.Fetches)},
			{"Pages added", strconv.Itoa(stats.PagesAdded)},
		},
	})
	md.PlainText("")

	if len(stats.Diagnostics) == 0 {
		return
	}

	w.writeDiagnosticChart(md, stats)

	md.H3("Diagnostics")
	md.PlainText("")
	rows := make([][]string, len(stats.Diagnostics))
	for i, d := range stats.Diagnostics {
		rows[i] = []string{
			d.Kind.String(),
			truncateString(d.Address, 60),
			orDash(d.Category),
			truncateString(d.Detail, 80),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Kind", "Address", "Category", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeDiagnosticChart writes a mermaid pie chart of diagnostic kinds.
func (w *MarkdownWriter) writeDiagnosticChart(md *markdown.Markdown, stats model.CrawlStats) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Diagnostics by Kind"),
		piechart.WithShowData(true),
	)

	for _, kind := range []model.DiagnosticKind{
		model.DiagnosticMalformedAddress,
		model.DiagnosticIdentityDrift,
		model.DiagnosticFetchFailure,
	} {
		if n := stats.Count(kind); n > 0 {
			chart.LabelAndIntValue(kind.String(), uint64(n))
		}
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAudit writes the outcome of edge removal.
func (w *MarkdownWriter) writeAudit(md *markdown.Markdown, session *model.Session) {
	result := session.Audit
	if result == nil {
		return
	}

	md.H2("Edge Removal")
	md.PlainText("")
	md.PlainTextf("Cycles before: %d, after: %d.", result.CyclesBefore, result.RemainingCycles)
	md.PlainText("")

	rows := make([][]string, 0, len(result.Removed)+len(result.Missing))
	for _, e := range result.Removed {
		rows = append(rows, []string{"`" + e.From + "`", "`" + e.To + "`", "removed"})
	}
	for _, e := range result.Missing {
		rows = append(rows, []string{"`" + e.From + "`", "`" + e.To + "`", "not found"})
	}
	if len(rows) > 0 {
		md.Table(markdown.TableSet{
			Header: []string{"From", "To", "Result"},
			Rows:   rows,
		})
		md.PlainText("")
	}
}

// writeCycles writes the listed cycles.
func (w *MarkdownWriter) writeCycles(md *markdown.Markdown, session *model.Session) {
	if len(session.Cycles) == 0 {
		return
	}

	md.H2("Cycles")
	md.PlainText("")

	cycles := session.Cycles
	if len(cycles) > maxMarkdownCycles {
		cycles = cycles[:maxMarkdownCycles]
	}
	items := make([]string, len(cycles))
	for i, c := range cycles {
		items[i] = "`" + formatCycle(c) + "`"
	}
	md.BulletList(items...)
	md.PlainText("")

	if session.CycleCount > len(cycles) {
		md.PlainTextf("%d more cycle(s) not listed.", session.CycleCount-len(cycles))
		md.PlainText("")
	}
}

// writeValidations writes page category cross-checks.
func (w *MarkdownWriter) writeValidations(md *markdown.Markdown, session *model.Session) {
	if len(session.Validations) == 0 {
		return
	}

	md.H2("Page Validation")
	md.PlainText("")

	bad := session.InconsistentPages()
	md.PlainTextf("%d of %d page(s) agree with the graph.",
		len(session.Validations)-len(bad), len(session.Validations))
	md.PlainText("")

	if len(bad) == 0 {
		return
	}

	rows := make([][]string, len(bad))
	for i, v := range bad {
		rows[i] = []string{
			truncateString(v.URL, 60),
			orDash(strings.Join(v.MissingFromGraph, ", ")),
			orDash(strings.Join(v.MissingFromPage, ", ")),
			orDash(truncateString(v.Error, 60)),
		}
	}
	md.Table(markdown.TableSet{
		Header: []string{"Page", "Missing From Graph", "Missing From Page", "Error"},
		Rows:   rows,
	})
	md.PlainText("")

	for _, v := range bad {
		if len(v.DeclaredCategories) > 0 {
			md.Details(v.URL, "Declared: "+strings.Join(v.DeclaredCategories, ", ")+
				"\n\nIn graph: "+orDash(strings.Join(v.GraphCategories, ", ")))
		}
	}
	md.PlainText("")
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainText("*Report generated by wikigraph*")
}

// pendingCount returns the number of categories not yet expanded.
func pendingCount(session *model.Session) int {
	if session.Graph == nil {
		return 0
	}
	return len(crawler.Pending(session.Graph))
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
