package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/thomas-dorrington/Runescape2Vec/internal/graph"
	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

// createTestSession creates a session with sample data for testing.
func createTestSession() *model.Session {
	g := graph.New("Old_School_RuneScape_Wiki", "https://wiki.test/w/Category:Content")
	g.AddEdge("Old_School_RuneScape_Wiki", "Content")
	g.AddEdge("Content", "Monsters")
	g.AddEdge("Monsters", "Slayer_monsters")
	g.AddEdge("Slayer_monsters", "Monsters")
	for _, name := range []string{"Content", "Monsters", "Slayer_monsters"} {
		_ = g.SetCategoryURL(name, "https://wiki.test/w/Category:"+name)
	}
	_, _ = g.AppendPages("Slayer_monsters", "https://wiki.test/w/Abyssal_demon")

	session := model.NewSession(g)
	session.StartedAt = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	session.GraphPath = "data/category_graph.json"
	session.Steps = []string{"crawl", "audit"}
	session.Stats = model.CrawlStats{
		CategoriesVisited: 3,
		Revisits:          1,
		Fetches:           4,
		PagesAdded:        1,
		Diagnostics: []model.Diagnostic{{
			Kind:    model.DiagnosticFetchFailure,
			Address: "https://wiki.test/w/Category:Broken",
			Detail:  "503 Service Unavailable",
		}},
	}
	session.CycleCount = 1
	session.Cycles = [][]string{{"Monsters", "Slayer_monsters"}}
	session.Audit = &model.AuditResult{
		Removed:         []graph.Edge{},
		Missing:         []graph.Edge{{From: "Items", To: "Content"}},
		CyclesBefore:    1,
		RemainingCycles: 1,
	}
	session.Validations = []model.PageValidation{
		{URL: "https://wiki.test/w/Abyssal_demon", GraphCategories: []string{"Slayer_monsters"}, DeclaredCategories: []string{"Slayer monsters"}},
		{
			URL:                "https://wiki.test/w/Goblin",
			DeclaredCategories: []string{"Monsters"},
			MissingFromGraph:   []string{"Monsters"},
		},
	}
	session.SnapshotID = 3
	return session
}

func testSnapshots() []model.Snapshot {
	return []model.Snapshot{
		{ID: 2, RootNode: "Old_School_RuneScape_Wiki", Nodes: 4, Edges: 4, Pages: 1, Cycles: 1, CreatedAt: time.Date(2024, 3, 2, 0, 0, 0, 0, time.UTC)},
		{ID: 1, RootNode: "Old_School_RuneScape_Wiki", Nodes: 3, Edges: 2, Pages: 1, CreatedAt: time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)},
	}
}

// TestSimpleWriter tests the human-readable report writer.
func TestSimpleWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes every section", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		n, err := NewSimpleWriter(&buf).Write(createTestSession())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != buf.Len() {
			t.Errorf("expected %d bytes reported, got %d", buf.Len(), n)
		}

		output := buf.String()
		for _, want := range []string{
			"CATEGORY GRAPH REPORT",
			"Old_School_RuneScape_Wiki",
			"CYCLES:      1",
			"fetch_failure: https://wiki.test/w/Category:Broken",
			"Items -> Content (not found)",
			"Monsters -> Slayer_monsters -> Monsters",
			"1 of 2 page(s) agree with the graph",
			"Missing from graph: Monsters",
			"Snapshot:       3",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("hides empty sections by default", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		session := model.NewSession(graph.New("root", ""))
		if _, err := NewSimpleWriter(&buf).Write(session); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if strings.Contains(output, "DIAGNOSTICS\n") || strings.Contains(output, "PAGE VALIDATION") {
			t.Errorf("expected empty sections hidden, got:\n%s", output)
		}
	})

	t.Run("shows empty sections when configured", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		session := model.NewSession(graph.New("root", ""))
		if _, err := NewSimpleWriter(&buf, WithShowEmpty(true)).Write(session); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "No diagnostics") || !strings.Contains(output, "No cycles") {
			t.Errorf("expected empty sections shown, got:\n%s", output)
		}
	})

	t.Run("bounds long listings unless verbose", func(t *testing.T) {
		t.Parallel()

		session := model.NewSession(graph.New("root", ""))
		for range simpleListLimit + 5 {
			session.Cycles = append(session.Cycles, []string{"A", "B"})
		}
		session.CycleCount = len(session.Cycles)

		var short, long bytes.Buffer
		if _, err := NewSimpleWriter(&short).Write(session); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if _, err := NewSimpleWriter(&long, WithVerbose(true)).Write(session); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(short.String(), "... 5 more") {
			t.Error("expected truncated cycle listing")
		}
		if strings.Contains(long.String(), "more") {
			t.Error("expected full cycle listing in verbose mode")
		}
	})

	t.Run("writes interrupted status", func(t *testing.T) {
		t.Parallel()

		g := graph.New("root", "")
		g.AddEdge("root", "Content")
		session := model.NewSession(g)
		session.Interrupted = true

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).Write(session); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "INTERRUPTED (1 categories pending)") {
			t.Errorf("expected interrupted status, got:\n%s", buf.String())
		}
	})

	t.Run("writes history", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewSimpleWriter(&buf).WriteHistory(testSnapshots()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
		}
		if !strings.HasPrefix(lines[1], "2 ") {
			t.Errorf("expected newest snapshot first, got %q", lines[1])
		}
	})
}

// TestMarkdownWriter tests the Markdown report writer.
func TestMarkdownWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes every section", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(createTestSession()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		output := buf.String()
		for _, want := range []string{
			"# Category Graph Report",
			"## Summary",
			"## Crawl",
			"### Diagnostics",
			"```mermaid",
			"## Edge Removal",
			"## Cycles",
			"`Monsters -> Slayer_monsters -> Monsters`",
			"## Page Validation",
			"[!WARNING]",
		} {
			if !strings.Contains(output, want) {
				t.Errorf("expected output to contain %q", want)
			}
		}
	})

	t.Run("clean graph gets a tip", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).Write(model.NewSession(graph.New("root", ""))); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "[!TIP]") {
			t.Error("expected a tip alert")
		}
		if strings.Contains(output, "## Crawl") {
			t.Error("expected no crawl section without fetches")
		}
	})

	t.Run("writes history table", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewMarkdownWriter(&buf).WriteHistory(testSnapshots()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		output := buf.String()
		if !strings.Contains(output, "# Graph History") || !strings.Contains(output, "`Old_School_RuneScape_Wiki`") {
			t.Errorf("expected a history table, got:\n%s", output)
		}
	})
}

// TestJSONWriter tests the JSON report writer.
func TestJSONWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes session without the graph", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).Write(createTestSession()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded map[string]any
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if _, ok := decoded["graph"]; ok {
			t.Error("expected the graph to be omitted")
		}
		if decoded["cycle_count"] != float64(1) {
			t.Errorf("expected cycle_count 1, got %v", decoded["cycle_count"])
		}
		stats, _ := decoded["stats"].(map[string]any)
		diags, _ := stats["diagnostics"].([]any)
		if len(diags) != 1 {
			t.Fatalf("expected 1 diagnostic, got %v", stats["diagnostics"])
		}
		if kind := diags[0].(map[string]any)["kind"]; kind != "fetch_failure" {
			t.Errorf("expected kind fetch_failure, got %v", kind)
		}
	})

	t.Run("pretty print indents output", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf, WithPrettyPrint()).Write(createTestSession()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(buf.String(), "\n  \"graph_path\"") {
			t.Error("expected indented output")
		}
	})

	t.Run("full writer wraps with metadata", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewFullJSONWriter(&buf, "v1.2.3").Write(createTestSession()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}

		var decoded JSONReport
		if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if decoded.Version != "v1.2.3" || decoded.RootNode != "Old_School_RuneScape_Wiki" {
			t.Errorf("unexpected metadata %+v", decoded)
		}
		if decoded.Summary.Nodes != 4 || decoded.Summary.Edges != 4 || decoded.Summary.Pages != 1 {
			t.Errorf("unexpected summary %+v", decoded.Summary)
		}
	})

	t.Run("empty history is an array", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		if _, err := NewJSONWriter(&buf).WriteHistory(nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if strings.TrimSpace(buf.String()) != "[]" {
			t.Errorf("expected [], got %q", buf.String())
		}
	})
}

// failingWriter fails every write.
type failingWriter struct{}

func (failingWriter) Write(*model.Session) (int, error)          { return 0, errors.New("write failed") }
func (failingWriter) WriteHistory([]model.Snapshot) (int, error) { return 0, errors.New("write failed") }

// TestMultiWriter tests writing to several writers.
func TestMultiWriter(t *testing.T) {
	t.Parallel()

	t.Run("writes to all writers", func(t *testing.T) {
		t.Parallel()

		var text, js bytes.Buffer
		m := NewMultiWriter(NewSimpleWriter(&text), NewJSONWriter(&js))
		n, err := m.Write(createTestSession())
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if n != text.Len()+js.Len() {
			t.Errorf("expected %d bytes, got %d", text.Len()+js.Len(), n)
		}
		if _, err := m.WriteHistory(testSnapshots()); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
	})

	t.Run("stops on first error", func(t *testing.T) {
		t.Parallel()

		var buf bytes.Buffer
		m := NewMultiWriter(failingWriter{}, NewSimpleWriter(&buf))
		if _, err := m.Write(createTestSession()); err == nil {
			t.Error("expected an error")
		}
		if buf.Len() != 0 {
			t.Error("expected later writers to be skipped")
		}
	})
}

// TestFormatCycle tests cycle rendering.
func TestFormatCycle(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		cycle []string
		want  string
	}{
		{name: "self loop", cycle: []string{"A"}, want: "A -> A"},
		{name: "two nodes", cycle: []string{"A", "B"}, want: "A -> B -> A"},
		{name: "empty", cycle: nil, want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			if got := formatCycle(tt.cycle); got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, got)
			}
		})
	}

	// The input must not be modified.
	cycle := make([]string, 2, 4)
	cycle[0], cycle[1] = "A", "B"
	_ = formatCycle(cycle)
	if got := cycle[:3][2]; got != "" {
		t.Errorf("expected the backing array untouched, got %q", got)
	}
}
