package audit

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/thomas-dorrington/Runescape2Vec/internal/graph"
	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

// Auditor removes edges from a graph and checks it for cycles.
type Auditor struct {
	logger *slog.Logger
}

// Option configures an Auditor.
type Option func(*Auditor)

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Auditor) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// New creates an Auditor.
func New(opts ...Option) *Auditor {
	a := &Auditor{logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// RemoveEdges removes each of edges from g and re-counts cycles.
//
// Edges that are not in g are logged and listed in Missing; they do not
// stop the remaining removals. The result is a single pass: if cycles
// remain afterwards a warning is logged and nothing else is removed.
func (a *Auditor) RemoveEdges(g *graph.Graph, edges []graph.Edge) model.AuditResult {
	result := model.AuditResult{
		Removed:      []graph.Edge{},
		Missing:      []graph.Edge{},
		CyclesBefore: g.CountCycles(),
	}

	for _, e := range edges {
		if err := g.RemoveEdge(e.From, e.To); err != nil {
			a.logger.Warn("edge to remove not found", "from", e.From, "to", e.To)
			result.Missing = append(result.Missing, e)
			continue
		}
		a.logger.Debug("removed edge", "from", e.From, "to", e.To)
		result.Removed = append(result.Removed, e)
	}

	result.RemainingCycles = a.Check(g)
	return result
}

// Check counts the cycles of g and logs the outcome.
func (a *Auditor) Check(g *graph.Graph) int {
	n := g.CountCycles()
	if n == 0 {
		a.logger.Info("no cycles")
	} else {
		a.logger.Warn("graph has cycles", "cycles", n)
	}
	return n
}

// ListCycles returns up to limit cycles of g in enumeration order.
// A non-positive limit returns every cycle.
func (a *Auditor) ListCycles(g *graph.Graph, limit int) [][]string {
	var cycles [][]string
	for c := range g.Cycles() {
		cycles = append(cycles, c)
		if limit > 0 && len(cycles) >= limit {
			break
		}
	}
	return cycles
}

// ParseEdge parses an edge written as "from:to".
// Category names never contain a colon, so the first colon separates them.
func ParseEdge(s string) (graph.Edge, error) {
	from, to, ok := strings.Cut(strings.TrimSpace(s), ":")
	from, to = strings.TrimSpace(from), strings.TrimSpace(to)
	if !ok || from == "" || to == "" {
		return graph.Edge{}, fmt.Errorf("%w: %q", ErrInvalidEdge, s)
	}
	return graph.Edge{From: from, To: to}, nil
}

// ParseEdges parses every "from:to" string in specs.
func ParseEdges(specs []string) ([]graph.Edge, error) {
	edges := make([]graph.Edge, 0, len(specs))
	for _, s := range specs {
		e, err := ParseEdge(s)
		if err != nil {
			return nil, err
		}
		edges = append(edges, e)
	}
	return edges, nil
}
