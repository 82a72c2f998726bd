package model

import (
	"time"

	"github.com/thomas-dorrington/Runescape2Vec/internal/graph"
)

// Session carries the state of one wikigraph run through the pipeline.
// Steps read and fill in the fields they are responsible for.
type Session struct {
	// Graph is the category graph being built or inspected.
	Graph *graph.Graph `json:"-"`

	// GraphPath is where the graph is loaded from and saved to.
	GraphPath string `json:"graph_path,omitempty"`

	// Stats summarizes the crawl, if one ran.
	Stats CrawlStats `json:"stats"`

	// Cycles holds the simple cycles found by the last audit, up to the
	// configured listing limit.
	Cycles [][]string `json:"cycles,omitempty"`

	// CycleCount is the total number of simple cycles.
	CycleCount int `json:"cycle_count"`

	// Audit is the result of edge removal, if any was requested.
	Audit *AuditResult `json:"audit,omitempty"`

	// Validations are page category cross-checks, if any were run.
	Validations []PageValidation `json:"validations,omitempty"`

	// SnapshotID is the database id of the stored graph snapshot.
	SnapshotID int64 `json:"snapshot_id,omitempty"`

	// Steps lists the pipeline steps that ran, in order.
	Steps []string `json:"steps"`

	// Interrupted is set when the crawl stopped before finishing. The
	// graph then has pending categories that a resumed crawl completes.
	Interrupted bool `json:"interrupted"`

	// Error holds the message of the last failed step.
	Error string `json:"error,omitempty"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// NewSession creates a session for g.
func NewSession(g *graph.Graph) *Session {
	return &Session{
		Graph:     g,
		Steps:     []string{},
		StartedAt: time.Now(),
	}
}

// Summary holds headline counts for reports.
type Summary struct {
	Nodes       int `json:"nodes"`
	Edges       int `json:"edges"`
	Pages       int `json:"pages"`
	Cycles      int `json:"cycles"`
	Diagnostics int `json:"diagnostics"`
}

// Summary returns headline counts for the session.
func (s *Session) Summary() Summary {
	sum := Summary{
		Cycles:      s.CycleCount,
		Diagnostics: len(s.Stats.Diagnostics),
	}
	if s.Graph != nil {
		sum.Nodes = s.Graph.NumNodes()
		sum.Edges = s.Graph.NumEdges()
		sum.Pages = s.Graph.NumPages()
	}
	return sum
}

// InconsistentPages returns the validations whose category sets disagree.
func (s *Session) InconsistentPages() []PageValidation {
	var out []PageValidation
	for _, v := range s.Validations {
		if !v.Consistent() {
			out = append(out, v)
		}
	}
	return out
}
