package model

import "github.com/thomas-dorrington/Runescape2Vec/internal/graph"

// AuditResult is the outcome of an operator-directed edge removal.
type AuditResult struct {
	// Removed lists the edges that existed and were removed.
	Removed []graph.Edge `json:"removed"`

	// Missing lists the requested edges that did not exist.
	Missing []graph.Edge `json:"missing"`

	// CyclesBefore is the number of simple cycles before removal.
	CyclesBefore int `json:"cycles_before"`

	// RemainingCycles is the number of simple cycles after removal.
	// A non-zero value is a warning, not a failure.
	RemainingCycles int `json:"remaining_cycles"`
}

// Clean reports whether the graph was left without cycles.
func (r *AuditResult) Clean() bool {
	return r.RemainingCycles == 0
}
