// Package audit removes operator-chosen edges from a category graph and
// reports the cycles that remain.
//
// Wiki category hierarchies are not trees. Editors occasionally file a
// category under one of its own descendants, which makes "all pages under
// X" queries loop or over-count. The auditor does not try to decide which
// edge of a cycle is wrong; the operator lists edges to cut (usually in the
// configuration file) and the auditor applies them and re-counts.
//
// Usage:
//
//	a := audit.New(audit.WithLogger(logger))
//	result := a.RemoveEdges(g, []graph.Edge{{From: "Pets", To: "Slayer"}})
//	if !result.Clean() {
//		// cycles remain; list them with a.ListCycles
//	}
package audit
