// Package pipeline runs the stages of a wikigraph invocation in sequence.
//
// A run crawls (or resumes, or extends) the category graph, removes
// operator-listed edges, audits the remaining cycles, then saves the
// graph to its JSON file and to the snapshot history. Each stage is a
// Step that receives the shared model.Session and fills in its part.
//
// Design decision: We use a pipeline pattern instead of direct function
// calls so that every command assembles the same steps in its own order,
// with consistent logging and cancellation between steps.
//
// Validator cross-checks page categories concurrently with errgroup.
package pipeline
