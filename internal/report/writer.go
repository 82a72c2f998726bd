package report

import (
	"io"
	"strings"

	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

// Writer defines the interface for report output.
// Implementations write run results in various formats.
//
// Design decision: We use an interface so that the commands choose a
// format once and write sessions and snapshot listings through the same
// API, to stdout or to a file.
type Writer interface {
	// Write outputs the session report.
	// Returns the number of bytes written and any error encountered.
	Write(session *model.Session) (int, error)

	// WriteHistory outputs a list of stored graph snapshots.
	WriteHistory(snapshots []model.Snapshot) (int, error)
}

// MultiWriter writes to multiple Writers simultaneously.
// This is useful for outputting to both terminal and file.
type MultiWriter struct {
	writers []Writer
}

// NewMultiWriter creates a Writer that writes to all provided Writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

// Write outputs the session to all configured Writers.
// Returns the total bytes written across all writers.
// Stops on first error encountered.
func (m *MultiWriter) Write(session *model.Session) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.Write(session)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// WriteHistory outputs the snapshot list to all configured Writers.
func (m *MultiWriter) WriteHistory(snapshots []model.Snapshot) (int, error) {
	var total int
	for _, w := range m.writers {
		n, err := w.WriteHistory(snapshots)
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// baseWriter provides common functionality for report writers.
type baseWriter struct {
	output io.Writer
}

// newBaseWriter creates a baseWriter with the given output destination.
func newBaseWriter(output io.Writer) baseWriter {
	return baseWriter{output: output}
}

// rootOf returns the root node of the session graph, or "-".
func rootOf(session *model.Session) string {
	if session.Graph == nil {
		return "-"
	}
	return session.Graph.RootNode()
}

// formatCycle renders a cycle as "A -> B -> A".
func formatCycle(cycle []string) string {
	if len(cycle) == 0 {
		return ""
	}
	return strings.Join(append(cycle[:len(cycle):len(cycle)], cycle[0]), " -> ")
}

// orDash returns s, or "-" when s is empty.
func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

// timeLayout is used for every timestamp in text reports.
const timeLayout = "2006-01-02 15:04:05 MST"
