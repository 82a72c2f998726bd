package report

import (
	"encoding/json"
	"io"

	"github.com/thomas-dorrington/Runescape2Vec/internal/model"
)

// JSONWriter outputs reports in JSON format.
// This format is designed for tool integration and programmatic processing.
//
// Design decision: We use standard encoding/json rather than a third-party
// JSON library because the report types are plain structs with tags and
// the graph file already uses it.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed JSON output.
	indent bool

	// indentPrefix is the prefix for each line in indented output.
	indentPrefix string

	// indentString is the indentation string (typically "  " or "\t").
	indentString string
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
// The prefix is prepended to each line, and indent is used for each level.
func WithIndent(prefix, indent string) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = true
		w.indentPrefix = prefix
		w.indentString = indent
	}
}

// WithPrettyPrint enables pretty-printed JSON with default indentation.
// This is a convenience wrapper for WithIndent("", "  ").
func WithPrettyPrint() JSONWriterOption {
	return WithIndent("", "  ")
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the session in JSON format. The graph itself is not
// included; it lives in the graph file.
func (w *JSONWriter) Write(session *model.Session) (int, error) {
	return w.writeJSON(session)
}

// WriteHistory outputs the snapshot list as a JSON array.
func (w *JSONWriter) WriteHistory(snapshots []model.Snapshot) (int, error) {
	if snapshots == nil {
		snapshots = []model.Snapshot{}
	}
	return w.writeJSON(snapshots)
}

// writeJSON marshals the given value to JSON and writes it to the output.
func (w *JSONWriter) writeJSON(v any) (int, error) {
	var (
		data []byte
		err  error
	)

	if w.indent {
		data, err = json.MarshalIndent(v, w.indentPrefix, w.indentString)
	} else {
		data, err = json.Marshal(v)
	}

	if err != nil {
		return 0, err
	}

	// Add trailing newline for better terminal output
	data = append(data, '\n')

	return w.output.Write(data)
}

// JSONReport wraps a session with the tool version and headline counts.
//
// Design decision: We wrap the session rather than adding fields to it so
// that output-only metadata stays out of the pipeline state.
type JSONReport struct {
	// Version is the wikigraph version that generated this report.
	Version string `json:"version"`

	// RootNode is the root of the reported graph.
	RootNode string `json:"root_node"`

	// Summary holds the headline counts.
	Summary model.Summary `json:"summary"`

	// Session is the full run state.
	Session *model.Session `json:"session"`
}

// NewJSONReport creates a JSONReport wrapper with version information.
func NewJSONReport(session *model.Session, version string) *JSONReport {
	root := ""
	if session.Graph != nil {
		root = session.Graph.RootNode()
	}
	return &JSONReport{
		Version:  version,
		RootNode: root,
		Summary:  session.Summary(),
		Session:  session,
	}
}

// FullJSONWriter outputs complete reports with metadata wrapper.
type FullJSONWriter struct {
	*JSONWriter

	// version is the wikigraph version string.
	version string
}

// NewFullJSONWriter creates a writer for complete reports with metadata.
func NewFullJSONWriter(output io.Writer, version string, opts ...JSONWriterOption) *FullJSONWriter {
	return &FullJSONWriter{
		JSONWriter: NewJSONWriter(output, opts...),
		version:    version,
	}
}

// Write outputs the session wrapped with metadata.
func (w *FullJSONWriter) Write(session *model.Session) (int, error) {
	return w.writeJSON(NewJSONReport(session, w.version))
}
