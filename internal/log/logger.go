package log

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// Output formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New creates a logger writing to w in the given format ("text" or
// "json"; empty means text). Verbose enables DEBUG; otherwise only WARN
// and above are written.
func New(w io.Writer, format string, verbose bool) (*slog.Logger, error) {
	switch strings.ToLower(format) {
	case "", FormatText:
		return NewLogger(w, verbose), nil
	case FormatJSON:
		return NewJSONLogger(w, verbose), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// NewLogger creates a text logger with credential redaction.
func NewLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewTextHandler(w, handlerOptions(verbose))))
}

// NewJSONLogger creates a JSON logger with credential redaction.
func NewJSONLogger(w io.Writer, verbose bool) *slog.Logger {
	return slog.New(NewSecureHandler(slog.NewJSONHandler(w, handlerOptions(verbose))))
}

func handlerOptions(verbose bool) *slog.HandlerOptions {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return &slog.HandlerOptions{Level: level}
}
