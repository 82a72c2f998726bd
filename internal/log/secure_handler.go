package log

import (
	"context"
	"log/slog"
	"regexp"
	"strings"
)

// MaskValue replaces redacted values.
const MaskValue = "***REDACTED***"

// sensitiveKeys are attribute keys whose values are always redacted.
// Wikis that sit behind a login are crawled with a session cookie or an
// API header, and those end up in request-level log attributes.
var sensitiveKeys = map[string]bool{
	"authorization":       true,
	"proxy-authorization": true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"api_key":             true,
	"apikey":              true,
	"password":            true,
	"lgpassword":          true,
	"secret":              true,
	"token":               true,
	"csrftoken":           true,
	"logintoken":          true,
}

// sensitiveKeywords redact any key that contains them, so that
// "centralauth_Token" or "wiki_session" are caught as well.
var sensitiveKeywords = []string{"password", "secret", "token", "session", "auth"}

// sensitiveValues redact string values regardless of their key.
var sensitiveValues = []*regexp.Regexp{
	// Bearer and basic credentials.
	regexp.MustCompile(`(?i)^(bearer|basic)\s+\S+`),

	// MediaWiki session and token cookies, alone or inside a Cookie header.
	regexp.MustCompile(`(?i)(^|;\s*)[a-z0-9_]*(session|token|userid)=`),

	// JWTs.
	regexp.MustCompile(`^eyJ[A-Za-z0-9_-]*\.eyJ[A-Za-z0-9_-]*\.[A-Za-z0-9_-]*$`),
}

// SecureHandler is an slog.Handler that redacts credentials before passing
// records to the wrapped handler.
//
// Keys are matched case-insensitively. Groups are walked recursively and
// map[string]string values (request header sets) are redacted per entry.
type SecureHandler struct {
	handler slog.Handler
}

// NewSecureHandler wraps handler. A nil handler wraps slog.Default's.
func NewSecureHandler(handler slog.Handler) *SecureHandler {
	if handler == nil {
		handler = slog.Default().Handler()
	}
	return &SecureHandler{handler: handler}
}

// Enabled implements slog.Handler.
func (h *SecureHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.handler.Enabled(ctx, level)
}

// Handle implements slog.Handler.
func (h *SecureHandler) Handle(ctx context.Context, r slog.Record) error {
	out := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		out.AddAttrs(redact(a))
		return true
	})
	return h.handler.Handle(ctx, out)
}

// WithAttrs implements slog.Handler.
func (h *SecureHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = redact(a)
	}
	return &SecureHandler{handler: h.handler.WithAttrs(clean)}
}

// WithGroup implements slog.Handler.
func (h *SecureHandler) WithGroup(name string) slog.Handler {
	return &SecureHandler{handler: h.handler.WithGroup(name)}
}

func redact(a slog.Attr) slog.Attr {
	a.Value = a.Value.Resolve()

	switch a.Value.Kind() {
	case slog.KindGroup:
		group := a.Value.Group()
		clean := make([]slog.Attr, len(group))
		for i, ga := range group {
			clean[i] = redact(ga)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
	case slog.KindString:
		if isSensitiveKey(a.Key) || isSensitiveValue(a.Value.String()) {
			return slog.String(a.Key, MaskValue)
		}
		return a
	case slog.KindAny:
		if headers, ok := a.Value.Any().(map[string]string); ok {
			return slog.Any(a.Key, redactHeaders(headers))
		}
	}

	if isSensitiveKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}
	return a
}

// redactHeaders returns a copy of headers with sensitive entries masked.
func redactHeaders(headers map[string]string) map[string]string {
	clean := make(map[string]string, len(headers))
	for k, v := range headers {
		if isSensitiveKey(k) || isSensitiveValue(v) {
			v = MaskValue
		}
		clean[k] = v
	}
	return clean
}

func isSensitiveKey(key string) bool {
	key = strings.ToLower(key)
	if sensitiveKeys[key] {
		return true
	}
	for _, kw := range sensitiveKeywords {
		if strings.Contains(key, kw) {
			return true
		}
	}
	return false
}

func isSensitiveValue(value string) bool {
	for _, p := range sensitiveValues {
		if p.MatchString(value) {
			return true
		}
	}
	return false
}
