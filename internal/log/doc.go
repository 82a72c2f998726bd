// Package log builds the slog loggers used by wikigraph.
//
// Every logger wraps its handler in a SecureHandler, which redacts wiki
// session cookies, API tokens and authorization headers before they are
// written. Crawling a private wiki means passing a cookie through the
// configuration file, and verbose request logs must stay shareable.
//
// Usage:
//
//	logger := log.NewLogger(os.Stderr, verbose)
//	logger.Debug("request", "url", u, "cookie", cfg.Cookie) // cookie=***REDACTED***
//	slog.SetDefault(logger)
package log
