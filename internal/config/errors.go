package config

import "errors"

// Configuration errors returned by Config.Validate and the file loader.
var (
	// ErrInvalidHomepage is returned when the homepage is not an absolute
	// http(s) URL.
	ErrInvalidHomepage = errors.New("invalid homepage: must be an http(s) URL")

	// ErrNoRootNode is returned when the root node name is empty.
	ErrNoRootNode = errors.New("no root node name specified")

	// ErrNoGraphPath is returned when no graph file is configured.
	ErrNoGraphPath = errors.New("no graph file specified")

	// ErrInvalidTimeout is returned when the timeout is not positive.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidCacheMaxAge is returned when the cache max age is negative.
	ErrInvalidCacheMaxAge = errors.New("invalid cache max age: must be non-negative")

	// ErrConflictingReportFormats is returned when both --json and
	// --markdown are given.
	ErrConflictingReportFormats = errors.New("conflicting report formats: --json and --markdown cannot be used together")

	// ErrConfigNotFound is returned when the configuration file does not
	// exist.
	ErrConfigNotFound = errors.New("configuration file not found")

	// ErrInvalidEdge is returned when a remove_edges entry is incomplete.
	ErrInvalidEdge = errors.New("invalid edge: from and to are required")
)
