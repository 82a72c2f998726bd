package config

import (
	"fmt"
	"net/url"
	"path/filepath"
	"strings"
	"time"

	"github.com/adrg/xdg"

	"github.com/thomas-dorrington/Runescape2Vec/internal/graph"
)

// Default configuration values.
const (
	// AppName is used for XDG directory paths.
	AppName = "wikigraph"

	// DefaultHomepage is the wiki crawled when none is configured.
	DefaultHomepage = "https://oldschool.runescape.wiki"

	// DefaultRootNode names the synthetic node every crawl hangs from.
	DefaultRootNode = "Old_School_RuneScape_Wiki"

	// DefaultRootCategory is the category the crawl starts at. Every
	// article on the wiki is filed somewhere below it.
	DefaultRootCategory = "Content"

	// DefaultGraphPath is where the graph is saved and loaded.
	DefaultGraphPath = "data/category_graph.json"

	// DefaultTimeout bounds a single request. Large category listings on
	// MediaWiki render slowly but rarely take more than a few seconds.
	DefaultTimeout = 30 * time.Second

	// DefaultUserAgent identifies wikigraph to wiki operators.
	DefaultUserAgent = "wikigraph/1.0 (+https://github.com/thomas-dorrington/Runescape2Vec)"

	// DefaultMaxBodySize caps a single response.
	DefaultMaxBodySize = 10 * 1024 * 1024 // 10MB

	// DefaultCacheMaxAge is how long a stored page is served from the
	// database instead of being refetched.
	DefaultCacheMaxAge = 24 * time.Hour

	// DefaultBatchSize is the number of pages validated concurrently.
	DefaultBatchSize = 8
)

// Config holds all options of one wikigraph run.
// It is populated from the configuration file and CLI flags and passed
// down explicitly.
//
// Design decision: a single flat struct, as the option count is small and
// every command reads a different subset of it.
type Config struct {
	// Homepage is the wiki origin, e.g. "https://oldschool.runescape.wiki".
	Homepage string

	// RootNode names the synthetic root of the graph.
	RootNode string

	// RootCategoryURL is the category page the crawl starts from.
	// Empty means <Homepage>/w/Category:Content.
	RootCategoryURL string

	// GraphPath is the JSON file the graph is loaded from and saved to.
	GraphPath string

	// Timeout applies to each HTTP request.
	Timeout time.Duration

	// ProxyAddress routes requests through a SOCKS5 proxy ("host:port").
	// Empty means a direct connection.
	ProxyAddress string

	// UserAgent is sent with every request.
	UserAgent string

	// Cookie is sent with every request, for wikis behind a login.
	Cookie string

	// Headers are extra request headers.
	Headers map[string]string

	// MaxBodySize caps a single response body in bytes.
	MaxBodySize int64

	// BatchSize is the number of pages validated concurrently.
	BatchSize int

	// RemoveEdges are edges cut from the graph after every crawl, usually
	// to break known cycles.
	RemoveEdges []graph.Edge

	// SkipCategories are glob patterns of category names never crawled.
	SkipCategories []string

	// DBDir holds the SQLite database with the fetch cache and graph
	// snapshots. Defaults to the XDG data directory.
	DBDir string

	// UseCache serves recently fetched pages from the database.
	UseCache bool

	// CacheMaxAge is the age after which a cached page is refetched.
	CacheMaxAge time.Duration

	// Verbose enables DEBUG logging.
	Verbose bool

	// LogFormat is "text" or "json".
	LogFormat string

	// ConfigFilePath is an explicit configuration file. When empty,
	// FindConfigFile searches the usual locations.
	ConfigFilePath string

	// JSONReport and MarkdownReport select the report format. Plain text
	// is used when neither is set.
	JSONReport     bool
	MarkdownReport bool

	// ReportFile receives the report instead of stdout.
	ReportFile string
}

// NewConfig creates a Config with default values.
func NewConfig() *Config {
	return &Config{
		Homepage:    DefaultHomepage,
		RootNode:    DefaultRootNode,
		GraphPath:   DefaultGraphPath,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		BatchSize:   DefaultBatchSize,
		DBDir:       XDGDataDir(),
		UseCache:    true,
		CacheMaxAge: DefaultCacheMaxAge,
		LogFormat:   "text",
	}
}

// StartURL returns the root category address, derived from Homepage when
// RootCategoryURL is not set.
func (c *Config) StartURL() string {
	if c.RootCategoryURL != "" {
		return c.RootCategoryURL
	}
	return strings.TrimRight(c.Homepage, "/") + "/w/Category:" + DefaultRootCategory
}

// XDGDataDir returns the XDG data directory for wikigraph.
// On Linux: ~/.local/share/wikigraph
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for wikigraph.
// On Linux: ~/.config/wikigraph
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks the configuration and returns the first problem found.
func (c *Config) Validate() error {
	u, err := url.Parse(c.Homepage)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("%w: %q", ErrInvalidHomepage, c.Homepage)
	}
	if c.RootNode == "" {
		return ErrNoRootNode
	}
	if c.GraphPath == "" {
		return ErrNoGraphPath
	}
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}
	if c.CacheMaxAge < 0 {
		return ErrInvalidCacheMaxAge
	}
	if c.JSONReport && c.MarkdownReport {
		return ErrConflictingReportFormats
	}
	return nil
}
