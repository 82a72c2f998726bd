package config

import (
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"
	"time"

	"github.com/thomas-dorrington/Runescape2Vec/internal/graph"
)

// TestNewConfig documents the default values.
func TestNewConfig(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()

	if cfg.Homepage != "https://oldschool.runescape.wiki" {
		t.Errorf("unexpected default homepage %q", cfg.Homepage)
	}
	if cfg.RootNode != "Old_School_RuneScape_Wiki" {
		t.Errorf("unexpected default root node %q", cfg.RootNode)
	}
	if cfg.GraphPath != "data/category_graph.json" {
		t.Errorf("unexpected default graph path %q", cfg.GraphPath)
	}
	if cfg.Timeout != 30*time.Second {
		t.Errorf("expected timeout 30s, got %v", cfg.Timeout)
	}
	if cfg.MaxBodySize != 10*1024*1024 {
		t.Errorf("expected 10MB body limit, got %d", cfg.MaxBodySize)
	}
	if cfg.CacheMaxAge != 24*time.Hour {
		t.Errorf("expected cache max age 24h, got %v", cfg.CacheMaxAge)
	}
	if cfg.BatchSize != 8 {
		t.Errorf("expected batch size 8, got %d", cfg.BatchSize)
	}
	if !cfg.UseCache {
		t.Error("expected the cache to be enabled by default")
	}
	if cfg.DBDir != XDGDataDir() {
		t.Errorf("expected DB dir %q, got %q", XDGDataDir(), cfg.DBDir)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("expected defaults to validate, got %v", err)
	}
}

// TestStartURL tests deriving the root category address.
func TestStartURL(t *testing.T) {
	t.Parallel()

	cfg := NewConfig()
	if got := cfg.StartURL(); got != "https://oldschool.runescape.wiki/w/Category:Content" {
		t.Errorf("unexpected start URL %q", got)
	}

	cfg.Homepage = "https://runescape.wiki/"
	if got := cfg.StartURL(); got != "https://runescape.wiki/w/Category:Content" {
		t.Errorf("unexpected start URL %q", got)
	}

	cfg.RootCategoryURL = "https://runescape.wiki/w/Category:Items"
	if got := cfg.StartURL(); got != cfg.RootCategoryURL {
		t.Errorf("expected explicit root URL, got %q", got)
	}
}

// TestConfigValidate tests each validation rule.
func TestConfigValidate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr error
	}{
		{"valid", func(*Config) {}, nil},
		{"relative homepage", func(c *Config) { c.Homepage = "/wiki" }, ErrInvalidHomepage},
		{"ftp homepage", func(c *Config) { c.Homepage = "ftp://wiki.test" }, ErrInvalidHomepage},
		{"empty root node", func(c *Config) { c.RootNode = "" }, ErrNoRootNode},
		{"empty graph path", func(c *Config) { c.GraphPath = "" }, ErrNoGraphPath},
		{"zero timeout", func(c *Config) { c.Timeout = 0 }, ErrInvalidTimeout},
		{"zero batch size", func(c *Config) { c.BatchSize = 0 }, ErrInvalidBatchSize},
		{"negative body size", func(c *Config) { c.MaxBodySize = -1 }, ErrInvalidMaxBodySize},
		{"negative cache age", func(c *Config) { c.CacheMaxAge = -time.Second }, ErrInvalidCacheMaxAge},
		{"both report formats", func(c *Config) { c.JSONReport, c.MarkdownReport = true, true }, ErrConflictingReportFormats},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := NewConfig()
			tt.modify(cfg)
			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

const sampleFile = `homepage: https://wiki.test
root_node: Test_Wiki
graph_path: out/graph.json
cookie: "wiki_session=abc"
headers:
  X-Test: "1"
proxy: 127.0.0.1:9050
timeout: 45s
cache_max_age: 1h
batch_size: 4
remove_edges:
  - from: Pets
    to: Slayer
skip_categories:
  - "*_images"
`

// TestLoadConfigFile tests parsing and applying a configuration file.
func TestLoadConfigFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), ".wikigraph")
	if err := os.WriteFile(path, []byte(sampleFile), 0o600); err != nil {
		t.Fatal(err)
	}

	f, err := LoadConfigFile(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	cfg := NewConfig()
	cfg.Headers = map[string]string{"Accept-Language": "en"}
	if err := f.Apply(cfg); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Homepage != "https://wiki.test" || cfg.RootNode != "Test_Wiki" || cfg.GraphPath != "out/graph.json" {
		t.Errorf("unexpected identity fields %+v", cfg)
	}
	if cfg.Cookie != "wiki_session=abc" || cfg.ProxyAddress != "127.0.0.1:9050" {
		t.Errorf("unexpected request fields %+v", cfg)
	}
	if cfg.Headers["X-Test"] != "1" || cfg.Headers["Accept-Language"] != "en" {
		t.Errorf("expected merged headers, got %v", cfg.Headers)
	}
	if cfg.Timeout != 45*time.Second || cfg.CacheMaxAge != time.Hour || cfg.BatchSize != 4 {
		t.Errorf("unexpected tuning fields %+v", cfg)
	}
	if want := []graph.Edge{{From: "Pets", To: "Slayer"}}; !slices.Equal(cfg.RemoveEdges, want) {
		t.Errorf("expected edges %v, got %v", want, cfg.RemoveEdges)
	}
	if !slices.Equal(cfg.SkipCategories, []string{"*_images"}) {
		t.Errorf("unexpected skip patterns %v", cfg.SkipCategories)
	}
	if cfg.UserAgent != DefaultUserAgent {
		t.Errorf("expected user agent to keep its default, got %q", cfg.UserAgent)
	}
}

// TestLoadConfigFileErrors tests loader failures.
func TestLoadConfigFileErrors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	t.Run("missing file", func(t *testing.T) {
		t.Parallel()

		if _, err := LoadConfigFile(filepath.Join(dir, "nope")); !errors.Is(err, ErrConfigNotFound) {
			t.Errorf("expected ErrConfigNotFound, got %v", err)
		}
	})

	t.Run("invalid yaml", func(t *testing.T) {
		t.Parallel()

		path := filepath.Join(dir, "bad.yaml")
		if err := os.WriteFile(path, []byte("homepage: [unclosed"), 0o600); err != nil {
			t.Fatal(err)
		}
		if _, err := LoadConfigFile(path); err == nil {
			t.Error("expected a parse error")
		}
	})

	t.Run("incomplete edge", func(t *testing.T) {
		t.Parallel()

		f := &File{RemoveEdges: []EdgeEntry{{From: "Pets"}}}
		if err := f.Apply(NewConfig()); !errors.Is(err, ErrInvalidEdge) {
			t.Errorf("expected ErrInvalidEdge, got %v", err)
		}
	})
}

// TestFindConfigFile tests the search order.
func TestFindConfigFile(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	explicit := filepath.Join(dir, "custom.yaml")
	if err := os.WriteFile(explicit, []byte("batch_size: 2\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := FindConfigFile(explicit); got != explicit {
		t.Errorf("expected explicit path, got %q", got)
	}
	if got := FindConfigFile(filepath.Join(dir, "missing.yaml")); got != "" {
		t.Errorf("expected no file for a missing explicit path, got %q", got)
	}

	local := filepath.Join(dir, DefaultConfigFile)
	if err := os.WriteFile(local, []byte("batch_size: 3\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	got := FindConfigFile("")
	if filepath.Base(got) != DefaultConfigFile {
		t.Errorf("expected the current directory file, got %q", got)
	}

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.BatchSize != 3 {
		t.Errorf("expected batch size from the local file, got %d", cfg.BatchSize)
	}

	if _, err := Load(filepath.Join(dir, "missing.yaml")); !errors.Is(err, ErrConfigNotFound) {
		t.Errorf("expected ErrConfigNotFound, got %v", err)
	}
}
