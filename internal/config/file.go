package config

import (
	"fmt"
	"maps"
	"time"

	"github.com/thomas-dorrington/Runescape2Vec/internal/graph"
)

// EdgeEntry is one edge listed under remove_edges.
type EdgeEntry struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// File is the structure of the .wikigraph configuration file.
// Every field is optional; zero values leave the corresponding Config
// field unchanged.
type File struct {
	Homepage        string `yaml:"homepage,omitempty"`
	RootNode        string `yaml:"root_node,omitempty"`
	RootCategoryURL string `yaml:"root_category_url,omitempty"`
	GraphPath       string `yaml:"graph_path,omitempty"`

	// UserAgent, Cookie, Headers and Proxy shape outgoing requests.
	// Cookie has the form "name=value; name2=value2".
	UserAgent string            `yaml:"user_agent,omitempty"`
	Cookie    string            `yaml:"cookie,omitempty"`
	Headers   map[string]string `yaml:"headers,omitempty"`
	Proxy     string            `yaml:"proxy,omitempty"`

	Timeout     time.Duration `yaml:"timeout,omitempty"`
	CacheMaxAge time.Duration `yaml:"cache_max_age,omitempty"`
	BatchSize   int           `yaml:"batch_size,omitempty"`

	// RemoveEdges are cut after every crawl, in order.
	RemoveEdges []EdgeEntry `yaml:"remove_edges,omitempty"`

	// SkipCategories are glob patterns over category names, e.g. "*_images".
	SkipCategories []string `yaml:"skip_categories,omitempty"`
}

// Edges returns the remove_edges entries as graph edges.
// It returns an error wrapping ErrInvalidEdge if an entry lacks an endpoint.
func (f *File) Edges() ([]graph.Edge, error) {
	edges := make([]graph.Edge, 0, len(f.RemoveEdges))
	for i, e := range f.RemoveEdges {
		if e.From == "" || e.To == "" {
			return nil, fmt.Errorf("%w: remove_edges[%d]", ErrInvalidEdge, i)
		}
		edges = append(edges, graph.Edge{From: e.From, To: e.To})
	}
	return edges, nil
}

// Apply overlays the non-zero values of f onto cfg. Headers are merged,
// with the file winning on conflicts; edges and skip patterns are appended.
func (f *File) Apply(cfg *Config) error {
	edges, err := f.Edges()
	if err != nil {
		return err
	}

	setString(&cfg.Homepage, f.Homepage)
	setString(&cfg.RootNode, f.RootNode)
	setString(&cfg.RootCategoryURL, f.RootCategoryURL)
	setString(&cfg.GraphPath, f.GraphPath)
	setString(&cfg.UserAgent, f.UserAgent)
	setString(&cfg.Cookie, f.Cookie)
	setString(&cfg.ProxyAddress, f.Proxy)

	if f.Timeout > 0 {
		cfg.Timeout = f.Timeout
	}
	if f.CacheMaxAge > 0 {
		cfg.CacheMaxAge = f.CacheMaxAge
	}
	if f.BatchSize > 0 {
		cfg.BatchSize = f.BatchSize
	}

	if len(f.Headers) > 0 {
		if cfg.Headers == nil {
			cfg.Headers = make(map[string]string, len(f.Headers))
		}
		maps.Copy(cfg.Headers, f.Headers)
	}

	cfg.RemoveEdges = append(cfg.RemoveEdges, edges...)
	cfg.SkipCategories = append(cfg.SkipCategories, f.SkipCategories...)
	return nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
