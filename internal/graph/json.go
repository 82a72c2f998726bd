package graph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// document is the persisted form of a Graph.
type document struct {
	RootNode        string        `json:"root_node"`
	RootCategoryURL string        `json:"root_category_url"`
	Graph           adjacencyData `json:"graph"`
}

// adjacencyData mirrors the networkx adjacency_data layout.
// adjacency[i] lists the successors of nodes[i]. Graph attributes are
// written as an empty list of pairs and ignored on load.
type adjacencyData struct {
	Directed   bool               `json:"directed"`
	Multigraph bool               `json:"multigraph"`
	Graph      json.RawMessage    `json:"graph"`
	Nodes      []nodeData         `json:"nodes"`
	Adjacency  [][]adjacencyEntry `json:"adjacency"`
}

type nodeData struct {
	Pages       []string `json:"pages"`
	CategoryURL string   `json:"category_url,omitempty"`
	ID          string   `json:"id"`
}

type adjacencyEntry struct {
	ID string `json:"id"`
}

// Save writes the graph to w as indented JSON.
func (g *Graph) Save(w io.Writer) error {
	doc := g.document()

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc); err != nil {
		return fmt.Errorf("failed to encode category graph: %w", err)
	}
	return nil
}

// MarshalJSON implements json.Marshaler.
func (g *Graph) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.document())
}

func (g *Graph) document() document {
	g.mu.RLock()
	defer g.mu.RUnlock()

	data := adjacencyData{
		Directed:   true,
		Multigraph: false,
		Graph:      json.RawMessage("[]"),
		Nodes:      make([]nodeData, len(g.nodes)),
		Adjacency:  make([][]adjacencyEntry, len(g.nodes)),
	}
	for i, n := range g.nodes {
		pages := n.pages
		if pages == nil {
			pages = []string{}
		}
		data.Nodes[i] = nodeData{
			Pages:       pages,
			CategoryURL: n.categoryURL,
			ID:          n.name,
		}
		adj := make([]adjacencyEntry, len(n.succ))
		for k, j := range n.succ {
			adj[k] = adjacencyEntry{ID: g.nodes[j].name}
		}
		data.Adjacency[i] = adj
	}

	return document{
		RootNode:        g.rootNode,
		RootCategoryURL: g.rootCategoryURL,
		Graph:           data,
	}
}

// SaveFile writes the graph to path, creating parent directories.
// The file is written to a temporary name first and renamed into place.
func (g *Graph) SaveFile(path string) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("failed to create temporary file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err := g.Save(tmp); err != nil {
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// Load reads a graph written by Save.
// Successors that are not listed as nodes are added as bare nodes, and a
// missing root node is recreated.
func Load(r io.Reader) (*Graph, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return fromDocument(doc)
}

// LoadFile reads a graph from path.
func LoadFile(path string) (*Graph, error) {
	f, err := os.Open(path) //nolint:gosec // path is chosen by the operator
	if err != nil {
		return nil, fmt.Errorf("failed to open category graph: %w", err)
	}
	defer f.Close()

	g, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return g, nil
}

// UnmarshalJSON implements json.Unmarshaler.
func (g *Graph) UnmarshalJSON(b []byte) error {
	var doc document
	if err := json.Unmarshal(b, &doc); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	loaded, err := fromDocument(doc)
	if err != nil {
		return err
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	g.rootNode = loaded.rootNode
	g.rootCategoryURL = loaded.rootCategoryURL
	g.nodes = loaded.nodes
	g.index = loaded.index
	g.edges = loaded.edges
	return nil
}

func fromDocument(doc document) (*Graph, error) {
	switch {
	case doc.RootNode == "":
		return nil, fmt.Errorf("%w: missing root_node", ErrInvalidDocument)
	case !doc.Graph.Directed:
		return nil, fmt.Errorf("%w: graph is not directed", ErrInvalidDocument)
	case doc.Graph.Multigraph:
		return nil, fmt.Errorf("%w: multigraphs are not supported", ErrInvalidDocument)
	case len(doc.Graph.Adjacency) != len(doc.Graph.Nodes):
		return nil, fmt.Errorf("%w: %d nodes but %d adjacency lists",
			ErrInvalidDocument, len(doc.Graph.Nodes), len(doc.Graph.Adjacency))
	}

	g := &Graph{
		rootNode:        doc.RootNode,
		rootCategoryURL: doc.RootCategoryURL,
		index:           make(map[string]int, len(doc.Graph.Nodes)),
	}

	for _, nd := range doc.Graph.Nodes {
		if nd.ID == "" {
			return nil, fmt.Errorf("%w: node without id", ErrInvalidDocument)
		}
		i, known := g.ensure(nd.ID)
		if known {
			return nil, fmt.Errorf("%w: duplicate node %q", ErrInvalidDocument, nd.ID)
		}
		n := g.nodes[i]
		n.categoryURL = nd.CategoryURL
		n.appendPages(nd.Pages)
	}

	for i, succ := range doc.Graph.Adjacency {
		from := g.nodes[i]
		for _, e := range succ {
			if e.ID == "" {
				return nil, fmt.Errorf("%w: edge from %q without target id", ErrInvalidDocument, from.name)
			}
			ti, _ := g.ensure(e.ID)
			if _, ok := from.succSet[ti]; ok {
				continue
			}
			from.succSet[ti] = struct{}{}
			from.succ = append(from.succ, ti)
			g.edges++
		}
	}

	g.ensure(doc.RootNode)
	return g, nil
}
