package graph

import (
	"fmt"
	"slices"
	"sync"
)

// Node is a snapshot of one category in the graph.
type Node struct {
	// Name is the category name as captured from its address,
	// e.g. "Slayer_monsters".
	Name string

	// Pages are the page addresses directly classified under the category,
	// in the order they were discovered. Pages reached only through
	// subcategories are not included.
	Pages []string

	// CategoryURL is the canonical address of the category's first page.
	// It is empty for the synthetic root node.
	CategoryURL string
}

// Edge is a directed parent to subcategory relation.
type Edge struct {
	From string `json:"from"`
	To   string `json:"to"`
}

// String returns the edge as "from -> to".
func (e Edge) String() string {
	return e.From + " -> " + e.To
}

// node is the internal mutable form of Node.
type node struct {
	name        string
	pages       []string
	pageSet     map[string]struct{}
	categoryURL string

	// succ holds successor indices in insertion order; succSet mirrors it
	// for constant-time membership tests.
	succ    []int
	succSet map[int]struct{}
}

func newNode(name string) *node {
	return &node{
		name:    name,
		pageSet: make(map[string]struct{}),
		succSet: make(map[int]struct{}),
	}
}

// appendPages appends every page not already present and returns how many
// were added.
func (n *node) appendPages(pages []string) int {
	added := 0
	for _, p := range pages {
		if _, ok := n.pageSet[p]; ok {
			continue
		}
		n.pageSet[p] = struct{}{}
		n.pages = append(n.pages, p)
		added++
	}
	return added
}

// Graph is a directed graph of wiki categories.
// It is safe for concurrent use.
//
// Nodes are never removed. The only shrinking mutation is RemoveEdge, and
// page sequences only ever grow.
type Graph struct {
	mu sync.RWMutex

	rootNode        string
	rootCategoryURL string

	nodes []*node
	index map[string]int
	edges int
}

// New creates a graph holding only the synthetic root node.
// rootCategoryURL is the address the crawl starts from; it is carried with
// the graph so that a persisted graph can be extended later.
func New(rootNode, rootCategoryURL string) *Graph {
	g := &Graph{
		rootNode:        rootNode,
		rootCategoryURL: rootCategoryURL,
		index:           make(map[string]int),
	}
	g.ensure(rootNode)
	return g
}

// RootNode returns the name of the synthetic root node.
func (g *Graph) RootNode() string {
	return g.rootNode
}

// RootCategoryURL returns the address the crawl starts from.
func (g *Graph) RootCategoryURL() string {
	return g.rootCategoryURL
}

// ensure returns the index of name, adding the node if it does not exist.
// The caller must hold the write lock.
func (g *Graph) ensure(name string) (int, bool) {
	if i, ok := g.index[name]; ok {
		return i, true
	}
	i := len(g.nodes)
	g.nodes = append(g.nodes, newNode(name))
	g.index[name] = i
	return i, false
}

// AddEdge adds the edge from -> to, creating either node if needed, and
// reports whether to was already in the graph before the call.
// Adding an existing edge is a no-op.
//
// The membership test and the insertion happen under one lock, so two
// callers discovering the same category concurrently observe exactly one
// first visit between them.
func (g *Graph) AddEdge(from, to string) (knownBefore bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, knownBefore = g.index[to]
	fi, _ := g.ensure(from)
	ti, _ := g.ensure(to)

	f := g.nodes[fi]
	if _, ok := f.succSet[ti]; !ok {
		f.succSet[ti] = struct{}{}
		f.succ = append(f.succ, ti)
		g.edges++
	}
	return knownBefore
}

// AddNode adds a node with no edges and reports whether it already existed.
func (g *Graph) AddNode(name string) (knownBefore bool) {
	g.mu.Lock()
	defer g.mu.Unlock()

	_, knownBefore = g.ensure(name)
	return knownBefore
}

// RemoveEdge removes the edge from -> to.
// It returns ErrEdgeNotFound if the edge does not exist.
func (g *Graph) RemoveEdge(from, to string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	fi, ok := g.index[from]
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrEdgeNotFound, from, to)
	}
	ti, ok := g.index[to]
	if !ok {
		return fmt.Errorf("%w: %s -> %s", ErrEdgeNotFound, from, to)
	}

	f := g.nodes[fi]
	if _, ok := f.succSet[ti]; !ok {
		return fmt.Errorf("%w: %s -> %s", ErrEdgeNotFound, from, to)
	}
	delete(f.succSet, ti)
	f.succ = slices.DeleteFunc(f.succ, func(i int) bool { return i == ti })
	g.edges--
	return nil
}

// SetCategoryURL records the canonical address of a category.
func (g *Graph) SetCategoryURL(name, categoryURL string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	i, ok := g.index[name]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	g.nodes[i].categoryURL = categoryURL
	return nil
}

// AppendPages appends pages to the page sequence of a category, skipping
// addresses it already holds, and returns the number of pages added.
// Existing pages are never reordered or replaced.
func (g *Graph) AppendPages(name string, pages ...string) (int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	i, ok := g.index[name]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	return g.nodes[i].appendPages(pages), nil
}

// HasNode reports whether name is in the graph.
func (g *Graph) HasNode(name string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	_, ok := g.index[name]
	return ok
}

// HasEdge reports whether the edge from -> to is in the graph.
func (g *Graph) HasEdge(from, to string) bool {
	g.mu.RLock()
	defer g.mu.RUnlock()

	fi, ok := g.index[from]
	if !ok {
		return false
	}
	ti, ok := g.index[to]
	if !ok {
		return false
	}
	_, ok = g.nodes[fi].succSet[ti]
	return ok
}

// Node returns a copy of the named node.
func (g *Graph) Node(name string) (Node, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	i, ok := g.index[name]
	if !ok {
		return Node{}, false
	}
	n := g.nodes[i]
	return Node{
		Name:        n.name,
		Pages:       slices.Clone(n.pages),
		CategoryURL: n.categoryURL,
	}, true
}

// Nodes returns every node name in insertion order.
func (g *Graph) Nodes() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, len(g.nodes))
	for i, n := range g.nodes {
		names[i] = n.name
	}
	return names
}

// Successors returns the subcategories of name in insertion order.
func (g *Graph) Successors(name string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	i, ok := g.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	succ := make([]string, len(g.nodes[i].succ))
	for k, j := range g.nodes[i].succ {
		succ[k] = g.nodes[j].name
	}
	return succ, nil
}

// Predecessors returns the parents of name in node order.
func (g *Graph) Predecessors(name string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	i, ok := g.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}
	var preds []string
	for _, n := range g.nodes {
		if _, ok := n.succSet[i]; ok {
			preds = append(preds, n.name)
		}
	}
	return preds, nil
}

// Edges returns every edge, grouped by source in node order.
func (g *Graph) Edges() []Edge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := make([]Edge, 0, g.edges)
	for _, n := range g.nodes {
		for _, j := range n.succ {
			edges = append(edges, Edge{From: n.name, To: g.nodes[j].name})
		}
	}
	return edges
}

// NumNodes returns the number of nodes, including the root.
func (g *Graph) NumNodes() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return len(g.nodes)
}

// NumEdges returns the number of edges.
func (g *Graph) NumEdges() int {
	g.mu.RLock()
	defer g.mu.RUnlock()

	return g.edges
}

// adjacency returns a copy of the node names and successor lists, for
// algorithms that run without holding the lock.
func (g *Graph) adjacency() ([]string, [][]int) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, len(g.nodes))
	adj := make([][]int, len(g.nodes))
	for i, n := range g.nodes {
		names[i] = n.name
		adj[i] = slices.Clone(n.succ)
	}
	return names, adj
}
