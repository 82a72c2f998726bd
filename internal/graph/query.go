package graph

import (
	"fmt"
	"slices"
)

// AllPages returns every page address held by any category, sorted and
// without duplicates.
func (g *Graph) AllPages() []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	seen := make(map[string]struct{})
	for _, n := range g.nodes {
		for _, p := range n.pages {
			seen[p] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// NumPages returns the number of distinct page addresses in the graph.
func (g *Graph) NumPages() int {
	return len(g.AllPages())
}

// PageCategories returns the sorted names of the categories that directly
// contain page. Membership is not inherited through subcategories, so the
// result can be compared with the category list a page declares itself.
func (g *Graph) PageCategories(page string) []string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var names []string
	for _, n := range g.nodes {
		if _, ok := n.pageSet[page]; ok {
			names = append(names, n.name)
		}
	}
	slices.Sort(names)
	return names
}

// PageIndex maps every page address to the sorted categories that directly
// contain it. It is equivalent to calling PageCategories for each page of
// AllPages, in a single pass.
func (g *Graph) PageIndex() map[string][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	index := make(map[string][]string)
	for _, n := range g.nodes {
		for _, p := range n.pages {
			index[p] = append(index[p], n.name)
		}
	}
	for _, names := range index {
		slices.Sort(names)
	}
	return index
}

// Descendants returns the sorted names of every category reachable from
// name, excluding name itself even when it lies on a cycle.
func (g *Graph) Descendants(name string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	reached, err := g.reachable(name)
	if err != nil {
		return nil, err
	}
	names := make(map[string]struct{}, len(reached))
	for _, i := range reached {
		names[g.nodes[i].name] = struct{}{}
	}
	delete(names, name)
	return sortedKeys(names), nil
}

// PagesUnder returns the sorted pages classified under name or under any of
// its descendants.
func (g *Graph) PagesUnder(name string) ([]string, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	reached, err := g.reachable(name)
	if err != nil {
		return nil, err
	}
	pages := make(map[string]struct{})
	for _, i := range reached {
		for _, p := range g.nodes[i].pages {
			pages[p] = struct{}{}
		}
	}
	return sortedKeys(pages), nil
}

// reachable returns name and every node reachable from it in breadth-first
// order. The caller must hold the read lock.
func (g *Graph) reachable(name string) ([]int, error) {
	start, ok := g.index[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownNode, name)
	}

	seen := make([]bool, len(g.nodes))
	seen[start] = true
	order := []int{start}
	for k := 0; k < len(order); k++ {
		for _, j := range g.nodes[order[k]].succ {
			if !seen[j] {
				seen[j] = true
				order = append(order, j)
			}
		}
	}
	return order, nil
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
