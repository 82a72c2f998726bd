package graph

import "iter"

// Cycles returns the simple cycles of the graph.
//
// Each cycle is the sequence of category names along the loop, starting at
// the member that was added to the graph first; the closing edge back to
// the first element is implied. A self-loop is a cycle of length one.
// Cycles are produced lazily with Johnson's algorithm over a snapshot of
// the graph taken when iteration starts, so the sequence is finite and
// deterministic, and stopping the range loop stops the search.
func (g *Graph) Cycles() iter.Seq[[]string] {
	return func(yield func([]string) bool) {
		names, adj := g.adjacency()
		j := &johnson{
			names:   names,
			adj:     adj,
			blocked: make([]bool, len(names)),
			b:       make([]map[int]struct{}, len(names)),
			inComp:  make([]bool, len(names)),
			yield:   yield,
		}
		j.run()
	}
}

// CountCycles returns the number of simple cycles in the graph.
func (g *Graph) CountCycles() int {
	n := 0
	for range g.Cycles() {
		n++
	}
	return n
}

// HasCycles reports whether the graph has at least one cycle.
func (g *Graph) HasCycles() bool {
	for range g.Cycles() {
		return true
	}
	return false
}

// johnson holds the state of one cycle enumeration.
type johnson struct {
	names []string
	adj   [][]int

	blocked []bool
	b       []map[int]struct{}
	stack   []int

	// inComp marks the strongly connected component of the current start
	// vertex within the subgraph of vertices not smaller than it.
	inComp []bool

	yield   func([]string) bool
	stopped bool
}

func (j *johnson) run() {
	n := len(j.names)
	for s := 0; s < n && !j.stopped; s++ {
		comp := j.component(s)
		if len(comp) == 1 && !j.hasSelfLoop(s) {
			j.inComp[s] = false
			continue
		}
		for _, v := range comp {
			j.blocked[v] = false
			j.b[v] = nil
		}
		j.circuit(s, s)
		for _, v := range comp {
			j.inComp[v] = false
		}
	}
}

func (j *johnson) hasSelfLoop(v int) bool {
	for _, w := range j.adj[v] {
		if w == v {
			return true
		}
	}
	return false
}

// component returns the vertices that lie on a path from s back to s using
// only vertices >= s, and marks them in inComp.
func (j *johnson) component(s int) []int {
	forward := j.reach(s, func(v int) []int { return j.adj[v] })

	reverse := make([][]int, len(j.adj))
	for v := range forward {
		for _, w := range j.adj[v] {
			if _, ok := forward[w]; ok {
				reverse[w] = append(reverse[w], v)
			}
		}
	}
	backward := j.reach(s, func(v int) []int { return reverse[v] })

	comp := []int{s}
	j.inComp[s] = true
	for v := range backward {
		if v != s {
			comp = append(comp, v)
			j.inComp[v] = true
		}
	}
	return comp
}

// reach returns the set of vertices >= s reachable from s along next.
func (j *johnson) reach(s int, next func(int) []int) map[int]struct{} {
	seen := map[int]struct{}{s: {}}
	queue := []int{s}
	for len(queue) > 0 {
		v := queue[0]
		queue = queue[1:]
		for _, w := range next(v) {
			if w < s {
				continue
			}
			if _, ok := seen[w]; ok {
				continue
			}
			seen[w] = struct{}{}
			queue = append(queue, w)
		}
	}
	return seen
}

// circuit searches for cycles through s that continue from v.
// It reports whether at least one was found.
func (j *johnson) circuit(v, s int) bool {
	found := false
	j.stack = append(j.stack, v)
	j.blocked[v] = true

	for _, w := range j.adj[v] {
		if !j.inComp[w] {
			continue
		}
		if w == s {
			cycle := make([]string, len(j.stack))
			for i, x := range j.stack {
				cycle[i] = j.names[x]
			}
			if !j.yield(cycle) {
				j.stopped = true
			}
			found = true
		} else if !j.blocked[w] && j.circuit(w, s) {
			found = true
		}
		if j.stopped {
			break
		}
	}

	if found {
		j.unblock(v)
	} else {
		for _, w := range j.adj[v] {
			if !j.inComp[w] {
				continue
			}
			if j.b[w] == nil {
				j.b[w] = make(map[int]struct{})
			}
			j.b[w][v] = struct{}{}
		}
	}

	j.stack = j.stack[:len(j.stack)-1]
	return found
}

func (j *johnson) unblock(u int) {
	j.blocked[u] = false
	for w := range j.b[u] {
		delete(j.b[u], w)
		if j.blocked[w] {
			j.unblock(w)
		}
	}
}
