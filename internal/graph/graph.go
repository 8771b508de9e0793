// Package graph models the resolved dependency graph between module releases
// and finds the circular chains in it.
package graph

// DependencyGraph is a directed graph over comparable node keys. Nodes and
// outgoing edges keep their insertion order, so traversals are deterministic.
type DependencyGraph[K comparable] struct {
	nodes []K
	index map[K]int
	edges [][]int
}

func New[K comparable]() *DependencyGraph[K] {
	return &DependencyGraph[K]{index: map[K]int{}}
}

// AddNode registers k and returns its position. Adding a known node is a no-op.
func (g *DependencyGraph[K]) AddNode(k K) int {
	if i, ok := g.index[k]; ok {
		return i
	}
	i := len(g.nodes)
	g.index[k] = i
	g.nodes = append(g.nodes, k)
	g.edges = append(g.edges, nil)
	return i
}

// AddEdge records from -> to, adding either node if needed. Parallel edges
// are collapsed.
func (g *DependencyGraph[K]) AddEdge(from, to K) {
	f, t := g.AddNode(from), g.AddNode(to)
	for _, e := range g.edges[f] {
		if e == t {
			return
		}
	}
	g.edges[f] = append(g.edges[f], t)
}

func (g *DependencyGraph[K]) Len() int { return len(g.nodes) }

func (g *DependencyGraph[K]) Nodes() []K {
	return append([]K(nil), g.nodes...)
}

func (g *DependencyGraph[K]) Has(k K) bool {
	_, ok := g.index[k]
	return ok
}

// Successors returns the direct dependencies of k in insertion order.
func (g *DependencyGraph[K]) Successors(k K) []K {
	i, ok := g.index[k]
	if !ok {
		return nil
	}
	out := make([]K, 0, len(g.edges[i]))
	for _, e := range g.edges[i] {
		out = append(out, g.nodes[e])
	}
	return out
}

// Cycles returns every elementary circular chain in the graph. Each chain is
// reported once, starting at the node of the chain that was added to the
// graph first; the closing node is not repeated. Chains are ordered by that
// first node, then by depth-first discovery along insertion-ordered edges.
//
// Every simple path from each start node is explored, which is exponential
// in the worst case; resolved module graphs are small and sparse.
func (g *DependencyGraph[K]) Cycles() [][]K {
	var cycles [][]K
	onPath := make([]bool, len(g.nodes))
	var path []int

	// Chains starting at s only visit nodes added after s, so each chain is
	// found from its earliest node and nowhere else.
	var visit func(s, n int)
	visit = func(s, n int) {
		onPath[n] = true
		path = append(path, n)
		for _, next := range g.edges[n] {
			switch {
			case next == s:
				out := make([]K, len(path))
				for i, idx := range path {
					out[i] = g.nodes[idx]
				}
				cycles = append(cycles, out)
			case next > s && !onPath[next]:
				visit(s, next)
			}
		}
		path = path[:len(path)-1]
		onPath[n] = false
	}

	for s := range g.nodes {
		visit(s, s)
	}
	return cycles
}
