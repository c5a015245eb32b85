package layout

import "sort"

// DependencyGraph tracks which classes reference which other classes
// through their field types. The two-phase opaque-handle-then-body
// construction handles cyclic field references correctly on its
// own; this graph is purely a verbose-mode diagnostic that reports cycles
// for a human to look at.
type DependencyGraph struct {
	refs map[string]map[string]bool
}

// NewDependencyGraph creates an empty graph.
func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{refs: make(map[string]map[string]bool)}
}

// AddReference records that class `from` has a field referencing class
// `to`.
func (g *DependencyGraph) AddReference(from, to string) {
	if g.refs[from] == nil {
		g.refs[from] = make(map[string]bool)
	}
	g.refs[from][to] = true
}

// Cycles returns the cycles closed by back edges during one depth-first
// pass over the reference graph, each as an ordered slice of class names
// starting and ending at the same class. A graph with any cycle yields at
// least one, but not every distinct cycle is listed: a cycle that is only
// reached through an already-visited class is not reported again. Nodes
// and neighbors are visited in sorted order, so the output is
// deterministic.
func (g *DependencyGraph) Cycles() [][]string {
	var cycles [][]string

	visited := make(map[string]bool)
	onStack := make(map[string]bool)
	var stack []string

	var dfs func(node string)
	dfs = func(node string) {
		visited[node] = true
		onStack[node] = true
		stack = append(stack, node)

		neighbors := make([]string, 0, len(g.refs[node]))
		for n := range g.refs[node] {
			neighbors = append(neighbors, n)
		}
		sort.Strings(neighbors)

		for _, next := range neighbors {
			if onStack[next] {
				cycle := append([]string{}, stack...)
				for len(cycle) > 0 && cycle[0] != next {
					cycle = cycle[1:]
				}
				cycle = append(cycle, next)
				cycles = append(cycles, cycle)
				continue
			}
			if !visited[next] {
				dfs(next)
			}
		}

		stack = stack[:len(stack)-1]
		onStack[node] = false
	}

	nodes := make([]string, 0, len(g.refs))
	for n := range g.refs {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	for _, n := range nodes {
		if !visited[n] {
			dfs(n)
		}
	}

	return cycles
}
