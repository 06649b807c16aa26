package dependency

import "container/heap"

// Edge says From must be published before To. From is the dependency, To the
// dependent document.
type Edge struct {
	From string
	To   string
}

// Graph is the extracted document set plus its precedence edges. Documents
// keep table order; Edges keep encounter order and are not deduplicated.
type Graph struct {
	Documents []string
	Edges     []Edge
}

// Extract reads the table row by row. Every non-blank dependency cell becomes
// one edge. Empty and duplicate document names are rejected; dependencies on
// documents missing from the table are left for Validate to report.
func Extract(t Table) (Graph, error) {
	g := Graph{Documents: make([]string, 0, len(t))}
	seen := make(map[string]int, len(t))
	for i, row := range t {
		name := Normalize(row.Name)
		if name == "" {
			return Graph{}, graphErrorf(ErrEmptyName, "row %d", i+1)
		}
		if first, ok := seen[name]; ok {
			return Graph{}, graphErrorf(ErrDuplicateDocument, "%s (rows %d and %d)", name, first+1, i+1)
		}
		seen[name] = i
		g.Documents = append(g.Documents, name)
		for _, cell := range row.Dependencies {
			dep := Normalize(cell)
			if dep == "" {
				continue
			}
			g.Edges = append(g.Edges, Edge{From: dep, To: name})
		}
	}
	return g, nil
}

// Dependencies lists the distinct documents doc depends on, in edge order.
func (g Graph) Dependencies(doc string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, e := range g.Edges {
		if e.To != doc {
			continue
		}
		if _, ok := seen[e.From]; ok {
			continue
		}
		seen[e.From] = struct{}{}
		out = append(out, e.From)
	}
	return out
}

// Dependents lists the distinct documents that depend on doc, in edge order.
func (g Graph) Dependents(doc string) []string {
	var out []string
	seen := map[string]struct{}{}
	for _, e := range g.Edges {
		if e.From != doc {
			continue
		}
		if _, ok := seen[e.To]; ok {
			continue
		}
		seen[e.To] = struct{}{}
		out = append(out, e.To)
	}
	return out
}

// Validate reports edges naming documents that are not in the table and, if
// there are none, the first dependency cycle found.
func (g Graph) Validate() error {
	index := g.index()
	for _, e := range g.Edges {
		if _, ok := index[e.From]; !ok {
			return graphErrorf(ErrUnknownDocument, "%s (dependency of %s)", e.From, e.To)
		}
		if _, ok := index[e.To]; !ok {
			return graphErrorf(ErrUnknownDocument, "%s", e.To)
		}
	}
	if order := g.topoIndices(index); len(order) != len(g.Documents) {
		return cycleError(g.findCycle(index))
	}
	return nil
}

// TopologicalOrder returns every document after all of its dependencies.
// Among documents that are ready at the same time, table order wins.
func (g Graph) TopologicalOrder() ([]string, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	order := g.topoIndices(g.index())
	out := make([]string, len(order))
	for i, idx := range order {
		out[i] = g.Documents[idx]
	}
	return out, nil
}

func (g Graph) index() map[string]int {
	index := make(map[string]int, len(g.Documents))
	for i, doc := range g.Documents {
		if _, ok := index[doc]; !ok {
			index[doc] = i
		}
	}
	return index
}

// outgoing returns, per document index, the distinct dependent indices in
// ascending order. Edges touching unknown documents are skipped.
func (g Graph) outgoing(index map[string]int) [][]int {
	out := make([][]int, len(g.Documents))
	seen := map[[2]int]struct{}{}
	for _, e := range g.Edges {
		from, okFrom := index[e.From]
		to, okTo := index[e.To]
		if !okFrom || !okTo {
			continue
		}
		key := [2]int{from, to}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out[from] = insertSorted(out[from], to)
	}
	return out
}

func insertSorted(list []int, v int) []int {
	i := len(list)
	for i > 0 && list[i-1] > v {
		i--
	}
	list = append(list, 0)
	copy(list[i+1:], list[i:])
	list[i] = v
	return list
}

type minHeap []int

func (h minHeap) Len() int           { return len(h) }
func (h minHeap) Less(i, j int) bool { return h[i] < h[j] }
func (h minHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x any)        { *h = append(*h, x.(int)) }
func (h *minHeap) Pop() any {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// topoIndices runs Kahn's algorithm with a min-heap on table position. A
// result shorter than Documents means the graph has a cycle.
func (g Graph) topoIndices(index map[string]int) []int {
	outgoing := g.outgoing(index)
	indeg := make([]int, len(g.Documents))
	for _, targets := range outgoing {
		for _, to := range targets {
			indeg[to]++
		}
	}
	ready := &minHeap{}
	for i, d := range indeg {
		if d == 0 {
			heap.Push(ready, i)
		}
	}
	order := make([]int, 0, len(indeg))
	for ready.Len() > 0 {
		n := heap.Pop(ready).(int)
		order = append(order, n)
		for _, m := range outgoing[n] {
			indeg[m]--
			if indeg[m] == 0 {
				heap.Push(ready, m)
			}
		}
	}
	return order
}

// findCycle walks the graph depth first in table order and returns one cycle
// as a closed path, e.g. [a b a].
func (g Graph) findCycle(index map[string]int) []string {
	const (
		white = iota
		gray
		black
	)
	outgoing := g.outgoing(index)
	color := make([]int, len(g.Documents))
	parent := make([]int, len(g.Documents))
	for i := range parent {
		parent[i] = -1
	}

	var cycle []int
	var visit func(u int) bool
	visit = func(u int) bool {
		color[u] = gray
		for _, v := range outgoing[u] {
			switch color[v] {
			case white:
				parent[v] = u
				if visit(v) {
					return true
				}
			case gray:
				// back edge u -> v; walk parents from u up to v
				cycle = append(cycle, v)
				for cur := u; cur != -1 && cur != v; cur = parent[cur] {
					cycle = append(cycle, cur)
				}
				cycle = append(cycle, v)
				return true
			}
		}
		color[u] = black
		return false
	}
	for i := range g.Documents {
		if color[i] == white && visit(i) {
			break
		}
	}

	out := make([]string, len(cycle))
	for i, idx := range cycle {
		out[len(cycle)-1-i] = g.Documents[idx]
	}
	return out
}
