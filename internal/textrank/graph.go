package textrank

import (
	"log/slog"
	"math"
	"slices"
)

const (
	defaultDamping   = 0.85   // PageRank damping factor
	defaultTolerance = 0.0001 // per-vertex convergence tolerance
	defaultMaxIter   = 100    // iteration cap; PageRank always terminates
)

// Graph is an undirected, unweighted co-occurrence graph over token forms.
// Vertices keep first-seen order and neighbor lists are kept sorted, so
// PageRank is deterministic.
type Graph struct {
	vertices []string
	index    map[string]int
	adj      [][]int
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{index: make(map[string]int)}
}

func (g *Graph) vertex(form string) int {
	if i, ok := g.index[form]; ok {
		return i
	}
	i := len(g.vertices)
	g.index[form] = i
	g.vertices = append(g.vertices, form)
	g.adj = append(g.adj, nil)
	return i
}

// AddEdge connects a and b. Repeated edges and self-loops are ignored.
func (g *Graph) AddEdge(a, b string) {
	if a == b {
		return
	}
	ia, ib := g.vertex(a), g.vertex(b)
	g.adj[ia] = insertSorted(g.adj[ia], ib)
	g.adj[ib] = insertSorted(g.adj[ib], ia)
}

func insertSorted(neighbors []int, v int) []int {
	pos, found := slices.BinarySearch(neighbors, v)
	if found {
		return neighbors
	}
	return slices.Insert(neighbors, pos, v)
}

// Vertices returns the vertex forms in first-seen order.
func (g *Graph) Vertices() []string {
	return append([]string(nil), g.vertices...)
}

// Len returns the number of vertices.
func (g *Graph) Len() int { return len(g.vertices) }

// Neighbors returns the forms adjacent to form.
func (g *Graph) Neighbors(form string) []string {
	i, ok := g.index[form]
	if !ok {
		return nil
	}
	out := make([]string, len(g.adj[i]))
	for k, j := range g.adj[i] {
		out[k] = g.vertices[j]
	}
	return out
}

// HasEdge reports whether a and b are adjacent.
func (g *Graph) HasEdge(a, b string) bool {
	ia, ok := g.index[a]
	if !ok {
		return false
	}
	ib, ok := g.index[b]
	if !ok {
		return false
	}
	_, found := slices.BinarySearch(g.adj[ia], ib)
	return found
}

// PageRank computes vertex centrality with uniform transition probability
// among neighbors. Rank mass of vertices without neighbors is spread
// uniformly. Iteration stops when the summed absolute change drops below
// n*tolerance or after maxIter iterations.
func (g *Graph) PageRank(damping, tolerance float64, maxIter int) map[string]float64 {
	n := len(g.vertices)
	if n == 0 {
		return map[string]float64{}
	}

	nf := float64(n)
	scores := make([]float64, n)
	for i := range scores {
		scores[i] = 1.0 / nf
	}

	converged := false
	iter := 0
	for iter < maxIter {
		iter++
		next := make([]float64, n)

		dangling := 0.0
		for i, neighbors := range g.adj {
			if len(neighbors) == 0 {
				dangling += scores[i]
				continue
			}
			share := scores[i] / float64(len(neighbors))
			for _, j := range neighbors {
				next[j] += share
			}
		}

		delta := 0.0
		for i := range next {
			next[i] = damping*(next[i]+dangling/nf) + (1-damping)/nf
			delta += math.Abs(next[i] - scores[i])
		}
		scores = next

		if delta < nf*tolerance {
			converged = true
			break
		}
	}

	if !converged {
		slog.Debug("PageRank stopped at iteration cap", "vertices", n, "iterations", iter)
	} else {
		slog.Debug("PageRank converged", "vertices", n, "iterations", iter)
	}

	result := make(map[string]float64, n)
	for i, form := range g.vertices {
		result[form] = scores[i]
	}
	return result
}
