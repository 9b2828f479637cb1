package network

import (
	"errors"
	"fmt"
	"math"
	"sort"
)

var ErrInvalidParameter = errors.New("network: invalid parameter")

// Float64Source is the only randomness the generator consumes.
type Float64Source interface {
	Float64() float64
}

// Graph is an undirected simple graph over nodes 0..n-1.
type Graph struct {
	adj [][]int
}

func New(n int) *Graph {
	return &Graph{adj: make([][]int, n)}
}

func (g *Graph) Nodes() int { return len(g.adj) }

// AddEdge connects u and v. Self-loops and duplicates are ignored.
func (g *Graph) AddEdge(u, v int) {
	if u == v || g.HasEdge(u, v) {
		return
	}
	g.adj[u] = insertSorted(g.adj[u], v)
	g.adj[v] = insertSorted(g.adj[v], u)
}

func (g *Graph) HasEdge(u, v int) bool {
	if u < 0 || u >= len(g.adj) {
		return false
	}
	ns := g.adj[u]
	i := sort.SearchInts(ns, v)
	return i < len(ns) && ns[i] == v
}

// Neighbors returns the ascending neighbor ids of id. The slice must not be modified.
func (g *Graph) Neighbors(id int) []int {
	if id < 0 || id >= len(g.adj) {
		return nil
	}
	return g.adj[id]
}

func (g *Graph) Degree(id int) int { return len(g.Neighbors(id)) }

// Edges lists every edge once as (u, v) with u < v.
func (g *Graph) Edges() [][2]int {
	edges := make([][2]int, 0)
	for u, ns := range g.adj {
		for _, v := range ns {
			if u < v {
				edges = append(edges, [2]int{u, v})
			}
		}
	}
	return edges
}

func (g *Graph) NumEdges() int {
	total := 0
	for _, ns := range g.adj {
		total += len(ns)
	}
	return total / 2
}

func (g *Graph) AverageDegree() float64 {
	if len(g.adj) == 0 {
		return 0
	}
	total := 0
	for id := range g.adj {
		total += g.Degree(id)
	}
	return float64(total) / float64(len(g.adj))
}

// ErdosRenyi builds a G(n, p) graph with p = d/n. Pairs are visited in
// (i, j), i < j order and each draws one value from src.
func ErdosRenyi(n int, d float64, src Float64Source) (*Graph, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: node count must be positive, got %d", ErrInvalidParameter, n)
	}
	if d < 0 || math.IsNaN(d) {
		return nil, fmt.Errorf("%w: average degree must be non-negative, got %f", ErrInvalidParameter, d)
	}

	g := New(n)
	p := d / float64(n)
	if p <= 0 {
		return g, nil
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			if src.Float64() < p {
				g.adj[i] = append(g.adj[i], j)
				g.adj[j] = append(g.adj[j], i)
			}
		}
	}
	return g, nil
}

func insertSorted(s []int, v int) []int {
	i := sort.SearchInts(s, v)
	s = append(s, 0)
	copy(s[i+1:], s[i:])
	s[i] = v
	return s
}
