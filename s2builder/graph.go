/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package s2builder

import (
	"sort"

	"github.com/golang/geo/s2"
	"github.com/pkg/errors"
)

// EdgeType says whether graph edges have a direction.
type EdgeType int

const (
	EdgeTypeDirected EdgeType = iota
	// EdgeTypeUndirected stores every edge with its smaller vertex id first.
	EdgeTypeUndirected
)

// DegenerateEdges says what happens to edges whose endpoints snapped together.
type DegenerateEdges int

const (
	DegenerateEdgesDiscard DegenerateEdges = iota
	DegenerateEdgesKeep
)

// DuplicateEdges says whether identical edges are merged.
type DuplicateEdges int

const (
	DuplicateEdgesMerge DuplicateEdges = iota
	DuplicateEdgesKeep
)

// SiblingPairs says what happens to pairs of edges in opposite directions.
type SiblingPairs int

const (
	// SiblingPairsDiscard cancels each edge against one reversed copy.
	SiblingPairsDiscard SiblingPairs = iota
	SiblingPairsKeep
)

// GraphOptions is the edge processing a layer asks for.
type GraphOptions struct {
	EdgeType        EdgeType
	DegenerateEdges DegenerateEdges
	DuplicateEdges  DuplicateEdges
	SiblingPairs    SiblingPairs
}

// GraphEdge is a directed edge between two vertex ids.
type GraphEdge struct {
	Src, Dst int32
}

func (e GraphEdge) less(o GraphEdge) bool {
	if e.Src != o.Src {
		return e.Src < o.Src
	}
	return e.Dst < o.Dst
}

// processEdges applies the options to a set of edges and returns them sorted.
func processEdges(edges []GraphEdge, opts GraphOptions) []GraphEdge {
	out := edges[:0:0]
	for _, e := range edges {
		if e.Src == e.Dst && opts.DegenerateEdges == DegenerateEdgesDiscard {
			continue
		}
		if opts.EdgeType == EdgeTypeUndirected && e.Dst < e.Src {
			e.Src, e.Dst = e.Dst, e.Src
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].less(out[j]) })

	if opts.SiblingPairs == SiblingPairsDiscard && opts.EdgeType == EdgeTypeDirected {
		count := make(map[GraphEdge]int)
		for _, e := range out {
			count[e]++
		}
		kept := out[:0]
		for i, e := range out {
			if i > 0 && out[i-1] == e {
				continue
			}
			net := count[e]
			if e.Src != e.Dst {
				net -= count[GraphEdge{e.Dst, e.Src}]
			}
			for k := 0; k < net; k++ {
				kept = append(kept, e)
			}
		}
		out = kept
	}
	if opts.DuplicateEdges == DuplicateEdgesMerge {
		merged := out[:0]
		for i, e := range out {
			if i == 0 || out[i-1] != e {
				merged = append(merged, e)
			}
		}
		out = merged
	}
	return out
}

// Graph is the snapped output of a Builder for one layer: a set of vertices and sorted
// edges between them.
type Graph struct {
	opts     GraphOptions
	vertices []s2.Point
	edges    []GraphEdge
	out      [][]int32
	in       [][]int32
	isFull   IsFullPolygonPredicate
}

func newGraph(opts GraphOptions, vertices []s2.Point, edges []GraphEdge, isFull IsFullPolygonPredicate) *Graph {
	g := &Graph{
		opts:     opts,
		vertices: vertices,
		edges:    edges,
		out:      make([][]int32, len(vertices)),
		in:       make([][]int32, len(vertices)),
		isFull:   isFull,
	}
	for i, e := range edges {
		g.out[e.Src] = append(g.out[e.Src], int32(i))
		g.in[e.Dst] = append(g.in[e.Dst], int32(i))
	}
	return g
}

// NewGraph returns a graph over vertices with the given edges processed according to opts.
func NewGraph(opts GraphOptions, vertices []s2.Point, edges []GraphEdge) *Graph {
	return newGraph(opts, vertices, processEdges(edges, opts), nil)
}

func (g *Graph) Options() GraphOptions    { return g.opts }
func (g *Graph) NumVertices() int         { return len(g.vertices) }
func (g *Graph) Vertex(v int32) s2.Point  { return g.vertices[v] }
func (g *Graph) NumEdges() int            { return len(g.edges) }
func (g *Graph) Edge(e int32) GraphEdge   { return g.edges[e] }
func (g *Graph) Edges() []GraphEdge       { return g.edges }
func (g *Graph) OutEdges(v int32) []int32 { return g.out[v] }
func (g *Graph) InEdges(v int32) []int32  { return g.in[v] }

// IsFullPolygon answers whether an edgeless polygon layer is full. Without a predicate the
// answer is empty.
func (g *Graph) IsFullPolygon() (bool, error) {
	if g.isFull == nil {
		return false, nil
	}
	return g.isFull(g)
}

// SimpleLoops assembles the directed edges into loops, each with the region on its left.
// At a vertex with several outgoing edges the walk takes the sharpest left turn, and loops
// that still revisit a vertex are split there, so every returned loop is simple. It fails
// when some vertex has more incoming than outgoing edges or the reverse.
func (g *Graph) SimpleLoops() ([][]s2.Point, error) {
	for v := range g.vertices {
		if len(g.out[v]) != len(g.in[v]) {
			return nil, errors.Errorf("vertex %d has %d incoming and %d outgoing edges",
				v, len(g.in[v]), len(g.out[v]))
		}
	}
	used := make([]bool, len(g.edges))
	var loops [][]s2.Point
	for start := range g.edges {
		if used[start] {
			continue
		}
		var path []int32
		e := int32(start)
		for {
			used[e] = true
			edge := g.edges[e]
			path = append(path, edge.Src)
			next, ok := g.leftTurn(e, int32(start), used)
			if !ok {
				return nil, errors.Errorf("edge %d has no continuation", e)
			}
			if next == int32(start) {
				break
			}
			e = next
		}
		for _, ids := range splitAtRepeatedVertices(path) {
			loop := make([]s2.Point, len(ids))
			for i, v := range ids {
				loop[i] = g.vertices[v]
			}
			loops = append(loops, loop)
		}
	}
	return loops, nil
}

// leftTurn returns the unused edge leaving the end of e that turns most sharply to the
// left, or start if it is the sharpest.
func (g *Graph) leftTurn(e, start int32, used []bool) (int32, bool) {
	u, v := g.vertices[g.edges[e].Src], g.vertices[g.edges[e].Dst]
	best := int32(-1)
	for _, cand := range g.out[g.edges[e].Dst] {
		if used[cand] && cand != start {
			continue
		}
		if best < 0 {
			best = cand
			continue
		}
		w, b := g.vertices[g.edges[cand].Dst], g.vertices[g.edges[best].Dst]
		if s2.OrderedCCW(b, w, u, v) {
			best = cand
		}
	}
	return best, best >= 0
}

// splitAtRepeatedVertices cuts a closed vertex walk into simple cycles.
func splitAtRepeatedVertices(path []int32) [][]int32 {
	var out [][]int32
	var stack []int32
	pos := make(map[int32]int)
	for _, v := range path {
		i, ok := pos[v]
		if !ok {
			pos[v] = len(stack)
			stack = append(stack, v)
			continue
		}
		out = append(out, append([]int32(nil), stack[i:]...))
		for _, w := range stack[i+1:] {
			delete(pos, w)
		}
		stack = stack[:i+1]
	}
	return append(out, stack)
}

// Polylines assembles the edges into maximal chains. Chains start where a vertex has more
// outgoing than incoming edges; the remaining edges form closed chains whose last vertex
// repeats the first.
func (g *Graph) Polylines() [][]s2.Point {
	used := make([]bool, len(g.edges))
	var out [][]s2.Point
	walk := func(start int32) {
		chain := []s2.Point{g.vertices[g.edges[start].Src]}
		e := start
		for {
			used[e] = true
			dst := g.edges[e].Dst
			chain = append(chain, g.vertices[dst])
			next := int32(-1)
			for _, cand := range g.out[dst] {
				if !used[cand] {
					next = cand
					break
				}
			}
			if next < 0 {
				break
			}
			e = next
		}
		out = append(out, chain)
	}
	excess := make([]int, len(g.vertices))
	for v := range g.vertices {
		excess[v] = len(g.out[v]) - len(g.in[v])
	}
	for e, edge := range g.edges {
		if !used[e] && excess[edge.Src] > 0 && edge.Src != edge.Dst {
			excess[edge.Src]--
			walk(int32(e))
		}
	}
	for e, edge := range g.edges {
		if !used[e] && edge.Src != edge.Dst {
			walk(int32(e))
		}
	}
	return out
}
