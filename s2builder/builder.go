/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package s2builder assembles snapped edges into points, polylines and polygons, and
// builds boolean and buffer operations on top of that. Geometry types come from
// github.com/golang/geo/s2.
package s2builder

import (
	"sort"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// Options configures a Builder.
type Options struct {
	// Snapper places the output vertices. Nil means exact output.
	Snapper s2.Snapper

	// SplitCrossingEdges adds a vertex wherever two input edges cross.
	SplitCrossingEdges bool
}

// DefaultOptions returns options for exact output without crossing splits.
func DefaultOptions() Options {
	return Options{Snapper: s2.NewIdentitySnapper(0)}
}

// IsFullPolygonPredicate decides whether a polygon layer whose graph has no edges is full
// or empty.
type IsFullPolygonPredicate func(g *Graph) (bool, error)

// IsFullPolygon returns a predicate with a fixed answer.
func IsFullPolygon(full bool) IsFullPolygonPredicate {
	return func(*Graph) (bool, error) { return full, nil }
}

// Builder assembles edges into output geometry. Edges are added to layers; Build snaps all
// vertices of all layers together, splits edges that pass close to other vertices and hands
// each layer a Graph of its own edges.
//
// A Builder is single-use: after Build it must not be reused.
type Builder struct {
	opts   Options
	layers []*builderLayer
}

type builderLayer struct {
	layer  Layer
	edges  []s2.Edge
	isFull IsFullPolygonPredicate
}

// NewBuilder returns a builder with the given options.
func NewBuilder(opts Options) *Builder {
	if opts.Snapper == nil {
		opts.Snapper = s2.NewIdentitySnapper(0)
	}
	return &Builder{opts: opts}
}

// StartLayer starts a new output layer. Edges added afterwards belong to it.
func (b *Builder) StartLayer(layer Layer) {
	b.layers = append(b.layers, &builderLayer{layer: layer})
}

func (b *Builder) current() *builderLayer {
	if len(b.layers) == 0 {
		panic("s2builder: Builder used before StartLayer")
	}
	return b.layers[len(b.layers)-1]
}

// AddEdge adds a directed edge to the current layer.
func (b *Builder) AddEdge(v0, v1 s2.Point) {
	l := b.current()
	l.edges = append(l.edges, s2.Edge{V0: v0, V1: v1})
}

// AddPoint adds a point as a degenerate edge.
func (b *Builder) AddPoint(p s2.Point) { b.AddEdge(p, p) }

// AddPolyline adds the edges of a polyline.
func (b *Builder) AddPolyline(pl *s2.Polyline) {
	for i := 0; i < pl.NumEdges(); i++ {
		e := pl.Edge(i)
		b.AddEdge(e.V0, e.V1)
	}
}

// AddLoop adds the edges of a loop with the interior on their left. Holes are reversed.
func (b *Builder) AddLoop(l *s2.Loop) {
	if l.IsEmpty() || l.IsFull() {
		return
	}
	for i := 0; i < l.NumVertices(); i++ {
		b.AddEdge(l.OrientedVertex(i), l.OrientedVertex(i+1))
	}
}

// AddPolygon adds the edges of every loop of the polygon.
func (b *Builder) AddPolygon(p *s2.Polygon) {
	for _, l := range p.Loops() {
		b.AddLoop(l)
	}
}

// AddShape adds every edge of the shape.
func (b *Builder) AddShape(s s2.Shape) {
	for i := 0; i < s.NumEdges(); i++ {
		e := s.Edge(i)
		b.AddEdge(e.V0, e.V1)
	}
}

// AddIsFullPolygonPredicate sets the full/empty predicate of the current layer.
func (b *Builder) AddIsFullPolygonPredicate(pred IsFullPolygonPredicate) {
	b.current().isFull = pred
}

// Build snaps the input and builds every layer. It stops at the first layer error.
func (b *Builder) Build() error {
	var chains [][]s2.Point
	for _, l := range b.layers {
		for _, e := range l.edges {
			chains = append(chains, []s2.Point{e.V0, e.V1})
		}
	}
	if b.opts.SplitCrossingEdges {
		chains = splitCrossingChains(chains)
	}

	sites := newSiteSet(b.opts.Snapper.MinVertexSeparation())
	siteChains := make([][]int32, len(chains))
	for i, chain := range chains {
		ids := make([]int32, len(chain))
		for j, v := range chain {
			ids[j] = sites.add(b.opts.Snapper.SnapPoint(v))
		}
		siteChains[i] = ids
	}
	if r := b.opts.Snapper.SnapRadius(); r > 0 {
		siteChains = splitChainsNearSites(siteChains, sites.sites, r)
	}
	if glog.V(2) {
		glog.Infof("Builder: %d input chains, %d sites, %d layers",
			len(chains), len(sites.sites), len(b.layers))
	}

	next := 0
	for i, l := range b.layers {
		var edges []GraphEdge
		for range l.edges {
			ids := siteChains[next]
			next++
			for j := 0; j+1 < len(ids); j++ {
				edges = append(edges, GraphEdge{ids[j], ids[j+1]})
			}
		}
		opts := l.layer.GraphOptions()
		g := newGraph(opts, sites.sites, processEdges(edges, opts), l.isFull)
		if err := l.layer.Build(g); err != nil {
			return errors.Wrapf(err, "building layer %d", i)
		}
	}
	return nil
}

// edgeIndex indexes every edge as its own one-edge polyline, so the shape id of a query
// result is the position of the edge.
func edgeIndex(edges []s2.Edge) *s2.ShapeIndex {
	index := s2.NewShapeIndex()
	for _, e := range edges {
		pl := s2.Polyline{e.V0, e.V1}
		index.Add(&pl)
	}
	return index
}

// splitCrossingChains inserts the intersection point of every pair of crossing edges into
// both edges. Each intersection is computed once and shared, so both edges get the same
// vertex.
func splitCrossingChains(chains [][]s2.Point) [][]s2.Point {
	edges := make([]s2.Edge, len(chains))
	for i, c := range chains {
		edges[i] = s2.Edge{V0: c[0], V1: c[1]}
	}
	query := newTouchingEdgeQuery(edges)

	splits := make([][]s2.Point, len(chains))
	for i, e := range edges {
		if e.IsDegenerate() {
			continue
		}
		for _, j := range query.candidates(e) {
			if j <= i {
				continue
			}
			f := edges[j]
			if s2.CrossingSign(e.V0, e.V1, f.V0, f.V1) != s2.Cross {
				continue
			}
			x := s2.Intersection(e.V0, e.V1, f.V0, f.V1)
			splits[i] = append(splits[i], x)
			splits[j] = append(splits[j], x)
		}
	}
	out := make([][]s2.Point, len(chains))
	for i, e := range edges {
		out[i] = chainWithSplits(e, splits[i])
	}
	return out
}

// touchingTolerance is far above the rounding error of edge distances and far below any
// meaningful feature size. Candidates within it are confirmed with exact predicates.
var touchingTolerance = s1.ChordAngleFromAngle(1e-10)

// touchingEdgeQuery finds the edges of a fixed set that cross or touch a given edge.
type touchingEdgeQuery struct {
	query *s2.EdgeQuery
}

func newTouchingEdgeQuery(edges []s2.Edge) *touchingEdgeQuery {
	opts := s2.NewClosestEdgeQueryOptions().DistanceLimit(touchingTolerance)
	return &touchingEdgeQuery{query: s2.NewClosestEdgeQuery(edgeIndex(edges), opts)}
}

// candidates returns the positions of the edges within the touching tolerance of e,
// sorted.
func (q *touchingEdgeQuery) candidates(e s2.Edge) []int {
	var out []int
	for _, r := range q.query.FindEdges(s2.NewMinDistanceToEdgeTarget(e)) {
		if r.ShapeID() >= 0 && r.EdgeID() >= 0 {
			out = append(out, int(r.ShapeID()))
		}
	}
	sort.Ints(out)
	return out
}

// chainWithSplits returns the vertices of e with the split points inserted in order along
// the edge. Splits equal to an endpoint or to each other are dropped.
func chainWithSplits(e s2.Edge, splits []s2.Point) []s2.Point {
	if len(splits) == 0 {
		return []s2.Point{e.V0, e.V1}
	}
	sort.Slice(splits, func(i, j int) bool {
		return s2.ChordAngleBetweenPoints(e.V0, splits[i]) < s2.ChordAngleBetweenPoints(e.V0, splits[j])
	})
	out := []s2.Point{e.V0}
	for _, x := range splits {
		if x != out[len(out)-1] && x != e.V0 && x != e.V1 {
			out = append(out, x)
		}
	}
	return append(out, e.V1)
}

// siteSet assigns snapped points to output vertices, merging points closer than the
// minimum separation. Nearby sites are found through buckets of cells at least as wide as
// the separation.
type siteSet struct {
	sites   []s2.Point
	exact   map[s2.Point]int32
	radius  s1.ChordAngle
	level   int
	buckets map[s2.CellID][]int32
}

func newSiteSet(minSeparation s1.Angle) *siteSet {
	s := &siteSet{exact: make(map[s2.Point]int32)}
	if minSeparation > 0 {
		s.radius = s1.ChordAngleFromAngle(minSeparation)
		s.level = s2.MinWidthMetric.MaxLevel(minSeparation.Radians())
		s.buckets = make(map[s2.CellID][]int32)
	}
	return s
}

func (s *siteSet) add(p s2.Point) int32 {
	if id, ok := s.exact[p]; ok {
		return id
	}
	if s.buckets != nil {
		cell := s2.CellFromPoint(p).ID().Parent(s.level)
		best, bestDist := int32(-1), s.radius
		for _, c := range append(cell.AllNeighbors(s.level), cell) {
			for _, id := range s.buckets[c] {
				if d := s2.ChordAngleBetweenPoints(p, s.sites[id]); d <= bestDist {
					best, bestDist = id, d
				}
			}
		}
		if best >= 0 {
			s.exact[p] = best
			return best
		}
	}
	id := int32(len(s.sites))
	s.sites = append(s.sites, p)
	s.exact[p] = id
	if s.buckets != nil {
		cell := s2.CellFromPoint(p).ID().Parent(s.level)
		s.buckets[cell] = append(s.buckets[cell], id)
	}
	return id
}

// splitChainsNearSites routes every snapped edge through the sites that lie within the snap
// radius of it, so no vertex ends up on the wrong side of an edge after snapping.
func splitChainsNearSites(chains [][]int32, sites []s2.Point, radius s1.Angle) [][]int32 {
	pv := s2.PointVector(sites)
	index := s2.NewShapeIndex()
	index.Add(&pv)
	limit := s1.ChordAngleFromAngle(radius).Successor()
	query := s2.NewClosestEdgeQuery(index, s2.NewClosestEdgeQueryOptions().DistanceLimit(limit))

	out := make([][]int32, len(chains))
	for i, chain := range chains {
		res := []int32{chain[0]}
		for j := 0; j+1 < len(chain); j++ {
			t0, t1 := chain[j], chain[j+1]
			if t0 != t1 {
				a, b := sites[t0], sites[t1]
				var near []int32
				for _, r := range query.FindEdges(s2.NewMinDistanceToEdgeTarget(s2.Edge{V0: a, V1: b})) {
					if id := r.EdgeID(); id >= 0 && id != t0 && id != t1 {
						near = append(near, id)
					}
				}
				sort.Slice(near, func(x, y int) bool {
					return s2.DistanceFraction(sites[near[x]], a, b) <
						s2.DistanceFraction(sites[near[y]], a, b)
				})
				res = append(res, near...)
			}
			res = append(res, t1)
		}
		out[i] = res
	}
	return out
}
