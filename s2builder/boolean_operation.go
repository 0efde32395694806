/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package s2builder

import (
	"fmt"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

// OpType is a set operation.
type OpType int

const (
	OpUnion OpType = iota
	OpIntersection
	OpDifference
	OpSymmetricDifference
)

func (o OpType) String() string {
	switch o {
	case OpUnion:
		return "union"
	case OpIntersection:
		return "intersection"
	case OpDifference:
		return "difference"
	case OpSymmetricDifference:
		return "symmetric difference"
	}
	return fmt.Sprintf("OpType(%d)", int(o))
}

// apply combines membership in the two regions.
func (o OpType) apply(inA, inB bool) bool {
	switch o {
	case OpUnion:
		return inA || inB
	case OpIntersection:
		return inA && inB
	case OpDifference:
		return inA && !inB
	}
	return inA != inB
}

// PolygonModel decides whether polygons contain their boundary when points and polyline
// edges are classified against them.
type PolygonModel int

const (
	PolygonModelOpen PolygonModel = iota
	// PolygonModelSemiOpen assigns each boundary point to exactly one of the polygons
	// sharing it. A polyline edge on the boundary is inside when the interior is on its
	// left.
	PolygonModelSemiOpen
	PolygonModelClosed
)

// PolylineModel decides whether polylines contain their end vertices.
type PolylineModel int

const (
	// PolylineModelOpen excludes both end vertices.
	PolylineModelOpen PolylineModel = iota
	// PolylineModelSemiOpen includes the first vertex only.
	PolylineModelSemiOpen
	PolylineModelClosed
)

// BooleanOperationOptions configures a BooleanOperation.
type BooleanOperationOptions struct {
	Snapper       s2.Snapper
	PolygonModel  PolygonModel
	PolylineModel PolylineModel
}

// DefaultBooleanOperationOptions returns exact output with semi-open polygons and closed
// polylines.
func DefaultBooleanOperationOptions() BooleanOperationOptions {
	return BooleanOperationOptions{
		Snapper:       s2.NewIdentitySnapper(0),
		PolygonModel:  PolygonModelSemiOpen,
		PolylineModel: PolylineModelClosed,
	}
}

// BooleanOperation computes a set operation on the regions of two shape indexes. Each
// index is the union of its shapes. Output is written to up to three layers, one per
// dimension: points, polylines and polygons.
//
// The boundaries of the inputs are overlaid by splitting every edge where it crosses or
// touches an edge of another shape. Each resulting sub-edge is classified by which sides
// of it belong to each region, and kept when the operation holds on exactly one side.
// Lower-dimensional geometry covered by higher-dimensional geometry of the other input is
// dropped from unions.
type BooleanOperation struct {
	op     OpType
	layers [3]Layer
	opts   BooleanOperationOptions
}

// NewBooleanOperation returns an operation with polygon output only.
func NewBooleanOperation(op OpType, layer Layer, opts BooleanOperationOptions) *BooleanOperation {
	return NewBooleanOperationLayers(op, [3]Layer{nil, nil, layer}, opts)
}

// NewBooleanOperationLayers returns an operation with one output layer per dimension. Nil
// layers discard their dimension.
func NewBooleanOperationLayers(op OpType, layers [3]Layer, opts BooleanOperationOptions) *BooleanOperation {
	if opts.Snapper == nil {
		opts.Snapper = s2.NewIdentitySnapper(0)
	}
	return &BooleanOperation{op: op, layers: layers, opts: opts}
}

// Build computes the operation on a and b and builds the output layers. The indexes are
// only read.
func (b *BooleanOperation) Build(a, c *s2.ShapeIndex) error {
	res := newBooleanOverlay(b.op, b.opts, a, c).compute()
	if glog.V(2) {
		glog.Infof("BooleanOperation %v: %d polygon edges, %d polyline edges, %d points, full=%v",
			b.op, len(res.polygonEdges), len(res.polylineEdges), len(res.points), res.full)
	}

	builder := NewBuilder(Options{Snapper: b.opts.Snapper})
	if l := b.layers[0]; l != nil {
		builder.StartLayer(l)
		for _, p := range res.points {
			builder.AddPoint(p)
		}
	}
	if l := b.layers[1]; l != nil {
		builder.StartLayer(l)
		for _, e := range res.polylineEdges {
			builder.AddEdge(e.V0, e.V1)
		}
	}
	if l := b.layers[2]; l != nil {
		builder.StartLayer(l)
		for _, e := range res.polygonEdges {
			builder.AddEdge(e.V0, e.V1)
		}
		builder.AddIsFullPolygonPredicate(IsFullPolygon(res.full))
	}
	if err := builder.Build(); err != nil {
		return errors.Wrapf(err, "%v", b.op)
	}
	return nil
}

// BooleanIsEmpty reports whether the result of op on a and b is empty, without building
// any output.
func BooleanIsEmpty(op OpType, a, b *s2.ShapeIndex) bool {
	res := newBooleanOverlay(op, DefaultBooleanOperationOptions(), a, b).compute()
	return !res.full && len(res.polygonEdges) == 0 && len(res.polylineEdges) == 0 &&
		len(res.points) == 0
}

// BooleanEquals reports whether the regions of a and b are the same.
func BooleanEquals(a, b *s2.ShapeIndex) bool { return BooleanIsEmpty(OpSymmetricDifference, a, b) }

// BooleanContains reports whether the region of a contains the region of b.
func BooleanContains(a, b *s2.ShapeIndex) bool { return BooleanIsEmpty(OpDifference, b, a) }

// BooleanIntersects reports whether the regions of a and b share a point under the default
// models. Touching polygon boundaries do not intersect.
func BooleanIntersects(a, b *s2.ShapeIndex) bool { return !BooleanIsEmpty(OpIntersection, a, b) }

type overlayResult struct {
	polygonEdges  []s2.Edge
	polylineEdges []s2.Edge
	points        []s2.Point
	// full is the answer for an empty polygon edge set.
	full bool
}

// overlayEdge is a sub-edge of an input shape after splitting.
type overlayEdge struct {
	edge    s2.Edge
	region  int
	shapeID int32
	dim     int
}

// indexedShape is a shape with its id in the index it came from.
type indexedShape struct {
	id    int32
	shape s2.Shape
}

// edgeKey identifies an undirected edge.
type edgeKey struct {
	a, b s2.Point
}

func keyForEdge(e s2.Edge) (edgeKey, bool) {
	if e.V0.Cmp(e.V1.Vector) <= 0 {
		return edgeKey{e.V0, e.V1}, true
	}
	return edgeKey{e.V1, e.V0}, false
}

type booleanOverlay struct {
	op      OpType
	opts    BooleanOperationOptions
	indexes [2]*s2.ShapeIndex
	queries [2]*s2.ContainsPointQuery

	// shapes of each dimension in each region, by shape id.
	shapes [2][3][]indexedShape
	points [2][]s2.Point
}

func newBooleanOverlay(op OpType, opts BooleanOperationOptions, a, b *s2.ShapeIndex) *booleanOverlay {
	o := &booleanOverlay{op: op, opts: opts, indexes: [2]*s2.ShapeIndex{a, b}}
	for r, index := range o.indexes {
		o.queries[r] = s2.NewContainsPointQuery(index, s2.VertexModelSemiOpen)
		for _, id := range shapeIDs(index) {
			shape := index.Shape(id)
			dim := shape.Dimension()
			o.shapes[r][dim] = append(o.shapes[r][dim], indexedShape{id, shape})
			if dim == 0 {
				for e := 0; e < shape.NumEdges(); e++ {
					o.points[r] = append(o.points[r], shape.Edge(e).V0)
				}
			}
		}
	}
	return o
}

func (o *booleanOverlay) compute() overlayResult {
	groups, order := o.overlay()
	var res overlayResult
	for _, key := range order {
		occ := groups[key]
		o.classifyPolygonEdge(key, occ, &res)
		o.classifyPolylineEdges(key, occ, &res)
	}
	if len(res.polygonEdges) == 0 {
		origin := s2.OriginPoint()
		res.full = o.op.apply(o.inPolygons(0, origin), o.inPolygons(1, origin))
	}
	for r := 0; r < 2; r++ {
		for _, p := range o.points[r] {
			if o.keepPoint(r, p) {
				res.points = append(res.points, p)
			}
		}
	}
	return res
}

// overlay splits the edges of every polyline and polygon at the points where they cross or
// touch edges of other shapes, and groups the sub-edges by their endpoints.
func (o *booleanOverlay) overlay() (map[edgeKey][]overlayEdge, []edgeKey) {
	var input []overlayEdge
	for r := 0; r < 2; r++ {
		for dim := 1; dim <= 2; dim++ {
			for _, s := range o.shapes[r][dim] {
				for e := 0; e < s.shape.NumEdges(); e++ {
					edge := s.shape.Edge(e)
					if !edge.IsDegenerate() {
						input = append(input, overlayEdge{edge, r, s.id, dim})
					}
				}
			}
		}
	}

	edges := make([]s2.Edge, len(input))
	for i, in := range input {
		edges[i] = in.edge
	}
	query := newTouchingEdgeQuery(edges)

	sameShape := func(i, j int) bool {
		return input[i].region == input[j].region && input[i].shapeID == input[j].shapeID
	}
	splits := make([][]s2.Point, len(input))
	for i, e := range edges {
		for _, j := range query.candidates(e) {
			if j == i || sameShape(i, j) {
				continue
			}
			f := edges[j]
			if j > i && s2.CrossingSign(e.V0, e.V1, f.V0, f.V1) == s2.Cross {
				x := s2.Intersection(e.V0, e.V1, f.V0, f.V1)
				splits[i] = append(splits[i], x)
				splits[j] = append(splits[j], x)
			}
			for _, v := range []s2.Point{f.V0, f.V1} {
				if onEdgeInterior(v, e.V0, e.V1) {
					splits[i] = append(splits[i], v)
				}
			}
		}
	}

	groups := make(map[edgeKey][]overlayEdge)
	var order []edgeKey
	for i, in := range input {
		chain := chainWithSplits(in.edge, splits[i])
		for k := 0; k+1 < len(chain); k++ {
			sub := in
			sub.edge = s2.Edge{V0: chain[k], V1: chain[k+1]}
			key, _ := keyForEdge(sub.edge)
			if _, ok := groups[key]; !ok {
				order = append(order, key)
			}
			groups[key] = append(groups[key], sub)
		}
	}
	return groups, order
}

// vertexMergeTolerance is the distance within which a vertex of one shape is treated as
// lying on an edge of another. Vertices converted from latitude and longitude are rarely
// exactly on the great circle they were meant to be on, so boundaries shared only in part
// would otherwise never match.
const vertexMergeTolerance s1.Angle = 1e-13

// onEdgeInterior reports whether p lies on the edge ab within vertexMergeTolerance,
// away from both endpoints.
func onEdgeInterior(p, a, b s2.Point) bool {
	if p == a || p == b {
		return false
	}
	if p.Distance(a) <= vertexMergeTolerance || p.Distance(b) <= vertexMergeTolerance {
		return false
	}
	return s2.DistanceFromSegment(p, a, b) <= vertexMergeTolerance
}

// sides returns whether the left and right sides of the edge ab belong to region r.
func (o *booleanOverlay) sides(r int, a, b s2.Point, occ []overlayEdge) (left, right bool) {
	mid := s2.Point{Vector: a.Add(b.Vector).Normalize()}
	for _, s := range o.shapes[r][2] {
		forward, backward := false, false
		for _, e := range occ {
			if e.region != r || e.shapeID != s.id || e.dim != 2 {
				continue
			}
			if e.edge.V0 == a {
				forward = true
			} else {
				backward = true
			}
		}
		var l, rt bool
		switch {
		case forward && backward:
		case forward:
			l = true
		case backward:
			rt = true
		default:
			l = o.queries[r].ShapeContains(s.shape, mid)
			rt = l
		}
		left = left || l
		right = right || rt
	}
	return left, right
}

func (o *booleanOverlay) classifyPolygonEdge(key edgeKey, occ []overlayEdge, res *overlayResult) {
	hasPolygon := false
	for _, e := range occ {
		if e.dim == 2 {
			hasPolygon = true
			break
		}
	}
	if !hasPolygon {
		return
	}
	la, ra := o.sides(0, key.a, key.b, occ)
	lb, rb := o.sides(1, key.a, key.b, occ)
	left, right := o.op.apply(la, lb), o.op.apply(ra, rb)
	switch {
	case left && !right:
		res.polygonEdges = append(res.polygonEdges, s2.Edge{V0: key.a, V1: key.b})
	case right && !left:
		res.polygonEdges = append(res.polygonEdges, s2.Edge{V0: key.b, V1: key.a})
	}
}

func (o *booleanOverlay) classifyPolylineEdges(key edgeKey, occ []overlayEdge, res *overlayResult) {
	emitted := make(map[s2.Edge]bool)
	for _, e := range occ {
		if e.dim != 1 || emitted[e.edge] {
			continue
		}
		other := 1 - e.region
		inPolygon := o.polylineEdgeInPolygons(other, e.edge, occ)
		onPolyline := false
		for _, f := range occ {
			if f.dim == 1 && f.region == other {
				onPolyline = true
				break
			}
		}
		var keep bool
		switch o.op {
		case OpUnion:
			keep = !inPolygon && (e.region == 0 || !onPolyline)
		case OpIntersection:
			if e.region == 0 {
				keep = inPolygon || onPolyline
			} else {
				keep = inPolygon && !onPolyline
			}
		case OpDifference:
			keep = e.region == 0 && !inPolygon && !onPolyline
		case OpSymmetricDifference:
			keep = !inPolygon && !onPolyline
		}
		if keep {
			emitted[e.edge] = true
			res.polylineEdges = append(res.polylineEdges, e.edge)
		}
	}
}

// polylineEdgeInPolygons classifies a polyline sub-edge against the polygons of region r.
func (o *booleanOverlay) polylineEdgeInPolygons(r int, e s2.Edge, occ []overlayEdge) bool {
	forward, backward := false, false
	for _, f := range occ {
		if f.dim != 2 || f.region != r {
			continue
		}
		if f.edge.V0 == e.V0 {
			forward = true
		} else {
			backward = true
		}
	}
	if !forward && !backward {
		return o.inPolygons(r, s2.Point{Vector: e.V0.Add(e.V1.Vector).Normalize()})
	}
	switch o.opts.PolygonModel {
	case PolygonModelOpen:
		return forward && backward
	case PolygonModelClosed:
		return true
	}
	return forward
}

// inPolygons reports whether any polygon of region r contains p in the semi-open model.
func (o *booleanOverlay) inPolygons(r int, p s2.Point) bool {
	for _, s := range o.shapes[r][2] {
		if o.queries[r].ShapeContains(s.shape, p) {
			return true
		}
	}
	return false
}

func (o *booleanOverlay) keepPoint(r int, p s2.Point) bool {
	other := 1 - r
	inPolygon := o.pointInPolygons(other, p)
	onPolyline := false
	for _, s := range o.shapes[other][1] {
		if polylineContainsPoint(s.shape, p, o.opts.PolylineModel) {
			onPolyline = true
			break
		}
	}
	equal := false
	for _, q := range o.points[other] {
		if q == p {
			equal = true
			break
		}
	}
	covered := inPolygon || onPolyline
	switch o.op {
	case OpUnion:
		return !covered && (r == 0 || !equal)
	case OpIntersection:
		if r == 0 {
			return covered || equal
		}
		return covered && !equal
	case OpDifference:
		return r == 0 && !covered && !equal
	}
	return !covered && !equal
}

// pointInPolygons classifies p against the polygons of region r using the polygon model.
func (o *booleanOverlay) pointInPolygons(r int, p s2.Point) bool {
	model := s2.VertexModelSemiOpen
	switch o.opts.PolygonModel {
	case PolygonModelOpen:
		model = s2.VertexModelOpen
	case PolygonModelClosed:
		model = s2.VertexModelClosed
	}
	q := s2.NewContainsPointQuery(o.indexes[r], model)
	for _, s := range o.shapes[r][2] {
		if q.ShapeContains(s.shape, p) {
			return true
		}
	}
	return false
}

// polylineContainsPoint reports whether p is on the polyline shape under the model.
// Interior vertices and edge interiors are always contained.
func polylineContainsPoint(shape s2.Shape, p s2.Point, model PolylineModel) bool {
	for c := 0; c < shape.NumChains(); c++ {
		chain := shape.Chain(c)
		for k := 0; k < chain.Length; k++ {
			e := shape.ChainEdge(c, k)
			if p == e.V0 && (k > 0 || model != PolylineModelOpen) {
				return true
			}
			if p == e.V1 && (k < chain.Length-1 || model == PolylineModelClosed) {
				return true
			}
			if onEdgeInterior(p, e.V0, e.V1) {
				return true
			}
		}
	}
	return false
}

// shapeIDs returns the ids of the shapes in the index in increasing order.
func shapeIDs(index *s2.ShapeIndex) []int32 {
	var ids []int32
	for id := int32(0); len(ids) < index.Len(); id++ {
		if index.Shape(id) != nil {
			ids = append(ids, id)
		}
	}
	return ids
}
