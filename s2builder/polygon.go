/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package s2builder

import (
	"bytes"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/pkg/errors"
)

// IndexOf returns a new index holding the shapes.
func IndexOf(shapes ...s2.Shape) *s2.ShapeIndex {
	index := s2.NewShapeIndex()
	for _, s := range shapes {
		index.Add(s)
	}
	return index
}

// EmptyPolygon returns a polygon with no loops.
func EmptyPolygon() *s2.Polygon { return s2.PolygonFromLoops(nil) }

// Union returns the union of a and b.
func Union(a, b *s2.Polygon) (*s2.Polygon, error) { return polygonOp(OpUnion, a, b) }

// Intersection returns the intersection of a and b.
func Intersection(a, b *s2.Polygon) (*s2.Polygon, error) { return polygonOp(OpIntersection, a, b) }

// Difference returns a minus b.
func Difference(a, b *s2.Polygon) (*s2.Polygon, error) { return polygonOp(OpDifference, a, b) }

// SymmetricDifference returns the region covered by exactly one of a and b.
func SymmetricDifference(a, b *s2.Polygon) (*s2.Polygon, error) {
	return polygonOp(OpSymmetricDifference, a, b)
}

// PolygonOp applies op to a and b.
func PolygonOp(op OpType, a, b *s2.Polygon) (*s2.Polygon, error) { return polygonOp(op, a, b) }

func polygonOp(op OpType, a, b *s2.Polygon) (*s2.Polygon, error) {
	return regionOp(op, IndexOf(a), IndexOf(b), DefaultBooleanOperationOptions())
}

func regionOp(op OpType, a, b *s2.ShapeIndex, opts BooleanOperationOptions) (*s2.Polygon, error) {
	result := &s2.Polygon{}
	bo := NewBooleanOperation(op, NewPolygonLayer(result), opts)
	if err := bo.Build(a, b); err != nil {
		return nil, errors.Wrapf(err, "%v of polygons", op)
	}
	return result, nil
}

// UnionOfPolygons returns the union of the polygons in a single pass over one index
// holding all of them.
func UnionOfPolygons(polygons []*s2.Polygon) (*s2.Polygon, error) {
	return UnionOfPolygonsWithOptions(polygons, DefaultBooleanOperationOptions())
}

// UnionOfPolygonsWithOptions is UnionOfPolygons with explicit snapping and models.
func UnionOfPolygonsWithOptions(polygons []*s2.Polygon, opts BooleanOperationOptions) (*s2.Polygon, error) {
	shapes := make([]s2.Shape, len(polygons))
	for i, p := range polygons {
		shapes[i] = p
	}
	return regionOp(OpUnion, IndexOf(shapes...), s2.NewShapeIndex(), opts)
}

// IntersectWithPolyline returns the parts of the polyline inside the polygon.
func IntersectWithPolyline(p *s2.Polygon, pl *s2.Polyline) ([]*s2.Polyline, error) {
	return polylineOp(OpIntersection, p, pl)
}

// SubtractFromPolyline returns the parts of the polyline outside the polygon.
func SubtractFromPolyline(p *s2.Polygon, pl *s2.Polyline) ([]*s2.Polyline, error) {
	return polylineOp(OpDifference, p, pl)
}

func polylineOp(op OpType, p *s2.Polygon, pl *s2.Polyline) ([]*s2.Polyline, error) {
	var out []*s2.Polyline
	layers := [3]Layer{nil, NewPolylineVectorLayer(&out), nil}
	bo := NewBooleanOperationLayers(op, layers, DefaultBooleanOperationOptions())
	if err := bo.Build(IndexOf(pl), IndexOf(p)); err != nil {
		return nil, errors.Wrapf(err, "%v of polyline and polygon", op)
	}
	return out, nil
}

// OverlapFractions returns the fraction of a covered by b and the fraction of b covered by
// a, measured by area.
func OverlapFractions(a, b *s2.Polygon) (float64, float64, error) {
	in, err := Intersection(a, b)
	if err != nil {
		return 0, 0, err
	}
	area := in.Area()
	aArea, bArea := a.Area(), b.Area()
	fa, fb := 1.0, 1.0
	if area < aArea {
		fa = area / aArea
	}
	if area < bArea {
		fb = area / bArea
	}
	return fa, fb, nil
}

// Equal reports whether a and b cover the same region.
func Equal(a, b *s2.Polygon) bool { return BooleanEquals(IndexOf(a), IndexOf(b)) }

// BoundaryEqual reports whether a and b have the same loops, each with the same vertex
// cycle, in any loop order.
func BoundaryEqual(a, b *s2.Polygon) bool {
	if a.NumLoops() != b.NumLoops() {
		return false
	}
	used := make([]bool, b.NumLoops())
	for _, la := range a.Loops() {
		found := false
		for j, lb := range b.Loops() {
			if !used[j] && la.BoundaryEqual(lb) {
				used[j], found = true, true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// NumVertices returns the number of vertices over all loops of p.
func NumVertices(p *s2.Polygon) int {
	n := 0
	for _, l := range p.Loops() {
		n += l.NumVertices()
	}
	return n
}

// LoopDepth returns the nesting depth of loop k of p: zero for shells, odd for holes.
func LoopDepth(p *s2.Polygon, k int) int {
	depth := 0
	for {
		parent, ok := p.Parent(k)
		if !ok {
			return depth
		}
		depth++
		k = parent
	}
}

// CloneLoop returns an independent copy of l. The copy keeps the depth assigned by an
// owning polygon, so IsHole answers the same for both.
func CloneLoop(l *s2.Loop) *s2.Loop {
	var buf bytes.Buffer
	if err := l.Encode(&buf); err == nil {
		c := &s2.Loop{}
		if err := c.Decode(&buf); err == nil {
			return c
		}
	}
	return s2.LoopFromPoints(append([]s2.Point(nil), l.Vertices()...))
}

// closestBoundaryEdge returns the boundary edge of p closest to pt.
func closestBoundaryEdge(p *s2.Polygon, pt s2.Point) (s2.Edge, s1.ChordAngle, bool) {
	index := IndexOf(p)
	opts := s2.NewClosestEdgeQueryOptions().IncludeInteriors(false).MaxResults(1)
	res := s2.NewClosestEdgeQuery(index, opts).FindEdges(s2.NewMinDistanceToPointTarget(pt))
	if len(res) == 0 || res[0].EdgeID() < 0 {
		return s2.Edge{}, s1.InfChordAngle(), false
	}
	r := res[0]
	return index.Shape(r.ShapeID()).Edge(int(r.EdgeID())), r.Distance(), true
}

// BoundaryNear reports whether pt is within maxDistance of the boundary of p. Polygons
// without a boundary are never near.
func BoundaryNear(p *s2.Polygon, pt s2.Point, maxDistance s1.Angle) bool {
	_, d, ok := closestBoundaryEdge(p, pt)
	return ok && d <= s1.ChordAngleFromAngle(maxDistance)
}

// DistanceToBoundary returns the distance from pt to the boundary of p, or an infinite
// angle when there is none.
func DistanceToBoundary(p *s2.Polygon, pt s2.Point) s1.Angle {
	_, d, ok := closestBoundaryEdge(p, pt)
	if !ok {
		return s1.InfAngle()
	}
	return d.Angle()
}

// Distance returns the distance from pt to p, zero when pt is inside.
func Distance(p *s2.Polygon, pt s2.Point) s1.Angle {
	if p.ContainsPoint(pt) {
		return 0
	}
	return DistanceToBoundary(p, pt)
}

// ProjectToBoundary returns the closest boundary point of p to pt, or pt when there is no
// boundary.
func ProjectToBoundary(p *s2.Polygon, pt s2.Point) s2.Point {
	e, _, ok := closestBoundaryEdge(p, pt)
	if !ok {
		return pt
	}
	return s2.Project(pt, e.V0, e.V1)
}

// Project returns pt if it is inside p and the closest boundary point otherwise.
func Project(p *s2.Polygon, pt s2.Point) s2.Point {
	if p.ContainsPoint(pt) {
		return pt
	}
	return ProjectToBoundary(p, pt)
}
