/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package s2builder

import (
	"math"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	minBufferVertices = 4
	maxBufferVertices = 1000
)

// BufferOperation grows points, polylines and polygons by a fixed radius. The result is
// the union of the input polygons, a disc around every input point and a capsule around
// every input edge. Circular arcs are approximated by polygon edges; errorFraction bounds
// the error relative to the radius, and the approximation always contains the exact
// buffer.
type BufferOperation struct {
	radius      s1.Angle
	numVertices int
	// inflated is the circumradius that keeps the polygonal discs outside the exact ones.
	inflated s1.Angle

	polygons []*s2.Polygon
	points   []s2.Point
	edges    []s2.Edge
}

// NewBufferOperation returns an operation with the given radius and relative error. The
// error fraction is clamped to [1e-6, 1].
func NewBufferOperation(radius s1.Angle, errorFraction float64) (*BufferOperation, error) {
	if radius < 0 {
		return nil, errors.Errorf("buffer radius %v is negative", radius)
	}
	if radius > math.Pi/2 {
		return nil, errors.Errorf("buffer radius %v exceeds 90 degrees", radius)
	}
	errorFraction = math.Max(1e-6, math.Min(1, errorFraction))
	n := int(math.Ceil(math.Pi / math.Acos(1-errorFraction)))
	n = min(max(n, minBufferVertices), maxBufferVertices)
	inflated := s1.Angle(math.Atan(math.Tan(radius.Radians()) / math.Cos(math.Pi/float64(n))))
	return &BufferOperation{radius: radius, numVertices: n, inflated: inflated}, nil
}

// NumVertices returns the number of vertices used for a full disc.
func (b *BufferOperation) NumVertices() int { return b.numVertices }

// AddPoint adds a point.
func (b *BufferOperation) AddPoint(p s2.Point) { b.points = append(b.points, p) }

// AddPolyline adds every edge of the polyline. A single-vertex polyline is a point.
func (b *BufferOperation) AddPolyline(pl *s2.Polyline) {
	if len(*pl) == 1 {
		b.AddPoint((*pl)[0])
		return
	}
	for i := 0; i < pl.NumEdges(); i++ {
		b.edges = append(b.edges, pl.Edge(i))
	}
}

// AddPolygon adds the polygon and its boundary.
func (b *BufferOperation) AddPolygon(p *s2.Polygon) {
	b.polygons = append(b.polygons, p)
	for i := 0; i < p.NumEdges(); i++ {
		b.edges = append(b.edges, p.Edge(i))
	}
}

// AddShape adds a shape according to its dimension.
func (b *BufferOperation) AddShape(s s2.Shape) {
	switch s.Dimension() {
	case 0:
		for i := 0; i < s.NumEdges(); i++ {
			b.AddPoint(s.Edge(i).V0)
		}
	case 1:
		for i := 0; i < s.NumEdges(); i++ {
			b.edges = append(b.edges, s.Edge(i))
		}
	default:
		if p, ok := s.(*s2.Polygon); ok {
			b.AddPolygon(p)
			return
		}
		var loops []*s2.Loop
		for c := 0; c < s.NumChains(); c++ {
			chain := s.Chain(c)
			vs := make([]s2.Point, chain.Length)
			for k := range vs {
				vs[k] = s.ChainEdge(c, k).V0
			}
			loops = append(loops, s2.LoopFromPoints(vs))
		}
		b.AddPolygon(s2.PolygonFromOrientedLoops(loops))
	}
}

// Build returns the union of everything added.
func (b *BufferOperation) Build() (*s2.Polygon, error) {
	pieces := append([]*s2.Polygon(nil), b.polygons...)
	if b.radius > 0 {
		for _, p := range b.points {
			pieces = append(pieces, normalizedPolygon(s2.RegularLoop(p, b.inflated, b.numVertices)))
		}
		for _, e := range b.edges {
			if !e.IsDegenerate() {
				pieces = append(pieces, normalizedPolygon(b.capsule(e.V0, e.V1)))
			}
		}
	}
	if glog.V(2) {
		glog.Infof("BufferOperation: radius %v, %d pieces of %d vertices", b.radius, len(pieces),
			b.numVertices)
	}
	result, err := UnionOfPolygons(pieces)
	if err != nil {
		return nil, errors.Wrap(err, "buffer")
	}
	return result, nil
}

// capsule returns the loop around the edge ab at the inflated radius. The long sides are
// made of offset points spaced at most one disc step apart, and the ends are half discs.
func (b *BufferOperation) capsule(a, c s2.Point) *s2.Loop {
	n := s2.Point{Vector: a.PointCross(c).Normalize()}
	cosR, sinR := math.Cos(b.inflated.Radians()), math.Sin(b.inflated.Radians())
	step := 2 * math.Pi / float64(b.numVertices)
	pieces := int(math.Ceil(a.Distance(c).Radians() / step))
	if pieces < 1 {
		pieces = 1
	}
	along := make([]s2.Point, pieces+1)
	for i := range along {
		along[i] = s2.Interpolate(float64(i)/float64(pieces), a, c)
	}
	offset := func(p s2.Point, side float64) s2.Point {
		return s2.Point{Vector: p.Mul(cosR).Add(n.Mul(side * sinR)).Normalize()}
	}
	arc := func(center s2.Point, from, to float64) []s2.Point {
		tangent := n.Cross(center.Vector).Normalize()
		steps := b.numVertices / 2
		var out []s2.Point
		for k := 1; k < steps; k++ {
			theta := from + (to-from)*float64(k)/float64(steps)
			dir := tangent.Mul(math.Cos(theta)).Add(n.Mul(math.Sin(theta)))
			out = append(out, s2.Point{Vector: center.Mul(cosR).Add(dir.Mul(sinR)).Normalize()})
		}
		return out
	}

	var vs []s2.Point
	for _, p := range along {
		vs = append(vs, offset(p, -1))
	}
	vs = append(vs, arc(c, -math.Pi/2, math.Pi/2)...)
	for i := len(along) - 1; i >= 0; i-- {
		vs = append(vs, offset(along[i], 1))
	}
	vs = append(vs, arc(a, math.Pi/2, 3*math.Pi/2)...)
	return s2.LoopFromPoints(vs)
}

// normalizedPolygon returns a polygon of the loop, inverted first if it encloses more
// than half the sphere.
func normalizedPolygon(l *s2.Loop) *s2.Polygon {
	l.Normalize()
	return s2.PolygonFromLoops([]*s2.Loop{l})
}
