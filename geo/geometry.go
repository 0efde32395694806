/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"github.com/golang/geo/s2"
	"github.com/pkg/errors"
	"github.com/twpayne/go-geom"
)

// Geometry is a geometry converted to engine types. Points, lines and areas of a collection
// are kept apart, and all areas are merged into a single polygon.
type Geometry struct {
	Points    []s2.Point
	Polylines []*s2.Polyline
	// Polygon is nil when the geometry has no areas.
	Polygon *s2.Polygon
}

// IsEmpty reports whether the geometry has no points, lines or areas.
func (g *Geometry) IsEmpty() bool {
	return len(g.Points) == 0 && len(g.Polylines) == 0 && (g.Polygon == nil || g.Polygon.IsEmpty())
}

// IsPoint reports whether the geometry is a single point.
func (g *Geometry) IsPoint() bool {
	return len(g.Points) == 1 && len(g.Polylines) == 0 && g.Polygon == nil
}

// Region returns a region covering the whole geometry.
func (g *Geometry) Region() s2.Region {
	var regions multiRegion
	for _, p := range g.Points {
		regions = append(regions, p)
	}
	for _, pl := range g.Polylines {
		regions = append(regions, pl)
	}
	if g.Polygon != nil {
		regions = append(regions, g.Polygon)
	}
	if len(regions) == 1 {
		return regions[0]
	}
	return regions
}

// pointFromCoord converts a [lng, lat] coordinate.
func pointFromCoord(c geom.Coord) s2.Point {
	// GeoJSON coordinates are [long, lat]
	// We assume that any data encoded in the database follows that format.
	return s2.PointFromLatLng(s2.LatLngFromDegrees(c.Y(), c.X()))
}

func coordFromPoint(p s2.Point) geom.Coord {
	ll := s2.LatLngFromPoint(p)
	return geom.Coord{ll.Lng.Degrees(), ll.Lat.Degrees()}
}

// loopFromRing converts a closed ring to a loop enclosing at most half the sphere. The
// orientation of rings is not trusted since GeoJSON and WKB producers disagree on it.
func loopFromRing(r *geom.LinearRing) (*s2.Loop, error) {
	// In WKB, the last coordinate is repeated for a ring to form a closed loop. For s2 the points
	// aren't allowed to repeat and the loop is assumed to be closed, so we skip the last point.
	n := r.NumCoords()
	if n < 4 {
		return nil, errors.Errorf("Can't convert ring with less than 4 pts")
	}
	if !r.Coord(0).Equal(r.Layout(), r.Coord(n-1)) {
		return nil, errors.Errorf("Ring is not closed")
	}
	pts := make([]s2.Point, 0, n-1)
	for i := 0; i < n-1; i++ {
		p := pointFromCoord(r.Coord(i))
		if len(pts) > 0 && pts[len(pts)-1] == p {
			continue
		}
		pts = append(pts, p)
	}
	l := s2.LoopFromPoints(pts)
	l.Normalize()
	if err := l.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid ring")
	}
	return l, nil
}

func polylineFromCoords(coords []geom.Coord) (*s2.Polyline, error) {
	if len(coords) < 2 {
		return nil, errors.Errorf("Can't convert line with less than 2 pts")
	}
	pl := make(s2.Polyline, 0, len(coords))
	for _, c := range coords {
		p := pointFromCoord(c)
		if len(pl) > 0 && pl[len(pl)-1] == p {
			continue
		}
		pl = append(pl, p)
	}
	if len(pl) < 2 {
		return nil, errors.Errorf("Line has a single distinct point")
	}
	if err := pl.Validate(); err != nil {
		return nil, errors.Wrapf(err, "invalid line")
	}
	return &pl, nil
}

// converter accumulates the parts of a go-geom geometry.
type converter struct {
	g     Geometry
	loops []*s2.Loop
	areas bool
}

func (c *converter) add(t geom.T) error {
	if _, ok := t.(*geom.GeometryCollection); !ok && t.Stride() < 2 {
		return errors.Errorf("Covering only available for 2D co-ordinates.")
	}
	switch v := t.(type) {
	case *geom.Point:
		if v.Empty() {
			return nil
		}
		c.g.Points = append(c.g.Points, pointFromCoord(v.Coords()))
	case *geom.MultiPoint:
		for i := 0; i < v.NumPoints(); i++ {
			if err := c.add(v.Point(i)); err != nil {
				return err
			}
		}
	case *geom.LineString:
		pl, err := polylineFromCoords(v.Coords())
		if err != nil {
			return err
		}
		c.g.Polylines = append(c.g.Polylines, pl)
	case *geom.MultiLineString:
		for i := 0; i < v.NumLineStrings(); i++ {
			if err := c.add(v.LineString(i)); err != nil {
				return err
			}
		}
	case *geom.Polygon:
		c.areas = true
		for i := 0; i < v.NumLinearRings(); i++ {
			l, err := loopFromRing(v.LinearRing(i))
			if err != nil {
				return errors.Wrapf(err, "ring %d", i)
			}
			c.loops = append(c.loops, l)
		}
	case *geom.MultiPolygon:
		for i := 0; i < v.NumPolygons(); i++ {
			if err := c.add(v.Polygon(i)); err != nil {
				return errors.Wrapf(err, "polygon %d", i)
			}
		}
	case *geom.GeometryCollection:
		for _, sub := range v.Geoms() {
			if err := c.add(sub); err != nil {
				return err
			}
		}
	default:
		return errors.Errorf("Cannot convert geometry of type %T", v)
	}
	return nil
}

// FromGeom converts a go-geom geometry. Rings become loops enclosing at most half the
// sphere, and all rings of all polygons are nested into one polygon, which must be valid.
func FromGeom(t geom.T) (*Geometry, error) {
	if t == nil {
		return nil, errors.Errorf("nil geometry")
	}
	var c converter
	if err := c.add(t); err != nil {
		return nil, err
	}
	if c.areas {
		c.g.Polygon = s2.PolygonFromLoops(c.loops)
		if err := c.g.Polygon.Validate(); err != nil {
			return nil, errors.Wrapf(err, "invalid polygon")
		}
	}
	return &c.g, nil
}

// polygonRings returns the rings of every shell of p with its holes. Shells are
// counter-clockwise and holes clockwise, as RFC 7946 requires.
func polygonRings(p *s2.Polygon) [][][]geom.Coord {
	var out [][][]geom.Coord
	for i := 0; i < p.NumLoops(); i++ {
		l := p.Loop(i)
		if l.IsHole() {
			continue
		}
		rings := [][]geom.Coord{ringCoords(l, false)}
		for j := i + 1; j <= p.LastDescendant(i); j++ {
			if parent, ok := p.Parent(j); ok && parent == i {
				rings = append(rings, ringCoords(p.Loop(j), true))
			}
		}
		out = append(out, rings)
	}
	return out
}

func ringCoords(l *s2.Loop, reverse bool) []geom.Coord {
	n := l.NumVertices()
	coords := make([]geom.Coord, 0, n+1)
	for i := 0; i < n; i++ {
		k := i
		if reverse {
			k = n - 1 - i
		}
		coords = append(coords, coordFromPoint(l.Vertex(k)))
	}
	return append(coords, coords[0])
}

func polylineCoords(pl *s2.Polyline) []geom.Coord {
	coords := make([]geom.Coord, len(*pl))
	for i, p := range *pl {
		coords[i] = coordFromPoint(p)
	}
	return coords
}

// ToGeom converts g back to a go-geom geometry: the simplest single or multi geometry when
// g has one kind of part, and a collection otherwise. The full polygon cannot be expressed
// and is rejected.
func ToGeom(g *Geometry) (geom.T, error) {
	var parts []geom.T
	switch len(g.Points) {
	case 0:
	case 1:
		parts = append(parts, geom.NewPoint(geom.XY).MustSetCoords(coordFromPoint(g.Points[0])))
	default:
		coords := make([]geom.Coord, len(g.Points))
		for i, p := range g.Points {
			coords[i] = coordFromPoint(p)
		}
		parts = append(parts, geom.NewMultiPoint(geom.XY).MustSetCoords(coords))
	}
	switch len(g.Polylines) {
	case 0:
	case 1:
		parts = append(parts, geom.NewLineString(geom.XY).MustSetCoords(polylineCoords(g.Polylines[0])))
	default:
		coords := make([][]geom.Coord, len(g.Polylines))
		for i, pl := range g.Polylines {
			coords[i] = polylineCoords(pl)
		}
		parts = append(parts, geom.NewMultiLineString(geom.XY).MustSetCoords(coords))
	}
	if g.Polygon != nil {
		if g.Polygon.IsFull() {
			return nil, errors.Errorf("the full polygon has no ring representation")
		}
		rings := polygonRings(g.Polygon)
		switch len(rings) {
		case 0:
		case 1:
			parts = append(parts, geom.NewPolygon(geom.XY).MustSetCoords(rings[0]))
		default:
			parts = append(parts, geom.NewMultiPolygon(geom.XY).MustSetCoords(rings))
		}
	}
	switch len(parts) {
	case 0:
		return geom.NewGeometryCollection(), nil
	case 1:
		return parts[0], nil
	}
	gc := geom.NewGeometryCollection()
	if err := gc.Push(parts...); err != nil {
		return nil, errors.Wrapf(err, "while building collection")
	}
	return gc, nil
}

// multiRegion is the union of several regions.
type multiRegion []s2.Region

func (m multiRegion) CapBound() s2.Cap {
	c := s2.EmptyCap()
	for _, r := range m {
		c = c.AddCap(r.CapBound())
	}
	return c
}

func (m multiRegion) RectBound() s2.Rect {
	b := s2.EmptyRect()
	for _, r := range m {
		b = b.Union(r.RectBound())
	}
	return b
}

func (m multiRegion) ContainsCell(c s2.Cell) bool {
	for _, r := range m {
		if r.ContainsCell(c) {
			return true
		}
	}
	return false
}

func (m multiRegion) IntersectsCell(c s2.Cell) bool {
	for _, r := range m {
		if r.IntersectsCell(c) {
			return true
		}
	}
	return false
}

func (m multiRegion) ContainsPoint(p s2.Point) bool {
	for _, r := range m {
		if r.ContainsPoint(p) {
			return true
		}
	}
	return false
}

func (m multiRegion) CellUnionBound() []s2.CellID {
	var cu s2.CellUnion
	for _, r := range m {
		cu = append(cu, r.CellUnionBound()...)
	}
	cu.Normalize()
	return cu
}
