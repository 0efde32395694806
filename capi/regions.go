/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package capi

import (
	"bytes"
	"io"

	"github.com/golang/geo/r1"
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/pkg/errors"

	"github.com/hypermodeinc/s2geo/s2builder"
)

// NewCap returns a cap around the center with the given radius in degrees.
func NewCap(lat, lng, radius float64) Handle {
	return register(s2.CapFromCenterAngle(point(lat, lng), s1.Angle(radius)*s1.Degree))
}

// NewRect returns the rectangle between the given corners in degrees. The longitude range
// runs east from lngLo and may cross the antimeridian.
func NewRect(latLo, lngLo, latHi, lngHi float64) Handle {
	lo, hi := latLng(latLo, lngLo), latLng(latHi, lngHi)
	r := s2.Rect{
		Lat: r1.Interval{Lo: lo.Lat.Radians(), Hi: hi.Lat.Radians()},
		Lng: s1.IntervalFromEndpoints(lo.Lng.Radians(), hi.Lng.Radians()),
	}
	if !r.IsValid() {
		return InvalidHandle
	}
	return register(r)
}

// NewCellUnion returns the normalized union of the valid ids.
func NewCellUnion(cellIDs []uint64) Handle {
	cu := make(s2.CellUnion, 0, len(cellIDs))
	for _, id := range cellIDs {
		if ci := s2.CellID(id); ci.IsValid() {
			cu = append(cu, ci)
		}
	}
	cu.Normalize()
	return register(&cu)
}

func CellUnionCellIDs(h Handle) ([]uint64, int) {
	cu, ok := lookup[*s2.CellUnion](h)
	if !ok {
		return nil, 0
	}
	return ids(*cu)
}

func pointsFromDegrees(latlngs []float64) ([]s2.Point, error) {
	if len(latlngs)%2 != 0 {
		return nil, errors.Errorf("odd number of coordinates: %d", len(latlngs))
	}
	pts := make([]s2.Point, len(latlngs)/2)
	for i := range pts {
		pts[i] = point(latlngs[2*i], latlngs[2*i+1])
	}
	return pts, nil
}

// NewLoop returns a loop through lat/lng pairs in degrees. The loop is validated.
func NewLoop(latlngs []float64) (Handle, Error) {
	pts, err := pointsFromDegrees(latlngs)
	if err != nil {
		return InvalidHandle, failure(err)
	}
	l := s2.LoopFromPoints(pts)
	if err := l.Validate(); err != nil {
		return InvalidHandle, failure(err)
	}
	return register(l), success
}

// polygonLoop is a copy of a polygon loop together with the depth the polygon gave it.
type polygonLoop struct {
	*s2.Loop
	depth int
}

// lookupLoop returns the loop behind h and its depth. Loops built on their own have
// depth zero.
func lookupLoop(h Handle) (*s2.Loop, int, bool) {
	handles.Lock()
	v := handles.objs[h]
	handles.Unlock()
	switch l := v.(type) {
	case *s2.Loop:
		return l, 0, true
	case *polygonLoop:
		return l.Loop, l.depth, true
	}
	return nil, 0, false
}

// LoopNormalize inverts the loop when it covers more than half the sphere.
func LoopNormalize(h Handle) bool {
	l, _, ok := lookupLoop(h)
	if ok {
		l.Normalize()
	}
	return ok
}

func LoopNumVertices(h Handle) int {
	l, _, ok := lookupLoop(h)
	if !ok {
		return 0
	}
	return l.NumVertices()
}

func LoopArea(h Handle) float64 {
	l, _, ok := lookupLoop(h)
	if !ok {
		return 0
	}
	return l.Area()
}

// LoopDepth returns the nesting depth assigned by the polygon the loop was copied from.
func LoopDepth(h Handle) int {
	_, depth, _ := lookupLoop(h)
	return depth
}

func LoopIsHole(h Handle) bool {
	_, depth, ok := lookupLoop(h)
	return ok && depth%2 == 1
}

// NewPolyline returns a polyline through lat/lng pairs in degrees. The polyline is
// validated.
func NewPolyline(latlngs []float64) (Handle, Error) {
	pts, err := pointsFromDegrees(latlngs)
	if err != nil {
		return InvalidHandle, failure(err)
	}
	pl := s2.Polyline(pts)
	if err := pl.Validate(); err != nil {
		return InvalidHandle, failure(err)
	}
	return register(&pl), success
}

// PolylineLength returns the length in degrees.
func PolylineLength(h Handle) float64 {
	pl, ok := lookup[*s2.Polyline](h)
	if !ok {
		return 0
	}
	return pl.Length().Degrees()
}

// NewPolygon nests the loops into a polygon and takes ownership of them: the loop handles
// are released on success and left untouched on failure.
func NewPolygon(loops []Handle) (Handle, Error) {
	ls := make([]*s2.Loop, 0, len(loops))
	for _, h := range loops {
		l, _, ok := lookupLoop(h)
		if !ok {
			return InvalidHandle, Error{Text: "handle is not a loop"}
		}
		ls = append(ls, l)
	}
	p := s2.PolygonFromLoops(ls)
	if err := p.Validate(); err != nil {
		return InvalidHandle, failure(err)
	}
	for _, h := range loops {
		Destroy(h)
	}
	return register(p), success
}

// NewPolygonFromCell returns the polygon of the cell.
func NewPolygonFromCell(id uint64) Handle {
	ci, ok := validCell(id)
	if !ok {
		return InvalidHandle
	}
	return register(s2.PolygonFromCell(s2.CellFromCellID(ci)))
}

func PolygonNumLoops(h Handle) int {
	p, ok := lookup[*s2.Polygon](h)
	if !ok {
		return 0
	}
	return p.NumLoops()
}

// PolygonLoop returns a new handle to a copy of loop k.
func PolygonLoop(h Handle, k int) Handle {
	p, ok := lookup[*s2.Polygon](h)
	if !ok || k < 0 || k >= p.NumLoops() {
		return InvalidHandle
	}
	return register(&polygonLoop{Loop: s2builder.CloneLoop(p.Loop(k)), depth: s2builder.LoopDepth(p, k)})
}

func PolygonArea(h Handle) float64 {
	p, ok := lookup[*s2.Polygon](h)
	if !ok {
		return 0
	}
	return p.Area()
}

// PolygonCentroid returns the unnormalized centroid: its direction is the centroid and its
// length is proportional to the area.
func PolygonCentroid(h Handle) (x, y, z float64) {
	p, ok := lookup[*s2.Polygon](h)
	if !ok {
		return 0, 0, 0
	}
	c := p.Centroid()
	return c.X, c.Y, c.Z
}

func PolygonIsValid(h Handle) bool {
	p, ok := lookup[*s2.Polygon](h)
	return ok && p.Validate() == nil
}

func polygonPair(a, b Handle) (*s2.Polygon, *s2.Polygon, bool) {
	pa, okA := lookup[*s2.Polygon](a)
	pb, okB := lookup[*s2.Polygon](b)
	return pa, pb, okA && okB
}

func PolygonContains(a, b Handle) bool {
	pa, pb, ok := polygonPair(a, b)
	return ok && pa.Contains(pb)
}

func PolygonIntersects(a, b Handle) bool {
	pa, pb, ok := polygonPair(a, b)
	return ok && pa.Intersects(pb)
}

// PolygonEquals reports whether the polygons cover the same region.
func PolygonEquals(a, b Handle) bool {
	pa, pb, ok := polygonPair(a, b)
	return ok && s2builder.Equal(pa, pb)
}

// PolygonBoundaryNear reports whether the point is within radius degrees of the boundary.
func PolygonBoundaryNear(h Handle, lat, lng, radius float64) bool {
	p, ok := lookup[*s2.Polygon](h)
	return ok && s2builder.BoundaryNear(p, point(lat, lng), s1.Angle(radius)*s1.Degree)
}

// RegionContainsPoint works for every region handle.
func RegionContainsPoint(h Handle, lat, lng float64) bool {
	r, ok := lookupRegion(h)
	return ok && r.ContainsPoint(point(lat, lng))
}

func RegionContainsCell(h Handle, id uint64) bool {
	r, ok := lookupRegion(h)
	ci, valid := validCell(id)
	return ok && valid && r.ContainsCell(s2.CellFromCellID(ci))
}

func RegionIntersectsCell(h Handle, id uint64) bool {
	r, ok := lookupRegion(h)
	ci, valid := validCell(id)
	return ok && valid && r.IntersectsCell(s2.CellFromCellID(ci))
}

// RegionRectBound returns the latitude/longitude bound in degrees.
func RegionRectBound(h Handle) (latLo, lngLo, latHi, lngHi float64, ok bool) {
	r, found := lookupRegion(h)
	if !found {
		return 0, 0, 0, 0, false
	}
	b := r.RectBound()
	return b.Lo().Lat.Degrees(), b.Lo().Lng.Degrees(), b.Hi().Lat.Degrees(), b.Hi().Lng.Degrees(), true
}

// RegionCapBound returns the center and radius of the bounding cap in degrees.
func RegionCapBound(h Handle) (lat, lng, radius float64, ok bool) {
	r, found := lookupRegion(h)
	if !found {
		return 0, 0, 0, false
	}
	c := r.CapBound()
	lat, lng = degrees(c.Center())
	return lat, lng, c.Radius().Degrees(), true
}

type encodable interface {
	Encode(w io.Writer) error
}

// Encode serializes the region behind h.
func Encode(h Handle) ([]byte, Error) {
	handles.Lock()
	v := handles.objs[h]
	handles.Unlock()
	e, ok := v.(encodable)
	if !ok {
		return nil, Error{Text: "handle is not encodable"}
	}
	var buf bytes.Buffer
	if err := e.Encode(&buf); err != nil {
		return nil, failure(err)
	}
	return buf.Bytes(), success
}

func DecodePolygon(data []byte) (Handle, Error) {
	p := &s2.Polygon{}
	if err := p.Decode(bytes.NewReader(data)); err != nil {
		return InvalidHandle, failure(err)
	}
	return register(p), success
}

func DecodeLoop(data []byte) (Handle, Error) {
	l := &s2.Loop{}
	if err := l.Decode(bytes.NewReader(data)); err != nil {
		return InvalidHandle, failure(err)
	}
	return register(l), success
}

func DecodeCellUnion(data []byte) (Handle, Error) {
	cu := &s2.CellUnion{}
	if err := cu.Decode(bytes.NewReader(data)); err != nil {
		return InvalidHandle, failure(err)
	}
	return register(cu), success
}
