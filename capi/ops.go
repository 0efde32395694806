/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package capi

import (
	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/hypermodeinc/s2geo/earth"
	"github.com/hypermodeinc/s2geo/geo"
	"github.com/hypermodeinc/s2geo/s2builder"
)

// Set operations accepted by PolygonBoolean.
const (
	OpUnion               = int(s2builder.OpUnion)
	OpIntersection        = int(s2builder.OpIntersection)
	OpDifference          = int(s2builder.OpDifference)
	OpSymmetricDifference = int(s2builder.OpSymmetricDifference)
)

func NewRegionCoverer(minLevel, maxLevel, levelMod, maxCells int) Handle {
	return register(&s2.RegionCoverer{
		MinLevel: minLevel,
		MaxLevel: maxLevel,
		LevelMod: levelMod,
		MaxCells: maxCells,
	})
}

func covering(coverer, region Handle, interior bool) ([]uint64, int) {
	rc, ok := lookup[*s2.RegionCoverer](coverer)
	if !ok {
		return nil, 0
	}
	r, ok := lookupRegion(region)
	if !ok {
		return nil, 0
	}
	if interior {
		return ids(rc.InteriorCovering(r))
	}
	return ids(rc.Covering(r))
}

func Covering(coverer, region Handle) ([]uint64, int) {
	return covering(coverer, region, false)
}

func InteriorCovering(coverer, region Handle) ([]uint64, int) {
	return covering(coverer, region, true)
}

// NewTermIndexer returns a term indexer using a copy of the coverer.
func NewTermIndexer(coverer Handle, pointsOnly, optimizeForSpace bool) Handle {
	rc, ok := lookup[*s2.RegionCoverer](coverer)
	if !ok {
		return InvalidHandle
	}
	ti := geo.NewRegionTermIndexer()
	ti.Coverer = *rc
	ti.IndexContainsPointsOnly = pointsOnly
	ti.OptimizeForSpace = optimizeForSpace
	return register(ti)
}

func termList(terms []string) ([]string, int) { return terms, len(terms) }

func IndexTerms(indexer, region Handle, prefix string) ([]string, int) {
	ti, ok := lookup[*geo.RegionTermIndexer](indexer)
	r, okR := lookupRegion(region)
	if !ok || !okR {
		return nil, 0
	}
	return termList(ti.IndexTerms(r, prefix))
}

func QueryTerms(indexer, region Handle, prefix string) ([]string, int) {
	ti, ok := lookup[*geo.RegionTermIndexer](indexer)
	r, okR := lookupRegion(region)
	if !ok || !okR {
		return nil, 0
	}
	return termList(ti.QueryTerms(r, prefix))
}

func IndexTermsForPoint(indexer Handle, lat, lng float64, prefix string) ([]string, int) {
	ti, ok := lookup[*geo.RegionTermIndexer](indexer)
	if !ok {
		return nil, 0
	}
	return termList(ti.IndexTermsForPoint(point(lat, lng), prefix))
}

func QueryTermsForPoint(indexer Handle, lat, lng float64, prefix string) ([]string, int) {
	ti, ok := lookup[*geo.RegionTermIndexer](indexer)
	if !ok {
		return nil, 0
	}
	return termList(ti.QueryTermsForPoint(point(lat, lng), prefix))
}

// PolygonBoolean applies op to two polygons. A snap level of zero or more snaps output
// vertices to cell centers at that level; a negative level keeps them exact.
func PolygonBoolean(op int, a, b Handle, snapLevel int) (Handle, Error) {
	pa, pb, ok := polygonPair(a, b)
	if !ok {
		return InvalidHandle, Error{Text: "handle is not a polygon"}
	}
	if op < OpUnion || op > OpSymmetricDifference {
		return InvalidHandle, Error{Text: "unknown boolean operation"}
	}
	if snapLevel > s2.MaxLevel {
		return InvalidHandle, Error{Text: "snap level above maximum cell level"}
	}
	opts := s2builder.DefaultBooleanOperationOptions()
	if snapLevel >= 0 {
		opts.Snapper = s2.CellIDSnapperForLevel(snapLevel)
	}
	result := &s2.Polygon{}
	if err := s2builder.NewBooleanOperation(s2builder.OpType(op), s2builder.NewPolygonLayer(result), opts).
		Build(s2builder.IndexOf(pa), s2builder.IndexOf(pb)); err != nil {
		return InvalidHandle, failure(err)
	}
	return register(result), success
}

// PolygonUnion returns the union of all the polygons.
func PolygonUnion(polygons []Handle) (Handle, Error) {
	ps := make([]*s2.Polygon, 0, len(polygons))
	for _, h := range polygons {
		p, ok := lookup[*s2.Polygon](h)
		if !ok {
			return InvalidHandle, Error{Text: "handle is not a polygon"}
		}
		ps = append(ps, p)
	}
	p, err := s2builder.UnionOfPolygons(ps)
	if err != nil {
		return InvalidHandle, failure(err)
	}
	return register(p), success
}

// Buffer grows the point, polyline or polygon behind h by radius degrees.
func Buffer(h Handle, radius float64) (Handle, Error) {
	op, err := s2builder.NewBufferOperation(s1.Angle(radius)*s1.Degree, 0.01)
	if err != nil {
		return InvalidHandle, failure(err)
	}
	handles.Lock()
	v := handles.objs[h]
	handles.Unlock()
	switch g := v.(type) {
	case *s2.Polygon:
		op.AddPolygon(g)
	case *s2.Polyline:
		op.AddPolyline(g)
	case *s2.Loop:
		op.AddPolygon(s2.PolygonFromLoops([]*s2.Loop{s2builder.CloneLoop(g)}))
	case *polygonLoop:
		op.AddPolygon(s2.PolygonFromLoops([]*s2.Loop{s2builder.CloneLoop(g.Loop)}))
	default:
		return InvalidHandle, Error{Text: "handle cannot be buffered"}
	}
	p, err := op.Build()
	if err != nil {
		return InvalidHandle, failure(err)
	}
	return register(p), success
}

// BufferPoint returns the disc of radius degrees around the point.
func BufferPoint(lat, lng, radius float64) (Handle, Error) {
	op, err := s2builder.NewBufferOperation(s1.Angle(radius)*s1.Degree, 0.01)
	if err != nil {
		return InvalidHandle, failure(err)
	}
	op.AddPoint(point(lat, lng))
	p, err := op.Build()
	if err != nil {
		return InvalidHandle, failure(err)
	}
	return register(p), success
}

func EarthDistanceKm(lat1, lng1, lat2, lng2 float64) float64 {
	return earth.DistanceKm(latLng(lat1, lng1), latLng(lat2, lng2))
}

func EarthDistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	return earth.DistanceMeters(latLng(lat1, lng1), latLng(lat2, lng2))
}

// EarthInitialBearing returns the bearing in degrees from the first point towards the
// second, in (-180, 180].
func EarthInitialBearing(lat1, lng1, lat2, lng2 float64) float64 {
	return earth.InitialBearing(latLng(lat1, lng1), latLng(lat2, lng2)).Degrees()
}

func EarthKmToRadians(km float64) float64              { return earth.KmToRadians(km) }
func EarthRadiansToKm(radians float64) float64         { return earth.RadiansToKm(radians) }
func EarthMetersToRadians(m float64) float64           { return earth.MetersToRadians(m) }
func EarthRadiansToMeters(radians float64) float64     { return earth.RadiansToMeters(radians) }
func EarthSquareKmToSteradians(km2 float64) float64    { return earth.SquareKmToSteradians(km2) }
func EarthSteradiansToSquareKm(sr float64) float64     { return earth.SteradiansToSquareKm(sr) }
func EarthSquareMetersToSteradians(m2 float64) float64 { return earth.SquareMetersToSteradians(m2) }
func EarthSteradiansToSquareMeters(sr float64) float64 { return earth.SteradiansToSquareMeters(sr) }
