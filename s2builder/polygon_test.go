/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package s2builder

import (
	"testing"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/require"
)

func TestPolygonBoundaryNearAndDistance(t *testing.T) {
	p := squarePolygon(t, 0, 0, 10, 10)
	onEdge := latLng(5, 10.5)
	require.True(t, BoundaryNear(p, onEdge, s1.Degree))
	require.False(t, BoundaryNear(p, onEdge, 0.1*s1.Degree))
	require.InDelta(t, 0.5, Distance(p, onEdge).Degrees(), 0.01)

	inside := latLng(5, 5)
	require.Equal(t, s1.Angle(0), Distance(p, inside))
	require.True(t, BoundaryNear(p, inside, 6*s1.Degree))
	require.False(t, BoundaryNear(p, inside, 4*s1.Degree))
	require.Equal(t, inside, Project(p, inside))
	require.InDelta(t, 10, s2.LatLngFromPoint(ProjectToBoundary(p, onEdge)).Lng.Degrees(), 1e-9)

	empty := EmptyPolygon()
	require.False(t, BoundaryNear(empty, inside, s1.Degree))
	require.True(t, DistanceToBoundary(empty, inside) == s1.InfAngle())
	require.Equal(t, inside, ProjectToBoundary(empty, inside))
}

func TestPolygonLoopHelpers(t *testing.T) {
	p := s2.PolygonFromLoops([]*s2.Loop{
		square(t, 0, 0, 30, 30), square(t, 10, 10, 20, 20), square(t, 12, 12, 18, 18),
	})
	require.Equal(t, 12, NumVertices(p))
	depths := map[int]int{}
	for k := range p.Loops() {
		depths[LoopDepth(p, k)]++
		require.Equal(t, LoopDepth(p, k)%2 == 1, p.Loop(k).IsHole())
	}
	require.Equal(t, map[int]int{0: 1, 1: 1, 2: 1}, depths)

	for k, l := range p.Loops() {
		c := CloneLoop(l)
		require.True(t, l.Equal(c))
		require.Equal(t, l.IsHole(), c.IsHole(), "loop %d", k)
	}

	l := square(t, 0, 0, 10, 10)
	c := CloneLoop(l)
	require.True(t, l.Equal(c))
	c.Invert()
	require.False(t, l.Equal(c))
	require.True(t, l.ContainsPoint(latLng(5, 5)))
}

func TestPolygonWithPolyline(t *testing.T) {
	p := squarePolygon(t, 0, 0, 10, 10)
	pl := makePolyline(t, "5:-5, 5:5, 5:15")

	inside, err := IntersectWithPolyline(p, pl)
	require.NoError(t, err)
	require.Len(t, inside, 1)
	require.Len(t, *inside[0], 3)
	require.InDelta(t, 0, s2.LatLngFromPoint((*inside[0])[0]).Lng.Degrees(), 1e-9)
	require.InDelta(t, 10, s2.LatLngFromPoint((*inside[0])[2]).Lng.Degrees(), 1e-9)

	outside, err := SubtractFromPolyline(p, pl)
	require.NoError(t, err)
	require.Len(t, outside, 2)
	var length s1.Angle
	for _, o := range outside {
		length += o.Length()
	}
	require.InDelta(t, (pl.Length() - inside[0].Length()).Radians(), length.Radians(), 1e-12)
}

func TestOverlapFractions(t *testing.T) {
	a := squarePolygon(t, 0, 0, 10, 10)
	b := squarePolygon(t, 2, 2, 8, 8)
	fa, fb, err := OverlapFractions(a, b)
	require.NoError(t, err)
	require.InDelta(t, b.Area()/a.Area(), fa, 1e-9)
	require.InDelta(t, 1, fb, 1e-9)

	c := squarePolygon(t, 20, 20, 30, 30)
	fa, fc, err := OverlapFractions(a, c)
	require.NoError(t, err)
	require.Equal(t, 0.0, fa)
	require.Equal(t, 0.0, fc)
}

func TestPolygonCentroidInside(t *testing.T) {
	// Off the equator and the prime meridian, so a sign slip in either component shows.
	p := squarePolygon(t, 20, 20, 30, 30)
	c := s2.Point{Vector: p.Centroid().Normalize()}
	require.True(t, p.ContainsPoint(c))
	ll := s2.LatLngFromPoint(c)
	require.InDelta(t, 25, ll.Lng.Degrees(), 0.1)
	require.InDelta(t, 25, ll.Lat.Degrees(), 0.2)

	buffered, err := UnionOfPolygons([]*s2.Polygon{p, squarePolygon(t, 25, 25, 35, 35)})
	require.NoError(t, err)
	require.True(t, buffered.ContainsPoint(s2.Point{Vector: buffered.Centroid().Normalize()}))
}
