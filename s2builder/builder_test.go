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

func TestBuilderPolygonLayer(t *testing.T) {
	var out s2.Polygon
	b := NewBuilder(DefaultOptions())
	b.StartLayer(NewPolygonLayer(&out))
	b.AddLoop(square(t, 0, 0, 10, 10))
	// Duplicates merge.
	b.AddLoop(square(t, 0, 0, 10, 10))
	require.NoError(t, b.Build())
	require.Equal(t, 1, out.NumLoops())
	require.True(t, BoundaryEqual(&out, squarePolygon(t, 0, 0, 10, 10)))
}

func TestBuilderSiblingPairsCancel(t *testing.T) {
	var out s2.Polygon
	b := NewBuilder(DefaultOptions())
	b.StartLayer(NewPolygonLayer(&out))
	left := square(t, 0, 0, 10, 10)
	right := square(t, 0, 10, 10, 20)
	b.AddLoop(left)
	b.AddLoop(right)
	require.NoError(t, b.Build())
	require.Equal(t, 1, out.NumLoops())
	require.Equal(t, 6, out.Loop(0).NumVertices())
	require.InDelta(t, left.Area()+right.Area(), out.Area(), 1e-12)
}

func TestBuilderPolygonWithHole(t *testing.T) {
	var out s2.Polygon
	b := NewBuilder(DefaultOptions())
	b.StartLayer(NewPolygonLayer(&out))
	b.AddPolygon(s2.PolygonFromLoops([]*s2.Loop{square(t, 0, 0, 20, 20), square(t, 5, 5, 15, 15)}))
	require.NoError(t, b.Build())
	require.Equal(t, 2, out.NumLoops())
	require.False(t, out.ContainsPoint(parsePoint(t, "10:10")))
	require.True(t, out.ContainsPoint(parsePoint(t, "2:2")))
}

func TestBuilderFullAndEmpty(t *testing.T) {
	var full, empty s2.Polygon
	b := NewBuilder(DefaultOptions())
	b.StartLayer(NewPolygonLayer(&full))
	b.AddIsFullPolygonPredicate(IsFullPolygon(true))
	b.StartLayer(NewPolygonLayer(&empty))
	require.NoError(t, b.Build())
	require.True(t, full.IsFull())
	require.True(t, empty.IsEmpty())
}

func TestBuilderUnbalancedEdges(t *testing.T) {
	var out s2.Polygon
	b := NewBuilder(DefaultOptions())
	b.StartLayer(NewPolygonLayer(&out))
	pts := parsePoints(t, "0:0, 0:10, 10:10")
	b.AddEdge(pts[0], pts[1])
	b.AddEdge(pts[1], pts[2])
	require.Error(t, b.Build())
}

func TestBuilderPolylineLayer(t *testing.T) {
	var pl s2.Polyline
	b := NewBuilder(DefaultOptions())
	b.StartLayer(NewPolylineLayer(&pl))
	b.AddPolyline(makePolyline(t, "0:0, 0:5, 0:10"))
	require.NoError(t, b.Build())
	require.Len(t, pl, 3)

	var two s2.Polyline
	b = NewBuilder(DefaultOptions())
	b.StartLayer(NewPolylineLayer(&two))
	b.AddPolyline(makePolyline(t, "0:0, 0:5"))
	b.AddPolyline(makePolyline(t, "10:0, 10:5"))
	require.Error(t, b.Build())
}

func TestBuilderSplitCrossingEdges(t *testing.T) {
	var out []*s2.Polyline
	b := NewBuilder(Options{SplitCrossingEdges: true})
	b.StartLayer(NewPolylineVectorLayer(&out))
	meridian := makePolyline(t, "0:10, 10:10")
	across := makePolyline(t, "5:5, 5:15")
	b.AddPolyline(meridian)
	b.AddPolyline(across)
	require.NoError(t, b.Build())

	var edges int
	var crossing []s2.Point
	inputs := map[s2.Point]bool{}
	for _, v := range append(*meridian, *across...) {
		inputs[v] = true
	}
	for _, pl := range out {
		edges += pl.NumEdges()
		for _, v := range *pl {
			if !inputs[v] {
				crossing = append(crossing, v)
			}
		}
	}
	require.Equal(t, 4, edges)
	require.NotEmpty(t, crossing)

	// The shared vertex is the crossing point itself, on the meridian and just north of
	// latitude 5 where the great circle through 5:5 and 5:15 bulges poleward.
	for _, v := range crossing {
		require.Equal(t, crossing[0], v)
	}
	ll := s2.LatLngFromPoint(crossing[0])
	require.InDelta(t, 10, ll.Lng.Degrees(), 1e-9)
	require.Greater(t, ll.Lat.Degrees(), 5.0)
	require.Less(t, ll.Lat.Degrees(), 5.05)
	require.Less(t, s2.DistanceFromSegment(crossing[0], (*across)[0], (*across)[1]).Radians(), 1e-14)
}

func TestBuilderPointLayer(t *testing.T) {
	var pts s2.PointVector
	b := NewBuilder(DefaultOptions())
	b.StartLayer(NewPointVectorLayer(&pts))
	p := parsePoint(t, "1:2")
	b.AddPoint(p)
	b.AddPoint(p)
	require.NoError(t, b.Build())
	require.Len(t, pts, 1)
	require.Equal(t, p, pts[0])
}

func TestBuilderSnapping(t *testing.T) {
	var pl s2.Polyline
	b := NewBuilder(Options{Snapper: s2.NewIntLatLngSnapper(1)})
	b.StartLayer(NewPolylineLayer(&pl))
	b.AddPolyline(makePolyline(t, "0.01:0.02, 5.04:5.06"))
	require.NoError(t, b.Build())
	require.Len(t, pl, 2)
	ll := s2.LatLngFromPoint(pl[1])
	require.InDelta(t, 5.0, ll.Lat.Degrees(), 1e-12)
	require.InDelta(t, 5.1, ll.Lng.Degrees(), 1e-12)

	level := 10
	snapper := s2.CellIDSnapperForLevel(level)
	var cells s2.PointVector
	b = NewBuilder(Options{Snapper: snapper})
	b.StartLayer(NewPointVectorLayer(&cells))
	p := parsePoint(t, "12.345:67.89")
	b.AddPoint(p)
	require.NoError(t, b.Build())
	require.Len(t, cells, 1)
	require.Equal(t, s2.CellFromPoint(p).ID().Parent(level).Point(), cells[0])
	require.LessOrEqual(t, p.Distance(cells[0]), snapper.SnapRadius())

	// Vertices closer than the snap radius merge, and the degenerate edge disappears.
	var merged s2.Polyline
	b = NewBuilder(Options{Snapper: s2.NewIdentitySnapper(s1.Degree)})
	b.StartLayer(NewPolylineLayer(&merged))
	b.AddPolyline(makePolyline(t, "0:0, 0:0.1, 0:10"))
	require.NoError(t, b.Build())
	require.Len(t, merged, 2)
}

func TestBuilderSnapRadiusSplitsNearbyEdges(t *testing.T) {
	// The vertex of the second polyline lies within the snap radius of the first, so the
	// first is routed through it.
	var out []*s2.Polyline
	b := NewBuilder(Options{Snapper: s2.NewIdentitySnapper(0.5 * s1.Degree)})
	b.StartLayer(NewPolylineVectorLayer(&out))
	b.AddPolyline(makePolyline(t, "0:0, 0:10"))
	b.AddPolyline(makePolyline(t, "0.1:5, 5:5"))
	require.NoError(t, b.Build())
	near := parsePoint(t, "0.1:5")
	through := false
	for _, pl := range out {
		if len(*pl) == 3 && (*pl)[1] == near {
			through = true
		}
	}
	require.True(t, through, "%v", out)
}
