/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseGeoJSONKinds(t *testing.T) {
	tests := []struct {
		name      string
		in        string
		points    int
		polylines int
		polygon   bool
	}{
		{"point", `{"type":"Point","coordinates":[-122.4,37.8]}`, 1, 0, false},
		{"multipoint", `{"type":"MultiPoint","coordinates":[[1,2],[3,4]]}`, 2, 0, false},
		{"linestring", `{"type":"LineString","coordinates":[[1,2],[3,4],[5,5]]}`, 0, 1, false},
		{"polygon", sfSquare, 0, 0, true},
		{"multipolygon", `{"type":"MultiPolygon","coordinates":[
			[[[0,0],[1,0],[1,1],[0,1],[0,0]]],
			[[[5,5],[6,5],[6,6],[5,6],[5,5]]]]}`, 0, 0, true},
		{"feature", `{"type":"Feature","geometry":{"type":"Point","coordinates":[10,20]},
			"properties":{"name":"a"}}`, 1, 0, false},
		{"feature collection", `{"type":"FeatureCollection","features":[
			{"type":"Feature","geometry":{"type":"Point","coordinates":[10,20]},"properties":{}},
			{"type":"Feature","geometry":{"type":"LineString","coordinates":[[0,0],[1,1]]},"properties":{}}]}`,
			1, 1, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			g, err := ParseGeoJSON([]byte(tc.in))
			require.NoError(t, err)
			require.Len(t, g.Points, tc.points)
			require.Len(t, g.Polylines, tc.polylines)
			require.Equal(t, tc.polygon, g.Polygon != nil)
		})
	}
}

func TestParseGeoJSONErrors(t *testing.T) {
	for _, in := range []string{
		``,
		`{`,
		`{"type":"Circle","coordinates":[1,2]}`,
		`{"type":"Polygon","coordinates":[[[0,0],[1,0],[1,1],[0,1]]]}`,
	} {
		_, err := ParseGeoJSON([]byte(in))
		require.Error(t, err, in)
	}
}

func TestMultiPolygonParts(t *testing.T) {
	g, err := ParseGeoJSON([]byte(`{"type":"MultiPolygon","coordinates":[
		[[[0,0],[1,0],[1,1],[0,1],[0,0]]],
		[[[5,5],[6,5],[6,6],[5,6],[5,5]]]]}`))
	require.NoError(t, err)
	require.Equal(t, 2, g.Polygon.NumLoops())
	require.True(t, g.Polygon.ContainsPoint(ll(0.5, 0.5)))
	require.True(t, g.Polygon.ContainsPoint(ll(5.5, 5.5)))
	require.False(t, g.Polygon.ContainsPoint(ll(3, 3)))
}

func TestWKBRoundTrip(t *testing.T) {
	g, err := ParseGeoJSON([]byte(sfSquare))
	require.NoError(t, err)
	data, err := MarshalWKB(g)
	require.NoError(t, err)

	back, err := ParseWKB(data)
	require.NoError(t, err)
	require.True(t, back.Polygon.ContainsPoint(ll(-122.4, 37.8)))
	require.InDelta(t, g.Polygon.Area(), back.Polygon.Area(), 1e-15)

	_, err = ParseWKB([]byte{1, 2, 3})
	require.Error(t, err)
}

func TestGeoJSONOutput(t *testing.T) {
	g, err := ParseGeoJSON([]byte(`{"type":"Point","coordinates":[10,20]}`))
	require.NoError(t, err)
	out, err := MarshalGeoJSON(g)
	require.NoError(t, err)
	require.Contains(t, string(out), `"type":"Point"`)

	back, err := ParseGeoJSON(out)
	require.NoError(t, err)
	require.True(t, back.IsPoint())
	require.True(t, back.Points[0].ApproxEqual(g.Points[0]))
}
