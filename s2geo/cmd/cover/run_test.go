/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package cover

import (
	"bytes"
	"strings"
	"testing"

	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/require"

	"github.com/hypermodeinc/s2geo/geo"
)

const square = `{"type":"Polygon","coordinates":[[[-122.5,37.7],[-122.3,37.7],[-122.3,37.9],[-122.5,37.9],[-122.5,37.7]]]}`

func defaults() options {
	return options{
		minLevel: geo.MinCellLevel,
		maxLevel: geo.MaxCellLevel,
		levelMod: 1,
		maxCells: 8,
		out:      "tokens",
	}
}

func TestRunTokens(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, run(&buf, []byte(square), defaults()))
	lines := strings.Fields(buf.String())
	require.NotEmpty(t, lines)
	require.LessOrEqual(t, len(lines), 8)

	inside := s2.CellIDFromLatLng(s2.LatLngFromDegrees(37.8, -122.4))
	var found bool
	for _, tok := range lines {
		id := s2.CellIDFromToken(tok)
		require.True(t, id.IsValid(), tok)
		require.GreaterOrEqual(t, id.Level(), geo.MinCellLevel)
		require.LessOrEqual(t, id.Level(), geo.MaxCellLevel)
		found = found || id.Contains(inside)
	}
	require.True(t, found)
}

func TestRunGeoJSON(t *testing.T) {
	opt := defaults()
	opt.out = "geojson"
	var buf bytes.Buffer
	require.NoError(t, run(&buf, []byte(square), opt))

	cu, err := geo.CellsFromFeatures(buf.Bytes())
	require.NoError(t, err)
	require.NotEmpty(t, cu)
	require.True(t, cu.ContainsPoint(s2.PointFromLatLng(s2.LatLngFromDegrees(37.8, -122.4))))
}

func TestRunInterior(t *testing.T) {
	opt := defaults()
	opt.interior = true
	opt.maxCells = 50
	var buf bytes.Buffer
	require.NoError(t, run(&buf, []byte(square), opt))
	g, err := geo.ParseGeoJSON([]byte(square))
	require.NoError(t, err)
	for _, tok := range strings.Fields(buf.String()) {
		require.True(t, g.Region().ContainsCell(s2.CellFromCellID(s2.CellIDFromToken(tok))), tok)
	}
}

func TestRunErrors(t *testing.T) {
	var buf bytes.Buffer
	bad := defaults()
	bad.levelMod = 4
	require.Error(t, run(&buf, []byte(square), bad))

	bad = defaults()
	bad.minLevel, bad.maxLevel = 10, 5
	require.Error(t, run(&buf, []byte(square), bad))

	bad = defaults()
	bad.maxCells = 0
	require.Error(t, run(&buf, []byte(square), bad))

	bad = defaults()
	bad.out = "wkt"
	require.Error(t, run(&buf, []byte(square), bad))

	require.Error(t, run(&buf, []byte(`{"type":"Polygon"`), defaults()))
}
