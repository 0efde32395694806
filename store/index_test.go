/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package store

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/hypermodeinc/s2geo/geo"
)

func parse(t *testing.T, s string) *geo.Geometry {
	t.Helper()
	g, err := geo.ParseGeoJSON([]byte(s))
	require.NoError(t, err)
	return g
}

func point(t *testing.T, lng, lat float64) *geo.Geometry {
	return parse(t, fmt.Sprintf(`{"type":"Point","coordinates":[%g,%g]}`, lng, lat))
}

func openMem(t *testing.T) *Index {
	t.Helper()
	opts := DefaultOptions("")
	opts.InMemory = true
	idx, err := Open(opts)
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, idx.Close()) })
	return idx
}

func filter(t *testing.T, typ geo.QueryType, g *geo.Geometry, d float64) *geo.Filter {
	f, err := geo.NewFilter(typ, g, d)
	require.NoError(t, err)
	return f
}

const (
	sfSquare = `{"type":"Polygon","coordinates":[[[-122.5,37.7],[-122.3,37.7],[-122.3,37.9],[-122.5,37.9],[-122.5,37.7]]]}`
	eastBox  = `{"type":"Polygon","coordinates":[[[-122.35,37.75],[-122.25,37.75],[-122.25,37.85],[-122.35,37.85],[-122.35,37.75]]]}`
	bayLine  = `{"type":"LineString","coordinates":[[-122.4,37.6],[-122.4,38.0]]}`
)

func TestAddGetDelete(t *testing.T) {
	idx := openMem(t)
	require.NoError(t, idx.Add(7, parse(t, sfSquare)))

	g, err := idx.Get(7)
	require.NoError(t, err)
	require.NotNil(t, g.Polygon)
	require.True(t, g.Polygon.ContainsPoint(point(t, -122.4, 37.8).Points[0]))

	n, err := idx.Len()
	require.NoError(t, err)
	require.Equal(t, 1, n)

	require.NoError(t, idx.Delete(7))
	_, err = idx.Get(7)
	require.Equal(t, ErrNotFound, err)
	require.Equal(t, ErrNotFound, idx.Delete(7))

	n, err = idx.Len()
	require.NoError(t, err)
	require.Zero(t, n)

	require.Error(t, idx.Add(8, &geo.Geometry{}))
	require.Error(t, idx.Add(8, nil))
}

func TestQuery(t *testing.T) {
	idx := openMem(t)
	require.NoError(t, idx.Add(1, parse(t, sfSquare)))
	require.NoError(t, idx.Add(2, parse(t, eastBox)))
	require.NoError(t, idx.Add(3, point(t, -122.4, 37.8)))
	require.NoError(t, idx.Add(4, point(t, 139.7, 35.7)))
	require.NoError(t, idx.Add(5, parse(t, bayLine)))

	tests := []struct {
		name string
		f    *geo.Filter
		want []uint64
	}{
		{"intersects point", filter(t, geo.QueryTypeIntersects, point(t, -122.32, 37.8), 0), []uint64{1, 2}},
		{"contains point", filter(t, geo.QueryTypeContains, point(t, -122.4, 37.8), 0), []uint64{1, 3, 5}},
		{"within square", filter(t, geo.QueryTypeWithin, parse(t, sfSquare), 0), []uint64{1, 3}},
		{"intersects square", filter(t, geo.QueryTypeIntersects, parse(t, sfSquare), 0), []uint64{1, 2, 3, 5}},
		{"near tokyo", filter(t, geo.QueryTypeNear, point(t, 139.71, 35.7), 2000), []uint64{4}},
		{"near nothing", filter(t, geo.QueryTypeNear, point(t, 0, 0), 2000), []uint64{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := idx.Query(tc.f)
			require.NoError(t, err)
			require.Equal(t, tc.want, got)
		})
	}

	_, err := idx.Query(filter(t, geo.QueryTypeNear, parse(t, sfSquare), 10))
	require.Error(t, err)
}

func TestAddReplaces(t *testing.T) {
	idx := openMem(t)
	require.NoError(t, idx.Add(1, point(t, 10, 10)))
	require.NoError(t, idx.Add(1, point(t, 20, 20)))

	got, err := idx.Query(filter(t, geo.QueryTypeNear, point(t, 10, 10), 1000))
	require.NoError(t, err)
	require.Empty(t, got)
	got, err = idx.Query(filter(t, geo.QueryTypeNear, point(t, 20, 20), 1000))
	require.NoError(t, err)
	require.Equal(t, []uint64{1}, got)
}

func TestBulkAdd(t *testing.T) {
	idx := openMem(t)
	var docs []Doc
	for i := 0; i < 50; i++ {
		docs = append(docs, Doc{ID: uint64(i + 1), Geometry: point(t, float64(i), float64(i)/2)})
	}
	require.NoError(t, idx.BulkAdd(context.Background(), docs))
	n, err := idx.Len()
	require.NoError(t, err)
	require.Equal(t, 50, n)

	got, err := idx.Query(filter(t, geo.QueryTypeNear, point(t, 10, 5), 1000))
	require.NoError(t, err)
	require.Equal(t, []uint64{11}, got)

	dup := []Doc{{ID: 1, Geometry: point(t, 1, 1)}, {ID: 1, Geometry: point(t, 2, 2)}}
	require.Error(t, idx.BulkAdd(context.Background(), dup))

	bad := []Doc{{ID: 100, Geometry: &geo.Geometry{}}}
	require.Error(t, idx.BulkAdd(context.Background(), bad))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	require.Error(t, idx.BulkAdd(ctx, []Doc{{ID: 200, Geometry: point(t, 3, 3)}}))
}

func TestReopen(t *testing.T) {
	dir := t.TempDir()
	idx, err := Open(DefaultOptions(dir))
	require.NoError(t, err)
	require.NoError(t, idx.Add(42, parse(t, sfSquare)))
	require.NoError(t, idx.Close())

	idx, err = Open(DefaultOptions(dir))
	require.NoError(t, err)
	got, err := idx.Query(filter(t, geo.QueryTypeContains, point(t, -122.4, 37.8), 0))
	require.NoError(t, err)
	require.Equal(t, []uint64{42}, got)
	require.NoError(t, idx.Close())

	opts := DefaultOptions(dir)
	opts.Geo.MaxCells = 8
	_, err = Open(opts)
	require.Error(t, err)

	_, err = Open(Options{})
	require.Error(t, err)
}

func TestFingerprint(t *testing.T) {
	a, err := Fingerprint(point(t, 1, 2))
	require.NoError(t, err)
	b, err := Fingerprint(point(t, 1, 2))
	require.NoError(t, err)
	c, err := Fingerprint(point(t, 2, 1))
	require.NoError(t, err)
	require.Equal(t, a, b)
	require.NotEqual(t, a, c)
}

func TestKeys(t *testing.T) {
	k := PostingKey("_loc_/89c", 300)
	require.True(t, bytes.HasPrefix(k, TermPrefix("_loc_/89c")))
	require.False(t, bytes.HasPrefix(k, TermPrefix("_loc_/89")))
	require.Equal(t, uint64(300), parsePostingID(k))
	require.Equal(t, ByteGeometry, GeometryKey(1)[0])
	require.Less(t, string(GeometryKey(1)), string(GeometryKey(256)))
}
