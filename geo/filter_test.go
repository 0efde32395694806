/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func queryData(t *testing.T, typ QueryType, query string, maxDistance float64) *QueryData {
	t.Helper()
	f, err := NewFilter(typ, mustParse(t, query), maxDistance)
	require.NoError(t, err)
	_, qd, err := QueryTokens(f)
	require.NoError(t, err)
	require.Equal(t, typ, qd.Type())
	return qd
}

const (
	sfCenter   = `{"type":"Point","coordinates":[-122.4,37.8]}`
	oakland    = `{"type":"Point","coordinates":[-122.2,37.8]}`
	innerBox   = `{"type":"Polygon","coordinates":[[[-122.45,37.75],[-122.35,37.75],[-122.35,37.85],[-122.45,37.85],[-122.45,37.75]]]}`
	innerLine  = `{"type":"LineString","coordinates":[[-122.45,37.8],[-122.35,37.8]]}`
	crossLine  = `{"type":"LineString","coordinates":[[-122.4,37.8],[-122.1,37.8]]}`
	farLine    = `{"type":"LineString","coordinates":[[-121.0,37.0],[-121.1,37.1]]}`
	eastBox    = `{"type":"Polygon","coordinates":[[[-122.35,37.75],[-122.25,37.75],[-122.25,37.85],[-122.35,37.85],[-122.35,37.75]]]}`
	farawayBox = `{"type":"Polygon","coordinates":[[[10,10],[11,10],[11,11],[10,11],[10,10]]]}`
)

func TestMatchesWithin(t *testing.T) {
	q := queryData(t, QueryTypeWithin, sfSquare, 0)
	tests := []struct {
		doc  string
		want bool
	}{
		{sfCenter, true},
		{oakland, false},
		{innerBox, true},
		{innerLine, true},
		{crossLine, false},
		{eastBox, false},
		{farawayBox, false},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, q.MatchesFilter(mustParse(t, tc.doc)), tc.doc)
	}

	// Within a point is equality.
	pq := queryData(t, QueryTypeWithin, sfCenter, 0)
	require.True(t, pq.MatchesFilter(mustParse(t, sfCenter)))
	require.False(t, pq.MatchesFilter(mustParse(t, oakland)))
}

func TestMatchesContains(t *testing.T) {
	q := queryData(t, QueryTypeContains, sfCenter, 0)
	require.True(t, q.MatchesFilter(mustParse(t, sfSquare)))
	require.False(t, q.MatchesFilter(mustParse(t, eastBox)))
	require.True(t, q.MatchesFilter(mustParse(t, sfCenter)))

	bq := queryData(t, QueryTypeContains, innerBox, 0)
	require.True(t, bq.MatchesFilter(mustParse(t, sfSquare)))
	require.False(t, bq.MatchesFilter(mustParse(t, innerLine)))
	require.False(t, bq.MatchesFilter(mustParse(t, farawayBox)))
}

func TestMatchesIntersects(t *testing.T) {
	q := queryData(t, QueryTypeIntersects, sfSquare, 0)
	tests := []struct {
		doc  string
		want bool
	}{
		{sfCenter, true},
		{oakland, false},
		{crossLine, true},
		{farLine, false},
		{eastBox, true},
		{farawayBox, false},
	}
	for _, tc := range tests {
		require.Equal(t, tc.want, q.MatchesFilter(mustParse(t, tc.doc)), tc.doc)
	}

	lq := queryData(t, QueryTypeIntersects, crossLine, 0)
	require.True(t, lq.MatchesFilter(mustParse(t, sfCenter)))
	require.True(t, lq.MatchesFilter(mustParse(t, eastBox)))
	require.False(t, lq.MatchesFilter(mustParse(t, farawayBox)))
}

func TestMatchesNear(t *testing.T) {
	q := queryData(t, QueryTypeNear, sfCenter, 1000)
	require.True(t, q.MatchesFilter(mustParse(t, `{"type":"Point","coordinates":[-122.4,37.805]}`)))
	require.False(t, q.MatchesFilter(mustParse(t, `{"type":"Point","coordinates":[-122.4,37.82]}`)))
	require.True(t, q.MatchesFilter(mustParse(t, sfSquare)))
	require.True(t, q.MatchesFilter(mustParse(t, innerLine)))
	require.False(t, q.MatchesFilter(mustParse(t, farLine)))

	// The east box ends 0.05 degrees of longitude away, about 4.4 km at this latitude.
	eq := queryData(t, QueryTypeNear, oakland, 9000)
	require.True(t, eq.MatchesFilter(mustParse(t, eastBox)))
	eq = queryData(t, QueryTypeNear, oakland, 4000)
	require.False(t, eq.MatchesFilter(mustParse(t, eastBox)))
	require.False(t, eq.MatchesFilter(&Geometry{}))
}

func TestQueryTokensErrors(t *testing.T) {
	poly, err := NewFilter(QueryTypeNear, mustParse(t, sfSquare), 100)
	require.NoError(t, err)
	_, _, err = QueryTokens(poly)
	require.Error(t, err)

	zero, err := NewFilter(QueryTypeNear, mustParse(t, sfCenter), 0)
	require.NoError(t, err)
	_, _, err = QueryTokens(zero)
	require.Error(t, err)

	_, _, err = QueryTokens(&Filter{Type: QueryTypeWithin, Data: []byte("junk")})
	require.Error(t, err)
	_, _, err = QueryTokens(&Filter{Type: QueryType(9), Data: poly.Data})
	require.Error(t, err)
	_, _, err = QueryTokens(nil)
	require.Error(t, err)
}

func TestParseQueryType(t *testing.T) {
	for _, typ := range []QueryType{QueryTypeWithin, QueryTypeContains, QueryTypeIntersects, QueryTypeNear} {
		got, err := ParseQueryType(typ.String())
		require.NoError(t, err)
		require.Equal(t, typ, got)
	}
	got, err := ParseQueryType(" Near ")
	require.NoError(t, err)
	require.Equal(t, QueryTypeNear, got)
	_, err = ParseQueryType("touches")
	require.Error(t, err)
}
