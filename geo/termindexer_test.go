/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"
	"github.com/stretchr/testify/require"
)

func newTermIndexer(optimizeForSpace bool, minLevel, maxLevel, levelMod int) *RegionTermIndexer {
	ti := NewRegionTermIndexer()
	ti.Coverer.MinLevel = minLevel
	ti.Coverer.MaxLevel = maxLevel
	ti.Coverer.LevelMod = levelMod
	ti.OptimizeForSpace = optimizeForSpace
	return ti
}

func randomCap(r *rand.Rand) (s2.Point, s2.Cap, float64, float64) {
	lng, lat := r.Float64()*300-150, r.Float64()*100-50
	center := ll(lng, lat)
	return center, s2.CapFromCenterAngle(center, s1.Angle(r.Float64()*0.05)), lng, lat
}

func nearby(r *rand.Rand, lng, lat float64) s2.Point {
	return ll(lng+r.Float64()*8-4, lat+r.Float64()*8-4)
}

func lngLatSquare(lng0, lat0, lng1, lat1 float64) *s2.Polygon {
	return s2.PolygonFromLoops([]*s2.Loop{s2.LoopFromPoints([]s2.Point{
		ll(lng0, lat0), ll(lng1, lat0), ll(lng1, lat1), ll(lng0, lat1),
	})})
}

// A region document matches a point query exactly when the document covering contains the
// point.
func TestTermIndexerRegionsAndPoints(t *testing.T) {
	r := rand.New(rand.NewSource(13))
	for _, opt := range []bool{false, true} {
		for _, mod := range []int{1, 2} {
			ti := newTermIndexer(opt, 4, 16, mod)
			for i := 0; i < 20; i++ {
				center, region, lng, lat := randomCap(r)
				covering := ti.Coverer.Covering(region)
				docTerms := ti.IndexTermsForCanonicalCovering(covering, "")
				require.Equal(t, docTerms, ti.IndexTerms(region, ""))

				for j := 0; j < 20; j++ {
					p := nearby(r, lng, lat)
					query := ti.QueryTermsForPoint(p, "")
					require.Equal(t, covering.ContainsPoint(p), shared(docTerms, query),
						"optimize %v mod %d", opt, mod)
				}
				require.True(t, shared(docTerms, ti.QueryTermsForPoint(center, "")))
			}
		}
	}
}

// A point document matches a region query exactly when the query covering contains it.
func TestTermIndexerPointDocuments(t *testing.T) {
	r := rand.New(rand.NewSource(17))
	for _, opt := range []bool{false, true} {
		ti := newTermIndexer(opt, 2, 20, 1)
		ti.IndexContainsPointsOnly = true
		for i := 0; i < 20; i++ {
			_, region, lng, lat := randomCap(r)
			covering := ti.Coverer.Covering(region)
			query := ti.QueryTermsForCanonicalCovering(covering, "")
			require.Equal(t, query, ti.QueryTerms(region, ""))
			for j := 0; j < 20; j++ {
				p := nearby(r, lng, lat)
				doc := ti.IndexTermsForPoint(p, "")
				require.Equal(t, covering.ContainsPoint(p), shared(doc, query))
			}
		}
	}
}

func TestTermIndexerRegionQueries(t *testing.T) {
	ti := newTermIndexer(false, 0, 16, 1)
	docTerms := ti.IndexTerms(lngLatSquare(0, 0, 2, 2), "")
	require.True(t, shared(docTerms, ti.QueryTerms(lngLatSquare(1, 1, 3, 3), "")))
	require.False(t, shared(docTerms, ti.QueryTerms(lngLatSquare(40, 40, 42, 42), "")))
}

func TestTermIndexerLevels(t *testing.T) {
	ti := newTermIndexer(false, 4, 17, 3)
	minLevel, trueMax, mod := ti.levels()
	require.Equal(t, 4, minLevel)
	require.Equal(t, 16, trueMax)
	require.Equal(t, 3, mod)

	ti = newTermIndexer(false, -2, 40, 9)
	minLevel, trueMax, mod = ti.levels()
	require.Equal(t, 0, minLevel)
	require.Equal(t, s2.MaxLevel, trueMax)
	require.Equal(t, 3, mod)
}

func TestTermIndexerTerms(t *testing.T) {
	ti := newTermIndexer(false, 4, 10, 1)
	p := ll(34, 12)
	terms := ti.IndexTermsForPoint(p, "geo:")
	require.Len(t, terms, 7)
	id := s2.CellFromPoint(p).ID()
	for i, term := range terms {
		require.Equal(t, "geo:"+id.Parent(4+i).ToToken(), term)
	}

	query := ti.QueryTermsForPoint(p, "geo:")
	require.Equal(t, "geo:"+id.Parent(10).ToToken(), query[0])
	for _, term := range query[1:] {
		require.True(t, strings.HasPrefix(term, "geo:$"), term)
	}

	ti.MarkerCharacter = '#'
	query = ti.QueryTermsForPoint(p, "")
	require.Equal(t, "#"+id.Parent(10).ToToken(), query[1])

	ti.IndexContainsPointsOnly = true
	require.Len(t, ti.QueryTermsForPoint(p, ""), 1)
}
