/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import "github.com/golang/geo/s2"

// DefaultMarkerCharacter distinguishes covering terms from ancestor terms.
const DefaultMarkerCharacter = '$'

// RegionTermIndexer turns regions into string terms for an inverted index, so that a
// document matches a query exactly when their regions may intersect.
//
// A document indexes an ancestor term for every valid ancestor of each covering cell, and a
// covering term for the covering cell itself. A query looks up the ancestor term of each of
// its covering cells and the covering terms of their ancestors. Terms are cell tokens, and
// covering terms carry the marker character before the token.
type RegionTermIndexer struct {
	Coverer s2.RegionCoverer

	// IndexContainsPointsOnly is set when only points are indexed. Documents then need no
	// covering terms and queries need no ancestor terms.
	IndexContainsPointsOnly bool

	// OptimizeForSpace emits fewer index terms at the cost of more query terms.
	OptimizeForSpace bool

	MarkerCharacter byte
}

// NewRegionTermIndexer returns an indexer covering with up to 8 cells at any level.
func NewRegionTermIndexer() *RegionTermIndexer {
	return &RegionTermIndexer{
		Coverer:         s2.RegionCoverer{MinLevel: 0, MaxLevel: s2.MaxLevel, LevelMod: 1, MaxCells: 8},
		MarkerCharacter: DefaultMarkerCharacter,
	}
}

type termType int

const (
	termAncestor termType = iota
	termCovering
)

func (t *RegionTermIndexer) term(typ termType, id s2.CellID, prefix string) string {
	if typ == termAncestor {
		return prefix + id.ToToken()
	}
	marker := t.MarkerCharacter
	if marker == 0 {
		marker = DefaultMarkerCharacter
	}
	return prefix + string(marker) + id.ToToken()
}

// levels returns the coverer levels clamped the way the coverer clamps them. The true max
// level is the deepest level a covering cell can have once LevelMod is applied.
func (t *RegionTermIndexer) levels() (minLevel, trueMaxLevel, levelMod int) {
	minLevel = min(max(t.Coverer.MinLevel, 0), s2.MaxLevel)
	maxLevel := min(max(t.Coverer.MaxLevel, 0), s2.MaxLevel)
	levelMod = min(max(t.Coverer.LevelMod, 1), 3)
	trueMaxLevel = maxLevel
	if levelMod > 1 && maxLevel > minLevel {
		trueMaxLevel -= (maxLevel - minLevel) % levelMod
	}
	return minLevel, trueMaxLevel, levelMod
}

// IndexTermsForPoint returns the terms to index for a point: the ancestor term of every
// valid level up to the true max level.
func (t *RegionTermIndexer) IndexTermsForPoint(p s2.Point, prefix string) []string {
	id := s2.CellFromPoint(p).ID()
	minLevel, maxLevel, mod := t.levels()
	var terms []string
	for level := minLevel; level <= maxLevel; level += mod {
		terms = append(terms, t.term(termAncestor, id.Parent(level), prefix))
	}
	return terms
}

// IndexTerms returns the terms to index for a region.
func (t *RegionTermIndexer) IndexTerms(region s2.Region, prefix string) []string {
	return t.IndexTermsForCanonicalCovering(t.Coverer.Covering(region), prefix)
}

// IndexTermsForCanonicalCovering returns the index terms for a covering produced by the
// indexer's coverer.
func (t *RegionTermIndexer) IndexTermsForCanonicalCovering(covering s2.CellUnion, prefix string) []string {
	minLevel, trueMaxLevel, mod := t.levels()
	var terms []string
	prev := s2.CellID(0)
	for _, id := range covering {
		level := id.Level()
		if level < trueMaxLevel {
			terms = append(terms, t.term(termCovering, id, prefix))
		}
		if level == trueMaxLevel || !t.OptimizeForSpace {
			terms = append(terms, t.term(termAncestor, id, prefix))
		}
		for level -= mod; level >= minLevel; level -= mod {
			ancestor := id.Parent(level)
			if prev != 0 && prev.Level() > level && prev.Parent(level) == ancestor {
				// The remaining ancestors were emitted for the previous cell.
				break
			}
			terms = append(terms, t.term(termAncestor, ancestor, prefix))
		}
		prev = id
	}
	return terms
}

// QueryTermsForPoint returns the terms to look up for a point.
func (t *RegionTermIndexer) QueryTermsForPoint(p s2.Point, prefix string) []string {
	id := s2.CellFromPoint(p).ID()
	minLevel, level, mod := t.levels()
	// Cells at the true max level are only indexed as ancestor terms.
	terms := []string{t.term(termAncestor, id.Parent(level), prefix)}
	if t.IndexContainsPointsOnly {
		return terms
	}
	for ; level >= minLevel; level -= mod {
		terms = append(terms, t.term(termCovering, id.Parent(level), prefix))
	}
	return terms
}

// QueryTerms returns the terms to look up for a region.
func (t *RegionTermIndexer) QueryTerms(region s2.Region, prefix string) []string {
	return t.QueryTermsForCanonicalCovering(t.Coverer.Covering(region), prefix)
}

// QueryTermsForCanonicalCovering returns the query terms for a covering produced by the
// indexer's coverer.
func (t *RegionTermIndexer) QueryTermsForCanonicalCovering(covering s2.CellUnion, prefix string) []string {
	minLevel, trueMaxLevel, mod := t.levels()
	var terms []string
	prev := s2.CellID(0)
	for _, id := range covering {
		level := id.Level()
		terms = append(terms, t.term(termAncestor, id, prefix))
		if t.IndexContainsPointsOnly {
			continue
		}
		if t.OptimizeForSpace && level < trueMaxLevel {
			// Descendant documents have no ancestor term for id, only covering terms.
			terms = append(terms, t.term(termCovering, id, prefix))
		}
		for level -= mod; level >= minLevel; level -= mod {
			ancestor := id.Parent(level)
			if prev != 0 && prev.Level() > level && prev.Parent(level) == ancestor {
				break
			}
			terms = append(terms, t.term(termCovering, ancestor, prefix))
		}
		prev = id
	}
	return terms
}
