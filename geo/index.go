/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"github.com/golang/geo/s2"
	"github.com/golang/glog"
	"github.com/pkg/errors"
)

const (
	// MinCellLevel is the smallest cell level (largest cell size) used by indexing
	MinCellLevel = 5 // Approx 250km x 380km
	// MaxCellLevel is the largest cell level (smallest cell size) used by indexing
	MaxCellLevel = 16 // Approx 120m x 180m
	// MaxCells is the maximum number of cells to use when indexing regions.
	MaxCells = 18

	// IndexPrefix is prepended to every index term.
	IndexPrefix = "_loc_/"
)

// Options configures the coverer behind index and query terms.
type Options struct {
	MinLevel int
	MaxLevel int
	LevelMod int
	MaxCells int
	Prefix   string
	// OptimizeForSpace trades fewer index terms for more query terms.
	OptimizeForSpace bool
}

func DefaultOptions() Options {
	return Options{
		MinLevel: MinCellLevel,
		MaxLevel: MaxCellLevel,
		LevelMod: 1,
		MaxCells: MaxCells,
		Prefix:   IndexPrefix,
	}
}

func (o Options) validate() error {
	switch {
	case o.MinLevel < 0 || o.MaxLevel > s2.MaxLevel:
		return errors.Errorf("levels must be within [0, %d], got [%d, %d]",
			s2.MaxLevel, o.MinLevel, o.MaxLevel)
	case o.MinLevel > o.MaxLevel:
		return errors.Errorf("min level %d is above max level %d", o.MinLevel, o.MaxLevel)
	case o.LevelMod < 1 || o.LevelMod > 3:
		return errors.Errorf("level mod must be within [1, 3], got %d", o.LevelMod)
	case o.MaxCells < 1:
		return errors.Errorf("max cells must be positive, got %d", o.MaxCells)
	}
	return nil
}

// Indexer turns geometries into index and query terms. A document geometry and a query
// geometry share a term whenever they may intersect.
type Indexer struct {
	opts  Options
	terms *RegionTermIndexer
	cache *CoveringCache
}

// NewIndexer returns an indexer for opts. The cache may be nil.
func NewIndexer(opts Options, cache *CoveringCache) (*Indexer, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	terms := NewRegionTermIndexer()
	terms.Coverer = s2.RegionCoverer{
		MinLevel: opts.MinLevel,
		MaxLevel: opts.MaxLevel,
		LevelMod: opts.LevelMod,
		MaxCells: opts.MaxCells,
	}
	terms.OptimizeForSpace = opts.OptimizeForSpace
	return &Indexer{opts: opts, terms: terms, cache: cache}, nil
}

var defaultIndexer *Indexer

func init() {
	var err error
	defaultIndexer, err = NewIndexer(DefaultOptions(), nil)
	if err != nil {
		panic(err)
	}
}

func (ix *Indexer) Options() Options { return ix.opts }

// Coverer returns a copy of the coverer used for terms.
func (ix *Indexer) Coverer() *s2.RegionCoverer {
	rc := ix.terms.Coverer
	return &rc
}

// Covering returns the covering of g, going through the cache when there is one.
func (ix *Indexer) Covering(g *Geometry) s2.CellUnion {
	if ix.cache == nil {
		return ix.covering(g)
	}
	data, err := MarshalWKB(g)
	if err != nil {
		// Not expressible as WKB, e.g. the full polygon.
		return ix.covering(g)
	}
	key := CoveringKey(data, &ix.terms.Coverer)
	if cu, ok := ix.cache.Get(key); ok {
		return cu
	}
	cu := ix.covering(g)
	ix.cache.Set(key, cu)
	return cu
}

func (ix *Indexer) covering(g *Geometry) s2.CellUnion {
	cu := ix.terms.Coverer.Covering(g.Region())
	coveringCells.Observe(float64(len(cu)))
	if glog.V(2) {
		glog.Infof("Covering with %d cells at levels [%d, %d]",
			len(cu), ix.opts.MinLevel, ix.opts.MaxLevel)
	}
	return cu
}

// IndexKeys returns the terms to index for a document geometry.
func (ix *Indexer) IndexKeys(g *Geometry) ([]string, error) {
	if g == nil || g.IsEmpty() {
		return nil, errors.Errorf("Cannot index an empty geometry")
	}
	if g.IsPoint() {
		return ix.terms.IndexTermsForPoint(g.Points[0], ix.opts.Prefix), nil
	}
	return ix.terms.IndexTermsForCanonicalCovering(ix.Covering(g), ix.opts.Prefix), nil
}

// queryKeys returns the terms to look up for a query region.
func (ix *Indexer) queryKeys(g *Geometry) []string {
	if g.IsPoint() {
		return ix.terms.QueryTermsForPoint(g.Points[0], ix.opts.Prefix)
	}
	return ix.terms.QueryTermsForCanonicalCovering(ix.Covering(g), ix.opts.Prefix)
}

// IndexKeys returns the index terms for g with the default options.
func IndexKeys(g *Geometry) ([]string, error) {
	return defaultIndexer.IndexKeys(g)
}
