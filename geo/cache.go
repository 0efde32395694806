/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package geo

import (
	"encoding/binary"

	"github.com/dgraph-io/ristretto/v2"
	farm "github.com/dgryski/go-farm"
	"github.com/golang/geo/s2"
	"github.com/pkg/errors"
)

// CoveringCache memoizes coverings by a fingerprint of the geometry and coverer options.
// A nil cache is valid and never hits.
type CoveringCache struct {
	cache *ristretto.Cache[uint64, s2.CellUnion]
}

// NewCoveringCache returns a cache holding at most maxCells cells across all entries.
func NewCoveringCache(maxCells int64) (*CoveringCache, error) {
	if maxCells <= 0 {
		return nil, errors.Errorf("covering cache needs a positive size, got %d", maxCells)
	}
	cache, err := ristretto.NewCache(&ristretto.Config[uint64, s2.CellUnion]{
		NumCounters: maxCells * 10,
		MaxCost:     maxCells,
		BufferItems: 64,
		Metrics:     true,
		// Costs count cells, so the per-item bookkeeping overhead stays out.
		IgnoreInternalCost: true,
		Cost: func(cu s2.CellUnion) int64 {
			return int64(len(cu)) + 1
		},
	})
	if err != nil {
		return nil, errors.Wrapf(err, "while creating covering cache")
	}
	return &CoveringCache{cache: cache}, nil
}

// CoveringKey fingerprints the WKB encoding of a geometry together with the coverer
// parameters that produced its covering.
func CoveringKey(wkb []byte, rc *s2.RegionCoverer) uint64 {
	var buf [16]byte
	binary.LittleEndian.PutUint32(buf[0:], uint32(rc.MinLevel))
	binary.LittleEndian.PutUint32(buf[4:], uint32(rc.MaxLevel))
	binary.LittleEndian.PutUint32(buf[8:], uint32(rc.LevelMod))
	binary.LittleEndian.PutUint32(buf[12:], uint32(rc.MaxCells))
	return farm.Fingerprint64(append(buf[:], wkb...))
}

// Get returns the cached covering for key.
func (c *CoveringCache) Get(key uint64) (s2.CellUnion, bool) {
	if c == nil {
		return nil, false
	}
	cu, ok := c.cache.Get(key)
	if ok {
		coveringCacheHits.Inc()
	} else {
		coveringCacheMisses.Inc()
	}
	return cu, ok
}

// Set stores a covering. The write is asynchronous and may be dropped.
func (c *CoveringCache) Set(key uint64, cu s2.CellUnion) {
	if c == nil {
		return
	}
	c.cache.Set(key, cu, 0)
}

// Wait blocks until pending writes are applied.
func (c *CoveringCache) Wait() {
	if c == nil {
		return
	}
	c.cache.Wait()
}

// HitRatio returns the fraction of lookups that hit.
func (c *CoveringCache) HitRatio() float64 {
	if c == nil {
		return 0
	}
	return c.cache.Metrics.Ratio()
}

func (c *CoveringCache) Close() {
	if c == nil {
		return
	}
	c.cache.Close()
}
