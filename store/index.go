/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

// Package store keeps geometries in badger together with an inverted index of their
// covering terms, and answers geo filters by term lookup followed by exact matching.
package store

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/dgraph-io/badger/v4"
	farm "github.com/dgryski/go-farm"
	"github.com/golang/glog"
	"github.com/golang/snappy"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/hypermodeinc/s2geo/geo"
	"github.com/hypermodeinc/s2geo/x"
)

// ErrNotFound is returned for ids with no stored geometry.
var ErrNotFound = errors.New("geometry not found")

var metaKey = []byte{0x03, 'o', 'p', 't', 's'}

type Options struct {
	Dir        string
	InMemory   bool
	SyncWrites bool
	Geo        geo.Options
	// CacheCells bounds the covering cache, counted in cells. Zero disables it.
	CacheCells int64
	// Concurrency is the number of documents BulkAdd prepares at once.
	Concurrency int
}

func DefaultOptions(dir string) Options {
	return Options{
		Dir:         dir,
		Geo:         geo.DefaultOptions(),
		CacheCells:  1 << 16,
		Concurrency: runtime.NumCPU(),
	}
}

// Doc is a geometry with the id it is stored under.
type Doc struct {
	ID       uint64
	Geometry *geo.Geometry
}

// Index is a persistent geo index.
type Index struct {
	db    *badger.DB
	ix    *geo.Indexer
	cache *geo.CoveringCache
	opts  Options
}

// Open opens or creates the index. An existing index must have been built with the same
// geo options.
func Open(opts Options) (*Index, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.Errorf("Index directory is required unless in memory")
	}
	var cache *geo.CoveringCache
	if opts.CacheCells > 0 {
		var err error
		if cache, err = geo.NewCoveringCache(opts.CacheCells); err != nil {
			return nil, err
		}
	}
	ix, err := geo.NewIndexer(opts.Geo, cache)
	if err != nil {
		cache.Close()
		return nil, err
	}

	bopts := badger.DefaultOptions(opts.Dir).
		WithSyncWrites(opts.SyncWrites).
		WithLogger(&x.ToGlog{})
	if opts.InMemory {
		bopts = bopts.WithDir("").WithValueDir("").WithInMemory(true)
	}
	db, err := badger.Open(bopts)
	if err != nil {
		cache.Close()
		return nil, errors.Wrapf(err, "while opening badger at %q", opts.Dir)
	}
	idx := &Index{db: db, ix: ix, cache: cache, opts: opts}
	if err := idx.checkOptions(); err != nil {
		x.Ignore(idx.Close())
		return nil, err
	}
	glog.Infof("Opened geo index at %q with levels [%d, %d], max cells %d",
		opts.Dir, opts.Geo.MinLevel, opts.Geo.MaxLevel, opts.Geo.MaxCells)
	return idx, nil
}

func optionsString(o geo.Options) string {
	return fmt.Sprintf("min=%d max=%d mod=%d cells=%d space=%t prefix=%q",
		o.MinLevel, o.MaxLevel, o.LevelMod, o.MaxCells, o.OptimizeForSpace, o.Prefix)
}

// checkOptions records the geo options of a new index and rejects a mismatch on reopen,
// since terms written under other options would be unreachable.
func (i *Index) checkOptions() error {
	want := optionsString(i.opts.Geo)
	return i.db.Update(func(txn *badger.Txn) error {
		item, err := txn.Get(metaKey)
		if err == badger.ErrKeyNotFound {
			return txn.Set(metaKey, []byte(want))
		}
		if err != nil {
			return err
		}
		got, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}
		if string(got) != want {
			return errors.Errorf("Index was built with %s, cannot open with %s", got, want)
		}
		return nil
	})
}

func (i *Index) Close() error {
	i.cache.Close()
	glog.Infof("Closing geo index at %q", i.opts.Dir)
	return i.db.Close()
}

// Indexer returns the indexer that produces this index's terms.
func (i *Index) Indexer() *geo.Indexer { return i.ix }

// Fingerprint returns an id derived from the geometry, for documents without one.
func Fingerprint(g *geo.Geometry) (uint64, error) {
	data, err := geo.MarshalWKB(g)
	if err != nil {
		return 0, err
	}
	return farm.Fingerprint64(data), nil
}

func encodeGeometry(g *geo.Geometry) ([]byte, error) {
	data, err := geo.MarshalWKB(g)
	if err != nil {
		return nil, err
	}
	return snappy.Encode(nil, data), nil
}

func decodeGeometry(val []byte) (*geo.Geometry, error) {
	data, err := snappy.Decode(nil, val)
	if err != nil {
		return nil, errors.Wrapf(err, "while decompressing geometry")
	}
	return geo.ParseWKB(data)
}

type prepared struct {
	id    uint64
	val   []byte
	terms []string
}

func (i *Index) prepare(d Doc) (*prepared, error) {
	if d.Geometry == nil || d.Geometry.IsEmpty() {
		return nil, errors.Errorf("Cannot add an empty geometry")
	}
	val, err := encodeGeometry(d.Geometry)
	if err != nil {
		return nil, err
	}
	// Terms come from the stored form so that removal derives exactly the same set.
	stored, err := decodeGeometry(val)
	if err != nil {
		return nil, err
	}
	terms, err := i.ix.IndexKeys(stored)
	if err != nil {
		return nil, err
	}
	return &prepared{id: d.ID, val: val, terms: terms}, nil
}

// removeDoc deletes the geometry of id and its postings within txn.
func (i *Index) removeDoc(txn *badger.Txn, id uint64) error {
	item, err := txn.Get(GeometryKey(id))
	if err == badger.ErrKeyNotFound {
		return ErrNotFound
	}
	if err != nil {
		return err
	}
	val, err := item.ValueCopy(nil)
	if err != nil {
		return err
	}
	g, err := decodeGeometry(val)
	if err != nil {
		return errors.Wrapf(err, "stored geometry %d", id)
	}
	terms, err := i.ix.IndexKeys(g)
	if err != nil {
		return err
	}
	for _, t := range terms {
		if err := txn.Delete(PostingKey(t, id)); err != nil {
			return err
		}
	}
	return txn.Delete(GeometryKey(id))
}

func (i *Index) write(p *prepared) error {
	return i.db.Update(func(txn *badger.Txn) error {
		if err := i.removeDoc(txn, p.id); err != nil && err != ErrNotFound {
			return err
		}
		if err := txn.Set(GeometryKey(p.id), p.val); err != nil {
			return err
		}
		for _, t := range p.terms {
			if err := txn.Set(PostingKey(t, p.id), []byte{}); err != nil {
				return err
			}
		}
		return nil
	})
}

// Add stores g under id, replacing any geometry already stored there.
func (i *Index) Add(id uint64, g *geo.Geometry) error {
	p, err := i.prepare(Doc{ID: id, Geometry: g})
	if err != nil {
		return err
	}
	if err := i.write(p); err != nil {
		return errors.Wrapf(err, "while adding %d", id)
	}
	writesTotal.WithLabelValues("add").Inc()
	return nil
}

// BulkAdd adds docs concurrently. Ids must be distinct. Documents written before an error
// stay written.
func (i *Index) BulkAdd(ctx context.Context, docs []Doc) error {
	seen := make(map[uint64]struct{}, len(docs))
	for _, d := range docs {
		if _, ok := seen[d.ID]; ok {
			return errors.Errorf("Duplicate id %d in bulk add", d.ID)
		}
		seen[d.ID] = struct{}{}
	}

	start := time.Now()
	g, ctx := errgroup.WithContext(ctx)
	if i.opts.Concurrency > 0 {
		g.SetLimit(i.opts.Concurrency)
	}
	for _, d := range docs {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			p, err := i.prepare(d)
			if err != nil {
				return errors.Wrapf(err, "document %d", d.ID)
			}
			if err := i.write(p); err != nil {
				return errors.Wrapf(err, "while adding %d", d.ID)
			}
			writesTotal.WithLabelValues("add").Inc()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		glog.Errorf("Bulk add of %d documents failed: %v", len(docs), err)
		return err
	}
	glog.Infof("Added %d documents in %s", len(docs), time.Since(start).Round(time.Millisecond))
	return nil
}

// Delete removes the geometry stored under id.
func (i *Index) Delete(id uint64) error {
	err := i.db.Update(func(txn *badger.Txn) error {
		return i.removeDoc(txn, id)
	})
	if err != nil {
		return err
	}
	writesTotal.WithLabelValues("delete").Inc()
	return nil
}

// Get returns the geometry stored under id.
func (i *Index) Get(id uint64) (*geo.Geometry, error) {
	var g *geo.Geometry
	err := i.db.View(func(txn *badger.Txn) error {
		var err error
		g, err = i.get(txn, id)
		return err
	})
	return g, err
}

func (i *Index) get(txn *badger.Txn, id uint64) (*geo.Geometry, error) {
	item, err := txn.Get(GeometryKey(id))
	if err == badger.ErrKeyNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	var g *geo.Geometry
	err = item.Value(func(val []byte) error {
		g, err = decodeGeometry(val)
		return err
	})
	return g, err
}

// Len returns the number of stored geometries.
func (i *Index) Len() (int, error) {
	var n int
	err := i.db.View(func(txn *badger.Txn) error {
		iopt := badger.DefaultIteratorOptions
		iopt.PrefetchValues = false
		iopt.Prefix = []byte{ByteGeometry}
		it := txn.NewIterator(iopt)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			n++
		}
		return nil
	})
	return n, err
}

// Query returns the sorted ids of the geometries matching f.
func (i *Index) Query(f *geo.Filter) ([]uint64, error) {
	start := time.Now()
	tokens, qd, err := i.ix.QueryTokens(f)
	if err != nil {
		return nil, err
	}

	var result []uint64
	err = i.db.View(func(txn *badger.Txn) error {
		iopt := badger.DefaultIteratorOptions
		iopt.PrefetchValues = false
		it := txn.NewIterator(iopt)
		defer it.Close()

		lists := make([][]uint64, 0, len(tokens))
		for _, t := range tokens {
			prefix := TermPrefix(t)
			var ids []uint64
			for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
				ids = append(ids, parsePostingID(it.Item().Key()))
			}
			if len(ids) > 0 {
				lists = append(lists, ids)
			}
		}
		candidates := x.MergeSorted(lists)
		queryCandidates.Add(float64(len(candidates)))

		result = make([]uint64, 0, len(candidates))
		for _, id := range candidates {
			g, err := i.get(txn, id)
			if err == ErrNotFound {
				glog.Warningf("Posting for %d has no geometry", id)
				continue
			}
			if err != nil {
				return errors.Wrapf(err, "candidate %d", id)
			}
			if qd.MatchesFilter(g) {
				result = append(result, id)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	queryMatches.Add(float64(len(result)))
	queryLatency.WithLabelValues(f.Type.String()).Observe(time.Since(start).Seconds())
	if glog.V(2) {
		glog.Infof("%s query: %d terms, %d matches in %s",
			f.Type, len(tokens), len(result), time.Since(start))
	}
	return result, nil
}
