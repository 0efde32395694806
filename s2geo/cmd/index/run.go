/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package index

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/golang/glog"
	geojson "github.com/paulmach/go.geojson"
	"github.com/pkg/errors"
	"github.com/spf13/cast"
	"github.com/spf13/cobra"

	"github.com/hypermodeinc/s2geo/geo"
	"github.com/hypermodeinc/s2geo/store"
	"github.com/hypermodeinc/s2geo/x"
)

// Index is the sub-command invoked when running "s2geo index".
var Index x.SubCommand

// GeoDefaults are the defaults of the --geo super flag.
const GeoDefaults = `min-level=5; max-level=16; level-mod=1; max-cells=18; ` +
	`optimize-for-space=false; prefix=_loc_/`

type options struct {
	dir      string
	geo      string
	add      string
	del      []uint64
	query    string
	qtype    string
	distance float64
	cache    int64
}

func init() {
	Index.Cmd = &cobra.Command{
		Use:   "index",
		Short: "Add geometries to a persistent geo index and query it",
		Long: `
Index opens the geo index in --dir, creating it when missing. Geometries in --add are
indexed first, ids in --delete are removed next, and the geometry in --query is evaluated
last. The index must always be opened with the --geo options it was created with.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := x.StartProfile(Index.Conf)
			if err != nil {
				return err
			}
			defer prof.Stop()
			var del []uint64
			for _, s := range Index.GetStringSliceP("delete", "", nil) {
				id, err := cast.ToUint64E(s)
				if err != nil {
					return errors.Wrapf(err, "while parsing --delete")
				}
				del = append(del, id)
			}
			opt := options{
				dir:      Index.Conf.GetString("dir"),
				geo:      Index.Conf.GetString("geo"),
				add:      Index.Conf.GetString("add"),
				del:      del,
				query:    Index.Conf.GetString("query"),
				qtype:    Index.Conf.GetString("type"),
				distance: Index.Conf.GetFloat64("distance"),
				cache:    Index.Conf.GetInt64("cache_cells"),
			}
			return run(cmd.Context(), cmd.OutOrStdout(), opt)
		},
	}
	Index.EnvPrefix = "S2GEO_INDEX"

	flag := Index.Cmd.Flags()
	flag.String("dir", "", "Directory of the index.")
	flag.String("geo", GeoDefaults, "Covering options of the index, as \"key=value; ...\".")
	flag.String("add", "", "GeoJSON file of geometries to add. Features with a numeric id "+
		"keep it, other geometries are keyed by their fingerprint.")
	flag.StringSlice("delete", nil, "Ids to delete.")
	flag.String("query", "", "GeoJSON file holding the query geometry.")
	flag.String("type", "intersects", "Query type, one of [within, contains, intersects, near].")
	flag.Float64("distance", 0, "Maximum distance in meters for near queries.")
	flag.Int64("cache_cells", 1<<16, "Size of the covering cache in cells. Zero disables it.")
	x.Check(Index.Cmd.MarkFlagRequired("dir"))
}

func geoOptions(s string) (geo.Options, error) {
	sf, err := x.ParseSuperFlag(s, GeoDefaults)
	if err != nil {
		return geo.Options{}, err
	}
	var o geo.Options
	for _, f := range []struct {
		key string
		dst *int
	}{
		{"min-level", &o.MinLevel},
		{"max-level", &o.MaxLevel},
		{"level-mod", &o.LevelMod},
		{"max-cells", &o.MaxCells},
	} {
		if *f.dst, err = sf.GetInt(f.key); err != nil {
			return geo.Options{}, err
		}
	}
	if o.OptimizeForSpace, err = sf.GetBool("optimize-for-space"); err != nil {
		return geo.Options{}, err
	}
	o.Prefix = sf.Get("prefix")
	return o, nil
}

// readDocs returns one document per feature of a FeatureCollection, or a single document
// for any other GeoJSON geometry.
func readDocs(data []byte) ([]store.Doc, error) {
	var docs []store.Doc
	add := func(id uint64, g *geo.Geometry) error {
		if id == 0 {
			fp, err := store.Fingerprint(g)
			if err != nil {
				return err
			}
			id = fp
		}
		docs = append(docs, store.Doc{ID: id, Geometry: g})
		return nil
	}

	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil || fc.Type != "FeatureCollection" {
		g, err := geo.ParseGeoJSON(data)
		if err != nil {
			return nil, err
		}
		return docs, add(0, g)
	}
	for i, f := range fc.Features {
		if f.Geometry == nil {
			glog.Warningf("Skipping feature %d without geometry", i)
			continue
		}
		raw, err := json.Marshal(f.Geometry)
		if err != nil {
			return nil, errors.Wrapf(err, "while encoding feature %d", i)
		}
		g, err := geo.ParseGeoJSON(raw)
		if err != nil {
			return nil, errors.Wrapf(err, "feature %d", i)
		}
		id, err := cast.ToUint64E(f.ID)
		if err != nil {
			id = 0
		}
		if err := add(id, g); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// dedupe keeps the last document of every id.
func dedupe(docs []store.Doc) []store.Doc {
	last := make(map[uint64]int, len(docs))
	for i, d := range docs {
		last[d.ID] = i
	}
	out := docs[:0]
	for i, d := range docs {
		if last[d.ID] != i {
			glog.Warningf("Id %d appears more than once, keeping the last geometry", d.ID)
			continue
		}
		out = append(out, d)
	}
	return out
}

func run(ctx context.Context, w io.Writer, opt options) error {
	if ctx == nil {
		ctx = context.Background()
	}
	gopts, err := geoOptions(opt.geo)
	if err != nil {
		return err
	}
	sopts := store.DefaultOptions(opt.dir)
	sopts.Geo = gopts
	sopts.CacheCells = opt.cache
	idx, err := store.Open(sopts)
	if err != nil {
		return err
	}
	defer func() {
		if err := idx.Close(); err != nil {
			glog.Errorf("While closing index: %v", err)
		}
	}()

	if opt.add != "" {
		data, err := os.ReadFile(opt.add)
		if err != nil {
			return errors.Wrapf(err, "while reading %s", opt.add)
		}
		docs, err := readDocs(data)
		if err != nil {
			return errors.Wrapf(err, "while parsing %s", opt.add)
		}
		docs = dedupe(docs)
		if err := idx.BulkAdd(ctx, docs); err != nil {
			return err
		}
		glog.Infof("Added %s documents from %s", humanize.Comma(int64(len(docs))), opt.add)
		for _, d := range docs {
			fmt.Fprintf(w, "added %d\n", d.ID)
		}
	}

	for _, id := range opt.del {
		if err := idx.Delete(id); err != nil {
			return errors.Wrapf(err, "while deleting %d", id)
		}
		fmt.Fprintf(w, "deleted %d\n", id)
	}

	if opt.query != "" {
		data, err := os.ReadFile(opt.query)
		if err != nil {
			return errors.Wrapf(err, "while reading %s", opt.query)
		}
		g, err := geo.ParseGeoJSON(data)
		if err != nil {
			return errors.Wrapf(err, "while parsing %s", opt.query)
		}
		qt, err := geo.ParseQueryType(opt.qtype)
		if err != nil {
			return err
		}
		f, err := geo.NewFilter(qt, g, opt.distance)
		if err != nil {
			return err
		}
		ids, err := idx.Query(f)
		if err != nil {
			return err
		}
		for _, id := range ids {
			fmt.Fprintf(w, "match %d\n", id)
		}
	}

	n, err := idx.Len()
	if err != nil {
		return err
	}
	glog.V(2).Infof("Index at %s holds %s documents", opt.dir, humanize.Comma(int64(n)))
	fmt.Fprintf(w, "documents %d\n", n)
	return nil
}
