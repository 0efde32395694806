/*
 * SPDX-FileCopyrightText: © Hypermode Inc. <hello@hypermode.com>
 * SPDX-License-Identifier: Apache-2.0
 */

package cover

import (
	"fmt"
	"io"
	"os"

	"github.com/golang/geo/s2"
	"github.com/golang/glog"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/hypermodeinc/s2geo/geo"
	"github.com/hypermodeinc/s2geo/x"
)

// Cover is the sub-command invoked when running "s2geo cover".
var Cover x.SubCommand

type options struct {
	geojson  string
	minLevel int
	maxLevel int
	levelMod int
	maxCells int
	interior bool
	out      string
}

func init() {
	Cover.Cmd = &cobra.Command{
		Use:   "cover",
		Short: "Compute the cell covering of a GeoJSON geometry",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prof, err := x.StartProfile(Cover.Conf)
			if err != nil {
				return err
			}
			defer prof.Stop()
			opt := options{
				geojson:  Cover.Conf.GetString("geojson"),
				minLevel: Cover.Conf.GetInt("min_level"),
				maxLevel: Cover.Conf.GetInt("max_level"),
				levelMod: Cover.Conf.GetInt("level_mod"),
				maxCells: Cover.Conf.GetInt("max_cells"),
				interior: Cover.Conf.GetBool("interior"),
				out:      Cover.Conf.GetString("out"),
			}
			data, err := os.ReadFile(opt.geojson)
			if err != nil {
				return errors.Wrapf(err, "while reading %s", opt.geojson)
			}
			return run(cmd.OutOrStdout(), data, opt)
		},
	}
	Cover.EnvPrefix = "S2GEO_COVER"

	flag := Cover.Cmd.Flags()
	flag.String("geojson", "", "GeoJSON file holding the geometry to cover.")
	flag.Int("min_level", geo.MinCellLevel, "Minimum cell level.")
	flag.Int("max_level", geo.MaxCellLevel, "Maximum cell level.")
	flag.Int("level_mod", 1, "Only use levels that are min_level plus a multiple of this.")
	flag.Int("max_cells", geo.MaxCells, "Cell budget of the covering.")
	flag.Bool("interior", false, "Compute an interior covering instead.")
	flag.String("out", "tokens", "Output format, one of [tokens, geojson].")
	x.Check(Cover.Cmd.MarkFlagRequired("geojson"))
}

func (o options) coverer() (*s2.RegionCoverer, error) {
	if o.minLevel < 0 || o.maxLevel > s2.MaxLevel || o.minLevel > o.maxLevel {
		return nil, errors.Errorf("invalid level range [%d, %d]", o.minLevel, o.maxLevel)
	}
	if o.levelMod < 1 || o.levelMod > 3 {
		return nil, errors.Errorf("level_mod must be in [1, 3], got %d", o.levelMod)
	}
	if o.maxCells < 1 {
		return nil, errors.Errorf("max_cells must be positive, got %d", o.maxCells)
	}
	return &s2.RegionCoverer{
		MinLevel: o.minLevel,
		MaxLevel: o.maxLevel,
		LevelMod: o.levelMod,
		MaxCells: o.maxCells,
	}, nil
}

func run(w io.Writer, data []byte, opt options) error {
	rc, err := opt.coverer()
	if err != nil {
		return err
	}
	g, err := geo.ParseGeoJSON(data)
	if err != nil {
		return err
	}
	if g.IsEmpty() {
		return errors.New("cannot cover an empty geometry")
	}

	var cu s2.CellUnion
	if opt.interior {
		cu = rc.InteriorCovering(g.Region())
	} else {
		cu = rc.Covering(g.Region())
	}
	glog.V(2).Infof("Covered geometry with %d cells", len(cu))

	switch opt.out {
	case "tokens":
		for _, id := range cu {
			fmt.Fprintln(w, id.ToToken())
		}
		return nil
	case "geojson":
		out, err := geo.CoveringFeatures(cu).MarshalJSON()
		if err != nil {
			return errors.Wrapf(err, "while encoding covering")
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	default:
		return errors.Errorf("unknown output format %q", opt.out)
	}
}
